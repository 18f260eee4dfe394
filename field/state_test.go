package field

import (
	"math"
	"sync"
	"testing"
)

func trackerFixture(t *testing.T) *LiveTracker {
	t.Helper()
	tags := []TagPose2D{
		{ID: 1, Pose: Pose2D{X: 5, Y: 0, Heading: math.Pi}},
	}
	hist, err := NewBearingHistogram(10)
	if err != nil {
		t.Fatal(err)
	}
	return NewLiveTracker(tags, hist)
}

func TestLiveTrackerUpdate(t *testing.T) {
	tracker := trackerFixture(t)

	// First message is measured against time zero.
	tracker.Update(PoseMessage{T: 1.0, X: 0, Y: 0, Heading: 0})
	snap := tracker.Snapshot()
	if !almostEqual(snap.Buckets[0], 1.0) {
		t.Errorf("bucket 0 after first message = %v, want 1.0", snap.Buckets[0])
	}

	tracker.Update(PoseMessage{T: 1.5, X: 0, Y: 0, Heading: 0})
	snap = tracker.Snapshot()
	if !almostEqual(snap.Buckets[0], 1.5) {
		t.Errorf("bucket 0 after second message = %v, want 1.5", snap.Buckets[0])
	}

	if tracker.MessageCount() != 2 {
		t.Errorf("MessageCount = %d, want 2", tracker.MessageCount())
	}

	pose, ok := tracker.LastPose()
	if !ok {
		t.Fatal("LastPose reports no pose seen")
	}
	if pose.X != 0 || pose.Heading != 0 {
		t.Errorf("LastPose = %+v", pose)
	}
}

func TestLiveTrackerNoPose(t *testing.T) {
	tracker := trackerFixture(t)
	if _, ok := tracker.LastPose(); ok {
		t.Error("LastPose reports a pose before any update")
	}
	if tracker.MessageCount() != 0 {
		t.Errorf("MessageCount = %d, want 0", tracker.MessageCount())
	}
}

func TestLiveTrackerSnapshotIsolation(t *testing.T) {
	tracker := trackerFixture(t)
	tracker.Update(PoseMessage{T: 1.0})

	snap := tracker.Snapshot()
	snap.Buckets[0] = 99

	if almostEqual(tracker.Snapshot().Buckets[0], 99) {
		t.Error("Snapshot shares bucket storage with the tracker")
	}
}

func TestLiveTrackerSeededHistogram(t *testing.T) {
	tags := []TagPose2D{
		{ID: 1, Pose: Pose2D{X: 5, Y: 0, Heading: math.Pi}},
	}
	hist, err := NewBearingHistogram(10)
	if err != nil {
		t.Fatal(err)
	}
	hist.Buckets[0] = 4.0 // offline totals carried into live mode

	tracker := NewLiveTracker(tags, hist)
	tracker.Update(PoseMessage{T: 0.5})

	if !almostEqual(tracker.Snapshot().Buckets[0], 4.5) {
		t.Errorf("bucket 0 = %v, want 4.5", tracker.Snapshot().Buckets[0])
	}
}

func TestLiveTrackerConcurrentAccess(t *testing.T) {
	tracker := trackerFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(base float64) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				tracker.Update(PoseMessage{T: base + float64(j)*0.01})
			}
		}(float64(i))
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				tracker.Snapshot()
				tracker.LastPose()
				tracker.MessageCount()
			}
		}()
	}
	wg.Wait()

	if tracker.MessageCount() != 200 {
		t.Errorf("MessageCount = %d, want 200", tracker.MessageCount())
	}
}
