package field

import "sync"

// LiveTracker holds the shared analysis state for service mode: the
// projected tag poses and a histogram fed by live pose telemetry. It is
// safe for concurrent use by the MQTT callback and the HTTP handlers.
type LiveTracker struct {
	mu       sync.RWMutex
	tags     []TagPose2D
	hist     *BearingHistogram
	lastTime float64
	lastPose Pose2D
	hasPose  bool
	messages int
}

// NewLiveTracker creates a tracker accumulating into the given histogram.
// The histogram may already hold offline trajectory totals; live updates
// add on top of them.
func NewLiveTracker(tags []TagPose2D, hist *BearingHistogram) *LiveTracker {
	return &LiveTracker{
		tags: tags,
		hist: hist,
	}
}

// Update accumulates one live pose message. Elapsed time is measured
// against the previous message's timestamp; the first message is
// measured against zero, same as the first sample of a trajectory.
func (t *LiveTracker) Update(msg PoseMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	dt := msg.T - t.lastTime
	t.lastTime = msg.T
	t.lastPose = msg.Pose()
	t.hasPose = true
	t.messages++

	t.hist.AccumulateSample(t.lastPose, dt, t.tags)
}

// Snapshot returns a copy of the current histogram.
func (t *LiveTracker) Snapshot() *BearingHistogram {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.hist.Clone()
}

// LastPose returns the most recent robot pose and whether one was seen.
func (t *LiveTracker) LastPose() (Pose2D, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastPose, t.hasPose
}

// MessageCount returns the number of pose messages accumulated.
func (t *LiveTracker) MessageCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.messages
}

// Tags returns the projected tag poses the tracker accumulates against.
func (t *LiveTracker) Tags() []TagPose2D {
	return t.tags
}
