package field

import (
	"fmt"
	"math"
)

// DefaultSliceDegrees is the default angular bucket width.
const DefaultSliceDegrees = 10.0

// BearingHistogram accumulates time spent per relative-bearing bucket.
// Bucket i covers [i*slice, (i+1)*slice) degrees of relative bearing,
// with bucket 0 starting dead ahead of the robot.
type BearingHistogram struct {
	SliceDegrees float64   `json:"sliceDegrees"`
	Buckets      []float64 `json:"buckets"`
}

// NewBearingHistogram creates a histogram with floor(360/slice) buckets,
// all zero. The bucket count is fixed for the histogram's lifetime.
func NewBearingHistogram(sliceDegrees float64) (*BearingHistogram, error) {
	if sliceDegrees <= 0 || sliceDegrees > 360 {
		return nil, fmt.Errorf("slice size must be in (0, 360], got %v", sliceDegrees)
	}
	count := int(math.Floor(360.0 / sliceDegrees))
	return &BearingHistogram{
		SliceDegrees: sliceDegrees,
		Buckets:      make([]float64, count),
	}, nil
}

// sliceRadians returns the bucket width in radians.
func (h *BearingHistogram) sliceRadians() float64 {
	return h.SliceDegrees * math.Pi / 180
}

// Add accumulates dt seconds into the bucket for the given relative
// bearing (radians, already normalized or not). An index at or past the
// bucket count, which can occur from floating-point rounding at the 360°
// boundary, is silently dropped.
func (h *BearingHistogram) Add(relBearing, dt float64) {
	idx := int(math.Floor(NormalizeRadians(relBearing) / h.sliceRadians()))
	if idx < len(h.Buckets) {
		h.Buckets[idx] += dt
	}
}

// AccumulateSample adds dt seconds for every tag visible from the given
// robot pose, bucketed by relative bearing. Tags facing away from the
// robot are skipped.
func (h *BearingHistogram) AccumulateSample(robot Pose2D, dt float64, tags []TagPose2D) {
	for _, tag := range tags {
		if !TagFacesRobot(tag, robot) {
			continue
		}
		h.Add(RelativeBearing(robot, tag), dt)
	}
}

// AccumulateTrajectory scans a trajectory's samples in file order,
// accumulating the elapsed time between consecutive samples. The first
// sample has no predecessor and is measured against time zero, so its
// contribution equals its own timestamp.
func (h *BearingHistogram) AccumulateTrajectory(traj *Trajectory, tags []TagPose2D) {
	lastTime := 0.0
	for _, s := range traj.Samples {
		dt := s.T - lastTime
		lastTime = s.T
		h.AccumulateSample(s.Pose(), dt, tags)
	}
}

// Max returns the largest bucket value, or zero for an empty histogram.
func (h *BearingHistogram) Max() float64 {
	max := 0.0
	for _, v := range h.Buckets {
		if v > max {
			max = v
		}
	}
	return max
}

// Total returns the sum of all bucket values.
func (h *BearingHistogram) Total() float64 {
	total := 0.0
	for _, v := range h.Buckets {
		total += v
	}
	return total
}

// Clone returns a deep copy of the histogram.
func (h *BearingHistogram) Clone() *BearingHistogram {
	buckets := make([]float64, len(h.Buckets))
	copy(buckets, h.Buckets)
	return &BearingHistogram{SliceDegrees: h.SliceDegrees, Buckets: buckets}
}
