package field

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Structural validation errors for layout and trajectory inputs.
var (
	ErrNoTags    = errors.New("layout contains no tags")
	ErrNoSamples = errors.New("trajectory contains no samples")
)

// ParseLayoutFile reads and parses an AprilTag field layout JSON file.
func ParseLayoutFile(path string) (*FieldLayout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout file: %w", err)
	}
	return ParseLayoutJSON(data)
}

// ParseLayoutJSON parses field layout JSON data.
func ParseLayoutJSON(data []byte) (*FieldLayout, error) {
	var layout FieldLayout
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("parsing layout JSON: %w", err)
	}
	if len(layout.Tags) == 0 {
		return nil, ErrNoTags
	}
	return &layout, nil
}

// ParseTrajectoryFile reads and parses a trajectory JSON file.
func ParseTrajectoryFile(path string) (*TrajectoryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading trajectory file: %w", err)
	}
	return ParseTrajectoryJSON(data)
}

// ParseTrajectoryJSON parses trajectory JSON data.
func ParseTrajectoryJSON(data []byte) (*TrajectoryFile, error) {
	var tf TrajectoryFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing trajectory JSON: %w", err)
	}
	if len(tf.Trajectory.Samples) == 0 {
		return nil, ErrNoSamples
	}
	return &tf, nil
}

// SamplesToLineString converts trajectory samples to an orb.LineString
// of positions, preserving file order.
func SamplesToLineString(samples []Sample) orb.LineString {
	ls := make(orb.LineString, len(samples))
	for i, s := range samples {
		ls[i] = orb.Point{s.X, s.Y}
	}
	return ls
}

// LayoutSummary provides a summary of a field layout's contents.
type LayoutSummary struct {
	TagCount int
	TagIDs   []int
	HasField bool
	Length   float64
	Width    float64
}

// SummarizeLayout extracts key information from a field layout.
func SummarizeLayout(layout *FieldLayout) LayoutSummary {
	summary := LayoutSummary{TagCount: len(layout.Tags)}
	for _, tag := range layout.Tags {
		summary.TagIDs = append(summary.TagIDs, tag.ID)
	}
	if layout.Field != nil {
		summary.HasField = true
		summary.Length = layout.Field.Length
		summary.Width = layout.Field.Width
	}
	return summary
}

// TrajectorySummary provides a summary of a trajectory's contents.
type TrajectorySummary struct {
	Name        string
	SampleCount int
	Duration    float64
	PathLength  float64
}

// SummarizeTrajectory extracts key information from a trajectory file.
// Duration is the last sample's timestamp; path length is the planar
// length of the sampled positions in meters.
func SummarizeTrajectory(tf *TrajectoryFile) TrajectorySummary {
	summary := TrajectorySummary{
		Name:        tf.Name,
		SampleCount: len(tf.Trajectory.Samples),
	}
	if summary.SampleCount > 0 {
		summary.Duration = tf.Trajectory.Samples[summary.SampleCount-1].T
		summary.PathLength = planar.Length(SamplesToLineString(tf.Trajectory.Samples))
	}
	return summary
}
