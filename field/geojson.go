package field

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/simplify"
)

// SimplifyTrajectory reduces a trajectory's sampled path with
// Douglas-Peucker at the given tolerance (meters). A tolerance of zero
// returns the path unchanged. Choreo exports sample densely (every few
// milliseconds), so exported paths shrink considerably.
func SimplifyTrajectory(samples []Sample, tolerance float64) orb.LineString {
	ls := SamplesToLineString(samples)
	if tolerance <= 0 || len(ls) < 3 {
		return ls
	}
	return simplify.DouglasPeucker(tolerance).Simplify(ls.Clone()).(orb.LineString)
}

// ExportGeoJSON builds a GeoJSON FeatureCollection describing the field
// layout and trajectories: one Point feature per tag (with its ID and
// ground-plane heading) and one LineString feature per trajectory,
// simplified at the given tolerance.
func ExportGeoJSON(layout *FieldLayout, trajectories []*TrajectoryFile, tolerance float64) ([]byte, error) {
	fc := geojson.NewFeatureCollection()

	for _, tag := range ProjectTags(layout) {
		f := geojson.NewFeature(orb.Point{tag.Pose.X, tag.Pose.Y})
		f.Properties["type"] = "apriltag"
		f.Properties["id"] = tag.ID
		f.Properties["heading"] = tag.Pose.Heading
		fc.Append(f)
	}

	for i, tf := range trajectories {
		samples := tf.Trajectory.Samples
		f := geojson.NewFeature(SimplifyTrajectory(samples, tolerance))
		f.Properties["type"] = "trajectory"
		name := tf.Name
		if name == "" {
			name = fmt.Sprintf("trajectory-%d", i)
		}
		f.Properties["name"] = name
		f.Properties["samples"] = len(samples)
		if len(samples) > 0 {
			f.Properties["duration"] = samples[len(samples)-1].T
		}
		fc.Append(f)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshaling GeoJSON: %w", err)
	}
	return data, nil
}
