package field

import "math"

// NormalizeRadians normalizes an angle in radians to the range [0, 2π).
func NormalizeRadians(rad float64) float64 {
	rad = math.Mod(rad, 2*math.Pi)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	return rad
}

// WrapToPi wraps an angle in radians to the range (-π, π].
func WrapToPi(rad float64) float64 {
	rad = NormalizeRadians(rad)
	if rad > math.Pi {
		rad -= 2 * math.Pi
	}
	return rad
}

// Bearing returns the angle of the vector from one position to another,
// in radians, measured in the field frame (atan2 convention).
func Bearing(from, to Pose2D) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// QuaternionYaw extracts the rotation about the vertical axis from a
// quaternion, in radians. Dropping roll and pitch this way projects a
// 3D rotation onto the ground plane.
func QuaternionYaw(q Quaternion) float64 {
	return math.Atan2(2*(q.W*q.Z+q.X*q.Y), 1-2*(q.Y*q.Y+q.Z*q.Z))
}

// ProjectTag projects a tag's 3D field pose to the ground plane,
// discarding elevation and out-of-plane tilt.
func ProjectTag(tag Tag) TagPose2D {
	return TagPose2D{
		ID: tag.ID,
		Pose: Pose2D{
			X:       tag.Pose.Translation.X,
			Y:       tag.Pose.Translation.Y,
			Heading: QuaternionYaw(tag.Pose.Rotation.Quaternion),
		},
	}
}

// ProjectTags projects every tag in a layout to the ground plane.
func ProjectTags(layout *FieldLayout) []TagPose2D {
	tags := make([]TagPose2D, len(layout.Tags))
	for i, tag := range layout.Tags {
		tags[i] = ProjectTag(tag)
	}
	return tags
}

// TagFacesRobot reports whether the tag's face is oriented toward the
// robot. The tag normal points out of its face; the robot sees the face
// only when the wrapped difference between the tag heading and the
// robot-to-tag bearing is at least 90°.
func TagFacesRobot(tag TagPose2D, robot Pose2D) bool {
	bearing := Bearing(robot, tag.Pose)
	diff := WrapToPi(tag.Pose.Heading - bearing)
	return math.Abs(diff) >= math.Pi/2
}

// RelativeBearing returns the bearing from the robot to the tag relative
// to the robot's own heading, normalized to [0, 2π). Zero means the tag
// is dead ahead.
func RelativeBearing(robot Pose2D, tag TagPose2D) float64 {
	return NormalizeRadians(Bearing(robot, tag.Pose) - robot.Heading)
}
