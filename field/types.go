package field

// FieldLayout represents the root structure of a WPILib AprilTag field
// layout JSON export (e.g. 2025-reefscape.json).
type FieldLayout struct {
	Tags  []Tag      `json:"tags"`
	Field *FieldSize `json:"field,omitempty"`
}

// FieldSize holds the playing field dimensions in meters.
type FieldSize struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
}

// Tag is a single AprilTag entry with its full 3D field pose.
type Tag struct {
	ID   int    `json:"ID"`
	Pose Pose3D `json:"pose"`
}

// Pose3D is a 3D pose: translation plus quaternion rotation.
type Pose3D struct {
	Translation Translation3D `json:"translation"`
	Rotation    Rotation3D    `json:"rotation"`
}

// Translation3D is a 3D position in meters.
type Translation3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Rotation3D wraps the quaternion as nested in the WPILib layout format.
type Rotation3D struct {
	Quaternion Quaternion `json:"quaternion"`
}

// Quaternion in WPILib order. Field names are uppercase in the JSON.
type Quaternion struct {
	W float64 `json:"W"`
	X float64 `json:"X"`
	Y float64 `json:"Y"`
	Z float64 `json:"Z"`
}

// Pose2D is a ground-plane pose: position in meters and heading in
// radians, CCW positive, 0 = +x (field convention).
type Pose2D struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

// TagPose2D pairs a tag ID with its projected ground-plane pose.
type TagPose2D struct {
	ID   int    `json:"id"`
	Pose Pose2D `json:"pose"`
}

// TrajectoryFile represents the root of a trajectory JSON export
// (Choreo .traj format).
type TrajectoryFile struct {
	Name       string     `json:"name,omitempty"`
	Trajectory Trajectory `json:"trajectory"`
}

// Trajectory holds the ordered pose samples of one planned path.
type Trajectory struct {
	Samples []Sample `json:"samples"`
}

// Sample is one timestamped robot pose along a trajectory. Ordering in
// the file matters: elapsed time is computed between consecutive samples.
// Extra keys in the export (velocities, module forces) are ignored.
type Sample struct {
	T       float64 `json:"t"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

// Pose returns the sample as a Pose2D.
func (s Sample) Pose() Pose2D {
	return Pose2D{X: s.X, Y: s.Y, Heading: s.Heading}
}

// PoseMessage is the live telemetry payload received over MQTT in
// service mode: one timestamped robot pose, same fields as a Sample.
type PoseMessage struct {
	T       float64 `json:"t"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

// Pose returns the message pose as a Pose2D.
func (m PoseMessage) Pose() Pose2D {
	return Pose2D{X: m.X, Y: m.Y, Heading: m.Heading}
}

// MQTTConfig holds MQTT connection settings for live mode.
type MQTTConfig struct {
	Broker       string `yaml:"broker" json:"broker"`
	Topic        string `yaml:"topic" json:"topic"`
	PublishTopic string `yaml:"publishTopic,omitempty" json:"publishTopic,omitempty"`
	ClientID     string `yaml:"clientId" json:"clientId"`
	Username     string `yaml:"username,omitempty" json:"username,omitempty"`
	Password     string `yaml:"password,omitempty" json:"password,omitempty"`
}

// HTTPConfig holds HTTP server settings for serve mode.
type HTTPConfig struct {
	Port int `yaml:"port" json:"port"`
}

// Config represents the full configuration file.
type Config struct {
	Layout            string     `yaml:"layout,omitempty" json:"layout,omitempty"`
	Slice             float64    `yaml:"slice,omitempty" json:"slice,omitempty"`
	SimplifyTolerance float64    `yaml:"simplifyTolerance,omitempty" json:"simplifyTolerance,omitempty"`
	MQTT              MQTTConfig `yaml:"mqtt,omitempty" json:"mqtt,omitempty"`
	HTTP              HTTPConfig `yaml:"http,omitempty" json:"http,omitempty"`
}
