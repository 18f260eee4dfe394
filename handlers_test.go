package main

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kwv/tagtrace/field"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// minimalLayout returns a layout with a single tag at the origin facing +x
// so a robot east of it, driving toward it, sees the tag face.
func minimalLayout() *field.FieldLayout {
	return &field.FieldLayout{
		Tags: []field.Tag{
			{
				ID: 1,
				Pose: field.Pose3D{
					Translation: field.Translation3D{X: 0, Y: 0, Z: 1},
					Rotation:    field.Rotation3D{Quaternion: field.Quaternion{W: 1}},
				},
			},
		},
		Field: &field.FieldSize{Length: 16, Width: 8},
	}
}

// populatedTracker returns a LiveTracker that has seen two pose messages.
func populatedTracker(t *testing.T) *field.LiveTracker {
	t.Helper()
	hist, err := field.NewBearingHistogram(10)
	if err != nil {
		t.Fatal(err)
	}
	tracker := field.NewLiveTracker(field.ProjectTags(minimalLayout()), hist)
	tracker.Update(field.PoseMessage{T: 1.0, X: 5, Y: 0, Heading: math.Pi})
	tracker.Update(field.PoseMessage{T: 1.5, X: 4, Y: 0, Heading: math.Pi})
	return tracker
}

func serverFixture(t *testing.T) http.Handler {
	t.Helper()
	trajectories := []*field.TrajectoryFile{
		{
			Name: "run",
			Trajectory: field.Trajectory{Samples: []field.Sample{
				{T: 0, X: 5, Y: 1, Heading: math.Pi},
				{T: 1, X: 4, Y: 1, Heading: math.Pi},
			}},
		},
	}
	return newHTTPServer(populatedTracker(t), minimalLayout(), trajectories)
}

// ---------------------------------------------------------------------------
// endpoints
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	server := serverFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var status struct {
		Status   string `json:"status"`
		Tags     int    `json:"tags"`
		Messages int    `json:"messages"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if status.Status != "ok" {
		t.Errorf("status = %q, want ok", status.Status)
	}
	if status.Tags != 1 || status.Messages != 2 {
		t.Errorf("tags = %d, messages = %d", status.Tags, status.Messages)
	}
}

func TestBearingPNGEndpoint(t *testing.T) {
	server := serverFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/bearing.png", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.Bytes()
	if len(body) < 8 || string(body[1:4]) != "PNG" {
		t.Error("response is not a PNG stream")
	}
}

func TestBearingSVGEndpoint(t *testing.T) {
	server := serverFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/bearing.svg", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("response does not contain an <svg> element")
	}
}

func TestFieldPNGEndpoint(t *testing.T) {
	server := serverFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/field.png", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.Bytes()
	if len(body) < 8 || string(body[1:4]) != "PNG" {
		t.Error("response is not a PNG stream")
	}
}

func TestHistogramJSONEndpoint(t *testing.T) {
	server := serverFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/histogram.json", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var payload struct {
		SliceDegrees float64   `json:"sliceDegrees"`
		Buckets      []float64 `json:"buckets"`
		Max          float64   `json:"max"`
		Total        float64   `json:"total"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decoding histogram response: %v", err)
	}
	if payload.SliceDegrees != 10 {
		t.Errorf("sliceDegrees = %v, want 10", payload.SliceDegrees)
	}
	if len(payload.Buckets) != 36 {
		t.Errorf("bucket count = %d, want 36", len(payload.Buckets))
	}
	// Two pose messages with the tag dead ahead: 1.0s + 0.5s.
	if math.Abs(payload.Total-1.5) > 1e-9 {
		t.Errorf("total = %v, want 1.5", payload.Total)
	}
	if payload.Max != payload.Buckets[0] {
		t.Errorf("max = %v, bucket 0 = %v", payload.Max, payload.Buckets[0])
	}
}

func TestUnknownPath(t *testing.T) {
	server := serverFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
