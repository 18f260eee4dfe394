package main

import (
	"flag"
	"io"
	"testing"
)

// mockApp records which mode run dispatched to.
type mockApp struct {
	opts      AppOptions
	summary   bool
	render    bool
	exportGeo bool
	service   bool
}

func (m *mockApp) ApplyOptions(opts AppOptions) { m.opts = opts }
func (m *mockApp) RunSummary()                  { m.summary = true }
func (m *mockApp) RunRender()                   { m.render = true }
func (m *mockApp) RunExportGeoJSON()            { m.exportGeo = true }
func (m *mockApp) RunService()                  { m.service = true }

func newTestFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("tagtrace", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestRunDispatch(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		summary   bool
		render    bool
		exportGeo bool
		service   bool
	}{
		{
			name:   "default renders",
			args:   []string{"a.traj", "b.traj"},
			render: true,
		},
		{
			name:    "summary flag",
			args:    []string{"-summary", "a.traj"},
			summary: true,
		},
		{
			name:      "geojson export",
			args:      []string{"-export-geojson", "out.geojson", "a.traj"},
			exportGeo: true,
		},
		{
			name:    "mqtt service",
			args:    []string{"-mqtt"},
			service: true,
		},
		{
			name:    "http service",
			args:    []string{"-http", "-http-port", "9999"},
			service: true,
		},
		{
			name:    "summary wins over service flags",
			args:    []string{"-summary", "-mqtt"},
			summary: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &mockApp{}
			run(app, newTestFlagSet(), tt.args)

			if app.summary != tt.summary || app.render != tt.render ||
				app.exportGeo != tt.exportGeo || app.service != tt.service {
				t.Errorf("dispatch = summary:%v render:%v geo:%v service:%v",
					app.summary, app.render, app.exportGeo, app.service)
			}
		})
	}
}

func TestRunPassesOptions(t *testing.T) {
	app := &mockApp{}
	run(app, newTestFlagSet(), []string{
		"-layout", "custom.json",
		"-slice", "30",
		"-output", "heat.png",
		"-format", "both",
		"-vector-format", "png",
		"-http-port", "9090",
		"one.traj", "two.traj",
	})

	opts := app.opts
	if opts.LayoutFile != "custom.json" {
		t.Errorf("LayoutFile = %q", opts.LayoutFile)
	}
	if opts.SliceDegrees != 30 {
		t.Errorf("SliceDegrees = %v", opts.SliceDegrees)
	}
	if opts.OutputFile != "heat.png" || opts.RenderFormat != "both" || opts.VectorFormat != "png" {
		t.Errorf("render options = %q %q %q", opts.OutputFile, opts.RenderFormat, opts.VectorFormat)
	}
	if opts.HTTPPort != 9090 {
		t.Errorf("HTTPPort = %d", opts.HTTPPort)
	}
	if len(opts.Trajectories) != 2 || opts.Trajectories[0] != "one.traj" {
		t.Errorf("Trajectories = %v", opts.Trajectories)
	}
}

func TestRunBadFlag(t *testing.T) {
	app := &mockApp{}
	run(app, newTestFlagSet(), []string{"-no-such-flag"})

	if app.summary || app.render || app.exportGeo || app.service {
		t.Error("run dispatched despite a parse error")
	}
}
