package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kwv/tagtrace/field"
)

// Version is set at build time via -ldflags
var Version = "dev"

// appRunner is implemented by App; main routes flags to one of its modes.
type appRunner interface {
	ApplyOptions(opts AppOptions)
	RunSummary()
	RunRender()
	RunExportGeoJSON()
	RunService()
}

func main() {
	fs := flag.NewFlagSet("tagtrace", flag.ExitOnError)
	run(NewApp(), fs, os.Args[1:])
}

// run parses flags from args and dispatches to the matching App mode.
func run(app appRunner, fs *flag.FlagSet, args []string) {
	layoutFile := fs.String("layout", field.DefaultLayoutPath, "The AprilTag field layout JSON")
	sliceSize := fs.Float64("slice", field.DefaultSliceDegrees, "The size of each slice in degrees")
	configFile := fs.String("config", "config.yaml", "Path to configuration file")
	outputFile := fs.String("output", "bearing-map.png", "Output file for the polar heat-map")
	renderFormat := fs.String("format", "raster", "Render format: raster, vector, or both")
	vectorFormat := fs.String("vector-format", "svg", "Vector output format: svg or png")
	fieldOutput := fs.String("field-output", "", "Also render a field overview PNG to this path")
	geojsonOutput := fs.String("export-geojson", "", "Write layout and trajectories as GeoJSON to this path and exit")
	summaryOnly := fs.Bool("summary", false, "Parse inputs, print summaries, and exit")
	mqttMode := fs.Bool("mqtt", false, "Run MQTT service mode for live pose telemetry")
	httpMode := fs.Bool("http", false, "Enable HTTP server for serving plot images")
	httpPort := fs.Int("http-port", 8080, "HTTP server port (default 8080)")

	if err := fs.Parse(args); err != nil {
		return
	}

	fmt.Printf("tagtrace version: %s\n", Version)

	app.ApplyOptions(AppOptions{
		Trajectories:  fs.Args(),
		LayoutFile:    *layoutFile,
		SliceDegrees:  *sliceSize,
		ConfigFile:    *configFile,
		OutputFile:    *outputFile,
		RenderFormat:  *renderFormat,
		VectorFormat:  *vectorFormat,
		FieldOutput:   *fieldOutput,
		GeoJSONOutput: *geojsonOutput,
		HTTPPort:      *httpPort,
		MQTTMode:      *mqttMode,
		HTTPMode:      *httpMode,
	})

	if *summaryOnly {
		app.RunSummary()
		return
	}

	if *geojsonOutput != "" {
		app.RunExportGeoJSON()
		return
	}

	if *mqttMode || *httpMode {
		app.RunService()
		return
	}

	app.RunRender()
}
