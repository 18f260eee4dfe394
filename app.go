package main

import (
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/kwv/tagtrace/field"
)

// AppOptions carries the CLI flag values into the App.
type AppOptions struct {
	Trajectories  []string
	LayoutFile    string
	SliceDegrees  float64
	ConfigFile    string
	OutputFile    string
	RenderFormat  string
	VectorFormat  string
	FieldOutput   string
	GeoJSONOutput string
	HTTPPort      int
	MQTTMode      bool
	HTTPMode      bool
}

// App encapsulates the application state and dependencies.
type App struct {
	Config *field.Config

	Trajectories  []string
	LayoutFile    string
	SliceDegrees  float64
	ConfigFile    string
	OutputFile    string
	RenderFormat  string
	VectorFormat  string
	FieldOutput   string
	GeoJSONOutput string
	HTTPPort      int
	MQTTMode      bool
	HTTPMode      bool
}

// NewApp creates a new App instance.
func NewApp() *App {
	return &App{Config: field.DefaultConfig()}
}

// ApplyOptions applies CLI options to the App instance. The config file
// is loaded first when present; CLI flags changed from their defaults
// take precedence over config values.
func (a *App) ApplyOptions(opts AppOptions) {
	a.Trajectories = opts.Trajectories
	a.LayoutFile = opts.LayoutFile
	a.SliceDegrees = opts.SliceDegrees
	a.ConfigFile = opts.ConfigFile
	a.OutputFile = opts.OutputFile
	a.RenderFormat = opts.RenderFormat
	a.VectorFormat = opts.VectorFormat
	a.FieldOutput = opts.FieldOutput
	a.GeoJSONOutput = opts.GeoJSONOutput
	a.HTTPPort = opts.HTTPPort
	a.MQTTMode = opts.MQTTMode
	a.HTTPMode = opts.HTTPMode

	if _, err := os.Stat(a.ConfigFile); err == nil {
		config, err := field.LoadConfig(a.ConfigFile)
		if err != nil {
			log.Printf("Warning: Failed to load config file %s: %v", a.ConfigFile, err)
		} else {
			log.Printf("Loaded config from %s", a.ConfigFile)
			a.Config = config
		}
	}

	// CLI flags left at their defaults defer to the config.
	if a.LayoutFile == field.DefaultLayoutPath && a.Config.Layout != "" {
		a.LayoutFile = a.Config.Layout
	}
	if a.SliceDegrees == field.DefaultSliceDegrees && a.Config.Slice > 0 {
		a.SliceDegrees = a.Config.Slice
	}
	if a.HTTPPort == 8080 && a.Config.HTTP.Port > 0 {
		a.HTTPPort = a.Config.HTTP.Port
	}
}

// loadLayout parses the field layout and projects tags to the ground plane.
func (a *App) loadLayout() (*field.FieldLayout, []field.TagPose2D) {
	layout, err := field.ParseLayoutFile(a.LayoutFile)
	if err != nil {
		log.Fatalf("Error loading field layout %s: %v", a.LayoutFile, err)
	}
	return layout, field.ProjectTags(layout)
}

// loadTrajectories parses all trajectory files given on the command
// line. Files that fail to parse are reported and skipped.
func (a *App) loadTrajectories() []*field.TrajectoryFile {
	var trajectories []*field.TrajectoryFile
	for _, path := range a.Trajectories {
		tf, err := field.ParseTrajectoryFile(path)
		if err != nil {
			fmt.Printf("Error loading %s: %v\n", path, err)
			continue
		}
		if tf.Name == "" {
			tf.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		trajectories = append(trajectories, tf)
	}
	return trajectories
}

// RunSummary parses the layout and trajectories and prints what was found.
func (a *App) RunSummary() {
	layout, tags := a.loadLayout()

	ls := field.SummarizeLayout(layout)
	fmt.Printf("=== %s ===\n", a.LayoutFile)
	fmt.Printf("Tags: %d\n", ls.TagCount)
	if ls.HasField {
		fmt.Printf("Field: %.3f x %.3f m\n", ls.Length, ls.Width)
	}
	for _, tag := range tags {
		fmt.Printf("  tag %2d: (%.3f, %.3f) heading %.1f°\n",
			tag.ID, tag.Pose.X, tag.Pose.Y, tag.Pose.Heading*180/math.Pi)
	}
	fmt.Println()

	for _, tf := range a.loadTrajectories() {
		ts := field.SummarizeTrajectory(tf)
		fmt.Printf("=== %s ===\n", ts.Name)
		fmt.Printf("Samples: %d\n", ts.SampleCount)
		fmt.Printf("Duration: %.2fs\n", ts.Duration)
		fmt.Printf("Path length: %.2fm\n", ts.PathLength)
		fmt.Println()
	}
}

// accumulate builds the bearing histogram from the given trajectories.
func (a *App) accumulate(tags []field.TagPose2D, trajectories []*field.TrajectoryFile) *field.BearingHistogram {
	hist, err := field.NewBearingHistogram(a.SliceDegrees)
	if err != nil {
		log.Fatalf("Error creating histogram: %v", err)
	}
	for _, tf := range trajectories {
		hist.AccumulateTrajectory(&tf.Trajectory, tags)
	}
	return hist
}

// RunRender computes the histogram and writes the plot file(s).
func (a *App) RunRender() {
	layout, tags := a.loadLayout()
	trajectories := a.loadTrajectories()
	if len(trajectories) == 0 {
		log.Fatal("No trajectory files given")
	}

	hist := a.accumulate(tags, trajectories)
	fmt.Printf("Accumulated %.2fs of tag exposure across %d buckets (max %.2fs)\n",
		hist.Total(), len(hist.Buckets), hist.Max())

	format := a.RenderFormat
	if format != "raster" && format != "vector" && format != "both" {
		log.Fatalf("Invalid format: %s (must be raster, vector, or both)", format)
	}

	if format == "raster" || format == "both" {
		outputPath := a.OutputFile
		if format == "both" && !strings.HasSuffix(outputPath, ".png") {
			outputPath = strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".png"
		}

		renderer := field.NewPolarRenderer(hist)
		if err := renderer.SavePNG(outputPath); err != nil {
			log.Fatalf("Error rendering raster: %v", err)
		}
		fmt.Printf("Created raster: %s\n", outputPath)
	}

	if format == "vector" || format == "both" {
		outputPath := a.OutputFile
		if format == "both" {
			outputPath = strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + "." + a.VectorFormat
		}

		outFile, err := os.Create(outputPath)
		if err != nil {
			log.Fatalf("Error creating output file %s: %v", outputPath, err)
		}
		defer func() {
			if err := outFile.Close(); err != nil {
				log.Printf("Warning: error closing output file %s: %v", outputPath, err)
			}
		}()

		renderer := field.NewPolarVectorRenderer(hist)
		switch a.VectorFormat {
		case "svg":
			if err := renderer.RenderToSVG(outFile); err != nil {
				log.Fatalf("Error rendering vector SVG: %v", err)
			}
		case "png":
			if err := renderer.RenderToPNG(outFile); err != nil {
				log.Fatalf("Error rendering vector PNG: %v", err)
			}
		default:
			log.Fatalf("Invalid vector format: %s (must be svg or png)", a.VectorFormat)
		}
		fmt.Printf("Created vector: %s\n", outputPath)
	}

	if a.FieldOutput != "" {
		renderer := field.NewFieldRenderer(layout, trajectories)
		if err := renderer.SavePNG(a.FieldOutput); err != nil {
			log.Fatalf("Error rendering field overview: %v", err)
		}
		fmt.Printf("Created field overview: %s\n", a.FieldOutput)
	}

	fmt.Println("Done!")
}

// RunExportGeoJSON writes the layout and trajectories as GeoJSON.
func (a *App) RunExportGeoJSON() {
	layout, _ := a.loadLayout()
	trajectories := a.loadTrajectories()

	data, err := field.ExportGeoJSON(layout, trajectories, a.Config.SimplifyTolerance)
	if err != nil {
		log.Fatalf("Error exporting GeoJSON: %v", err)
	}

	if err := os.WriteFile(a.GeoJSONOutput, data, 0644); err != nil {
		log.Fatalf("Error writing %s: %v", a.GeoJSONOutput, err)
	}
	fmt.Printf("Created GeoJSON: %s\n", a.GeoJSONOutput)
}

// RunService runs live mode: MQTT pose telemetry feeding the histogram
// and/or an HTTP server exposing the current plots.
func (a *App) RunService() {
	fmt.Println("Starting tagtrace service...")

	layout, tags := a.loadLayout()

	// Seed the histogram with any offline trajectories before live data.
	trajectories := a.loadTrajectories()
	hist := a.accumulate(tags, trajectories)
	if len(trajectories) > 0 {
		fmt.Printf("Seeded histogram from %d trajectory file(s)\n", len(trajectories))
	}

	tracker := field.NewLiveTracker(tags, hist)

	var mqttClient *field.MQTTClient
	var publisher *field.Publisher

	if a.MQTTMode {
		var err error
		mqttClient, err = field.InitMQTT(&a.Config.MQTT, func(msg field.PoseMessage, err error) {
			if err != nil {
				log.Printf("Error receiving pose: %v", err)
				return
			}
			tracker.Update(msg)
			if publisher != nil && publisher.Enabled() {
				if err := publisher.PublishSnapshot(tracker); err != nil {
					log.Printf("Error publishing snapshot: %v", err)
				}
			}
		})
		if err != nil {
			log.Fatalf("Failed to initialize MQTT: %v", err)
		}
		if mqttClient == nil {
			log.Fatal("MQTT broker not configured in config.yaml")
		}
		publisher = field.NewPublisher(mqttClient.GetClient(), a.Config.MQTT.PublishTopic)
	}

	if a.HTTPMode {
		httpServer := newHTTPServer(tracker, layout, trajectories)
		go func() {
			addr := fmt.Sprintf(":%d", a.HTTPPort)
			fmt.Printf("HTTP server starting on %s\n", addr)
			if err := http.ListenAndServe(addr, httpServer); err != nil {
				log.Fatalf("HTTP server error: %v", err)
			}
		}()
	}

	fmt.Println("\nService Running")
	fmt.Println("===============")
	if a.MQTTMode {
		fmt.Printf("\nMQTT:\n  Subscribed to: %s\n", a.Config.MQTT.Topic)
		if a.Config.MQTT.PublishTopic != "" {
			fmt.Printf("  Publishing snapshots to: %s\n", a.Config.MQTT.PublishTopic)
		}
	}
	if a.HTTPMode {
		fmt.Printf("\nHTTP endpoints (port %d):\n", a.HTTPPort)
		fmt.Println("  GET /health         - Health check")
		fmt.Println("  GET /bearing.png    - Polar heat-map (raster)")
		fmt.Println("  GET /bearing.svg    - Polar heat-map (vector)")
		fmt.Println("  GET /field.png      - Field overview with tags and paths")
		fmt.Println("  GET /histogram.json - Raw bucket values")
	}
	fmt.Println("\nPress Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nShutting down service...")
	if mqttClient != nil {
		mqttClient.Disconnect()
	}
	fmt.Println("Service stopped")
}
