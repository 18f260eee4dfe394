package main

import (
	"encoding/json"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/kwv/tagtrace/field"
)

// newHTTPServer creates an HTTP server exposing the current analysis state.
func newHTTPServer(tracker *field.LiveTracker, layout *field.FieldLayout, trajectories []*field.TrajectoryFile) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status := struct {
			Status    string    `json:"status"`
			Timestamp time.Time `json:"timestamp"`
			Tags      int       `json:"tags"`
			Messages  int       `json:"messages"`
		}{
			Status:    "ok",
			Timestamp: time.Now(),
			Tags:      len(tracker.Tags()),
			Messages:  tracker.MessageCount(),
		}
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Printf("Error encoding health status: %v", err)
		}
	})

	// Polar heat-map, raster
	mux.HandleFunc("/bearing.png", func(w http.ResponseWriter, r *http.Request) {
		renderer := field.NewPolarRenderer(tracker.Snapshot())
		img := renderer.Render()

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		if err := png.Encode(w, img); err != nil {
			log.Printf("Error encoding bearing PNG: %v", err)
		}
	})

	// Polar heat-map, vector
	mux.HandleFunc("/bearing.svg", func(w http.ResponseWriter, r *http.Request) {
		renderer := field.NewPolarVectorRenderer(tracker.Snapshot())

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "no-cache")
		if err := renderer.RenderToSVG(w); err != nil {
			log.Printf("Error encoding bearing SVG: %v", err)
		}
	})

	// Field overview with tag poses and trajectory paths
	mux.HandleFunc("/field.png", func(w http.ResponseWriter, r *http.Request) {
		renderer := field.NewFieldRenderer(layout, trajectories)
		img := renderer.Render()

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		if err := png.Encode(w, img); err != nil {
			log.Printf("Error encoding field PNG: %v", err)
		}
	})

	// Raw histogram values
	mux.HandleFunc("/histogram.json", func(w http.ResponseWriter, r *http.Request) {
		hist := tracker.Snapshot()
		payload := struct {
			SliceDegrees float64   `json:"sliceDegrees"`
			Buckets      []float64 `json:"buckets"`
			Max          float64   `json:"max"`
			Total        float64   `json:"total"`
		}{
			SliceDegrees: hist.SliceDegrees,
			Buckets:      hist.Buckets,
			Max:          hist.Max(),
			Total:        hist.Total(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("Error encoding histogram JSON: %v", err)
		}
	})

	return mux
}
