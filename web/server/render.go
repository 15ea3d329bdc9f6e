package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/df07/go-bvh-raytracer/pkg/config"
	"github.com/df07/go-bvh-raytracer/pkg/raster"
	"github.com/df07/go-bvh-raytracer/pkg/renderer"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "result", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderResult is the payload of the result event
type RenderResult struct {
	Scene     string      `json:"scene"`
	Mode      string      `json:"mode"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	ImageData string      `json:"imageData"` // Base64 encoded PNG
	Stats     RenderStats `json:"stats"`
	ElapsedMs int64       `json:"elapsedMs"`
}

// RenderStats represents render statistics
type RenderStats struct {
	Pixels           int     `json:"pixels"`
	Tiles            int     `json:"tiles"`
	Workers          int     `json:"workers"`
	PrimaryRays      int     `json:"primaryRays"`
	ShadowRays       int     `json:"shadowRays"`
	Hits             int     `json:"hits"`
	RaysPerSecond    float64 `json:"raysPerSecond"`
	AverageLuminance float64 `json:"averageLuminance"`
}

// handleRender renders a frame and streams console output followed by the
// finished image via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	// Single writer goroutine; it keeps draining after a disconnect so
	// senders never block
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		s.writeSSEEvents(ctx, w, sseEventChan)
		close(writerDone)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		sseEventChan <- SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)}
		return
	}
	cfg, err := s.requestConfig(req)
	if err != nil {
		sseEventChan <- SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)}
		return
	}

	consoleChan := make(chan ConsoleMessage, 50)
	consoleDone := make(chan struct{})
	go func() {
		s.streamConsoleMessages(consoleChan, sseEventChan)
		close(consoleDone)
	}()
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	log := NewWebLogger(s.log, consoleChan, zap.InfoLevel).With(zap.String("render", renderID))

	result, err := s.render(ctx, cfg, log)
	close(consoleChan)
	<-consoleDone

	if err != nil {
		sseEventChan <- SSEEvent{Type: "error", Data: fmt.Sprintf("Render error: %v", err)}
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		sseEventChan <- SSEEvent{Type: "error", Data: fmt.Sprintf("Failed to encode result: %v", err)}
		return
	}
	sseEventChan <- SSEEvent{Type: "result", Data: string(data)}
	sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}
}

// render runs the whole pipeline for one request
func (s *Server) render(ctx context.Context, cfg *config.Config, log *zap.Logger) (*RenderResult, error) {
	startTime := time.Now()
	sceneObj, err := s.createScene(cfg, log)
	if err != nil {
		return nil, err
	}
	rcfg, err := cfg.RendererConfig()
	if err != nil {
		return nil, err
	}

	img, stats, err := renderer.New(sceneObj, cfg.NewCamera(sceneObj), rcfg, log).Render(ctx)
	if err != nil {
		return nil, err
	}
	imageData, err := imageToBase64PNG(img)
	if err != nil {
		return nil, err
	}

	return &RenderResult{
		Scene:     sceneObj.Name,
		Mode:      rcfg.Mode.String(),
		Width:     img.Width(),
		Height:    img.Height(),
		ImageData: imageData,
		Stats: RenderStats{
			Pixels:           stats.Pixels,
			Tiles:            stats.Tiles,
			Workers:          stats.Workers,
			PrimaryRays:      stats.PrimaryRays,
			ShadowRays:       stats.ShadowRays,
			Hits:             stats.Hits,
			RaysPerSecond:    stats.RaysPerSecond(),
			AverageLuminance: renderer.AverageLuminance(img),
		},
		ElapsedMs: time.Since(startTime).Milliseconds(),
	}, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents handles writing all SSE events in a single goroutine
// (thread-safe). It returns once sseEventChan is closed.
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	connected := true
	for event := range sseEventChan {
		if !connected || ctx.Err() != nil {
			// Client disconnected, drop the event
			continue
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			connected = false
			continue
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}

// streamConsoleMessages forwards console messages as SSE events until
// consoleChan is closed
func (s *Server) streamConsoleMessages(consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for msg := range consoleChan {
		data, err := json.Marshal(msg)
		if err != nil {
			s.log.Warn("Error marshaling console message", zap.Error(err))
			continue
		}
		sseEventChan <- SSEEvent{Type: "console", Data: string(data)}
	}
}

// imageToBase64PNG converts an image to base64-encoded sRGB PNG
func imageToBase64PNG(img *raster.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img.ToImage(true)); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
