package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/df07/go-bvh-raytracer/pkg/config"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
)

func newTestServer() *Server {
	cfg := config.Default()
	cfg.Render.Width = 32
	cfg.Render.Height = 24
	cfg.Render.Workers = 2
	return NewServer(cfg, nil)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

// parseSSE splits a recorded event stream into events in order
func parseSSE(body string) []SSEEvent {
	var events []SSEEvent
	for _, block := range strings.Split(body, "\n\n") {
		var event SSEEvent
		for _, line := range strings.Split(block, "\n") {
			if strings.HasPrefix(line, "event: ") {
				event.Type = strings.TrimPrefix(line, "event: ")
			} else if strings.HasPrefix(line, "data: ") {
				event.Data = strings.TrimPrefix(line, "data: ")
			}
		}
		if event.Type != "" {
			events = append(events, event)
		}
	}
	return events
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, newTestServer(), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("Expected ok status, got %s", rec.Body.String())
	}
}

func TestHandleScenes(t *testing.T) {
	rec := get(t, newTestServer(), "/api/scenes")
	var scenes []scene.SceneInfo
	if err := json.NewDecoder(rec.Body).Decode(&scenes); err != nil {
		t.Fatalf("Failed to decode scenes: %v", err)
	}
	if len(scenes) != len(scene.ListScenes()) {
		t.Errorf("Expected %d scenes, got %d", len(scene.ListScenes()), len(scenes))
	}
}

func TestHandleRender(t *testing.T) {
	rec := get(t, newTestServer(), "/api/render?scene=triangles&mode=normal&width=16&height=12")
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected event stream, got %q", ct)
	}

	events := parseSSE(rec.Body.String())
	if len(events) < 2 {
		t.Fatalf("Expected at least 2 events, got %d:\n%s", len(events), rec.Body.String())
	}
	if last := events[len(events)-1]; last.Type != "complete" {
		t.Errorf("Expected final complete event, got %q", last.Type)
	}

	var result *RenderResult
	consoleMessages := 0
	for _, event := range events {
		switch event.Type {
		case "result":
			result = &RenderResult{}
			if err := json.Unmarshal([]byte(event.Data), result); err != nil {
				t.Fatalf("Failed to decode result: %v", err)
			}
		case "console":
			consoleMessages++
		case "error":
			t.Fatalf("Unexpected error event: %s", event.Data)
		}
	}
	if result == nil {
		t.Fatal("Expected a result event")
	}
	if result.Width != 16 || result.Height != 12 || result.Mode != "normal" {
		t.Errorf("Expected 16x12 normal render, got %dx%d %s", result.Width, result.Height, result.Mode)
	}
	if result.Stats.Pixels != 16*12 || result.Stats.PrimaryRays != 16*12 {
		t.Errorf("Expected %d pixels and primary rays, got %d and %d", 16*12, result.Stats.Pixels, result.Stats.PrimaryRays)
	}
	if result.ImageData == "" {
		t.Error("Expected image data")
	}
	if consoleMessages == 0 {
		t.Error("Expected console messages from the render")
	}
}

func TestHandleRender_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"width too small", "/api/render?width=2"},
		{"width not a number", "/api/render?width=abc"},
		{"unknown mode", "/api/render?mode=wireframe"},
		{"unknown scene", "/api/render?scene=nonexistent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := parseSSE(get(t, newTestServer(), tt.target).Body.String())
			if len(events) == 0 || events[len(events)-1].Type != "error" {
				t.Errorf("Expected final error event, got %v", events)
			}
		})
	}
}

func TestHandleInspect(t *testing.T) {
	s := newTestServer()

	// The view centre always lands on geometry in the default scene
	rec := get(t, s, "/api/inspect?scene=default&x=16&y=12")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp InspectResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Hit {
		t.Fatal("Expected centre pixel to hit")
	}
	if resp.Distance <= 0 || resp.MaterialName == "" {
		t.Errorf("Expected positive distance and a material name, got %g and %q", resp.Distance, resp.MaterialName)
	}
	if _, ok := resp.Properties["albedo"]; !ok {
		t.Error("Expected albedo property")
	}

	// The top row looks over the backdrop into the sky
	rec = get(t, s, "/api/inspect?scene=default&x=16&y=0")
	resp = InspectResponse{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Hit {
		t.Errorf("Expected top pixel to miss, hit %q at %v", resp.MaterialName, resp.Point)
	}
}

func TestHandleInspect_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"missing x", "/api/inspect?y=1"},
		{"bad y", "/api/inspect?x=1&y=abc"},
		{"out of bounds", "/api/inspect?x=32&y=0"},
		{"negative", "/api/inspect?x=-1&y=0"},
		{"unknown scene", "/api/inspect?scene=nonexistent&x=0&y=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestServer(), tt.target)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestListenAndServe_Shutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := newTestServer().ListenAndServe(ctx, "127.0.0.1:0"); err != nil {
		t.Errorf("Expected clean shutdown, got %v", err)
	}
}
