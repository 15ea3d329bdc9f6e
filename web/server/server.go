// Package server exposes rendering and pixel inspection over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/df07/go-bvh-raytracer/pkg/config"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
)

// Image size limits accepted by the API
const (
	minImageSize = 8
	maxImageSize = 2000
)

// Server handles web requests for the raytracer
type Server struct {
	cfg *config.Config
	log *zap.Logger
	mux *http.ServeMux
}

// NewServer creates a new web server. cfg supplies the defaults that request
// parameters override.
func NewServer(cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{cfg: cfg, log: log, mux: http.NewServeMux()}

	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	return s
}

// Handler returns the request router
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("Starting web server", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "web server failed")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("Shutting down web server")
		return srv.Shutdown(shutdownCtx)
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the registered scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.ListScenes())
}

// RenderRequest holds the parameters shared by render and inspect requests.
// Empty strings keep the server's configured value.
type RenderRequest struct {
	Scene     string `json:"scene"`
	Mode      string `json:"mode"`
	Filter    string `json:"filter"`
	Wrap      string `json:"wrap"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Triangles int    `json:"triangles"`
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	q := r.URL.Query()
	req := &RenderRequest{
		Scene:  q.Get("scene"),
		Mode:   q.Get("mode"),
		Filter: q.Get("filter"),
		Wrap:   q.Get("wrap"),
	}

	var err error
	if req.Width, err = parseIntParam(q, "width", s.cfg.Render.Width, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(q, "height", s.cfg.Render.Height, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Triangles, err = parseIntParam(q, "triangles", s.cfg.Scene.Triangles, 1, 1<<20); err != nil {
		return nil, err
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, errors.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, errors.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// requestConfig applies a request on top of the server configuration
func (s *Server) requestConfig(req *RenderRequest) (*config.Config, error) {
	cfg := *s.cfg
	if req.Scene != "" {
		cfg.Scene.Name = req.Scene
	}
	if req.Mode != "" {
		cfg.Render.Mode = req.Mode
	}
	if req.Filter != "" {
		cfg.Texture.FilterMode = req.Filter
	}
	if req.Wrap != "" {
		cfg.Texture.WrapMode = req.Wrap
	}
	cfg.Render.Width = req.Width
	cfg.Render.Height = req.Height
	cfg.Scene.Triangles = req.Triangles

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// createScene builds the scene a request asks for
func (s *Server) createScene(cfg *config.Config, log *zap.Logger) (*scene.Scene, error) {
	opts, err := cfg.SceneOptions(log)
	if err != nil {
		return nil, err
	}
	return scene.Load(cfg.Scene.Name, opts)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
