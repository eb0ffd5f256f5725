// Package server exposes quilt composition over HTTP. It mirrors the CLI:
// one endpoint that accepts a multipart batch of images plus layout options
// and responds with the composed PNG.
package server

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kiesman99/quilt/internal/render"
	"github.com/kiesman99/quilt/pkg/quilt"
)

// maxUploadBytes bounds the in-memory portion of a multipart upload.
const maxUploadBytes = 64 << 20

// Server handles the quilt HTTP API.
type Server struct {
	startTime time.Time
	version   string
	logger    *log.Logger
}

// New creates a server instance.
func New(version string, logger *log.Logger) *Server {
	return &Server{
		startTime: time.Now(),
		version:   version,
		logger:    logger,
	}
}

// Routes returns the API router: GET /health and POST /quilt.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/health", s.getHealth)
	r.Post("/quilt", s.createQuilt)
	return r
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    int       `json:"uptime"`
	Version   string    `json:"version"`
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// getHealth implements the health check endpoint.
func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	response := healthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Uptime:    int(time.Since(s.startTime).Seconds()),
		Version:   s.version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("encoding health response", "error", err)
	}
}

// createQuilt implements the composition endpoint. Images arrive as repeated
// "images" file parts; part order is placement order. Layout options arrive
// as ordinary form fields holding the CLI's flag values.
func (s *Server) createQuilt(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_MULTIPART",
			fmt.Sprintf("could not parse multipart form: %v", err), requestID)
		return
	}
	defer r.MultipartForm.RemoveAll()

	parts := r.MultipartForm.File["images"]
	if len(parts) == 0 {
		s.writeError(w, http.StatusBadRequest, "NO_IMAGES",
			"at least one 'images' file part is required", requestID)
		return
	}

	cfg, err := configFromForm(r.MultipartForm.Value)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_OPTION", err.Error(), requestID)
		return
	}

	images := make([]image.Image, len(parts))
	for i, part := range parts {
		f, err := part.Open()
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "UNREADABLE_IMAGE",
				fmt.Sprintf("could not read image %d (%s): %v", i, part.Filename, err), requestID)
			return
		}
		img, err := render.Decode(f)
		f.Close()
		if err != nil {
			s.writeError(w, http.StatusUnprocessableEntity, "UNDECODABLE_IMAGE",
				fmt.Sprintf("could not decode image %d (%s): %v", i, part.Filename, err), requestID)
			return
		}
		images[i] = img
	}

	canvas, err := render.Compose(s.logger, images, cfg)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "LAYOUT_FAILED", err.Error(), requestID)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(http.StatusOK)
	if err := render.WriteImage(w, "quilt.png", canvas); err != nil {
		s.logger.Error("writing response image", "error", err)
	}
}

// configFromForm builds a layout configuration from form fields, applying
// the same defaults as the CLI. Unknown option values fail the request.
func configFromForm(values url.Values) (quilt.Config, error) {
	cfg := quilt.Config{
		Sizing:     quilt.SizeLargest,
		Background: color.NRGBA{255, 255, 255, 255},
	}

	var err error
	if v := values.Get("direction"); v != "" {
		if cfg.Direction, err = quilt.ParseDirection(v); err != nil {
			return quilt.Config{}, err
		}
	}
	if v := values.Get("sizing"); v != "" {
		if cfg.Sizing, err = quilt.ParseSizingMode(v); err != nil {
			return quilt.Config{}, err
		}
	}
	if v := values.Get("stretch"); v != "" {
		if cfg.Stretch, err = quilt.ParseStretchMode(v); err != nil {
			return quilt.Config{}, err
		}
	}
	if v := values.Get("halign"); v != "" {
		if cfg.HAlign, err = quilt.ParseHAlign(v); err != nil {
			return quilt.Config{}, err
		}
	}
	if v := values.Get("valign"); v != "" {
		if cfg.VAlign, err = quilt.ParseVAlign(v); err != nil {
			return quilt.Config{}, err
		}
	}
	if v := values.Get("max-columns"); v != "" {
		if cfg.MaxColumns, err = strconv.Atoi(v); err != nil {
			return quilt.Config{}, fmt.Errorf("invalid max-columns %q", v)
		}
	}
	if v := values.Get("max-rows"); v != "" {
		if cfg.MaxRows, err = strconv.Atoi(v); err != nil {
			return quilt.Config{}, fmt.Errorf("invalid max-rows %q", v)
		}
	}
	if v := values.Get("background"); v != "" {
		if cfg.Background, err = render.ParseColor(v); err != nil {
			return quilt.Config{}, err
		}
	}
	return cfg, nil
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{
		Code:      code,
		Message:   message,
		RequestID: requestID,
	}); err != nil {
		s.logger.Error("encoding error response", "error", err)
	}
}
