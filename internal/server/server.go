// Package server implements the HTTP API around the airbrush pipeline.
package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"satbrush/internal/airbrush"
	"satbrush/internal/config"
	"satbrush/internal/gridstitch"
	"satbrush/pkg/raster"
)

// Server holds the pipeline configuration shared by all requests.
type Server struct {
	startTime time.Time
	version   string
	cfg       config.Config
	logger    *log.Logger
}

// New creates a new server instance.
func New(version string, cfg config.Config, logger *log.Logger) *Server {
	return &Server{
		startTime: time.Now(),
		version:   version,
		cfg:       cfg,
		logger:    logger,
	}
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Post("/airbrush", s.handleAirbrush)
	r.Post("/stitch", s.handleStitch)
}

// healthResponse is the health endpoint payload.
type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    int       `json:"uptime"`
	Version   string    `json:"version"`
}

// errorResponse is the common error envelope.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// stitchRequest names a tile directory to composite.
type stitchRequest struct {
	Dir        string  `json:"dir"`
	Suffix     *string `json:"suffix,omitempty"`
	TileSize   *int    `json:"tileSize,omitempty"`
	Background string  `json:"background,omitempty"`
	Recursive  bool    `json:"recursive,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Uptime:    int(time.Since(s.startTime).Seconds()),
		Version:   s.version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("encoding health response", "err", err)
	}
}

// handleAirbrush accepts one tile in the request body and responds with the
// brushed tile as PNG.
func (s *Server) handleAirbrush(w http.ResponseWriter, r *http.Request) {
	img, _, err := image.Decode(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_IMAGE",
			fmt.Sprintf("could not decode request body as an image: %v", err))
		return
	}

	a, err := airbrush.New(s.cfg, s.logger)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "INVALID_CONFIG", err.Error())
		return
	}
	res := a.Process(img)

	var buf bytes.Buffer
	if err := png.Encode(&buf, res.Brushed); err != nil {
		s.writeError(w, http.StatusInternalServerError, "ENCODE_FAILED", err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Airbrush-Changed", strconv.FormatBool(res.Changed))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("writing airbrush response", "err", err)
	}
}

// handleStitch composites the tiles of a directory on the server's filesystem
// and responds with the composite as PNG.
func (s *Server) handleStitch(w http.ResponseWriter, r *http.Request) {
	var req stitchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON in request body")
		return
	}
	if req.Dir == "" {
		s.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "dir is required")
		return
	}

	opts := gridstitch.Options{
		TileSize:  0, // infer from the first tile unless given
		Suffix:    airbrush.SuffixBrushed,
		Recursive: req.Recursive,
	}
	if req.TileSize != nil {
		opts.TileSize = *req.TileSize
	}
	if req.Suffix != nil {
		opts.Suffix = *req.Suffix
	}
	if req.Background != "" {
		bg, err := raster.ParseColor(req.Background)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
		opts.Background = bg
	}

	st := gridstitch.NewStitcher(opts, s.logger)
	files, err := st.FindTiles(req.Dir)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if len(files) == 0 {
		s.writeError(w, http.StatusNotFound, "NO_TILES",
			fmt.Sprintf("no image files found in %s", req.Dir))
		return
	}

	layout, err := gridstitch.Locate(files)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "STITCH_FAILED", err.Error())
		return
	}
	canvas, err := st.Stitch(layout)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "STITCH_FAILED", err.Error())
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		s.writeError(w, http.StatusInternalServerError, "ENCODE_FAILED", err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Stitch-Strategy", layout.Strategy.String())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("writing stitch response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Code: code, Message: message}); err != nil {
		s.logger.Error("encoding error response", "err", err)
	}
}
