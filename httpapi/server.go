package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/randalmurphal/woundflow/cleanup"
	"github.com/randalmurphal/woundflow/config"
	"github.com/randalmurphal/woundflow/engine"
)

// Server handles upload requests. Create with New, release with Close.
type Server struct {
	cfg       config.Config
	segmenter engine.Segmenter
	scorer    engine.Scorer
	cleaner   *cleanup.Scheduler
	logger    *slog.Logger
	mux       *http.ServeMux

	tempDir     string
	ownsTempDir bool
}

// New creates a server. When cfg.TempDir is empty a fresh staging
// directory is created and removed again by Close.
func New(cfg config.Config, segmenter engine.Segmenter, scorer engine.Scorer, logger *slog.Logger) (*Server, error) {
	if segmenter == nil || scorer == nil {
		return nil, fmt.Errorf("segmenter and scorer required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:       cfg,
		segmenter: segmenter,
		scorer:    scorer,
		cleaner:   cleanup.NewScheduler(logger),
		logger:    logger,
		tempDir:   cfg.TempDir,
	}
	if s.tempDir == "" {
		dir, err := os.MkdirTemp("", "woundflow-*")
		if err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
		s.tempDir = dir
		s.ownsTempDir = true
	}

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("GET /{$}", s.handleUploadPage)
	s.mux.HandleFunc("GET /valid_extensions", s.handleValidExtensions)
	s.mux.HandleFunc("GET /expected_formats", s.handleExpectedFormats)
	s.mux.HandleFunc("GET /upload", s.handleUploadPage)
	s.mux.HandleFunc("GET /upload/pwat", s.handlePwatPage)
	s.mux.HandleFunc("POST /upload", s.requireAuth(s.handleUpload))
	s.mux.HandleFunc("POST /upload/pwat", s.requireAuth(s.handlePwat))
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// TempDir returns the staging directory for uploads and responses.
func (s *Server) TempDir() string {
	return s.tempDir
}

// Close stops pending cleanups and removes the staging directory when
// the server created it.
func (s *Server) Close() error {
	s.cleaner.Stop()
	if s.ownsTempDir {
		return os.RemoveAll(s.tempDir)
	}
	return nil
}
