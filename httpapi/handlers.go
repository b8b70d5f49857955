package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	nanoid "github.com/matoous/go-nanoid/v2"

	"github.com/randalmurphal/woundflow/pathcheck"
	"github.com/randalmurphal/woundflow/pipeline"
	"github.com/randalmurphal/woundflow/templates"
)

// maxUploadBytes bounds the multipart form held in memory plus spill.
const maxUploadBytes = 32 << 20

// DefaultExpectedFormat is returned when the client does not pick one.
const DefaultExpectedFormat = pipeline.KindPwatEstimation

func (s *Server) handleValidExtensions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pathcheck.ImageExtensions)
}

func (s *Server) handleExpectedFormats(w http.ResponseWriter, r *http.Request) {
	kinds := pipeline.UploadKinds()
	names := make([]string, len(kinds))
	for i, kind := range kinds {
		names[i] = kind.String()
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleUploadPage(w http.ResponseWriter, r *http.Request) {
	kinds := pipeline.UploadKinds()
	data := templates.UploadData{Formats: make([]string, len(kinds))}
	for i, kind := range kinds {
		data.Formats[i] = kind.String()
	}
	if err := templates.Render(w, "upload.html", data); err != nil {
		s.logger.Error("render page", "error", err)
	}
}

func (s *Server) handlePwatPage(w http.ResponseWriter, r *http.Request) {
	if err := templates.Render(w, "upload_pwat.html", nil); err != nil {
		s.logger.Error("render page", "error", err)
	}
}

// handleUpload runs the pipeline on the uploaded photograph and serves
// back the requested artifact, with the predicted score in the
// X-Predicted-Pwat header.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	kind := DefaultExpectedFormat
	if name := r.FormValue("expected_format"); name != "" {
		parsed, err := pipeline.ParseKind(name)
		if err != nil || parsed == pipeline.KindOriginal {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown expected_format %q", name))
			return
		}
		kind = parsed
	}

	uploadPath, ok := s.stageUpload(w, r)
	if !ok {
		return
	}
	s.cleaner.File(uploadPath, s.cfg.CleanupDelay)

	graph, err := pipeline.NewGraph(uploadPath, s.segmenter, s.scorer)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resultPath := strings.TrimSuffix(uploadPath, filepath.Ext(uploadPath)) + "_" + kind.String() + ".png"
	if err := pipeline.SaveArtifact(r.Context(), graph, kind, resultPath); err != nil {
		s.logger.Error("render artifact", "kind", kind, "error", err)
		writeError(w, http.StatusUnprocessableEntity, "image could not be processed")
		return
	}
	s.cleaner.File(resultPath, s.cfg.CleanupDelay)

	predicted, err := graph.PredictedScore(r.Context())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "image could not be processed")
		return
	}

	w.Header().Set("X-Predicted-Pwat", strconv.FormatFloat(predicted, 'f', -1, 64))
	http.ServeFile(w, r, resultPath)
}

// handlePwat runs the pipeline and returns only the predicted score.
func (s *Server) handlePwat(w http.ResponseWriter, r *http.Request) {
	uploadPath, ok := s.stageUpload(w, r)
	if !ok {
		return
	}
	s.cleaner.File(uploadPath, s.cfg.CleanupDelay)

	graph, err := pipeline.NewGraph(uploadPath, s.segmenter, s.scorer)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	predicted, err := graph.PredictedScore(r.Context())
	if err != nil {
		s.logger.Error("score image", "error", err)
		writeError(w, http.StatusUnprocessableEntity, "image could not be processed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]float64{"predicted_pwat": predicted})
}

// stageUpload validates the multipart file and writes it into the temp
// directory. On failure the response has already been written.
func (s *Server) stageUpload(w http.ResponseWriter, r *http.Request) (string, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart form")
		return "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return "", false
	}
	defer file.Close()

	if err := pathcheck.ValidateImagePath(header.Filename); err != nil {
		var formatErr *pathcheck.FormatError
		if errors.As(err, &formatErr) {
			writeError(w, http.StatusBadRequest, formatErr.Error())
		} else {
			writeError(w, http.StatusBadRequest, "invalid file name")
		}
		return "", false
	}

	path, err := s.writeTemp(file, strings.ToLower(filepath.Ext(header.Filename)))
	if err != nil {
		s.logger.Error("stage upload", "error", err)
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return "", false
	}
	return path, true
}

func (s *Server) writeTemp(file multipart.File, ext string) (string, error) {
	id, err := nanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate temp name: %w", err)
	}

	path := filepath.Join(s.tempDir, id+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
