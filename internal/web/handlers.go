package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/datascrub/datascrub/internal/core"
	"github.com/datascrub/datascrub/internal/logging"
	"github.com/go-chi/chi/v5"
)

// handleIndex serves the single-page UI.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// handleUpload parses an uploaded CSV into a new session and returns
// the session snapshot with its initial quality report.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)

	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		s.respondError(w, r, fmt.Errorf("file too large or invalid form: %w", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, fmt.Errorf("no file provided: %w", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read file: %w", err), http.StatusInternalServerError)
		return
	}

	view, err := s.service.LoadCSV(r.Context(), header.Filename, data)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	logging.FromContext(r.Context()).Info("file uploaded",
		"session_id", view.ID,
		"file", view.FileName,
		"rows", view.Rows,
		"score", view.Report.Score,
	)

	s.writeJSON(w, r, view)
}

// handleSession returns the session snapshot.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.Session(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	s.writeJSON(w, r, view)
}

// handleAudit returns the quality report for the original upload.
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.Audit(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	s.writeJSON(w, r, report)
}

// cleanRequest is the JSON body for a cleaning run: either a preset
// name or an explicit step configuration.
type cleanRequest struct {
	Preset string               `json:"preset,omitempty"`
	Config *core.CleaningConfig `json:"config,omitempty"`
}

// handleClean runs the cleaning pipeline for a session.
func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req cleanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, fmt.Errorf("decode cleaning request: %w", err), http.StatusBadRequest)
		return
	}

	var result core.CleanResult
	var err error
	switch {
	case req.Preset != "":
		result, err = s.service.CleanWithPreset(r.Context(), sessionID, req.Preset)
	case req.Config != nil:
		result, err = s.service.CleanSession(r.Context(), sessionID, *req.Config)
	default:
		result, err = s.service.CleanSession(r.Context(), sessionID, core.CleaningConfig{})
	}
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	logging.WithFields(r.Context(), "session_id", sessionID).Info("cleaning complete",
		"steps", result.Steps,
		"rows_before", result.RowsBefore,
		"rows_after", result.RowsAfter,
		"score_after", result.ScoreAfter,
	)

	s.writeJSON(w, r, result)
}

// handlePreview returns the head of the cleaned table.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	n := s.cfg.Upload.PreviewRows
	if raw := r.URL.Query().Get("rows"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			n = parsed
		}
	}

	preview, err := s.service.Preview(chi.URLParam(r, "sessionID"), n)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	s.writeJSON(w, r, preview)
}

// handleDownload streams the cleaned table as a timestamped CSV.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	fileName, data, err := s.service.Download(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	serveCSV(w, fileName, data)
}

// handleExport streams the cleaned table formatted for a platform.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("target")
	if target == "" {
		target = "universal"
	}

	fileName, data, err := s.service.ExportSession(r.Context(), chi.URLParam(r, "sessionID"), target)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	serveCSV(w, fileName, data)
}

// handleReset restores the session's cleaned table to the original.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := s.service.ResetSession(sessionID); err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	s.writeJSON(w, r, map[string]string{"status": "reset", "sessionId": sessionID})
}

// handleListTargets returns the registered export targets.
func (s *Server) handleListTargets(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, core.Targets())
}

// handleListPresets returns the configured cleaning presets.
func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, s.service.Presets())
}

// handleHistory returns recent job records, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	jobs, err := s.service.RecentJobs(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if jobs == nil {
		jobs = []core.JobRecord{}
	}
	s.writeJSON(w, r, jobs)
}

// serveCSV writes CSV bytes as a file download.
func serveCSV(w http.ResponseWriter, fileName string, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}
