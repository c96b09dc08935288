package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors surfaced by Service operations.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownTarget   = errors.New("unknown export target")
	ErrUnknownColumn   = errors.New("unknown column")
	ErrUnknownPreset   = errors.New("unknown preset")
)

// ServiceConfig holds the host-side limits for a Service.
type ServiceConfig struct {
	// MaxSessions caps concurrent sessions; the least recently used
	// session is evicted when the cap is reached.
	MaxSessions int

	// SessionTTL is the idle lifetime of a session.
	SessionTTL time.Duration

	// Presets are the named cleaning configurations offered to users.
	Presets []Preset
}

// Service owns the per-upload state the hosts thread through calls:
// each uploaded file becomes a session holding the original table and
// the latest cleaned table. The core transforms themselves stay pure;
// the Service exists so callers never rely on implicit globals.
type Service struct {
	cfg  ServiceConfig
	jobs JobStore

	mu       sync.RWMutex
	sessions map[string]*session
}

// session is the mutable state behind one uploaded file.
type session struct {
	id       string
	fileName string
	original Table
	cleaned  Table
	report   QualityReport
	created  time.Time
	lastUsed time.Time
}

// SessionView is the caller-visible snapshot of a session.
type SessionView struct {
	ID       string        `json:"id"`
	FileName string        `json:"fileName"`
	Rows     int           `json:"rows"`
	Columns  []string      `json:"columns"`
	Report   QualityReport `json:"report"`
}

// CleanResult summarizes one cleaning run.
type CleanResult struct {
	SessionID   string        `json:"sessionId"`
	RowsBefore  int           `json:"rowsBefore"`
	RowsAfter   int           `json:"rowsAfter"`
	ScoreBefore int           `json:"scoreBefore"`
	ScoreAfter  int           `json:"scoreAfter"`
	Steps       []string      `json:"steps"`
	Report      QualityReport `json:"report"`
}

// PreviewData is a render-ready slice of a table's head.
type PreviewData struct {
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"totalRows"`
}

// NewService creates a Service with the given job store and limits.
// A nil store falls back to an in-memory ring.
func NewService(jobs JobStore, cfg ServiceConfig) *Service {
	if jobs == nil {
		jobs = NewMemoryJobStore(100)
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 50
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if len(cfg.Presets) == 0 {
		cfg.Presets = DefaultPresets()
	}
	return &Service{
		cfg:      cfg,
		jobs:     jobs,
		sessions: make(map[string]*session),
	}
}

// LoadCSV parses uploaded bytes into a new session and returns its
// snapshot, including the initial quality report.
func (s *Service) LoadCSV(ctx context.Context, fileName string, data []byte) (SessionView, error) {
	start := time.Now()

	t, err := ParseCSV(data)
	if err != nil {
		return SessionView{}, fmt.Errorf("load %q: %w", fileName, err)
	}

	sess := &session{
		id:       uuid.New().String(),
		fileName: fileName,
		original: t,
		cleaned:  t.Clone(),
		report:   Score(t),
		created:  time.Now(),
		lastUsed: time.Now(),
	}

	s.mu.Lock()
	s.pruneLocked()
	s.evictLocked()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.recordJob(ctx, JobRecord{
		ID:          uuid.New().String(),
		Action:      JobUpload,
		FileName:    fileName,
		RowsIn:      t.RowCount(),
		RowsOut:     t.RowCount(),
		ScoreBefore: sess.report.Score,
		ScoreAfter:  sess.report.Score,
		Duration:    time.Since(start),
		CreatedAt:   time.Now(),
	})

	return sess.view(), nil
}

// Audit returns the quality report of the session's original table.
func (s *Service) Audit(sessionID string) (QualityReport, error) {
	sess, err := s.touch(sessionID)
	if err != nil {
		return QualityReport{}, err
	}
	return sess.report, nil
}

// CleanSession runs the cleaning pipeline against the session's
// original table and stores the result as the session's cleaned table.
// Re-running with a different config is never cumulative.
func (s *Service) CleanSession(ctx context.Context, sessionID string, cfg CleaningConfig) (CleanResult, error) {
	start := time.Now()

	sess, err := s.touch(sessionID)
	if err != nil {
		return CleanResult{}, err
	}

	if cfg.ValidateEmails && cfg.EmailColumn != "" {
		if sess.original.ColumnIndex(cfg.EmailColumn) < 0 {
			return CleanResult{}, fmt.Errorf("%w: %q", ErrUnknownColumn, cfg.EmailColumn)
		}
	}

	cleaned := Clean(sess.original, cfg)
	after := Score(cleaned)

	s.mu.Lock()
	sess.cleaned = cleaned
	s.mu.Unlock()

	result := CleanResult{
		SessionID:   sessionID,
		RowsBefore:  sess.original.RowCount(),
		RowsAfter:   cleaned.RowCount(),
		ScoreBefore: sess.report.Score,
		ScoreAfter:  after.Score,
		Steps:       cfg.StepNames(),
		Report:      after,
	}

	s.recordJob(ctx, JobRecord{
		ID:          uuid.New().String(),
		Action:      JobClean,
		FileName:    sess.fileName,
		RowsIn:      result.RowsBefore,
		RowsOut:     result.RowsAfter,
		ScoreBefore: result.ScoreBefore,
		ScoreAfter:  result.ScoreAfter,
		Steps:       result.Steps,
		Duration:    time.Since(start),
		CreatedAt:   time.Now(),
	})

	return result, nil
}

// CleanWithPreset looks up a named preset and runs CleanSession with it.
func (s *Service) CleanWithPreset(ctx context.Context, sessionID, preset string) (CleanResult, error) {
	p, ok := s.Preset(preset)
	if !ok {
		return CleanResult{}, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}
	return s.CleanSession(ctx, sessionID, p.Config)
}

// Preview returns the first n rows of the session's cleaned table.
func (s *Service) Preview(sessionID string, n int) (PreviewData, error) {
	sess, err := s.touch(sessionID)
	if err != nil {
		return PreviewData{}, err
	}

	s.mu.RLock()
	t := sess.cleaned
	s.mu.RUnlock()

	if n <= 0 || n > t.RowCount() {
		n = t.RowCount()
	}

	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, t.ColumnCount())
		for c := range t.Columns {
			row[c] = t.Columns[c].Cells[i].String()
		}
		rows[i] = row
	}

	return PreviewData{
		Columns:   t.ColumnNames(),
		Rows:      rows,
		TotalRows: t.RowCount(),
	}, nil
}

// Download serializes the session's cleaned table with a timestamped
// filename.
func (s *Service) Download(sessionID string) (fileName string, data []byte, err error) {
	sess, err := s.touch(sessionID)
	if err != nil {
		return "", nil, err
	}

	s.mu.RLock()
	t := sess.cleaned
	s.mu.RUnlock()

	data, err = MarshalCSV(t)
	if err != nil {
		return "", nil, fmt.Errorf("serialize %q: %w", sess.fileName, err)
	}
	return DownloadFileName(time.Now()), data, nil
}

// ExportSession formats the session's cleaned table for a registered
// export target and serializes it.
func (s *Service) ExportSession(ctx context.Context, sessionID, targetKey string) (fileName string, data []byte, err error) {
	start := time.Now()

	sess, err := s.touch(sessionID)
	if err != nil {
		return "", nil, err
	}

	target, ok := Target(targetKey)
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownTarget, targetKey)
	}

	s.mu.RLock()
	t := sess.cleaned
	s.mu.RUnlock()

	formatted := Format(t, target)
	data, err = MarshalCSV(formatted)
	if err != nil {
		return "", nil, fmt.Errorf("serialize %q: %w", sess.fileName, err)
	}

	s.recordJob(ctx, JobRecord{
		ID:        uuid.New().String(),
		Action:    JobExport,
		FileName:  sess.fileName,
		RowsIn:    formatted.RowCount(),
		RowsOut:   formatted.RowCount(),
		Target:    target.Key,
		Duration:  time.Since(start),
		CreatedAt: time.Now(),
	})

	return ExportFileName(target), data, nil
}

// ResetSession discards cleaning results, restoring the cleaned table
// to the original upload.
func (s *Service) ResetSession(sessionID string) error {
	sess, err := s.touch(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	sess.cleaned = sess.original.Clone()
	s.mu.Unlock()
	return nil
}

// Session returns the snapshot of a session.
func (s *Service) Session(sessionID string) (SessionView, error) {
	sess, err := s.touch(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	return sess.view(), nil
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Presets returns the configured cleaning presets.
func (s *Service) Presets() []Preset {
	return s.cfg.Presets
}

// Preset looks up a preset by name.
func (s *Service) Preset(name string) (Preset, bool) {
	for _, p := range s.cfg.Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// RecentJobs returns the most recent job records, newest first.
func (s *Service) RecentJobs(ctx context.Context, limit int) ([]JobRecord, error) {
	return s.jobs.RecentJobs(ctx, limit)
}

// touch fetches a live session and refreshes its idle timer.
func (s *Service) touch(sessionID string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	sess.lastUsed = time.Now()
	return sess, nil
}

// pruneLocked drops sessions idle past the TTL. Caller holds mu.
func (s *Service) pruneLocked() {
	cutoff := time.Now().Add(-s.cfg.SessionTTL)
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

// evictLocked makes room for a new session by removing the least
// recently used one when the cap is reached. Caller holds mu.
func (s *Service) evictLocked() {
	for len(s.sessions) >= s.cfg.MaxSessions {
		var oldestID string
		var oldest time.Time
		for id, sess := range s.sessions {
			if oldestID == "" || sess.lastUsed.Before(oldest) {
				oldestID = id
				oldest = sess.lastUsed
			}
		}
		delete(s.sessions, oldestID)
	}
}

// recordJob persists a job record, logging failures instead of
// surfacing them; history is best-effort.
func (s *Service) recordJob(ctx context.Context, rec JobRecord) {
	if err := s.jobs.RecordJob(ctx, rec); err != nil {
		slog.Warn("failed to record job", "action", rec.Action, "file", rec.FileName, "error", err)
	}
}

func (se *session) view() SessionView {
	return SessionView{
		ID:       se.id,
		FileName: se.fileName,
		Rows:     se.original.RowCount(),
		Columns:  se.original.ColumnNames(),
		Report:   se.report,
	}
}
