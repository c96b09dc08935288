package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

const sampleCSV = "Full Name,Email\n jOHN doe ,john@x.com\n jOHN doe ,john@x.com\nann lee,bad-email\n"

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewMemoryJobStore(10), ServiceConfig{})
}

func mustLoad(t *testing.T, s *Service, csv string) SessionView {
	t.Helper()
	view, err := s.LoadCSV(context.Background(), "leads.csv", []byte(csv))
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	return view
}

func TestService_LoadCSV(t *testing.T) {
	s := newTestService(t)
	view := mustLoad(t, s, sampleCSV)

	if view.ID == "" {
		t.Error("session ID is empty")
	}
	if view.FileName != "leads.csv" {
		t.Errorf("FileName = %q, want %q", view.FileName, "leads.csv")
	}
	if view.Rows != 3 {
		t.Errorf("Rows = %d, want 3", view.Rows)
	}
	if !equalStrings(view.Columns, []string{"Full Name", "Email"}) {
		t.Errorf("Columns = %v", view.Columns)
	}
	if view.Report.DuplicateRows != 1 {
		t.Errorf("Report.DuplicateRows = %d, want 1", view.Report.DuplicateRows)
	}
	if s.SessionCount() != 1 {
		t.Errorf("SessionCount() = %d, want 1", s.SessionCount())
	}
}

func TestService_LoadCSV_Invalid(t *testing.T) {
	s := newTestService(t)
	_, err := s.LoadCSV(context.Background(), "empty.csv", nil)
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("error = %v, want ErrEmptyFile", err)
	}
}

func TestService_Audit(t *testing.T) {
	s := newTestService(t)
	view := mustLoad(t, s, sampleCSV)

	report, err := s.Audit(view.ID)
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	if report.RowCount != 3 {
		t.Errorf("RowCount = %d, want 3", report.RowCount)
	}

	if _, err := s.Audit("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Audit(missing) error = %v, want ErrSessionNotFound", err)
	}
}

func TestService_CleanSession(t *testing.T) {
	s := newTestService(t)
	view := mustLoad(t, s, sampleCSV)

	result, err := s.CleanSession(context.Background(), view.ID, CleaningConfig{
		RemoveDuplicates: true,
		TrimWhitespace:   true,
		TitleCaseNames:   true,
	})
	if err != nil {
		t.Fatalf("CleanSession() error = %v", err)
	}

	if result.RowsBefore != 3 || result.RowsAfter != 2 {
		t.Errorf("rows %d -> %d, want 3 -> 2", result.RowsBefore, result.RowsAfter)
	}
	if result.ScoreAfter < result.ScoreBefore {
		t.Errorf("score went down: %d -> %d", result.ScoreBefore, result.ScoreAfter)
	}
	want := []string{"remove_duplicates", "trim_whitespace", "title_case_names"}
	if !equalStrings(result.Steps, want) {
		t.Errorf("Steps = %v, want %v", result.Steps, want)
	}

	preview, err := s.Preview(view.ID, 0)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if preview.Rows[0][0] != "John Doe" {
		t.Errorf("cleaned cell = %q, want %q", preview.Rows[0][0], "John Doe")
	}
}

func TestService_CleanSession_NotCumulative(t *testing.T) {
	s := newTestService(t)
	view := mustLoad(t, s, sampleCSV)

	// First run drops duplicates; second run with a different config
	// starts over from the original upload.
	if _, err := s.CleanSession(context.Background(), view.ID, CleaningConfig{RemoveDuplicates: true}); err != nil {
		t.Fatalf("first CleanSession() error = %v", err)
	}
	result, err := s.CleanSession(context.Background(), view.ID, CleaningConfig{TrimWhitespace: true})
	if err != nil {
		t.Fatalf("second CleanSession() error = %v", err)
	}
	if result.RowsAfter != 3 {
		t.Errorf("RowsAfter = %d, want 3 (duplicates back, only trim ran)", result.RowsAfter)
	}
}

func TestService_CleanSession_UnknownColumn(t *testing.T) {
	s := newTestService(t)
	view := mustLoad(t, s, sampleCSV)

	_, err := s.CleanSession(context.Background(), view.ID, CleaningConfig{
		ValidateEmails: true,
		EmailColumn:    "Phone",
	})
	if !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("error = %v, want ErrUnknownColumn", err)
	}
}

func TestService_CleanWithPreset(t *testing.T) {
	s := newTestService(t)
	view := mustLoad(t, s, sampleCSV)

	result, err := s.CleanWithPreset(context.Background(), view.ID, "standard")
	if err != nil {
		t.Fatalf("CleanWithPreset() error = %v", err)
	}
	if result.RowsAfter != 2 {
		t.Errorf("RowsAfter = %d, want 2", result.RowsAfter)
	}

	if _, err := s.CleanWithPreset(context.Background(), view.ID, "nope"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("error = %v, want ErrUnknownPreset", err)
	}
}

func TestService_Preview(t *testing.T) {
	s := newTestService(t)
	view := mustLoad(t, s, sampleCSV)

	preview, err := s.Preview(view.ID, 2)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if len(preview.Rows) != 2 {
		t.Errorf("len(Rows) = %d, want 2", len(preview.Rows))
	}
	if preview.TotalRows != 3 {
		t.Errorf("TotalRows = %d, want 3", preview.TotalRows)
	}

	// Zero or oversized n returns everything.
	all, _ := s.Preview(view.ID, 100)
	if len(all.Rows) != 3 {
		t.Errorf("len(Rows) = %d, want 3", len(all.Rows))
	}
}

func TestService_Download(t *testing.T) {
	s := newTestService(t)
	view := mustLoad(t, s, sampleCSV)

	name, data, err := s.Download(view.ID)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if !strings.HasPrefix(name, "cleaned_data_") || !strings.HasSuffix(name, ".csv") {
		t.Errorf("file name = %q", name)
	}
	if !strings.HasPrefix(string(data), "Full Name,Email\n") {
		t.Errorf("data = %q", data)
	}
}

func TestService_ExportSession(t *testing.T) {
	RegisterTarget(ExportTarget{
		Key:    "svc-test",
		Label:  "Svc Test",
		Rename: func(s string) string { return strings.ReplaceAll(strings.ToLower(s), " ", "_") },
	})

	s := newTestService(t)
	view := mustLoad(t, s, sampleCSV)

	name, data, err := s.ExportSession(context.Background(), view.ID, "svc-test")
	if err != nil {
		t.Fatalf("ExportSession() error = %v", err)
	}
	if name != "datascrub_svc_test.csv" {
		t.Errorf("file name = %q", name)
	}
	if !strings.HasPrefix(string(data), "full_name,email\n") {
		t.Errorf("header not renamed: %q", data)
	}

	if _, _, err := s.ExportSession(context.Background(), view.ID, "nope"); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("error = %v, want ErrUnknownTarget", err)
	}
}

func TestService_ResetSession(t *testing.T) {
	s := newTestService(t)
	view := mustLoad(t, s, sampleCSV)

	if _, err := s.CleanSession(context.Background(), view.ID, CleaningConfig{RemoveDuplicates: true}); err != nil {
		t.Fatalf("CleanSession() error = %v", err)
	}
	if err := s.ResetSession(view.ID); err != nil {
		t.Fatalf("ResetSession() error = %v", err)
	}

	preview, _ := s.Preview(view.ID, 0)
	if preview.TotalRows != 3 {
		t.Errorf("TotalRows = %d after reset, want 3", preview.TotalRows)
	}
}

func TestService_SessionExpiry(t *testing.T) {
	s := NewService(nil, ServiceConfig{SessionTTL: 10 * time.Millisecond})
	view := mustLoad(t, s, sampleCSV)

	time.Sleep(30 * time.Millisecond)

	if _, err := s.Audit(view.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expired session error = %v, want ErrSessionNotFound", err)
	}
}

func TestService_EvictsLRU(t *testing.T) {
	s := NewService(nil, ServiceConfig{MaxSessions: 2})

	first := mustLoad(t, s, sampleCSV)
	second := mustLoad(t, s, sampleCSV)

	// Touch the first session so the second becomes least recently used.
	if _, err := s.Audit(first.ID); err != nil {
		t.Fatalf("Audit() error = %v", err)
	}

	third := mustLoad(t, s, sampleCSV)

	if s.SessionCount() != 2 {
		t.Errorf("SessionCount() = %d, want 2", s.SessionCount())
	}
	if _, err := s.Audit(second.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("LRU session should be evicted, got err = %v", err)
	}
	if _, err := s.Audit(third.ID); err != nil {
		t.Errorf("newest session missing: %v", err)
	}
}

func TestService_RecordsJobs(t *testing.T) {
	store := NewMemoryJobStore(10)
	s := NewService(store, ServiceConfig{})
	ctx := context.Background()

	view := mustLoad(t, s, sampleCSV)
	if _, err := s.CleanSession(ctx, view.ID, CleaningConfig{RemoveDuplicates: true}); err != nil {
		t.Fatalf("CleanSession() error = %v", err)
	}

	jobs, err := s.RecentJobs(ctx, 10)
	if err != nil {
		t.Fatalf("RecentJobs() error = %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("len(jobs) = %d, want 2", len(jobs))
	}
	if jobs[0].Action != JobClean || jobs[1].Action != JobUpload {
		t.Errorf("actions = [%s, %s], want [clean, upload]", jobs[0].Action, jobs[1].Action)
	}
	if jobs[0].RowsIn != 3 || jobs[0].RowsOut != 2 {
		t.Errorf("clean job rows = %d -> %d, want 3 -> 2", jobs[0].RowsIn, jobs[0].RowsOut)
	}
}
