package failarchive

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestArchiveBeforeAgentCopiesExistingReport(t *testing.T) {
	dir := t.TempDir()
	failDir := filepath.Join(dir, failuresDir)
	if err := os.MkdirAll(failDir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	reportPath := filepath.Join(failDir, "sprint-7-review.md")
	if err := os.WriteFile(reportPath, []byte("review failed: missing tests"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := ArchiveBeforeAgent(dir, 7, "reviewer", now); err != nil {
		t.Fatalf("ArchiveBeforeAgent() error = %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, archiveDir))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 archived file, got %d", len(entries))
	}
	if want := "sprint-7-review-20260301_120000.md"; entries[0].Name() != want {
		t.Errorf("archived name = %q, want %q", entries[0].Name(), want)
	}
}

func TestArchiveBeforeAgentNoOpWhenReportMissing(t *testing.T) {
	dir := t.TempDir()
	if err := ArchiveBeforeAgent(dir, 7, "reviewer", time.Now().UTC()); err != nil {
		t.Fatalf("ArchiveBeforeAgent() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, archiveDir)); !os.IsNotExist(err) {
		t.Fatal("expected no archive directory to be created")
	}
}

func TestArchiveBeforeAgentNoOpForUnknownAgent(t *testing.T) {
	dir := t.TempDir()
	if err := ArchiveBeforeAgent(dir, 1, "code-implementer", time.Now().UTC()); err != nil {
		t.Fatalf("ArchiveBeforeAgent() error = %v", err)
	}
}

func TestArchiveBeforeAgentDisambiguatesCollision(t *testing.T) {
	dir := t.TempDir()
	failDir := filepath.Join(dir, failuresDir)
	os.MkdirAll(failDir, 0755)
	os.WriteFile(filepath.Join(failDir, "sprint-2-unit-tests.md"), []byte("first"), 0644)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := ArchiveBeforeAgent(dir, 2, "unit-test-runner", now); err != nil {
		t.Fatalf("first ArchiveBeforeAgent() error = %v", err)
	}

	os.WriteFile(filepath.Join(failDir, "sprint-2-unit-tests.md"), []byte("second"), 0644)
	if err := ArchiveBeforeAgent(dir, 2, "unit-test-runner", now); err != nil {
		t.Fatalf("second ArchiveBeforeAgent() error = %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, archiveDir))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 archived files after collision, got %d", len(entries))
	}
}
