package fileshaker

import (
	"os"
	"testing"
	"time"
)

func TestDateLabel_ModTimeFallback(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "notes.txt", "notes")

	stamp := time.Date(2023, 6, 15, 10, 30, 0, 0, time.Local)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}

	entry := testEntry(t, path, 0)
	if got := DateLabel(entry); got != "2023-06-15" {
		t.Errorf("Expected date label 2023-06-15, got %s", got)
	}
}

func TestDateLabel_ImageWithoutExif(t *testing.T) {
	dir := t.TempDir()
	// A generated PNG carries no EXIF block, so the label falls back to mtime
	path := writeTestImage(t, dir, "plain.png", 0)

	stamp := time.Date(2021, 12, 31, 23, 59, 0, 0, time.Local)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}

	entry := testEntry(t, path, 0)
	if got := DateLabel(entry); got != "2021-12-31" {
		t.Errorf("Expected date label 2021-12-31, got %s", got)
	}
}

func TestDateLabel_UndecodableImage(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "broken.jpg", "not a jpeg")

	stamp := time.Date(2020, 1, 2, 8, 0, 0, 0, time.Local)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}

	entry := testEntry(t, path, 0)
	if got := DateLabel(entry); got != "2020-01-02" {
		t.Errorf("Expected date label 2020-01-02, got %s", got)
	}
}
