package fileshaker

import (
	"os"
	"path/filepath"
	"testing"
)

func TestKindForExtension(t *testing.T) {
	tests := []struct {
		ext      string
		expected FileKind
	}{
		{".jpg", KindImage},
		{".jpeg", KindImage},
		{".png", KindImage},
		{".webp", KindImage},
		{".mp3", KindAudio},
		{".flac", KindAudio},
		{".mp4", KindVideo},
		{".mkv", KindVideo},
		{".txt", KindOther},
		{"", KindOther},
	}

	for _, test := range tests {
		if got := KindForExtension(test.ext); got != test.expected {
			t.Errorf("KindForExtension(%q) = %d, expected %d", test.ext, got, test.expected)
		}
	}
}

func TestScanTree(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "aaa")
	writeTestFile(t, dir, "photo.JPG", "not really a jpeg")
	subDir := filepath.Join(dir, "sub")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}
	writeTestFile(t, subDir, "b.txt", "bbbb")

	scanner := NewScanner()
	result, err := scanner.ScanTree(dir, 0)
	if err != nil {
		t.Fatalf("ScanTree failed: %v", err)
	}

	if len(result.Entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(result.Entries))
	}
	if len(result.Unreadable) != 0 {
		t.Errorf("Expected no unreadable files, got %v", result.Unreadable)
	}

	byName := make(map[string]*FileEntry)
	for _, entry := range result.Entries {
		byName[filepath.Base(entry.Path)] = entry
		if entry.Tree != 0 {
			t.Errorf("Expected tree 0 for %s, got %d", entry.Path, entry.Tree)
		}
	}

	photo, ok := byName["photo.JPG"]
	if !ok {
		t.Fatal("Expected photo.JPG in scan result")
	}
	if photo.Ext != ".jpg" {
		t.Errorf("Expected lower-cased extension .jpg, got %s", photo.Ext)
	}
	if photo.Kind != KindImage {
		t.Errorf("Expected photo.JPG classified as image")
	}
	if byName["a.txt"].Kind != KindOther {
		t.Errorf("Expected a.txt classified as other")
	}
	if byName["a.txt"].Size != 3 {
		t.Errorf("Expected a.txt size 3, got %d", byName["a.txt"].Size)
	}
}

func TestScanTree_ScanOrder(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeTestFile(t, dirA, "one.txt", "1")
	writeTestFile(t, dirA, "two.txt", "2")
	writeTestFile(t, dirB, "three.txt", "3")

	scanner := NewScanner()
	resultA, err := scanner.ScanTree(dirA, 0)
	if err != nil {
		t.Fatalf("ScanTree(A) failed: %v", err)
	}
	resultB, err := scanner.ScanTree(dirB, 1)
	if err != nil {
		t.Fatalf("ScanTree(B) failed: %v", err)
	}

	// The scan-order counter keeps counting across trees
	all := append(append([]*FileEntry{}, resultA.Entries...), resultB.Entries...)
	for i, entry := range all {
		if entry.seq != i {
			t.Errorf("Expected seq %d for %s, got %d", i, entry.Path, entry.seq)
		}
	}
}

func TestScanTree_IgnorePatterns(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, IgnoreFileName, "\\.log$\n# comment\ntmp/\n")
	writeTestFile(t, dir, "keep.txt", "keep")
	writeTestFile(t, dir, "drop.log", "drop")
	tmpDir := filepath.Join(dir, "tmp")
	if err := os.MkdirAll(tmpDir, 0755); err != nil {
		t.Fatalf("Failed to create tmp directory: %v", err)
	}
	writeTestFile(t, tmpDir, "scratch.txt", "scratch")

	scanner := NewScanner()
	result, err := scanner.ScanTree(dir, 0)
	if err != nil {
		t.Fatalf("ScanTree failed: %v", err)
	}

	names := make(map[string]bool)
	for _, entry := range result.Entries {
		names[filepath.Base(entry.Path)] = true
	}

	if !names["keep.txt"] {
		t.Error("Expected keep.txt to be scanned")
	}
	if names["drop.log"] {
		t.Error("Expected drop.log to be ignored")
	}
	if names["scratch.txt"] {
		t.Error("Expected tmp/scratch.txt to be ignored")
	}
}

func TestIgnoreManager_MissingFile(t *testing.T) {
	im := NewIgnoreManager(t.TempDir())
	if err := im.LoadIgnorePatterns(); err != nil {
		t.Fatalf("Expected missing ignore file to load as empty: %v", err)
	}
	if im.ShouldIgnore("anything.txt") {
		t.Error("Empty pattern set should ignore nothing")
	}
}

func TestIgnoreManager_InvalidPattern(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, IgnoreFileName, "[unclosed\n")

	im := NewIgnoreManager(dir)
	if err := im.LoadIgnorePatterns(); err == nil {
		t.Error("Expected error for invalid regex pattern")
	}
}

func TestImageEntries(t *testing.T) {
	dir := t.TempDir()
	entries := []*FileEntry{
		testEntry(t, writeTestFile(t, dir, "a.jpg", "x"), 0),
		testEntry(t, writeTestFile(t, dir, "b.txt", "y"), 1),
		testEntry(t, writeTestFile(t, dir, "c.png", "z"), 2),
	}

	images := ImageEntries(entries)
	if len(images) != 2 {
		t.Fatalf("Expected 2 image entries, got %d", len(images))
	}
	if images[0].Ext != ".jpg" || images[1].Ext != ".png" {
		t.Errorf("Expected scan order preserved, got %s then %s", images[0].Ext, images[1].Ext)
	}
}
