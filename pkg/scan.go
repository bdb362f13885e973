package fileshaker

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// FileKind classifies a file by its extension, resolved once at scan time
type FileKind int

const (
	KindOther FileKind = iota
	KindImage
	KindAudio
	KindVideo
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true,
	".tiff": true, ".heic": true, ".webp": true, ".raw": true,
}

var audioExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".aac": true, ".flac": true, ".ogg": true,
	".wma": true, ".m4a": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".avi": true, ".mov": true, ".mkv": true, ".flv": true,
	".wmv": true, ".webm": true,
}

// KindForExtension resolves the file kind for a lower-cased extension
func KindForExtension(ext string) FileKind {
	switch {
	case imageExtensions[ext]:
		return KindImage
	case audioExtensions[ext]:
		return KindAudio
	case videoExtensions[ext]:
		return KindVideo
	default:
		return KindOther
	}
}

// FileEntry is an immutable snapshot of a file taken at scan time. Size and
// modification time are re-validated against this snapshot before any cached
// hash is trusted.
type FileEntry struct {
	Path    string
	Size    int64
	ModTime time.Time
	Ext     string
	Kind    FileKind
	Tree    int // origin tree index, used by the cross-tree differ

	seq int // scan order, tie-breaker for canonical selection
}

// ScanResult holds the outcome of enumerating one root tree
type ScanResult struct {
	Entries    []*FileEntry
	Unreadable []string
}

// Scanner enumerates root trees into FileEntry snapshots. Scan order is
// deterministic (lexical walk) and preserved across trees, so canonical
// tie-breaking by earliest scan order is reproducible.
type Scanner struct {
	seq int
}

// NewScanner creates a scanner with a fresh scan-order counter
func NewScanner() *Scanner {
	return &Scanner{}
}

// ScanTree walks one root tree and snapshots every regular file, tagging each
// entry with the given tree-of-origin index. Files matching the tree's ignore
// patterns are skipped; files that cannot be stat'd are recorded as
// unreadable and excluded from all grouping.
func (s *Scanner) ScanTree(root string, tree int) (*ScanResult, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	ignore := NewIgnoreManager(absRoot)
	if err := ignore.LoadIgnorePatterns(); err != nil {
		return nil, err
	}

	result := &ScanResult{}

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if IsDebugEnabled("scan") {
				VerboseLog(2, "scan: cannot access %s: %v", path, err)
			}
			result.Unreadable = append(result.Unreadable, path)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr == nil && ignore.ShouldIgnore(rel) {
			if IsDebugEnabled("scan") {
				VerboseLog(2, "scan: ignoring %s", rel)
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			// File vanished between readdir and stat
			VerboseLog(1, "scan: cannot stat %s: %v", path, err)
			result.Unreadable = append(result.Unreadable, path)
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		result.Entries = append(result.Entries, &FileEntry{
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Ext:     ext,
			Kind:    KindForExtension(ext),
			Tree:    tree,
			seq:     s.seq,
		})
		s.seq++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	VerboseLog(1, "scanned %s: %d files, %d unreadable", root, len(result.Entries), len(result.Unreadable))
	return result, nil
}

// ImageEntries filters a scan down to the entries eligible for perceptual
// fingerprinting, preserving scan order.
func ImageEntries(entries []*FileEntry) []*FileEntry {
	var images []*FileEntry
	for _, entry := range entries {
		if entry.Kind == KindImage {
			images = append(images, entry)
		}
	}
	return images
}
