package fileshaker

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// IgnoreFileName is looked up at the root of each scanned tree
const IgnoreFileName = ".fshakerignore"

// IgnoreManager filters scanned paths against regex patterns read from an
// optional ignore file at the tree root. The source tree is read-only, so a
// missing ignore file is simply an empty pattern set, never created.
type IgnoreManager struct {
	ignorePath string
	patterns   []*regexp.Regexp
	loaded     bool
}

// NewIgnoreManager creates an ignore manager for the given tree root
func NewIgnoreManager(root string) *IgnoreManager {
	return &IgnoreManager{
		ignorePath: filepath.Join(root, IgnoreFileName),
	}
}

// LoadIgnorePatterns loads ignore patterns from the ignore file
func (im *IgnoreManager) LoadIgnorePatterns() error {
	if im.loaded {
		return nil
	}

	file, err := os.Open(im.ignorePath)
	if err != nil {
		if os.IsNotExist(err) {
			im.loaded = true
			return nil
		}
		return fmt.Errorf("failed to open ignore file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		pattern, err := regexp.Compile(line)
		if err != nil {
			return fmt.Errorf("invalid regex pattern at line %d: %s - %w", lineNum, line, err)
		}

		im.patterns = append(im.patterns, pattern)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading ignore file: %w", err)
	}

	im.loaded = true
	return nil
}

// ShouldIgnore checks if a tree-relative path matches any ignore pattern
func (im *IgnoreManager) ShouldIgnore(relativePath string) bool {
	if !im.loaded {
		if err := im.LoadIgnorePatterns(); err != nil {
			return false // Don't ignore on error
		}
	}

	// Normalise path separators to forward slashes for consistent matching
	normalisedPath := filepath.ToSlash(relativePath)

	for _, pattern := range im.patterns {
		if pattern.MatchString(normalisedPath) {
			return true
		}
	}

	return false
}
