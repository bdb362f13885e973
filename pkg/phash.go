package fileshaker

import (
	"fmt"
	"image"
	"math/bits"
	"os"

	// Camera-native and converted formats the fingerprinter accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/corona10/goimagehash"
	"golang.org/x/sync/errgroup"
)

// PerceptualFingerprint is a 64-bit pHash of an image's visual structure.
// It is derived from the decoded pixels, not the file bytes, so it survives
// re-encoding and minor edits. Equal or nearby fingerprints are a similarity
// estimate, never a proof of identity.
type PerceptualFingerprint uint64

// FingerprintWidth is the fingerprint size in bits
const FingerprintWidth = 64

// HammingDistance returns the number of differing bits between two
// fingerprints, the similarity metric for near-duplicate grouping.
func HammingDistance(a, b PerceptualFingerprint) int {
	return bits.OnesCount64(uint64(a ^ b))
}

// FingerprintImage decodes an image file and derives its perceptual
// fingerprint. Decoding normalises the colour mode, so camera-native and
// converted encodings of the same picture fingerprint alike. Unreadable or
// corrupt images fail with an error; such files are excluded from
// near-duplicate grouping but still participate in exact-duplicate
// detection.
func FingerprintImage(path string) (PerceptualFingerprint, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return 0, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return 0, fmt.Errorf("failed to fingerprint image %s: %w", path, err)
	}

	return PerceptualFingerprint(hash.GetHash()), nil
}

// FingerprintedFile pairs a scanned entry with its computed fingerprint
type FingerprintedFile struct {
	Entry       *FileEntry
	Fingerprint PerceptualFingerprint
}

// FingerprintAll computes fingerprints for the given image entries across a
// bounded pool of workers. Files that fail to decode are skipped with a log
// line. The returned slice preserves scan order regardless of worker
// completion order; clustering must not start until this full population is
// available.
func FingerprintAll(entries []*FileEntry, workers int, shutdown <-chan struct{}) ([]FingerprintedFile, error) {
	if workers <= 0 {
		workers = DefaultPhashWorkers
	}

	computed := make([]FingerprintedFile, len(entries))
	valid := make([]bool, len(entries))

	var group errgroup.Group
	group.SetLimit(workers)

	aborted := false
	for i := range entries {
		select {
		case <-shutdown:
			aborted = true
		default:
		}
		if aborted {
			break
		}

		idx := i
		group.Go(func() error {
			entry := entries[idx]
			fp, err := FingerprintImage(entry.Path)
			if err != nil {
				// Decode failures only exclude the file from near-duplicate
				// grouping; it still participates in exact detection.
				VerboseLog(1, "skipping near-duplicate check for %s: %v", entry.Path, err)
				return nil
			}
			computed[idx] = FingerprintedFile{Entry: entry, Fingerprint: fp}
			valid[idx] = true
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	if aborted {
		return nil, ErrAborted
	}

	var out []FingerprintedFile
	for i := range entries {
		if valid[i] {
			out = append(out, computed[i])
		}
	}
	VerboseLog(1, "fingerprinted %d of %d images", len(out), len(entries))
	return out, nil
}
