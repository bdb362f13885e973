package fileshaker

import (
	"errors"
	"os"
	"sync"
)

// ErrAborted is returned when a run is stopped by the shutdown signal before
// a report could be produced. In-flight hash work is allowed to finish and
// the hash cache is flushed, so no progress is lost.
var ErrAborted = errors.New("run aborted by shutdown signal")

// DuplicateGroup is a set of files with verified-identical content. Every
// redundant member is byte-identical to the canonical member.
type DuplicateGroup struct {
	Hash      string
	Canonical *FileEntry
	Redundant []*FileEntry
}

// ResolveResult is the outcome of exact-duplicate resolution over one scan
type ResolveResult struct {
	Groups     []*DuplicateGroup
	Unique     []*FileEntry
	Unreadable []string
}

// ExactDuplicateResolver drives the exact-duplicate pipeline: size bucketing,
// cached hashing across a bounded worker pool, and collision-safe byte
// verification. It is the only writer of the hash cache.
type ExactDuplicateResolver struct {
	cache      *HashCache
	algorithm  *HashAlgorithm
	workers    int
	bufferSize int

	hashesComputed int
}

// NewExactDuplicateResolver creates a resolver. Zero worker or buffer values
// fall back to the package defaults.
func NewExactDuplicateResolver(cache *HashCache, algorithm *HashAlgorithm, workers, bufferSize int) *ExactDuplicateResolver {
	if workers <= 0 {
		workers = DefaultHashWorkers
	}
	if bufferSize <= 0 {
		bufferSize = DefaultHashBuffer
	}
	return &ExactDuplicateResolver{
		cache:      cache,
		algorithm:  algorithm,
		workers:    workers,
		bufferSize: bufferSize,
	}
}

// HashesComputed returns the number of content hashes computed (not served
// from cache) since the resolver was created. A second run over an unchanged
// tree with a warm cache computes zero new hashes.
func (r *ExactDuplicateResolver) HashesComputed() int {
	return r.hashesComputed
}

// Resolve classifies the scanned entries into duplicate groups and unique
// files. Files that fail to read at any point are excluded from grouping and
// reported as unreadable; they never silently join a group.
func (r *ExactDuplicateResolver) Resolve(entries []*FileEntry, shutdown <-chan struct{}) (*ResolveResult, error) {
	index := NewSizeBucketIndex(entries)
	result := &ResolveResult{}

	// Files with a unique size can never be a duplicate of anything; they
	// skip hashing entirely.
	result.Unique = append(result.Unique, index.UniqueSized()...)

	candidates := index.CandidateBuckets()
	var flat []*FileEntry
	for _, bucket := range candidates {
		flat = append(flat, bucket...)
	}
	VerboseLog(1, "resolving %d files in %d size buckets (%d skipped as unique-sized)",
		len(flat), len(candidates), len(result.Unique))

	hashes, unreadable, err := r.hashCandidates(flat, shutdown)
	if err != nil {
		return nil, err
	}
	result.Unreadable = append(result.Unreadable, unreadable...)

	for _, bucket := range candidates {
		byHash := make(map[string][]*FileEntry)
		var hashOrder []string
		for _, entry := range bucket {
			sum, ok := hashes[entry]
			if !ok {
				continue // unreadable during hashing
			}
			if _, seen := byHash[sum]; !seen {
				hashOrder = append(hashOrder, sum)
			}
			byHash[sum] = append(byHash[sum], entry)
		}

		for _, sum := range hashOrder {
			set := byHash[sum]
			if len(set) == 1 {
				result.Unique = append(result.Unique, set[0])
				continue
			}
			// Equal hashes are candidate matches only; confirm by byte
			// comparison before grouping.
			for _, class := range r.verifyClasses(set, &result.Unreadable) {
				if len(class) == 1 {
					result.Unique = append(result.Unique, class[0])
					continue
				}
				canonical, redundant := chooseCanonical(class)
				result.Groups = append(result.Groups, &DuplicateGroup{
					Hash:      sum,
					Canonical: canonical,
					Redundant: redundant,
				})
			}
		}
	}

	return result, nil
}

// hashResult carries one worker's outcome back to the collector
type hashResult struct {
	entry *FileEntry
	sum   string
	err   error
}

// hashCandidates resolves a content hash for every entry, serving unchanged
// files from the cache and spreading the misses across the worker pool. On
// shutdown, in-flight files finish hashing (so their cache entries are
// complete) but no further jobs are started.
func (r *ExactDuplicateResolver) hashCandidates(entries []*FileEntry, shutdown <-chan struct{}) (map[*FileEntry]string, []string, error) {
	hashes := make(map[*FileEntry]string, len(entries))

	var misses []*FileEntry
	for _, entry := range entries {
		if sum, ok := r.cache.Lookup(entry); ok {
			hashes[entry] = sum
		} else {
			misses = append(misses, entry)
		}
	}
	VerboseLog(2, "hash phase: %d cache hits, %d to compute", len(hashes), len(misses))
	if len(misses) == 0 {
		return hashes, nil, nil
	}

	jobs := make(chan *FileEntry)
	results := make(chan hashResult, len(misses))
	var wg sync.WaitGroup

	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range jobs {
				sum, err := HashFile(entry.Path, r.algorithm, r.bufferSize)
				if err == nil {
					r.cache.Store(entry, sum)
				}
				results <- hashResult{entry: entry, sum: sum, err: err}

				select {
				case <-shutdown:
					return
				default:
				}
			}
		}()
	}

	aborted := false
submit:
	for _, entry := range misses {
		select {
		case jobs <- entry:
		case <-shutdown:
			aborted = true
			break submit
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	var unreadable []string
	for res := range results {
		if res.err != nil {
			VerboseLog(1, "cannot hash %s: %v", res.entry.Path, res.err)
			unreadable = append(unreadable, res.entry.Path)
			continue
		}
		hashes[res.entry] = res.sum
		r.hashesComputed++
	}

	if aborted {
		return nil, nil, ErrAborted
	}
	return hashes, unreadable, nil
}

// verifyClasses splits a set of files sharing one content hash into verified
// equivalence classes. A reference file is byte-compared against every other
// candidate; non-matching files (a true hash collision) are carried over and
// the procedure repeats on the remainder until every file is placed.
func (r *ExactDuplicateResolver) verifyClasses(candidates []*FileEntry, unreadable *[]string) [][]*FileEntry {
	var classes [][]*FileEntry
	pending := candidates

	for len(pending) > 0 {
		ref := pending[0]
		others := pending[1:]
		class := []*FileEntry{ref}
		var rest []*FileEntry
		refLost := false

		for i, other := range others {
			same, err := FilesIdentical(ref.Path, other.Path)
			if err != nil {
				if _, statErr := os.Stat(ref.Path); statErr != nil {
					// The reference itself vanished; restart the procedure
					// on everything grouped or not yet compared.
					VerboseLog(1, "reference %s vanished during verification: %v", ref.Path, statErr)
					*unreadable = append(*unreadable, ref.Path)
					rest = append(rest, others[i:]...)
					refLost = true
					break
				}
				VerboseLog(1, "cannot compare %s: %v", other.Path, err)
				*unreadable = append(*unreadable, other.Path)
				continue
			}
			if same {
				class = append(class, other)
			} else {
				VerboseLog(1, "hash collision: %s and %s share a hash but differ", ref.Path, other.Path)
				rest = append(rest, other)
			}
		}

		if refLost {
			pending = append(class[1:], rest...)
			continue
		}
		classes = append(classes, class)
		pending = rest
	}

	return classes
}

// chooseCanonical picks the canonical member of a group: the largest file,
// with ties broken by earliest scan order. The largest file of an
// identical-content set is assumed most likely to be the unmodified
// original. Returns the canonical entry and the remaining members in their
// original order.
func chooseCanonical(files []*FileEntry) (*FileEntry, []*FileEntry) {
	canonical := files[0]
	for _, f := range files[1:] {
		if f.Size > canonical.Size || (f.Size == canonical.Size && f.seq < canonical.seq) {
			canonical = f
		}
	}

	rest := make([]*FileEntry, 0, len(files)-1)
	for _, f := range files {
		if f != canonical {
			rest = append(rest, f)
		}
	}
	return canonical, rest
}
