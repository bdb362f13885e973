package fileshaker

// RunOptions controls a full deduplication run. Zero values fall back to the
// package defaults.
type RunOptions struct {
	Roots        []string
	CachePath    string
	Algorithm    *HashAlgorithm
	HashWorkers  int
	PhashWorkers int
	HashBuffer   int
	Threshold    int
}

// Run executes the full pipeline over one or more root trees: scan, exact
// duplicate resolution through the persistent hash cache, perceptual
// fingerprinting of images, near-duplicate clustering, and report assembly.
//
// Phases run strictly in order; grouping never starts on a partial hash or
// fingerprint population. The hash cache is flushed on every exit path,
// including a shutdown-signal abort, in which case Run returns ErrAborted
// and no report.
func Run(opts RunOptions, shutdown <-chan struct{}) (*Report, error) {
	if opts.Algorithm == nil {
		opts.Algorithm, _ = GetHashAlgorithm("sha256")
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultHammingThreshold
	}
	if opts.CachePath == "" {
		opts.CachePath = "file_hashes.json"
	}

	cache := NewHashCache(opts.CachePath)
	cache.Load()

	scanner := NewScanner()
	var entries []*FileEntry
	var scanUnreadable []string
	for i, root := range opts.Roots {
		result, err := scanner.ScanTree(root, i)
		if err != nil {
			return nil, err
		}
		entries = append(entries, result.Entries...)
		scanUnreadable = append(scanUnreadable, result.Unreadable...)
	}

	if stopRequested(shutdown) {
		return nil, ErrAborted
	}

	resolver := NewExactDuplicateResolver(cache, opts.Algorithm, opts.HashWorkers, opts.HashBuffer)
	resolved, resolveErr := resolver.Resolve(entries, shutdown)

	// The cache is flushed whether or not the hash phase completed, so an
	// aborted run still keeps its progress.
	if err := cache.Persist(); err != nil {
		return nil, err
	}
	if resolveErr != nil {
		return nil, resolveErr
	}
	if stopRequested(shutdown) {
		return nil, ErrAborted
	}

	fingerprints, err := FingerprintAll(ImageEntries(entries), opts.PhashWorkers, shutdown)
	if err != nil {
		return nil, err
	}
	if stopRequested(shutdown) {
		return nil, ErrAborted
	}

	nearGroups := ClusterNearDuplicates(fingerprints, opts.Threshold)

	total := len(entries) + len(scanUnreadable)
	return BuildReport(total, resolved, nearGroups, scanUnreadable), nil
}

// stopRequested is the between-phase abort check
func stopRequested(shutdown <-chan struct{}) bool {
	select {
	case <-shutdown:
		return true
	default:
		return false
	}
}
