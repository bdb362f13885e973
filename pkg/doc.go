// Package fileshaker identifies redundant files inside large media trees
// so that a downstream copy step retains a single canonical copy of each
// distinct piece of content.
//
// # Core API
//
// A full deduplication run scans one or more root trees, resolves exact
// duplicates through a persistent hash cache, clusters visually similar
// images by perceptual fingerprint, and emits a Report:
//
//	report, err := fileshaker.Run(fileshaker.RunOptions{
//		Roots:     []string{"/mnt/photos"},
//		CachePath: "file_hashes.json",
//	}, shutdownChan)
//
// Two trees can be compared without producing a dedupe report:
//
//	diff, err := resolver.DiffTrees(entriesA, entriesB, shutdownChan)
//
// The package never moves or deletes files; the source trees are read-only
// and the Report is the only output besides the hash cache.
//
// # Configuration
//
// Runtime behaviour (hash algorithm, worker counts, Hamming threshold) is
// controlled by a config file managed by Config, with per-run overrides:
//
//	fileshaker.SetVerboseLevel(2)
//	fileshaker.SetDebugFlags("scan,hash")
package fileshaker
