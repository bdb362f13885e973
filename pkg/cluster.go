package fileshaker

import (
	"sort"
)

// NearDuplicateGroup is a set of files whose fingerprints chain together
// within the Hamming threshold. The canonical member is the largest file in
// the group, matching the exact-duplicate policy.
type NearDuplicateGroup struct {
	Canonical *FileEntry
	Similar   []*FileEntry
}

// ClusterNearDuplicates groups fingerprinted images by bounded Hamming
// distance.
//
// Grouping is by chaining, not pairwise cliques: fingerprints are sorted by
// integer value and scanned in order, and a file joins the current group when
// its distance to the immediately preceding grouped file is within the
// threshold. This keeps clustering O(n log n) instead of O(n^2), accepting
// that transitive chains (A~B~C with A and C further apart than the
// threshold) can land in one group. That is a documented approximation for
// human review, not a correctness claim.
//
// Groups of size one carry no redundancy and are not reported.
func ClusterNearDuplicates(files []FingerprintedFile, threshold int) []*NearDuplicateGroup {
	if len(files) == 0 {
		return nil
	}

	sorted := make([]FingerprintedFile, len(files))
	copy(sorted, files)
	// Stable keeps scan order within equal fingerprints, so canonical
	// tie-breaking stays deterministic.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Fingerprint < sorted[j].Fingerprint
	})

	var groups []*NearDuplicateGroup
	var current []FingerprintedFile

	flush := func() {
		if len(current) >= 2 {
			members := make([]*FileEntry, len(current))
			for i, f := range current {
				members[i] = f.Entry
			}
			canonical, similar := chooseCanonical(members)
			groups = append(groups, &NearDuplicateGroup{
				Canonical: canonical,
				Similar:   similar,
			})
		}
		current = current[:0]
	}

	for _, f := range sorted {
		if len(current) > 0 {
			prev := current[len(current)-1].Fingerprint
			if HammingDistance(prev, f.Fingerprint) > threshold {
				flush()
			}
		}
		current = append(current, f)
	}
	flush()

	VerboseLog(1, "near-duplicate clustering: %d groups from %d fingerprints (threshold %d)",
		len(groups), len(files), threshold)
	return groups
}
