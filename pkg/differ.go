package fileshaker

import (
	"sort"
)

// TreeDiff classifies the files of two trees into three disjoint sets:
// content confirmed present in both trees, content unique to tree A, and
// content unique to tree B. No canonical selection happens here; the differ
// only classifies.
type TreeDiff struct {
	Common     []string `json:"common"`
	UniqueToA  []string `json:"unique_to_a"`
	UniqueToB  []string `json:"unique_to_b"`
	Unreadable []string `json:"unreadable_files"`
}

// DiffTrees runs the size-bucket, cached-hash and byte-verify pipeline over
// the union of two trees' entries. Entries must carry their tree-of-origin
// tag (0 for A, 1 for B). Buckets whose size occurs in only one tree are
// classified without hashing; only sizes represented in both trees cost
// digest work.
func (r *ExactDuplicateResolver) DiffTrees(treeA, treeB []*FileEntry, shutdown <-chan struct{}) (*TreeDiff, error) {
	union := make([]*FileEntry, 0, len(treeA)+len(treeB))
	union = append(union, treeA...)
	union = append(union, treeB...)

	index := NewSizeBucketIndex(union)
	diff := &TreeDiff{}

	markUnique := func(entries ...*FileEntry) {
		for _, entry := range entries {
			if entry.Tree == 0 {
				diff.UniqueToA = append(diff.UniqueToA, entry.Path)
			} else {
				diff.UniqueToB = append(diff.UniqueToB, entry.Path)
			}
		}
	}

	var mixedBuckets [][]*FileEntry
	var flat []*FileEntry
	for _, bucket := range index.AllBuckets() {
		if singleTree(bucket) {
			markUnique(bucket...)
			continue
		}
		mixedBuckets = append(mixedBuckets, bucket)
		flat = append(flat, bucket...)
	}

	hashes, unreadable, err := r.hashCandidates(flat, shutdown)
	if err != nil {
		return nil, err
	}
	diff.Unreadable = append(diff.Unreadable, unreadable...)

	for _, bucket := range mixedBuckets {
		byHash := make(map[string][]*FileEntry)
		var hashOrder []string
		for _, entry := range bucket {
			sum, ok := hashes[entry]
			if !ok {
				continue
			}
			if _, seen := byHash[sum]; !seen {
				hashOrder = append(hashOrder, sum)
			}
			byHash[sum] = append(byHash[sum], entry)
		}

		for _, sum := range hashOrder {
			set := byHash[sum]
			if singleTree(set) {
				markUnique(set...)
				continue
			}
			// A hash shared across trees is still only a candidate match;
			// confirm per verified equivalence class.
			for _, class := range r.verifyClasses(set, &diff.Unreadable) {
				if singleTree(class) {
					markUnique(class...)
					continue
				}
				for _, entry := range class {
					diff.Common = append(diff.Common, entry.Path)
				}
			}
		}
	}

	sort.Strings(diff.Common)
	sort.Strings(diff.UniqueToA)
	sort.Strings(diff.UniqueToB)
	sort.Strings(diff.Unreadable)
	VerboseLog(1, "tree diff: %d common, %d unique to A, %d unique to B",
		len(diff.Common), len(diff.UniqueToA), len(diff.UniqueToB))
	return diff, nil
}

// singleTree reports whether every entry originates from the same tree
func singleTree(entries []*FileEntry) bool {
	for _, entry := range entries[1:] {
		if entry.Tree != entries[0].Tree {
			return false
		}
	}
	return true
}
