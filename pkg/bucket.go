package fileshaker

// SizeBucketIndex partitions scanned files by exact byte size. Two files with
// different sizes can never be content-duplicates, so a file whose size is
// unique in the whole scan is classified unique without ever being hashed.
// Bucket order and in-bucket order follow first-seen scan order, keeping all
// downstream grouping deterministic.
type SizeBucketIndex struct {
	buckets map[int64][]*FileEntry
	sizes   []int64 // first-seen order
}

// NewSizeBucketIndex builds the index over a slice of scanned entries
func NewSizeBucketIndex(entries []*FileEntry) *SizeBucketIndex {
	idx := &SizeBucketIndex{
		buckets: make(map[int64][]*FileEntry),
	}
	for _, entry := range entries {
		idx.Add(entry)
	}
	return idx
}

// Add inserts one entry into its size bucket
func (idx *SizeBucketIndex) Add(entry *FileEntry) {
	if _, seen := idx.buckets[entry.Size]; !seen {
		idx.sizes = append(idx.sizes, entry.Size)
	}
	idx.buckets[entry.Size] = append(idx.buckets[entry.Size], entry)
}

// UniqueSized returns the entries whose size appears exactly once in the
// scan, in scan order. These are never hashed.
func (idx *SizeBucketIndex) UniqueSized() []*FileEntry {
	var unique []*FileEntry
	for _, size := range idx.sizes {
		if bucket := idx.buckets[size]; len(bucket) == 1 {
			unique = append(unique, bucket[0])
		}
	}
	return unique
}

// CandidateBuckets returns every bucket holding two or more entries, in
// first-seen order. Only these files need content hashes.
func (idx *SizeBucketIndex) CandidateBuckets() [][]*FileEntry {
	var candidates [][]*FileEntry
	for _, size := range idx.sizes {
		if bucket := idx.buckets[size]; len(bucket) >= 2 {
			candidates = append(candidates, bucket)
		}
	}
	return candidates
}

// AllBuckets returns every bucket, including single-entry ones, in
// first-seen order. Used by the cross-tree differ, which classifies
// single-tree buckets without hashing.
func (idx *SizeBucketIndex) AllBuckets() [][]*FileEntry {
	buckets := make([][]*FileEntry, 0, len(idx.sizes))
	for _, size := range idx.sizes {
		buckets = append(buckets, idx.buckets[size])
	}
	return buckets
}
