package fileshaker

import (
	"testing"
)

func fingerprinted(path string, size int64, seq int, fp uint64) FingerprintedFile {
	return FingerprintedFile{
		Entry:       &FileEntry{Path: path, Size: size, Kind: KindImage, seq: seq},
		Fingerprint: PerceptualFingerprint(fp),
	}
}

func TestHammingDistance(t *testing.T) {
	tests := []struct {
		a, b     uint64
		expected int
	}{
		{0x0, 0x0, 0},
		{0x0, 0x1, 1},
		{0x0, 0xF, 4},
		{0xFFFFFFFFFFFFFFFF, 0x0, 64},
		{0b1010, 0b0101, 4},
	}

	for _, tt := range tests {
		got := HammingDistance(PerceptualFingerprint(tt.a), PerceptualFingerprint(tt.b))
		if got != tt.expected {
			t.Errorf("HammingDistance(%#x, %#x) = %d, expected %d", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestClusterNearDuplicates_WithinThreshold(t *testing.T) {
	// Distance 3 with threshold 5: one group holding both
	files := []FingerprintedFile{
		fingerprinted("a.jpg", 100, 0, 0b0000),
		fingerprinted("b.jpg", 200, 1, 0b0111),
	}

	groups := ClusterNearDuplicates(files, 5)
	if len(groups) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(groups))
	}
	if len(groups[0].Similar) != 1 {
		t.Errorf("Expected 1 similar member, got %d", len(groups[0].Similar))
	}
}

func TestClusterNearDuplicates_BeyondThreshold(t *testing.T) {
	// Same pair with threshold 2: two singletons, nothing reported
	files := []FingerprintedFile{
		fingerprinted("a.jpg", 100, 0, 0b0000),
		fingerprinted("b.jpg", 200, 1, 0b0111),
	}

	groups := ClusterNearDuplicates(files, 2)
	if len(groups) != 0 {
		t.Fatalf("Expected no groups below threshold, got %d", len(groups))
	}
}

func TestClusterNearDuplicates_ChainingProperty(t *testing.T) {
	// a~b and b~c are within threshold 2 but a and c are distance 4 apart.
	// Chaining deliberately places all three in one group.
	files := []FingerprintedFile{
		fingerprinted("a.jpg", 100, 0, 0b0000),
		fingerprinted("b.jpg", 100, 1, 0b0011),
		fingerprinted("c.jpg", 100, 2, 0b1111),
	}

	groups := ClusterNearDuplicates(files, 2)
	if len(groups) != 1 {
		t.Fatalf("Expected 1 chained group, got %d", len(groups))
	}
	if got := 1 + len(groups[0].Similar); got != 3 {
		t.Errorf("Expected 3 members in chained group, got %d", got)
	}

	// Every consecutive pair along the sorted chain is within threshold
	if HammingDistance(files[0].Fingerprint, files[1].Fingerprint) > 2 ||
		HammingDistance(files[1].Fingerprint, files[2].Fingerprint) > 2 {
		t.Error("Test fixture broken: consecutive distances must be within threshold")
	}
	if HammingDistance(files[0].Fingerprint, files[2].Fingerprint) <= 2 {
		t.Error("Test fixture broken: endpoints must exceed the threshold")
	}
}

func TestClusterNearDuplicates_ChainBreak(t *testing.T) {
	files := []FingerprintedFile{
		fingerprinted("a.jpg", 100, 0, 0x00),
		fingerprinted("b.jpg", 100, 1, 0x01),
		fingerprinted("c.jpg", 100, 2, 0xFF00000000000000),
		fingerprinted("d.jpg", 100, 3, 0xFF00000000000001),
	}

	groups := ClusterNearDuplicates(files, 2)
	if len(groups) != 2 {
		t.Fatalf("Expected 2 separate groups, got %d", len(groups))
	}
}

func TestClusterNearDuplicates_CanonicalIsLargest(t *testing.T) {
	files := []FingerprintedFile{
		fingerprinted("small.jpg", 100, 0, 0b0000),
		fingerprinted("large.jpg", 900, 1, 0b0001),
		fingerprinted("medium.jpg", 400, 2, 0b0011),
	}

	groups := ClusterNearDuplicates(files, 2)
	if len(groups) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(groups))
	}
	group := groups[0]
	if group.Canonical.Path != "large.jpg" {
		t.Errorf("Expected large.jpg as canonical, got %s", group.Canonical.Path)
	}
	for _, member := range group.Similar {
		if member.Size > group.Canonical.Size {
			t.Errorf("Canonical %s (%d bytes) is smaller than member %s (%d bytes)",
				group.Canonical.Path, group.Canonical.Size, member.Path, member.Size)
		}
	}
}

func TestClusterNearDuplicates_SingletonNotReported(t *testing.T) {
	files := []FingerprintedFile{
		fingerprinted("only.jpg", 100, 0, 0b0000),
	}
	if groups := ClusterNearDuplicates(files, 5); len(groups) != 0 {
		t.Errorf("Expected no groups for a single image, got %d", len(groups))
	}
}

func TestClusterNearDuplicates_Empty(t *testing.T) {
	if groups := ClusterNearDuplicates(nil, 5); groups != nil {
		t.Errorf("Expected nil groups for empty input, got %v", groups)
	}
}
