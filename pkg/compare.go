package fileshaker

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// compareChunkSize is the read granularity for byte-for-byte verification
const compareChunkSize = 8192

// FilesIdentical compares two files byte for byte, end to end. Equal content
// hashes are only candidate matches; this is the confirmation step that makes
// duplicate groups collision-proof.
func FilesIdentical(path1, path2 string) (bool, error) {
	f1, err := os.Open(path1)
	if err != nil {
		return false, fmt.Errorf("failed to open file %s: %w", path1, err)
	}
	defer f1.Close()

	f2, err := os.Open(path2)
	if err != nil {
		return false, fmt.Errorf("failed to open file %s: %w", path2, err)
	}
	defer f2.Close()

	buf1 := make([]byte, compareChunkSize)
	buf2 := make([]byte, compareChunkSize)

	for {
		n1, err1 := io.ReadFull(f1, buf1)
		n2, err2 := io.ReadFull(f2, buf2)

		if n1 != n2 || !bytes.Equal(buf1[:n1], buf2[:n2]) {
			return false, nil
		}

		atEOF1 := err1 == io.EOF || err1 == io.ErrUnexpectedEOF
		atEOF2 := err2 == io.EOF || err2 == io.ErrUnexpectedEOF
		if err1 != nil && !atEOF1 {
			return false, fmt.Errorf("failed to read from file %s: %w", path1, err1)
		}
		if err2 != nil && !atEOF2 {
			return false, fmt.Errorf("failed to read from file %s: %w", path2, err2)
		}
		if atEOF1 || atEOF2 {
			return atEOF1 == atEOF2 && n1 == n2, nil
		}
	}
}
