package fileshaker

import (
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// dateLabelFormat matches the destination folder naming of the copy step
const dateLabelFormat = "2006-01-02"

// DateLabel returns an opaque date label for a file, used by the external
// copy step to pick a destination folder name. For images the EXIF original
// capture date is preferred; everything else, and any image without usable
// EXIF data, falls back to the file's modification time. Never fails.
func DateLabel(entry *FileEntry) string {
	if entry.Kind == KindImage {
		if t, err := exifDate(entry.Path); err == nil {
			return t.Format(dateLabelFormat)
		}
	}
	return entry.ModTime.Format(dateLabelFormat)
}

// exifDate extracts the DateTimeOriginal (or DateTime) tag from an image
func exifDate(path string) (time.Time, error) {
	file, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer file.Close()

	meta, err := exif.Decode(file)
	if err != nil {
		return time.Time{}, err
	}
	return meta.DateTime()
}
