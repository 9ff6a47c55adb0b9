package duckdb

import (
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for an input file, so a stored run
// can be matched against the files currently on disk.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Matches reports whether the file at fp.Path still has the recorded size and
// modification time. Times are compared at microsecond precision, the
// resolution of a DuckDB TIMESTAMP.
func (fp FileFingerprint) Matches() bool {
	cur, err := StatFile(fp.Path)
	if err != nil {
		return false
	}
	return cur.Size == fp.Size &&
		cur.ModTime.Truncate(time.Microsecond).Equal(fp.ModTime.Truncate(time.Microsecond))
}
