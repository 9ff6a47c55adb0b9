package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/inodb/genomerge/internal/merge"
)

// staged is a fully written temporary file waiting to be renamed over path.
type staged struct {
	tmp  string
	path string
}

// stage writes fn's output to a temporary file next to path.
func stage(path string, fn func(io.Writer) error) (s staged, err error) {
	if fi, statErr := os.Stat(path); statErr == nil && fi.IsDir() {
		return staged{}, fmt.Errorf("%s is a directory", path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return staged{}, fmt.Errorf("create temp file for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = fn(tmp); err != nil {
		return staged{}, err
	}
	if err = tmp.Chmod(0644); err != nil {
		return staged{}, fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return staged{}, fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	return staged{tmp: tmp.Name(), path: path}, nil
}

func (s staged) commit() error {
	if err := os.Rename(s.tmp, s.path); err != nil {
		return fmt.Errorf("rename to %s: %w", s.path, err)
	}
	return nil
}

func (s staged) discard() {
	os.Remove(s.tmp)
}

// WriteFile creates path and fills it with fn. When atomic is set the data is
// written to a temporary file in the same directory and renamed over path
// only after fn and the close succeed.
func WriteFile(path string, atomic bool, fn func(io.Writer) error) error {
	if !atomic {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := fn(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}

	s, err := stage(path, fn)
	if err != nil {
		return err
	}
	if err := s.commit(); err != nil {
		s.discard()
		return err
	}
	return nil
}

// outputFile is one file produced by a run.
type outputFile struct {
	bucket merge.Bucket // BucketNone for the merged file
	path   string
	write  func(io.Writer) error
}

func (o outputFile) wrap(err error) error {
	if o.bucket == merge.BucketNone {
		return fmt.Errorf("write merged file: %w", err)
	}
	return fmt.Errorf("write %s report: %w", o.bucket, err)
}

// WriteAll writes the merged file to info.OutputPath and one report per
// non-empty bucket next to it. It returns the report paths that were written,
// keyed by bucket.
//
// With atomic set, every file is staged first and the renames happen only
// once all of them were written, so a failed write leaves the destination
// paths untouched.
func WriteAll(info *RunInfo, atomic bool) (map[merge.Bucket]string, error) {
	files := []outputFile{{
		bucket: merge.BucketNone,
		path:   info.OutputPath,
		write:  func(w io.Writer) error { return WriteMerged(w, info) },
	}}
	for _, b := range merge.ReportBuckets {
		entries := info.Result.Classifications[b]
		if len(entries) == 0 {
			continue
		}
		files = append(files, outputFile{
			bucket: b,
			path:   ReportPath(info.OutputPath, b),
			write: func(w io.Writer) error {
				return WriteReport(w, b, entries, info.Result.Orientation)
			},
		})
	}

	written := make(map[merge.Bucket]string)
	if !atomic {
		for _, f := range files {
			if err := WriteFile(f.path, false, f.write); err != nil {
				return written, f.wrap(err)
			}
			if f.bucket != merge.BucketNone {
				written[f.bucket] = f.path
			}
		}
		return written, nil
	}

	pending := make([]staged, 0, len(files))
	for _, f := range files {
		s, err := stage(f.path, f.write)
		if err != nil {
			for _, p := range pending {
				p.discard()
			}
			return written, f.wrap(err)
		}
		pending = append(pending, s)
	}

	for i, s := range pending {
		if err := s.commit(); err != nil {
			for _, p := range pending[i:] {
				p.discard()
			}
			return written, files[i].wrap(err)
		}
		if files[i].bucket != merge.BucketNone {
			written[files[i].bucket] = files[i].path
		}
	}
	return written, nil
}
