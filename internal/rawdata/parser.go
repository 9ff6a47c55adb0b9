package rawdata

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"
)

// Result is a fully parsed export.
type Result struct {
	Header  []string          // comment and column-name lines, verbatim
	Records map[string]Record // keyed by marker id
	Format  Format
	Skipped []SkippedRow
}

// Banner returns the first non-empty comment line of the header without its
// leading '#', or "" when the header has none.
func (r *Result) Banner() string {
	for _, line := range r.Header {
		if !strings.HasPrefix(line, "#") {
			continue
		}
		if text := strings.TrimSpace(strings.TrimLeft(line, "#")); text != "" {
			return text
		}
	}
	return ""
}

// SkipCount returns the number of data lines that did not yield a record.
func (r *Result) SkipCount() int {
	return len(r.Skipped)
}

// Reader loads raw data exports, detecting the vendor layout.
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a reader that logs nothing.
func NewReader() *Reader {
	return &Reader{logger: zap.NewNop()}
}

// SetLogger sets the logger used to report skipped rows.
func (r *Reader) SetLogger(l *zap.Logger) {
	r.logger = l
}

// ReadFile reads an export from disk. Plain text, gzip and single-file zip
// archives are accepted.
func (r *Reader) ReadFile(filePath string) (*Result, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open raw data file: %w", err)
	}
	defer file.Close()

	// Check magic bytes
	buf := make([]byte, 4)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read raw data header: %w", err)
	}
	buf = buf[:n]
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek raw data file: %w", err)
	}

	var src io.Reader = file
	switch {
	case bytes.HasPrefix(buf, []byte{0x1f, 0x8b}):
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		defer gz.Close()
		src = gz
	case bytes.HasPrefix(buf, []byte("PK\x03\x04")):
		info, err := file.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat raw data file: %w", err)
		}
		entry, err := openZipEntry(file, info.Size())
		if err != nil {
			return nil, err
		}
		defer entry.Close()
		src = entry
	}

	return r.Read(src, filePath)
}

// openZipEntry opens the first regular file in a zip archive, preferring a
// .txt entry (vendor downloads may also carry a README).
func openZipEntry(ra io.ReaderAt, size int64) (io.ReadCloser, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("open zip archive: %w", err)
	}

	var chosen *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.EqualFold(path.Ext(f.Name), ".txt") {
			chosen = f
			break
		}
		if chosen == nil {
			chosen = f
		}
	}
	if chosen == nil {
		return nil, ErrEmptyArchive
	}

	rc, err := chosen.Open()
	if err != nil {
		return nil, fmt.Errorf("open zip entry %s: %w", chosen.Name, err)
	}
	return rc, nil
}

// Read parses an export from src. name is used in errors and log messages.
func (r *Reader) Read(src io.Reader, name string) (*Result, error) {
	lines, err := readLines(src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	res, err := Parse(lines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	if len(res.Skipped) > 0 {
		r.logger.Warn("skipped malformed rows",
			zap.String("source", name),
			zap.Int("count", len(res.Skipped)))
		for _, s := range res.Skipped {
			r.logger.Debug("skipped row",
				zap.String("source", name),
				zap.Int("line", s.Line),
				zap.String("reason", s.Reason))
		}
	}

	return res, nil
}

// readLines reads all lines from src with line endings removed.
func readLines(src io.Reader) ([]string, error) {
	reader := bufio.NewReader(src)
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			lines = append(lines, strings.TrimRight(line, "\r\n"))
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// Parse parses export lines. The layout is detected from banners or the
// first data row; when that fails, the 23andMe and then the AncestryDNA
// layout are tried and the first one yielding records wins.
func Parse(lines []string) (*Result, error) {
	if f := DetectFormat(lines); f != FormatUnknown {
		return parseLines(lines, f), nil
	}

	for _, f := range []Format{Format23andMe, FormatAncestry} {
		if res, ok := tryParse(lines, f); ok {
			return res, nil
		}
	}

	return nil, ErrFormatUndetected
}

// tryParse parses lines in layout f and reports whether any record was found.
func tryParse(lines []string, f Format) (*Result, bool) {
	res := parseLines(lines, f)
	return res, len(res.Records) > 0
}

// parseLines parses lines in layout f. '#' lines and a leading column-name
// line are kept as the header; short or malformed data lines are recorded as
// skipped.
func parseLines(lines []string, f Format) *Result {
	res := &Result{
		Records: make(map[string]Record),
		Format:  f,
	}

	seenColumns := false
	for i, line := range lines {
		if strings.HasPrefix(line, "#") {
			res.Header = append(res.Header, line)
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		if !seenColumns && len(res.Records) == 0 && len(res.Skipped) == 0 {
			seenColumns = true
			if isColumnLine(strings.Split(strings.TrimSpace(line), "\t")) {
				res.Header = append(res.Header, line)
				continue
			}
		}

		row := ParseLine(line, f)
		if row.Skipped {
			res.Skipped = append(res.Skipped, SkippedRow{Line: i + 1, Reason: row.Reason})
			continue
		}
		res.Records[row.Record.ID] = row.Record
	}

	if len(res.Header) == 0 {
		res.Header = generatedHeader(f)
	}

	return res
}

// generatedHeader describes a file that carried no header of its own.
func generatedHeader(f Format) []string {
	vendor := "23andMe"
	if f == FormatAncestry {
		vendor = "AncestryDNA"
	}
	return []string{
		fmt.Sprintf("# DNA data file (No original header - detected as %s format)", vendor),
		"# Generated header added by genomerge",
		"# " + strings.Join(f.Columns(), "\t"),
	}
}
