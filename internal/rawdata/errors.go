package rawdata

import "errors"

var (
	// ErrFormatUndetected is returned when neither layout yields any record.
	ErrFormatUndetected = errors.New("could not determine file format")

	// ErrEmptyArchive is returned for a zip archive without a data file.
	ErrEmptyArchive = errors.New("archive contains no data file")
)
