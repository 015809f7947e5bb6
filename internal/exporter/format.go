// Package exporter serialises scored rows into downloadable artifacts.
package exporter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat is returned by ParseFormat for an unsupported choice.
var ErrUnknownFormat = errors.New("unknown output format")

// Format is an output container.
type Format int

const (
	FormatXLSX Format = iota
	FormatCSV
)

// DefaultFormat is used when no format is chosen.
const DefaultFormat = FormatXLSX

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeCSV  = "text/csv"
)

// ParseFormat accepts "xlsx", "csv" and the display labels
// "Excel (.xlsx)" / "CSV (.csv)", ignoring case and surrounding space.
// An empty value selects DefaultFormat.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xlsx", "excel (.xlsx)":
		return FormatXLSX, nil
	case "csv", "csv (.csv)":
		return FormatCSV, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// MIMEType is the content type of an artifact in this format.
func (f Format) MIMEType() string {
	if f == FormatCSV {
		return mimeCSV
	}
	return mimeXLSX
}

// Extension is the file extension without a leading dot.
func (f Format) Extension() string {
	if f == FormatCSV {
		return "csv"
	}
	return "xlsx"
}

// Label is the human-readable name of the format.
func (f Format) Label() string {
	if f == FormatCSV {
		return "CSV (.csv)"
	}
	return "Excel (.xlsx)"
}

func (f Format) String() string {
	return f.Extension()
}

// MarshalText lets a Format appear in JSON and YAML as its extension.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.Extension()), nil
}

// UnmarshalText parses the same values as ParseFormat.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
