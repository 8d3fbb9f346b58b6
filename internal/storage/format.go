package storage

import "fmt"

// Format selects which output files a run produces.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatBoth Format = "both"
)

// Formats lists every accepted value in the order shown to users.
func Formats() []Format {
	return []Format{FormatJSON, FormatCSV, FormatBoth}
}

// ParseFormat converts a flag value into a Format.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format %q: choose from json, csv, both", s)
}

// JSON reports whether the JSON file should be written.
func (f Format) JSON() bool {
	return f == FormatJSON || f == FormatBoth
}

// CSV reports whether the CSV file should be written.
func (f Format) CSV() bool {
	return f == FormatCSV || f == FormatBoth
}

func (f Format) String() string {
	return string(f)
}
