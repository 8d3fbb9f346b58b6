package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/itcaat/olxscraper/internal/models"
)

// DefaultDir is where result files are written unless configured otherwise.
const DefaultDir = "olx_results"

// BaseName turns a search query into the common prefix of its result files.
func BaseName(query string) string {
	return strings.ReplaceAll(query, " ", "_") + "_listings"
}

// Save writes listings to dir in the requested format and returns the paths
// written. An empty listing slice writes nothing and creates no directory.
func Save(out io.Writer, dir, query string, format Format, listings []models.Listing) ([]string, error) {
	if len(listings) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create output dir: %w", err)
	}

	var paths []string
	base := filepath.Join(dir, BaseName(query))

	if format.JSON() {
		path := base + ".json"
		if err := WriteJSON(path, listings); err != nil {
			return paths, err
		}
		fmt.Fprintf(out, "Saved %d listings to %s\n", len(listings), path)
		paths = append(paths, path)
	}

	if format.CSV() {
		path := base + ".csv"
		if err := WriteCSV(path, listings); err != nil {
			return paths, err
		}
		fmt.Fprintf(out, "Saved %d listings to %s\n", len(listings), path)
		paths = append(paths, path)
	}

	return paths, nil
}

// WriteJSON writes listings as a 2-space indented JSON array. Non-ASCII and
// HTML characters are kept as they are.
func WriteJSON(path string, listings []models.Listing) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(listings); err != nil {
		return fmt.Errorf("json write error: %w", err)
	}

	return file.Close()
}

// WriteCSV writes listings with a header row taken from the Listing csv tags.
func WriteCSV(path string, listings []models.Listing) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&listings, file); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}

	return file.Close()
}
