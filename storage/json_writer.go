package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"card-arbitrage/models"
)

var termSanitizeRegexp = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// JSONWriter persists one self-describing JSON file per search term and
// run. Files are written to a temp path and renamed into place so a
// crashed run never leaves a partial result set behind.
type JSONWriter struct {
	dir   string
	runID string
}

// NewJSONWriter creates the output directory if needed and assigns the
// run id embedded in every file name.
func NewJSONWriter(dir string) (*JSONWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("json: create output dir: %w", err)
	}
	return &JSONWriter{
		dir:   dir,
		runID: uuid.New().String()[:8],
	}, nil
}

// RunID returns the identifier shared by all files of this run.
func (w *JSONWriter) RunID() string { return w.runID }

// Write atomically writes the term's results as a JSON array.
func (w *JSONWriter) Write(term string, results []*models.Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("json: marshal results: %w", err)
	}

	name := fmt.Sprintf("arbitrage_%s_%s.json", sanitizeTerm(term), w.runID)
	path := filepath.Join(w.dir, name)

	tmp, err := os.CreateTemp(w.dir, name+".tmp")
	if err != nil {
		return fmt.Errorf("json: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("json: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("json: close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("json: rename into place: %w", err)
	}
	return nil
}

// Close is a no-op; every Write is already durable.
func (w *JSONWriter) Close() error { return nil }

// sanitizeTerm turns a search term (often Japanese) into a safe file name
// fragment.
func sanitizeTerm(term string) string {
	s := termSanitizeRegexp.ReplaceAllString(term, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "search"
	}
	return s
}
