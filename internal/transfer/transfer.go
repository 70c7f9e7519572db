// Package transfer copies journal entries between a store and an archive
// file. The archive format follows the file extension: .db and .sqlite are
// libSQL databases, .json is a JSON document and .yaml or .yml is YAML.
package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chris-regnier/devjournal/internal/config"
	"github.com/chris-regnier/devjournal/internal/entry"
	"github.com/chris-regnier/devjournal/internal/storage"
	"github.com/chris-regnier/devjournal/internal/storage/sqlite"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported archive format")
	ErrExists            = errors.New("destination already exists")
	ErrSourceNotFound    = errors.New("source not found")
)

// Format identifies an archive encoding.
type Format string

const (
	FormatSQLite Format = "sqlite"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
)

// archiveVersion is written into JSON and YAML archives.
const archiveVersion = 1

// Archive is the document stored in JSON and YAML exports.
type Archive struct {
	Version    int           `json:"version" yaml:"version"`
	ExportedAt time.Time     `json:"exported_at" yaml:"exported_at"`
	Entries    []entry.Entry `json:"entries" yaml:"entries"`
}

// ImportResult reports how many entries were added and how many were
// skipped as duplicates.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// DefaultExportName returns the file name used when no destination is given.
func DefaultExportName(now time.Time) string {
	return now.Format("journal_export_20060102_150405.db")
}

// FormatFor picks the archive format from path's extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q (use .db, .json or .yaml)", ErrUnsupportedFormat, filepath.Ext(path))
}

// Export writes every entry in store to path and returns the path written
// and the number of entries. An empty path selects DefaultExportName in the
// working directory. Existing files are never overwritten.
func Export(store storage.Storage, path string, now time.Time) (string, int, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultExportName(now)
	}
	path = config.ExpandPath(path)

	format, err := FormatFor(path)
	if err != nil {
		return "", 0, err
	}
	if _, err := os.Stat(path); err == nil {
		return "", 0, fmt.Errorf("%w: %s", ErrExists, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", 0, fmt.Errorf("%w: checking destination: %v", storage.ErrStorage, err)
	}

	entries, err := store.List(storage.ListOptions{})
	if err != nil {
		return "", 0, err
	}
	// Oldest first so archives read chronologically.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	switch format {
	case FormatSQLite:
		err = exportSQLite(path, entries)
	case FormatJSON:
		err = writeArchive(path, Archive{Version: archiveVersion, ExportedAt: now.UTC(), Entries: entries}, marshalJSON)
	case FormatYAML:
		err = writeArchive(path, Archive{Version: archiveVersion, ExportedAt: now.UTC(), Entries: entries}, yaml.Marshal)
	}
	if err != nil {
		return "", 0, err
	}
	return path, len(entries), nil
}

// Import adds the entries stored at path to store. Imported entries get new
// IDs but keep their creation time. Entries whose created_at, title and
// description all match an existing entry are skipped.
func Import(store storage.Storage, path string) (ImportResult, error) {
	path = config.ExpandPath(path)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ImportResult{}, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return ImportResult{}, fmt.Errorf("%w: checking source: %v", storage.ErrStorage, err)
	}

	format, err := FormatFor(path)
	if err != nil {
		return ImportResult{}, err
	}

	var incoming []entry.Entry
	switch format {
	case FormatSQLite:
		incoming, err = readSQLite(path)
	case FormatJSON:
		incoming, err = readArchive(path, json.Unmarshal)
	case FormatYAML:
		incoming, err = readArchive(path, yaml.Unmarshal)
	}
	if err != nil {
		return ImportResult{}, err
	}

	existing, err := store.List(storage.ListOptions{})
	if err != nil {
		return ImportResult{}, err
	}
	seen := make(map[dedupeKey]bool, len(existing)+len(incoming))
	for _, e := range existing {
		seen[keyOf(e)] = true
	}

	var res ImportResult
	for _, e := range incoming {
		e.Title = strings.TrimSpace(e.Title)
		e.Description = strings.TrimSpace(e.Description)
		k := keyOf(e)
		if seen[k] {
			res.Skipped++
			continue
		}
		e.ID = 0
		if _, err := store.Create(e); err != nil {
			return res, fmt.Errorf("importing %q: %w", e.Title, err)
		}
		seen[k] = true
		res.Imported++
	}
	return res, nil
}

type dedupeKey struct {
	createdAt   int64
	title       string
	description string
}

func keyOf(e entry.Entry) dedupeKey {
	return dedupeKey{createdAt: e.CreatedAt.UnixNano(), title: e.Title, description: e.Description}
}

func exportSQLite(path string, entries []entry.Entry) error {
	dest, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer dest.Close()

	for _, e := range entries {
		if _, err := dest.Create(e); err != nil {
			return fmt.Errorf("exporting entry %d: %w", e.ID, err)
		}
	}
	return nil
}

func readSQLite(path string) ([]entry.Entry, error) {
	src, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return src.List(storage.ListOptions{})
}

func marshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func writeArchive(path string, a Archive, marshal func(interface{}) ([]byte, error)) error {
	data, err := marshal(a)
	if err != nil {
		return fmt.Errorf("%w: encoding archive: %v", storage.ErrStorage, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: creating directory: %v", storage.ErrStorage, err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
		return fmt.Errorf("%w: creating archive: %v", storage.ErrStorage, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("%w: writing archive: %v", storage.ErrStorage, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing archive: %v", storage.ErrStorage, err)
	}
	return nil
}

func readArchive(path string, unmarshal func([]byte, interface{}) error) ([]entry.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading archive: %v", storage.ErrStorage, err)
	}
	var a Archive
	if err := unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: decoding archive: %v", storage.ErrValidation, err)
	}
	if a.Version > archiveVersion {
		return nil, fmt.Errorf("%w: archive version %d is newer than supported version %d",
			ErrUnsupportedFormat, a.Version, archiveVersion)
	}
	return a.Entries, nil
}
