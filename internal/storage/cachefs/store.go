// Package cachefs implements the helper's on-disk storage: JSON cache
// files for snapshots and daily highlights, the line-oriented catalog
// fallback, parsed security details and raw portal page captures.
package cachefs

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MedNourS/Bourstad-Helper/internal/common"
	"github.com/MedNourS/Bourstad-Helper/internal/interfaces"
	"github.com/MedNourS/Bourstad-Helper/internal/models"
)

// catalogFile is the line-oriented catalog snapshot, one
// "ID: <id>, Name: <name>" entry per line.
const catalogFile = "extracted_stocks.txt"

// detailsFile holds the parsed security details as a JSON array.
const detailsFile = "details.json"

// ErrNotFound marks a read whose entry does not exist yet.
var ErrNotFound = errors.New("cache entry not found")

// CorruptEntryError marks an entry that exists on disk but cannot be
// decoded. The store only reports corruption; deleting and refetching
// is the caller's call.
type CorruptEntryError struct {
	Key  string
	Path string
	Err  error
}

func (e *CorruptEntryError) Error() string {
	return fmt.Sprintf("cache entry %q corrupt at %s: %v", e.Key, e.Path, e.Err)
}

func (e *CorruptEntryError) Unwrap() error { return e.Err }

// IsCorrupt reports whether err indicates an undecodable cache entry.
func IsCorrupt(err error) bool {
	var ce *CorruptEntryError
	return errors.As(err, &ce)
}

// Store provides file-based storage rooted at a single data path.
type Store struct {
	basePath      string
	snapshotsDir  string
	highlightsDir string
	catalogDir    string
	pagesDir      string
	logger        *common.Logger
}

// NewStore creates the store and its directory layout beneath path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data path %s: %w", path, err)
	}
	snapshotsDir := filepath.Join(path, "cache", "snapshots")
	highlightsDir := filepath.Join(path, "cache", "highlights")
	catalogDir := filepath.Join(path, "catalog")
	pagesDir := filepath.Join(path, "pages")
	for _, dir := range []string{snapshotsDir, highlightsDir, catalogDir, pagesDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	logger.Info().Str("path", path).Msg("Cache store opened")
	return &Store{
		basePath:      path,
		snapshotsDir:  snapshotsDir,
		highlightsDir: highlightsDir,
		catalogDir:    catalogDir,
		pagesDir:      pagesDir,
		logger:        logger,
	}, nil
}

// DataPath returns the base data path.
func (s *Store) DataPath() string {
	return s.basePath
}

// Snapshots returns the per-symbol snapshot cache.
func (s *Store) Snapshots() interfaces.SnapshotStorage {
	return &snapshotStorage{store: s}
}

// Highlights returns the per-date highlights cache.
func (s *Store) Highlights() interfaces.HighlightsStorage {
	return &highlightsStorage{store: s}
}

// Catalog returns the catalog snapshot storage.
func (s *Store) Catalog() interfaces.CatalogStorage {
	return &catalogStorage{store: s}
}

// Details returns the parsed security detail storage.
func (s *Store) Details() interfaces.DetailStorage {
	return &detailStorage{store: s}
}

// WritePage saves a raw portal page capture atomically.
func (s *Store) WritePage(symbol string, data []byte) error {
	return writeRawFile(s.pagesDir, sanitizeKey(symbol)+".html", data)
}

// ReadPage loads a raw portal page capture.
func (s *Store) ReadPage(symbol string) ([]byte, error) {
	path := filepath.Join(s.pagesDir, sanitizeKey(symbol)+".html")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("page %q: %w", symbol, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// ListPages returns the symbols with captured pages on disk.
func (s *Store) ListPages() ([]string, error) {
	entries, err := os.ReadDir(s.pagesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", s.pagesDir, err)
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".html") && !strings.HasPrefix(name, ".tmp-") {
			keys = append(keys, strings.TrimSuffix(name, ".html"))
		}
	}
	return keys, nil
}

// Close is a no-op for file-based storage.
func (s *Store) Close() error {
	return nil
}

// --- helpers ---

// SanitizeKey converts a storage key into the filename-safe form used
// for cache entries and page captures. Callers that need to resolve a
// file back to its key can pre-compute this for their key set.
func SanitizeKey(key string) string {
	return sanitizeKey(key)
}

func sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}

func filePath(dir, key string) string {
	return filepath.Join(dir, sanitizeKey(key)+".json")
}

func readJSON(dir, key string, dest interface{}) error {
	path := filePath(dir, key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%q: %w", key, ErrNotFound)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return &CorruptEntryError{Key: key, Path: path, Err: errors.New("empty file")}
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return &CorruptEntryError{Key: key, Path: path, Err: err}
	}
	return nil
}

func writeJSON(dir, key string, data interface{}) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonData = append(jsonData, '\n')
	return writeRawFile(dir, sanitizeKey(key)+".json", jsonData)
}

// writeRawFile writes data atomically: temp file in the target
// directory, then rename. A crash mid-write never clobbers the
// previous entry.
func writeRawFile(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	target := filepath.Join(dir, name)

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func deleteJSON(dir, key string) {
	os.Remove(filePath(dir, key))
}

// --- SnapshotStorage ---

type snapshotStorage struct {
	store *Store
}

func (ss *snapshotStorage) Get(_ context.Context, symbol string) (*models.MarketSnapshot, error) {
	var snap models.MarketSnapshot
	if err := readJSON(ss.store.snapshotsDir, symbol, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (ss *snapshotStorage) Save(_ context.Context, snap *models.MarketSnapshot) error {
	snap.FetchedAt = time.Now()
	if err := writeJSON(ss.store.snapshotsDir, snap.Symbol, snap); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	ss.store.logger.Debug().Str("symbol", snap.Symbol).Msg("Snapshot saved")
	return nil
}

func (ss *snapshotStorage) Delete(_ context.Context, symbol string) {
	deleteJSON(ss.store.snapshotsDir, symbol)
}

// --- HighlightsStorage ---

type highlightsStorage struct {
	store *Store
}

func (hs *highlightsStorage) Get(_ context.Context, date string) (*models.DayHighlights, error) {
	var hl models.DayHighlights
	if err := readJSON(hs.store.highlightsDir, date, &hl); err != nil {
		return nil, err
	}
	return &hl, nil
}

func (hs *highlightsStorage) Save(_ context.Context, hl *models.DayHighlights) error {
	hl.GeneratedAt = time.Now()
	if err := writeJSON(hs.store.highlightsDir, hl.Date, hl); err != nil {
		return fmt.Errorf("failed to save highlights: %w", err)
	}
	hs.store.logger.Debug().Str("date", hl.Date).Msg("Highlights saved")
	return nil
}

func (hs *highlightsStorage) Delete(_ context.Context, date string) {
	deleteJSON(hs.store.highlightsDir, date)
}

// --- CatalogStorage ---

type catalogStorage struct {
	store *Store
}

func (cs *catalogStorage) Save(_ context.Context, entries []models.CatalogEntry) error {
	var buf bytes.Buffer
	for _, entry := range entries {
		fmt.Fprintf(&buf, "ID: %s, Name: %s\n", entry.ID, entry.Name)
	}
	if err := writeRawFile(cs.store.catalogDir, catalogFile, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	cs.store.logger.Debug().Int("entries", len(entries)).Msg("Catalog snapshot saved")
	return nil
}

func (cs *catalogStorage) Load(_ context.Context) ([]models.CatalogEntry, error) {
	path := filepath.Join(cs.store.catalogDir, catalogFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open catalog snapshot: %w", err)
	}
	defer f.Close()

	var entries []models.CatalogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		entry, ok := parseCatalogLine(scanner.Text())
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog snapshot: %w", err)
	}
	return entries, nil
}

// parseCatalogLine decodes one "ID: <id>, Name: <name>" line. Lines
// that do not match, or that carry an empty ID, are dropped.
func parseCatalogLine(line string) (models.CatalogEntry, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "ID: ") {
		return models.CatalogEntry{}, false
	}
	rest := strings.TrimPrefix(line, "ID: ")
	parts := strings.SplitN(rest, ", Name: ", 2)
	if len(parts) != 2 {
		return models.CatalogEntry{}, false
	}
	id := strings.TrimSpace(parts[0])
	if id == "" {
		return models.CatalogEntry{}, false
	}
	return models.CatalogEntry{ID: id, Name: strings.TrimSpace(parts[1])}, true
}

// --- DetailStorage ---

type detailStorage struct {
	store *Store
}

func (ds *detailStorage) Save(_ context.Context, details []models.SecurityDetail) error {
	data, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal details: %w", err)
	}
	data = append(data, '\n')
	if err := writeRawFile(ds.store.catalogDir, detailsFile, data); err != nil {
		return fmt.Errorf("failed to save details: %w", err)
	}
	ds.store.logger.Debug().Int("details", len(details)).Msg("Security details saved")
	return nil
}

func (ds *detailStorage) Load(_ context.Context) ([]models.SecurityDetail, error) {
	path := filepath.Join(ds.store.catalogDir, detailsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read details: %w", err)
	}
	var details []models.SecurityDetail
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("failed to decode details: %w", err)
	}
	return details, nil
}
