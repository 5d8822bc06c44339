// Package workbook implements the spreadsheet-backed store that is the
// system of record: a single XLSX file with one sheet per logical table.
// Every mutation re-reads the sheet, changes rows in memory and rewrites the
// whole file, so a store-level mutex serialises all operations. That closes
// the lost-update window for a single process only; running multiple
// instances against the same file still needs an external lock.
package workbook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	appErrors "github.com/fieldworks/parts-order-api/pkg/errors"
)

// ObserveFunc receives the duration of a completed store operation.
type ObserveFunc func(table, op string, seconds float64)

// Store reads and writes the workbook file. All exported methods are safe for
// concurrent use.
type Store struct {
	path    string
	mu      sync.Mutex
	logger  *zap.Logger
	observe ObserveFunc
}

// NewStore returns a store over the given workbook path. The file is created
// lazily on first mutation; reads against a missing file yield empty data.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the workbook file location.
func (s *Store) Path() string {
	return s.path
}

// SetObserver installs a duration hook for instrumentation.
func (s *Store) SetObserver(fn ObserveFunc) {
	s.observe = fn
}

func (s *Store) observed(table, op string, start time.Time) {
	if s.observe != nil {
		s.observe(table, op, time.Since(start).Seconds())
	}
}

// EnsureExists provisions a fresh workbook with every sheet and its header
// row when no file is present yet.
func (s *Store) EnsureExists() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureExistsLocked()
}

func (s *Store) ensureExistsLocked() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat workbook: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create workbook directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	sheets := []struct {
		name    string
		headers []string
	}{
		{SheetRequests, requestHeaders},
		{SheetUsers, userHeaders},
		{SheetRegions, regionHeaders},
		{SheetTeams, teamHeaders},
		{SheetDeliveryPlaces, deliveryPlaceHeaders},
		{SheetLogs, logHeaders},
	}
	for _, sheet := range sheets {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet.name, err)
		}
		row := make([]interface{}, len(sheet.headers))
		for i, h := range sheet.headers {
			row[i] = h
		}
		if err := f.SetSheetRow(sheet.name, "A1", &row); err != nil {
			return fmt.Errorf("write headers for %s: %w", sheet.name, err)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save new workbook: %w", err)
	}
	s.logger.Info("workbook provisioned", zap.String("path", s.path))
	return nil
}

// Export returns the raw workbook bytes and a dated file name for download.
func (s *Store) Export() ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureExistsLocked(); err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, "", fmt.Errorf("read workbook: %w", err)
	}
	fileName := fmt.Sprintf("소모품발주_마스터_%s.xlsx", time.Now().Format("2006-01-02"))
	return data, fileName, nil
}

// open loads the workbook. os.ErrNotExist surfaces unchanged so list callers
// can treat it as empty data; anything else is a corrupt-workbook fault.
func (s *Store) open() (*excelize.File, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("stat workbook: %w", err)
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrWorkbookCorrupt.Code, appErrors.ErrWorkbookCorrupt.Status, appErrors.ErrWorkbookCorrupt.Message)
	}
	return f, nil
}

// findSheet resolves a logical sheet name against the file's tabs: exact
// match first, then trimmed, then substring in either direction so renamed
// or whitespace-padded tabs keep working.
func findSheet(f *excelize.File, logical string) string {
	names := f.GetSheetList()
	for _, n := range names {
		if n == logical {
			return n
		}
	}
	for _, n := range names {
		trimmed := strings.TrimSpace(n)
		if trimmed == logical || strings.Contains(trimmed, logical) || strings.Contains(logical, trimmed) {
			return n
		}
	}
	return ""
}

// readSheet maps every data row into a canonical-keyed record. A missing
// sheet yields nil rows and no error.
func readSheet(f *excelize.File, logical string, headerToKey map[string]string, dateKeys map[string]struct{}) ([]map[string]string, error) {
	actual := findSheet(f, logical)
	if actual == "" {
		return nil, nil
	}
	rows, err := f.GetRows(actual)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrWorkbookCorrupt.Code, appErrors.ErrWorkbookCorrupt.Status, appErrors.ErrWorkbookCorrupt.Message)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	keys := make([]string, len(rows[0]))
	for i, raw := range rows[0] {
		keys[i] = canonicalKey(raw, headerToKey)
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		empty := true
		record := make(map[string]string, len(keys))
		for i, key := range keys {
			if key == "" {
				continue
			}
			value := ""
			if i < len(row) {
				value = row[i]
			}
			if value != "" {
				empty = false
			}
			if _, isDate := dateKeys[key]; isDate {
				value = normalizeDateCell(value)
			}
			record[key] = value
		}
		if empty {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// extraColumns collects record keys outside the canonical set, sorted so the
// rewritten column order is stable. Unknown headers read from operator-edited
// files keep their header text as the key, so these are the pass-through
// columns that must survive a rewrite.
func extraColumns(headerToKey map[string]string, records []map[string]string) []string {
	known := make(map[string]struct{}, len(headerToKey))
	for _, key := range headerToKey {
		known[key] = struct{}{}
	}
	seen := make(map[string]struct{})
	var extras []string
	for _, record := range records {
		for key := range record {
			if _, ok := known[key]; ok {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	return extras
}

// writeSheet replaces the sheet's contents with the header row plus the given
// canonical-keyed records. Operator-added columns found in the records are
// appended after the canonical headers so rewrites never discard them.
// Integer-valued cells in numericKeys are written as numbers so spreadsheet
// formulas keep working.
func writeSheet(f *excelize.File, logical string, headers []string, headerToKey map[string]string, records []map[string]string, numericKeys map[string]struct{}) error {
	actual := findSheet(f, logical)
	if actual == "" {
		actual = logical
	} else {
		if err := f.DeleteSheet(actual); err != nil {
			return fmt.Errorf("reset sheet %s: %w", actual, err)
		}
	}
	if _, err := f.NewSheet(actual); err != nil {
		return fmt.Errorf("recreate sheet %s: %w", actual, err)
	}

	columns := append(append([]string{}, headers...), extraColumns(headerToKey, records)...)

	headerRow := make([]interface{}, len(columns))
	for i, h := range columns {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(actual, "A1", &headerRow); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	for idx, record := range records {
		row := make([]interface{}, len(columns))
		for i, header := range columns {
			key, ok := headerToKey[header]
			if !ok {
				key = header
			}
			value := record[key]
			if _, numeric := numericKeys[key]; numeric && value != "" {
				if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
					row[i] = n
					continue
				}
			}
			row[i] = value
		}
		cell, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return fmt.Errorf("row coordinate: %w", err)
		}
		if err := f.SetSheetRow(actual, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", idx+2, err)
		}
	}
	return nil
}

// mutate runs a read-modify-write cycle against one sheet. The whole file is
// rewritten even for a single-row change, so cost is O(total rows). Callers
// must hold the store lock.
func (s *Store) mutate(logical string, headers []string, headerToKey map[string]string, dateKeys, numericKeys map[string]struct{}, fn func(rows []map[string]string) ([]map[string]string, error)) error {
	if err := s.ensureExistsLocked(); err != nil {
		return err
	}
	f, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	rows, err := readSheet(f, logical, headerToKey, dateKeys)
	if err != nil {
		return err
	}
	updated, err := fn(rows)
	if err != nil {
		return err
	}
	if updated == nil {
		return nil
	}
	if err := writeSheet(f, logical, headers, headerToKey, updated, numericKeys); err != nil {
		return err
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// listSheet reads one sheet under the store lock; a missing file is empty
// data, never an error.
func (s *Store) listSheet(logical string, headerToKey map[string]string, dateKeys map[string]struct{}) ([]map[string]string, error) {
	f, err := s.open()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("workbook missing, returning empty data", zap.String("path", s.path), zap.String("sheet", logical))
			return nil, nil
		}
		return nil, err
	}
	defer f.Close() //nolint:errcheck
	return readSheet(f, logical, headerToKey, dateKeys)
}
