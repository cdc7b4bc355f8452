package store

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"sync"
	"time"

	"idcard/internal/region/metrics"
	"idcard/pkg/platform/sentinel"
)

//go:embed regions.csv
var fixtureCSV []byte

// InMemoryTable is a concurrency-safe region table held in memory.
type InMemoryTable struct {
	mu      sync.RWMutex
	names   map[string]string
	metrics *metrics.Metrics
}

// NewInMemoryTable copies entries into a new table. metrics may be nil.
func NewInMemoryTable(entries map[string]string, m *metrics.Metrics) *InMemoryTable {
	names := make(map[string]string, len(entries))
	maps.Copy(names, entries)
	return &InMemoryTable{names: names, metrics: m}
}

// DefaultTable returns a table seeded from the embedded fixture.
func DefaultTable(m *metrics.Metrics) (*InMemoryTable, error) {
	entries, err := FixtureEntries()
	if err != nil {
		return nil, err
	}
	return NewInMemoryTable(entries, m), nil
}

// LoadTable snapshots every entry of loader into a new in-memory table.
func LoadTable(ctx context.Context, loader Loader, m *metrics.Metrics) (*InMemoryTable, error) {
	entries, err := loader.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load region table: %w", err)
	}
	return NewInMemoryTable(entries, m), nil
}

// FixtureEntries parses the embedded regions.csv fixture.
func FixtureEntries() (map[string]string, error) {
	return parseCSV(bytes.NewReader(fixtureCSV))
}

func parseCSV(r io.Reader) (map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	entries := make(map[string]string)
	header := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse region fixture: %w", err)
		}
		if header {
			header = false
			continue
		}
		code, name := record[0], record[1]
		if !ValidCode(code) {
			return nil, fmt.Errorf("parse region fixture: invalid code %q", code)
		}
		entries[code] = name
	}
	return entries, nil
}

// RegionName implements domain.RegionTable.
func (t *InMemoryTable) RegionName(code string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	name, ok := t.names[code]
	return name, ok
}

// Known implements domain.ProvinceRegistry: any code with an entry is a known
// division.
func (t *InMemoryTable) Known(code string) bool {
	_, ok := t.RegionName(code)
	return ok
}

// Lookup returns the name for code or sentinel.ErrNotFound.
func (t *InMemoryTable) Lookup(_ context.Context, code string) (string, error) {
	start := time.Now()
	name, ok := t.RegionName(code)
	if !ok {
		t.metrics.RecordMiss("memory", time.Since(start).Seconds())
		return "", fmt.Errorf("region %s: %w", code, sentinel.ErrNotFound)
	}
	t.metrics.RecordHit("memory", time.Since(start).Seconds())
	return name, nil
}

// All returns a copy of every entry.
func (t *InMemoryTable) All(_ context.Context) (map[string]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return maps.Clone(t.names), nil
}

// Put adds or replaces an entry.
func (t *InMemoryTable) Put(code, name string) error {
	if !ValidCode(code) {
		return fmt.Errorf("invalid region code %q", code)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.names[code] = name
	return nil
}

// Len returns the number of entries.
func (t *InMemoryTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.names)
}
