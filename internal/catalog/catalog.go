// Package catalog reads, reconciles and writes the persisted deal array
// the display frontend consumes.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/lukman83/baydeals/internal/kvstore"
	"github.com/lukman83/baydeals/internal/models"
	"github.com/lukman83/baydeals/internal/pipeline"
	"github.com/lukman83/baydeals/internal/textparse"
	"github.com/lukman83/baydeals/pkg/errors"
	"go.uber.org/zap"
)

// Load reads the catalog at path. A missing file is an empty catalog; an
// unreadable or malformed one is an error.
func Load(path string) ([]models.Deal, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []models.Deal{}, nil
	}
	if err != nil {
		return nil, errors.NewCatalogError("read catalog", path, err)
	}
	var deals []models.Deal
	if err := json.Unmarshal(data, &deals); err != nil {
		return nil, errors.NewCatalogError("parse catalog", path, err)
	}
	if deals == nil {
		deals = []models.Deal{}
	}
	return deals, nil
}

// Encode renders deals as a two-space indented JSON array with a trailing
// newline.
func Encode(deals []models.Deal) ([]byte, error) {
	if deals == nil {
		deals = []models.Deal{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(deals); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save replaces the catalog at path.
func Save(path string, deals []models.Deal) error {
	data, err := Encode(deals)
	if err != nil {
		return errors.NewCatalogError("encode catalog", path, err)
	}
	if err := kvstore.WriteFileAtomic(path, data); err != nil {
		return errors.NewCatalogError("write catalog", path, err)
	}
	return nil
}

// Merge keeps existing deals of stores absent from fresh that have not
// expired by today (YYYY-MM-DD, inclusive), appends fresh, and renumbers
// every deal per store in list order. Neither input is modified.
func Merge(existing, fresh []models.Deal, today string) (merged []models.Deal, kept int) {
	updated := make(map[string]bool)
	for _, d := range fresh {
		updated[d.StoreID] = true
	}

	merged = make([]models.Deal, 0, len(existing)+len(fresh))
	for _, d := range existing {
		if !updated[d.StoreID] && d.ExpiryDate >= today {
			merged = append(merged, d)
		}
	}
	kept = len(merged)
	merged = append(merged, fresh...)

	counters := make(map[string]int)
	for i := range merged {
		store := merged[i].StoreID
		counters[store]++
		merged[i].ID = pipeline.DealID(store, counters[store])
	}
	return merged, kept
}

// Stats describes one MergeFile call.
type Stats struct {
	Total int
	Kept  int
	New   int
}

// MergeFile merges fresh into the catalog at path and rewrites it.
func MergeFile(path string, fresh []models.Deal, now time.Time, logger *zap.Logger) (Stats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	existing, err := Load(path)
	if err != nil {
		return Stats{}, err
	}
	merged, kept := Merge(existing, fresh, textparse.Today(now))
	if err := Save(path, merged); err != nil {
		return Stats{}, err
	}
	st := Stats{Total: len(merged), Kept: kept, New: len(fresh)}
	logger.Info(fmt.Sprintf("Merged %d deals to %s (%d kept + %d new)", st.Total, path, st.Kept, st.New))
	return st, nil
}
