// Package tarememory keeps the supplier/product tare memory: the last
// unit tare observed for each normalized (supplier, product) pair,
// persisted across restarts and used to pre-fill the weighing screen.
package tarememory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/uptrace/bun"

	"conferente/infrastructure/sqlite"
	"conferente/models"
)

// Prediction is a supplier-level suggestion: the most recently learned
// product and its unit tare for that supplier.
type Prediction struct {
	Product string
	TareKg  float64
}

type pairKey struct {
	supplier string
	product  string
}

type entry struct {
	productLabel string
	tareKg       float64
	learnedAtMs  int64
}

// Store is the tare learning memory. Lookups are served from an
// in-memory overlay that is loaded once from sqlite and updated before
// every persisted write, so a failed write degrades to a session-local
// memory instead of losing the prediction.
type Store struct {
	db *sqlite.DB

	mu      sync.RWMutex
	entries map[pairKey]entry
	// lastLearnedMs keeps learn timestamps strictly increasing so
	// "most recently learned" is well defined within one millisecond.
	lastLearnedMs int64
}

// NewStore loads the persisted memory. An unreadable table is treated
// as an empty memory, not an error.
func NewStore(ctx context.Context, db *sqlite.DB) *Store {
	s := &Store{db: db, entries: make(map[pairKey]entry)}

	var rows []models.TareMemory
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&rows).Scan(ctx)
	})
	if err != nil {
		slog.Warn("tare memory unreadable, starting empty", slog.Any("err", err))
		return s
	}
	for _, row := range rows {
		s.entries[pairKey{row.SupplierKey, row.ProductKey}] = entry{
			productLabel: row.ProductLabel,
			tareKg:       row.TareKg,
			learnedAtMs:  row.LearnedAtMs,
		}
		if row.LearnedAtMs > s.lastLearnedMs {
			s.lastLearnedMs = row.LearnedAtMs
		}
	}
	return s
}

// Learn records the unit tare for a (supplier, product) pair,
// overwriting any previous value: last observed wins, never averaged.
// A zero tare is a valid learned fact. The overlay is updated before
// the sqlite write, so a storage failure is returned as a recoverable
// error while predictions keep working for the session.
func (s *Store) Learn(ctx context.Context, supplier, product string, tareKg float64) error {
	supplierKey := normalizeKey(supplier)
	if supplierKey == "" {
		return fmt.Errorf("supplier is required")
	}
	if tareKg < 0 {
		tareKg = 0
	}
	productKey := normalizeKey(product)
	productLabel := strings.TrimSpace(product)

	s.mu.Lock()
	learnedAt := time.Now().UnixMilli()
	if learnedAt <= s.lastLearnedMs {
		learnedAt = s.lastLearnedMs + 1
	}
	s.lastLearnedMs = learnedAt
	s.entries[pairKey{supplierKey, productKey}] = entry{
		productLabel: productLabel,
		tareKg:       tareKg,
		learnedAtMs:  learnedAt,
	}
	s.mu.Unlock()

	err := s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO tare_memory (supplier_key, product_key, product_label, tare_kg, learned_at_ms)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(supplier_key, product_key) DO UPDATE SET
  product_label = excluded.product_label,
  tare_kg = excluded.tare_kg,
  learned_at_ms = excluded.learned_at_ms`,
			supplierKey, productKey, productLabel, tareKg, learnedAt)
		return err
	})
	if err != nil {
		return fmt.Errorf("persist tare memory: %w", err)
	}
	return nil
}

// PredictForSupplier returns the most recently learned product and tare
// for a supplier across any product. Used to pre-fill the product field
// when only the supplier is known.
func (s *Store) PredictForSupplier(supplier string) (Prediction, bool) {
	supplierKey := normalizeKey(supplier)
	if supplierKey == "" {
		return Prediction{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var best entry
	found := false
	for key, e := range s.entries {
		if key.supplier != supplierKey {
			continue
		}
		if !found || e.learnedAtMs > best.learnedAtMs {
			best = e
			found = true
		}
	}
	if !found {
		return Prediction{}, false
	}
	return Prediction{Product: best.productLabel, TareKg: best.tareKg}, true
}

// PredictForProduct is the exact-match lookup on the normalized pair.
// It takes precedence over PredictForSupplier once both fields are
// filled in.
func (s *Store) PredictForProduct(supplier, product string) (float64, bool) {
	key := pairKey{normalizeKey(supplier), normalizeKey(product)}
	if key.supplier == "" {
		return 0, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return 0, false
	}
	return e.tareKg, true
}

// Reset wipes the whole memory, overlay and table. Entries are never
// deleted any other way.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.entries = make(map[pairKey]entry)
	s.mu.Unlock()

	err := s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM tare_memory`)
		return err
	})
	if err != nil {
		return fmt.Errorf("reset tare memory: %w", err)
	}
	return nil
}

// normalizeKey trims, collapses inner whitespace and case-folds, so
// visually different spellings of the same supplier or product land on
// the same entry. Collisions are intentional fuzzy matching.
func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
