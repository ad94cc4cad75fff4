package store

import (
	"fmt"
	"os"

	"github.com/GeoKM/kmatt-invoice/internal/config"
	"github.com/GeoKM/kmatt-invoice/internal/domain"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store owns the full in-memory aggregate and its single on-disk JSON
// representation. All mutation goes through Update, which flushes the
// changed state before committing it, so a failed save never leaves
// memory and disk out of step.
type Store struct {
	path   string
	strict bool
	logger *zap.Logger
	state  *domain.Aggregate
}

// Open rotates backups, loads the document at cfg.Path and returns a
// ready store. A missing document yields a fresh aggregate. A
// malformed document fails with ErrSerialization when cfg.StrictLoad
// is set, and otherwise falls back to a fresh aggregate with a
// warning. A backup failure is logged and never blocks the load.
func Open(cfg *config.StoreConfig, logger *zap.Logger) (*Store, error) {
	s := &Store{
		path:   cfg.Path,
		strict: cfg.StrictLoad,
		logger: logger,
	}

	if err := rotateBackups(cfg.Path, cfg.BackupRetention, logger); err != nil {
		logger.Warn("backup rotation failed", zap.String("path", cfg.Path), zap.Error(err))
	}

	state, err := s.load()
	if err != nil {
		return nil, err
	}
	s.state = state

	return s, nil
}

// Path returns the location of the data document.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() (*domain.Aggregate, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.logger.Info("no data file found, starting fresh", zap.String("path", s.path))
		return domain.NewAggregate(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrIO, s.path, err)
	}

	var agg domain.Aggregate
	if err := json.Unmarshal(data, &agg); err != nil {
		if s.strict {
			return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		s.logger.Warn("data file is malformed, starting fresh",
			zap.String("path", s.path), zap.Error(err))
		return domain.NewAggregate(), nil
	}

	// Documents written by hand may omit whole registries.
	if agg.Customers == nil {
		agg.Customers = make(map[string]domain.Customer)
	}
	if agg.Invoices == nil {
		agg.Invoices = make(map[string]domain.Invoice)
	}
	if agg.LastInvoiceNums == nil {
		agg.LastInvoiceNums = make(map[string]int)
	}

	s.logger.Info("loaded data file",
		zap.String("path", s.path),
		zap.Int("customers", len(agg.Customers)),
		zap.Int("invoices", len(agg.Invoices)))

	return &agg, nil
}

// Save flushes the current aggregate as pretty-printed JSON,
// truncating and rewriting the document.
func (s *Store) Save() error {
	return s.write(s.state)
}

func (s *Store) write(agg *domain.Aggregate) error {
	data, err := json.MarshalIndent(agg, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", ErrIO, s.path, err)
	}

	return nil
}

// Update applies fn to a deep copy of the aggregate, flushes the copy
// to disk, and only then makes it the current state. When fn or the
// flush fails, the in-memory aggregate is untouched.
func (s *Store) Update(fn func(*domain.Aggregate) error) error {
	next := s.state.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.write(next); err != nil {
		return err
	}
	s.state = next
	return nil
}

// View gives fn read access to the current aggregate. Callers must
// not retain or mutate it; copies of anything returned to the outside
// are taken by the services.
func (s *Store) View(fn func(*domain.Aggregate)) {
	fn(s.state)
}
