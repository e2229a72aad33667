package services

import (
	"context"
	"fmt"
	"time"

	"ledger/internal/core"
	"ledger/internal/export"
	"ledger/internal/log"
	"ledger/internal/storage"

	"github.com/shopspring/decimal"
)

// RecordInput carries the user-editable fields of a record.
// A zero Date means today.
type RecordInput struct {
	Date     core.Date
	Amount   decimal.Decimal
	Currency string
	Category string
	Note     string
	Location string
}

// LedgerService sequences store mutations with persistence. Every
// successful add, update or delete is followed by a full save; when the
// save fails the in-memory change is rolled back so memory matches disk.
type LedgerService struct {
	store     *storage.Store
	rates     core.Rates
	reference string
	now       func() time.Time
	logger    *log.Logger
}

func NewLedgerService(store *storage.Store, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.Discard()
	}
	return &LedgerService{
		store:     store,
		rates:     core.DefaultRates(),
		reference: core.ReferenceCurrency,
		now:       time.Now,
		logger:    logger.WithComponent(log.ComponentLedger),
	}
}

// Load reads the saved ledger into memory. A missing file is an empty ledger.
func (s *LedgerService) Load(ctx context.Context) error {
	if err := s.store.Load(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to load ledger",
			log.FieldOperation, log.OpLoad,
			log.FieldPath, s.store.Location(),
			log.FieldErrorType, errorType(err),
			log.FieldError, err)
		return err
	}
	s.logger.DebugContext(ctx, "Ledger loaded",
		log.FieldPath, s.store.Location(),
		log.FieldCount, s.store.Len())
	return nil
}

// AddRecord stores a new record and saves the ledger. It returns the new id.
func (s *LedgerService) AddRecord(ctx context.Context, in RecordInput) (string, error) {
	rec := s.build(core.NewID(), in)
	snapshot := s.store.List()

	if err := s.store.Add(rec); err != nil {
		s.logger.DebugContext(ctx, "Record rejected",
			log.FieldOperation, log.OpCreate,
			log.FieldErrorType, errorType(err),
			log.FieldError, err)
		return "", fmt.Errorf("add record: %w", err)
	}
	if err := s.save(ctx, log.OpCreate, snapshot); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "Record added",
		log.NewFields().WithOperation(log.OpCreate).WithRecord(rec).ToSlice()...)
	return rec.ID, nil
}

// UpdateRecord replaces every field of the record with the given id and
// saves the ledger. It reports false when no record has that id.
func (s *LedgerService) UpdateRecord(ctx context.Context, id string, in RecordInput) (bool, error) {
	rec := s.build(id, in)
	snapshot := s.store.List()

	ok, err := s.store.Update(id, rec)
	if err != nil {
		s.logger.DebugContext(ctx, "Record rejected",
			log.FieldOperation, log.OpUpdate,
			log.FieldRecordID, id,
			log.FieldErrorType, errorType(err),
			log.FieldError, err)
		return false, fmt.Errorf("update record: %w", err)
	}
	if !ok {
		s.logger.DebugContext(ctx, "Record to update not found", log.FieldRecordID, id, log.FieldFound, false)
		return false, nil
	}
	if err := s.save(ctx, log.OpUpdate, snapshot); err != nil {
		return false, err
	}

	s.logger.InfoContext(ctx, "Record updated",
		log.NewFields().WithOperation(log.OpUpdate).WithRecord(rec).ToSlice()...)
	return true, nil
}

// DeleteRecord removes the record with the given id and saves the ledger.
// It reports false when no record has that id.
func (s *LedgerService) DeleteRecord(ctx context.Context, id string) (bool, error) {
	snapshot := s.store.List()

	if !s.store.Delete(id) {
		s.logger.DebugContext(ctx, "Record to delete not found", log.FieldRecordID, id, log.FieldFound, false)
		return false, nil
	}
	if err := s.save(ctx, log.OpDelete, snapshot); err != nil {
		return false, err
	}

	s.logger.InfoContext(ctx, "Record deleted", log.FieldOperation, log.OpDelete, log.FieldRecordID, id)
	return true, nil
}

// ListRecords returns all records in insertion order.
func (s *LedgerService) ListRecords() []core.Record {
	records := s.store.List()
	s.logger.Debug("Records listed", log.FieldOperation, log.OpList, log.FieldCount, len(records))
	return records
}

// GetRecord returns the record with the given id.
func (s *LedgerService) GetRecord(id string) (core.Record, bool) {
	r, ok := s.store.Get(id)
	s.logger.Debug("Record looked up", log.FieldRecordID, id, log.FieldFound, ok)
	return r, ok
}

// Location names the file the ledger is saved to.
func (s *LedgerService) Location() string {
	return s.store.Location()
}

// ExportTo writes the current records as CSV to path.
func (s *LedgerService) ExportTo(ctx context.Context, path string) error {
	if path == "" {
		path = export.DefaultPath
	}
	logger := s.logger.WithComponent(log.ComponentExport)
	records := s.store.List()
	if err := export.ExportFile(path, records); err != nil {
		logger.ErrorContext(ctx, "Export failed",
			log.FieldOperation, log.OpExport,
			log.FieldPath, path,
			log.FieldError, err)
		return err
	}
	logger.InfoContext(ctx, "Ledger exported",
		log.NewFields().WithOperation(log.OpExport).WithPath(path).WithCount(len(records)).ToSlice()...)
	return nil
}

// Summary converts every record with the built-in rate table.
func (s *LedgerService) Summary() core.Summary {
	sum := core.TotalIn(s.reference, s.rates, s.store.List())
	if len(sum.Unconverted) > 0 {
		s.logger.Debug("Currencies without a rate counted at 1:1",
			log.FieldOperation, log.OpTotal,
			log.FieldCurrency, sum.Unconverted)
	}
	return sum
}

// TotalInReferenceCurrency returns the converted total of all records.
func (s *LedgerService) TotalInReferenceCurrency() decimal.Decimal {
	return s.Summary().Total
}

// ReferenceCurrency names the currency totals are expressed in.
func (s *LedgerService) ReferenceCurrency() string {
	return s.reference
}

// Close releases the underlying store.
func (s *LedgerService) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

func (s *LedgerService) build(id string, in RecordInput) core.Record {
	date := in.Date
	if date.IsZero() {
		date = core.Today(s.now)
	}
	return core.Record{
		ID:       id,
		Date:     date,
		Amount:   in.Amount,
		Currency: in.Currency,
		Category: in.Category,
		Note:     in.Note,
		Location: in.Location,
	}
}

// save flushes the store after op and restores snapshot when the write fails.
func (s *LedgerService) save(ctx context.Context, op string, snapshot []core.Record) error {
	err := s.store.Save(ctx)
	if err == nil {
		s.logger.DebugContext(ctx, "Ledger saved",
			log.FieldOperation, log.OpSave,
			log.FieldPath, s.store.Location(),
			log.FieldCount, s.store.Len())
		return nil
	}
	s.logger.ErrorContext(ctx, "Save failed after "+op,
		log.FieldOperation, log.OpSave,
		log.FieldPath, s.store.Location(),
		log.FieldErrorType, errorType(err),
		log.FieldError, err)
	s.store.Replace(snapshot)
	s.logger.WarnContext(ctx, "In-memory change rolled back",
		log.FieldOperation, log.OpRollback,
		log.FieldCount, len(snapshot))
	return err
}
