package exercises

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrExerciseNotFound indicates the requested record does not exist.
	ErrExerciseNotFound = errors.New("exercises: exercise not found")

	errMissingDatabase   = errors.New("database handle is required")
	errMissingIDProvider = errors.New("id provider is required")
	noOpLogger           = zap.NewNop()
)

// ServiceError carries a stable operation.reason code alongside its cause.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Code() string {
	return e.code
}

const (
	opServiceNew = "exercises.service.new"
	opSync       = "exercises.sync"
	opList       = "exercises.list"
	opGet        = "exercises.get"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

// Source reads the external spreadsheet as a grid of text cells, header row
// first. Implementations may fail with credential or reachability errors;
// either is fatal to the whole sync run.
type Source interface {
	ReadGrid(ctx context.Context) ([][]string, error)
}

// IDProvider issues identifiers for newly created exercises.
type IDProvider interface {
	NewID() (string, error)
}

// ServiceConfig describes the dependencies of the catalog service. Source
// may be nil when the deployment has no spreadsheet configured; Sync then
// reports failure while the read paths keep working.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider IDProvider
	Source     Source
	Logger     *zap.Logger
}

// Service owns the exercise store: the sync pipeline writes it, the feed
// endpoints read it.
type Service struct {
	db         *gorm.DB
	clock      func() time.Time
	idProvider IDProvider
	source     Source
	logger     *zap.Logger
	syncMu     sync.Mutex
}

// NewService constructs the catalog service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opServiceNew, "missing_database", errMissingDatabase)
	}
	if cfg.IDProvider == nil {
		return nil, newServiceError(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Service{
		db:         cfg.Database,
		clock:      clock,
		idProvider: cfg.IDProvider,
		source:     cfg.Source,
		logger:     logger,
	}, nil
}

// SyncResult is the aggregate outcome of one sync run. Success covers the
// run as a whole: row-local failures reduce Count and are summarized in
// Message, but only a failure to read the source at all flips Success off.
type SyncResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// Sync re-imports the full spreadsheet into the store. Rows are processed
// strictly sequentially; each row's reconciliation is an independent unit of
// work, so a failure mid-batch leaves earlier rows upserted. Overlapping
// runs are rejected rather than interleaved.
func (s *Service) Sync(ctx context.Context) SyncResult {
	if !s.syncMu.TryLock() {
		return SyncResult{Success: false, Message: "sync already in progress", Count: 0}
	}
	defer s.syncMu.Unlock()

	if s.source == nil {
		return SyncResult{Success: false, Message: "no spreadsheet source configured", Count: 0}
	}

	grid, err := s.source.ReadGrid(ctx)
	if err != nil {
		s.logError(opSync, "source_read_failed", err)
		return SyncResult{
			Success: false,
			Message: fmt.Sprintf("failed to read spreadsheet: %v", err),
			Count:   0,
		}
	}

	records, softErrors, err := MapGrid(grid)
	if err != nil {
		s.logError(opSync, "empty_source", err)
		return SyncResult{Success: false, Message: "no data found in spreadsheet", Count: 0}
	}

	synced := 0
	for _, record := range records {
		if err := s.reconcile(ctx, record); err != nil {
			softErrors = append(softErrors, fmt.Sprintf("row %d (%s): %v", record.Order, record.Name, err))
			continue
		}
		synced++
	}

	// Individual row errors stay server-side; the caller only sees counts.
	for _, rowError := range softErrors {
		s.logger.Warn("sync row skipped", zap.String("op", opSync), zap.String("detail", rowError))
	}

	message := fmt.Sprintf("synced %d exercises", synced)
	if len(softErrors) > 0 {
		message = fmt.Sprintf("%s, %d rows failed", message, len(softErrors))
	}
	s.logger.Info("sync completed",
		zap.Int("synced", synced),
		zap.Int("row_errors", len(softErrors)))

	return SyncResult{Success: true, Message: message, Count: synced}
}

// List returns every stored exercise in feed display order.
func (s *Service) List(ctx context.Context) ([]Exercise, error) {
	var stored []Exercise
	if err := s.db.WithContext(ctx).Find(&stored).Error; err != nil {
		s.logError(opList, "select_failed", err)
		return nil, newServiceError(opList, "select_failed", err)
	}
	SortForFeed(stored)
	return stored, nil
}

// GetByID loads a single exercise.
func (s *Service) GetByID(ctx context.Context, id string) (Exercise, error) {
	var exercise Exercise
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&exercise).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Exercise{}, ErrExerciseNotFound
	}
	if err != nil {
		s.logError(opGet, "select_failed", err)
		return Exercise{}, newServiceError(opGet, "select_failed", err)
	}
	return exercise, nil
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("op", operation),
		zap.String("reason", reason),
		zap.Error(err),
	}, fields...)
	s.logger.Error("exercises operation failed", allFields...)
}
