package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rl1809/wine-inventory/internal/core/domain"
	"github.com/rl1809/wine-inventory/internal/port"
)

const DefaultLockTimeout = time.Second

// RevertedByPrefix marks the ledger entry that offsets a movement whose
// stock write failed.
const RevertedByPrefix = "revert:"

// InventoryService serialises every stock mutation behind one store-wide lock.
type InventoryService struct {
	wines       port.WineRepository
	ledger      *HistoryLedger
	locker      port.Locker
	lowStock    *LowStockAlert
	lockTimeout time.Duration
	now         Clock
	logger      logrus.FieldLogger
}

type Option func(*InventoryService)

func WithLockTimeout(d time.Duration) Option {
	return func(s *InventoryService) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *InventoryService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithNow sets the clock used for CreatedAt and UpdatedAt.
func WithNow(clock Clock) Option {
	return func(s *InventoryService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewInventoryService wires the core. lowStock may be nil to disable alerts.
func NewInventoryService(wines port.WineRepository, ledger *HistoryLedger, locker port.Locker, lowStock *LowStockAlert, opts ...Option) *InventoryService {
	s := &InventoryService{
		wines:       wines,
		ledger:      ledger,
		locker:      locker,
		lowStock:    lowStock,
		lockTimeout: DefaultLockTimeout,
		now:         time.Now,
		logger:      discardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InventoryService) Register(ctx context.Context, wine domain.Wine, modifiedBy string) (domain.Wine, error) {
	if err := wine.Validate(); err != nil {
		return domain.Wine{}, err
	}

	release, err := s.lock(ctx, "register", wine.ID)
	if err != nil {
		return domain.Wine{}, err
	}
	defer release()
	ctx = context.WithoutCancel(ctx)

	existing, err := s.wines.FindByID(ctx, wine.ID)
	if err != nil {
		return domain.Wine{}, fmt.Errorf("find wine %s: %w", wine.ID, err)
	}
	if existing != nil {
		return domain.Wine{}, fmt.Errorf("%w: %s", domain.ErrDuplicateWine, wine.ID)
	}

	now := s.now()
	wine.CreatedAt = now
	wine.UpdatedAt = now

	saved, err := s.wines.Save(ctx, wine)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateID) {
			return domain.Wine{}, fmt.Errorf("%w: %s", domain.ErrDuplicateWine, wine.ID)
		}
		return domain.Wine{}, fmt.Errorf("save wine %s: %w", wine.ID, err)
	}

	if _, err := s.ledger.LogChange(ctx, saved.ID, domain.HistoryTypeStockIn, saved.Quantity, modifiedBy); err != nil {
		// keep store and ledger paired
		if delErr := s.wines.Delete(ctx, saved.ID); delErr != nil {
			s.logger.WithError(delErr).WithField("wine_id", saved.ID).Error("failed to undo registration")
		}
		return domain.Wine{}, err
	}

	s.logMutation("register", saved.ID, saved.Quantity, modifiedBy)
	return saved, nil
}

func (s *InventoryService) Delete(ctx context.Context, id, modifiedBy string) error {
	release, err := s.lock(ctx, "delete", id)
	if err != nil {
		return err
	}
	defer release()
	ctx = context.WithoutCancel(ctx)

	current, err := s.mustFind(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.ledger.LogChange(ctx, id, domain.HistoryTypeStockOut, current.Quantity, modifiedBy); err != nil {
		return err
	}

	if err := s.wines.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete wine %s: %w", id, err)
	}

	s.logMutation("delete", id, current.Quantity, modifiedBy)
	return nil
}

// Store adds quantity bottles to the wine's stock.
func (s *InventoryService) Store(ctx context.Context, id string, quantity int, modifiedBy string) (domain.Wine, error) {
	if quantity <= 0 {
		return domain.Wine{}, fmt.Errorf("%w: got %d", domain.ErrInvalidQuantity, quantity)
	}

	release, err := s.lock(ctx, "store", id)
	if err != nil {
		return domain.Wine{}, err
	}
	defer release()
	ctx = context.WithoutCancel(ctx)

	current, err := s.mustFind(ctx, id)
	if err != nil {
		return domain.Wine{}, err
	}

	if quantity > math.MaxInt-current.Quantity {
		return domain.Wine{}, fmt.Errorf("%w: storing %d on top of %d overflows", domain.ErrInvalidQuantity, quantity, current.Quantity)
	}

	updated, err := s.move(ctx, current, domain.HistoryTypeStockIn, quantity, current.Quantity+quantity, modifiedBy)
	if err != nil {
		return domain.Wine{}, err
	}

	s.logMutation("store", id, quantity, modifiedBy)
	return updated, nil
}

// Retrieve takes quantity bottles out of stock. Nothing is written when the
// stock would go negative.
func (s *InventoryService) Retrieve(ctx context.Context, id string, quantity int, modifiedBy string) (domain.Wine, error) {
	if quantity <= 0 {
		return domain.Wine{}, fmt.Errorf("%w: got %d", domain.ErrInvalidQuantity, quantity)
	}

	release, err := s.lock(ctx, "retrieve", id)
	if err != nil {
		return domain.Wine{}, err
	}
	defer release()
	ctx = context.WithoutCancel(ctx)

	current, err := s.mustFind(ctx, id)
	if err != nil {
		return domain.Wine{}, err
	}

	newQuantity := current.Quantity - quantity
	if newQuantity < 0 {
		return domain.Wine{}, &domain.NotEnoughStockError{WineID: id, StockLeft: current.Quantity}
	}

	updated, err := s.move(ctx, current, domain.HistoryTypeStockOut, quantity, newQuantity, modifiedBy)
	if err != nil {
		return domain.Wine{}, err
	}

	s.logMutation("retrieve", id, quantity, modifiedBy)
	return updated, nil
}

// GetAll is a point-in-time read and does not take the mutation lock.
func (s *InventoryService) GetAll(ctx context.Context) ([]domain.Wine, error) {
	wines, err := s.wines.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list wines: %w", err)
	}
	return wines, nil
}

func (s *InventoryService) Get(ctx context.Context, id string) (domain.Wine, error) {
	wine, err := s.mustFind(ctx, id)
	if err != nil {
		return domain.Wine{}, err
	}
	return *wine, nil
}

func (s *InventoryService) Histories(ctx context.Context, filters ...domain.HistoryFilter) ([]domain.HistoryEntry, error) {
	return s.ledger.GetHistoriesByFilter(ctx, filters...)
}

func (s *InventoryService) move(ctx context.Context, current *domain.Wine, historyType domain.HistoryType, quantity, newQuantity int, modifiedBy string) (domain.Wine, error) {
	if _, err := s.ledger.LogChange(ctx, current.ID, historyType, quantity, modifiedBy); err != nil {
		return domain.Wine{}, err
	}

	next := *current
	next.Quantity = newQuantity
	next.UpdatedAt = s.now()

	updated, err := s.wines.Update(ctx, next)
	if err != nil {
		s.revert(ctx, current.ID, historyType, quantity, modifiedBy)
		return domain.Wine{}, fmt.Errorf("update wine %s: %w", current.ID, err)
	}

	if s.lowStock != nil {
		s.lowStock.Execute(ctx, current.ID)
	}
	return updated, nil
}

// revert appends the opposite movement so the ledger nets out to the stock
// that is actually stored.
func (s *InventoryService) revert(ctx context.Context, wineID string, historyType domain.HistoryType, quantity int, modifiedBy string) {
	opposite := domain.HistoryTypeStockOut
	if historyType == domain.HistoryTypeStockOut {
		opposite = domain.HistoryTypeStockIn
	}
	if _, err := s.ledger.LogChange(ctx, wineID, opposite, quantity, RevertedByPrefix+modifiedBy); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"wine_id":  wineID,
			"quantity": quantity,
		}).Error("failed to revert history entry")
	}
}

func (s *InventoryService) mustFind(ctx context.Context, id string) (*domain.Wine, error) {
	wine, err := s.wines.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find wine %s: %w", id, err)
	}
	if wine == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrWineNotFound, id)
	}
	return wine, nil
}

func (s *InventoryService) lock(ctx context.Context, action, wineID string) (func(), error) {
	release, err := s.locker.Acquire(ctx, s.lockTimeout)
	if err == nil {
		return release, nil
	}
	if errors.Is(err, domain.ErrLockTimeout) {
		s.logger.WithFields(logrus.Fields{
			"action":  action,
			"wine_id": wineID,
			"timeout": s.lockTimeout.String(),
		}).Warn("inventory lock busy, mutation not applied")
		return nil, err
	}
	return nil, fmt.Errorf("acquire inventory lock: %w", err)
}

func (s *InventoryService) logMutation(action, wineID string, quantity int, modifiedBy string) {
	s.logger.WithFields(logrus.Fields{
		"action":      action,
		"wine_id":     wineID,
		"quantity":    quantity,
		"modified_by": modifiedBy,
	}).Info("inventory updated")
}
