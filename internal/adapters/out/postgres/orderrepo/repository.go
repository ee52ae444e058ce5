package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"
	"interpreting/internal/core/ports"
	"interpreting/internal/pkg/errs"

	"gorm.io/gorm"
)

// aggregateTracker defines the interface for tracking aggregates within
// a unit of work. The repository notifies the tracker about loaded
// aggregates so the unit of work can manage their lifecycle.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

var _ ports.OrderRepository = &Repository{}

// Repository implements the OrderRepository port using GORM for
// PostgreSQL persistence. All writes happen through the transaction the
// owning unit of work carries; Update is conditional on the aggregate's
// version so concurrent accepts resolve to exactly one winner.
type Repository struct {
	tracker aggregateTracker
	db      *gorm.DB
}

// NewRepository creates a new order repository instance.
// Both the tracker and db parameters are required.
func NewRepository(tracker aggregateTracker, db *gorm.DB) (*Repository, error) {
	if tracker == nil {
		return nil, errs.NewValueIsRequiredError("tracker")
	}
	if db == nil {
		return nil, errs.NewValueIsRequiredError("db")
	}

	return &Repository{
		tracker: tracker,
		db:      db,
	}, nil
}

// Add persists a new order aggregate to the database.
func (r *Repository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return fmt.Errorf("add order %s: %w", aggregate.ID(), err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update persists changes to an existing order aggregate. The write is
// conditional on the version the aggregate was loaded with; a lost race
// surfaces as errs.ErrConflict and the caller decides whether to retry
// or give up.
func (r *Repository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Updates(dto)
	if result.Error != nil {
		return fmt.Errorf("update order %s: %w", aggregate.ID(), result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("order", aggregate.ID().String())
	}

	return nil
}

// Get retrieves an order aggregate by its unique identifier.
func (r *Repository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	dto := OrderDTO{}

	result := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes())
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, fmt.Errorf("get order %s: %w", id, result.Error)
	}

	aggregate, err := toDomain(dto)
	if err != nil {
		return nil, err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return aggregate, nil
}

// GetDueForSearch retrieves the orders the sweep must look at: those
// flagged for recomputation, those whose tier deadline has passed, and
// escalated orders whose restart time has arrived. Resolved orders are
// never returned.
func (r *Repository) GetDueForSearch(ctx context.Context, now time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO

	result := r.db.WithContext(ctx).
		Where("status NOT IN ?", []int{int(order.Assigned), int(order.Refused)}).
		Where(
			r.db.Where("is_search_needed = ?", true).
				Or("end_search_time <= ?", now).
				Or("restart_at <= ?", now),
		).
		Order("end_search_time NULLS FIRST, id").
		Find(&dtos)
	if result.Error != nil {
		return nil, fmt.Errorf("get orders due for search: %w", result.Error)
	}

	return r.toDomainList(dtos)
}

// GetAwaitingRepeat retrieves orders whose recurring schedule is due for
// cloning the next occurrence.
func (r *Repository) GetAwaitingRepeat(ctx context.Context, now time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO

	result := r.db.WithContext(ctx).
		Where("remaining_repeats > 0 AND next_repeat_at <= ?", now).
		Order("next_repeat_at, id").
		Find(&dtos)
	if result.Error != nil {
		return nil, fmt.Errorf("get orders awaiting repeat: %w", result.Error)
	}

	return r.toDomainList(dtos)
}

// Delete removes an order from the database. Used when a booking is
// refused and its record must not linger in the active set.
func (r *Repository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&OrderDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return fmt.Errorf("delete order %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}

	return nil
}

func (r *Repository) toDomainList(dtos []OrderDTO) ([]*order.Order, error) {
	aggregates := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		r.tracker.TrackAggregate(aggregate.ID(), aggregate)
		aggregates = append(aggregates, aggregate)
	}
	return aggregates, nil
}
