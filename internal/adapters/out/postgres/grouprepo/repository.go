package grouprepo

import (
	"context"
	"errors"
	"fmt"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"
	"interpreting/internal/core/ports"
	"interpreting/internal/pkg/errs"

	"gorm.io/gorm"
)

// aggregateTracker defines the interface for tracking aggregates within
// a unit of work.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

var _ ports.GroupRepository = &Repository{}

// Repository implements the GroupRepository port using GORM for
// PostgreSQL persistence. Update is conditional on the aggregate's
// version, same as for orders, so group-level accept stays race-safe.
type Repository struct {
	tracker aggregateTracker
	db      *gorm.DB
}

// NewRepository creates a new group repository instance.
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

// Add persists a new group aggregate to the database.
func (r *Repository) Add(ctx context.Context, aggregate *order.Group) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return fmt.Errorf("add group %s: %w", aggregate.ID(), err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update persists changes to an existing group aggregate. A version
// mismatch surfaces as errs.ErrConflict.
func (r *Repository) Update(ctx context.Context, aggregate *order.Group) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).
		Model(&GroupDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Updates(dto)
	if result.Error != nil {
		return fmt.Errorf("update group %s: %w", aggregate.ID(), result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("group", aggregate.ID().String())
	}

	return nil
}

// Get retrieves a group aggregate by its unique identifier.
func (r *Repository) Get(ctx context.Context, id kernel.UUID) (*order.Group, error) {
	dto := GroupDTO{}

	result := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes())
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("group", id.String())
		}
		return nil, fmt.Errorf("get group %s: %w", id, result.Error)
	}

	aggregate, err := toDomain(dto)
	if err != nil {
		return nil, err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return aggregate, nil
}

// Delete removes a group from the database. Called when the last member
// order leaves the group.
func (r *Repository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&GroupDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return fmt.Errorf("delete group %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("group", id.String())
	}

	return nil
}
