// Package grouprepo persists order groups, the aggregates tying together
// the legs of a multi-day booking that are resolved as a unit.
package grouprepo

import (
	"time"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// GroupDTO represents the database structure for persisting group
// aggregates. Member order ids and the candidate mirror are stored as
// JSON columns.
type GroupDTO struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey"`
	OrderIDs        []uuid.UUID `gorm:"serializer:json;type:jsonb"`
	SameInterpreter bool

	MatchedInterpreterIDs  []uuid.UUID `gorm:"serializer:json;type:jsonb"`
	RejectedInterpreterIDs []uuid.UUID `gorm:"serializer:json;type:jsonb"`
	EndSearchTime          *time.Time

	Version int64
}

// TableName specifies the database table name for group entities.
func (GroupDTO) TableName() string {
	return "order_groups"
}

func fromDomain(aggregate *order.Group) GroupDTO {
	candidates := aggregate.Candidates()

	return GroupDTO{
		ID:                     aggregate.ID().Bytes(),
		OrderIDs:               rawIDs(aggregate.OrderIDs()),
		SameInterpreter:        aggregate.SameInterpreter(),
		MatchedInterpreterIDs:  rawIDs(candidates.Matched()),
		RejectedInterpreterIDs: rawIDs(candidates.Rejected()),
		EndSearchTime:          aggregate.EndSearchTime(),
		Version:                aggregate.Version(),
	}
}

func toDomain(dto GroupDTO) (*order.Group, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderIDs, err := domainIDs(dto.OrderIDs)
	if err != nil {
		return nil, err
	}
	matched, err := domainIDs(dto.MatchedInterpreterIDs)
	if err != nil {
		return nil, err
	}
	rejected, err := domainIDs(dto.RejectedInterpreterIDs)
	if err != nil {
		return nil, err
	}
	candidates, err := order.RestoreCandidateSet(matched, rejected)
	if err != nil {
		return nil, err
	}

	return order.RestoreGroup(order.GroupSnapshot{
		ID:              id,
		OrderIDs:        orderIDs,
		SameInterpreter: dto.SameInterpreter,
		Candidates:      candidates,
		EndSearchTime:   dto.EndSearchTime,
		Version:         dto.Version,
	})
}

func rawIDs(ids []kernel.UUID) []uuid.UUID {
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}
	return raw
}

func domainIDs(raw []uuid.UUID) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, rawID := range raw {
		id, err := kernel.UUIDFromBytes(rawID[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
