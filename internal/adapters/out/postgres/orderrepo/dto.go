// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"interpreting/internal/core/domain/model/interpreter"
	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The candidate id lists are stored as JSON columns; the version column
// backs the conditional update that makes accept race-safe.
type OrderDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	AppointmentID uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	PlatformID    string    `gorm:"index"`

	SourceLanguage   string
	TargetLanguage   string
	WindowStart      time.Time
	WindowEnd        time.Time
	Communication    int
	Scheduling       int
	InterpreterType  int
	GenderPreference int

	GroupID               *uuid.UUID `gorm:"type:uuid;index"`
	OperatedByCompanyID   *uuid.UUID `gorm:"type:uuid"`
	OperatedByCompanyName string
	CompanyHasInterpreters bool

	EstimatedCostAmount   decimal.Decimal `gorm:"type:numeric"`
	EstimatedCostCurrency string

	MatchedInterpreterIDs  []uuid.UUID `gorm:"serializer:json;type:jsonb"`
	RejectedInterpreterIDs []uuid.UUID `gorm:"serializer:json;type:jsonb"`
	AssignedInterpreterID  *uuid.UUID  `gorm:"type:uuid;index"`

	Status                  int `gorm:"index"`
	IsSearchNeeded          bool
	IsFirstSearchCompleted  bool
	IsSecondSearchCompleted bool

	EndSearchTime *time.Time `gorm:"index"`
	NotifyAdminAt *time.Time
	RestartAt     *time.Time

	RepeatInterval   int
	RemainingRepeats int
	NextRepeatAt     *time.Time `gorm:"index"`

	Version int64
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	details := aggregate.Details()
	candidates := aggregate.Candidates()

	dto := OrderDTO{
		ID:            aggregate.ID().Bytes(),
		AppointmentID: aggregate.AppointmentID().Bytes(),
		PlatformID:    details.PlatformID,

		SourceLanguage:   details.Languages.Source(),
		TargetLanguage:   details.Languages.Target(),
		WindowStart:      details.Window.Start(),
		WindowEnd:        details.Window.End(),
		Communication:    int(details.Communication),
		Scheduling:       int(details.Scheduling),
		InterpreterType:  int(details.InterpreterType),
		GenderPreference: int(details.GenderPreference),

		GroupID:                rawID(details.GroupID),
		OperatedByCompanyID:    rawID(details.OperatedByCompanyID),
		OperatedByCompanyName:  details.OperatedByCompanyName,
		CompanyHasInterpreters: details.CompanyHasInterpreters,

		EstimatedCostAmount:   details.EstimatedCost.Amount(),
		EstimatedCostCurrency: details.EstimatedCost.Currency(),

		MatchedInterpreterIDs:  rawIDs(candidates.Matched()),
		RejectedInterpreterIDs: rawIDs(candidates.Rejected()),
		AssignedInterpreterID:  rawID(aggregate.AssignedInterpreter()),

		Status:                  int(aggregate.Status()),
		IsSearchNeeded:          aggregate.IsSearchNeeded(),
		IsFirstSearchCompleted:  aggregate.IsFirstSearchCompleted(),
		IsSecondSearchCompleted: aggregate.IsSecondSearchCompleted(),

		EndSearchTime: aggregate.EndSearchTime(),
		NotifyAdminAt: aggregate.NotifyAdminAt(),
		RestartAt:     aggregate.RestartAt(),

		Version: aggregate.Version(),
	}

	if repeat := aggregate.Repeat(); repeat != nil {
		nextAt := repeat.NextAt()
		dto.RepeatInterval = int(repeat.Interval())
		dto.RemainingRepeats = repeat.Remaining()
		dto.NextRepeatAt = &nextAt
	}

	return dto
}

// toDomain converts a database DTO to an order domain aggregate using
// RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	appointmentID, err := kernel.UUIDFromBytes(dto.AppointmentID[:])
	if err != nil {
		return nil, err
	}

	languages, err := kernel.NewLanguagePair(dto.SourceLanguage, dto.TargetLanguage)
	if err != nil {
		return nil, err
	}
	window, err := kernel.NewTimeWindow(dto.WindowStart, dto.WindowEnd)
	if err != nil {
		return nil, err
	}

	details := order.Details{
		PlatformID:             dto.PlatformID,
		Languages:              languages,
		Window:                 window,
		Communication:          kernel.CommunicationType(dto.Communication),
		Scheduling:             kernel.SchedulingType(dto.Scheduling),
		InterpreterType:        interpreter.Type(dto.InterpreterType),
		GenderPreference:       interpreter.Gender(dto.GenderPreference),
		OperatedByCompanyName:  dto.OperatedByCompanyName,
		CompanyHasInterpreters: dto.CompanyHasInterpreters,
	}

	if details.GroupID, err = domainID(dto.GroupID); err != nil {
		return nil, err
	}
	if details.OperatedByCompanyID, err = domainID(dto.OperatedByCompanyID); err != nil {
		return nil, err
	}
	if dto.EstimatedCostCurrency != "" {
		details.EstimatedCost, err = kernel.NewMoney(dto.EstimatedCostAmount, dto.EstimatedCostCurrency)
		if err != nil {
			return nil, err
		}
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

	assignedID, err := domainID(dto.AssignedInterpreterID)
	if err != nil {
		return nil, err
	}

	snapshot := order.Snapshot{
		ID:                      id,
		AppointmentID:           appointmentID,
		Details:                 details,
		Candidates:              candidates,
		AssignedInterpreterID:   assignedID,
		Status:                  order.Status(dto.Status),
		IsSearchNeeded:          dto.IsSearchNeeded,
		IsFirstSearchCompleted:  dto.IsFirstSearchCompleted,
		IsSecondSearchCompleted: dto.IsSecondSearchCompleted,
		EndSearchTime:           dto.EndSearchTime,
		NotifyAdminAt:           dto.NotifyAdminAt,
		RestartAt:               dto.RestartAt,
		Version:                 dto.Version,
	}

	// Exhausted schedules restore as one-offs; RepeatDue would never
	// fire for them anyway.
	if dto.NextRepeatAt != nil && dto.RemainingRepeats > 0 {
		repeat, repeatErr := order.NewRepeatSchedule(
			order.RepeatInterval(dto.RepeatInterval),
			dto.RemainingRepeats,
			*dto.NextRepeatAt,
		)
		if repeatErr != nil {
			return nil, repeatErr
		}
		snapshot.Repeat = &repeat
	}

	return order.RestoreOrder(snapshot)
}

func rawID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func rawIDs(ids []kernel.UUID) []uuid.UUID {
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}
	return raw
}

func domainID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
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
