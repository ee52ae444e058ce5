package ports

import (
	"context"

	"interpreting/internal/core/domain/model/interpreter"
	"interpreting/internal/core/domain/model/kernel"
)

// AvailabilityQuery describes the pool the matching engine needs: every
// interpreter plausibly eligible for one order. The directory applies the
// coarse filters it can answer cheaply; the fine-grained tier rules stay
// in the matcher.
type AvailabilityQuery struct {
	Languages  kernel.LanguagePair
	Kind       interpreter.Type
	Scheduling kernel.SchedulingType
	Window     kernel.TimeWindow

	// CompanyID scopes the query when the booking's company runs its own
	// pool. Nil means no scoping; the cross-company pool is included so
	// second-tier relaxation has material to work with.
	CompanyID *kernel.UUID
}

// InterpreterDirectory is the read-side contract to the service owning
// interpreter profiles. The matching engine treats the returned profiles
// as a snapshot; staleness is tolerable since acceptance is re-checked
// race-safely at the store.
type InterpreterDirectory interface {
	// GetAvailable returns the profiles matching the query.
	GetAvailable(ctx context.Context, query AvailabilityQuery) ([]*interpreter.Profile, error)

	// GetProfile returns one interpreter's profile.
	GetProfile(ctx context.Context, id kernel.UUID) (*interpreter.Profile, error)
}
