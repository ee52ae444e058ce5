// Package interpreter holds the read model of an interpreter as seen by the
// matching engine. The interpreter directory service owns the data; the
// matching engine only filters and ranks these profiles, it never mutates
// them.
package interpreter

import (
	"errors"
	"time"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/pkg/errs"
	"interpreting/internal/pkg/guard"
)

// ErrProfileIsNotConstructed is returned when a Profile instance was not
// created through the NewProfile factory method.
var ErrProfileIsNotConstructed = errors.New("Profile must be created via NewProfile constructor")

// Type classifies the qualification level of an interpreter. Orders request
// a specific type and Tier 1 matching requires an exact match.
type Type int

const (
	// TypeUnknown represents an invalid or undefined type.
	TypeUnknown Type = iota

	// Community interpreters handle everyday appointments.
	Community

	// Professional interpreters hold a recognized qualification.
	Professional

	// Sworn interpreters are court-certified.
	Sworn
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		TypeUnknown:  "Unknown",
		Community:    "Community",
		Professional: "Professional",
		Sworn:        "Sworn",
	}
}

// Validate checks if the Type value is valid.
func (t Type) Validate() error {
	if t != Community && t != Professional && t != Sworn {
		return errs.NewValueIsInvalidError("interpreter type")
	}
	return nil
}

// String returns the human-readable name of the type.
func (t Type) String() string {
	if str, ok := getTypeStrings()[t]; ok {
		return str
	}
	return "Unknown"
}

// Gender is used for the optional gender preference on an order.
type Gender int

const (
	// GenderAny means the order has no gender preference.
	GenderAny Gender = iota
	Female
	Male
)

// Profile is the directory's view of one interpreter: everything the
// matching engine needs to decide eligibility and ranking.
//
// The rating and online-since fields feed the deterministic tie-break
// within a tier (rating descending, then most recently online).
type Profile struct {
	id        kernel.UUID
	companyID *kernel.UUID
	languages []kernel.LanguagePair
	kind      Type
	gender    Gender

	rating      float64
	onlineSince time.Time
	online      bool

	// acceptsOvertimeRates opts the interpreter into the cross-company
	// pool used by second-tier search.
	acceptsOvertimeRates bool

	// availableFor lists the scheduling types the interpreter currently
	// takes work for.
	availableFor map[kernel.SchedulingType]bool

	guard guard.ConstructorGuard
}

// NewProfile creates a Profile with validation. Rating must lie in [0, 5]
// and at least one language pair is required.
func NewProfile(
	id kernel.UUID,
	companyID *kernel.UUID,
	languages []kernel.LanguagePair,
	kind Type,
	gender Gender,
	rating float64,
) (*Profile, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if companyID != nil {
		if err := companyID.Validate(); err != nil {
			return nil, err
		}
	}
	if len(languages) == 0 {
		return nil, errs.NewValueIsRequiredError("languages")
	}
	for _, pair := range languages {
		if err := pair.Validate(); err != nil {
			return nil, err
		}
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if rating < 0 || rating > 5 {
		return nil, errs.NewValueIsOutOfRangeError("rating", rating, 0, 5)
	}

	return &Profile{
		id:           id,
		companyID:    companyID,
		languages:    languages,
		kind:         kind,
		gender:       gender,
		rating:       rating,
		availableFor: make(map[kernel.SchedulingType]bool),
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Profile was constructed through NewProfile.
func (p *Profile) Validate() error {
	if p == nil {
		return ErrProfileIsNotConstructed
	}
	return p.guard.Validate(ErrProfileIsNotConstructed)
}

// ID returns the interpreter's unique identifier.
func (p *Profile) ID() kernel.UUID {
	return p.id
}

// CompanyID returns the employing company, or nil for freelancers.
func (p *Profile) CompanyID() *kernel.UUID {
	return p.companyID
}

// Kind returns the interpreter's qualification type.
func (p *Profile) Kind() Type {
	return p.kind
}

// Gender returns the interpreter's gender.
func (p *Profile) Gender() Gender {
	return p.gender
}

// Rating returns the profile rating in [0, 5].
func (p *Profile) Rating() float64 {
	return p.rating
}

// OnlineSince returns when the interpreter last came online.
func (p *Profile) OnlineSince() time.Time {
	return p.onlineSince
}

// IsOnline reports whether the interpreter is currently marked online.
func (p *Profile) IsOnline() bool {
	return p.online
}

// AcceptsOvertimeRates reports whether the interpreter opted into the
// cross-company pool.
func (p *Profile) AcceptsOvertimeRates() bool {
	return p.acceptsOvertimeRates
}

// SetOnline marks the interpreter online as of the given time.
func (p *Profile) SetOnline(since time.Time) {
	p.online = true
	p.onlineSince = since
}

// SetOffline marks the interpreter offline.
func (p *Profile) SetOffline() {
	p.online = false
}

// SetAcceptsOvertimeRates updates the cross-company opt-in.
func (p *Profile) SetAcceptsOvertimeRates(accepts bool) {
	p.acceptsOvertimeRates = accepts
}

// SetAvailableFor marks the interpreter as taking work of the given
// scheduling type.
func (p *Profile) SetAvailableFor(schedulingType kernel.SchedulingType) {
	p.availableFor[schedulingType] = true
}

// IsAvailableFor reports whether the interpreter takes work of the given
// scheduling type.
func (p *Profile) IsAvailableFor(schedulingType kernel.SchedulingType) bool {
	return p.availableFor[schedulingType]
}

// Speaks reports whether the interpreter covers the given language pair.
func (p *Profile) Speaks(pair kernel.LanguagePair) bool {
	for _, candidate := range p.languages {
		if candidate.IsEqual(pair) {
			return true
		}
	}
	return false
}

// WorksFor reports whether the interpreter belongs to the given company.
func (p *Profile) WorksFor(companyID kernel.UUID) bool {
	return p.companyID != nil && p.companyID.IsEqual(companyID)
}
