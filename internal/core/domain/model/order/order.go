package order

import (
	"errors"
	"fmt"
	"time"

	"interpreting/internal/core/domain/model/interpreter"
	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/pkg/errs"
	"interpreting/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderAlreadyResolved is returned when mutating an order that has
	// reached a terminal state.
	ErrOrderAlreadyResolved = errors.New("order is already resolved")

	// ErrNoRepeatsRemaining is returned when cloning the next occurrence
	// of an order whose repeat schedule is exhausted or absent.
	ErrNoRepeatsRemaining = errors.New("order has no repeats remaining")
)

// Details carries the descriptive fields of an order: what kind of session
// the appointment needs and under whose company policy it runs. The fields
// are immutable for the lifetime of the order.
type Details struct {
	// PlatformID is the human-readable booking reference shown to users.
	PlatformID string

	Languages       kernel.LanguagePair
	Window          kernel.TimeWindow
	Communication   kernel.CommunicationType
	Scheduling      kernel.SchedulingType
	InterpreterType interpreter.Type

	// GenderPreference narrows matching when set to something other than
	// GenderAny.
	GenderPreference interpreter.Gender

	// GroupID links the order into a multi-leg group, when present.
	GroupID *kernel.UUID

	// OperatedByCompanyID and OperatedByCompanyName identify the company
	// operating the booking.
	OperatedByCompanyID   *kernel.UUID
	OperatedByCompanyName string

	// CompanyHasInterpreters short-circuits first-tier search to the
	// operating company's own pool.
	CompanyHasInterpreters bool

	// EstimatedCost is the costing snapshot taken at creation time.
	EstimatedCost kernel.Money
}

func (d Details) validate() error {
	if err := errors.Join(
		d.Languages.Validate(),
		d.Window.Validate(),
		d.Communication.Validate(),
		d.Scheduling.Validate(),
		d.InterpreterType.Validate(),
	); err != nil {
		return err
	}
	if d.PlatformID == "" {
		return errs.NewValueIsRequiredError("platform id")
	}
	if d.GroupID != nil {
		if err := d.GroupID.Validate(); err != nil {
			return err
		}
	}
	if d.OperatedByCompanyID != nil {
		if err := d.OperatedByCompanyID.Validate(); err != nil {
			return err
		}
	}
	if d.CompanyHasInterpreters && d.OperatedByCompanyID == nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"company scope",
			errors.New("companyHasInterpreters requires an operating company"),
		)
	}
	return nil
}

// Order is the aggregate root representing one bookable appointment leg
// awaiting or holding an interpreter assignment. It owns the candidate
// bookkeeping, the tier deadlines, and the repeat schedule.
//
// Order follows these invariants:
//   - Matched and rejected candidate sets are always disjoint
//   - Once assigned, search is permanently closed for the order
//   - Search deadlines only ever move forward
//   - An order has at most one active invitation cycle
//
// Concurrency is resolved at the store, not here: the version field backs
// the conditional write that makes accept race-safe.
type Order struct {
	id            kernel.UUID
	appointmentID kernel.UUID
	details       Details

	candidates            CandidateSet
	assignedInterpreterID *kernel.UUID
	status                Status

	isSearchNeeded          bool
	isFirstSearchCompleted  bool
	isSecondSearchCompleted bool

	endSearchTime *time.Time
	notifyAdminAt *time.Time
	restartAt     *time.Time

	repeat *RepeatSchedule

	version int64

	guard guard.ConstructorGuard
}

// NewOrder creates a new Order for the given appointment. The order starts
// in Created status with search needed, no candidates, and no deadlines;
// the first scheduler sweep populates the rest.
func NewOrder(id, appointmentID kernel.UUID, details Details) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		appointmentID.Validate(),
		details.validate(),
	); err != nil {
		return nil, err
	}

	return &Order{
		id:             id,
		appointmentID:  appointmentID,
		details:        details,
		candidates:     NewCandidateSet(),
		status:         Created,
		isSearchNeeded: true,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Snapshot is the persistence representation of an order, used by
// RestoreOrder to rebuild the aggregate from the database.
type Snapshot struct {
	ID                      kernel.UUID
	AppointmentID           kernel.UUID
	Details                 Details
	Candidates              CandidateSet
	AssignedInterpreterID   *kernel.UUID
	Status                  Status
	IsSearchNeeded          bool
	IsFirstSearchCompleted  bool
	IsSecondSearchCompleted bool
	EndSearchTime           *time.Time
	NotifyAdminAt           *time.Time
	RestartAt               *time.Time
	Repeat                  *RepeatSchedule
	Version                 int64
}

// RestoreOrder rebuilds an Order from its persisted snapshot.
func RestoreOrder(s Snapshot) (*Order, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.AppointmentID.Validate(),
		s.Details.validate(),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	if s.AssignedInterpreterID != nil {
		if err := s.AssignedInterpreterID.Validate(); err != nil {
			return nil, err
		}
	}
	if s.Status == Assigned && s.AssignedInterpreterID == nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"order", errors.New("assigned order has no interpreter"))
	}

	return &Order{
		id:                      s.ID,
		appointmentID:           s.AppointmentID,
		details:                 s.Details,
		candidates:              s.Candidates,
		assignedInterpreterID:   s.AssignedInterpreterID,
		status:                  s.Status,
		isSearchNeeded:          s.IsSearchNeeded,
		isFirstSearchCompleted:  s.IsFirstSearchCompleted,
		isSecondSearchCompleted: s.IsSecondSearchCompleted,
		endSearchTime:           s.EndSearchTime,
		notifyAdminAt:           s.NotifyAdminAt,
		restartAt:               s.RestartAt,
		repeat:                  s.Repeat,
		version:                 s.Version,
		guard:                   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// AppointmentID returns the appointment this order books an interpreter for.
func (o *Order) AppointmentID() kernel.UUID {
	return o.appointmentID
}

// Details returns the descriptive fields of the order.
func (o *Order) Details() Details {
	return o.details
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Candidates returns the candidate bookkeeping of the order.
func (o *Order) Candidates() *CandidateSet {
	return &o.candidates
}

// AssignedInterpreter returns the accepted interpreter's id, or nil while
// the order is unassigned.
func (o *Order) AssignedInterpreter() *kernel.UUID {
	return o.assignedInterpreterID
}

// IsSearchNeeded reports whether the next sweep must recompute candidates.
func (o *Order) IsSearchNeeded() bool {
	return o.isSearchNeeded
}

// IsFirstSearchCompleted reports whether tier one has been exhausted.
func (o *Order) IsFirstSearchCompleted() bool {
	return o.isFirstSearchCompleted
}

// IsSecondSearchCompleted reports whether tier two has been exhausted.
func (o *Order) IsSecondSearchCompleted() bool {
	return o.isSecondSearchCompleted
}

// EndSearchTime returns the deadline of the current tier, if any.
func (o *Order) EndSearchTime() *time.Time {
	return o.endSearchTime
}

// NotifyAdminAt returns when a human operator is alerted, if set.
func (o *Order) NotifyAdminAt() *time.Time {
	return o.notifyAdminAt
}

// RestartAt returns when search re-enters tier one after exhaustion.
func (o *Order) RestartAt() *time.Time {
	return o.restartAt
}

// Repeat returns the recurring-booking schedule, or nil for one-offs.
func (o *Order) Repeat() *RepeatSchedule {
	return o.repeat
}

// Version returns the optimistic concurrency token. The store increments
// it on every successful conditional write.
func (o *Order) Version() int64 {
	return o.version
}

// SetRepeat attaches a recurring-booking schedule.
func (o *Order) SetRepeat(schedule RepeatSchedule) {
	o.repeat = &schedule
}

// MarkSearchNeeded flags the order for candidate recomputation on the next
// sweep. It is a conflict once the order is resolved.
func (o *Order) MarkSearchNeeded() error {
	if o.status.IsTerminal() {
		return errs.NewConflictErrorWithCause("order", o.id.String(), ErrOrderAlreadyResolved)
	}
	o.isSearchNeeded = true
	return nil
}

// StartSearch opens the first invitation tier with the given deadline.
// Valid from Created (first sweep) and as a no-op re-entry while already
// in tier one.
func (o *Order) StartSearch(deadline time.Time) error {
	newStatus, err := o.status.StartTier1()
	if err != nil {
		return err
	}
	if o.status == AdminEscalated {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			errors.New("escalated orders re-enter search via RestartSearch"),
		)
	}
	if err := o.setEndSearchTime(deadline); err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Tier1Expired reports whether the first-tier deadline has passed while
// the order is still in tier one.
func (o *Order) Tier1Expired(now time.Time) bool {
	return o.status == Tier1Searching && o.endSearchTime != nil && !o.endSearchTime.After(now)
}

// EscalateToTier2 widens the search to the second tier. The first tier is
// marked completed, the deadline moves forward, and candidates are
// recomputed on the next sweep.
func (o *Order) EscalateToTier2(deadline time.Time) error {
	newStatus, err := o.status.EscalateTier2()
	if err != nil {
		return err
	}
	if err := o.setEndSearchTime(deadline); err != nil {
		return err
	}

	o.status = newStatus
	o.isFirstSearchCompleted = true
	o.isSearchNeeded = true
	return nil
}

// Tier2Expired reports whether the second-tier deadline has passed while
// the order is still in tier two.
func (o *Order) Tier2Expired(now time.Time) bool {
	return o.status == Tier2Searching && o.endSearchTime != nil && !o.endSearchTime.After(now)
}

// EscalateToAdmin records full tier exhaustion: a human operator is
// alerted at notifyAt and search restarts automatically at restartAt.
// This is not an error state; outstanding invitations stay valid.
func (o *Order) EscalateToAdmin(notifyAt, restartAt time.Time) error {
	newStatus, err := o.status.EscalateAdmin()
	if err != nil {
		return err
	}
	if restartAt.Before(notifyAt) {
		return errs.NewValueIsInvalidErrorWithCause(
			"restart time",
			fmt.Errorf("restart %s precedes operator alert %s", restartAt, notifyAt),
		)
	}
	if err := o.setNotifyAdminAt(notifyAt); err != nil {
		return err
	}
	if err := o.setRestartAt(restartAt); err != nil {
		return err
	}

	o.status = newStatus
	o.isSecondSearchCompleted = true
	o.isSearchNeeded = false
	return nil
}

// RestartDue reports whether an escalated order should re-enter tier one.
func (o *Order) RestartDue(now time.Time) bool {
	return o.status == AdminEscalated && o.restartAt != nil && !o.restartAt.After(now)
}

// RestartSearch re-enters tier one after full exhaustion. Tier progress
// resets and the current invitations are withdrawn; only the permanently
// rejected ids survive the reset.
func (o *Order) RestartSearch(deadline time.Time) error {
	if o.status != AdminEscalated {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to restart search", o.status.String()),
		)
	}
	if err := o.setEndSearchTime(deadline); err != nil {
		return err
	}

	o.status = Tier1Searching
	o.isFirstSearchCompleted = false
	o.isSecondSearchCompleted = false
	o.isSearchNeeded = true
	o.candidates.Clear()
	return nil
}

// SetCandidates replaces the invited pool with freshly computed candidates
// and clears the search-needed flag. Previously rejected ids never
// reappear. Returns the ids that were not invited before, so the caller
// knows who needs a new invitation.
func (o *Order) SetCandidates(ids []kernel.UUID) ([]kernel.UUID, error) {
	if o.status.IsTerminal() {
		return nil, errs.NewConflictErrorWithCause("order", o.id.String(), ErrOrderAlreadyResolved)
	}

	newly := o.candidates.Replace(ids)
	o.isSearchNeeded = false
	return newly, nil
}

// Assign records that the given interpreter accepted the order.
//
// The interpreter must be among the current candidates and the order must
// still be unassigned; both failures surface as conflicts, since this is
// the operation every concurrent accept races on. The store-level
// conditional write is the authoritative arbiter; this method only
// prepares the winning state.
//
// On success the order is terminal for search: the search-needed flag is
// permanently false and remaining invitations are withdrawn.
func (o *Order) Assign(interpreterID kernel.UUID) error {
	if err := interpreterID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}
	if !o.candidates.IsMatched(interpreterID) {
		return errs.NewConflictErrorWithCause(
			"interpreter", interpreterID.String(), ErrNotACandidate)
	}

	o.status = newStatus
	o.assignedInterpreterID = &interpreterID
	o.isSearchNeeded = false
	o.candidates.Clear()
	return nil
}

// RejectCandidate moves the interpreter from the matched set to the
// rejected set and flags the order for recomputation.
func (o *Order) RejectCandidate(interpreterID kernel.UUID) error {
	if o.status.IsTerminal() {
		return errs.NewConflictErrorWithCause("order", o.id.String(), ErrOrderAlreadyResolved)
	}
	if err := o.candidates.MoveToRejected(interpreterID); err != nil {
		return errs.NewConflictErrorWithCause("interpreter", interpreterID.String(), err)
	}

	o.isSearchNeeded = true
	return nil
}

// AddCandidate force-adds an interpreter to the invited pool, bypassing
// tier rules. Operator override; acceptance still goes through the same
// race-safe path.
func (o *Order) AddCandidate(interpreterID kernel.UUID) error {
	if o.status.IsTerminal() {
		return errs.NewConflictErrorWithCause("order", o.id.String(), ErrOrderAlreadyResolved)
	}
	return o.candidates.ForceInvite(interpreterID)
}

// Refuse cancels the order on behalf of the client or an operator.
// Terminal; outstanding invitations are withdrawn.
func (o *Order) Refuse() error {
	newStatus, err := o.status.Refuse()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.isSearchNeeded = false
	o.candidates.Clear()
	return nil
}

// RepeatDue reports whether the next recurring occurrence should be cloned.
func (o *Order) RepeatDue(now time.Time) bool {
	return o.repeat != nil && o.repeat.IsDue(now)
}

// NextOccurrence clones the order for its next recurring occurrence and
// advances the schedule on the receiver. The clone is a fresh one-off
// order for the given appointment, scheduled at the due time with the same
// session details; candidate bookkeeping starts clean.
func (o *Order) NextOccurrence(id, appointmentID kernel.UUID) (*Order, error) {
	if o.repeat == nil || o.repeat.Remaining() <= 0 {
		return nil, ErrNoRepeatsRemaining
	}

	window, err := kernel.NewTimeWindow(
		o.repeat.NextAt(),
		o.repeat.NextAt().Add(o.details.Window.Duration()),
	)
	if err != nil {
		return nil, err
	}

	details := o.details
	details.Window = window

	clone, err := NewOrder(id, appointmentID, details)
	if err != nil {
		return nil, err
	}

	advanced, _ := o.repeat.Advance()
	o.repeat = &advanced
	return clone, nil
}

func (o *Order) setEndSearchTime(deadline time.Time) error {
	if deadline.IsZero() {
		return errs.NewValueIsRequiredError("search deadline")
	}
	if o.endSearchTime != nil && deadline.Before(*o.endSearchTime) {
		return errs.NewValueIsInvalidErrorWithCause(
			"search deadline",
			fmt.Errorf("%s precedes the current deadline %s", deadline, *o.endSearchTime),
		)
	}
	o.endSearchTime = &deadline
	return nil
}

func (o *Order) setNotifyAdminAt(notifyAt time.Time) error {
	if notifyAt.IsZero() {
		return errs.NewValueIsRequiredError("operator alert time")
	}
	if o.notifyAdminAt != nil && notifyAt.Before(*o.notifyAdminAt) {
		return errs.NewValueIsInvalidErrorWithCause(
			"operator alert time",
			fmt.Errorf("%s precedes the current alert time %s", notifyAt, *o.notifyAdminAt),
		)
	}
	o.notifyAdminAt = &notifyAt
	return nil
}

func (o *Order) setRestartAt(restartAt time.Time) error {
	if restartAt.IsZero() {
		return errs.NewValueIsRequiredError("restart time")
	}
	if o.restartAt != nil && restartAt.Before(*o.restartAt) {
		return errs.NewValueIsInvalidErrorWithCause(
			"restart time",
			fmt.Errorf("%s precedes the current restart time %s", restartAt, *o.restartAt),
		)
	}
	o.restartAt = &restartAt
	return nil
}
