package commands

import (
	"context"
	"errors"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"
	"interpreting/internal/core/domain/services"
	"interpreting/internal/core/ports"
	"interpreting/internal/pkg/errs"
)

// RunSearchSweepCommandHandler advances every due order through the
// search workflow: opens search for freshly created orders, escalates
// expired tiers, alerts operators after full exhaustion, restarts
// escalated orders whose waiting period ended, and recomputes candidates
// wherever a mutation invalidated the pool.
//
// Each order is processed in its own transaction so the sweep survives a
// lost race on one order: a version conflict means another instance (or a
// just-committed accept) already handled it, and the sweep simply moves
// on. Deadlines are declarative, so a sweep that ran late processes
// whatever has elapsed since.
type RunSearchSweepCommandHandler struct {
	uowFactory UoWFactory
	matcher    services.Matcher
	directory  ports.InterpreterDirectory
	notifier   ports.Notifier
	adminID    kernel.UUID
}

// NewRunSearchSweepCommandHandler creates a handler for the periodic
// search sweep. adminID is the operator actor who receives escalation
// pushes when an order exhausts both tiers.
func NewRunSearchSweepCommandHandler(
	uowFactory UoWFactory,
	matcher services.Matcher,
	directory ports.InterpreterDirectory,
	notifier ports.Notifier,
	adminID kernel.UUID,
) RunSearchSweepCommandHandler {
	return RunSearchSweepCommandHandler{
		uowFactory: uowFactory,
		matcher:    matcher,
		directory:  directory,
		notifier:   notifier,
		adminID:    adminID,
	}
}

// Handle runs one sweep. Failures on individual orders are collected and
// returned joined; conflicts are skipped as lost races.
func (h RunSearchSweepCommandHandler) Handle(ctx context.Context, cmd RunSearchSweepCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	dueIDs, err := h.collectDue(ctx, cmd)
	if err != nil {
		return err
	}

	var sweepErrs []error
	for _, orderID := range dueIDs {
		if err := h.processOrder(ctx, cmd, orderID); err != nil {
			if errors.Is(err, errs.ErrConflict) {
				continue
			}
			sweepErrs = append(sweepErrs, err)
		}
	}
	return errors.Join(sweepErrs...)
}

func (h RunSearchSweepCommandHandler) collectDue(ctx context.Context, cmd RunSearchSweepCommand) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	dueOrders, err := uow.OrderRepository().GetDueForSearch(ctx, cmd.Now())
	if err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(dueOrders))
	for _, dueOrder := range dueOrders {
		ids = append(ids, dueOrder.ID())
	}
	return ids, nil
}

// processOrder applies every transition due for one order in a single
// transaction and fans out notifications after the commit.
func (h RunSearchSweepCommandHandler) processOrder(ctx context.Context, cmd RunSearchSweepCommand, orderID kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	dueOrder, err := ordersRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if dueOrder.Status().IsTerminal() {
		return nil
	}

	escalated, err := h.advanceTiers(cmd, dueOrder)
	if err != nil {
		return err
	}

	searchNeeded := dueOrder.IsSearchNeeded()
	invited, err := h.recompute(ctx, cmd, dueOrder)
	if err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, dueOrder); err != nil {
		return err
	}
	if searchNeeded {
		if err = h.syncGroupMirror(ctx, uow, dueOrder); err != nil {
			return err
		}
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if escalated {
		h.notifier.Dispatch(ctx, ports.Notification{
			Kind:       ports.NotificationAdminEscalation,
			OrderID:    dueOrder.ID(),
			PlatformID: dueOrder.Details().PlatformID,
			Targets:    []kernel.UUID{h.adminID},
		})
	}
	if len(invited) > 0 {
		h.notifier.Dispatch(ctx, ports.Notification{
			Kind:       ports.NotificationInvitation,
			OrderID:    dueOrder.ID(),
			PlatformID: dueOrder.Details().PlatformID,
			Targets:    invited,
		})
	}
	return nil
}

// advanceTiers applies the deadline-driven transitions. Reports whether
// the order escalated to an operator during this sweep.
func (h RunSearchSweepCommandHandler) advanceTiers(cmd RunSearchSweepCommand, dueOrder *order.Order) (bool, error) {
	policy := h.matcher.Policy()
	now := cmd.Now()

	switch {
	case dueOrder.Status() == order.Created:
		return false, dueOrder.StartSearch(policy.Tier1Deadline(now))

	case dueOrder.Tier1Expired(now):
		return false, dueOrder.EscalateToTier2(policy.Tier2Deadline(now))

	case dueOrder.Tier2Expired(now):
		notifyAt, restartAt := policy.AdminSchedule(now)
		if err := dueOrder.EscalateToAdmin(notifyAt, restartAt); err != nil {
			return false, err
		}
		return true, nil

	case dueOrder.RestartDue(now):
		return false, dueOrder.RestartSearch(policy.Tier1Deadline(now))
	}
	return false, nil
}

// syncGroupMirror refreshes the group-level candidate set after a member
// pool changed. Same-interpreter groups mirror the intersection of member
// pools, independent groups the union. Runs inside the member's
// transaction so the mirror never drifts from a committed pool.
func (h RunSearchSweepCommandHandler) syncGroupMirror(ctx context.Context, uow UoW, member *order.Order) error {
	groupID := member.Details().GroupID
	if groupID == nil {
		return nil
	}

	groupRepo := uow.GroupRepository()
	group, err := groupRepo.Get(ctx, *groupID)
	if err != nil {
		return err
	}

	ordersRepo := uow.OrderRepository()
	var mirror []kernel.UUID
	for i, memberID := range group.OrderIDs() {
		pool := member.Candidates().Matched()
		if !memberID.IsEqual(member.ID()) {
			sibling, err := ordersRepo.Get(ctx, memberID)
			if err != nil {
				return err
			}
			pool = sibling.Candidates().Matched()
		}
		switch {
		case i == 0:
			mirror = pool
		case group.SameInterpreter():
			mirror = intersectIDs(mirror, pool)
		default:
			mirror = append(mirror, pool...)
		}
	}

	group.Candidates().Replace(dedupeIDs(mirror))
	if deadline := member.EndSearchTime(); deadline != nil {
		current := group.EndSearchTime()
		if current == nil || deadline.After(*current) {
			if err = group.SetEndSearchTime(*deadline); err != nil {
				return err
			}
		}
	}
	return groupRepo.Update(ctx, group)
}

func intersectIDs(a, b []kernel.UUID) []kernel.UUID {
	result := make([]kernel.UUID, 0, len(a))
	for _, id := range a {
		for _, other := range b {
			if id.IsEqual(other) {
				result = append(result, id)
				break
			}
		}
	}
	return result
}

// recompute refreshes the candidate pool when the order asks for it.
// Returns the interpreters who were not invited before this sweep.
func (h RunSearchSweepCommandHandler) recompute(ctx context.Context, cmd RunSearchSweepCommand, dueOrder *order.Order) ([]kernel.UUID, error) {
	if !dueOrder.IsSearchNeeded() {
		return nil, nil
	}

	details := dueOrder.Details()
	query := ports.AvailabilityQuery{
		Languages:  details.Languages,
		Kind:       details.InterpreterType,
		Scheduling: details.Scheduling,
		Window:     details.Window,
	}
	if details.CompanyHasInterpreters && !dueOrder.IsFirstSearchCompleted() {
		query.CompanyID = details.OperatedByCompanyID
	}

	pool, err := h.directory.GetAvailable(ctx, query)
	if err != nil {
		return nil, err
	}

	candidates, _, err := h.matcher.ComputeCandidates(dueOrder, pool)
	if err != nil {
		return nil, err
	}
	return dueOrder.SetCandidates(candidates)
}
