package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"
	"interpreting/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order's state straight from the store,
// bypassing the aggregate. Used by API clients and by reconnecting push
// channel consumers for whom the store, not the socket, is the source of
// truth.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order lookups.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the lookup. A missing order surfaces as
// errs.ErrObjectNotFound, which is also what a resolved and removed order
// looks like.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			platform_id,
			status,
			assigned_interpreter_id,
			end_search_time,
			matched_interpreter_ids
		FROM orders
		WHERE id = ?
	`, query.OrderID().String()).Row()

	var (
		id            uuid.UUID
		platformID    string
		status        int
		assignedID    *uuid.UUID
		endSearchTime sql.NullTime
		matchedRaw    []byte
	)

	err := row.Scan(&id, &platformID, &status, &assignedID, &endSearchTime, &matchedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	response := GetOrderQueryResponse{
		PlatformID: platformID,
		Status:     order.Status(status),
	}

	response.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if assignedID != nil {
		interpreterID, idErr := kernel.UUIDFromBytes(assignedID[:])
		if idErr != nil {
			return GetOrderQueryResponse{}, idErr
		}
		response.AssignedInterpreterID = &interpreterID
	}
	if endSearchTime.Valid {
		response.EndSearchTime = &endSearchTime.Time
	}

	response.MatchedInterpreterIDs, err = decodeIDs(matchedRaw)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return response, nil
}

// decodeIDs unpacks the JSON-encoded id list the repository stores.
func decodeIDs(raw []byte) ([]kernel.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var rawIDs []uuid.UUID
	if err := json.Unmarshal(raw, &rawIDs); err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(rawIDs))
	for _, rawID := range rawIDs {
		id, err := kernel.UUIDFromBytes(rawID[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
