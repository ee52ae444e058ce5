package queries

import (
	"context"
	"database/sql"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrdersAwaitingSearchQueryHandler retrieves unresolved orders from
// the database. Assigned orders are excluded; refused ones are removed at
// refusal time, so the filter is the single terminal status.
type GetOrdersAwaitingSearchQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersAwaitingSearchQueryHandler creates a handler for the
// unresolved-orders query. Requires a GORM database connection.
func NewGetOrdersAwaitingSearchQueryHandler(db *gorm.DB) GetOrdersAwaitingSearchQueryHandler {
	return GetOrdersAwaitingSearchQueryHandler{db: db}
}

// Handle executes the query. Results are sorted by search deadline so the
// most urgent orders come first, ties broken by id for stable output.
func (h GetOrdersAwaitingSearchQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersAwaitingSearchQuery,
) ([]GetOrdersAwaitingSearchQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	waiting := make([]GetOrdersAwaitingSearchQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			platform_id,
			status,
			end_search_time
		FROM orders
		WHERE status != ?
		ORDER BY end_search_time NULLS LAST, id
	`, order.Assigned).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id            uuid.UUID
			platformID    string
			status        int
			endSearchTime sql.NullTime
		)

		if err = rows.Scan(&id, &platformID, &status, &endSearchTime); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		response := GetOrdersAwaitingSearchQueryResponse{
			ID:         orderID,
			PlatformID: platformID,
			Status:     order.Status(status),
		}
		if endSearchTime.Valid {
			response.EndSearchTime = &endSearchTime.Time
		}
		waiting = append(waiting, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return waiting, nil
}
