// Package http exposes the booking engine over a REST API plus a
// WebSocket endpoint for real-time order notifications.
//
// Commands (create, accept, reject, refuse) are routed to their use case
// handlers; reads go through the query handlers directly. Domain failures
// are translated to HTTP status codes in one place, respondError, so every
// endpoint reports not-found, conflict and validation errors uniformly.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"interpreting/internal/core/application/usecases/commands"
	"interpreting/internal/core/application/usecases/queries"
	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/inbound"
	"interpreting/internal/pkg/errs"
	"interpreting/internal/ws"

	"github.com/labstack/echo/v4"
)

// Server wires the HTTP routes to the application layer.
type Server struct {
	createOrderHandler            commands.CreateOrderCommandHandler
	acceptOrderHandler            commands.AcceptOrderCommandHandler
	rejectOrderHandler            commands.RejectOrderCommandHandler
	refuseOrderHandler            commands.RefuseOrderCommandHandler
	addInterpreterHandler         commands.AddInterpreterToOrderCommandHandler
	sendRepeatNotificationHandler commands.SendRepeatNotificationCommandHandler

	acceptGroupHandler commands.AcceptOrderGroupCommandHandler
	rejectGroupHandler commands.RejectOrderGroupCommandHandler
	refuseGroupHandler commands.RefuseOrderGroupCommandHandler

	getOrderHandler       queries.GetOrderQueryHandler
	awaitingSearchHandler queries.GetOrdersAwaitingSearchQueryHandler

	hub    *ws.Hub
	router *inbound.Router
}

// NewServer assembles the API surface from the use case handlers and the
// push hub.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	acceptOrderHandler commands.AcceptOrderCommandHandler,
	rejectOrderHandler commands.RejectOrderCommandHandler,
	refuseOrderHandler commands.RefuseOrderCommandHandler,
	addInterpreterHandler commands.AddInterpreterToOrderCommandHandler,
	sendRepeatNotificationHandler commands.SendRepeatNotificationCommandHandler,
	acceptGroupHandler commands.AcceptOrderGroupCommandHandler,
	rejectGroupHandler commands.RejectOrderGroupCommandHandler,
	refuseGroupHandler commands.RefuseOrderGroupCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	awaitingSearchHandler queries.GetOrdersAwaitingSearchQueryHandler,
	hub *ws.Hub,
	router *inbound.Router,
) (*Server, error) {
	if hub == nil {
		return nil, errs.NewValueIsRequiredError("hub")
	}
	if router == nil {
		return nil, errs.NewValueIsRequiredError("router")
	}

	return &Server{
		createOrderHandler:            createOrderHandler,
		acceptOrderHandler:            acceptOrderHandler,
		rejectOrderHandler:            rejectOrderHandler,
		refuseOrderHandler:            refuseOrderHandler,
		addInterpreterHandler:         addInterpreterHandler,
		sendRepeatNotificationHandler: sendRepeatNotificationHandler,
		acceptGroupHandler:            acceptGroupHandler,
		rejectGroupHandler:            rejectGroupHandler,
		refuseGroupHandler:            refuseGroupHandler,
		getOrderHandler:               getOrderHandler,
		awaitingSearchHandler:         awaitingSearchHandler,
		hub:                           hub,
		router:                        router,
	}, nil
}

// RegisterRoutes mounts all endpoints on the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/awaiting-search", s.GetOrdersAwaitingSearch)
	api.GET("/orders/:orderId", s.GetOrder)
	api.POST("/orders/:orderId/accept", s.AcceptOrder)
	api.POST("/orders/:orderId/reject", s.RejectOrder)
	api.POST("/orders/:orderId/refuse", s.RefuseOrder)
	api.POST("/orders/:orderId/interpreters", s.AddInterpreterToOrder)
	api.POST("/orders/:orderId/repeat-notification", s.SendRepeatNotification)

	api.POST("/groups/:groupId/accept", s.AcceptOrderGroup)
	api.POST("/groups/:groupId/reject", s.RejectOrderGroup)
	api.POST("/groups/:groupId/refuse", s.RefuseOrderGroup)

	api.POST("/webhooks/:provider", s.ReceiveWebhook)
	api.POST("/payments/:provider/events", s.ReceivePaymentEvent)

	e.GET("/ws/:actorId", s.ServeWS)
}

// CreateOrder seeds a new order for an appointment leg.
// (POST /api/v1/orders).
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request NewOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return respondBadRequest(ctx, err)
	}

	appointmentID, err := kernel.UUIDFromString(request.AppointmentID)
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	details, err := request.toDetails()
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	repeat, err := request.toRepeat()
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	orderID := kernel.NewUUID()

	command, err := commands.NewCreateOrderCommand(
		orderID, appointmentID, details, repeat, request.SameInterpreter)
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	if err := s.createOrderHandler.Handle(ctx.Request().Context(), command); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{OrderID: orderID.String()})
}

// GetOrder returns the current state of one order.
// (GET /api/v1/orders/{orderId}).
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	response, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	matched := make([]string, 0, len(response.MatchedInterpreterIDs))
	for _, id := range response.MatchedInterpreterIDs {
		matched = append(matched, id.String())
	}

	body := OrderResponse{
		ID:                    response.ID.String(),
		PlatformID:            response.PlatformID,
		Status:                response.Status.String(),
		EndSearchTime:         response.EndSearchTime,
		MatchedInterpreterIDs: matched,
	}
	if response.AssignedInterpreterID != nil {
		assigned := response.AssignedInterpreterID.String()
		body.AssignedInterpreterID = &assigned
	}

	return ctx.JSON(http.StatusOK, body)
}

// GetOrdersAwaitingSearch lists orders whose search is unresolved, most
// urgent first. (GET /api/v1/orders/awaiting-search).
func (s *Server) GetOrdersAwaitingSearch(ctx echo.Context) error {
	query := queries.NewGetOrdersAwaitingSearchQuery()

	responses, err := s.awaitingSearchHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	body := make([]OrderSummaryResponse, 0, len(responses))
	for _, response := range responses {
		body = append(body, OrderSummaryResponse{
			ID:            response.ID.String(),
			PlatformID:    response.PlatformID,
			Status:        response.Status.String(),
			EndSearchTime: response.EndSearchTime,
		})
	}

	return ctx.JSON(http.StatusOK, body)
}

// AcceptOrder assigns the accepting interpreter to the order.
// (POST /api/v1/orders/{orderId}/accept).
func (s *Server) AcceptOrder(ctx echo.Context) error {
	orderID, interpreterID, err := bindInterpreterAction(ctx, "orderId")
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	command, err := commands.NewAcceptOrderCommand(orderID, interpreterID)
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	if err := s.acceptOrderHandler.Handle(ctx.Request().Context(), command); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RejectOrder records the interpreter's rejection and removes them from
// the candidate pool. (POST /api/v1/orders/{orderId}/reject).
func (s *Server) RejectOrder(ctx echo.Context) error {
	orderID, interpreterID, err := bindInterpreterAction(ctx, "orderId")
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	command, err := commands.NewRejectOrderCommand(orderID, interpreterID)
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	if err := s.rejectOrderHandler.Handle(ctx.Request().Context(), command); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RefuseOrder cancels the search for an order entirely.
// (POST /api/v1/orders/{orderId}/refuse).
func (s *Server) RefuseOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	command, err := commands.NewRefuseOrderCommand(orderID)
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	if err := s.refuseOrderHandler.Handle(ctx.Request().Context(), command); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AddInterpreterToOrder force-invites an interpreter picked by an
// operator, bypassing the matching filters.
// (POST /api/v1/orders/{orderId}/interpreters).
func (s *Server) AddInterpreterToOrder(ctx echo.Context) error {
	orderID, interpreterID, err := bindInterpreterAction(ctx, "orderId")
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	command, err := commands.NewAddInterpreterToOrderCommand(orderID, interpreterID)
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	if err := s.addInterpreterHandler.Handle(ctx.Request().Context(), command); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SendRepeatNotification offers the order's next recurrence to the
// currently assigned interpreter.
// (POST /api/v1/orders/{orderId}/repeat-notification).
func (s *Server) SendRepeatNotification(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	command, err := commands.NewSendRepeatNotificationCommand(orderID)
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	if err := s.sendRepeatNotificationHandler.Handle(ctx.Request().Context(), command); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AcceptOrderGroup assigns the interpreter to every order of the group.
// (POST /api/v1/groups/{groupId}/accept).
func (s *Server) AcceptOrderGroup(ctx echo.Context) error {
	groupID, interpreterID, err := bindInterpreterAction(ctx, "groupId")
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	command, err := commands.NewAcceptOrderGroupCommand(groupID, interpreterID)
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	if err := s.acceptGroupHandler.Handle(ctx.Request().Context(), command); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RejectOrderGroup removes the interpreter from the group's candidate
// pool. (POST /api/v1/groups/{groupId}/reject).
func (s *Server) RejectOrderGroup(ctx echo.Context) error {
	groupID, interpreterID, err := bindInterpreterAction(ctx, "groupId")
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	command, err := commands.NewRejectOrderGroupCommand(groupID, interpreterID)
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	if err := s.rejectGroupHandler.Handle(ctx.Request().Context(), command); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RefuseOrderGroup cancels the search for the whole group.
// (POST /api/v1/groups/{groupId}/refuse).
func (s *Server) RefuseOrderGroup(ctx echo.Context) error {
	groupID, err := kernel.UUIDFromString(ctx.Param("groupId"))
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	command, err := commands.NewRefuseOrderGroupCommand(groupID)
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	if err := s.refuseGroupHandler.Handle(ctx.Request().Context(), command); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReceiveWebhook queues an inbound platform webhook for routing.
// (POST /api/v1/webhooks/{provider}).
func (s *Server) ReceiveWebhook(ctx echo.Context) error {
	return s.receiveInbound(ctx, s.router.EnqueueWebhook)
}

// ReceivePaymentEvent queues a payment provider callback for routing.
// (POST /api/v1/payments/{provider}/events).
func (s *Server) ReceivePaymentEvent(ctx echo.Context) error {
	return s.receiveInbound(ctx, s.router.EnqueuePayment)
}

func (s *Server) receiveInbound(ctx echo.Context, enqueue func(context.Context, string, []byte) error) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	if err := enqueue(ctx.Request().Context(), ctx.Param("provider"), body); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusAccepted)
}

// ServeWS upgrades the connection and registers it for push delivery.
// (GET /ws/{actorId}).
func (s *Server) ServeWS(ctx echo.Context) error {
	actorID, err := kernel.UUIDFromString(ctx.Param("actorId"))
	if err != nil {
		return respondBadRequest(ctx, err)
	}

	return s.hub.ServeWS(ctx.Response(), ctx.Request(), actorID)
}

// bindInterpreterAction extracts the resource id from the path and the
// interpreter id from the request body.
func bindInterpreterAction(ctx echo.Context, param string) (kernel.UUID, kernel.UUID, error) {
	resourceID, err := kernel.UUIDFromString(ctx.Param(param))
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}

	var request InterpreterRequest
	if err := ctx.Bind(&request); err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}

	interpreterID, err := kernel.UUIDFromString(request.InterpreterID)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}

	return resourceID, interpreterID, nil
}

func respondBadRequest(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: err.Error(),
	})
}

// respondError maps domain failures to HTTP status codes.
func respondError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrConflict):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return respondBadRequest(ctx, err)
	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "internal server error",
		})
	}
}
