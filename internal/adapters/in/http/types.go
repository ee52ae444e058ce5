package http

import (
	"fmt"
	"time"

	"interpreting/internal/core/domain/model/interpreter"
	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// ErrorResponse is the uniform error body of the API.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrderRequest is the request body for seeding an order.
type NewOrderRequest struct {
	AppointmentID    string  `json:"appointmentId"`
	PlatformID       string  `json:"platformId"`
	SourceLanguage   string  `json:"sourceLanguage"`
	TargetLanguage   string  `json:"targetLanguage"`
	WindowStart      string  `json:"windowStart"`
	WindowEnd        string  `json:"windowEnd"`
	Communication    string  `json:"communication"`
	Scheduling       string  `json:"scheduling"`
	InterpreterType  string  `json:"interpreterType"`
	GenderPreference string  `json:"genderPreference,omitempty"`
	GroupID          *string `json:"groupId,omitempty"`
	SameInterpreter  bool    `json:"sameInterpreter,omitempty"`

	CompanyID              *string `json:"companyId,omitempty"`
	CompanyName            string  `json:"companyName,omitempty"`
	CompanyHasInterpreters bool    `json:"companyHasInterpreters,omitempty"`

	EstimatedCost *MoneyPayload  `json:"estimatedCost,omitempty"`
	Repeat        *RepeatPayload `json:"repeat,omitempty"`
}

// MoneyPayload carries a decimal amount with its currency.
type MoneyPayload struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// RepeatPayload describes a recurring-booking schedule.
type RepeatPayload struct {
	Interval string `json:"interval"`
	Count    int    `json:"count"`
	NextAt   string `json:"nextAt"`
}

// InterpreterRequest carries the interpreter id for accept, reject and
// add-interpreter operations.
type InterpreterRequest struct {
	InterpreterID string `json:"interpreterId"`
}

// CreatedResponse returns the id of a newly seeded order.
type CreatedResponse struct {
	OrderID string `json:"orderId"`
}

// OrderResponse is the read model of one order.
type OrderResponse struct {
	ID                    string     `json:"id"`
	PlatformID            string     `json:"platformId"`
	Status                string     `json:"status"`
	AssignedInterpreterID *string    `json:"assignedInterpreterId,omitempty"`
	EndSearchTime         *time.Time `json:"endSearchTime,omitempty"`
	MatchedInterpreterIDs []string   `json:"matchedInterpreterIds"`
}

// OrderSummaryResponse is one row of the awaiting-search listing.
type OrderSummaryResponse struct {
	ID            string     `json:"id"`
	PlatformID    string     `json:"platformId"`
	Status        string     `json:"status"`
	EndSearchTime *time.Time `json:"endSearchTime,omitempty"`
}

func (r NewOrderRequest) toDetails() (order.Details, error) {
	languages, err := kernel.NewLanguagePair(r.SourceLanguage, r.TargetLanguage)
	if err != nil {
		return order.Details{}, err
	}

	start, err := time.Parse(time.RFC3339, r.WindowStart)
	if err != nil {
		return order.Details{}, fmt.Errorf("windowStart: %w", err)
	}
	end, err := time.Parse(time.RFC3339, r.WindowEnd)
	if err != nil {
		return order.Details{}, fmt.Errorf("windowEnd: %w", err)
	}
	window, err := kernel.NewTimeWindow(start, end)
	if err != nil {
		return order.Details{}, err
	}

	communication, err := parseCommunication(r.Communication)
	if err != nil {
		return order.Details{}, err
	}
	scheduling, err := parseScheduling(r.Scheduling)
	if err != nil {
		return order.Details{}, err
	}
	interpreterType, err := parseInterpreterType(r.InterpreterType)
	if err != nil {
		return order.Details{}, err
	}
	gender, err := parseGender(r.GenderPreference)
	if err != nil {
		return order.Details{}, err
	}

	details := order.Details{
		PlatformID:             r.PlatformID,
		Languages:              languages,
		Window:                 window,
		Communication:          communication,
		Scheduling:             scheduling,
		InterpreterType:        interpreterType,
		GenderPreference:       gender,
		OperatedByCompanyName:  r.CompanyName,
		CompanyHasInterpreters: r.CompanyHasInterpreters,
	}

	if details.GroupID, err = parseOptionalID(r.GroupID); err != nil {
		return order.Details{}, fmt.Errorf("groupId: %w", err)
	}
	if details.OperatedByCompanyID, err = parseOptionalID(r.CompanyID); err != nil {
		return order.Details{}, fmt.Errorf("companyId: %w", err)
	}

	if r.EstimatedCost != nil {
		amount, decErr := decimal.NewFromString(r.EstimatedCost.Amount)
		if decErr != nil {
			return order.Details{}, fmt.Errorf("estimatedCost.amount: %w", decErr)
		}
		details.EstimatedCost, err = kernel.NewMoney(amount, r.EstimatedCost.Currency)
		if err != nil {
			return order.Details{}, err
		}
	}

	return details, nil
}

func (r NewOrderRequest) toRepeat() (*order.RepeatSchedule, error) {
	if r.Repeat == nil {
		return nil, nil
	}

	interval, err := parseRepeatInterval(r.Repeat.Interval)
	if err != nil {
		return nil, err
	}
	nextAt, err := time.Parse(time.RFC3339, r.Repeat.NextAt)
	if err != nil {
		return nil, fmt.Errorf("repeat.nextAt: %w", err)
	}

	schedule, err := order.NewRepeatSchedule(interval, r.Repeat.Count, nextAt)
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func parseCommunication(value string) (kernel.CommunicationType, error) {
	switch value {
	case "onsite":
		return kernel.Onsite, nil
	case "video":
		return kernel.Video, nil
	case "phone":
		return kernel.Phone, nil
	default:
		return kernel.CommunicationUnknown, fmt.Errorf("unknown communication type %q", value)
	}
}

func parseScheduling(value string) (kernel.SchedulingType, error) {
	switch value {
	case "on-demand":
		return kernel.OnDemand, nil
	case "prebooked":
		return kernel.PreBooked, nil
	default:
		return kernel.SchedulingUnknown, fmt.Errorf("unknown scheduling type %q", value)
	}
}

func parseInterpreterType(value string) (interpreter.Type, error) {
	switch value {
	case "community":
		return interpreter.Community, nil
	case "professional":
		return interpreter.Professional, nil
	case "sworn":
		return interpreter.Sworn, nil
	default:
		return interpreter.TypeUnknown, fmt.Errorf("unknown interpreter type %q", value)
	}
}

func parseGender(value string) (interpreter.Gender, error) {
	switch value {
	case "", "any":
		return interpreter.GenderAny, nil
	case "female":
		return interpreter.Female, nil
	case "male":
		return interpreter.Male, nil
	default:
		return interpreter.GenderAny, fmt.Errorf("unknown gender preference %q", value)
	}
}

func parseRepeatInterval(value string) (order.RepeatInterval, error) {
	switch value {
	case "daily":
		return order.Daily, nil
	case "weekly":
		return order.Weekly, nil
	case "biweekly":
		return order.Biweekly, nil
	case "monthly":
		return order.Monthly, nil
	default:
		return order.RepeatNone, fmt.Errorf("unknown repeat interval %q", value)
	}
}

func parseOptionalID(raw *string) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromString(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
