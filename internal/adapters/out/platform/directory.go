package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"interpreting/internal/core/domain/model/interpreter"
	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/ports"
	"interpreting/internal/pkg/errs"
)

// Directory implements the interpreter directory port against the
// platform's internal REST API. Profiles are snapshots; the caller
// tolerates staleness because acceptance is re-checked at the store.
type Directory struct {
	client *Client
}

var _ ports.InterpreterDirectory = &Directory{}

// NewDirectory creates a directory adapter on top of the shared client.
func NewDirectory(client *Client) (*Directory, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}
	return &Directory{client: client}, nil
}

type languagePairDTO struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type profileDTO struct {
	ID                   string            `json:"id"`
	CompanyID            *string           `json:"companyId"`
	Languages            []languagePairDTO `json:"languages"`
	Type                 string            `json:"type"`
	Gender               string            `json:"gender"`
	Rating               float64           `json:"rating"`
	Online               bool              `json:"online"`
	OnlineSince          *time.Time        `json:"onlineSince"`
	AcceptsOvertimeRates bool              `json:"acceptsOvertimeRates"`
	AvailableFor         []string          `json:"availableFor"`
}

type availableResponse struct {
	Interpreters []profileDTO `json:"interpreters"`
}

// GetAvailable returns the profiles matching the query. Malformed rows
// are skipped rather than failing the whole sweep.
func (d *Directory) GetAvailable(
	ctx context.Context,
	query ports.AvailabilityQuery,
) ([]*interpreter.Profile, error) {
	params := url.Values{}
	params.Set("source", query.Languages.Source())
	params.Set("target", query.Languages.Target())
	params.Set("type", query.Kind.String())
	params.Set("scheduling", query.Scheduling.String())
	params.Set("window_from", query.Window.Start().UTC().Format(time.RFC3339))
	params.Set("window_to", query.Window.End().UTC().Format(time.RFC3339))
	if query.CompanyID != nil {
		params.Set("company_id", query.CompanyID.String())
	}

	var response availableResponse
	err := d.client.doJSON(ctx, http.MethodGet, "/internal/v1/interpreters", params, nil, &response)
	if err != nil {
		return nil, fmt.Errorf("query available interpreters: %w", err)
	}

	profiles := make([]*interpreter.Profile, 0, len(response.Interpreters))
	for _, dto := range response.Interpreters {
		profile, convErr := dto.toDomain()
		if convErr != nil {
			continue
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// GetProfile returns one interpreter's profile. A missing interpreter
// surfaces as errs.ErrObjectNotFound.
func (d *Directory) GetProfile(ctx context.Context, id kernel.UUID) (*interpreter.Profile, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto profileDTO
	path := "/internal/v1/interpreters/" + id.String()
	if err := d.client.doJSON(ctx, http.MethodGet, path, nil, nil, &dto); err != nil {
		return nil, fmt.Errorf("fetch interpreter profile: %w", err)
	}

	profile, err := dto.toDomain()
	if err != nil {
		return nil, fmt.Errorf("interpreter %s: %w", id, err)
	}
	return profile, nil
}

func (dto profileDTO) toDomain() (*interpreter.Profile, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}

	var companyID *kernel.UUID
	if dto.CompanyID != nil {
		parsed, parseErr := kernel.UUIDFromString(*dto.CompanyID)
		if parseErr != nil {
			return nil, parseErr
		}
		companyID = &parsed
	}

	languages := make([]kernel.LanguagePair, 0, len(dto.Languages))
	for _, pair := range dto.Languages {
		languagePair, pairErr := kernel.NewLanguagePair(pair.Source, pair.Target)
		if pairErr != nil {
			return nil, pairErr
		}
		languages = append(languages, languagePair)
	}

	profile, err := interpreter.NewProfile(
		id, companyID, languages, parseType(dto.Type), parseGender(dto.Gender), dto.Rating)
	if err != nil {
		return nil, err
	}

	if dto.Online && dto.OnlineSince != nil {
		profile.SetOnline(*dto.OnlineSince)
	}
	profile.SetAcceptsOvertimeRates(dto.AcceptsOvertimeRates)
	for _, scheduling := range dto.AvailableFor {
		if parsed := parseScheduling(scheduling); parsed != kernel.SchedulingUnknown {
			profile.SetAvailableFor(parsed)
		}
	}

	return profile, nil
}

func parseType(value string) interpreter.Type {
	switch value {
	case "Community":
		return interpreter.Community
	case "Professional":
		return interpreter.Professional
	case "Sworn":
		return interpreter.Sworn
	default:
		return interpreter.TypeUnknown
	}
}

func parseGender(value string) interpreter.Gender {
	switch value {
	case "Female":
		return interpreter.Female
	case "Male":
		return interpreter.Male
	default:
		return interpreter.GenderAny
	}
}

func parseScheduling(value string) kernel.SchedulingType {
	switch value {
	case "OnDemand":
		return kernel.OnDemand
	case "PreBooked":
		return kernel.PreBooked
	default:
		return kernel.SchedulingUnknown
	}
}
