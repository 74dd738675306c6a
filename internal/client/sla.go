package client

import (
	"context"
)

// SLA is the server-side state of a service level agreement.
type SLA struct {
	ID                string                `json:"slaid"`
	Name              string                `json:"name"`
	Period            string                `json:"period"`
	SLO               string                `json:"slo"`
	EffectiveDate     string                `json:"effective_date"`
	Timezone          string                `json:"timezone"`
	Status            string                `json:"status"`
	Description       string                `json:"description"`
	ServiceTags       []SLAServiceTag       `json:"service_tags"`
	Schedule          []SLASchedule         `json:"schedule"`
	ExcludedDowntimes []SLAExcludedDowntime `json:"excluded_downtimes"`
}

// SLAServiceTag selects the services an SLA measures.
type SLAServiceTag struct {
	Tag      string `json:"tag"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// SLASchedule is one weekly recurring window during which the SLA counts
// uptime, expressed in seconds from the start of the week.
type SLASchedule struct {
	PeriodFrom int64 `json:"period_from"`
	PeriodTo   int64 `json:"period_to"`
}

// SLAExcludedDowntime is a planned outage excluded from SLA calculation.
type SLAExcludedDowntime struct {
	Name       string `json:"name"`
	PeriodFrom int64  `json:"period_from"`
	PeriodTo   int64  `json:"period_to"`
}

// SLAParams is the desired state of one SLA with enumerations encoded.
type SLAParams struct {
	Name              string
	Period            string
	SLO               string
	EffectiveDate     int64
	Timezone          string
	Status            string
	Description       string
	ServiceTags       []SLAServiceTag
	Schedule          []SLASchedule
	ExcludedDowntimes []SLAExcludedDowntime
}

func slaGetParams() map[string]any {
	return map[string]any{
		"output":                  "extend",
		"selectSchedule":          "extend",
		"selectExcludedDowntimes": "extend",
		"selectServiceTags":       "extend",
	}
}

// SLAGetByName fetches an SLA by name. More than one match is an error, the
// name is the reconciliation key.
func (c *Client) SLAGetByName(ctx context.Context, name string) (*SLA, error) {
	params := slaGetParams()
	params["filter"] = map[string]any{"name": name}

	var slas []SLA
	if err := c.Call(ctx, "sla.get", params, &slas); err != nil {
		return nil, err
	}
	if len(slas) == 0 {
		return nil, &NotFoundError{Kind: "SLA", Name: name}
	}
	if len(slas) > 1 {
		return nil, &TooManyMatchesError{Kind: "SLA", Name: name, Count: len(slas)}
	}
	return &slas[0], nil
}

// SLAGet fetches an SLA by id.
func (c *Client) SLAGet(ctx context.Context, id string) (*SLA, error) {
	params := slaGetParams()
	params["slaids"] = []string{id}

	var slas []SLA
	if err := c.Call(ctx, "sla.get", params, &slas); err != nil {
		return nil, err
	}
	if len(slas) == 0 {
		return nil, &NotFoundError{Kind: "SLA", Name: id}
	}
	return &slas[0], nil
}

func slaBody(p SLAParams) map[string]any {
	body := map[string]any{
		"name":           p.Name,
		"period":         p.Period,
		"slo":            p.SLO,
		"effective_date": p.EffectiveDate,
		"timezone":       p.Timezone,
		"status":         p.Status,
		"description":    p.Description,
		"service_tags":   p.ServiceTags,
	}
	if p.Schedule != nil {
		body["schedule"] = p.Schedule
	}
	if p.ExcludedDowntimes != nil {
		body["excluded_downtimes"] = p.ExcludedDowntimes
	}
	return body
}

// SLACreate creates an SLA and returns its id.
func (c *Client) SLACreate(ctx context.Context, p SLAParams) (string, error) {
	var result struct {
		SLAIDs []string `json:"slaids"`
	}
	if err := c.Call(ctx, "sla.create", slaBody(p), &result); err != nil {
		return "", err
	}
	return firstID(result.SLAIDs, "SLA")
}

// SLAUpdate replaces the SLA identified by id with the desired state.
func (c *Client) SLAUpdate(ctx context.Context, id string, p SLAParams) error {
	body := slaBody(p)
	body["slaid"] = id
	return c.Call(ctx, "sla.update", body, nil)
}

// SLADelete removes the SLA identified by id.
func (c *Client) SLADelete(ctx context.Context, id string) error {
	return c.Call(ctx, "sla.delete", []string{id}, nil)
}
