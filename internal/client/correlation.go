package client

import (
	"context"
)

// Correlation is the server-side state of an event correlation rule. The
// filter nests under its own key on the wire, so it is mirrored here.
type Correlation struct {
	ID          string                 `json:"correlationid"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Status      string                 `json:"status"`
	Filter      CorrelationFilter      `json:"filter"`
	Operations  []CorrelationOperation `json:"operations"`
}

// CorrelationFilter combines conditions under an evaluation type. Formula is
// only meaningful for the custom expression evaluation type.
type CorrelationFilter struct {
	EvalType   string                 `json:"evaltype"`
	Formula    string                 `json:"formula,omitempty"`
	Conditions []CorrelationCondition `json:"conditions"`
}

// CorrelationCondition matches events by tag, tag value, tag pair or new
// event host group. Fields not used by the condition type stay empty.
type CorrelationCondition struct {
	Type      string `json:"type"`
	Tag       string `json:"tag,omitempty"`
	OldTag    string `json:"oldtag,omitempty"`
	NewTag    string `json:"newtag,omitempty"`
	Value     string `json:"value,omitempty"`
	GroupID   string `json:"groupid,omitempty"`
	Operator  string `json:"operator,omitempty"`
	FormulaID string `json:"formulaid,omitempty"`
}

// CorrelationOperation closes old or new events when the rule fires.
type CorrelationOperation struct {
	Type string `json:"type"`
}

// CorrelationParams is the desired state of one correlation rule.
type CorrelationParams struct {
	Name        string
	Description string
	Status      string
	Filter      CorrelationFilter
	Operations  []CorrelationOperation
}

func correlationGetParams() map[string]any {
	return map[string]any{
		"output":           "extend",
		"selectFilter":     "extend",
		"selectOperations": "extend",
	}
}

// CorrelationGetByName fetches a correlation rule by its unique name.
func (c *Client) CorrelationGetByName(ctx context.Context, name string) (*Correlation, error) {
	params := correlationGetParams()
	params["filter"] = map[string]any{"name": name}

	var rules []Correlation
	if err := c.Call(ctx, "correlation.get", params, &rules); err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, &NotFoundError{Kind: "correlation rule", Name: name}
	}
	if len(rules) > 1 {
		return nil, &TooManyMatchesError{Kind: "correlation rule", Name: name, Count: len(rules)}
	}
	return &rules[0], nil
}

// CorrelationGet fetches a correlation rule by id.
func (c *Client) CorrelationGet(ctx context.Context, id string) (*Correlation, error) {
	params := correlationGetParams()
	params["correlationids"] = []string{id}

	var rules []Correlation
	if err := c.Call(ctx, "correlation.get", params, &rules); err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, &NotFoundError{Kind: "correlation rule", Name: id}
	}
	return &rules[0], nil
}

func correlationBody(p CorrelationParams) map[string]any {
	return map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"status":      p.Status,
		"filter":      p.Filter,
		"operations":  p.Operations,
	}
}

// CorrelationCreate creates a correlation rule and returns its id.
func (c *Client) CorrelationCreate(ctx context.Context, p CorrelationParams) (string, error) {
	var result struct {
		CorrelationIDs []string `json:"correlationids"`
	}
	if err := c.Call(ctx, "correlation.create", correlationBody(p), &result); err != nil {
		return "", err
	}
	return firstID(result.CorrelationIDs, "correlation rule")
}

// CorrelationUpdate replaces the rule identified by id with the desired
// state.
func (c *Client) CorrelationUpdate(ctx context.Context, id string, p CorrelationParams) error {
	body := correlationBody(p)
	body["correlationid"] = id
	return c.Call(ctx, "correlation.update", body, nil)
}

// CorrelationDelete removes the rule identified by id.
func (c *Client) CorrelationDelete(ctx context.Context, id string) error {
	return c.Call(ctx, "correlation.delete", []string{id}, nil)
}
