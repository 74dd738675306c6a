package client

import (
	"context"
)

// RegularExpression is the server-side state of a global regular expression.
// The API calls the object "regexp" and nests its test cases under
// "expressions".
type RegularExpression struct {
	ID          string             `json:"regexpid"`
	Name        string             `json:"name"`
	TestString  string             `json:"test_string"`
	Expressions []RegexpExpression `json:"expressions"`
}

// RegexpExpression is one pattern inside a global regular expression.
// Delimiter only applies when a list of strings is matched.
type RegexpExpression struct {
	Expression     string `json:"expression"`
	ExpressionType string `json:"expression_type"`
	ExpDelimiter   string `json:"exp_delimiter,omitempty"`
	CaseSensitive  string `json:"case_sensitive"`
}

// RegularExpressionParams is the desired state of one global regular
// expression with enumerations encoded and delimiters normalized.
type RegularExpressionParams struct {
	Name        string
	TestString  string
	Expressions []RegexpExpression
}

// RegularExpressionGetByName fetches a global regular expression by name.
func (c *Client) RegularExpressionGetByName(ctx context.Context, name string) (*RegularExpression, error) {
	params := map[string]any{
		"output":            "extend",
		"selectExpressions": "extend",
		"filter":            map[string]any{"name": name},
	}
	var regexps []RegularExpression
	if err := c.Call(ctx, "regexp.get", params, &regexps); err != nil {
		return nil, err
	}
	if len(regexps) == 0 {
		return nil, &NotFoundError{Kind: "regular expression", Name: name}
	}
	if len(regexps) > 1 {
		return nil, &TooManyMatchesError{Kind: "regular expression", Name: name, Count: len(regexps)}
	}
	return &regexps[0], nil
}

// RegularExpressionGet fetches a global regular expression by id.
func (c *Client) RegularExpressionGet(ctx context.Context, id string) (*RegularExpression, error) {
	params := map[string]any{
		"output":            "extend",
		"selectExpressions": "extend",
		"regexpids":         []string{id},
	}
	var regexps []RegularExpression
	if err := c.Call(ctx, "regexp.get", params, &regexps); err != nil {
		return nil, err
	}
	if len(regexps) == 0 {
		return nil, &NotFoundError{Kind: "regular expression", Name: id}
	}
	return &regexps[0], nil
}

func regexpBody(p RegularExpressionParams) map[string]any {
	return map[string]any{
		"name":        p.Name,
		"test_string": p.TestString,
		"expressions": p.Expressions,
	}
}

// RegularExpressionCreate creates a global regular expression and returns
// its id.
func (c *Client) RegularExpressionCreate(ctx context.Context, p RegularExpressionParams) (string, error) {
	var result struct {
		RegexpIDs []string `json:"regexpids"`
	}
	if err := c.Call(ctx, "regexp.create", regexpBody(p), &result); err != nil {
		return "", err
	}
	return firstID(result.RegexpIDs, "regular expression")
}

// RegularExpressionUpdate replaces the expression identified by id with the
// desired state.
func (c *Client) RegularExpressionUpdate(ctx context.Context, id string, p RegularExpressionParams) error {
	body := regexpBody(p)
	body["regexpid"] = id
	return c.Call(ctx, "regexp.update", body, nil)
}

// RegularExpressionDelete removes the expression identified by id.
func (c *Client) RegularExpressionDelete(ctx context.Context, id string) error {
	return c.Call(ctx, "regexp.delete", []string{id}, nil)
}
