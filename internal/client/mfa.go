package client

import (
	"context"
)

// MFAMethod is the server-side state of a multi-factor authentication
// method. Secret material (client secret, API hostname) is write-only and
// never returned by the API.
type MFAMethod struct {
	ID           string `json:"mfaid"`
	Type         string `json:"type"`
	Name         string `json:"name"`
	HashFunction string `json:"hash_function"`
	CodeLength   string `json:"code_length"`
	APIHostname  string `json:"api_hostname"`
	ClientID     string `json:"clientid"`
}

// MFAMethodParams is the desired state of one MFA method. Fields irrelevant
// to the chosen type are left empty and omitted from the payload.
type MFAMethodParams struct {
	Name         string
	Type         string
	HashFunction string
	CodeLength   string
	APIHostname  string
	ClientID     string
	ClientSecret string
}

const (
	MFATypeTOTP = "1"
	MFATypeDuo  = "2"
)

// MFAMethodGetByName fetches an MFA method by name. The search is exact,
// returning a NotFoundError when nothing matches.
func (c *Client) MFAMethodGetByName(ctx context.Context, name string) (*MFAMethod, error) {
	params := map[string]any{
		"output": "extend",
		"filter": map[string]any{"name": name},
	}
	var methods []MFAMethod
	if err := c.Call(ctx, "mfa.get", params, &methods); err != nil {
		return nil, err
	}
	if len(methods) == 0 {
		return nil, &NotFoundError{Kind: "MFA method", Name: name}
	}
	if len(methods) > 1 {
		return nil, &TooManyMatchesError{Kind: "MFA method", Name: name, Count: len(methods)}
	}
	return &methods[0], nil
}

// MFAMethodGet fetches an MFA method by id.
func (c *Client) MFAMethodGet(ctx context.Context, id string) (*MFAMethod, error) {
	params := map[string]any{
		"output": "extend",
		"mfaids": []string{id},
	}
	var methods []MFAMethod
	if err := c.Call(ctx, "mfa.get", params, &methods); err != nil {
		return nil, err
	}
	if len(methods) == 0 {
		return nil, &NotFoundError{Kind: "MFA method", Name: id}
	}
	return &methods[0], nil
}

func mfaBody(p MFAMethodParams) map[string]any {
	body := map[string]any{
		"name": p.Name,
		"type": p.Type,
	}
	switch p.Type {
	case MFATypeTOTP:
		body["hash_function"] = p.HashFunction
		body["code_length"] = p.CodeLength
	case MFATypeDuo:
		body["api_hostname"] = p.APIHostname
		body["clientid"] = p.ClientID
		body["client_secret"] = p.ClientSecret
	}
	return body
}

// MFAMethodCreate creates an MFA method and returns its id.
func (c *Client) MFAMethodCreate(ctx context.Context, p MFAMethodParams) (string, error) {
	var result struct {
		MFAIDs []string `json:"mfaids"`
	}
	if err := c.Call(ctx, "mfa.create", mfaBody(p), &result); err != nil {
		return "", err
	}
	return firstID(result.MFAIDs, "MFA method")
}

// MFAMethodUpdate replaces the method identified by id with the desired
// state.
func (c *Client) MFAMethodUpdate(ctx context.Context, id string, p MFAMethodParams) error {
	body := mfaBody(p)
	body["mfaid"] = id
	return c.Call(ctx, "mfa.update", body, nil)
}

// MFAMethodDelete removes the method identified by id.
func (c *Client) MFAMethodDelete(ctx context.Context, id string) error {
	return c.Call(ctx, "mfa.delete", []string{id}, nil)
}
