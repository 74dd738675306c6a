// Package client implements a Zabbix JSON-RPC API client.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/mitchellh/mapstructure"
)

// Client speaks JSON-RPC 2.0 against a Zabbix frontend API endpoint
// (typically https://host/api_jsonrpc.php). One Client is created per
// provider configuration and shared by every resource.
type Client struct {
	HTTPClient *http.Client
	URL        string

	token      string
	bearerAuth bool
	nextID     atomic.Int64
}

// Options control transport construction.
type Options struct {
	SkipTLSVerify bool
	Timeout       time.Duration
}

// New creates a client for the given API endpoint URL.
func New(url string, opts Options) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("API URL is required")
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}
	if opts.SkipTLSVerify {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &Client{
		HTTPClient: httpClient,
		URL:        strings.TrimSuffix(url, "/"),
	}, nil
}

// SetAPIToken installs a pre-issued API token instead of a session obtained
// via Login.
func (c *Client) SetAPIToken(token string) {
	c.token = token
}

// UseBearerAuth selects the Authorization header over the legacy request-body
// "auth" field. The header form is required from API 6.4 on.
func (c *Client) UseBearerAuth(enabled bool) {
	c.bearerAuth = enabled
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	Auth    string `json:"auth,omitempty"`
	ID      int64  `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *APIError       `json:"error"`
	ID      int64           `json:"id"`
}

// Call performs one JSON-RPC request. When result is non-nil the response
// result member is decoded into it; numeric strings and numbers are accepted
// interchangeably because the API's encoding of numbers varies by version.
func (c *Client) Call(ctx context.Context, method string, params any, result any) error {
	req := rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	}
	// apiinfo.version and user.login reject any auth information.
	authFree := method == "apiinfo.version" || method == "user.login"
	if !authFree && !c.bearerAuth {
		req.Auth = c.token
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	tflog.Debug(ctx, "Zabbix API request", map[string]interface{}{
		"method": method,
	})

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json-rpc")
	if !authFree && c.bearerAuth && c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	httpResp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s: HTTP request failed: %w", method, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("%s: failed to read response body: %w", method, err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return fmt.Errorf("%s: HTTP %d - %s", method, httpResp.StatusCode, string(respBody))
	}

	var resp rpcResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return fmt.Errorf("%s: failed to unmarshal response: %w", method, err)
	}
	if resp.Error != nil {
		resp.Error.Method = method
		return resp.Error
	}

	tflog.Debug(ctx, "Zabbix API response", map[string]interface{}{
		"method": method,
	})

	if result == nil {
		return nil
	}
	return decodeResult(resp.Result, result)
}

// decodeResult unmarshals a raw result member into the caller's structure.
// The intermediate mapstructure pass with WeaklyTypedInput absorbs the
// string-vs-number drift between API versions.
func decodeResult(raw json.RawMessage, result any) error {
	var loose any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return fmt.Errorf("failed to unmarshal result: %w", err)
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build result decoder: %w", err)
	}
	if err := decoder.Decode(loose); err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}
	return nil
}

// Login authenticates with username and password and stores the returned
// session token for subsequent calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var token string
	err := c.Call(ctx, "user.login", map[string]any{
		"username": username,
		"password": password,
	}, &token)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	c.token = token
	tflog.Info(ctx, "Authenticated with Zabbix API")
	return nil
}

// APIVersion reports the server's API version string. The call is
// unauthenticated and takes an empty params list per the API contract.
func (c *Client) APIVersion(ctx context.Context) (string, error) {
	var ver string
	if err := c.Call(ctx, "apiinfo.version", []any{}, &ver); err != nil {
		return "", fmt.Errorf("failed to determine API version: %w", err)
	}
	return ver, nil
}

// objectRefs renders a list of ids as the {key: id} record list shape used
// by API 6.2+ association fields.
func objectRefs(key string, ids []string) []map[string]string {
	refs := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, map[string]string{key: id})
	}
	return refs
}

// firstID extracts the single created id from a create-call result such as
// {"maintenanceids": ["42"]}.
func firstID(ids []string, kind string) (string, error) {
	if len(ids) == 0 {
		return "", fmt.Errorf("create %s: API returned no id", kind)
	}
	return ids[0], nil
}
