// Package client implements a Zabbix JSON-RPC API client.
package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework/diag"
)

// APIError is the error member of a JSON-RPC response. The API reports every
// failure this way, with the human-readable detail in Data.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
	Method  string `json:"-"`
}

func (e *APIError) Error() string {
	if e.Data != "" {
		return fmt.Sprintf("%s: %s %s (code %d)", e.Method, e.Message, e.Data, e.Code)
	}
	return fmt.Sprintf("%s: %s (code %d)", e.Method, e.Message, e.Code)
}

// NotFoundError reports a named object that could not be resolved on the
// server. Lookups produce it; the API itself returns empty result sets
// rather than errors for missing objects.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// TooManyMatchesError reports a name that was expected to be unique but
// matched more than one object.
type TooManyMatchesError struct {
	Kind  string
	Name  string
	Count int
}

func (e *TooManyMatchesError) Error() string {
	return fmt.Sprintf("%s %q matched %d objects, expected exactly one", e.Kind, e.Name, e.Count)
}

// UnsupportedVersionError reports a feature gated behind a minimum API
// version the connected server does not meet.
type UnsupportedVersionError struct {
	Feature string
	Minimum string
	Server  string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("%s requires Zabbix %s or later, server reports %s", e.Feature, e.Minimum, e.Server)
}

// ErrorCategory classifies an error for diagnostic rendering.
type ErrorCategory int

const (
	ErrorCategoryNotFound ErrorCategory = iota
	ErrorCategoryTooManyMatches
	ErrorCategoryUnsupportedVersion
	ErrorCategoryAuth
	ErrorCategoryValidation
	ErrorCategoryNetwork
	ErrorCategoryTimeout
	ErrorCategoryServer
	ErrorCategoryUnknown
)

// String returns a string representation of the error category
func (ec ErrorCategory) String() string {
	switch ec {
	case ErrorCategoryNotFound:
		return "not_found"
	case ErrorCategoryTooManyMatches:
		return "too_many_matches"
	case ErrorCategoryUnsupportedVersion:
		return "unsupported_version"
	case ErrorCategoryAuth:
		return "authentication"
	case ErrorCategoryValidation:
		return "validation"
	case ErrorCategoryNetwork:
		return "network"
	case ErrorCategoryTimeout:
		return "timeout"
	case ErrorCategoryServer:
		return "server"
	default:
		return "unknown"
	}
}

// classifyError determines the error category. Typed errors are checked
// first; JSON-RPC errors are split on their error code, with message pattern
// matching for auth failures, which share a code with parameter errors on
// older servers.
func classifyError(err error) ErrorCategory {
	if err == nil {
		return ErrorCategoryUnknown
	}

	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return ErrorCategoryNotFound
	}
	var tooMany *TooManyMatchesError
	if errors.As(err, &tooMany) {
		return ErrorCategoryTooManyMatches
	}
	var unsupported *UnsupportedVersionError
	if errors.As(err, &unsupported) {
		return ErrorCategoryUnsupportedVersion
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorCategoryTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ErrorCategoryNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrorCategoryTimeout
		}
		return ErrorCategoryNetwork
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		msg := strings.ToLower(apiErr.Message + " " + apiErr.Data)
		switch {
		case strings.Contains(msg, "not authorised") ||
			strings.Contains(msg, "not authorized") ||
			strings.Contains(msg, "session terminated") ||
			strings.Contains(msg, "incorrect user name or password") ||
			strings.Contains(msg, "login name or password is incorrect"):
			return ErrorCategoryAuth
		case apiErr.Code == -32400 || apiErr.Code == -32603:
			return ErrorCategoryServer
		default:
			// -32602 (invalid params) and the application code -32500
			// both describe rejected input.
			return ErrorCategoryValidation
		}
	}

	errorMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errorMsg, "connection refused") ||
		strings.Contains(errorMsg, "no such host") ||
		strings.Contains(errorMsg, "connection reset") ||
		strings.Contains(errorMsg, "dial"):
		return ErrorCategoryNetwork
	case strings.Contains(errorMsg, "timeout") || strings.Contains(errorMsg, "timed out"):
		return ErrorCategoryTimeout
	case strings.Contains(errorMsg, "http 5"):
		return ErrorCategoryServer
	}
	return ErrorCategoryUnknown
}

// IsNotFoundError returns true if the error represents a missing object.
// Used for drift detection in Read() methods.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return classifyError(err) == ErrorCategoryNotFound
}

// IsTooManyMatchesError returns true if a unique name resolved to more than
// one object.
func IsTooManyMatchesError(err error) bool {
	if err == nil {
		return false
	}
	return classifyError(err) == ErrorCategoryTooManyMatches
}

// MapError converts a client error to a Terraform diagnostic carrying the
// raw API error text plus actionable guidance. Errors are terminal for the
// invocation; nothing is retried.
func MapError(err error, operation string) diag.Diagnostic {
	if err == nil {
		return diag.NewErrorDiagnostic("", "")
	}

	errorMsg := err.Error()

	switch classifyError(err) {
	case ErrorCategoryNotFound:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Referenced Object Not Found - %s", operation),
			fmt.Sprintf("A named object could not be resolved on the Zabbix server.\n\n"+
				"Error: %s\n\n"+
				"Verify the referenced name exists and is spelled exactly as configured in Zabbix.", errorMsg),
		)

	case ErrorCategoryTooManyMatches:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Ambiguous Name - %s", operation),
			fmt.Sprintf("A name that must be unique matched more than one object.\n\n"+
				"Error: %s\n\n"+
				"Rename the duplicate objects in Zabbix so the name resolves to exactly one object.", errorMsg),
		)

	case ErrorCategoryUnsupportedVersion:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Unsupported Zabbix Version - %s", operation),
			fmt.Sprintf("The connected server does not support this resource.\n\n"+
				"Error: %s", errorMsg),
		)

	case ErrorCategoryAuth:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Authentication Failed - %s", operation),
			fmt.Sprintf("The Zabbix API rejected the configured credentials.\n\n"+
				"Error: %s\n\n"+
				"Recommended actions:\n"+
				"1. Verify username/password or api_token in the provider configuration\n"+
				"2. Check that the API token has not expired or been revoked\n"+
				"3. Ensure the account has sufficient frontend permissions", errorMsg),
		)

	case ErrorCategoryValidation:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Zabbix API Rejected Request - %s", operation),
			fmt.Sprintf("The API refused the request parameters.\n\n"+
				"Error: %s\n\n"+
				"Check that configured values match what the connected Zabbix version accepts.", errorMsg),
		)

	case ErrorCategoryNetwork:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Network Error - %s", operation),
			fmt.Sprintf("Unable to reach the Zabbix API endpoint.\n\n"+
				"Error: %s\n\n"+
				"Recommended actions:\n"+
				"1. Check network connectivity to the frontend\n"+
				"2. Verify the url provider attribute points at api_jsonrpc.php\n"+
				"3. Check firewall rules", errorMsg),
		)

	case ErrorCategoryTimeout:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Request Timeout - %s", operation),
			fmt.Sprintf("The Zabbix API did not answer within the transport timeout.\n\n"+
				"Error: %s", errorMsg),
		)

	case ErrorCategoryServer:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Zabbix Server Error - %s", operation),
			fmt.Sprintf("The Zabbix API reported an internal failure.\n\n"+
				"Error: %s\n\n"+
				"Check the Zabbix server logs if the problem persists.", errorMsg),
		)

	default:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Zabbix API Error - %s", operation),
			fmt.Sprintf("An error occurred communicating with the Zabbix API.\n\n"+
				"Error: %s\n\n"+
				"If this error persists, please report it with the full error message above.", errorMsg),
		)
	}
}
