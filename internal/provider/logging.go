// Package provider implements the Zabbix Terraform provider
package provider

import (
	"context"

	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// SensitiveFields are fields that should NEVER be logged
var SensitiveFields = []string{
	"password",
	"api_token",
	"client_secret",
	"token",
	"bearer",
	"secret",
}

// LogProviderConfig logs provider configuration (masking sensitive data)
func LogProviderConfig(ctx context.Context, config *ZabbixProviderModel) {
	tflog.Debug(ctx, "Provider configuration loaded", map[string]interface{}{
		"url": config.URL.ValueString(),
		// NEVER log: password, api_token
	})
}

// LogAuthStart logs authentication attempt
func LogAuthStart(ctx context.Context) {
	tflog.Debug(ctx, "Authenticating with the Zabbix API")
}

// LogAuthSuccess logs successful authentication
func LogAuthSuccess(ctx context.Context) {
	tflog.Info(ctx, "Successfully authenticated with the Zabbix API")
}

// LogOperationStart logs the start of an API operation
func LogOperationStart(ctx context.Context, operation string, resourceType string) {
	tflog.Debug(ctx, "Starting operation", map[string]interface{}{
		"operation":     operation,
		"resource_type": resourceType,
	})
}

// LogOperationSuccess logs successful completion of an API operation
func LogOperationSuccess(ctx context.Context, operation string, resourceType string, resourceID string) {
	tflog.Info(ctx, "Operation completed successfully", map[string]interface{}{
		"operation":     operation,
		"resource_type": resourceType,
		"resource_id":   resourceID,
	})
}

// LogOperationError logs operation failure
func LogOperationError(ctx context.Context, operation string, resourceType string, err error) {
	tflog.Error(ctx, "Operation failed", map[string]interface{}{
		"operation":     operation,
		"resource_type": resourceType,
		"error":         err.Error(),
	})
}

// LogDriftDetected logs when state drift is detected
func LogDriftDetected(ctx context.Context, resourceType string, resourceID string) {
	tflog.Warn(ctx, "State drift detected - resource modified outside Terraform", map[string]interface{}{
		"resource_type": resourceType,
		"resource_id":   resourceID,
	})
}

// LogNoChanges logs when the desired state already matches the remote object
// and the update call is skipped
func LogNoChanges(ctx context.Context, resourceType string, resourceID string) {
	tflog.Debug(ctx, "Remote object already matches the desired state, skipping update", map[string]interface{}{
		"resource_type": resourceType,
		"resource_id":   resourceID,
	})
}
