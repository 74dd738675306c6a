package validators

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
)

// clockTimeValidator validates a wall-clock timestamp in the
// "YYYY-MM-DD HH:MM" format used for maintenance window bounds.
type clockTimeValidator struct{}

const clockTimeLayout = "2006-01-02 15:04"

// Description returns a plain text description of the validator's behavior
func (v clockTimeValidator) Description(ctx context.Context) string {
	return "Value must be a timestamp in 'YYYY-MM-DD HH:MM' format (e.g., '2024-03-01 22:00')"
}

// MarkdownDescription returns a markdown formatted description of the validator's behavior
func (v clockTimeValidator) MarkdownDescription(ctx context.Context) string {
	return "Value must be a timestamp in `YYYY-MM-DD HH:MM` format (e.g., `2024-03-01 22:00`)"
}

// ValidateString validates the timestamp format and calendar bounds
func (v clockTimeValidator) ValidateString(ctx context.Context, req validator.StringRequest, resp *validator.StringResponse) {
	if req.ConfigValue.IsUnknown() || req.ConfigValue.IsNull() {
		return
	}

	value := req.ConfigValue.ValueString()

	if _, err := time.Parse(clockTimeLayout, value); err != nil {
		resp.Diagnostics.AddAttributeError(
			req.Path,
			"Invalid Timestamp",
			fmt.Sprintf("Value %q is not a valid timestamp. Expected format: 'YYYY-MM-DD HH:MM' (e.g., '2024-03-01 22:00').", value),
		)
	}
}

// ClockTime returns a validator that ensures the string is a
// minute-resolution wall-clock timestamp.
func ClockTime() validator.String {
	return clockTimeValidator{}
}
