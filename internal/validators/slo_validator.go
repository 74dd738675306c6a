package validators

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
)

// sloValidator validates a service level objective percentage.
type sloValidator struct{}

// Description returns a plain text description of the validator's behavior
func (v sloValidator) Description(ctx context.Context) string {
	return "Value must be a percentage between 0 and 100 (e.g., 99.9)"
}

// MarkdownDescription returns a markdown formatted description of the validator's behavior
func (v sloValidator) MarkdownDescription(ctx context.Context) string {
	return "Value must be a percentage between `0` and `100` (e.g., `99.9`)"
}

// ValidateFloat64 validates the percentage bounds
func (v sloValidator) ValidateFloat64(ctx context.Context, req validator.Float64Request, resp *validator.Float64Response) {
	if req.ConfigValue.IsUnknown() || req.ConfigValue.IsNull() {
		return
	}

	value := req.ConfigValue.ValueFloat64()

	if value < 0 || value > 100 {
		resp.Diagnostics.AddAttributeError(
			req.Path,
			"Invalid SLO",
			fmt.Sprintf("Value %v is not a valid service level objective. Expected a percentage between 0 and 100.", value),
		)
	}
}

// SLO returns a validator that ensures the number is a valid percentage.
func SLO() validator.Float64 {
	return sloValidator{}
}
