package validators

import (
	"context"
	"fmt"
	"regexp"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
)

// formulaIDValidator validates a correlation condition formula id: the
// uppercase-letter label a custom expression references conditions by.
type formulaIDValidator struct{}

var formulaIDPattern = regexp.MustCompile(`^[A-Z]+$`)

// Description returns a plain text description of the validator's behavior
func (v formulaIDValidator) Description(ctx context.Context) string {
	return "Value must consist of uppercase letters only (e.g., 'A', 'B', 'AB')"
}

// MarkdownDescription returns a markdown formatted description of the validator's behavior
func (v formulaIDValidator) MarkdownDescription(ctx context.Context) string {
	return "Value must consist of uppercase letters only (e.g., `A`, `B`, `AB`)"
}

// ValidateString validates the formula id format
func (v formulaIDValidator) ValidateString(ctx context.Context, req validator.StringRequest, resp *validator.StringResponse) {
	if req.ConfigValue.IsUnknown() || req.ConfigValue.IsNull() {
		return
	}

	value := req.ConfigValue.ValueString()

	if !formulaIDPattern.MatchString(value) {
		resp.Diagnostics.AddAttributeError(
			req.Path,
			"Invalid Formula ID",
			fmt.Sprintf("Value %q is not a valid formula id. Condition labels referenced from a custom expression must consist of uppercase letters only (e.g., 'A').", value),
		)
	}
}

// FormulaID returns a validator that ensures the string is an
// uppercase-letter condition label.
func FormulaID() validator.String {
	return formulaIDValidator{}
}
