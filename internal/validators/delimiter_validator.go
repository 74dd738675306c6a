package validators

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
)

// delimiterValidator validates the delimiter character a delimited-list
// regular expression splits on. The frontend only offers these three.
type delimiterValidator struct{}

var allowedDelimiters = []string{",", ".", "/"}

// Description returns a plain text description of the validator's behavior
func (v delimiterValidator) Description(ctx context.Context) string {
	return "Value must be one of ',', '.' or '/'"
}

// MarkdownDescription returns a markdown formatted description of the validator's behavior
func (v delimiterValidator) MarkdownDescription(ctx context.Context) string {
	return "Value must be one of `,`, `.` or `/`"
}

// ValidateString validates the delimiter choice
func (v delimiterValidator) ValidateString(ctx context.Context, req validator.StringRequest, resp *validator.StringResponse) {
	if req.ConfigValue.IsUnknown() || req.ConfigValue.IsNull() {
		return
	}

	value := req.ConfigValue.ValueString()
	for _, d := range allowedDelimiters {
		if value == d {
			return
		}
	}

	resp.Diagnostics.AddAttributeError(
		req.Path,
		"Invalid Delimiter",
		fmt.Sprintf("Value %q is not a supported delimiter. Expected one of: ',', '.', '/'.", value),
	)
}

// Delimiter returns a validator that ensures the string is a supported
// expression delimiter.
func Delimiter() validator.String {
	return delimiterValidator{}
}
