package validators

import (
	"context"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
)

func TestClockTimeValidator(t *testing.T) {
	tests := []struct {
		name      string
		value     types.String
		expectErr bool
	}{
		{
			name:      "valid timestamp",
			value:     types.StringValue("2024-03-01 22:00"),
			expectErr: false,
		},
		{
			name:      "valid midnight",
			value:     types.StringValue("1979-09-19 00:00"),
			expectErr: false,
		},
		{
			name:      "valid end of day",
			value:     types.StringValue("2024-12-31 23:59"),
			expectErr: false,
		},
		{
			name:      "seconds not accepted",
			value:     types.StringValue("2024-03-01 22:00:30"),
			expectErr: true,
		},
		{
			name:      "date only",
			value:     types.StringValue("2024-03-01"),
			expectErr: true,
		},
		{
			name:      "hour out of range",
			value:     types.StringValue("2024-03-01 24:00"),
			expectErr: true,
		},
		{
			name:      "minute out of range",
			value:     types.StringValue("2024-03-01 22:60"),
			expectErr: true,
		},
		{
			name:      "day out of range",
			value:     types.StringValue("2024-02-30 12:00"),
			expectErr: true,
		},
		{
			name:      "wrong date order",
			value:     types.StringValue("01-03-2024 22:00"),
			expectErr: true,
		},
		{
			name:      "empty string",
			value:     types.StringValue(""),
			expectErr: true,
		},
		{
			name:      "null value (allowed)",
			value:     types.StringNull(),
			expectErr: false,
		},
		{
			name:      "unknown value (allowed)",
			value:     types.StringUnknown(),
			expectErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ClockTime()
			req := validator.StringRequest{
				Path:        path.Root("active_since"),
				ConfigValue: tt.value,
			}
			resp := &validator.StringResponse{}

			v.ValidateString(context.Background(), req, resp)

			hasError := resp.Diagnostics.HasError()
			if hasError != tt.expectErr {
				t.Errorf("ClockTime() hasError = %v, expectErr %v", hasError, tt.expectErr)
				if hasError {
					t.Logf("Diagnostics: %v", resp.Diagnostics)
				}
			}
		})
	}
}

func TestClockTimeValidator_Description(t *testing.T) {
	v := ClockTime()
	ctx := context.Background()

	if v.Description(ctx) == "" {
		t.Error("Description() returned empty string")
	}
	if v.MarkdownDescription(ctx) == "" {
		t.Error("MarkdownDescription() returned empty string")
	}
}
