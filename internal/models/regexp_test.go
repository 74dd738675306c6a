package models

import (
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/netwatch-labs/terraform-provider-zabbix/internal/client"
)

func TestBuildRegexpParams_DelimiterNormalization(t *testing.T) {
	t.Run("delimiter absent for non-list types", func(t *testing.T) {
		m := RegularExpressionModel{
			Name: types.StringValue("File systems"),
			Expressions: []RegexpExpressionModel{
				{
					Expression:     types.StringValue("^a$"),
					ExpressionType: types.StringValue("result_is_true"),
				},
			},
		}
		params, diags := m.BuildRegexpParams()
		if diags.HasError() {
			t.Fatalf("BuildRegexpParams() diagnostics: %v", diags)
		}
		if params.Expressions[0].ExpDelimiter != "" {
			t.Errorf("exp_delimiter = %q, want absent for result_is_true", params.Expressions[0].ExpDelimiter)
		}
	})

	t.Run("delimiter defaults to comma for list type", func(t *testing.T) {
		m := RegularExpressionModel{
			Name: types.StringValue("File systems"),
			Expressions: []RegexpExpressionModel{
				{
					Expression:     types.StringValue("ext2,ext3,xfs"),
					ExpressionType: types.StringValue("any_character_string_included"),
				},
			},
		}
		params, diags := m.BuildRegexpParams()
		if diags.HasError() {
			t.Fatalf("BuildRegexpParams() diagnostics: %v", diags)
		}
		if params.Expressions[0].ExpDelimiter != "," {
			t.Errorf("exp_delimiter = %q, want default %q", params.Expressions[0].ExpDelimiter, ",")
		}
	})

	t.Run("configured delimiter carried for list type", func(t *testing.T) {
		m := RegularExpressionModel{
			Name: types.StringValue("File systems"),
			Expressions: []RegexpExpressionModel{
				{
					Expression:     types.StringValue("ext2/ext3/xfs"),
					ExpressionType: types.StringValue("any_character_string_included"),
					ExpDelimiter:   types.StringValue("/"),
				},
			},
		}
		params, _ := m.BuildRegexpParams()
		if params.Expressions[0].ExpDelimiter != "/" {
			t.Errorf("exp_delimiter = %q, want %q", params.Expressions[0].ExpDelimiter, "/")
		}
	})

	t.Run("delimiter on wrong type warns and is dropped", func(t *testing.T) {
		m := RegularExpressionModel{
			Name: types.StringValue("File systems"),
			Expressions: []RegexpExpressionModel{
				{
					Expression:     types.StringValue("^a$"),
					ExpressionType: types.StringValue("character_string_included"),
					ExpDelimiter:   types.StringValue("/"),
				},
			},
		}
		params, diags := m.BuildRegexpParams()
		if params.Expressions[0].ExpDelimiter != "" {
			t.Errorf("exp_delimiter = %q, want dropped", params.Expressions[0].ExpDelimiter)
		}
		if diags.WarningsCount() == 0 {
			t.Error("expected a warning for the ignored delimiter")
		}
	})
}

func baselineRegexp() (*client.RegularExpression, client.RegularExpressionParams) {
	current := &client.RegularExpression{
		ID:         "33",
		Name:       "File systems for discovery",
		TestString: "ext4",
		Expressions: []client.RegexpExpression{
			{Expression: "ext2,ext3,ext4,xfs", ExpressionType: "1", ExpDelimiter: ",", CaseSensitive: "1"},
			{Expression: "^tmpfs$", ExpressionType: "4", CaseSensitive: "0"},
		},
	}
	desired := client.RegularExpressionParams{
		Name:       "File systems for discovery",
		TestString: "ext4",
		Expressions: []client.RegexpExpression{
			{Expression: "ext2,ext3,ext4,xfs", ExpressionType: "1", ExpDelimiter: ",", CaseSensitive: "1"},
			{Expression: "^tmpfs$", ExpressionType: "4", CaseSensitive: "0"},
		},
	}
	return current, desired
}

func TestRegexpChanged(t *testing.T) {
	t.Run("identical state is unchanged", func(t *testing.T) {
		current, desired := baselineRegexp()
		if RegexpChanged(current, desired) {
			t.Error("RegexpChanged() = true for matching state")
		}
	})

	t.Run("stale delimiter on current is normalized away", func(t *testing.T) {
		// The server ignores but may echo a delimiter on types where it
		// does not apply.
		current, desired := baselineRegexp()
		current.Expressions[1].ExpDelimiter = ","
		if RegexpChanged(current, desired) {
			t.Error("RegexpChanged() = true for an inapplicable delimiter echo")
		}
	})

	t.Run("expression order matters", func(t *testing.T) {
		current, desired := baselineRegexp()
		desired.Expressions[0], desired.Expressions[1] = desired.Expressions[1], desired.Expressions[0]
		if !RegexpChanged(current, desired) {
			t.Error("RegexpChanged() = false for reordered expressions, order is significant")
		}
	})

	tests := []struct {
		name   string
		mutate func(*client.RegularExpressionParams)
	}{
		{"name differs", func(p *client.RegularExpressionParams) { p.Name = "changed" }},
		{"test string differs", func(p *client.RegularExpressionParams) { p.TestString = "xfs" }},
		{"pattern differs", func(p *client.RegularExpressionParams) { p.Expressions[1].Expression = "^proc$" }},
		{"case sensitivity differs", func(p *client.RegularExpressionParams) { p.Expressions[0].CaseSensitive = "0" }},
		{"delimiter differs on list type", func(p *client.RegularExpressionParams) { p.Expressions[0].ExpDelimiter = "/" }},
		{"expression removed", func(p *client.RegularExpressionParams) { p.Expressions = p.Expressions[:1] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, desired := baselineRegexp()
			tt.mutate(&desired)
			if !RegexpChanged(current, desired) {
				t.Error("RegexpChanged() = false, want true")
			}
		})
	}
}

func TestRefreshRegexpExpressions(t *testing.T) {
	server := []client.RegexpExpression{
		// The server always echoes case_sensitive and fills the delimiter
		// default on list types.
		{Expression: "ext2,ext3,ext4", ExpressionType: "1", ExpDelimiter: ",", CaseSensitive: "0"},
		{Expression: "^tmpfs$", ExpressionType: "4", CaseSensitive: "1"},
	}

	t.Run("untracked sub-attributes stay null", func(t *testing.T) {
		prior := []RegexpExpressionModel{
			{
				Expression:     types.StringValue("ext2,ext3,ext4"),
				ExpressionType: types.StringValue("any_character_string_included"),
			},
			{
				Expression:     types.StringValue("^tmpfs$"),
				ExpressionType: types.StringValue("result_is_true"),
			},
		}
		got := RefreshRegexpExpressions(prior, server)
		if !got[0].ExpDelimiter.IsNull() {
			t.Errorf("exp_delimiter = %v, want null when the configuration omits it", got[0].ExpDelimiter)
		}
		if !got[0].CaseSensitive.IsNull() || !got[1].CaseSensitive.IsNull() {
			t.Error("case_sensitive refreshed despite being untracked")
		}
	})

	t.Run("tracked sub-attributes are refreshed", func(t *testing.T) {
		prior := []RegexpExpressionModel{
			{
				Expression:     types.StringValue("ext2,ext3"),
				ExpressionType: types.StringValue("any_character_string_included"),
				ExpDelimiter:   types.StringValue("/"),
				CaseSensitive:  types.BoolValue(true),
			},
			{
				Expression:     types.StringValue("^tmpfs$"),
				ExpressionType: types.StringValue("result_is_true"),
				CaseSensitive:  types.BoolValue(false),
			},
		}
		got := RefreshRegexpExpressions(prior, server)
		if got[0].ExpDelimiter.ValueString() != "," {
			t.Errorf("exp_delimiter = %v, want refreshed to %q", got[0].ExpDelimiter, ",")
		}
		if got[0].CaseSensitive.ValueBool() || !got[1].CaseSensitive.ValueBool() {
			t.Error("case_sensitive not refreshed from the server object")
		}
		if got[0].Expression.ValueString() != "ext2,ext3,ext4" {
			t.Errorf("expression = %v, want refreshed pattern", got[0].Expression)
		}
	})

	t.Run("elements without prior state populate in full", func(t *testing.T) {
		got := RefreshRegexpExpressions(nil, server)
		if got[0].ExpDelimiter.ValueString() != "," || got[0].CaseSensitive.IsNull() {
			t.Errorf("imported element not fully populated: %+v", got[0])
		}
		if got[1].ExpressionType.ValueString() != "result_is_true" {
			t.Errorf("expression_type = %v, want result_is_true", got[1].ExpressionType)
		}
		if !got[1].ExpDelimiter.IsNull() {
			t.Error("exp_delimiter set for a type that does not use one")
		}
	})
}
