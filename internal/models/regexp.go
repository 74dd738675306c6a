package models

import (
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"golang.org/x/exp/slices"

	"github.com/netwatch-labs/terraform-provider-zabbix/internal/client"
	"github.com/netwatch-labs/terraform-provider-zabbix/internal/wire"
)

// DefaultExpDelimiter applies when a delimited-list expression does not
// configure one.
const DefaultExpDelimiter = ","

// delimitedExpressionType is the only expression type that interprets a
// delimiter.
var delimitedExpressionType = wire.RegexpExpressionType.MustEncode("any_character_string_included")

// RegularExpressionModel represents the Terraform state for the
// zabbix_regular_expression resource. Expression order is significant; the
// first failing expression stops evaluation on the server.
type RegularExpressionModel struct {
	ID          types.String            `tfsdk:"id"`
	Name        types.String            `tfsdk:"name"`
	TestString  types.String            `tfsdk:"test_string"`
	Expressions []RegexpExpressionModel `tfsdk:"expressions"`
}

// RegexpExpressionModel is one pattern inside a global regular expression.
type RegexpExpressionModel struct {
	Expression     types.String `tfsdk:"expression"`
	ExpressionType types.String `tfsdk:"expression_type"`
	ExpDelimiter   types.String `tfsdk:"exp_delimiter"`
	CaseSensitive  types.Bool   `tfsdk:"case_sensitive"`
}

// BuildRegexpParams assembles the write payload. The delimiter is
// normalized per expression: defaulted for the delimited-list type, dropped
// entirely everywhere else since the server ignores it there.
func (m RegularExpressionModel) BuildRegexpParams() (client.RegularExpressionParams, diag.Diagnostics) {
	var diags diag.Diagnostics

	params := client.RegularExpressionParams{
		Name:       m.Name.ValueString(),
		TestString: stringOr(m.TestString, ""),
	}
	params.Expressions = make([]client.RegexpExpression, 0, len(m.Expressions))
	for _, e := range m.Expressions {
		expr := client.RegexpExpression{
			Expression:     e.Expression.ValueString(),
			ExpressionType: wire.RegexpExpressionType.MustEncode(e.ExpressionType.ValueString()),
			CaseSensitive:  wire.Bool(e.CaseSensitive.ValueBool()),
		}
		if expr.ExpressionType == delimitedExpressionType {
			expr.ExpDelimiter = stringOr(e.ExpDelimiter, DefaultExpDelimiter)
		} else if !e.ExpDelimiter.IsNull() && e.ExpDelimiter.ValueString() != "" {
			diags.AddWarning(
				"Delimiter Ignored",
				"exp_delimiter only applies to any_character_string_included expressions; the configured delimiter is ignored.",
			)
		}
		params.Expressions = append(params.Expressions, expr)
	}

	return params, diags
}

// RefreshRegexpExpressions rebuilds the expressions list from the server
// object. Optional sub-attributes follow the tracked-only refresh rule:
// case_sensitive and exp_delimiter are refreshed only when the prior state
// element tracks them, so a configuration that leaves them to the server
// default keeps them null. Elements without a prior counterpart (import)
// are populated in full.
func RefreshRegexpExpressions(prior []RegexpExpressionModel, current []client.RegexpExpression) []RegexpExpressionModel {
	out := make([]RegexpExpressionModel, 0, len(current))
	for i, e := range current {
		expr := RegexpExpressionModel{
			Expression:     types.StringValue(e.Expression),
			ExpressionType: types.StringNull(),
			ExpDelimiter:   types.StringNull(),
			CaseSensitive:  types.BoolNull(),
		}
		if name, err := wire.RegexpExpressionType.Decode(e.ExpressionType); err == nil {
			expr.ExpressionType = types.StringValue(name)
		}
		fresh := i >= len(prior)
		if fresh || !prior[i].CaseSensitive.IsNull() {
			expr.CaseSensitive = types.BoolValue(e.CaseSensitive == "1")
		}
		if (fresh || !prior[i].ExpDelimiter.IsNull()) && e.ExpDelimiter != "" {
			expr.ExpDelimiter = types.StringValue(e.ExpDelimiter)
		}
		out = append(out, expr)
	}
	return out
}

// RegexpChanged reports whether the desired state differs from the current
// object. The expression list compares in order after delimiter
// normalization on both sides.
func RegexpChanged(current *client.RegularExpression, desired client.RegularExpressionParams) bool {
	if current.Name != desired.Name || current.TestString != desired.TestString {
		return true
	}
	return !slices.Equal(
		normalizeExpressions(current.Expressions),
		normalizeExpressions(desired.Expressions),
	)
}

func normalizeExpressions(exprs []client.RegexpExpression) []client.RegexpExpression {
	out := slices.Clone(exprs)
	for i := range out {
		if out[i].ExpressionType == delimitedExpressionType {
			if out[i].ExpDelimiter == "" {
				out[i].ExpDelimiter = DefaultExpDelimiter
			}
		} else {
			out[i].ExpDelimiter = ""
		}
	}
	return out
}
