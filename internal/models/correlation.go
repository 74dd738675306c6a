package models

import (
	"context"
	"sort"

	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"golang.org/x/exp/slices"

	"github.com/netwatch-labs/terraform-provider-zabbix/internal/client"
	"github.com/netwatch-labs/terraform-provider-zabbix/internal/wire"
)

// EventCorrelationModel represents the Terraform state for the
// zabbix_event_correlation resource.
type EventCorrelationModel struct {
	ID          types.String `tfsdk:"id"`
	Name        types.String `tfsdk:"name"`
	Description types.String `tfsdk:"description"`
	Status      types.String `tfsdk:"status"`

	EvalType types.String `tfsdk:"eval_type"`

	// Formula is the free-form boolean expression over condition ids,
	// only meaningful when eval_type is custom_expression.
	Formula types.String `tfsdk:"formula"`

	Conditions []CorrelationConditionModel `tfsdk:"conditions"`
	Operations types.List                  `tfsdk:"operations"`
}

// CorrelationConditionModel is one typed condition. The attribute subset
// that applies depends on type: tag conditions use tag, tag-value conditions
// use tag + operator + value, the tag-pair condition uses old_tag + new_tag,
// and the host-group condition uses host_group + operator.
type CorrelationConditionModel struct {
	Type      types.String `tfsdk:"type"`
	Tag       types.String `tfsdk:"tag"`
	OldTag    types.String `tfsdk:"old_tag"`
	NewTag    types.String `tfsdk:"new_tag"`
	Value     types.String `tfsdk:"value"`
	HostGroup types.String `tfsdk:"host_group"`
	Operator  types.String `tfsdk:"operator"`
	FormulaID types.String `tfsdk:"formula_id"`
}

// HostGroupConditionNames returns the host group names referenced by the
// conditions, for resolution before payload construction.
func (m EventCorrelationModel) HostGroupConditionNames() []string {
	var names []string
	for _, c := range m.Conditions {
		if c.Type.ValueString() == "new_event_host_group" {
			names = append(names, c.HostGroup.ValueString())
		}
	}
	return names
}

// BuildCorrelationParams assembles the write payload. groupIDs maps host
// group names to their resolved ids. Combination rules that the schema
// cannot express are enforced here, before any remote call: host-group
// conditions accept only the equality-family operators, and a formula or
// formula ids outside custom_expression mode are ignored with a warning.
func (m EventCorrelationModel) BuildCorrelationParams(ctx context.Context, groupIDs map[string]string) (client.CorrelationParams, diag.Diagnostics) {
	var diags diag.Diagnostics

	evalType := wire.CorrelationEvalType.MustEncode(m.EvalType.ValueString())
	customExpression := m.EvalType.ValueString() == "custom_expression"

	filter := client.CorrelationFilter{EvalType: evalType}

	if customExpression {
		if m.Formula.IsNull() || m.Formula.ValueString() == "" {
			diags.AddError(
				"Invalid Event Correlation Configuration",
				"eval_type custom_expression requires a formula referencing conditions by their formula_id.",
			)
			return client.CorrelationParams{}, diags
		}
		filter.Formula = m.Formula.ValueString()
	} else if !m.Formula.IsNull() && m.Formula.ValueString() != "" {
		diags.AddWarning(
			"Formula Ignored",
			"formula only applies when eval_type is custom_expression; the configured formula is ignored.",
		)
	}

	for _, c := range m.Conditions {
		condType := c.Type.ValueString()
		cond := client.CorrelationCondition{
			Type: wire.CorrelationConditionType.MustEncode(condType),
		}

		switch condType {
		case "old_event_tag", "new_event_tag":
			cond.Tag = c.Tag.ValueString()
		case "event_tag_pair":
			cond.OldTag = c.OldTag.ValueString()
			cond.NewTag = c.NewTag.ValueString()
		case "old_event_tag_value", "new_event_tag_value":
			cond.Tag = c.Tag.ValueString()
			cond.Value = stringOr(c.Value, "")
			cond.Operator = wire.CorrelationOperator.MustEncode(stringOr(c.Operator, "equal"))
		case "new_event_host_group":
			operator := stringOr(c.Operator, "equal")
			if operator != "equal" && operator != "not_equal" {
				diags.AddError(
					"Invalid Event Correlation Configuration",
					"host group conditions only support the equal and not_equal operators, got: "+operator+".",
				)
				return client.CorrelationParams{}, diags
			}
			groupID, ok := groupIDs[c.HostGroup.ValueString()]
			if !ok {
				diags.AddError(
					"Invalid Event Correlation Configuration",
					"host group "+c.HostGroup.ValueString()+" was not resolved before payload construction.",
				)
				return client.CorrelationParams{}, diags
			}
			cond.GroupID = groupID
			cond.Operator = wire.CorrelationOperator.MustEncode(operator)
		}

		if customExpression {
			if c.FormulaID.IsNull() || c.FormulaID.ValueString() == "" {
				diags.AddError(
					"Invalid Event Correlation Configuration",
					"every condition requires a formula_id when eval_type is custom_expression.",
				)
				return client.CorrelationParams{}, diags
			}
			cond.FormulaID = c.FormulaID.ValueString()
		} else if !c.FormulaID.IsNull() && c.FormulaID.ValueString() != "" {
			diags.AddWarning(
				"Formula ID Ignored",
				"formula_id only applies when eval_type is custom_expression; the server assigns ids otherwise.",
			)
		}

		filter.Conditions = append(filter.Conditions, cond)
	}

	operations, opDiags := ExpandStringList(ctx, m.Operations)
	diags.Append(opDiags...)
	if diags.HasError() {
		return client.CorrelationParams{}, diags
	}
	params := client.CorrelationParams{
		Name:        m.Name.ValueString(),
		Description: stringOr(m.Description, ""),
		Status:      wire.CorrelationStatus.MustEncode(stringOr(m.Status, "enabled")),
		Filter:      filter,
	}
	for _, op := range operations {
		params.Operations = append(params.Operations, client.CorrelationOperation{
			Type: wire.CorrelationOperationType.MustEncode(op),
		})
	}

	return params, diags
}

// CorrelationChanged reports whether the desired state differs from the
// current rule. Conditions compare order-insensitively; outside custom
// expression mode the server assigns formula ids on its own, so they are
// stripped before comparison.
func CorrelationChanged(current *client.Correlation, desired client.CorrelationParams) bool {
	if current.Name != desired.Name ||
		current.Description != desired.Description ||
		current.Status != desired.Status {
		return true
	}
	if current.Filter.EvalType != desired.Filter.EvalType {
		return true
	}
	customExpression := desired.Filter.EvalType == wire.CorrelationEvalType.MustEncode("custom_expression")
	if customExpression && current.Filter.Formula != desired.Filter.Formula {
		return true
	}
	if !equalConditions(current.Filter.Conditions, desired.Filter.Conditions, customExpression) {
		return true
	}
	return !equalOperations(current.Operations, desired.Operations)
}

func equalConditions(a, b []client.CorrelationCondition, keepFormulaIDs bool) bool {
	if len(a) != len(b) {
		return false
	}
	as := normalizeConditions(a, keepFormulaIDs)
	bs := normalizeConditions(b, keepFormulaIDs)
	return slices.Equal(as, bs)
}

func normalizeConditions(conds []client.CorrelationCondition, keepFormulaIDs bool) []client.CorrelationCondition {
	out := slices.Clone(conds)
	if !keepFormulaIDs {
		for i := range out {
			out[i].FormulaID = ""
		}
	}
	key := func(c client.CorrelationCondition) string {
		k := c.Type + "\x00" + c.Tag + "\x00" + c.OldTag + "\x00" + c.NewTag + "\x00" +
			c.Value + "\x00" + c.GroupID + "\x00" + c.Operator
		if keepFormulaIDs {
			// Conditions identical up to their formula id must still sort
			// deterministically on both sides of the comparison.
			k += "\x00" + c.FormulaID
		}
		return k
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}

func equalOperations(a, b []client.CorrelationOperation) bool {
	if len(a) != len(b) {
		return false
	}
	as, bs := slices.Clone(a), slices.Clone(b)
	sort.Slice(as, func(i, j int) bool { return as[i].Type < as[j].Type })
	sort.Slice(bs, func(i, j int) bool { return bs[i].Type < bs[j].Type })
	return slices.Equal(as, bs)
}
