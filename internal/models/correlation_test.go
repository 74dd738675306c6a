package models

import (
	"context"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/netwatch-labs/terraform-provider-zabbix/internal/client"
)

func correlationModel() EventCorrelationModel {
	operations, _ := types.ListValueFrom(context.Background(), types.StringType, []string{"close_old_events"})
	return EventCorrelationModel{
		Name:     types.StringValue("Close resolved"),
		Status:   types.StringValue("enabled"),
		EvalType: types.StringValue("and_or"),
		Conditions: []CorrelationConditionModel{
			{Type: types.StringValue("old_event_tag"), Tag: types.StringValue("service")},
			{Type: types.StringValue("new_event_tag"), Tag: types.StringValue("resolved")},
		},
		Operations: operations,
	}
}

func TestBuildCorrelationParams(t *testing.T) {
	ctx := context.Background()

	t.Run("tag conditions", func(t *testing.T) {
		params, diags := correlationModel().BuildCorrelationParams(ctx, nil)
		if diags.HasError() {
			t.Fatalf("BuildCorrelationParams() diagnostics: %v", diags)
		}
		if params.Filter.EvalType != "0" {
			t.Errorf("evaltype = %q, want %q (and_or)", params.Filter.EvalType, "0")
		}
		if len(params.Filter.Conditions) != 2 {
			t.Fatalf("conditions = %d, want 2", len(params.Filter.Conditions))
		}
		if params.Filter.Conditions[0].Type != "0" || params.Filter.Conditions[0].Tag != "service" {
			t.Errorf("condition[0] = %+v, want old_event_tag service", params.Filter.Conditions[0])
		}
		if len(params.Operations) != 1 || params.Operations[0].Type != "0" {
			t.Errorf("operations = %+v, want close_old_events (0)", params.Operations)
		}
	})

	t.Run("host group condition resolves id", func(t *testing.T) {
		m := correlationModel()
		m.Conditions = []CorrelationConditionModel{
			{
				Type:      types.StringValue("new_event_host_group"),
				HostGroup: types.StringValue("Linux servers"),
				Operator:  types.StringValue("not_equal"),
			},
		}
		params, diags := m.BuildCorrelationParams(ctx, map[string]string{"Linux servers": "2"})
		if diags.HasError() {
			t.Fatalf("BuildCorrelationParams() diagnostics: %v", diags)
		}
		cond := params.Filter.Conditions[0]
		if cond.GroupID != "2" || cond.Operator != "1" {
			t.Errorf("condition = %+v, want groupid=2 operator=1", cond)
		}
	})

	t.Run("host group condition rejects contains", func(t *testing.T) {
		// Rejected before any remote call is attempted.
		m := correlationModel()
		m.Conditions = []CorrelationConditionModel{
			{
				Type:      types.StringValue("new_event_host_group"),
				HostGroup: types.StringValue("Linux servers"),
				Operator:  types.StringValue("like"),
			},
		}
		if _, diags := m.BuildCorrelationParams(ctx, map[string]string{"Linux servers": "2"}); !diags.HasError() {
			t.Error("BuildCorrelationParams() accepted a like operator on a host group condition")
		}
	})

	t.Run("custom expression requires formula", func(t *testing.T) {
		m := correlationModel()
		m.EvalType = types.StringValue("custom_expression")
		if _, diags := m.BuildCorrelationParams(ctx, nil); !diags.HasError() {
			t.Error("BuildCorrelationParams() accepted custom_expression without formula")
		}
	})

	t.Run("custom expression requires condition formula ids", func(t *testing.T) {
		m := correlationModel()
		m.EvalType = types.StringValue("custom_expression")
		m.Formula = types.StringValue("A and B")
		if _, diags := m.BuildCorrelationParams(ctx, nil); !diags.HasError() {
			t.Error("BuildCorrelationParams() accepted custom_expression without condition formula_ids")
		}
	})

	t.Run("custom expression carries formula and ids", func(t *testing.T) {
		m := correlationModel()
		m.EvalType = types.StringValue("custom_expression")
		m.Formula = types.StringValue("A and B")
		m.Conditions[0].FormulaID = types.StringValue("A")
		m.Conditions[1].FormulaID = types.StringValue("B")
		params, diags := m.BuildCorrelationParams(ctx, nil)
		if diags.HasError() {
			t.Fatalf("BuildCorrelationParams() diagnostics: %v", diags)
		}
		if params.Filter.Formula != "A and B" {
			t.Errorf("formula = %q, want %q", params.Filter.Formula, "A and B")
		}
		if params.Filter.Conditions[0].FormulaID != "A" {
			t.Errorf("condition[0].FormulaID = %q, want A", params.Filter.Conditions[0].FormulaID)
		}
	})

	t.Run("formula under other evaltype warns and is dropped", func(t *testing.T) {
		m := correlationModel()
		m.Formula = types.StringValue("A and B")
		params, diags := m.BuildCorrelationParams(ctx, nil)
		if diags.HasError() {
			t.Fatalf("BuildCorrelationParams() diagnostics: %v", diags)
		}
		if params.Filter.Formula != "" {
			t.Errorf("formula = %q, want empty outside custom_expression", params.Filter.Formula)
		}
		if diags.WarningsCount() == 0 {
			t.Error("expected a warning for the ignored formula")
		}
	})
}

func baselineCorrelation() (*client.Correlation, client.CorrelationParams) {
	current := &client.Correlation{
		ID:     "1",
		Name:   "Close resolved",
		Status: "0",
		Filter: client.CorrelationFilter{
			EvalType: "0",
			Conditions: []client.CorrelationCondition{
				// The server assigns formula ids even outside custom
				// expression mode.
				{Type: "1", Tag: "resolved", FormulaID: "B"},
				{Type: "0", Tag: "service", FormulaID: "A"},
			},
		},
		Operations: []client.CorrelationOperation{{Type: "0"}},
	}
	desired := client.CorrelationParams{
		Name:   "Close resolved",
		Status: "0",
		Filter: client.CorrelationFilter{
			EvalType: "0",
			Conditions: []client.CorrelationCondition{
				{Type: "0", Tag: "service"},
				{Type: "1", Tag: "resolved"},
			},
		},
		Operations: []client.CorrelationOperation{{Type: "0"}},
	}
	return current, desired
}

func TestCorrelationChanged(t *testing.T) {
	t.Run("identical state is unchanged", func(t *testing.T) {
		// Server-assigned formula ids and condition order must not
		// register as drift outside custom expression mode.
		current, desired := baselineCorrelation()
		if CorrelationChanged(current, desired) {
			t.Error("CorrelationChanged() = true for matching state")
		}
	})

	tests := []struct {
		name   string
		mutate func(*client.CorrelationParams)
	}{
		{"evaltype differs", func(p *client.CorrelationParams) { p.Filter.EvalType = "1" }},
		{"status differs", func(p *client.CorrelationParams) { p.Status = "1" }},
		{"description differs", func(p *client.CorrelationParams) { p.Description = "changed" }},
		{"condition added", func(p *client.CorrelationParams) {
			p.Filter.Conditions = append(p.Filter.Conditions, client.CorrelationCondition{Type: "3", OldTag: "a", NewTag: "b"})
		}},
		{"condition tag differs", func(p *client.CorrelationParams) {
			p.Filter.Conditions[0].Tag = "other"
		}},
		{"operations differ", func(p *client.CorrelationParams) {
			p.Operations = []client.CorrelationOperation{{Type: "1"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, desired := baselineCorrelation()
			tt.mutate(&desired)
			if !CorrelationChanged(current, desired) {
				t.Error("CorrelationChanged() = false, want true")
			}
		})
	}

	t.Run("conditions distinct only by formula id compare in either order", func(t *testing.T) {
		// Identical conditions carrying different formula ids must sort
		// deterministically; sort.Slice is unstable and a key that ties on
		// them can order the two sides differently.
		current, desired := baselineCorrelation()
		current.Filter.EvalType = "3"
		current.Filter.Formula = "A or B"
		current.Filter.Conditions = []client.CorrelationCondition{
			{Type: "0", Tag: "service", FormulaID: "B"},
			{Type: "0", Tag: "service", FormulaID: "A"},
		}
		desired.Filter.EvalType = "3"
		desired.Filter.Formula = "A or B"
		desired.Filter.Conditions = []client.CorrelationCondition{
			{Type: "0", Tag: "service", FormulaID: "A"},
			{Type: "0", Tag: "service", FormulaID: "B"},
		}
		if CorrelationChanged(current, desired) {
			t.Error("CorrelationChanged() = true for reordered formula ids")
		}
	})

	t.Run("formula compared under custom expression", func(t *testing.T) {
		current, desired := baselineCorrelation()
		current.Filter.EvalType = "3"
		current.Filter.Formula = "A and B"
		desired.Filter.EvalType = "3"
		desired.Filter.Formula = "A or B"
		desired.Filter.Conditions[0].FormulaID = "A"
		desired.Filter.Conditions[1].FormulaID = "B"
		if !CorrelationChanged(current, desired) {
			t.Error("CorrelationChanged() = false for differing formula")
		}
	})
}

func TestHostGroupConditionNames(t *testing.T) {
	m := correlationModel()
	m.Conditions = append(m.Conditions, CorrelationConditionModel{
		Type:      types.StringValue("new_event_host_group"),
		HostGroup: types.StringValue("Linux servers"),
	})
	names := m.HostGroupConditionNames()
	if len(names) != 1 || names[0] != "Linux servers" {
		t.Errorf("HostGroupConditionNames() = %v, want [Linux servers]", names)
	}
}
