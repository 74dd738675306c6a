package models

import (
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/netwatch-labs/terraform-provider-zabbix/internal/client"
)

func baselineSLA() (*client.SLA, client.SLAParams) {
	current := &client.SLA{
		ID:            "19",
		Name:          "Office hours",
		Period:        "1",
		SLO:           "99.9000",
		EffectiveDate: "1704067200",
		Timezone:      "Europe/Riga",
		Status:        "1",
		Description:   "Business hours uptime",
		ServiceTags: []client.SLAServiceTag{
			{Tag: "team", Operator: "0", Value: "db"},
			{Tag: "tier", Operator: "0", Value: "1"},
		},
		Schedule: []client.SLASchedule{
			{PeriodFrom: 32400, PeriodTo: 61200},
			{PeriodFrom: 118800, PeriodTo: 147600},
		},
		ExcludedDowntimes: []client.SLAExcludedDowntime{
			{Name: "Quarterly patching", PeriodFrom: 1706400000, PeriodTo: 1706407200},
		},
	}
	desired := client.SLAParams{
		Name:          "Office hours",
		Period:        "1",
		SLO:           "99.9",
		EffectiveDate: 1704067200,
		Timezone:      "Europe/Riga",
		Status:        "1",
		Description:   "Business hours uptime",
		ServiceTags: []client.SLAServiceTag{
			{Tag: "tier", Operator: "0", Value: "1"},
			{Tag: "team", Operator: "0", Value: "db"},
		},
		Schedule: []client.SLASchedule{
			{PeriodFrom: 118800, PeriodTo: 147600},
			{PeriodFrom: 32400, PeriodTo: 61200},
		},
		ExcludedDowntimes: []client.SLAExcludedDowntime{
			{Name: "Quarterly patching", PeriodFrom: 1706400000, PeriodTo: 1706407200},
		},
	}
	return current, desired
}

func TestSLAChanged(t *testing.T) {
	t.Run("identical state is unchanged", func(t *testing.T) {
		// List order and SLO trailing zeros must not register as drift.
		current, desired := baselineSLA()
		if SLAChanged(current, desired) {
			t.Error("SLAChanged() = true for matching state")
		}
	})

	tests := []struct {
		name   string
		mutate func(*client.SLAParams)
	}{
		{"period differs", func(p *client.SLAParams) { p.Period = "2" }},
		{"slo differs", func(p *client.SLAParams) { p.SLO = "99.99" }},
		{"effective date differs", func(p *client.SLAParams) { p.EffectiveDate = 1704153600 }},
		{"timezone differs", func(p *client.SLAParams) { p.Timezone = "UTC" }},
		{"status differs", func(p *client.SLAParams) { p.Status = "0" }},
		{"description differs", func(p *client.SLAParams) { p.Description = "changed" }},
		{"service tag added", func(p *client.SLAParams) {
			p.ServiceTags = append(p.ServiceTags, client.SLAServiceTag{Tag: "env", Operator: "0", Value: "prod"})
		}},
		{"schedule window differs", func(p *client.SLAParams) {
			p.Schedule[0].PeriodTo = 150000
		}},
		{"downtime renamed", func(p *client.SLAParams) {
			p.ExcludedDowntimes[0].Name = "Monthly patching"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, desired := baselineSLA()
			tt.mutate(&desired)
			if !SLAChanged(current, desired) {
				t.Error("SLAChanged() = false, want true")
			}
		})
	}
}

func TestBuildSLAParams(t *testing.T) {
	m := SLAModel{
		Name:          types.StringValue("Office hours"),
		Period:        types.StringValue("weekly"),
		SLO:           types.Float64Value(99.9),
		EffectiveDate: types.Int64Value(1704067200),
		Timezone:      types.StringValue("Europe/Riga"),
		Status:        types.StringValue("enabled"),
		ServiceTags: []SLAServiceTagModel{
			{Tag: types.StringValue("team"), Value: types.StringValue("db")},
		},
		Schedule: []SLAScheduleModel{
			{PeriodFrom: types.Int64Value(32400), PeriodTo: types.Int64Value(61200)},
		},
	}

	params, diags := m.BuildSLAParams()
	if diags.HasError() {
		t.Fatalf("BuildSLAParams() diagnostics: %v", diags)
	}
	if params.Period != "1" {
		t.Errorf("period = %q, want %q (weekly)", params.Period, "1")
	}
	if params.SLO != "99.9" {
		t.Errorf("slo = %q, want %q", params.SLO, "99.9")
	}
	if params.Status != "1" {
		t.Errorf("status = %q, want %q (enabled)", params.Status, "1")
	}
	// The tag operator defaults to equals.
	if params.ServiceTags[0].Operator != "0" {
		t.Errorf("service tag operator = %q, want %q", params.ServiceTags[0].Operator, "0")
	}
}

func TestBuildSLAParams_Defaults(t *testing.T) {
	m := SLAModel{
		Name:   types.StringValue("Office hours"),
		Period: types.StringValue("weekly"),
		SLO:    types.Float64Value(99.9),
	}
	params, diags := m.BuildSLAParams()
	if diags.HasError() {
		t.Fatalf("BuildSLAParams() diagnostics: %v", diags)
	}
	if params.Timezone != "UTC" {
		t.Errorf("timezone = %q, want default UTC", params.Timezone)
	}
	if params.Status != "1" {
		t.Errorf("status = %q, want default enabled (1)", params.Status)
	}
	if params.Schedule != nil {
		t.Errorf("schedule = %v, want nil so the server keeps 24x7", params.Schedule)
	}
}
