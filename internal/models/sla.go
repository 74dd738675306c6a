package models

import (
	"sort"
	"strconv"

	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"golang.org/x/exp/slices"

	"github.com/netwatch-labs/terraform-provider-zabbix/internal/client"
	"github.com/netwatch-labs/terraform-provider-zabbix/internal/wire"
)

// SLAModel represents the Terraform state for the zabbix_sla resource.
type SLAModel struct {
	ID            types.String  `tfsdk:"id"`
	Name          types.String  `tfsdk:"name"`
	Period        types.String  `tfsdk:"period"`
	SLO           types.Float64 `tfsdk:"slo"`
	EffectiveDate types.Int64   `tfsdk:"effective_date"`
	Timezone      types.String  `tfsdk:"timezone"`
	Status        types.String  `tfsdk:"status"`
	Description   types.String  `tfsdk:"description"`

	ServiceTags       []SLAServiceTagModel       `tfsdk:"service_tags"`
	Schedule          []SLAScheduleModel         `tfsdk:"schedule"`
	ExcludedDowntimes []SLAExcludedDowntimeModel `tfsdk:"excluded_downtimes"`
}

// SLAServiceTagModel selects the services the SLA measures.
type SLAServiceTagModel struct {
	Tag      types.String `tfsdk:"tag"`
	Operator types.String `tfsdk:"operator"`
	Value    types.String `tfsdk:"value"`
}

// SLAScheduleModel is one weekly uptime window in seconds from the start of
// the week.
type SLAScheduleModel struct {
	PeriodFrom types.Int64 `tfsdk:"period_from"`
	PeriodTo   types.Int64 `tfsdk:"period_to"`
}

// SLAExcludedDowntimeModel is one named planned outage excluded from the
// calculation.
type SLAExcludedDowntimeModel struct {
	Name       types.String `tfsdk:"name"`
	PeriodFrom types.Int64  `tfsdk:"period_from"`
	PeriodTo   types.Int64  `tfsdk:"period_to"`
}

// BuildSLAParams assembles the write payload with enumerations encoded.
func (m SLAModel) BuildSLAParams() (client.SLAParams, diag.Diagnostics) {
	var diags diag.Diagnostics

	params := client.SLAParams{
		Name:          m.Name.ValueString(),
		Period:        wire.SLAPeriod.MustEncode(m.Period.ValueString()),
		SLO:           strconv.FormatFloat(m.SLO.ValueFloat64(), 'f', -1, 64),
		EffectiveDate: m.EffectiveDate.ValueInt64(),
		Timezone:      stringOr(m.Timezone, "UTC"),
		Status:        wire.SLAStatus.MustEncode(stringOr(m.Status, "enabled")),
		Description:   stringOr(m.Description, ""),
	}

	params.ServiceTags = make([]client.SLAServiceTag, 0, len(m.ServiceTags))
	for _, t := range m.ServiceTags {
		params.ServiceTags = append(params.ServiceTags, client.SLAServiceTag{
			Tag:      t.Tag.ValueString(),
			Operator: wire.SLAServiceTagOperator.MustEncode(stringOr(t.Operator, "equals")),
			Value:    stringOr(t.Value, ""),
		})
	}
	if len(m.Schedule) > 0 {
		params.Schedule = make([]client.SLASchedule, 0, len(m.Schedule))
		for _, s := range m.Schedule {
			params.Schedule = append(params.Schedule, client.SLASchedule{
				PeriodFrom: s.PeriodFrom.ValueInt64(),
				PeriodTo:   s.PeriodTo.ValueInt64(),
			})
		}
	}
	if len(m.ExcludedDowntimes) > 0 {
		params.ExcludedDowntimes = make([]client.SLAExcludedDowntime, 0, len(m.ExcludedDowntimes))
		for _, d := range m.ExcludedDowntimes {
			params.ExcludedDowntimes = append(params.ExcludedDowntimes, client.SLAExcludedDowntime{
				Name:       d.Name.ValueString(),
				PeriodFrom: d.PeriodFrom.ValueInt64(),
				PeriodTo:   d.PeriodTo.ValueInt64(),
			})
		}
	}

	return params, diags
}

// SLAChanged reports whether the desired state differs from the current
// object. The three list attributes compare order-insensitively.
func SLAChanged(current *client.SLA, desired client.SLAParams) bool {
	if current.Name != desired.Name ||
		current.Period != desired.Period ||
		!equalSLO(current.SLO, desired.SLO) ||
		current.Timezone != desired.Timezone ||
		current.Status != desired.Status ||
		current.Description != desired.Description {
		return true
	}
	if current.EffectiveDate != strconv.FormatInt(desired.EffectiveDate, 10) {
		return true
	}
	if !equalServiceTags(current.ServiceTags, desired.ServiceTags) {
		return true
	}
	if !equalSchedules(current.Schedule, desired.Schedule) {
		return true
	}
	return !equalDowntimes(current.ExcludedDowntimes, desired.ExcludedDowntimes)
}

// equalSLO compares objectives numerically; the API pads the stored value
// with trailing zeros.
func equalSLO(a, b string) bool {
	af, errA := strconv.ParseFloat(a, 64)
	bf, errB := strconv.ParseFloat(b, 64)
	if errA != nil || errB != nil {
		return a == b
	}
	return af == bf
}

func equalServiceTags(a, b []client.SLAServiceTag) bool {
	if len(a) != len(b) {
		return false
	}
	key := func(t client.SLAServiceTag) string { return t.Tag + "\x00" + t.Operator + "\x00" + t.Value }
	as, bs := slices.Clone(a), slices.Clone(b)
	sort.Slice(as, func(i, j int) bool { return key(as[i]) < key(as[j]) })
	sort.Slice(bs, func(i, j int) bool { return key(bs[i]) < key(bs[j]) })
	return slices.Equal(as, bs)
}

func equalSchedules(a, b []client.SLASchedule) bool {
	if len(a) != len(b) {
		return false
	}
	less := func(s []client.SLASchedule) func(i, j int) bool {
		return func(i, j int) bool {
			if s[i].PeriodFrom != s[j].PeriodFrom {
				return s[i].PeriodFrom < s[j].PeriodFrom
			}
			return s[i].PeriodTo < s[j].PeriodTo
		}
	}
	as, bs := slices.Clone(a), slices.Clone(b)
	sort.Slice(as, less(as))
	sort.Slice(bs, less(bs))
	return slices.Equal(as, bs)
}

func equalDowntimes(a, b []client.SLAExcludedDowntime) bool {
	if len(a) != len(b) {
		return false
	}
	less := func(s []client.SLAExcludedDowntime) func(i, j int) bool {
		return func(i, j int) bool {
			if s[i].Name != s[j].Name {
				return s[i].Name < s[j].Name
			}
			return s[i].PeriodFrom < s[j].PeriodFrom
		}
	}
	as, bs := slices.Clone(a), slices.Clone(b)
	sort.Slice(as, less(as))
	sort.Slice(bs, less(bs))
	return slices.Equal(as, bs)
}
