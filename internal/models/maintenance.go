package models

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"golang.org/x/exp/slices"

	"github.com/netwatch-labs/terraform-provider-zabbix/internal/client"
	"github.com/netwatch-labs/terraform-provider-zabbix/internal/wire"
)

// ClockLayout is the wall-clock format accepted for maintenance window
// bounds. Seconds are not representable, so bounds are implicitly rounded
// down to the minute.
const ClockLayout = "2006-01-02 15:04"

// DefaultDescription is applied when no description is configured.
const DefaultDescription = "Managed by Terraform"

// MaintenanceWindowModel represents the Terraform state for the
// zabbix_maintenance_window resource.
type MaintenanceWindowModel struct {
	ID          types.String `tfsdk:"id"`
	Name        types.String `tfsdk:"name"`
	Description types.String `tfsdk:"description"`

	// CollectData selects whether monitoring data keeps flowing during
	// the window. Problem tags may only be set while data is collected.
	CollectData types.Bool `tfsdk:"collect_data"`

	// Window bounds: either both clock timestamps, or a duration in
	// minutes counted from the moment of the apply.
	ActiveSince types.String `tfsdk:"active_since"`
	ActiveTill  types.String `tfsdk:"active_till"`
	Minutes     types.Int64  `tfsdk:"minutes"`

	HostGroups types.List `tfsdk:"host_groups"`
	Hosts      types.List `tfsdk:"hosts"`

	// VisibleName selects whether host references use the visible name
	// or the technical host name.
	VisibleName types.Bool `tfsdk:"visible_name"`

	// Append merges the configured hosts and groups into the window's
	// current assignment on update instead of replacing it.
	Append types.Bool `tfsdk:"append"`

	Tags []MaintenanceTagModel `tfsdk:"tags"`
}

// MaintenanceTagModel is one problem tag filter on a maintenance window.
type MaintenanceTagModel struct {
	Tag      types.String `tfsdk:"tag"`
	Operator types.String `tfsdk:"operator"`
	Value    types.String `tfsdk:"value"`
}

// ComputeWindow derives the epoch-second window bounds. Explicit bounds are
// parsed as local wall-clock time; otherwise the window runs for minutes
// starting at now, rounded down to the minute.
func ComputeWindow(activeSince, activeTill string, minutes int64, now time.Time) (int64, int64, error) {
	if activeSince != "" && activeTill != "" {
		since, err := time.ParseInLocation(ClockLayout, activeSince, time.Local)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid active_since %q: expected format %q", activeSince, ClockLayout)
		}
		till, err := time.ParseInLocation(ClockLayout, activeTill, time.Local)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid active_till %q: expected format %q", activeTill, ClockLayout)
		}
		if !till.After(since) {
			return 0, 0, fmt.Errorf("active_till %q is not after active_since %q", activeTill, activeSince)
		}
		return since.Unix(), till.Unix(), nil
	}
	if minutes <= 0 {
		return 0, 0, fmt.Errorf("either active_since and active_till or a positive minutes duration is required")
	}
	since := now.Truncate(time.Minute).Unix()
	return since, since + minutes*60, nil
}

// BuildMaintenanceParams assembles the write payload from the configured
// state and the already-resolved host and group ids. Validation that depends
// on value combinations rather than single attributes happens here, before
// any remote call.
func (m MaintenanceWindowModel) BuildMaintenanceParams(groupIDs, hostIDs []string, now time.Time) (client.MaintenanceParams, diag.Diagnostics) {
	var diags diag.Diagnostics

	collectData := true
	if !m.CollectData.IsNull() && !m.CollectData.IsUnknown() {
		collectData = m.CollectData.ValueBool()
	}
	if !collectData && len(m.Tags) > 0 {
		diags.AddError(
			"Invalid Maintenance Window Configuration",
			"Problem tags can only be used when collect_data is true; a maintenance window without data collection suppresses all problems.",
		)
		return client.MaintenanceParams{}, diags
	}

	since, till, err := ComputeWindow(
		stringOr(m.ActiveSince, ""),
		stringOr(m.ActiveTill, ""),
		m.Minutes.ValueInt64(),
		now,
	)
	if err != nil {
		diags.AddError("Invalid Maintenance Window Configuration", err.Error())
		return client.MaintenanceParams{}, diags
	}

	maintenanceType := "0"
	if !collectData {
		maintenanceType = "1"
	}

	tags := make([]client.MaintenanceTag, 0, len(m.Tags))
	for _, t := range m.Tags {
		tags = append(tags, client.MaintenanceTag{
			Tag:      t.Tag.ValueString(),
			Operator: wire.MaintenanceTagOperator.MustEncode(stringOr(t.Operator, "contains")),
			Value:    stringOr(t.Value, ""),
		})
	}

	return client.MaintenanceParams{
		Name:            m.Name.ValueString(),
		Description:     stringOr(m.Description, DefaultDescription),
		MaintenanceType: maintenanceType,
		ActiveSince:     since,
		ActiveTill:      till,
		GroupIDs:        groupIDs,
		HostIDs:         hostIDs,
		Tags:            tags,
	}, diags
}

// MaintenanceChanged reports whether the desired state differs from the
// current object. Host and group id lists compare order-insensitively, tags
// compare sorted by tag name.
func MaintenanceChanged(current *client.Maintenance, desired client.MaintenanceParams) bool {
	if current.Name != desired.Name {
		return true
	}
	if !EqualUnordered(current.GroupIDs, desired.GroupIDs) {
		return true
	}
	if !EqualUnordered(current.HostIDs, desired.HostIDs) {
		return true
	}
	if current.MaintenanceType != desired.MaintenanceType {
		return true
	}
	if current.ActiveSince != strconv.FormatInt(desired.ActiveSince, 10) {
		return true
	}
	if current.ActiveTill != strconv.FormatInt(desired.ActiveTill, 10) {
		return true
	}
	if current.Description != desired.Description {
		return true
	}
	return !equalMaintenanceTags(current.Tags, desired.Tags)
}

func equalMaintenanceTags(a, b []client.MaintenanceTag) bool {
	if len(a) != len(b) {
		return false
	}
	as := sortedMaintenanceTags(a)
	bs := sortedMaintenanceTags(b)
	return slices.Equal(as, bs)
}

func sortedMaintenanceTags(tags []client.MaintenanceTag) []client.MaintenanceTag {
	out := slices.Clone(tags)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tag != out[j].Tag {
			return out[i].Tag < out[j].Tag
		}
		return out[i].Value < out[j].Value
	})
	return out
}
