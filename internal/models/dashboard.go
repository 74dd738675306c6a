package models

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/netwatch-labs/terraform-provider-zabbix/internal/client"
	"github.com/netwatch-labs/terraform-provider-zabbix/internal/wire"
)

// ReferenceResolver resolves human-readable object names to the ids embedded
// in dashboard widget fields. *client.Client implements it; tests substitute
// a fake.
type ReferenceResolver interface {
	HostGroupID(ctx context.Context, name string) (string, error)
	HostID(ctx context.Context, name string, byVisibleName bool) (string, error)
	ItemID(ctx context.Context, key, hostName string) (string, error)
	ItemPrototypeID(ctx context.Context, key, hostName string) (string, error)
	GraphID(ctx context.Context, name, hostName string) (string, error)
	GraphPrototypeID(ctx context.Context, name, hostName string) (string, error)
	SysmapID(ctx context.Context, name string) (string, error)
	ServiceID(ctx context.Context, name string) (string, error)
	SLAIDByName(ctx context.Context, name string) (string, error)
	UserID(ctx context.Context, username string) (string, error)
	ActionID(ctx context.Context, name string) (string, error)
	MediaTypeID(ctx context.Context, name string) (string, error)
}

// DashboardModel represents the Terraform state for the zabbix_dashboard
// resource.
type DashboardModel struct {
	ID            types.String `tfsdk:"id"`
	Name          types.String `tfsdk:"name"`
	Owner         types.String `tfsdk:"owner"`
	DisplayPeriod types.Int64  `tfsdk:"display_period"`
	AutoStart     types.Bool   `tfsdk:"auto_start"`
	Private       types.Bool   `tfsdk:"private"`

	Pages []DashboardPageModel `tfsdk:"pages"`
}

// DashboardPageModel is one ordered page of widgets.
type DashboardPageModel struct {
	Name          types.String           `tfsdk:"name"`
	DisplayPeriod types.Int64            `tfsdk:"display_period"`
	Widgets       []DashboardWidgetModel `tfsdk:"widgets"`
}

// DashboardWidgetModel is one widget placed on the page grid. Type is the
// widget kind string the frontend registers (clock, graph, problems, ...).
type DashboardWidgetModel struct {
	Type     types.String `tfsdk:"type"`
	Name     types.String `tfsdk:"name"`
	X        types.Int64  `tfsdk:"x"`
	Y        types.Int64  `tfsdk:"y"`
	Width    types.Int64  `tfsdk:"width"`
	Height   types.Int64  `tfsdk:"height"`
	ViewMode types.String `tfsdk:"view_mode"`

	Fields []WidgetFieldModel `tfsdk:"fields"`
}

// WidgetFieldModel is one typed widget parameter. Which companion attribute
// is required depends on type: literal types take value, item and graph
// types take value_key/value_name plus value_host, every other reference
// type takes value_name.
type WidgetFieldModel struct {
	Type      types.String `tfsdk:"type"`
	Name      types.String `tfsdk:"name"`
	Value     types.String `tfsdk:"value"`
	ValueName types.String `tfsdk:"value_name"`
	ValueKey  types.String `tfsdk:"value_key"`
	ValueHost types.String `tfsdk:"value_host"`
}

// widget field companion requirements, keyed by field type name
const (
	companionValue       = "value"
	companionKeyAndHost  = "value_key and value_host"
	companionNameAndHost = "value_name and value_host"
	companionName        = "value_name"
)

var widgetFieldCompanions = map[string]string{
	"integer":         companionValue,
	"string":          companionValue,
	"item":            companionKeyAndHost,
	"item_prototype":  companionKeyAndHost,
	"graph":           companionNameAndHost,
	"graph_prototype": companionNameAndHost,
	"host_group":      companionName,
	"host":            companionName,
	"map":             companionName,
	"service":         companionName,
	"sla":             companionName,
	"user":            companionName,
	"action":          companionName,
	"media_type":      companionName,
}

// ValidateWidgetFields enforces the type-to-companion table on every field
// of every widget, before any lookup call is made.
func (m DashboardModel) ValidateWidgetFields() diag.Diagnostics {
	var diags diag.Diagnostics
	for pi, page := range m.Pages {
		for wi, widget := range page.Widgets {
			for fi, field := range widget.Fields {
				if err := validateWidgetField(field); err != nil {
					diags.AddError(
						"Invalid Dashboard Widget Field",
						fmt.Sprintf("pages[%d].widgets[%d].fields[%d]: %s", pi, wi, fi, err),
					)
				}
			}
		}
	}
	return diags
}

func validateWidgetField(f WidgetFieldModel) error {
	fieldType := f.Type.ValueString()
	companion, ok := widgetFieldCompanions[fieldType]
	if !ok {
		return fmt.Errorf("unknown field type %q", fieldType)
	}

	has := func(v types.String) bool { return !v.IsNull() && v.ValueString() != "" }

	switch companion {
	case companionValue:
		if !has(f.Value) {
			return fmt.Errorf("field type %q requires value", fieldType)
		}
	case companionKeyAndHost:
		if !has(f.ValueKey) || !has(f.ValueHost) {
			return fmt.Errorf("field type %q requires %s", fieldType, companionKeyAndHost)
		}
	case companionNameAndHost:
		if !has(f.ValueName) || !has(f.ValueHost) {
			return fmt.Errorf("field type %q requires %s", fieldType, companionNameAndHost)
		}
	case companionName:
		if !has(f.ValueName) {
			return fmt.Errorf("field type %q requires value_name", fieldType)
		}
	}
	return nil
}

// BuildDashboardParams validates every widget field, resolves named
// references through the resolver and assembles the write payload. Page and
// widget order is preserved; the frontend renders pages in payload order.
func (m DashboardModel) BuildDashboardParams(ctx context.Context, resolver ReferenceResolver) (client.DashboardParams, diag.Diagnostics) {
	diags := m.ValidateWidgetFields()
	if diags.HasError() {
		return client.DashboardParams{}, diags
	}

	displayPeriod := int64(30)
	if !m.DisplayPeriod.IsNull() && !m.DisplayPeriod.IsUnknown() {
		displayPeriod = m.DisplayPeriod.ValueInt64()
	}
	autoStart := true
	if !m.AutoStart.IsNull() && !m.AutoStart.IsUnknown() {
		autoStart = m.AutoStart.ValueBool()
	}

	params := client.DashboardParams{
		Name:          m.Name.ValueString(),
		DisplayPeriod: strconv.FormatInt(displayPeriod, 10),
		AutoStart:     wire.Bool(autoStart),
		Private:       wire.Bool(m.Private.ValueBool()),
	}
	if !m.Owner.IsNull() && !m.Owner.IsUnknown() {
		userID, err := resolver.UserID(ctx, m.Owner.ValueString())
		if err != nil {
			diags.Append(client.MapError(err, "resolving dashboard owner"))
			return client.DashboardParams{}, diags
		}
		params.UserID = userID
	}

	for _, page := range m.Pages {
		p := client.DashboardPage{Name: stringOr(page.Name, "")}
		if !page.DisplayPeriod.IsNull() && !page.DisplayPeriod.IsUnknown() {
			p.DisplayPeriod = strconv.FormatInt(page.DisplayPeriod.ValueInt64(), 10)
		}
		for _, widget := range page.Widgets {
			w := client.DashboardWidget{
				Type:   widget.Type.ValueString(),
				Name:   stringOr(widget.Name, ""),
				X:      strconv.FormatInt(widget.X.ValueInt64(), 10),
				Y:      strconv.FormatInt(widget.Y.ValueInt64(), 10),
				Width:  strconv.FormatInt(widget.Width.ValueInt64(), 10),
				Height: strconv.FormatInt(widget.Height.ValueInt64(), 10),
			}
			if !widget.ViewMode.IsNull() && !widget.ViewMode.IsUnknown() {
				w.ViewMode = wire.WidgetViewMode.MustEncode(widget.ViewMode.ValueString())
			}
			for _, field := range widget.Fields {
				built, err := buildWidgetField(ctx, resolver, field)
				if err != nil {
					diags.Append(client.MapError(err, "resolving dashboard widget field references"))
					return client.DashboardParams{}, diags
				}
				w.Fields = append(w.Fields, built)
			}
			p.Widgets = append(p.Widgets, w)
		}
		params.Pages = append(params.Pages, p)
	}

	return params, diags
}

func buildWidgetField(ctx context.Context, resolver ReferenceResolver, f WidgetFieldModel) (client.WidgetField, error) {
	fieldType := f.Type.ValueString()
	built := client.WidgetField{
		Type: wire.WidgetFieldType.MustEncode(fieldType),
		Name: stringOr(f.Name, ""),
	}

	var (
		value string
		err   error
	)
	switch fieldType {
	case "integer", "string":
		value = f.Value.ValueString()
	case "item":
		value, err = resolver.ItemID(ctx, f.ValueKey.ValueString(), f.ValueHost.ValueString())
	case "item_prototype":
		value, err = resolver.ItemPrototypeID(ctx, f.ValueKey.ValueString(), f.ValueHost.ValueString())
	case "graph":
		value, err = resolver.GraphID(ctx, f.ValueName.ValueString(), f.ValueHost.ValueString())
	case "graph_prototype":
		value, err = resolver.GraphPrototypeID(ctx, f.ValueName.ValueString(), f.ValueHost.ValueString())
	case "host_group":
		value, err = resolver.HostGroupID(ctx, f.ValueName.ValueString())
	case "host":
		value, err = resolver.HostID(ctx, f.ValueName.ValueString(), true)
	case "map":
		value, err = resolver.SysmapID(ctx, f.ValueName.ValueString())
	case "service":
		value, err = resolver.ServiceID(ctx, f.ValueName.ValueString())
	case "sla":
		value, err = resolver.SLAIDByName(ctx, f.ValueName.ValueString())
	case "user":
		value, err = resolver.UserID(ctx, f.ValueName.ValueString())
	case "action":
		value, err = resolver.ActionID(ctx, f.ValueName.ValueString())
	case "media_type":
		value, err = resolver.MediaTypeID(ctx, f.ValueName.ValueString())
	}
	if err != nil {
		return client.WidgetField{}, err
	}
	built.Value = value
	return built, nil
}

// DashboardChanged reports whether the desired payload differs from the
// current object. Pages and widgets compare in order; fields compare against
// the already-resolved ids the server returns. Owner and widget view mode
// only count when the desired payload sets them.
func DashboardChanged(current *client.Dashboard, desired client.DashboardParams) bool {
	if current.Name != desired.Name ||
		current.DisplayPeriod != desired.DisplayPeriod ||
		current.AutoStart != desired.AutoStart ||
		current.Private != desired.Private {
		return true
	}
	if desired.UserID != "" && current.UserID != desired.UserID {
		return true
	}
	if len(current.Pages) != len(desired.Pages) {
		return true
	}
	for i, page := range desired.Pages {
		if pageChanged(current.Pages[i], page) {
			return true
		}
	}
	return false
}

func pageChanged(current, desired client.DashboardPage) bool {
	if current.Name != desired.Name {
		return true
	}
	if desired.DisplayPeriod != "" && current.DisplayPeriod != desired.DisplayPeriod {
		return true
	}
	if len(current.Widgets) != len(desired.Widgets) {
		return true
	}
	for i, widget := range desired.Widgets {
		if widgetChanged(current.Widgets[i], widget) {
			return true
		}
	}
	return false
}

func widgetChanged(current, desired client.DashboardWidget) bool {
	if current.Type != desired.Type ||
		current.Name != desired.Name ||
		current.X != desired.X ||
		current.Y != desired.Y ||
		current.Width != desired.Width ||
		current.Height != desired.Height {
		return true
	}
	if desired.ViewMode != "" && current.ViewMode != desired.ViewMode {
		return true
	}
	if len(current.Fields) != len(desired.Fields) {
		return true
	}
	fields := make(map[client.WidgetField]int, len(current.Fields))
	for _, f := range current.Fields {
		fields[f]++
	}
	for _, f := range desired.Fields {
		fields[f]--
		if fields[f] < 0 {
			return true
		}
	}
	return false
}
