package models

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/netwatch-labs/terraform-provider-zabbix/internal/client"
)

// fakeResolver resolves names from fixed tables and fails on anything else.
type fakeResolver struct {
	hostGroups map[string]string
	hosts      map[string]string
	items      map[string]string
	graphs     map[string]string
	users      map[string]string
}

func (f *fakeResolver) lookup(table map[string]string, kind, name string) (string, error) {
	if id, ok := table[name]; ok {
		return id, nil
	}
	return "", &client.NotFoundError{Kind: kind, Name: name}
}

func (f *fakeResolver) HostGroupID(_ context.Context, name string) (string, error) {
	return f.lookup(f.hostGroups, "host group", name)
}

func (f *fakeResolver) HostID(_ context.Context, name string, _ bool) (string, error) {
	return f.lookup(f.hosts, "host", name)
}

func (f *fakeResolver) ItemID(_ context.Context, key, host string) (string, error) {
	return f.lookup(f.items, "item", key+"@"+host)
}

func (f *fakeResolver) ItemPrototypeID(_ context.Context, key, host string) (string, error) {
	return f.lookup(f.items, "item prototype", key+"@"+host)
}

func (f *fakeResolver) GraphID(_ context.Context, name, host string) (string, error) {
	return f.lookup(f.graphs, "graph", name+"@"+host)
}

func (f *fakeResolver) GraphPrototypeID(_ context.Context, name, host string) (string, error) {
	return f.lookup(f.graphs, "graph prototype", name+"@"+host)
}

func (f *fakeResolver) SysmapID(_ context.Context, name string) (string, error) {
	return f.lookup(nil, "map", name)
}

func (f *fakeResolver) ServiceID(_ context.Context, name string) (string, error) {
	return f.lookup(nil, "service", name)
}

func (f *fakeResolver) SLAIDByName(_ context.Context, name string) (string, error) {
	return f.lookup(nil, "SLA", name)
}

func (f *fakeResolver) UserID(_ context.Context, username string) (string, error) {
	return f.lookup(f.users, "user", username)
}

func (f *fakeResolver) ActionID(_ context.Context, name string) (string, error) {
	return f.lookup(nil, "action", name)
}

func (f *fakeResolver) MediaTypeID(_ context.Context, name string) (string, error) {
	return f.lookup(nil, "media type", name)
}

func widgetField(fieldType string, attrs map[string]string) WidgetFieldModel {
	f := WidgetFieldModel{
		Type:      types.StringValue(fieldType),
		Name:      types.StringValue("param"),
		Value:     types.StringNull(),
		ValueName: types.StringNull(),
		ValueKey:  types.StringNull(),
		ValueHost: types.StringNull(),
	}
	for k, v := range attrs {
		switch k {
		case "value":
			f.Value = types.StringValue(v)
		case "value_name":
			f.ValueName = types.StringValue(v)
		case "value_key":
			f.ValueKey = types.StringValue(v)
		case "value_host":
			f.ValueHost = types.StringValue(v)
		}
	}
	return f
}

func dashboardWithField(f WidgetFieldModel) DashboardModel {
	return DashboardModel{
		Name: types.StringValue("Ops"),
		Pages: []DashboardPageModel{
			{
				Widgets: []DashboardWidgetModel{
					{
						Type:   types.StringValue("clock"),
						Width:  types.Int64Value(12),
						Height: types.Int64Value(5),
						Fields: []WidgetFieldModel{f},
					},
				},
			},
		},
	}
}

func TestValidateWidgetFields(t *testing.T) {
	tests := []struct {
		fieldType string
		attrs     map[string]string
		wantErr   bool
	}{
		// Each field type has a fixed required companion set.
		{"integer", map[string]string{"value": "30"}, false},
		{"integer", nil, true},
		{"string", map[string]string{"value": "label"}, false},
		{"string", map[string]string{"value_name": "label"}, true},
		{"item", map[string]string{"value_key": "system.cpu.load", "value_host": "web01"}, false},
		{"item", map[string]string{"value_key": "system.cpu.load"}, true},
		{"item_prototype", map[string]string{"value_key": "net.if.in[{#IFNAME}]", "value_host": "web01"}, false},
		{"graph", map[string]string{"value_name": "CPU load", "value_host": "web01"}, false},
		{"graph", map[string]string{"value_name": "CPU load"}, true},
		{"graph_prototype", map[string]string{"value_name": "Traffic on {#IFNAME}", "value_host": "web01"}, false},
		{"host_group", map[string]string{"value_name": "Linux servers"}, false},
		{"host_group", map[string]string{"value": "2"}, true},
		{"host", map[string]string{"value_name": "web01"}, false},
		{"map", map[string]string{"value_name": "DC overview"}, false},
		{"user", map[string]string{"value_name": "Admin"}, false},
		{"unknown_type", map[string]string{"value": "x"}, true},
	}

	for _, tt := range tests {
		name := tt.fieldType
		if tt.wantErr {
			name += " invalid"
		}
		t.Run(name, func(t *testing.T) {
			m := dashboardWithField(widgetField(tt.fieldType, tt.attrs))
			diags := m.ValidateWidgetFields()
			if diags.HasError() != tt.wantErr {
				t.Errorf("ValidateWidgetFields() errors = %v, wantErr %v", diags.Errors(), tt.wantErr)
			}
		})
	}
}

func TestBuildDashboardParams(t *testing.T) {
	resolver := &fakeResolver{
		hostGroups: map[string]string{"Linux servers": "2"},
		hosts:      map[string]string{"web01": "10084"},
		items:      map[string]string{"system.cpu.load@web01": "23296"},
		graphs:     map[string]string{"CPU load@web01": "612"},
		users:      map[string]string{"Admin": "1"},
	}

	m := DashboardModel{
		Name:          types.StringValue("Ops"),
		Owner:         types.StringValue("Admin"),
		DisplayPeriod: types.Int64Value(60),
		AutoStart:     types.BoolValue(false),
		Private:       types.BoolValue(true),
		Pages: []DashboardPageModel{
			{
				Name: types.StringValue("Overview"),
				Widgets: []DashboardWidgetModel{
					{
						Type:   types.StringValue("svggraph"),
						Name:   types.StringValue("CPU"),
						X:      types.Int64Value(0),
						Y:      types.Int64Value(0),
						Width:  types.Int64Value(36),
						Height: types.Int64Value(8),
						Fields: []WidgetFieldModel{
							widgetField("item", map[string]string{"value_key": "system.cpu.load", "value_host": "web01"}),
							widgetField("host_group", map[string]string{"value_name": "Linux servers"}),
							widgetField("integer", map[string]string{"value": "1"}),
						},
					},
				},
			},
		},
	}

	params, diags := m.BuildDashboardParams(context.Background(), resolver)
	if diags.HasError() {
		t.Fatalf("BuildDashboardParams() diagnostics: %v", diags)
	}

	if params.DisplayPeriod != "60" || params.AutoStart != "0" || params.Private != "1" {
		t.Errorf("top-level attrs = %+v, want display_period=60 auto_start=0 private=1", params)
	}
	if params.UserID != "1" {
		t.Errorf("params.UserID = %q, want %q", params.UserID, "1")
	}

	wantFields := []client.WidgetField{
		{Type: "4", Name: "param", Value: "23296"},
		{Type: "2", Name: "param", Value: "2"},
		{Type: "0", Name: "param", Value: "1"},
	}
	got := params.Pages[0].Widgets[0].Fields
	if diff := cmp.Diff(wantFields, got); diff != "" {
		t.Errorf("widget fields mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDashboardParams_UnresolvableReference(t *testing.T) {
	resolver := &fakeResolver{}
	m := dashboardWithField(widgetField("host_group", map[string]string{"value_name": "No such group"}))

	_, diags := m.BuildDashboardParams(context.Background(), resolver)
	if !diags.HasError() {
		t.Fatal("BuildDashboardParams() succeeded with an unresolvable reference")
	}
}

func TestDashboardChanged(t *testing.T) {
	build := func() (*client.Dashboard, client.DashboardParams) {
		current := &client.Dashboard{
			ID:            "49",
			Name:          "Ops",
			UserID:        "1",
			DisplayPeriod: "30",
			AutoStart:     "1",
			Private:       "1",
			Pages: []client.DashboardPage{
				{
					Name: "Overview",
					Widgets: []client.DashboardWidget{
						{
							Type: "clock", X: "0", Y: "0", Width: "12", Height: "5",
							Fields: []client.WidgetField{{Type: "0", Name: "time_type", Value: "0"}},
						},
					},
				},
			},
		}
		desired := client.DashboardParams{
			Name:          "Ops",
			DisplayPeriod: "30",
			AutoStart:     "1",
			Private:       "1",
			Pages: []client.DashboardPage{
				{
					Name: "Overview",
					Widgets: []client.DashboardWidget{
						{
							Type: "clock", X: "0", Y: "0", Width: "12", Height: "5",
							Fields: []client.WidgetField{{Type: "0", Name: "time_type", Value: "0"}},
						},
					},
				},
			},
		}
		return current, desired
	}

	t.Run("identical state is unchanged", func(t *testing.T) {
		current, desired := build()
		if DashboardChanged(current, desired) {
			t.Error("DashboardChanged() = true for matching state")
		}
	})

	tests := []struct {
		name   string
		mutate func(*client.DashboardParams)
	}{
		{"display period differs", func(p *client.DashboardParams) { p.DisplayPeriod = "60" }},
		{"private differs", func(p *client.DashboardParams) { p.Private = "0" }},
		{"page added", func(p *client.DashboardParams) {
			p.Pages = append(p.Pages, client.DashboardPage{Name: "Second"})
		}},
		{"owner differs", func(p *client.DashboardParams) { p.UserID = "3" }},
		{"widget moved", func(p *client.DashboardParams) { p.Pages[0].Widgets[0].X = "12" }},
		{"widget header hidden", func(p *client.DashboardParams) {
			p.Pages[0].Widgets[0].ViewMode = "1"
		}},
		{"field value differs", func(p *client.DashboardParams) {
			p.Pages[0].Widgets[0].Fields[0].Value = "1"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, desired := build()
			tt.mutate(&desired)
			if !DashboardChanged(current, desired) {
				t.Error("DashboardChanged() = false, want true")
			}
		})
	}

	t.Run("field order does not matter", func(t *testing.T) {
		current, desired := build()
		current.Pages[0].Widgets[0].Fields = []client.WidgetField{
			{Type: "0", Name: "time_type", Value: "0"},
			{Type: "1", Name: "tzone_timezone", Value: "UTC"},
		}
		desired.Pages[0].Widgets[0].Fields = []client.WidgetField{
			{Type: "1", Name: "tzone_timezone", Value: "UTC"},
			{Type: "0", Name: "time_type", Value: "0"},
		}
		if DashboardChanged(current, desired) {
			t.Error("DashboardChanged() = true for reordered widget fields")
		}
	})
}
