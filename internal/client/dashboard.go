package client

import (
	"context"
)

// Dashboard is the server-side state of a dashboard, pages and widgets
// included.
type Dashboard struct {
	ID            string          `json:"dashboardid"`
	Name          string          `json:"name"`
	UserID        string          `json:"userid"`
	DisplayPeriod string          `json:"display_period"`
	AutoStart     string          `json:"auto_start"`
	Private       string          `json:"private"`
	Pages         []DashboardPage `json:"pages"`
}

// DashboardPage is one page of widgets.
type DashboardPage struct {
	Name          string            `json:"name"`
	DisplayPeriod string            `json:"display_period,omitempty"`
	Widgets       []DashboardWidget `json:"widgets"`
}

// DashboardWidget is one widget placed on a page grid.
type DashboardWidget struct {
	Type     string        `json:"type"`
	Name     string        `json:"name"`
	X        string        `json:"x"`
	Y        string        `json:"y"`
	Width    string        `json:"width"`
	Height   string        `json:"height"`
	ViewMode string        `json:"view_mode,omitempty"`
	Fields   []WidgetField `json:"fields"`
}

// WidgetField is one typed configuration value of a widget. Type encodes
// what Value refers to, a literal or a resolved object id.
type WidgetField struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// DashboardParams is the desired state of one dashboard with widget field
// references already resolved to ids.
type DashboardParams struct {
	Name          string
	UserID        string
	DisplayPeriod string
	AutoStart     string
	Private       string
	Pages         []DashboardPage
}

func dashboardGetParams() map[string]any {
	return map[string]any{
		"output":      "extend",
		"selectPages": "extend",
	}
}

// DashboardGetByName fetches a dashboard by its unique name.
func (c *Client) DashboardGetByName(ctx context.Context, name string) (*Dashboard, error) {
	params := dashboardGetParams()
	params["filter"] = map[string]any{"name": name}

	var dashboards []Dashboard
	if err := c.Call(ctx, "dashboard.get", params, &dashboards); err != nil {
		return nil, err
	}
	if len(dashboards) == 0 {
		return nil, &NotFoundError{Kind: "dashboard", Name: name}
	}
	if len(dashboards) > 1 {
		return nil, &TooManyMatchesError{Kind: "dashboard", Name: name, Count: len(dashboards)}
	}
	return &dashboards[0], nil
}

// DashboardGet fetches a dashboard by id.
func (c *Client) DashboardGet(ctx context.Context, id string) (*Dashboard, error) {
	params := dashboardGetParams()
	params["dashboardids"] = []string{id}

	var dashboards []Dashboard
	if err := c.Call(ctx, "dashboard.get", params, &dashboards); err != nil {
		return nil, err
	}
	if len(dashboards) == 0 {
		return nil, &NotFoundError{Kind: "dashboard", Name: id}
	}
	return &dashboards[0], nil
}

func dashboardBody(p DashboardParams) map[string]any {
	body := map[string]any{
		"name":           p.Name,
		"display_period": p.DisplayPeriod,
		"auto_start":     p.AutoStart,
		"private":        p.Private,
		"pages":          p.Pages,
	}
	if p.UserID != "" {
		body["userid"] = p.UserID
	}
	return body
}

// DashboardCreate creates a dashboard and returns its id.
func (c *Client) DashboardCreate(ctx context.Context, p DashboardParams) (string, error) {
	var result struct {
		DashboardIDs []string `json:"dashboardids"`
	}
	if err := c.Call(ctx, "dashboard.create", dashboardBody(p), &result); err != nil {
		return "", err
	}
	return firstID(result.DashboardIDs, "dashboard")
}

// DashboardUpdate replaces the dashboard identified by id with the desired
// state.
func (c *Client) DashboardUpdate(ctx context.Context, id string, p DashboardParams) error {
	body := dashboardBody(p)
	body["dashboardid"] = id
	return c.Call(ctx, "dashboard.update", body, nil)
}

// DashboardDelete removes the dashboard identified by id.
func (c *Client) DashboardDelete(ctx context.Context, id string) error {
	return c.Call(ctx, "dashboard.delete", []string{id}, nil)
}
