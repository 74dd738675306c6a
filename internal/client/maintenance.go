package client

import (
	"context"
	"strconv"
)

// Maintenance is the server-side state of a maintenance window, flattened to
// the fields the provider manages. Host and group associations are reduced
// to id lists regardless of the payload shape the server speaks.
type Maintenance struct {
	ID              string           `json:"maintenanceid"`
	Name            string           `json:"name"`
	MaintenanceType string           `json:"maintenance_type"`
	ActiveSince     string           `json:"active_since"`
	ActiveTill      string           `json:"active_till"`
	Description     string           `json:"description"`
	GroupIDs        []string         `json:"-"`
	HostIDs         []string         `json:"-"`
	Tags            []MaintenanceTag `json:"tags"`
}

// MaintenanceTag is a problem tag attached to hosts in maintenance.
type MaintenanceTag struct {
	Tag      string `json:"tag"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// MaintenanceParams is the desired state of one maintenance window, with
// every enumeration already encoded and every reference already resolved.
type MaintenanceParams struct {
	Name            string
	Description     string
	MaintenanceType string
	ActiveSince     int64
	ActiveTill      int64
	GroupIDs        []string
	HostIDs         []string
	Tags            []MaintenanceTag
}

// rawMaintenance matches the get-call response before flattening.
type rawMaintenance struct {
	Maintenance `json:",squash"`
	HostGroups  []struct {
		GroupID string `json:"groupid"`
	} `json:"hostgroups"`
	Groups []struct {
		GroupID string `json:"groupid"`
	} `json:"groups"`
	Hosts []struct {
		HostID string `json:"hostid"`
	} `json:"hosts"`
}

func (r rawMaintenance) flatten() *Maintenance {
	m := r.Maintenance
	m.GroupIDs = []string{}
	for _, g := range r.HostGroups {
		m.GroupIDs = append(m.GroupIDs, g.GroupID)
	}
	// Servers before 6.2 return the association under "groups".
	for _, g := range r.Groups {
		m.GroupIDs = append(m.GroupIDs, g.GroupID)
	}
	m.HostIDs = []string{}
	for _, h := range r.Hosts {
		m.HostIDs = append(m.HostIDs, h.HostID)
	}
	return &m
}

func maintenanceGetParams(caps Capabilities) map[string]any {
	params := map[string]any{
		"output":      "extend",
		"selectHosts": "extend",
		"selectTags":  "extend",
	}
	if caps.MaintenanceObjectLists {
		params["selectHostGroups"] = "extend"
	} else {
		params["selectGroups"] = "extend"
	}
	return params
}

// MaintenanceGetByName fetches a maintenance window by its unique name.
// Returns a NotFoundError when no window has that name.
func (c *Client) MaintenanceGetByName(ctx context.Context, name string, caps Capabilities) (*Maintenance, error) {
	params := maintenanceGetParams(caps)
	params["filter"] = map[string]any{"name": name}

	var raws []rawMaintenance
	if err := c.Call(ctx, "maintenance.get", params, &raws); err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, &NotFoundError{Kind: "maintenance window", Name: name}
	}
	if len(raws) > 1 {
		return nil, &TooManyMatchesError{Kind: "maintenance window", Name: name, Count: len(raws)}
	}
	return raws[0].flatten(), nil
}

// MaintenanceGet fetches a maintenance window by id.
func (c *Client) MaintenanceGet(ctx context.Context, id string, caps Capabilities) (*Maintenance, error) {
	params := maintenanceGetParams(caps)
	params["maintenanceids"] = []string{id}

	var raws []rawMaintenance
	if err := c.Call(ctx, "maintenance.get", params, &raws); err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, &NotFoundError{Kind: "maintenance window", Name: id}
	}
	return raws[0].flatten(), nil
}

// maintenanceBody renders the write payload, branching the association shape
// on the server's capability: {groupid}/{hostid} record lists from 6.2, flat
// id lists before.
func maintenanceBody(p MaintenanceParams, caps Capabilities) map[string]any {
	period := p.ActiveTill - p.ActiveSince
	body := map[string]any{
		"maintenance_type": p.MaintenanceType,
		"active_since":     strconv.FormatInt(p.ActiveSince, 10),
		"active_till":      strconv.FormatInt(p.ActiveTill, 10),
		"description":      p.Description,
		"timeperiods": []map[string]string{
			{
				"timeperiod_type": "0",
				"start_date":      strconv.FormatInt(p.ActiveSince, 10),
				"period":          strconv.FormatInt(period, 10),
			},
		},
	}
	if caps.MaintenanceObjectLists {
		body["groups"] = objectRefs("groupid", p.GroupIDs)
		body["hosts"] = objectRefs("hostid", p.HostIDs)
	} else {
		body["groupids"] = p.GroupIDs
		body["hostids"] = p.HostIDs
	}
	if p.Tags != nil {
		body["tags"] = p.Tags
	}
	return body
}

// MaintenanceCreate creates a maintenance window and returns its id.
func (c *Client) MaintenanceCreate(ctx context.Context, p MaintenanceParams, caps Capabilities) (string, error) {
	body := maintenanceBody(p, caps)
	body["name"] = p.Name

	var result struct {
		MaintenanceIDs []string `json:"maintenanceids"`
	}
	if err := c.Call(ctx, "maintenance.create", body, &result); err != nil {
		return "", err
	}
	return firstID(result.MaintenanceIDs, "maintenance window")
}

// MaintenanceUpdate replaces the window identified by id with the desired
// state.
func (c *Client) MaintenanceUpdate(ctx context.Context, id string, p MaintenanceParams, caps Capabilities) error {
	body := maintenanceBody(p, caps)
	body["maintenanceid"] = id
	body["name"] = p.Name
	return c.Call(ctx, "maintenance.update", body, nil)
}

// MaintenanceDelete removes the window identified by id.
func (c *Client) MaintenanceDelete(ctx context.Context, id string) error {
	return c.Call(ctx, "maintenance.delete", []string{id}, nil)
}
