package client

import (
	"context"
	"fmt"
)

// Reference resolution: every desired-state name that points at another
// Zabbix object (host, host group, user, item, ...) is translated to the
// server-assigned id before it is embedded in a write payload. Resolution is
// fatal when the name cannot be found, and fatal when a name that must be
// unique matches more than one object.

// resolveUnique runs a get call expected to match exactly one object and
// extracts its id with pick.
func resolveUnique[T any](ctx context.Context, c *Client, method, kind, name string, params any, pick func(T) string) (string, error) {
	var matches []T
	if err := c.Call(ctx, method, params, &matches); err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", &NotFoundError{Kind: kind, Name: name}
	}
	if len(matches) > 1 {
		return "", &TooManyMatchesError{Kind: kind, Name: name, Count: len(matches)}
	}
	return pick(matches[0]), nil
}

func nameFilter(name string) map[string]any {
	return map[string]any{
		"output": "extend",
		"filter": map[string]any{"name": name},
	}
}

// HostGroupID resolves a host group name.
func (c *Client) HostGroupID(ctx context.Context, name string) (string, error) {
	type hostGroup struct {
		GroupID string `json:"groupid"`
	}
	return resolveUnique(ctx, c, "hostgroup.get", "host group", name, nameFilter(name),
		func(g hostGroup) string { return g.GroupID })
}

// HostID resolves a host by visible name, or by technical name when
// byVisibleName is false.
func (c *Client) HostID(ctx context.Context, name string, byVisibleName bool) (string, error) {
	type host struct {
		HostID string `json:"hostid"`
	}
	filterKey := "host"
	if byVisibleName {
		filterKey = "name"
	}
	params := map[string]any{
		"output": "extend",
		"filter": map[string]any{filterKey: name},
	}
	return resolveUnique(ctx, c, "host.get", "host", name, params,
		func(h host) string { return h.HostID })
}

// UserID resolves a username.
func (c *Client) UserID(ctx context.Context, username string) (string, error) {
	type user struct {
		UserID string `json:"userid"`
	}
	params := map[string]any{
		"output": "extend",
		"filter": map[string]any{"username": username},
	}
	return resolveUnique(ctx, c, "user.get", "user", username, params,
		func(u user) string { return u.UserID })
}

// ItemID resolves an item by key, filtered to the named host.
func (c *Client) ItemID(ctx context.Context, key, hostName string) (string, error) {
	type item struct {
		ItemID string `json:"itemid"`
	}
	params := map[string]any{
		"output": "extend",
		"host":   hostName,
		"filter": map[string]any{"key_": key},
	}
	label := fmt.Sprintf("%s on host %s", key, hostName)
	return resolveUnique(ctx, c, "item.get", "item", label, params,
		func(i item) string { return i.ItemID })
}

// ItemPrototypeID resolves an item prototype by key, filtered to the named
// host.
func (c *Client) ItemPrototypeID(ctx context.Context, key, hostName string) (string, error) {
	type itemPrototype struct {
		ItemID string `json:"itemid"`
	}
	params := map[string]any{
		"output": "extend",
		"host":   hostName,
		"filter": map[string]any{"key_": key},
	}
	label := fmt.Sprintf("%s on host %s", key, hostName)
	return resolveUnique(ctx, c, "itemprototype.get", "item prototype", label, params,
		func(i itemPrototype) string { return i.ItemID })
}

// GraphID resolves a graph by name, filtered to the named host.
func (c *Client) GraphID(ctx context.Context, name, hostName string) (string, error) {
	type graph struct {
		GraphID string `json:"graphid"`
	}
	params := map[string]any{
		"output": "extend",
		"host":   hostName,
		"filter": map[string]any{"name": name},
	}
	label := fmt.Sprintf("%s on host %s", name, hostName)
	return resolveUnique(ctx, c, "graph.get", "graph", label, params,
		func(g graph) string { return g.GraphID })
}

// GraphPrototypeID resolves a graph prototype by name, filtered to the named
// host.
func (c *Client) GraphPrototypeID(ctx context.Context, name, hostName string) (string, error) {
	type graphPrototype struct {
		GraphID string `json:"graphid"`
	}
	params := map[string]any{
		"output": "extend",
		"host":   hostName,
		"filter": map[string]any{"name": name},
	}
	label := fmt.Sprintf("%s on host %s", name, hostName)
	return resolveUnique(ctx, c, "graphprototype.get", "graph prototype", label, params,
		func(g graphPrototype) string { return g.GraphID })
}

// SysmapID resolves a map name.
func (c *Client) SysmapID(ctx context.Context, name string) (string, error) {
	type sysmap struct {
		SysmapID string `json:"sysmapid"`
	}
	return resolveUnique(ctx, c, "map.get", "map", name, nameFilter(name),
		func(m sysmap) string { return m.SysmapID })
}

// ServiceID resolves a service name.
func (c *Client) ServiceID(ctx context.Context, name string) (string, error) {
	type service struct {
		ServiceID string `json:"serviceid"`
	}
	return resolveUnique(ctx, c, "service.get", "service", name, nameFilter(name),
		func(s service) string { return s.ServiceID })
}

// SLAIDByName resolves an SLA name to its id.
func (c *Client) SLAIDByName(ctx context.Context, name string) (string, error) {
	type sla struct {
		SLAID string `json:"slaid"`
	}
	return resolveUnique(ctx, c, "sla.get", "SLA", name, nameFilter(name),
		func(s sla) string { return s.SLAID })
}

// ActionID resolves an action name.
func (c *Client) ActionID(ctx context.Context, name string) (string, error) {
	type action struct {
		ActionID string `json:"actionid"`
	}
	return resolveUnique(ctx, c, "action.get", "action", name, nameFilter(name),
		func(a action) string { return a.ActionID })
}

// MediaTypeID resolves a media type name.
func (c *Client) MediaTypeID(ctx context.Context, name string) (string, error) {
	type mediaType struct {
		MediaTypeID string `json:"mediatypeid"`
	}
	params := map[string]any{
		"output": "extend",
		"filter": map[string]any{"name": name},
	}
	return resolveUnique(ctx, c, "mediatype.get", "media type", name, params,
		func(m mediaType) string { return m.MediaTypeID })
}
