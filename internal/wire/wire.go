// Package wire maps human-readable enumeration names to the numeric string
// codes the Zabbix API uses on the wire.
package wire

import (
	"fmt"
	"sort"
)

// Enum is an explicit, bidirectional name<->code table for one API
// enumeration. Codes are numeric strings because the API encodes every
// enumeration field that way.
type Enum struct {
	label string
	codes map[string]string
	names map[string]string
}

// NewEnum builds an Enum from a name->code table. It panics on duplicate
// codes since every table is a package-level literal.
func NewEnum(label string, table map[string]string) Enum {
	names := make(map[string]string, len(table))
	for name, code := range table {
		if prev, ok := names[code]; ok {
			panic(fmt.Sprintf("wire: enum %s: code %s mapped to both %s and %s", label, code, prev, name))
		}
		names[code] = name
	}
	return Enum{label: label, codes: table, names: names}
}

// Encode translates a declared name to its wire code.
func (e Enum) Encode(name string) (string, error) {
	code, ok := e.codes[name]
	if !ok {
		return "", fmt.Errorf("wire: %s: unknown value %q", e.label, name)
	}
	return code, nil
}

// MustEncode is Encode for values already vetted by schema validation.
func (e Enum) MustEncode(name string) string {
	code, err := e.Encode(name)
	if err != nil {
		panic(err)
	}
	return code
}

// Decode translates a wire code back to its declared name.
func (e Enum) Decode(code string) (string, error) {
	name, ok := e.names[code]
	if !ok {
		return "", fmt.Errorf("wire: %s: unknown code %q", e.label, code)
	}
	return name, nil
}

// Names returns the declared names in sorted order, for schema validators.
func (e Enum) Names() []string {
	names := make([]string, 0, len(e.codes))
	for name := range e.codes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Maintenance window enumerations.
var (
	MaintenanceTagOperator = NewEnum("maintenance tag operator", map[string]string{
		"equals":   "0",
		"contains": "2",
	})
)

// MFA method enumerations. Zabbix supports these from 7.0.
var (
	MFAMethodType = NewEnum("MFA method type", map[string]string{
		"totp":                 "1",
		"duo_universal_prompt": "2",
	})
	MFAHashFunction = NewEnum("MFA hash function", map[string]string{
		"sha-1":   "1",
		"sha-256": "2",
		"sha-512": "3",
	})
)

// SLA enumerations.
var (
	SLAPeriod = NewEnum("SLA period", map[string]string{
		"daily":     "0",
		"weekly":    "1",
		"monthly":   "2",
		"quarterly": "3",
		"annually":  "4",
	})
	SLAServiceTagOperator = NewEnum("SLA service tag operator", map[string]string{
		"equals":   "0",
		"contains": "2",
	})
	SLAStatus = NewEnum("SLA status", map[string]string{
		"disabled": "0",
		"enabled":  "1",
	})
)

// Event correlation enumerations. Note the correlation status codes are the
// inverse of the SLA ones; the API is not consistent here.
var (
	CorrelationStatus = NewEnum("correlation status", map[string]string{
		"enabled":  "0",
		"disabled": "1",
	})
	CorrelationEvalType = NewEnum("correlation evaluation type", map[string]string{
		"and_or":            "0",
		"and":               "1",
		"or":                "2",
		"custom_expression": "3",
	})
	CorrelationConditionType = NewEnum("correlation condition type", map[string]string{
		"old_event_tag":        "0",
		"new_event_tag":        "1",
		"new_event_host_group": "2",
		"event_tag_pair":       "3",
		"old_event_tag_value":  "4",
		"new_event_tag_value":  "5",
	})
	CorrelationOperator = NewEnum("correlation condition operator", map[string]string{
		"equal":     "0",
		"not_equal": "1",
		"like":      "2",
		"not_like":  "3",
	})
	CorrelationOperationType = NewEnum("correlation operation type", map[string]string{
		"close_old_events": "0",
		"close_new_event":  "1",
	})
)

// Global regular expression enumerations.
var (
	RegexpExpressionType = NewEnum("regexp expression type", map[string]string{
		"character_string_included":     "0",
		"any_character_string_included": "1",
		"character_string_not_included": "2",
		"result_is_true":                "3",
		"result_is_false":               "4",
	})
)

// Dashboard widget field enumerations.
var (
	WidgetViewMode = NewEnum("dashboard widget view mode", map[string]string{
		"default":       "0",
		"hidden_header": "1",
	})
	WidgetFieldType = NewEnum("dashboard widget field type", map[string]string{
		"integer":         "0",
		"string":          "1",
		"host_group":      "2",
		"host":            "3",
		"item":            "4",
		"item_prototype":  "5",
		"graph":           "6",
		"graph_prototype": "7",
		"map":             "8",
		"service":         "9",
		"sla":             "10",
		"user":            "11",
		"action":          "12",
		"media_type":      "13",
	})
)

// Bool encodes a boolean the way the API expects flag fields.
func Bool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
