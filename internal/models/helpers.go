// Package models defines Terraform state models, write-payload builders and
// the per-resource change predicates that decide whether an update call is
// issued at all.
package models

import (
	"context"
	"sort"

	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"golang.org/x/exp/slices"
)

// ExpandStringList converts a types.List of strings into a Go slice. A null
// or unknown list expands to nil.
func ExpandStringList(ctx context.Context, list types.List) ([]string, diag.Diagnostics) {
	if list.IsNull() || list.IsUnknown() {
		return nil, nil
	}
	var out []string
	diags := list.ElementsAs(ctx, &out, false)
	return out, diags
}

// SortedCopy returns a sorted copy, leaving the input untouched so state
// ordering survives.
func SortedCopy(in []string) []string {
	out := slices.Clone(in)
	sort.Strings(out)
	return out
}

// EqualUnordered compares two string slices ignoring order.
func EqualUnordered(a, b []string) bool {
	return slices.Equal(SortedCopy(a), SortedCopy(b))
}

// UnionIDs merges two id sets, deduplicated and sorted for a stable payload.
func UnionIDs(current, desired []string) []string {
	seen := make(map[string]struct{}, len(current)+len(desired))
	out := make([]string, 0, len(current)+len(desired))
	for _, id := range current {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, id := range desired {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// stringOr returns the value of a nullable string attribute, or fallback
// when unset.
func stringOr(v types.String, fallback string) string {
	if v.IsNull() || v.IsUnknown() {
		return fallback
	}
	return v.ValueString()
}
