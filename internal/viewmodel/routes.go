package viewmodel

import (
	"strings"

	"stoplens.dev/internal/models"
	"stoplens.dev/internal/reconcile"
	"stoplens.dev/internal/routes"
)

// routeRefs merges the route list of a seek reply with the routes of its
// vehicles. A vehicle whose route prefix is missing from the list still gets
// a group, named by its number alone. Routes without a number are skipped.
// The result is sorted by route number.
func routeRefs(raw []string, groups []reconcile.Group) []models.RouteRef {
	seen := make(map[string]bool, len(raw))
	refs := make([]models.RouteRef, 0, len(raw))

	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		ref := routes.ParseRef(r)
		if ref.Number == "" || seen[ref.Number] {
			continue
		}
		seen[ref.Number] = true
		refs = append(refs, ref)
	}
	for _, g := range groups {
		if g.RouteNumber == "" || seen[g.RouteNumber] {
			continue
		}
		seen[g.RouteNumber] = true
		refs = append(refs, routes.ParseRef(g.RouteNumber))
	}

	routes.SortRefs(refs)
	return refs
}

func findRoute(raw []string, number string) models.RouteRef {
	for _, r := range raw {
		if ref := routes.ParseRef(r); ref.Number == number {
			return ref
		}
	}
	return routes.ParseRef(number)
}
