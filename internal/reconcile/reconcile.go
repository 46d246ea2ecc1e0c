// Package reconcile turns the raw vehicle list of a stop lookup into the
// deduplicated, route-filtered list a screen displays.
package reconcile

import (
	"strings"

	"stoplens.dev/internal/models"
	"stoplens.dev/internal/utils"
)

// Reconcile filters raw to the vehicles of targetRoute (all routes when it is
// empty), drops records without a vehicle number and keeps the first record
// of each vehicle number. Input order is otherwise preserved and raw is not
// modified.
func Reconcile(raw []models.VehicleRecord, targetRoute string) []models.VehicleRecord {
	targetRoute = strings.TrimSpace(targetRoute)
	seen := make(map[string]struct{}, len(raw))
	out := make([]models.VehicleRecord, 0, len(raw))

	for _, v := range raw {
		if targetRoute != "" && utils.RoutePrefix(v.ID) != targetRoute {
			continue
		}
		number := strings.TrimSpace(v.VehicleNumber.String())
		if number == "" {
			continue
		}
		if _, dup := seen[number]; dup {
			continue
		}
		seen[number] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Group is the reconciled vehicles sharing one route prefix.
type Group struct {
	RouteNumber string
	Vehicles    []models.VehicleRecord
}

// GroupByRoute reconciles raw across all routes and splits the result by
// vehicle id prefix. Groups are ordered by first appearance.
func GroupByRoute(raw []models.VehicleRecord) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, v := range Reconcile(raw, "") {
		prefix := utils.RoutePrefix(v.ID)
		i, ok := index[prefix]
		if !ok {
			i = len(groups)
			index[prefix] = i
			groups = append(groups, Group{RouteNumber: prefix})
		}
		groups[i].Vehicles = append(groups[i].Vehicles, v)
	}
	return groups
}

// VehicleNumbers returns the vehicle numbers of vs in order.
func VehicleNumbers(vs []models.VehicleRecord) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, strings.TrimSpace(v.VehicleNumber.String()))
	}
	return out
}
