package main

import (
	"fmt"
	"io"

	"github.com/gosuri/uitable"

	"stoplens.dev/internal/models"
)

const maxColWidth = 40

func stopHeader(w io.Writer, stopID string, stop *models.StopRecord) {
	if stop == nil {
		fmt.Fprintf(w, "Stop %s\n", stopID)
		return
	}
	fmt.Fprintf(w, "Stop %s  %s (%.5f, %.5f)\n", stopID, stop.Name, stop.Latitude, stop.Longitude)
}

func vehicleRow(table *uitable.Table, route string, e models.VehicleEntry) {
	delay := ""
	if e.Delay != nil {
		delay = e.Delay.Text()
	}
	model := ""
	if e.Model != nil {
		model = e.Model.Model
	}
	table.AddRow(route, e.VehicleNumber, e.Arrival.Display, e.Arrival.ClockTime, delay, model, e.Occupancy.Label(), e.Branch)
}

func newVehicleTable() *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = maxColWidth
	table.AddRow("ROUTE", "VEHICLE", "ARRIVAL", "AT", "DELAY", "MODEL", "OCCUPANCY", "BRANCH")
	return table
}

// renderStop prints every route of the stop with its vehicles. Routes with
// nothing approaching still get a row.
func renderStop(w io.Writer, view models.StopView) {
	stopHeader(w, view.StopID, view.Stop)
	if len(view.Routes) == 0 {
		fmt.Fprintln(w, "No routes serve this stop.")
		return
	}

	table := newVehicleTable()
	for _, g := range view.Routes {
		label := g.Route.Title()
		if len(g.Vehicles) == 0 {
			table.AddRow(label, "-", models.UnknownArrivalDisplay, models.UnknownClockTime, "", "", "", "")
			continue
		}
		for _, e := range g.Vehicles {
			vehicleRow(table, label, e)
		}
	}
	fmt.Fprintln(w, table)
}

func renderRoute(w io.Writer, vm models.ViewModel) {
	stopHeader(w, vm.StopID, vm.Stop)
	fmt.Fprintf(w, "Route %s %s [%s]\n", vm.RouteNumber, vm.RouteName, vm.Color)
	if len(vm.Vehicles) == 0 {
		fmt.Fprintln(w, "No vehicles approaching.")
		return
	}

	table := newVehicleTable()
	for _, e := range vm.Vehicles {
		vehicleRow(table, vm.RouteNumber, e)
	}
	fmt.Fprintln(w, table)
}

func renderVehicle(w io.Writer, view models.VehicleView) {
	stopHeader(w, view.StopID, view.Stop)
	e := view.Vehicle

	table := uitable.New()
	table.MaxColWidth = maxColWidth
	table.AddRow("Vehicle:", e.VehicleNumber)
	table.AddRow("Route:", e.RouteNumber)
	table.AddRow("Arrival:", e.Arrival.Display+" ("+e.Arrival.ClockTime+")")
	if e.Delay != nil {
		table.AddRow("Delay:", e.Delay.Text())
	}
	if e.Model != nil {
		table.AddRow("Model:", e.Model.Model)
	}
	if e.Location != nil {
		table.AddRow("Location:", fmt.Sprintf("%.5f, %.5f", e.Location.Latitude, e.Location.Longitude))
	}
	table.AddRow("Occupancy:", e.Occupancy.Label())
	if e.Destination != "" {
		table.AddRow("Destination:", e.Destination)
	}
	fmt.Fprintln(w, table)
}

func renderUpload(w io.Writer, stopID string, stop *models.StopRecord, refs []models.RouteRef) {
	stopHeader(w, stopID, stop)
	table := uitable.New()
	table.MaxColWidth = maxColWidth
	table.AddRow("ROUTE", "NAME", "CLASS")
	for _, ref := range refs {
		table.AddRow(ref.Number, ref.Name, string(ref.Color))
	}
	fmt.Fprintln(w, table)
}
