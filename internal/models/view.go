package models

import "time"

// VehicleEntry is a reconciled vehicle enriched for display.
type VehicleEntry struct {
	ID            string           `json:"id"`
	VehicleNumber string           `json:"vehicleNumber"`
	RouteNumber   string           `json:"routeNumber"`
	Minutes       *int             `json:"minutes"`
	Arrival       Arrival          `json:"arrival"`
	Delay         *Delay           `json:"delay,omitempty"`
	Model         *ModelDescriptor `json:"model,omitempty"`
	Location      *Location        `json:"location,omitempty"`
	Occupancy     Occupancy        `json:"occupancy"`
	Destination   string           `json:"destination,omitempty"`
	Branch        string           `json:"branch,omitempty"`
}

// ViewModel backs a route-detail screen. It is rebuilt on every successful poll.
type ViewModel struct {
	RouteNumber string         `json:"routeNumber"`
	RouteName   string         `json:"routeName"`
	Color       ColorClass     `json:"colorClass"`
	StopID      string         `json:"stopId"`
	Stop        *StopRecord    `json:"stop,omitempty"`
	Vehicles    []VehicleEntry `json:"vehicles"`
	FetchedAt   time.Time      `json:"fetchedAt"`
}

// RouteGroup is one route on the stop screen with the vehicles serving it.
type RouteGroup struct {
	Route    RouteRef       `json:"route"`
	Vehicles []VehicleEntry `json:"vehicles"`
}

// StopView backs the stop screen.
type StopView struct {
	StopID    string       `json:"stopId"`
	Stop      *StopRecord  `json:"stop,omitempty"`
	Routes    []RouteGroup `json:"routes"`
	FetchedAt time.Time    `json:"fetchedAt"`
}

// VehicleView backs the vehicle-detail screen.
type VehicleView struct {
	StopID    string       `json:"stopId"`
	Stop      *StopRecord  `json:"stop,omitempty"`
	Vehicle   VehicleEntry `json:"vehicle"`
	FetchedAt time.Time    `json:"fetchedAt"`
}
