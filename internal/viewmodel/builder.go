// Package viewmodel runs one pass of the lookup pipeline: fetch a stop,
// reconcile its vehicles and enrich them for display.
package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"stoplens.dev/internal/arrival"
	"stoplens.dev/internal/delay"
	"stoplens.dev/internal/logging"
	"stoplens.dev/internal/models"
	"stoplens.dev/internal/reconcile"
	"stoplens.dev/internal/routes"
	"stoplens.dev/internal/transit"
	"stoplens.dev/internal/utils"
)

var ErrVehicleNotFound = errors.New("vehicle not found at stop")

// StopLookup resolves a stop id against the static stop table.
type StopLookup interface {
	Lookup(stopID string) (models.StopRecord, bool)
}

// ModelLookup resolves a vehicle number to its model.
type ModelLookup interface {
	Lookup(vehicleNumber string) (models.ModelDescriptor, bool)
}

// DefaultInfoConcurrency bounds the parallel /vehicleinfo calls of one pass.
const DefaultInfoConcurrency = 4

type Options struct {
	Client          transit.Client
	Stops           StopLookup
	Fleet           ModelLookup
	Formatter       *arrival.Formatter
	Clock           clock.PassiveClock
	Logger          *slog.Logger
	InfoConcurrency int
}

// Builder assembles stop, route and vehicle views. It holds no per-screen
// state and is safe for concurrent use.
type Builder struct {
	client      transit.Client
	stops       StopLookup
	fleet       ModelLookup
	formatter   *arrival.Formatter
	clock       clock.PassiveClock
	logger      *slog.Logger
	concurrency int
}

func NewBuilder(opts Options) *Builder {
	b := &Builder{
		client:      opts.Client,
		stops:       opts.Stops,
		fleet:       opts.Fleet,
		formatter:   opts.Formatter,
		clock:       opts.Clock,
		logger:      logging.Component(opts.Logger, "viewmodel"),
		concurrency: opts.InfoConcurrency,
	}
	if b.clock == nil {
		b.clock = clock.RealClock{}
	}
	if b.formatter == nil {
		b.formatter = arrival.NewFormatter(b.clock, nil)
	}
	if b.concurrency <= 0 {
		b.concurrency = DefaultInfoConcurrency
	}
	return b
}

// BuildStop builds the stop screen: every route serving the stop, sorted by
// route number, each with its reconciled vehicles.
func (b *Builder) BuildStop(ctx context.Context, stopID string) (models.StopView, error) {
	resp, err := b.client.Seek(ctx, stopID)
	if err != nil {
		return models.StopView{}, fmt.Errorf("seek stop %s: %w", stopID, err)
	}

	groups := reconcile.GroupByRoute(resp.Vehicles)
	var all []models.VehicleRecord
	byRoute := make(map[string][]models.VehicleRecord, len(groups))
	for _, g := range groups {
		if g.RouteNumber == "" {
			continue
		}
		all = append(all, g.Vehicles...)
		byRoute[g.RouteNumber] = g.Vehicles
	}
	enr := b.enrich(ctx, all, false)

	view := models.StopView{
		StopID:    stopID,
		Stop:      b.stop(stopID),
		Routes:    []models.RouteGroup{},
		FetchedAt: b.clock.Now(),
	}
	for _, ref := range routeRefs(resp.Routes, groups) {
		view.Routes = append(view.Routes, models.RouteGroup{
			Route:    ref,
			Vehicles: b.entries(byRoute[ref.Number], enr),
		})
	}
	return view, nil
}

// BuildRoute builds the route-detail screen for route at stopID. route may
// be a bare number or a composite route string.
func (b *Builder) BuildRoute(ctx context.Context, stopID, route string) (models.ViewModel, error) {
	number := routes.ExtractNumber(route)
	if number == "" {
		return models.ViewModel{}, fmt.Errorf("route %q has no route number", route)
	}

	resp, err := b.client.Seek(ctx, stopID)
	if err != nil {
		return models.ViewModel{}, fmt.Errorf("seek stop %s: %w", stopID, err)
	}

	vehicles := reconcile.Reconcile(resp.Vehicles, number)
	ref := findRoute(resp.Routes, number)
	enr := b.enrich(ctx, vehicles, true)

	return models.ViewModel{
		RouteNumber: ref.Number,
		RouteName:   ref.Name,
		Color:       ref.Color,
		StopID:      stopID,
		Stop:        b.stop(stopID),
		Vehicles:    b.entries(vehicles, enr),
		FetchedAt:   b.clock.Now(),
	}, nil
}

// BuildVehicle builds the vehicle-detail screen for one vehicle serving stopID.
func (b *Builder) BuildVehicle(ctx context.Context, stopID, vehicleNumber string) (models.VehicleView, error) {
	vehicleNumber = strings.TrimSpace(vehicleNumber)

	resp, err := b.client.Seek(ctx, stopID)
	if err != nil {
		return models.VehicleView{}, fmt.Errorf("seek stop %s: %w", stopID, err)
	}

	var found []models.VehicleRecord
	for _, v := range reconcile.Reconcile(resp.Vehicles, "") {
		if v.VehicleNumber.String() == vehicleNumber {
			found = append(found, v)
			break
		}
	}
	if len(found) == 0 {
		return models.VehicleView{}, fmt.Errorf("%w: %s at %s", ErrVehicleNotFound, vehicleNumber, stopID)
	}

	enr := b.enrich(ctx, found, true)
	return models.VehicleView{
		StopID:    stopID,
		Stop:      b.stop(stopID),
		Vehicle:   b.entry(found[0], enr),
		FetchedAt: b.clock.Now(),
	}, nil
}

func (b *Builder) stop(stopID string) *models.StopRecord {
	if b.stops == nil {
		return nil
	}
	rec, ok := b.stops.Lookup(stopID)
	if !ok {
		return nil
	}
	return &rec
}

// enrichment is the per-vehicle data fetched after the vehicle list of a
// pass is known. Missing keys mean the lookup failed or returned nothing.
type enrichment struct {
	locations map[string]*models.Location
	delays    map[string]*string
}

func (b *Builder) enrich(ctx context.Context, vehicles []models.VehicleRecord, withInfo bool) enrichment {
	enr := enrichment{
		locations: make(map[string]*models.Location),
		delays:    make(map[string]*string),
	}
	numbers := reconcile.VehicleNumbers(vehicles)
	if len(numbers) == 0 {
		return enr
	}

	locs, err := b.client.VehicleLocations(ctx, numbers)
	if err != nil {
		logging.LogError(b.logger, "vehicle locations unavailable", err, slog.Int("vehicles", len(numbers)))
	}
	for _, l := range locs {
		if loc := l.Location(); loc != nil {
			enr.locations[l.VehicleID.String()] = loc
		}
	}

	if !withInfo {
		return enr
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(b.concurrency)
	for _, number := range numbers {
		g.Go(func() error {
			info, err := b.client.VehicleInfo(ctx, number)
			if err != nil {
				logging.LogError(b.logger, "vehicle info unavailable", err, slog.String("vehicle", number))
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			if info.Delay != nil {
				enr.delays[number] = info.Delay
			}
			if _, ok := enr.locations[number]; !ok && info.Location != nil && info.Location.Known() {
				loc := *info.Location
				enr.locations[number] = &loc
			}
			return nil
		})
	}
	_ = g.Wait()
	return enr
}

func (b *Builder) entries(vehicles []models.VehicleRecord, enr enrichment) []models.VehicleEntry {
	out := make([]models.VehicleEntry, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, b.entry(v, enr))
	}
	return out
}

func (b *Builder) entry(v models.VehicleRecord, enr enrichment) models.VehicleEntry {
	number := strings.TrimSpace(v.VehicleNumber.String())
	minutes := v.Minutes.Ptr()

	e := models.VehicleEntry{
		ID:            v.ID,
		VehicleNumber: number,
		RouteNumber:   utils.RoutePrefix(v.ID),
		Minutes:       minutes,
		Arrival:       b.formatter.Format(minutes),
		Occupancy:     models.OccupancyUnknown,
		Destination:   v.Destination,
		Branch:        v.Branch(),
	}

	text := v.DelayText
	if d, ok := enr.delays[number]; ok {
		text = d
	}
	if d, ok := delay.Parse(text); ok {
		e.Delay = &d
	}

	if b.fleet != nil {
		if m, ok := b.fleet.Lookup(number); ok {
			e.Model = &m
		}
	}

	loc := enr.locations[number]
	if loc == nil && v.Location != nil && v.Location.Known() {
		l := *v.Location
		loc = &l
	}
	if loc != nil {
		e.Location = loc
		if loc.Occupancy != "" {
			e.Occupancy = loc.Occupancy
		}
	}
	return e
}
