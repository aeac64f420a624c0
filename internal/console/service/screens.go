package service

import (
	"dispatch-console/internal/console/domain"
	"dispatch-console/pkg/config"
	"dispatch-console/pkg/liststate"
)

// Screen names.
const (
	ScreenDrivers  = "drivers"
	ScreenUsers    = "users"
	ScreenFares    = "fares"
	ScreenPromos   = "promos"
	ScreenBookings = "bookings"
)

// Stores are the backing stores of the console screens.
type Stores struct {
	Drivers  domain.Store[domain.Driver]
	Users    domain.Store[domain.User]
	Fares    domain.Store[domain.Fare]
	Promos   domain.Store[domain.Promo]
	Bookings domain.Store[domain.Booking]
}

type screenDefaults struct {
	bulkDelete bool
	export     bool
}

// Bulk delete on fares is opt-in.
var builtinDefaults = map[string]screenDefaults{
	ScreenDrivers:  {bulkDelete: true, export: true},
	ScreenUsers:    {bulkDelete: true, export: true},
	ScreenFares:    {bulkDelete: false, export: true},
	ScreenPromos:   {bulkDelete: true, export: true},
	ScreenBookings: {bulkDelete: true, export: true},
}

// NewConsoleRegistry registers every screen, applying per-screen settings
// from cfg over the built-in defaults. Screens without a store are left out.
func NewConsoleRegistry(stores Stores, cfg config.ConsoleConfig, deps Deps) *Registry {
	r := NewRegistry()
	deps = deps.withDefaults()

	if stores.Drivers != nil {
		RegisterList(r, Definition[domain.Driver, domain.DriverField]{
			Name:   ScreenDrivers,
			Store:  stores.Drivers,
			Parse:  domain.ParseDriverField,
			Config: listConfig(ScreenDrivers, cfg, domain.DriverSearchKeys, domain.DriverColumns),
		}, deps)
	}
	if stores.Users != nil {
		RegisterList(r, Definition[domain.User, domain.UserField]{
			Name:   ScreenUsers,
			Store:  stores.Users,
			Parse:  domain.ParseUserField,
			Config: listConfig(ScreenUsers, cfg, domain.UserSearchKeys, domain.UserColumns),
		}, deps)
	}
	if stores.Fares != nil {
		RegisterList(r, Definition[domain.Fare, domain.FareField]{
			Name:   ScreenFares,
			Store:  stores.Fares,
			Parse:  domain.ParseFareField,
			Config: listConfig(ScreenFares, cfg, domain.FareSearchKeys, domain.FareColumns),
		}, deps)
	}
	if stores.Promos != nil {
		RegisterList(r, Definition[domain.Promo, domain.PromoField]{
			Name:   ScreenPromos,
			Store:  stores.Promos,
			Parse:  domain.ParsePromoField,
			Config: listConfig(ScreenPromos, cfg, domain.PromoSearchKeys, domain.PromoColumns),
		}, deps)
	}
	if stores.Bookings != nil {
		RegisterList(r, Definition[domain.Booking, domain.BookingField]{
			Name:   ScreenBookings,
			Store:  stores.Bookings,
			Parse:  domain.ParseBookingField,
			Config: listConfig(ScreenBookings, cfg, domain.BookingSearchKeys, domain.BookingColumns),
		}, deps)
	}
	return r
}

func listConfig[F ~string](name string, cfg config.ConsoleConfig, searchKeys, columns []F) liststate.Config[F] {
	d := builtinDefaults[name]
	sc := cfg.Screen(name)

	pageSize := cfg.DefaultPageSize
	if sc.PageSize > 0 {
		pageSize = sc.PageSize
	}
	if sc.BulkDelete != nil {
		d.bulkDelete = *sc.BulkDelete
	}
	if sc.Export != nil {
		d.export = *sc.Export
	}

	return liststate.Config[F]{
		SearchKeys:       searchKeys,
		Columns:          columns,
		PageSize:         pageSize,
		EnableBulkDelete: d.bulkDelete,
		EnableExport:     d.export,
	}
}
