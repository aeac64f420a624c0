// Package domain holds the rows managed by the console screens. Every row
// exposes a closed field set used for search, filters and export.
package domain

import (
	"errors"
	"strconv"
	"time"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrUnknownField = errors.New("unknown field")
)

// Reachable rows can receive SMS broadcasts.
type Reachable interface {
	PhoneNumber() string
}

// VehicleClass is the tariff category of a vehicle.
type VehicleClass string

const (
	VehicleEconomy VehicleClass = "ECONOMY"
	VehiclePremium VehicleClass = "PREMIUM"
	VehicleLuxury  VehicleClass = "LUXURY"
)

func (c VehicleClass) IsValid() bool {
	switch c {
	case VehicleEconomy, VehiclePremium, VehicleLuxury:
		return true
	}
	return false
}

// Overview is the dashboard summary shown above the booking screens.
type Overview struct {
	ActiveRides         int `json:"active_rides"`
	AvailableDrivers    int `json:"available_drivers"`
	BusyDrivers         int `json:"busy_drivers"`
	TotalRidesToday     int `json:"total_rides_today"`
	TotalRevenueToday   int `json:"total_revenue_today"`
	AverageWaitTime     int `json:"average_wait_time_minutes"`
	AverageRideDuration int `json:"average_ride_duration_minutes"`
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// parseField resolves name against a closed field list.
func parseField[F ~string](name string, fields []F) (F, error) {
	for _, f := range fields {
		if string(f) == name {
			return f, nil
		}
	}
	var zero F
	return zero, ErrUnknownField
}

// ErrUnsupported is returned by stores for operations a screen cannot perform.
var ErrUnsupported = errors.New("operation not supported")
