package domain

import "strconv"

type FareField string

const (
	FareVehicleClass FareField = "vehicle_class"
	FareBase         FareField = "base_fare"
	FarePerKm        FareField = "per_km_rate"
	FareMinimum      FareField = "minimum_fare"
	FareActive       FareField = "active"
)

var FareColumns = []FareField{FareVehicleClass, FareBase, FarePerKm, FareMinimum, FareActive}

var FareSearchKeys = []FareField{FareVehicleClass}

// Fare is one tariff row: a base charge plus a per-kilometre rate, never
// below the minimum fare.
type Fare struct {
	ID           string       `json:"id"`
	VehicleClass VehicleClass `json:"vehicle_class"`
	BaseFare     float64      `json:"base_fare"`
	PerKmRate    float64      `json:"per_km_rate"`
	MinimumFare  float64      `json:"minimum_fare"`
	Active       bool         `json:"active"`
}

// DefaultFares are the tariffs seeded for a new deployment.
func DefaultFares() []Fare {
	return []Fare{
		{VehicleClass: VehicleEconomy, BaseFare: 100, PerKmRate: 15, MinimumFare: 100, Active: true},
		{VehicleClass: VehiclePremium, BaseFare: 150, PerKmRate: 25, MinimumFare: 150, Active: true},
		{VehicleClass: VehicleLuxury, BaseFare: 250, PerKmRate: 40, MinimumFare: 250, Active: true},
	}
}

func (f Fare) RowID() string { return f.ID }

func (f Fare) WithRowID(id string) Fare {
	f.ID = id
	return f
}

func (f Fare) Field(field FareField) string {
	switch field {
	case FareVehicleClass:
		return string(f.VehicleClass)
	case FareBase:
		return formatMoney(f.BaseFare)
	case FarePerKm:
		return formatMoney(f.PerKmRate)
	case FareMinimum:
		return formatMoney(f.MinimumFare)
	case FareActive:
		return strconv.FormatBool(f.Active)
	}
	return ""
}

// Estimate returns the fare for a trip of distanceKm.
func (f Fare) Estimate(distanceKm float64) float64 {
	if distanceKm < 0 {
		distanceKm = 0
	}
	return max(f.BaseFare+distanceKm*f.PerKmRate, f.MinimumFare)
}

func ParseFareField(name string) (FareField, error) {
	return parseField(name, FareColumns)
}
