package domain

import (
	"strconv"
	"time"
)

type DriverStatus string

const (
	DriverAvailable DriverStatus = "AVAILABLE"
	DriverBusy      DriverStatus = "BUSY"
	DriverEnRoute   DriverStatus = "EN_ROUTE"
	DriverOffline   DriverStatus = "OFFLINE"
)

type DriverField string

const (
	DriverName         DriverField = "name"
	DriverPhone        DriverField = "phone"
	DriverLicense      DriverField = "license_number"
	DriverVehicleClass DriverField = "vehicle_class"
	DriverPlate        DriverField = "plate_number"
	DriverStatusField  DriverField = "status"
	DriverRating       DriverField = "rating"
	DriverCreatedAt    DriverField = "created_at"
)

// DriverColumns is the export order of the fleet screen.
var DriverColumns = []DriverField{
	DriverName, DriverPhone, DriverLicense, DriverVehicleClass,
	DriverPlate, DriverStatusField, DriverRating, DriverCreatedAt,
}

var DriverSearchKeys = []DriverField{DriverName, DriverPhone, DriverLicense, DriverPlate}

// Driver is one row of the fleet screen.
type Driver struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Phone         string       `json:"phone"`
	LicenseNumber string       `json:"license_number"`
	VehicleClass  VehicleClass `json:"vehicle_class"`
	PlateNumber   string       `json:"plate_number"`
	Status        DriverStatus `json:"status"`
	Rating        float64      `json:"rating"`
	CreatedAt     time.Time    `json:"created_at"`
}

func (d Driver) RowID() string { return d.ID }

func (d Driver) WithRowID(id string) Driver {
	d.ID = id
	return d
}

func (d Driver) PhoneNumber() string { return d.Phone }

func (d Driver) Field(f DriverField) string {
	switch f {
	case DriverName:
		return d.Name
	case DriverPhone:
		return d.Phone
	case DriverLicense:
		return d.LicenseNumber
	case DriverVehicleClass:
		return string(d.VehicleClass)
	case DriverPlate:
		return d.PlateNumber
	case DriverStatusField:
		return string(d.Status)
	case DriverRating:
		return strconv.FormatFloat(d.Rating, 'f', 1, 64)
	case DriverCreatedAt:
		return formatTime(d.CreatedAt)
	}
	return ""
}

func ParseDriverField(name string) (DriverField, error) {
	return parseField(name, DriverColumns)
}
