package domain

import "time"

// RideStatus is the lifecycle state of a booking.
type RideStatus string

const (
	StatusRequested  RideStatus = "REQUESTED"
	StatusMatched    RideStatus = "MATCHED"
	StatusEnRoute    RideStatus = "EN_ROUTE"
	StatusArrived    RideStatus = "ARRIVED"
	StatusInProgress RideStatus = "IN_PROGRESS"
	StatusCompleted  RideStatus = "COMPLETED"
	StatusCancelled  RideStatus = "CANCELLED"
)

// ActiveStatuses are the states of a booking that still needs dispatch attention.
var ActiveStatuses = []RideStatus{StatusRequested, StatusMatched, StatusEnRoute, StatusArrived, StatusInProgress}

func (s RideStatus) IsValid() bool {
	switch s {
	case StatusRequested, StatusMatched, StatusEnRoute, StatusArrived,
		StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type BookingField string

const (
	BookingRideNumber   BookingField = "ride_number"
	BookingPassenger    BookingField = "passenger_name"
	BookingDriver       BookingField = "driver_name"
	BookingStatus       BookingField = "status"
	BookingVehicleClass BookingField = "vehicle_class"
	BookingPickup       BookingField = "pickup_address"
	BookingDestination  BookingField = "destination_address"
	BookingFare         BookingField = "estimated_fare"
	BookingRequestedAt  BookingField = "requested_at"
)

var BookingColumns = []BookingField{
	BookingRideNumber, BookingPassenger, BookingDriver, BookingStatus, BookingVehicleClass,
	BookingPickup, BookingDestination, BookingFare, BookingRequestedAt,
}

var BookingSearchKeys = []BookingField{
	BookingRideNumber, BookingPassenger, BookingDriver, BookingPickup, BookingDestination,
}

// Booking is one row of the booking lifecycle screens.
type Booking struct {
	ID                 string       `json:"id"`
	RideNumber         string       `json:"ride_number"`
	PassengerID        string       `json:"passenger_id"`
	PassengerName      string       `json:"passenger_name"`
	DriverID           string       `json:"driver_id,omitempty"`
	DriverName         string       `json:"driver_name,omitempty"`
	Status             RideStatus   `json:"status"`
	VehicleClass       VehicleClass `json:"vehicle_class"`
	PickupAddress      string       `json:"pickup_address"`
	DestinationAddress string       `json:"destination_address"`
	EstimatedFare      float64      `json:"estimated_fare"`
	RequestedAt        time.Time    `json:"requested_at"`
}

func (b Booking) RowID() string { return b.ID }

func (b Booking) WithRowID(id string) Booking {
	b.ID = id
	return b
}

func (b Booking) Field(f BookingField) string {
	switch f {
	case BookingRideNumber:
		return b.RideNumber
	case BookingPassenger:
		return b.PassengerName
	case BookingDriver:
		return b.DriverName
	case BookingStatus:
		return string(b.Status)
	case BookingVehicleClass:
		return string(b.VehicleClass)
	case BookingPickup:
		return b.PickupAddress
	case BookingDestination:
		return b.DestinationAddress
	case BookingFare:
		return formatMoney(b.EstimatedFare)
	case BookingRequestedAt:
		return formatTime(b.RequestedAt)
	}
	return ""
}

func ParseBookingField(name string) (BookingField, error) {
	return parseField(name, BookingColumns)
}
