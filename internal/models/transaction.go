package models

import "time"

// TripType distinguishes single and return journeys
type TripType int

const (
	TripUnset TripType = iota
	TripSingle
	TripReturn
)

func (t TripType) String() string {
	switch t {
	case TripSingle:
		return "single"
	case TripReturn:
		return "return"
	default:
		return "unset"
	}
}

// BookingStep marks how far a booking transaction has progressed.
// Steps only ever move forward; cancelling discards the whole transaction.
type BookingStep int

const (
	StepCollectCities BookingStep = iota
	StepCollectTripType
	StepCollectDates
	StepCollectReturnDate
	StepNoAvailability
	StepSelectDeparture
	StepSelectReturn
	StepConfirm
)

func (s BookingStep) String() string {
	switch s {
	case StepCollectCities:
		return "collect_cities"
	case StepCollectTripType:
		return "collect_trip_type"
	case StepCollectDates:
		return "collect_dates"
	case StepCollectReturnDate:
		return "collect_return_date"
	case StepNoAvailability:
		return "no_availability"
	case StepSelectDeparture:
		return "select_departure"
	case StepSelectReturn:
		return "select_return"
	case StepConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// TransactionState holds every slot a booking transaction collects.
// Fields fill strictly in step order and are only cleared by cancel or finalize.
type TransactionState struct {
	DepartureCity   string
	DestinationCity string
	TripType        TripType
	DepartureDate   time.Time
	ReturnDate      time.Time
	Flexible        bool

	DepartureOptions []*Ticket
	ReturnOptions    []*Ticket
	SelectedOutbound *Ticket
	SelectedReturn   *Ticket

	Step BookingStep
}
