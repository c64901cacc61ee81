package models

import "time"

// Ticket represents one bookable flight in the inventory
type Ticket struct {
	FlightID        int       `json:"flight_id" gorm:"primaryKey;column:flight_id"`
	DepartureCity   string    `json:"departure_city"`
	DestinationCity string    `json:"destination_city"`
	DepartureDate   time.Time `json:"departure_date"`
	AvailableSeats  int       `json:"available_seats"`
	Price           float64   `json:"price"`
}

// TicketSearch parameters for searching the inventory
type TicketSearch struct {
	DepartureCity   string    `json:"departure_city"`
	DestinationCity string    `json:"destination_city"`
	DepartureDate   time.Time `json:"departure_date"`
	Flexible        bool      `json:"flexible"`
}

// Route renders the ticket's leg as "City -> City" for listings
func (t *Ticket) Route() string {
	return t.DepartureCity + " -> " + t.DestinationCity
}
