package storage

import (
	"errors"

	"github.com/boykin345/ConversationalAI/internal/models"
)

var (
	// ErrTicketNotFound reports a flight id absent from the inventory.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrNoSeats reports a reserve attempt on a sold-out flight.
	ErrNoSeats = errors.New("no seats available")
)

// Store defines the interface for inventory and dataset storage.
// ReserveSeat is a single atomic check-and-decrement so a concurrent
// deployment can never oversell a flight.
type Store interface {
	// Ticket inventory
	SeedTickets(tickets []models.Ticket) error
	GetTicket(flightID int) (*models.Ticket, error)
	SearchTickets(search *models.TicketSearch) ([]*models.Ticket, error)
	ReserveSeat(flightID int) error

	// QA dataset
	SeedQAPairs(pairs []models.QAPair) error
	GetQAPairs() ([]models.QAPair, error)
}
