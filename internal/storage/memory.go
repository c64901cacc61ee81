package storage

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/boykin345/ConversationalAI/internal/models"
)

// MemoryStore holds the ticket inventory and QA dataset in memory
type MemoryStore struct {
	tickets map[int]*models.Ticket
	qaPairs []models.QAPair

	// Mutexes for thread safety
	ticketMu sync.RWMutex
	qaMu     sync.RWMutex
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tickets: make(map[int]*models.Ticket),
	}
}

// Ticket operations

func (m *MemoryStore) SeedTickets(tickets []models.Ticket) error {
	m.ticketMu.Lock()
	defer m.ticketMu.Unlock()

	for i := range tickets {
		t := tickets[i]
		m.tickets[t.FlightID] = &t
	}
	return nil
}

func (m *MemoryStore) GetTicket(flightID int) (*models.Ticket, error) {
	m.ticketMu.RLock()
	defer m.ticketMu.RUnlock()

	ticket, exists := m.tickets[flightID]
	if !exists {
		return nil, ErrTicketNotFound
	}
	copied := *ticket
	return &copied, nil
}

// SearchTickets returns available flights matching the route and date,
// ordered by flight id. When the search is flexible, flights up to three
// days either side of the requested date qualify.
func (m *MemoryStore) SearchTickets(search *models.TicketSearch) ([]*models.Ticket, error) {
	m.ticketMu.RLock()
	defer m.ticketMu.RUnlock()

	var results []*models.Ticket
	for _, ticket := range m.tickets {
		if ticket.AvailableSeats <= 0 {
			continue
		}
		if !strings.EqualFold(ticket.DepartureCity, search.DepartureCity) {
			continue
		}
		if !strings.EqualFold(ticket.DestinationCity, search.DestinationCity) {
			continue
		}
		if !dateMatches(ticket.DepartureDate, search.DepartureDate, search.Flexible) {
			continue
		}
		copied := *ticket
		results = append(results, &copied)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].FlightID < results[j].FlightID
	})
	return results, nil
}

// ReserveSeat atomically checks and decrements the seat count of a flight.
func (m *MemoryStore) ReserveSeat(flightID int) error {
	m.ticketMu.Lock()
	defer m.ticketMu.Unlock()

	ticket, exists := m.tickets[flightID]
	if !exists {
		return ErrTicketNotFound
	}
	if ticket.AvailableSeats <= 0 {
		return ErrNoSeats
	}
	ticket.AvailableSeats--
	return nil
}

// QA dataset operations

func (m *MemoryStore) SeedQAPairs(pairs []models.QAPair) error {
	m.qaMu.Lock()
	defer m.qaMu.Unlock()

	m.qaPairs = append([]models.QAPair(nil), pairs...)
	return nil
}

func (m *MemoryStore) GetQAPairs() ([]models.QAPair, error) {
	m.qaMu.RLock()
	defer m.qaMu.RUnlock()

	return append([]models.QAPair(nil), m.qaPairs...), nil
}

func dateMatches(have, want time.Time, flexible bool) bool {
	if want.IsZero() {
		return true
	}
	haveDay := time.Date(have.Year(), have.Month(), have.Day(), 0, 0, 0, 0, time.UTC)
	wantDay := time.Date(want.Year(), want.Month(), want.Day(), 0, 0, 0, 0, time.UTC)
	if flexible {
		diff := haveDay.Sub(wantDay)
		if diff < 0 {
			diff = -diff
		}
		return diff <= 3*24*time.Hour
	}
	return haveDay.Equal(wantDay)
}
