package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/boykin345/ConversationalAI/internal/models"
)

func seededStore(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	err := store.SeedTickets([]models.Ticket{
		{FlightID: 101, DepartureCity: "London", DestinationCity: "Paris",
			DepartureDate: date(2030, 12, 1), AvailableSeats: 5, Price: 120.50},
		{FlightID: 102, DepartureCity: "London", DestinationCity: "Paris",
			DepartureDate: date(2030, 12, 1), AvailableSeats: 1, Price: 89.99},
		{FlightID: 103, DepartureCity: "Paris", DestinationCity: "London",
			DepartureDate: date(2030, 12, 8), AvailableSeats: 4, Price: 110.00},
		{FlightID: 104, DepartureCity: "London", DestinationCity: "Rome",
			DepartureDate: date(2030, 12, 3), AvailableSeats: 0, Price: 145.25},
	})
	if err != nil {
		t.Fatalf("SeedTickets: %v", err)
	}
	return store
}

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func TestSearchTickets(t *testing.T) {
	store := seededStore(t)

	results, err := store.SearchTickets(&models.TicketSearch{
		DepartureCity:   "london",
		DestinationCity: "paris",
		DepartureDate:   date(2030, 12, 1),
	})
	if err != nil {
		t.Fatalf("SearchTickets: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].FlightID != 101 || results[1].FlightID != 102 {
		t.Errorf("results not ordered by flight id: %d, %d", results[0].FlightID, results[1].FlightID)
	}
}

func TestSearchTicketsExcludesSoldOut(t *testing.T) {
	store := seededStore(t)

	results, err := store.SearchTickets(&models.TicketSearch{
		DepartureCity:   "London",
		DestinationCity: "Rome",
		DepartureDate:   date(2030, 12, 3),
	})
	if err != nil {
		t.Fatalf("SearchTickets: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("sold-out flight should not appear, got %d results", len(results))
	}
}

func TestSearchTicketsFlexibleWindow(t *testing.T) {
	store := seededStore(t)

	// Exact date misses by two days; the flexible window still finds it.
	exact, _ := store.SearchTickets(&models.TicketSearch{
		DepartureCity:   "Paris",
		DestinationCity: "London",
		DepartureDate:   date(2030, 12, 10),
	})
	if len(exact) != 0 {
		t.Fatalf("exact search should miss, got %d", len(exact))
	}

	flexible, _ := store.SearchTickets(&models.TicketSearch{
		DepartureCity:   "Paris",
		DestinationCity: "London",
		DepartureDate:   date(2030, 12, 10),
		Flexible:        true,
	})
	if len(flexible) != 1 {
		t.Errorf("flexible search should find the nearby flight, got %d", len(flexible))
	}
}

func TestReserveSeat(t *testing.T) {
	store := seededStore(t)

	if err := store.ReserveSeat(101); err != nil {
		t.Fatalf("ReserveSeat: %v", err)
	}
	ticket, err := store.GetTicket(101)
	if err != nil {
		t.Fatalf("GetTicket: %v", err)
	}
	if ticket.AvailableSeats != 4 {
		t.Errorf("seats = %d, want 4", ticket.AvailableSeats)
	}
}

func TestReserveSeatNeverOversells(t *testing.T) {
	store := seededStore(t)

	if err := store.ReserveSeat(102); err != nil {
		t.Fatalf("first reserve: %v", err)
	}
	if err := store.ReserveSeat(102); !errors.Is(err, ErrNoSeats) {
		t.Errorf("second reserve err = %v, want ErrNoSeats", err)
	}
	ticket, _ := store.GetTicket(102)
	if ticket.AvailableSeats != 0 {
		t.Errorf("seats = %d, want 0", ticket.AvailableSeats)
	}
}

func TestReserveSeatUnknownFlight(t *testing.T) {
	store := seededStore(t)
	if err := store.ReserveSeat(999); !errors.Is(err, ErrTicketNotFound) {
		t.Errorf("err = %v, want ErrTicketNotFound", err)
	}
}

func TestBookingRemovesLastSeatFromSearch(t *testing.T) {
	store := seededStore(t)

	search := &models.TicketSearch{
		DepartureCity:   "London",
		DestinationCity: "Paris",
		DepartureDate:   date(2030, 12, 1),
	}

	before, _ := store.SearchTickets(search)
	if len(before) != 2 {
		t.Fatalf("got %d candidates before booking, want 2", len(before))
	}

	if err := store.ReserveSeat(102); err != nil {
		t.Fatalf("ReserveSeat: %v", err)
	}

	after, _ := store.SearchTickets(search)
	if len(after) != 1 || after[0].FlightID != 101 {
		t.Errorf("sold-out flight still listed after booking: %+v", after)
	}
}

func TestSearchResultsAreCopies(t *testing.T) {
	store := seededStore(t)

	results, _ := store.SearchTickets(&models.TicketSearch{
		DepartureCity:   "London",
		DestinationCity: "Paris",
		DepartureDate:   date(2030, 12, 1),
	})
	results[0].AvailableSeats = 0

	ticket, _ := store.GetTicket(results[0].FlightID)
	if ticket.AvailableSeats == 0 {
		t.Error("mutating a search result must not touch the inventory")
	}
}

func TestQAPairsRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	pairs := []models.QAPair{
		{Question: "what is inflation", Answer: "A rise in prices over time."},
	}
	if err := store.SeedQAPairs(pairs); err != nil {
		t.Fatalf("SeedQAPairs: %v", err)
	}
	got, err := store.GetQAPairs()
	if err != nil {
		t.Fatalf("GetQAPairs: %v", err)
	}
	if len(got) != 1 || got[0].Answer != pairs[0].Answer {
		t.Errorf("GetQAPairs = %+v", got)
	}
}
