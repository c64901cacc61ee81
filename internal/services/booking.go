package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/boykin345/ConversationalAI/internal/models"
	"github.com/boykin345/ConversationalAI/internal/nlp"
	"github.com/boykin345/ConversationalAI/internal/storage"
	"github.com/boykin345/ConversationalAI/pkg/log"
)

const dateFormat = "02/01/2006"

var (
	bookingIntentPattern = regexp.MustCompile(`\b(book|reserve|booking)\b.*\b(flight|flights|ticket|tickets|fly)\b|\b(flight|ticket)\b.*\b(book|reserve)\b`)
	cancelPattern        = regexp.MustCompile(`\b(quit|cancel|stop|abort)\b.*\btransaction\b|^quit$`)
	bareCityPattern      = regexp.MustCompile(`^[a-z]+(?: [a-z]+)*$`)
	selectionPattern     = regexp.MustCompile(`-?\d+`)

	// Booking verbiage ahead of the cities would otherwise be captured as a
	// city name by the bare "a to b" extraction forms.
	cityNoisePattern = regexp.MustCompile(`^.*?\b(?:book|reserve|booking|fly|flying|travel|travelling|go|going)\b(?: (?:a|an|the|me|us|some))*\s*(?:flight|flights|ticket|tickets|trip|seats?)?`)
)

// IsBookingRequest reports whether an utterance asks to start a flight booking.
func IsBookingRequest(utterance string) bool {
	return bookingIntentPattern.MatchString(nlp.Normalize(utterance))
}

// BookingFlow is the slot-filling state machine of one booking transaction.
// Slots fill strictly forward; a cancel command in any state discards
// everything. The flow owns its TransactionState exclusively and touches the
// inventory only through the store's atomic reserve operation.
type BookingFlow struct {
	store storage.Store
	state *models.TransactionState
	now   func() time.Time

	// Which leg a failed search was for, so a replacement date in the
	// no-availability state updates the right slot.
	failedLeg models.BookingStep
}

// NewBookingFlow opens a transaction in the collect-cities state.
func NewBookingFlow(store storage.Store, now func() time.Time) *BookingFlow {
	if now == nil {
		now = time.Now
	}
	return &BookingFlow{
		store: store,
		state: &models.TransactionState{Step: models.StepCollectCities},
		now:   now,
	}
}

// State exposes the transaction state for inspection in tests.
func (f *BookingFlow) State() *models.TransactionState {
	return f.state
}

// Start consumes the utterance that triggered the booking, which may already
// carry cities and dates ("book a flight from London to Paris").
func (f *BookingFlow) Start(utterance string) string {
	if dates, ok := nlp.ExtractTravelDates(utterance, f.now()); ok || dates.Flexible {
		if ok {
			f.state.DepartureDate = dates.Departure
			f.state.ReturnDate = dates.Return
		}
		f.state.Flexible = f.state.Flexible || dates.Flexible
	}
	reply, _ := f.handleCities(utterance)
	return reply
}

// Handle processes one turn of the transaction. done reports that the
// transaction finished (finalized or cancelled) and must be discarded.
func (f *BookingFlow) Handle(utterance string) (reply string, done bool) {
	if cancelPattern.MatchString(nlp.Normalize(utterance)) {
		return "No problem, I have cancelled the booking. What else can I do for you?", true
	}

	switch f.state.Step {
	case models.StepCollectCities:
		return f.handleCities(utterance)
	case models.StepCollectTripType:
		return f.handleTripType(utterance)
	case models.StepCollectDates:
		return f.handleDates(utterance)
	case models.StepCollectReturnDate:
		return f.handleReturnDate(utterance)
	case models.StepNoAvailability:
		return f.handleNoAvailability(utterance)
	case models.StepSelectDeparture:
		return f.handleSelectDeparture(utterance)
	case models.StepSelectReturn:
		return f.handleSelectReturn(utterance)
	case models.StepConfirm:
		return f.handleConfirm(utterance)
	default:
		return "Sorry, something went wrong with the booking. Let's start over: where are you flying from and to?", false
	}
}

func (f *BookingFlow) handleCities(utterance string) (string, bool) {
	cleaned := strings.TrimSpace(cityNoisePattern.ReplaceAllString(nlp.Normalize(utterance), ""))
	pair, ok := nlp.ExtractCityPair(cleaned)
	if !ok {
		// A re-prompt for one missing side accepts a bare city name.
		onlyOneMissing := (f.state.DepartureCity == "") != (f.state.DestinationCity == "")
		if onlyOneMissing && cleaned != "" && bareCityPattern.MatchString(cleaned) {
			if f.state.DepartureCity == "" {
				pair.Departure = nlp.TitleCase(cleaned)
			} else {
				pair.Destination = nlp.TitleCase(cleaned)
			}
			ok = true
		}
	}
	if ok {
		if pair.Departure != "" && f.state.DepartureCity == "" {
			f.state.DepartureCity = pair.Departure
		}
		if pair.Destination != "" && f.state.DestinationCity == "" {
			f.state.DestinationCity = pair.Destination
		}
	}

	switch {
	case f.state.DepartureCity == "" && f.state.DestinationCity == "":
		return "Where are you flying from and to? For example: 'from London to Paris'.", false
	case f.state.DepartureCity == "":
		return fmt.Sprintf("Got it, flying to %s. Which city are you departing from?", f.state.DestinationCity), false
	case f.state.DestinationCity == "":
		return fmt.Sprintf("Got it, departing from %s. Which city are you flying to?", f.state.DepartureCity), false
	}

	f.state.Step = models.StepCollectTripType
	return fmt.Sprintf("%s to %s, lovely. Is this a single or a return trip?",
		f.state.DepartureCity, f.state.DestinationCity), false
}

func (f *BookingFlow) handleTripType(utterance string) (string, bool) {
	normalized := nlp.Normalize(utterance)
	switch {
	case strings.Contains(normalized, "return"):
		f.state.TripType = models.TripReturn
	case strings.Contains(normalized, "single"),
		strings.Contains(normalized, "one-way"),
		strings.Contains(normalized, "one way"):
		f.state.TripType = models.TripSingle
	default:
		return "Sorry, is this a single or a return trip?", false
	}

	f.state.Step = models.StepCollectDates
	if dateReply, done := f.resumeDates(); dateReply != "" {
		return dateReply, done
	}
	if f.state.TripType == models.TripReturn {
		return "When would you like to depart, and when would you like to return?", false
	}
	return "When would you like to depart?", false
}

// resumeDates advances past date collection when the triggering utterance
// already supplied the dates this trip type needs.
func (f *BookingFlow) resumeDates() (string, bool) {
	if f.state.DepartureDate.IsZero() {
		return "", false
	}
	if f.state.TripType == models.TripReturn && f.state.ReturnDate.IsZero() {
		f.state.Step = models.StepCollectReturnDate
		return fmt.Sprintf("Departing on %s. When would you like to return?",
			f.state.DepartureDate.Format(dateFormat)), false
	}
	return f.runSearch()
}

func (f *BookingFlow) handleDates(utterance string) (string, bool) {
	dates, ok := nlp.ExtractTravelDates(utterance, f.now())
	f.state.Flexible = f.state.Flexible || dates.Flexible
	if !ok {
		return "When would you like to travel? You can say something like '12 December' or '01/12/2030'.", false
	}

	f.state.DepartureDate = dates.Departure
	if !dates.Return.IsZero() {
		f.state.ReturnDate = dates.Return
	}

	if f.state.TripType == models.TripReturn && f.state.ReturnDate.IsZero() {
		f.state.Step = models.StepCollectReturnDate
		return fmt.Sprintf("Departing on %s. When would you like to return?",
			f.state.DepartureDate.Format(dateFormat)), false
	}
	return f.runSearch()
}

func (f *BookingFlow) handleReturnDate(utterance string) (string, bool) {
	date, ok := nlp.ExtractSingleDate(utterance, f.now())
	if !ok {
		return "When would you like to return? You can say something like '19 December' or '19/12/2030'.", false
	}
	f.state.ReturnDate = date
	return f.runSearch()
}

// runSearch queries the inventory for both legs and either presents the
// candidate lists or reports no availability. The transition into searching
// needs no extra user turn once the required dates are present.
func (f *BookingFlow) runSearch() (string, bool) {
	outbound, err := f.store.SearchTickets(&models.TicketSearch{
		DepartureCity:   f.state.DepartureCity,
		DestinationCity: f.state.DestinationCity,
		DepartureDate:   f.state.DepartureDate,
		Flexible:        f.state.Flexible,
	})
	if err != nil {
		log.Error(log.Fields{"error": err.Error()}, "inventory search failed")
		return "Sorry, I couldn't search for flights just now. Please try again.", false
	}
	if len(outbound) == 0 {
		f.state.Step = models.StepNoAvailability
		f.failedLeg = models.StepSelectDeparture
		return fmt.Sprintf("I'm sorry, there are no flights from %s to %s on %s. You can give me another date, or say 'quit transaction' to cancel.",
			f.state.DepartureCity, f.state.DestinationCity, f.state.DepartureDate.Format(dateFormat)), false
	}
	f.state.DepartureOptions = outbound

	if f.state.TripType == models.TripReturn {
		inbound, err := f.store.SearchTickets(&models.TicketSearch{
			DepartureCity:   f.state.DestinationCity,
			DestinationCity: f.state.DepartureCity,
			DepartureDate:   f.state.ReturnDate,
			Flexible:        f.state.Flexible,
		})
		if err != nil {
			log.Error(log.Fields{"error": err.Error()}, "inventory search failed")
			return "Sorry, I couldn't search for flights just now. Please try again.", false
		}
		if len(inbound) == 0 {
			f.state.Step = models.StepNoAvailability
			f.failedLeg = models.StepSelectReturn
			return fmt.Sprintf("I found outbound flights, but nothing from %s back to %s on %s. You can give me another return date, or say 'quit transaction' to cancel.",
				f.state.DestinationCity, f.state.DepartureCity, f.state.ReturnDate.Format(dateFormat)), false
		}
		f.state.ReturnOptions = inbound
	}

	f.state.Step = models.StepSelectDeparture
	var sb strings.Builder
	sb.WriteString("Here are the available departure flights:\n")
	sb.WriteString(formatTicketList(f.state.DepartureOptions))
	if f.state.TripType == models.TripReturn {
		sb.WriteString("And the available return flights:\n")
		sb.WriteString(formatTicketList(f.state.ReturnOptions))
	}
	sb.WriteString("Please choose a departure flight by number.")
	return sb.String(), false
}

func (f *BookingFlow) handleNoAvailability(utterance string) (string, bool) {
	date, ok := nlp.ExtractNewReturnDate(utterance, f.now())
	if !ok {
		return "I still need a new date to search again, for example '23/12/2030' or 'the 23rd'. Or say 'quit transaction' to cancel.", false
	}
	if f.failedLeg == models.StepSelectReturn {
		f.state.ReturnDate = date
	} else {
		f.state.DepartureDate = date
	}
	return f.runSearch()
}

func (f *BookingFlow) handleSelectDeparture(utterance string) (string, bool) {
	ticket, ok := pickTicket(utterance, f.state.DepartureOptions)
	if !ok {
		return fmt.Sprintf("Please pick a departure flight between 1 and %d.", len(f.state.DepartureOptions)), false
	}
	f.state.SelectedOutbound = ticket

	if f.state.TripType == models.TripReturn {
		f.state.Step = models.StepSelectReturn
		return "Great. Now choose a return flight by number.", false
	}
	f.state.Step = models.StepConfirm
	return f.confirmationPrompt(), false
}

func (f *BookingFlow) handleSelectReturn(utterance string) (string, bool) {
	ticket, ok := pickTicket(utterance, f.state.ReturnOptions)
	if !ok {
		return fmt.Sprintf("Please pick a return flight between 1 and %d.", len(f.state.ReturnOptions)), false
	}
	f.state.SelectedReturn = ticket
	f.state.Step = models.StepConfirm
	return f.confirmationPrompt(), false
}

func (f *BookingFlow) confirmationPrompt() string {
	var sb strings.Builder
	sb.WriteString("Here is your booking:\n")
	sb.WriteString("  " + formatTicket(f.state.SelectedOutbound) + "\n")
	if f.state.SelectedReturn != nil {
		sb.WriteString("  " + formatTicket(f.state.SelectedReturn) + "\n")
	}
	sb.WriteString(fmt.Sprintf("Total price: £%.2f. Type 'proceed' to confirm or 'cancel' to abort.", f.totalPrice()))
	return sb.String()
}

func (f *BookingFlow) handleConfirm(utterance string) (string, bool) {
	normalized := nlp.Normalize(utterance)
	switch {
	case strings.Contains(normalized, "proceed"):
		return f.finalize()
	case strings.Contains(normalized, "cancel"):
		return "No problem, I have cancelled the booking. What else can I do for you?", true
	default:
		return "Type 'proceed' to confirm the booking or 'cancel' to abort.", false
	}
}

// finalize reserves one seat per selected flight and reports the total.
func (f *BookingFlow) finalize() (string, bool) {
	selected := []*models.Ticket{f.state.SelectedOutbound}
	if f.state.SelectedReturn != nil {
		selected = append(selected, f.state.SelectedReturn)
	}
	for _, ticket := range selected {
		if err := f.store.ReserveSeat(ticket.FlightID); err != nil {
			if errors.Is(err, storage.ErrNoSeats) {
				log.Warn(log.Fields{"flight_id": ticket.FlightID}, "seat sold out before finalize")
				return fmt.Sprintf("I'm sorry, the last seat on flight %d was just taken. The booking has been cancelled.", ticket.FlightID), true
			}
			log.Error(log.Fields{"flight_id": ticket.FlightID, "error": err.Error()}, "seat reservation failed")
			return "Sorry, I couldn't complete the booking. Please try again later.", true
		}
	}

	total := f.totalPrice()
	log.Info(log.Fields{
		"outbound": f.state.SelectedOutbound.FlightID,
		"total":    total,
	}, "booking finalized")
	return fmt.Sprintf("Your booking is confirmed! Total price: £%.2f. Have a great trip!", total), true
}

func (f *BookingFlow) totalPrice() float64 {
	total := f.state.SelectedOutbound.Price
	if f.state.SelectedReturn != nil {
		total += f.state.SelectedReturn.Price
	}
	return total
}

// pickTicket parses a 1-based index reply. Non-numeric or out-of-range input
// picks nothing, leaving the candidates untouched.
func pickTicket(utterance string, options []*models.Ticket) (*models.Ticket, bool) {
	m := selectionPattern.FindString(nlp.Normalize(utterance))
	if m == "" {
		return nil, false
	}
	idx, err := strconv.Atoi(m)
	if err != nil || idx < 1 || idx > len(options) {
		return nil, false
	}
	return options[idx-1], true
}

func formatTicketList(tickets []*models.Ticket) string {
	var sb strings.Builder
	for i, t := range tickets {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, formatTicket(t)))
	}
	return sb.String()
}

func formatTicket(t *models.Ticket) string {
	return fmt.Sprintf("Flight %d: %s on %s - £%.2f (%d seats left)",
		t.FlightID, t.Route(), t.DepartureDate.Format(dateFormat), t.Price, t.AvailableSeats)
}
