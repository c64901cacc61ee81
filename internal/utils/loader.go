package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/boykin345/ConversationalAI/internal/models"
)

// LoadQAPairs reads a Question,Answer CSV into QA pairs. Questions are
// lower-cased so retrieval stays case-insensitive; duplicate questions keep
// the first answer.
func LoadQAPairs(path string) ([]models.QAPair, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	questionIdx, err := columnIndex(header, "question")
	if err != nil {
		return nil, err
	}
	answerIdx, err := columnIndex(header, "answer")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var pairs []models.QAPair
	for _, row := range rows {
		if len(row) <= questionIdx || len(row) <= answerIdx {
			continue
		}
		question := strings.ToLower(strings.TrimSpace(row[questionIdx]))
		if question == "" || seen[question] {
			continue
		}
		seen[question] = true
		pairs = append(pairs, models.QAPair{Question: question, Answer: row[answerIdx]})
	}
	return pairs, nil
}

// LoadTickets reads the flight inventory CSV. Departure dates are
// day/month/year text; malformed rows are skipped rather than fatal.
func LoadTickets(path string) ([]models.Ticket, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	maxIdx := 0
	for _, required := range []string{"flight_id", "departure_city", "destination_city", "departure_date", "available_seats", "price"} {
		i, ok := idx[required]
		if !ok {
			return nil, fmt.Errorf("missing column %q in %s", required, path)
		}
		if i > maxIdx {
			maxIdx = i
		}
	}

	var tickets []models.Ticket
	for _, row := range rows {
		// Truncated rows cannot hold every required column; skip them.
		if len(row) <= maxIdx {
			continue
		}
		flightID, err := strconv.Atoi(strings.TrimSpace(row[idx["flight_id"]]))
		if err != nil {
			continue
		}
		date, err := time.Parse("02/01/2006", strings.TrimSpace(row[idx["departure_date"]]))
		if err != nil {
			continue
		}
		seats, err := strconv.Atoi(strings.TrimSpace(row[idx["available_seats"]]))
		if err != nil || seats < 0 {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(row[idx["price"]]), 64)
		if err != nil || price < 0 {
			continue
		}
		tickets = append(tickets, models.Ticket{
			FlightID:        flightID,
			DepartureCity:   strings.TrimSpace(row[idx["departure_city"]]),
			DestinationCity: strings.TrimSpace(row[idx["destination_city"]]),
			DepartureDate:   date,
			AvailableSeats:  seats,
			Price:           price,
		})
	}
	return tickets, nil
}

func readCSV(path string) (rows [][]string, header []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s is empty", path)
	}
	return records[1:], records[0], nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("missing column %q", name)
}
