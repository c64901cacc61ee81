package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/boykin345/ConversationalAI/internal/models"
)

// DatabaseStore persists the inventory and QA dataset in PostgreSQL via GORM.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (s *DatabaseStore) SeedTickets(tickets []models.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&tickets).Error
}

func (s *DatabaseStore) GetTicket(flightID int) (*models.Ticket, error) {
	var ticket models.Ticket
	err := s.db.First(&ticket, "flight_id = ?", flightID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *DatabaseStore) SearchTickets(search *models.TicketSearch) ([]*models.Ticket, error) {
	query := s.db.
		Where("lower(departure_city) = lower(?)", search.DepartureCity).
		Where("lower(destination_city) = lower(?)", search.DestinationCity).
		Where("available_seats > 0")

	if !search.DepartureDate.IsZero() {
		day := search.DepartureDate.Truncate(24 * time.Hour)
		from, to := day, day.AddDate(0, 0, 1)
		if search.Flexible {
			from, to = day.AddDate(0, 0, -3), day.AddDate(0, 0, 4)
		}
		query = query.Where("departure_date >= ? AND departure_date < ?", from, to)
	}

	var tickets []*models.Ticket
	if err := query.Order("flight_id").Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

// ReserveSeat decrements a seat inside a single conditional UPDATE, so two
// concurrent bookings of the last seat cannot both succeed.
func (s *DatabaseStore) ReserveSeat(flightID int) error {
	result := s.db.Model(&models.Ticket{}).
		Where("flight_id = ? AND available_seats > 0", flightID).
		UpdateColumn("available_seats", gorm.Expr("available_seats - 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := s.db.Model(&models.Ticket{}).Where("flight_id = ?", flightID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrTicketNotFound
		}
		return ErrNoSeats
	}
	return nil
}

func (s *DatabaseStore) SeedQAPairs(pairs []models.QAPair) error {
	if len(pairs) == 0 {
		return nil
	}
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&pairs).Error
}

func (s *DatabaseStore) GetQAPairs() ([]models.QAPair, error) {
	var pairs []models.QAPair
	if err := s.db.Find(&pairs).Error; err != nil {
		return nil, err
	}
	return pairs, nil
}
