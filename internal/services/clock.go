package services

import (
	"time"
)

// geocoder is the slice of WeatherService the time lookup needs.
type geocoder interface {
	Geocode(place string) (*GeoLocation, error)
}

// TimeService resolves the current local time of a free-text place name
// via geocoding and the IANA timezone database.
type TimeService struct {
	geo geocoder
	now func() time.Time
}

// NewTimeService creates a time service backed by the given geocoder.
func NewTimeService(geo geocoder) *TimeService {
	return &TimeService{geo: geo, now: time.Now}
}

// LocalTime returns the current time at the named place, 12-hour formatted.
func (s *TimeService) LocalTime(place string) (string, error) {
	const op = "clock.local_time"

	location, err := s.geo.Geocode(place)
	if err != nil {
		return "", err
	}
	if location.Timezone == "" {
		return "", &ServiceError{Kind: FailureNotFound, Op: op}
	}

	tz, err := time.LoadLocation(location.Timezone)
	if err != nil {
		return "", &ServiceError{Kind: FailureMalformed, Op: op, Err: err}
	}
	return s.now().In(tz).Format("03:04 PM"), nil
}
