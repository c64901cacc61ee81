package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

// FailureKind classifies why an external service call failed.
type FailureKind int

const (
	FailureUnavailable FailureKind = iota
	FailureTimeout
	FailureNotFound
	FailureMalformed
)

func (k FailureKind) String() string {
	switch k {
	case FailureTimeout:
		return "timeout"
	case FailureNotFound:
		return "not_found"
	case FailureMalformed:
		return "malformed_response"
	default:
		return "unavailable"
	}
}

// ServiceError carries a classified external-service failure so call sites
// can decide the user-facing reply instead of treating all errors alike.
type ServiceError struct {
	Kind FailureKind
	Op   string
	Err  error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func classify(op string, err error) *ServiceError {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ServiceError{Kind: FailureTimeout, Op: op, Err: err}
	}
	return &ServiceError{Kind: FailureUnavailable, Op: op, Err: err}
}

// GeoLocation is a resolved place: coordinates plus display metadata.
type GeoLocation struct {
	Latitude  float64
	Longitude float64
	Name      string
	Country   string
	Timezone  string
}

// DisplayName renders "City, Country", dropping the country when unknown.
func (g *GeoLocation) DisplayName() string {
	if g.Country != "" {
		return g.Name + ", " + g.Country
	}
	return g.Name
}

// WeatherReading is a current-conditions snapshot for a location.
type WeatherReading struct {
	Location    GeoLocation
	Temperature float64
	WindSpeed   float64
}

// Description buckets the temperature into warm, mild or cold.
func (r *WeatherReading) Description() string {
	switch {
	case r.Temperature > 20:
		return "warm"
	case r.Temperature > 10:
		return "mild"
	default:
		return "cold"
	}
}

const (
	defaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	defaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
)

// WeatherService resolves free-text place names to coordinates and current
// conditions through the Open-Meteo APIs.
type WeatherService struct {
	client       *http.Client
	geocodingURL string
	forecastURL  string
}

// NewWeatherService creates a weather service with a bounded request timeout.
func NewWeatherService() *WeatherService {
	return &WeatherService{
		client:       &http.Client{Timeout: 10 * time.Second},
		geocodingURL: defaultGeocodingURL,
		forecastURL:  defaultForecastURL,
	}
}

type geocodingResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Timezone  string  `json:"timezone"`
	} `json:"results"`
}

type forecastResponse struct {
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
	} `json:"current_weather"`
}

// Geocode resolves a free-text place name to its best-matching location.
func (s *WeatherService) Geocode(place string) (*GeoLocation, error) {
	const op = "weather.geocode"

	endpoint := fmt.Sprintf("%s?name=%s&count=1&language=en&format=json",
		s.geocodingURL, url.QueryEscape(place))
	resp, err := s.client.Get(endpoint)
	if err != nil {
		return nil, classify(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ServiceError{Kind: FailureUnavailable, Op: op,
			Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var decoded geocodingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &ServiceError{Kind: FailureMalformed, Op: op, Err: err}
	}
	if len(decoded.Results) == 0 {
		return nil, &ServiceError{Kind: FailureNotFound, Op: op}
	}

	r := decoded.Results[0]
	return &GeoLocation{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Name:      r.Name,
		Country:   r.Country,
		Timezone:  r.Timezone,
	}, nil
}

// Current fetches the current temperature and wind speed for a place name.
func (s *WeatherService) Current(place string) (*WeatherReading, error) {
	const op = "weather.current"

	location, err := s.Geocode(place)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s?latitude=%f&longitude=%f&current_weather=true&temperature_unit=celsius",
		s.forecastURL, location.Latitude, location.Longitude)
	resp, err := s.client.Get(endpoint)
	if err != nil {
		return nil, classify(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ServiceError{Kind: FailureUnavailable, Op: op,
			Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var decoded forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &ServiceError{Kind: FailureMalformed, Op: op, Err: err}
	}
	if decoded.CurrentWeather == nil {
		return nil, &ServiceError{Kind: FailureMalformed, Op: op,
			Err: fmt.Errorf("missing current_weather block")}
	}

	return &WeatherReading{
		Location:    *location,
		Temperature: decoded.CurrentWeather.Temperature,
		WindSpeed:   decoded.CurrentWeather.WindSpeed,
	}, nil
}
