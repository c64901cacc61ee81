package nlp

import (
	"testing"
	"time"
)

func TestExtractName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{
			name:  "i'm form",
			input: "I'm Alice",
			want:  "Alice",
			found: true,
		},
		{
			name:  "my name is form",
			input: "my name is mary jane",
			want:  "Mary Jane",
			found: true,
		},
		{
			name:  "call me form",
			input: "Call me Bob",
			want:  "Bob",
			found: true,
		},
		{
			name:  "trailing form",
			input: "bob is my name",
			want:  "Bob",
			found: true,
		},
		{
			name:  "bare single token",
			input: "carol",
			want:  "Carol",
			found: true,
		},
		{
			name:  "name colon form",
			input: "name: dave",
			want:  "Dave",
			found: true,
		},
		{
			name:  "no match",
			input: "12345",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ExtractName(tt.input)
			if found != tt.found {
				t.Fatalf("ExtractName(%q) found = %v, want %v", tt.input, found, tt.found)
			}
			if found && got != tt.want {
				t.Errorf("ExtractName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractNameSetsFirstPatternWins(t *testing.T) {
	// "my name is" outranks the trailing form when both could apply.
	got, found := ExtractName("my name is eve")
	if !found || got != "Eve" {
		t.Errorf("ExtractName = %q (%v), want Eve", got, found)
	}
}

func TestExtractCityPair(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		dep     string
		dest    string
		found   bool
	}{
		{
			name:  "from to",
			input: "book a flight from London to Paris",
			dep:   "London", dest: "Paris", found: true,
		},
		{
			name:  "reversed to from",
			input: "to Paris from London",
			dep:   "London", dest: "Paris", found: true,
		},
		{
			name:  "hyphen separated",
			input: "london - paris",
			dep:   "London", dest: "Paris", found: true,
		},
		{
			name:  "bare a to b",
			input: "london to paris",
			dep:   "London", dest: "Paris", found: true,
		},
		{
			name:  "multi-word cities",
			input: "from New York to Rio de Janeiro",
			dep:   "New York", dest: "Rio De Janeiro", found: true,
		},
		{
			name:  "departure only",
			input: "from Manchester",
			dep:   "Manchester", dest: "", found: true,
		},
		{
			name:  "destination only",
			input: "to Berlin",
			dep:   "", dest: "Berlin", found: true,
		},
		{
			name:  "cities followed by date",
			input: "from london to paris on 12 december",
			dep:   "London", dest: "Paris", found: true,
		},
		{
			name:  "no cities",
			input: "12345",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, found := ExtractCityPair(tt.input)
			if found != tt.found {
				t.Fatalf("ExtractCityPair(%q) found = %v, want %v", tt.input, found, tt.found)
			}
			if !found {
				return
			}
			if pair.Departure != tt.dep || pair.Destination != tt.dest {
				t.Errorf("ExtractCityPair(%q) = (%q, %q), want (%q, %q)",
					tt.input, pair.Departure, pair.Destination, tt.dep, tt.dest)
			}
		})
	}
}

var fixedNow = time.Date(2030, time.November, 1, 12, 0, 0, 0, time.UTC)

func TestExtractTravelDates(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		departure time.Time
		ret       time.Time
		flexible  bool
		found     bool
	}{
		{
			name:      "numeric date",
			input:     "on 01/12/2030",
			departure: time.Date(2030, time.December, 1, 0, 0, 0, 0, time.UTC),
			found:     true,
		},
		{
			name:      "day month year",
			input:     "12 december 2030",
			departure: time.Date(2030, time.December, 12, 0, 0, 0, 0, time.UTC),
			found:     true,
		},
		{
			name:      "month day form",
			input:     "december 12 2030",
			departure: time.Date(2030, time.December, 12, 0, 0, 0, 0, time.UTC),
			found:     true,
		},
		{
			name:      "two dates keep order",
			input:     "leaving 01/12/2030 and back on 08/12/2030",
			departure: time.Date(2030, time.December, 1, 0, 0, 0, 0, time.UTC),
			ret:       time.Date(2030, time.December, 8, 0, 0, 0, 0, time.UTC),
			found:     true,
		},
		{
			name:      "yearless date prefers the future",
			input:     "on the 15th of march",
			departure: time.Date(2031, time.March, 15, 0, 0, 0, 0, time.UTC),
			found:     true,
		},
		{
			name:      "tomorrow",
			input:     "tomorrow",
			departure: time.Date(2030, time.November, 2, 0, 0, 0, 0, time.UTC),
			found:     true,
		},
		{
			name:     "flexible flag without a date",
			input:    "i am flexible",
			flexible: true,
			found:    false,
		},
		{
			name:      "flexible flag with a date",
			input:     "01/12/2030 but i am flexible",
			departure: time.Date(2030, time.December, 1, 0, 0, 0, 0, time.UTC),
			flexible:  true,
			found:     true,
		},
		{
			name:  "no date",
			input: "whenever works",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates, found := ExtractTravelDates(tt.input, fixedNow)
			if found != tt.found {
				t.Fatalf("ExtractTravelDates(%q) found = %v, want %v", tt.input, found, tt.found)
			}
			if dates.Flexible != tt.flexible {
				t.Errorf("Flexible = %v, want %v", dates.Flexible, tt.flexible)
			}
			if !found {
				return
			}
			if !dates.Departure.Equal(tt.departure) {
				t.Errorf("Departure = %v, want %v", dates.Departure, tt.departure)
			}
			if !dates.Return.Equal(tt.ret) {
				t.Errorf("Return = %v, want %v", dates.Return, tt.ret)
			}
		})
	}
}

func TestExtractNewReturnDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		found bool
	}{
		{
			name:  "explicit literal",
			input: "23/12/2030",
			want:  time.Date(2030, time.December, 23, 0, 0, 0, 0, time.UTC),
			found: true,
		},
		{
			name:  "bare ordinal completed with current month",
			input: "the 23rd",
			want:  time.Date(2030, time.November, 23, 0, 0, 0, 0, time.UTC),
			found: true,
		},
		{
			name:  "bare number",
			input: "23",
			want:  time.Date(2030, time.November, 23, 0, 0, 0, 0, time.UTC),
			found: true,
		},
		{
			name:  "nonsense",
			input: "whenever",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ExtractNewReturnDate(tt.input, fixedNow)
			if found != tt.found {
				t.Fatalf("ExtractNewReturnDate(%q) found = %v, want %v", tt.input, found, tt.found)
			}
			if found && !got.Equal(tt.want) {
				t.Errorf("ExtractNewReturnDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractLocations(t *testing.T) {
	if got, ok := ExtractWeatherLocation("what's the weather in London?"); !ok || got != "London" {
		t.Errorf("weather location = %q (%v), want London", got, ok)
	}
	if got, ok := ExtractWeatherLocation("temperature in new york please"); !ok || got != "New York" {
		t.Errorf("weather location = %q (%v), want New York", got, ok)
	}
	if _, ok := ExtractWeatherLocation("how are you"); ok {
		t.Error("expected no weather location in small talk")
	}

	if got, ok := ExtractTimeLocation("what's the time in Tokyo?"); !ok || got != "Tokyo" {
		t.Errorf("time location = %q (%v), want Tokyo", got, ok)
	}
	if got, ok := ExtractTimeLocation("time in paris now"); !ok || got != "Paris" {
		t.Errorf("time location = %q (%v), want Paris", got, ok)
	}
	if _, ok := ExtractTimeLocation("what time is it"); ok {
		t.Error("expected no time location without a place")
	}
}
