package nlp

import (
	"regexp"
	"sort"
	"strconv"
	"time"
)

// Extractors are ordered pattern lists: the first pattern that matches wins.
// The ordering runs from most to least specific and must be preserved, since
// ambiguous input is resolved purely by rank.

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:my name is|i am|i'm|call me) ([a-z\s]+)`),
	regexp.MustCompile(`(?i)([a-z\s]+) is my name`),
	regexp.MustCompile(`(?i)^([a-z]+)$`),
	regexp.MustCompile(`(?i)name: ([a-z\s]+)`),
	regexp.MustCompile(`(?i)name is ([a-z\s]+)`),
}

// ExtractName captures the user's name from free text, title-cased.
func ExtractName(text string) (string, bool) {
	for _, pattern := range namePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return TitleCase(m[1]), true
		}
	}
	return "", false
}

// CityPair holds an extracted departure/destination pair.
// Either side may be empty when only one city was mentioned.
type CityPair struct {
	Departure   string
	Destination string
}

const cityEnd = `(?:\?|,| on | departing| leaving| returning|$)`

var cityPairPatterns = []struct {
	re      *regexp.Regexp
	depIdx  int
	destIdx int
}{
	{regexp.MustCompile(`from ([a-z][a-z ]*?) to ([a-z][a-z ]*?)` + cityEnd), 1, 2},
	{regexp.MustCompile(`to ([a-z][a-z ]*?) from ([a-z][a-z ]*?)` + cityEnd), 2, 1},
	{regexp.MustCompile(`^([a-z][a-z ]*?) - ([a-z][a-z ]*?)$`), 1, 2},
	{regexp.MustCompile(`^([a-z][a-z ]*?) to ([a-z][a-z ]*?)$`), 1, 2},
	{regexp.MustCompile(`from ([a-z][a-z ]*?)` + cityEnd), 1, 0},
	{regexp.MustCompile(`to ([a-z][a-z ]*?)` + cityEnd), 0, 1},
}

// ExtractCityPair pulls departure and destination cities from an utterance.
// Multi-word city names keep their internal whitespace.
func ExtractCityPair(text string) (CityPair, bool) {
	normalized := Normalize(text)
	for _, p := range cityPairPatterns {
		m := p.re.FindStringSubmatch(normalized)
		if m == nil {
			continue
		}
		var pair CityPair
		if p.depIdx > 0 {
			pair.Departure = TitleCase(m[p.depIdx])
		}
		if p.destIdx > 0 {
			pair.Destination = TitleCase(m[p.destIdx])
		}
		if pair.Departure == "" && pair.Destination == "" {
			continue
		}
		return pair, true
	}
	return CityPair{}, false
}

// TravelDates is the result of date extraction from one utterance.
type TravelDates struct {
	Departure time.Time
	Return    time.Time
	Flexible  bool
}

var (
	numericDatePattern = regexp.MustCompile(`\b(\d{1,2})[/.-](\d{1,2})[/.-](\d{2,4})\b`)
	dayMonthPattern    = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?(?: of)? (jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\b(?: (\d{4}))?`)
	monthDayPattern    = regexp.MustCompile(`\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?) (\d{1,2})(?:st|nd|rd|th)?\b(?:,? (\d{4}))?`)
	relativePattern    = regexp.MustCompile(`\b(today|tomorrow)\b`)
	flexiblePattern    = regexp.MustCompile(`\bflexible\b`)
	ordinalDayPattern  = regexp.MustCompile(`^(?:on )?(?:the )?(\d{1,2})(?:st|nd|rd|th)?$`)
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

type foundDate struct {
	pos  int
	date time.Time
}

// findDates locates every date expression in the utterance, in order of
// appearance. Dates without a year prefer the future: a day/month already
// past this year rolls over to next year.
func findDates(text string, now time.Time) []foundDate {
	normalized := Normalize(text)
	var found []foundDate

	for _, m := range numericDatePattern.FindAllStringSubmatchIndex(normalized, -1) {
		day, _ := strconv.Atoi(normalized[m[2]:m[3]])
		month, _ := strconv.Atoi(normalized[m[4]:m[5]])
		year, _ := strconv.Atoi(normalized[m[6]:m[7]])
		if year < 100 {
			year += 2000
		}
		if d, ok := makeDate(year, time.Month(month), day); ok {
			found = append(found, foundDate{m[0], d})
		}
	}
	for _, m := range dayMonthPattern.FindAllStringSubmatchIndex(normalized, -1) {
		day, _ := strconv.Atoi(normalized[m[2]:m[3]])
		month := months[normalized[m[4]:m[4]+3]]
		found = appendNamedMonth(found, normalized, m, now, day, month, 3)
	}
	for _, m := range monthDayPattern.FindAllStringSubmatchIndex(normalized, -1) {
		day, _ := strconv.Atoi(normalized[m[4]:m[5]])
		month := months[normalized[m[2]:m[2]+3]]
		found = appendNamedMonth(found, normalized, m, now, day, month, 3)
	}
	for _, m := range relativePattern.FindAllStringSubmatchIndex(normalized, -1) {
		d := truncateDay(now)
		if normalized[m[2]:m[3]] == "tomorrow" {
			d = d.AddDate(0, 0, 1)
		}
		found = append(found, foundDate{m[0], d})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	// Overlapping matches keep only the earliest-starting expression.
	deduped := found[:0]
	lastPos := -1
	for _, f := range found {
		if f.pos != lastPos {
			deduped = append(deduped, f)
			lastPos = f.pos
		}
	}
	return deduped
}

func appendNamedMonth(found []foundDate, text string, m []int, now time.Time, day int, month time.Month, yearGroup int) []foundDate {
	year := 0
	if m[yearGroup*2] >= 0 {
		year, _ = strconv.Atoi(text[m[yearGroup*2]:m[yearGroup*2+1]])
	}
	if year == 0 {
		year = now.Year()
		if d, ok := makeDate(year, month, day); ok && d.Before(truncateDay(now)) {
			year++
		}
	}
	if d, ok := makeDate(year, month, day); ok {
		found = append(found, foundDate{m[0], d})
	}
	return found
}

func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if day < 1 || day > 31 || month < time.January || month > time.December {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day {
		// Normalization moved the date, e.g. 31 February.
		return time.Time{}, false
	}
	return d, true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ExtractTravelDates finds the departure date (first expression) and, when
// present, the return date (second expression). A literal "flexible" anywhere
// sets the flag regardless of whether any date parsed.
func ExtractTravelDates(text string, now time.Time) (TravelDates, bool) {
	dates := findDates(text, now)
	result := TravelDates{Flexible: flexiblePattern.MatchString(Normalize(text))}
	if len(dates) == 0 {
		return result, false
	}
	result.Departure = dates[0].date
	if len(dates) > 1 {
		result.Return = dates[1].date
	}
	return result, true
}

// ExtractSingleDate finds exactly one date expression, for return-date-only turns.
func ExtractSingleDate(text string, now time.Time) (time.Time, bool) {
	dates := findDates(text, now)
	if len(dates) == 0 {
		return time.Time{}, false
	}
	return dates[0].date, true
}

// ExtractNewReturnDate accepts either an explicit day/month/year literal or a
// bare ordinal day number completed with the current month and year. Used for
// mid-transaction date corrections.
func ExtractNewReturnDate(text string, now time.Time) (time.Time, bool) {
	normalized := Normalize(text)
	if d, ok := ExtractSingleDate(normalized, now); ok {
		return d, true
	}
	if m := ordinalDayPattern.FindStringSubmatch(normalized); m != nil {
		day, _ := strconv.Atoi(m[1])
		if d, ok := makeDate(now.Year(), now.Month(), day); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

const locationEnd = `(?:\?|$| please| now| today)`

var weatherLocationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`weather (?:in|at|for) (.+?)` + locationEnd),
	regexp.MustCompile(`weather of (.+?)` + locationEnd),
	regexp.MustCompile(`temperature (?:in|at|for) (.+?)` + locationEnd),
	regexp.MustCompile(`how'?s the weather (?:in|at|for) (.+?)` + locationEnd),
	regexp.MustCompile(`what'?s the weather (?:in|at|for) (.+?)` + locationEnd),
}

var timeLocationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`time (?:in|at|for) (.+?)` + locationEnd),
	regexp.MustCompile(`what'?s the time (?:in|at|for) (.+?)` + locationEnd),
	regexp.MustCompile(`current time (?:in|at|for) (.+?)` + locationEnd),
	regexp.MustCompile(`time of (.+?)` + locationEnd),
	regexp.MustCompile(`tell me the time (?:in|at|for) (.+?)` + locationEnd),
}

// ExtractWeatherLocation pulls the place name out of a weather query.
func ExtractWeatherLocation(text string) (string, bool) {
	return matchLocation(weatherLocationPatterns, text)
}

// ExtractTimeLocation pulls the place name out of a time query.
func ExtractTimeLocation(text string) (string, bool) {
	return matchLocation(timeLocationPatterns, text)
}

func matchLocation(patterns []*regexp.Regexp, text string) (string, bool) {
	normalized := Normalize(text)
	for _, pattern := range patterns {
		if m := pattern.FindStringSubmatch(normalized); m != nil {
			return TitleCase(m[1]), true
		}
	}
	return "", false
}
