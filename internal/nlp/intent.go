package nlp

// Intent is the closed set of utterance purposes the assistant understands.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentGreeting
	IntentFarewell
	IntentCapabilities
	IntentTimeQuery
	IntentDateQuery
	IntentNameQuery
	IntentWeatherQuery
	IntentSmallTalk
	IntentBooking
	IntentQA
)

func (i Intent) String() string {
	switch i {
	case IntentGreeting:
		return "greeting"
	case IntentFarewell:
		return "farewell"
	case IntentCapabilities:
		return "capabilities"
	case IntentTimeQuery:
		return "time_query"
	case IntentDateQuery:
		return "date_query"
	case IntentNameQuery:
		return "name_query"
	case IntentWeatherQuery:
		return "weather_query"
	case IntentSmallTalk:
		return "small_talk"
	case IntentBooking:
		return "booking"
	case IntentQA:
		return "qa"
	default:
		return "unknown"
	}
}

var intentByTag = map[string]Intent{
	"greeting":      IntentGreeting,
	"farewell":      IntentFarewell,
	"capabilities":  IntentCapabilities,
	"time_query":    IntentTimeQuery,
	"date_query":    IntentDateQuery,
	"name_query":    IntentNameQuery,
	"weather_query": IntentWeatherQuery,
	"small_talk":    IntentSmallTalk,
	"booking":       IntentBooking,
	"qa":            IntentQA,
}

// IntentCorpus maps each intent tag to its exemplar phrases, in a fixed
// order so index queries stay deterministic.
type IntentCorpus []Document

// DefaultIntentCorpus returns the built-in exemplar phrases. The qa tag has
// no exemplar document: open questions reach the retriever by the question
// heuristic or the below-act-threshold fallthrough, never by classification.
func DefaultIntentCorpus() IntentCorpus {
	return IntentCorpus{
		{ID: "greeting", Phrases: []string{
			"hi", "hello", "hey", "good morning", "good afternoon",
			"good evening", "howdy", "hi there", "greetings", "what's up",
		}},
		{ID: "farewell", Phrases: []string{
			"bye", "goodbye!", "see you", "farewell", "quit", "exit",
			"see you later", "have a good day", "take care", "bye bye",
		}},
		{ID: "capabilities", Phrases: []string{
			"what can you do", "help",
			"what do you do", "show me what you can do",
		}},
		{ID: "time_query", Phrases: []string{
			"what time is it", "what is the time", "current time",
			"time", "tell me the time", "time now", "time in",
		}},
		{ID: "date_query", Phrases: []string{
			"what date is it", "what is the date", "current date",
			"date", "tell me the date", "what day is it",
		}},
		{ID: "name_query", Phrases: []string{
			"what is my name", "who am i", "my name", "tell me my name",
			"do you know my name",
		}},
		{ID: "weather_query", Phrases: []string{
			"what is the weather", "weather", "temperature",
			"how is the weather", "what is the temperature", "weather in",
		}},
		{ID: "small_talk", Phrases: []string{
			"how are you", "what's up", "what is up", "how's it going",
			"how are you doing", "how do you do", "what's new",
		}},
		{ID: "booking", Phrases: []string{
			"book a flight", "i want to book a flight", "book me a ticket",
			"reserve a flight", "i would like to fly", "book a plane ticket",
		}},
	}
}

// AcceptThreshold is the floor below which a classification is discarded.
const AcceptThreshold = 0.4

// Classifier resolves utterances to intents over a TF-IDF index of
// exemplar phrases.
type Classifier struct {
	index *Index
}

// NewClassifier builds the intent index with character 1-3 grams.
func NewClassifier(corpus IntentCorpus) *Classifier {
	return &Classifier{index: NewIndex(CharConfig(), corpus)}
}

// Classify returns the best-matching intent and its cosine score, or
// (IntentUnknown, 0) when the score falls under the accept threshold.
func (c *Classifier) Classify(utterance string) (Intent, float64) {
	tag, score, ok := c.index.Query(utterance)
	if !ok || score < AcceptThreshold {
		return IntentUnknown, 0
	}
	intent, known := intentByTag[tag]
	if !known {
		return IntentUnknown, 0
	}
	return intent, score
}
