package services

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/boykin345/ConversationalAI/internal/nlp"
	"github.com/boykin345/ConversationalAI/internal/storage"
	"github.com/boykin345/ConversationalAI/pkg/log"
)

// ActThreshold gates whether the controller acts on a classified intent.
// Intents scoring in [0.4, 0.7) are recognized but fall through to QA
// retrieval instead of being acted on.
const ActThreshold = 0.7

// IntentClassifier resolves an utterance to an intent and a confidence score.
type IntentClassifier interface {
	Classify(utterance string) (nlp.Intent, float64)
}

// AnswerRetriever answers open questions from the QA dataset.
type AnswerRetriever interface {
	Answer(utterance string) (string, bool)
}

// WeatherProvider is the weather dependency of the chatbot.
type WeatherProvider interface {
	Current(place string) (*WeatherReading, error)
}

// TimeProvider is the remote-time dependency of the chatbot.
type TimeProvider interface {
	LocalTime(place string) (string, error)
}

var smallTalkResponses = []string{
	"I'm doing well, thank you!",
	"I'm fine, thanks for asking!",
	"All good here!",
	"I'm just a bot, but I'm doing great!",
}

const capabilitiesResponse = "I can help you book flights, answer questions from my knowledge base, " +
	"give you the current time and date, check the weather for any city, and remember your name."

const fallbackResponse = "I'm not sure how to answer that. Could you rephrase your question?"

// Chatbot is the dialogue controller of one conversation. It owns the
// session state (captured name) and the active booking transaction, and
// routes each turn to the booking flow, the intent classifier, or QA
// retrieval. One utterance is resolved fully before the next is accepted.
type Chatbot struct {
	store      storage.Store
	classifier IntentClassifier
	retriever  AnswerRetriever
	weather    WeatherProvider
	clock      TimeProvider
	now        func() time.Time

	userName string
	flow     *BookingFlow
}

// NewChatbot wires a conversation against explicitly constructed corpora
// and collaborators. Corpora are fitted once and read-only afterwards.
func NewChatbot(store storage.Store, classifier IntentClassifier, retriever AnswerRetriever, weather WeatherProvider, clock TimeProvider) *Chatbot {
	return &Chatbot{
		store:      store,
		classifier: classifier,
		retriever:  retriever,
		weather:    weather,
		clock:      clock,
		now:        time.Now,
	}
}

// UserName returns the captured session name, empty until extracted.
func (b *Chatbot) UserName() string {
	return b.userName
}

// InTransaction reports whether a booking transaction is active.
func (b *Chatbot) InTransaction() bool {
	return b.flow != nil
}

// Welcome returns the session-start message.
func (b *Chatbot) Welcome() string {
	return "Hello! I'm your travel assistant. What's your name?"
}

// Resolve processes one utterance and produces the reply for this turn.
func (b *Chatbot) Resolve(utterance string) string {
	if strings.TrimSpace(utterance) == "" {
		return "I didn't catch that. Could you say it again?"
	}

	// The name is captured exactly once and never overwritten.
	if b.userName == "" {
		name, ok := nlp.ExtractName(utterance)
		if !ok {
			return "I didn't quite catch your name. Could you tell me again?"
		}
		b.userName = name
		return fmt.Sprintf("Nice to meet you, %s! How can I help you today?", b.userName)
	}

	if b.flow != nil {
		reply, done := b.flow.Handle(utterance)
		if done {
			b.flow = nil
		}
		return reply
	}

	if IsBookingRequest(utterance) {
		return b.startBooking(utterance)
	}

	// Obvious questions try the QA dataset before intent matching.
	if isQuestion(utterance) {
		if answer, ok := b.retriever.Answer(utterance); ok {
			return answer
		}
	}

	intent, score := b.classifier.Classify(utterance)
	if score >= ActThreshold {
		if reply, handled := b.act(intent, utterance); handled {
			return reply
		}
	}

	if answer, ok := b.retriever.Answer(utterance); ok {
		return answer
	}
	return fallbackResponse
}

func (b *Chatbot) startBooking(utterance string) string {
	b.flow = NewBookingFlow(b.store, b.now)
	log.Info(log.Fields{"user": b.userName}, "booking transaction started")
	return b.flow.Start(utterance)
}

// act dispatches an intent the classifier scored above the act threshold.
// The switch is exhaustive over the closed intent set; qa and unknown report
// unhandled so the controller falls through to retrieval.
func (b *Chatbot) act(intent nlp.Intent, utterance string) (string, bool) {
	switch intent {
	case nlp.IntentGreeting:
		return fmt.Sprintf("Hello %s! How can I help you today?", b.userName), true
	case nlp.IntentFarewell:
		return fmt.Sprintf("Goodbye %s! Have a great day!", b.userName), true
	case nlp.IntentCapabilities:
		return capabilitiesResponse, true
	case nlp.IntentTimeQuery:
		return b.answerTime(utterance), true
	case nlp.IntentDateQuery:
		return fmt.Sprintf("Today's date is %s", b.now().Format("January 2, 2006")), true
	case nlp.IntentNameQuery:
		return fmt.Sprintf("Your name is %s!", b.userName), true
	case nlp.IntentWeatherQuery:
		return b.answerWeather(utterance), true
	case nlp.IntentSmallTalk:
		return smallTalkResponses[rand.Intn(len(smallTalkResponses))], true
	case nlp.IntentBooking:
		return b.startBooking(utterance), true
	case nlp.IntentQA, nlp.IntentUnknown:
		return "", false
	default:
		return "", false
	}
}

func (b *Chatbot) answerTime(utterance string) string {
	place, ok := nlp.ExtractTimeLocation(utterance)
	if !ok || b.clock == nil {
		return fmt.Sprintf("The current time is %s", b.now().Format("03:04 PM"))
	}
	localTime, err := b.clock.LocalTime(place)
	if err != nil {
		return serviceFailureReply(err, place, "time")
	}
	return fmt.Sprintf("The current time in %s is %s", place, localTime)
}

func (b *Chatbot) answerWeather(utterance string) string {
	place, ok := nlp.ExtractWeatherLocation(utterance)
	if !ok {
		return "Please specify a location. For example: 'What's the weather in London?'"
	}
	if b.weather == nil {
		return "Sorry, the weather service is not available right now."
	}
	reading, err := b.weather.Current(place)
	if err != nil {
		return serviceFailureReply(err, place, "weather")
	}
	return fmt.Sprintf("The current temperature in %s is %.1f°C (%s) with a wind speed of %.1f km/h.",
		reading.Location.DisplayName(), reading.Temperature, reading.Description(), reading.WindSpeed)
}

// serviceFailureReply maps a classified collaborator failure to an apology.
// Nothing here is fatal; the conversation always continues.
func serviceFailureReply(err error, place, what string) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		log.Warn(log.Fields{"op": svcErr.Op, "kind": svcErr.Kind.String()}, "external service failure")
		if svcErr.Kind == FailureNotFound {
			return fmt.Sprintf("I couldn't find the location '%s'. Please try another city.", place)
		}
	} else {
		log.Warn(log.Fields{"error": err.Error()}, "external service failure")
	}
	return fmt.Sprintf("I'm sorry, I couldn't fetch the %s information at the moment. Please try again.", what)
}

var questionStarters = []string{"what", "how", "why", "where", "when", "who"}

func isQuestion(utterance string) bool {
	normalized := nlp.Normalize(utterance)
	if strings.HasSuffix(normalized, "?") {
		return true
	}
	for _, starter := range questionStarters {
		if strings.HasPrefix(normalized, starter) {
			return true
		}
	}
	return false
}
