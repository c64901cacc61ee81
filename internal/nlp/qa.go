package nlp

import "github.com/boykin345/ConversationalAI/internal/models"

// RetrieveThreshold is the minimum similarity for a stored answer to be used.
const RetrieveThreshold = 0.3

// Retriever answers open questions by similarity against the QA dataset.
type Retriever struct {
	index   *Index
	answers map[string]string
}

// NewRetriever indexes the dataset questions with word 1-2 grams.
// Questions are keyed lower-cased; duplicate questions keep the first answer.
func NewRetriever(pairs []models.QAPair) *Retriever {
	r := &Retriever{answers: make(map[string]string, len(pairs))}
	docs := make([]Document, 0, len(pairs))
	for _, pair := range pairs {
		question := Normalize(pair.Question)
		if _, dup := r.answers[question]; dup {
			continue
		}
		r.answers[question] = pair.Answer
		docs = append(docs, Document{ID: question, Phrases: []string{question}})
	}
	r.index = NewIndex(WordConfig(), docs)
	return r
}

// Answer returns the stored answer of the closest question when its
// similarity reaches the retrieve threshold.
func (r *Retriever) Answer(utterance string) (string, bool) {
	question, score, ok := r.index.Query(utterance)
	if !ok || score < RetrieveThreshold {
		return "", false
	}
	return r.answers[question], true
}
