package nlp

import (
	"math"
	"strings"
)

// Analyzer selects the term unit a vector space is built over.
type Analyzer int

const (
	// AnalyzerChar uses character n-grams, robust to misspellings and fragments.
	AnalyzerChar Analyzer = iota
	// AnalyzerWord uses word n-grams with stop-words removed.
	AnalyzerWord
)

// VectorizerConfig controls how documents are decomposed into terms.
type VectorizerConfig struct {
	Analyzer  Analyzer
	NGramMin  int
	NGramMax  int
	StopWords map[string]bool
}

// Document is one indexable unit: an id plus its example phrases.
// Phrases are concatenated into a single document string before fitting.
type Document struct {
	ID      string
	Phrases []string
}

// Index is a TF-IDF vector space over a fixed document set, queried by
// cosine similarity. Built once, read-only afterwards.
type Index struct {
	cfg     VectorizerConfig
	ids     []string
	vocab   map[string]int
	idf     []float64
	vectors []map[int]float64
}

// stopWords is the shared english stop-word list for word analyzers.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "he": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "to": true, "was": true, "were": true,
	"will": true, "with": true, "this": true, "but": true, "they": true,
	"have": true, "had": true, "do": true, "does": true, "did": true,
	"not": true, "so": true, "if": true, "then": true, "than": true,
	"been": true, "being": true, "can": true, "could": true, "should": true,
	"would": true, "there": true, "their": true, "them": true, "these": true,
	"those": true, "i": true, "you": true, "your": true, "my": true, "me": true,
	"we": true, "our": true, "us": true, "am": true,
}

// CharConfig is the intent-index configuration: character 1-3 grams.
func CharConfig() VectorizerConfig {
	return VectorizerConfig{Analyzer: AnalyzerChar, NGramMin: 1, NGramMax: 3}
}

// WordConfig is the QA-index configuration: word 1-2 grams, stop-words removed.
func WordConfig() VectorizerConfig {
	return VectorizerConfig{Analyzer: AnalyzerWord, NGramMin: 1, NGramMax: 2, StopWords: stopWords}
}

// NewIndex fits a TF-IDF space over the given documents.
// An empty document set yields an index whose queries report no match.
func NewIndex(cfg VectorizerConfig, docs []Document) *Index {
	ix := &Index{cfg: cfg, vocab: make(map[string]int)}
	if len(docs) == 0 {
		return ix
	}

	termCounts := make([]map[string]int, 0, len(docs))
	docFreq := make(map[string]int)
	for _, doc := range docs {
		ix.ids = append(ix.ids, doc.ID)
		counts := make(map[string]int)
		for _, term := range ix.analyze(strings.Join(doc.Phrases, " ")) {
			counts[term]++
		}
		for term := range counts {
			docFreq[term]++
			if _, seen := ix.vocab[term]; !seen {
				ix.vocab[term] = len(ix.vocab)
			}
		}
		termCounts = append(termCounts, counts)
	}

	n := float64(len(docs))
	ix.idf = make([]float64, len(ix.vocab))
	for term, idx := range ix.vocab {
		// Smoothed idf, matching the usual tf-idf formulation.
		ix.idf[idx] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	for _, counts := range termCounts {
		ix.vectors = append(ix.vectors, ix.vectorize(counts))
	}
	return ix
}

// Size reports the number of indexed documents.
func (ix *Index) Size() int {
	return len(ix.ids)
}

// Query vectorizes the utterance in the fitted space and returns the id of
// the most similar document with its cosine score. Ties resolve to the
// lowest document index. ok is false when the index is empty or the
// utterance shares no terms with the vocabulary.
func (ix *Index) Query(text string) (id string, score float64, ok bool) {
	if len(ix.vectors) == 0 {
		return "", 0, false
	}

	counts := make(map[string]int)
	for _, term := range ix.analyze(Normalize(text)) {
		if _, known := ix.vocab[term]; known {
			counts[term]++
		}
	}
	query := ix.vectorize(counts)
	if len(query) == 0 {
		return "", 0, false
	}

	best := -1
	bestScore := 0.0
	for i, vec := range ix.vectors {
		s := dot(query, vec)
		if best == -1 || s > bestScore {
			best = i
			bestScore = s
		}
	}
	return ix.ids[best], bestScore, true
}

// analyze decomposes normalized text into terms per the configured analyzer.
func (ix *Index) analyze(text string) []string {
	text = Normalize(text)
	var terms []string

	switch ix.cfg.Analyzer {
	case AnalyzerChar:
		runes := []rune(text)
		for n := ix.cfg.NGramMin; n <= ix.cfg.NGramMax; n++ {
			for i := 0; i+n <= len(runes); i++ {
				gram := string(runes[i : i+n])
				if strings.TrimSpace(gram) == "" {
					continue
				}
				terms = append(terms, gram)
			}
		}
	case AnalyzerWord:
		var tokens []string
		for _, tok := range Tokenize(text) {
			if ix.cfg.StopWords != nil && ix.cfg.StopWords[tok] {
				continue
			}
			tokens = append(tokens, tok)
		}
		for n := ix.cfg.NGramMin; n <= ix.cfg.NGramMax; n++ {
			for i := 0; i+n <= len(tokens); i++ {
				terms = append(terms, strings.Join(tokens[i:i+n], " "))
			}
		}
	}
	return terms
}

// vectorize turns raw term counts into an l2-normalized tf-idf vector.
func (ix *Index) vectorize(counts map[string]int) map[int]float64 {
	vec := make(map[int]float64, len(counts))
	var norm float64
	for term, count := range counts {
		idx, known := ix.vocab[term]
		if !known {
			continue
		}
		w := float64(count) * ix.idf[idx]
		vec[idx] = w
		norm += w * w
	}
	if norm == 0 {
		return nil
	}
	norm = math.Sqrt(norm)
	for idx := range vec {
		vec[idx] /= norm
	}
	return vec
}

// dot computes cosine similarity between two normalized sparse vectors.
func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for idx, w := range a {
		sum += w * b[idx]
	}
	return sum
}
