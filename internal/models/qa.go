package models

// QAPair is one entry of the question-answer dataset.
// Questions are stored lower-cased so lookups stay case-insensitive.
type QAPair struct {
	Question string `json:"question" gorm:"primaryKey"`
	Answer   string `json:"answer"`
}
