// ABOUTME: Lesson content data model
// ABOUTME: Defines courses, chapters, and generated study units
package lesson

import "github.com/google/uuid"

// Course is a generated syllabus for one topic.
type Course struct {
	ID       string    `json:"id"`
	Topic    string    `json:"topic"`
	Title    string    `json:"title"`
	Chapters []Chapter `json:"chapters"`
}

// Chapter groups related units.
type Chapter struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Units []Unit `json:"units"`
}

// Unit is one study unit with its generated materials. Audio arrives
// separately as a payload message keyed by the unit ID.
type Unit struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Article    string      `json:"article,omitempty"` // markdown
	Quiz       []Question  `json:"quiz,omitempty"`
	Flashcards []Flashcard `json:"flashcards,omitempty"`
	Dialogue   []string    `json:"dialogue,omitempty"` // alternating speaker turns
}

// Question is one multiple-choice quiz item.
type Question struct {
	Prompt      string   `json:"prompt"`
	Choices     []string `json:"choices"`
	Answer      int      `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
}

// Flashcard is one front/back study card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// NewID returns a fresh identifier for locally created entities.
func NewID() string {
	return uuid.New().String()
}

// UnitCount returns the number of units across all chapters.
func (c *Course) UnitCount() int {
	n := 0
	for _, ch := range c.Chapters {
		n += len(ch.Units)
	}
	return n
}

// FindUnit looks a unit up by ID.
func (c *Course) FindUnit(id string) (*Unit, bool) {
	for ci := range c.Chapters {
		for ui := range c.Chapters[ci].Units {
			if c.Chapters[ci].Units[ui].ID == id {
				return &c.Chapters[ci].Units[ui], true
			}
		}
	}
	return nil, false
}
