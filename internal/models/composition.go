package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/csams/rhymer/internal/markdown"
)

// Composition is a song or poem being written. Content holds the markup
// produced by the markdown converter and is the only form that is persisted.
type Composition struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Content      string           `json:"content"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	Chords       []ChordPlacement `json:"chords,omitempty"`
	CollectionID string           `json:"collectionId,omitempty"`
}

// ChordPlacement pins a chord name above a rune position of the content
type ChordPlacement struct {
	Position int    `json:"position"`
	Chord    string `json:"chord"`
}

// CompositionCollection groups compositions; deleting it deletes them
type CompositionCollection struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
}

// NewComposition creates a composition with a fresh ID
func NewComposition(title, content, collectionID string) *Composition {
	now := time.Now()
	return &Composition{
		ID:           uuid.NewString(),
		Title:        title,
		Content:      content,
		CreatedAt:    now,
		UpdatedAt:    now,
		CollectionID: collectionID,
	}
}

// NewCollection creates a collection with a fresh ID
func NewCollection(name string, sortOrder int) *CompositionCollection {
	return &CompositionCollection{
		ID:        uuid.NewString(),
		Name:      name,
		SortOrder: sortOrder,
	}
}

// Document parses the stored markup
func (c *Composition) Document(converter *markdown.MarkdownConverter) markdown.Document {
	return converter.Parse(c.Content)
}

// SetDocument stores the canonical markup for doc and bumps UpdatedAt.
// Reports whether the content changed.
func (c *Composition) SetDocument(converter *markdown.MarkdownConverter, doc markdown.Document) bool {
	markup := converter.Serialize(doc)
	if markup == c.Content {
		return false
	}
	c.Content = markup
	c.UpdatedAt = time.Now()
	return true
}

// EncodeChords returns the chord list as stored alongside the record
func (c *Composition) EncodeChords() ([]byte, error) {
	if len(c.Chords) == 0 {
		return nil, nil
	}
	return json.Marshal(c.Chords)
}

// DecodeChords restores the chord list. Unreadable data yields no chords,
// the same as a composition that never had any.
func (c *Composition) DecodeChords(data []byte) {
	c.Chords = nil
	if len(data) == 0 {
		return
	}
	var chords []ChordPlacement
	if err := json.Unmarshal(data, &chords); err == nil {
		c.Chords = chords
	}
}
