// Package drill runs a local practice deck: items are graded as they are
// answered and the answers can be submitted as a stored session afterwards.
package drill

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/lingo/internal/grading"
	"github.com/abhisek/lingo/internal/schema"
	"github.com/abhisek/lingo/internal/store"
)

// Item is one practice prompt with its answer key.
type Item struct {
	ID       string           `json:"id"`
	Prompt   string           `json:"prompt"`
	Hint     string           `json:"hint,omitempty"`
	Snapshot grading.Snapshot `json:"snapshot"`
}

// UnmarshalJSON reads the answer key fields from the item itself.
func (it *Item) UnmarshalJSON(data []byte) error {
	var head struct {
		ID     string `json:"id"`
		Prompt string `json:"prompt"`
		Hint   string `json:"hint"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	var snap grading.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	*it = Item{ID: head.ID, Prompt: head.Prompt, Hint: head.Hint, Snapshot: snap}
	return nil
}

// Deck is a titled list of items.
type Deck struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// SessionItems converts the deck into candidate session items.
func (d *Deck) SessionItems() []store.SessionItem {
	out := make([]store.SessionItem, len(d.Items))
	for i, it := range d.Items {
		out[i] = store.SessionItem{ItemID: it.ID, Snapshot: it.Snapshot}
	}
	return out
}

// Filter keeps the items whose IDs appear in keep, in keep's order.
func (d *Deck) Filter(keep []string) *Deck {
	byID := make(map[string]Item, len(d.Items))
	for _, it := range d.Items {
		byID[it.ID] = it
	}
	out := &Deck{Title: d.Title}
	for _, id := range keep {
		if it, ok := byID[id]; ok {
			out.Items = append(out.Items, it)
		}
	}
	return out
}

// LoadDeck reads a deck from a YAML or JSON file.
func LoadDeck(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseYAML decodes a YAML deck. The document is validated with the same
// schema as JSON decks.
func ParseYAML(data []byte) (*Deck, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode deck: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert deck: %w", err)
	}
	return ParseJSON(raw)
}

// ParseJSON validates and decodes a JSON deck. Item IDs must be unique.
func ParseJSON(data []byte) (*Deck, error) {
	deck, err := schema.Decode[Deck](schema.Deck, data)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(deck.Items))
	for _, it := range deck.Items {
		if seen[it.ID] {
			return nil, fmt.Errorf("deck item %q appears twice", it.ID)
		}
		seen[it.ID] = true
	}
	return &deck, nil
}
