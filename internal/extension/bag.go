package extension

import (
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Bag is a per-instance JSON document scoped to one extension. Hooks
// use it for whatever per-instance state they need; the widget creates
// one bag per extension name on first access.
type Bag struct {
	mu  sync.Mutex
	doc []byte
}

// NewBag creates an empty bag.
func NewBag() *Bag {
	return &Bag{doc: []byte("{}")}
}

// Get reads a value at a gjson path.
func (b *Bag) Get(path string) gjson.Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	return gjson.GetBytes(b.doc, path)
}

// Set writes a value at an sjson path.
func (b *Bag) Set(path string, value any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	doc, err := sjson.SetBytes(b.doc, path, value)
	if err != nil {
		return err
	}
	b.doc = doc
	return nil
}

// Delete removes the value at a path.
func (b *Bag) Delete(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	doc, err := sjson.DeleteBytes(b.doc, path)
	if err != nil {
		return err
	}
	b.doc = doc
	return nil
}

// JSON returns the bag's document.
func (b *Bag) JSON() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.doc)
}
