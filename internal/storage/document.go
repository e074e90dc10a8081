package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
)

var ErrMissingSecret = errors.New("entry has no password")

// Document is the decrypted content of a vault file.
// Keys of Entries are normalized service names.
type Document struct {
	Entries map[string]Entry `json:"entries"`
}

// Entry is one stored secret
type Entry struct {
	Service  string `json:"-"`
	Password string `json:"password"`
}

// NewDocument creates an empty document
func NewDocument() *Document {
	return &Document{
		Entries: make(map[string]Entry),
	}
}

// Put adds or replaces the entry for service
func (d *Document) Put(service, password string) {
	if d.Entries == nil {
		d.Entries = make(map[string]Entry)
	}
	d.Entries[service] = Entry{Service: service, Password: password}
}

// Get finds the entry for service
func (d *Document) Get(service string) (Entry, bool) {
	e, ok := d.Entries[service]
	if !ok {
		return Entry{}, false
	}
	e.Service = service
	return e, true
}

// Remove deletes the entry for service and reports whether it existed
func (d *Document) Remove(service string) bool {
	if _, ok := d.Entries[service]; !ok {
		return false
	}
	delete(d.Entries, service)
	return true
}

// Services returns all service names in ascending order
func (d *Document) Services() []string {
	return slices.Sorted(maps.Keys(d.Entries))
}

// Marshal encodes the document. Map keys are emitted in sorted order,
// so equal documents always encode to equal bytes.
func (d *Document) Marshal() ([]byte, error) {
	out := d
	if d.Entries == nil {
		out = NewDocument()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return data, nil
}

// UnmarshalDocument decodes a document produced by Marshal.
// A missing "entries" object decodes to an empty document.
func UnmarshalDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	if doc.Entries == nil {
		doc.Entries = make(map[string]Entry)
	}
	for service, e := range doc.Entries {
		e.Service = service
		doc.Entries[service] = e
	}
	return &doc, nil
}

// UnmarshalJSON requires the password field to be present
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Password *string `json:"password"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Password == nil {
		return ErrMissingSecret
	}
	e.Password = *raw.Password
	return nil
}
