// Package model defines domain entities for the application.
package model

// FieldID is the reserved key holding the storage-assigned identifier.
const FieldID = "_id"

// Document is a JSON object stored as submitted by the client.
// Only a handful of named fields are interpreted by the service;
// everything else is passed through untouched.
type Document map[string]any

// String returns the value stored under key if it is a string.
func (d Document) String(key string) string {
	if s, ok := d[key].(string); ok {
		return s
	}
	return ""
}

// ID returns the storage-assigned identifier, if any.
func (d Document) ID() string {
	return d.String(FieldID)
}

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Without returns a shallow copy of the document with the given keys removed.
func (d Document) Without(keys ...string) Document {
	out := d.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// WithID returns a shallow copy of the document carrying id under FieldID.
func (d Document) WithID(id string) Document {
	out := d.Clone()
	out[FieldID] = id
	return out
}

// InsertResult acknowledges a stored document.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// NewInsertResult builds the acknowledgment for a freshly inserted document.
func NewInsertResult(id string) *InsertResult {
	return &InsertResult{Acknowledged: true, InsertedID: id}
}
