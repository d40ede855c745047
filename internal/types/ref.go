package types

import (
	"bytes"
	"encoding/json"
)

// Ref is a reference to another document that the backend may send either as a
// bare id string or as a populated object.
type Ref[T any] struct {
	ID  string
	Doc *T
}

// RefTo builds an unpopulated reference
func RefTo[T any](id string) Ref[T] {
	return Ref[T]{ID: id}
}

// Populated reports whether the referenced document was included
func (r Ref[T]) Populated() bool {
	return r.Doc != nil
}

func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}
	if data[0] == '"' {
		r.Doc = nil
		return json.Unmarshal(data, &r.ID)
	}

	var shape struct {
		ID    string `json:"_id"`
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return err
	}
	doc := new(T)
	if err := json.Unmarshal(data, doc); err != nil {
		return err
	}
	r.ID = shape.ID
	if r.ID == "" {
		r.ID = shape.AltID
	}
	r.Doc = doc
	return nil
}

// MarshalJSON always sends the bare id, which is what the write endpoints expect
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}
