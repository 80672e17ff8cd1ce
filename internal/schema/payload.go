// Package schema holds the typed records for stats.nba.com responses and the
// raw payload type that moves between the remote API and the object store.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Payload is the raw JSON object returned by an endpoint, stored verbatim.
// An empty payload means the remote had nothing for the request.
type Payload map[string]any

// DecodePayload parses a JSON object. Numbers are kept as json.Number so a
// payload re-encodes to the same digits it was read with.
func DecodePayload(b []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode payload: trailing data after object")
	}
	if p == nil {
		return nil, errors.New("decode payload: not a JSON object")
	}
	return p, nil
}

// Encode returns the JSON bytes of p. A nil payload encodes as {}.
func (p Payload) Encode() ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(map[string]any(p))
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return b, nil
}

// Empty reports whether the payload carries no fields.
func (p Payload) Empty() bool { return len(p) == 0 }

// ValidationError is returned when a payload does not match its record shape.
type ValidationError struct {
	Record string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validate %s: %v", e.Record, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

type validator interface {
	Validate() error
}

// parse decodes p into T and runs T's field checks.
func parse[T any, P interface {
	*T
	validator
}](name string, p Payload) (*T, error) {
	b, err := p.Encode()
	if err != nil {
		return nil, &ValidationError{Record: name, Err: err}
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	rec := new(T)
	if err := dec.Decode(rec); err != nil {
		return nil, &ValidationError{Record: name, Err: err}
	}
	if err := P(rec).Validate(); err != nil {
		return nil, &ValidationError{Record: name, Err: err}
	}
	return rec, nil
}

func required(field string) error {
	return fmt.Errorf("field %s required", field)
}
