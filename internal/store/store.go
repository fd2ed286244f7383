// Package store provides the record store for elhem: named collections of
// records, each loaded and saved as a whole.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fentz26/elhem/internal/models"
)

// Collection names one logical table.
type Collection string

const (
	Tasks       Collection = "tasks"
	Team        Collection = "team"
	Performance Collection = "performance"
	Decisions   Collection = "decisions"
)

// Collections lists the collections owned by the assistant, in migration order.
var Collections = []Collection{Tasks, Team, Performance}

// Driver identifies a concrete store backend.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverMemory     Driver = "memory"
	DriverSQLite     Driver = "sqlite"
	DriverPostgres   Driver = "postgres"
	DriverS3         Driver = "s3"
)

// ErrMalformed indicates stored content that cannot be decoded as a
// sequence of records.
var ErrMalformed = errors.New("malformed collection content")

// Store loads and saves whole collections. Load returns an empty sequence
// when the collection has never been written. Save overwrites the stored
// collection with records.
type Store interface {
	Load(ctx context.Context, c Collection) ([]models.Record, error)
	Save(ctx context.Context, c Collection, records []models.Record) error
	Driver() Driver
	Close() error
}

// Encode serializes records as an indented JSON array. A nil slice encodes
// as an empty array.
func Encode(records []models.Record) ([]byte, error) {
	if records == nil {
		records = []models.Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses an encoded collection. Empty content and a JSON null both
// decode to an empty sequence. Numbers are kept as json.Number so that
// opaque records round-trip unchanged.
func Decode(data []byte) ([]models.Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Record{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []models.Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after array", ErrMalformed)
	}
	if records == nil {
		records = []models.Record{}
	}
	return records, nil
}
