// Package location maps US postal codes to their state, counties and cities.
// The table is loaded once at startup and injected into every component that
// needs it, so tests can substitute a fixture.
package location

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

type ZipInfo struct {
	State    string   `json:"state"`
	Counties []string `json:"counties"`
	Cities   []string `json:"cities"`
}

// Service is an immutable ZIP lookup table.
type Service struct {
	table map[string]ZipInfo
}

// NewService decodes a JSON object of the form {"10001": {"state": "NY", ...}}.
func NewService(r io.Reader) (*Service, error) {
	var table map[string]ZipInfo
	if err := json.NewDecoder(r).Decode(&table); err != nil {
		return nil, fmt.Errorf("decoding zip data: %w", err)
	}
	return &Service{table: table}, nil
}

func NewServiceFromFile(path string) (*Service, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening zip data file: %w", err)
	}
	defer f.Close()
	return NewService(f)
}

// NewServiceFromTable builds a service directly from a table. Used by tests.
func NewServiceFromTable(table map[string]ZipInfo) *Service {
	return &Service{table: table}
}

// Empty returns a service with no entries. The server starts with this when
// the data file is missing so lookups fail cleanly instead of panicking.
func Empty() *Service {
	return &Service{table: map[string]ZipInfo{}}
}

func (s *Service) Lookup(zip string) (ZipInfo, bool) {
	info, ok := s.table[strings.TrimSpace(zip)]
	return info, ok
}

// StateFor returns the authoritative state for a ZIP code.
func (s *Service) StateFor(zip string) (string, bool) {
	info, ok := s.Lookup(zip)
	if !ok {
		return "", false
	}
	return info.State, true
}

func (s *Service) Len() int {
	return len(s.table)
}
