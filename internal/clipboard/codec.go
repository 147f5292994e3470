package clipboard

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"pcb-editor/internal/errors"
)

// Marshal encodes a snapshot as YAML.
func Marshal(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a YAML snapshot. Unknown keys are rejected and the
// result is validated.
func Unmarshal(data []byte) (*Snapshot, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Snapshot
	if err := dec.Decode(&s); err != nil {
		return nil, errors.NewMalformedSnapshot("decoding snapshot: %v", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
