package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/smileynet/rolodex/internal/book"
)

// Codec converts snapshots to and from bytes.
type Codec interface {
	Marshal(snap book.Snapshot) ([]byte, error)
	Unmarshal(data []byte, snap *book.Snapshot) error
}

// JSONCodec encodes snapshots as indented JSON.
type JSONCodec struct{}

func (JSONCodec) Marshal(snap book.Snapshot) ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}

func (JSONCodec) Unmarshal(data []byte, snap *book.Snapshot) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(snap)
}

// YAMLCodec encodes snapshots as YAML and rejects unknown fields on decode.
type YAMLCodec struct{}

func (YAMLCodec) Marshal(snap book.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (YAMLCodec) Unmarshal(data []byte, snap *book.Snapshot) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(snap); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty document")
		}
		return err
	}
	return nil
}
