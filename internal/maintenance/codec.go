package maintenance

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyRecord is returned when a stored blob decodes to JSON null.
var ErrEmptyRecord = errors.New("stored record is null")

// Encode serializes the full record into the JSON blob kept under StorageKey.
// A nil history is written as [] so readers never see null. Text is stored
// as typed: &, < and > are not escaped.
func Encode(data AppData) (string, error) {
	if data.History == nil {
		data.History = []ServiceEntry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return "", fmt.Errorf("encode app data: %w", err)
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// Decode parses a stored blob. Unknown fields are ignored. A missing history
// becomes empty and a non-positive default interval falls back to
// DefaultInterval, since forms cannot be pre-filled from either.
func Decode(blob string) (AppData, error) {
	trimmed := bytes.TrimSpace([]byte(blob))
	if bytes.Equal(trimmed, []byte("null")) {
		return AppData{}, ErrEmptyRecord
	}

	var data AppData
	if err := json.Unmarshal(trimmed, &data); err != nil {
		return AppData{}, fmt.Errorf("decode app data: %w", err)
	}
	if data.History == nil {
		data.History = []ServiceEntry{}
	}
	if data.Settings.DefaultInterval <= 0 {
		data.Settings.DefaultInterval = DefaultInterval
	}
	return data, nil
}
