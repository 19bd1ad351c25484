package opord

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ExportFilename is the download name used for JSON exports.
const ExportFilename = "opord.json"

// ExportJSON encodes the whole state as 2-space indented JSON. Nil row and
// attachment slices are written as empty arrays, so a round trip through
// ImportJSON yields empty, never nil, slices.
func ExportJSON(s FormState) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.normalize()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ImportJSON decodes data and merges it over DefaultState. The merge is
// shallow: a top-level key present in data replaces the default wholesale,
// nested objects included. Valid JSON that is not an object contributes no
// keys and yields the default state.
func ImportJSON(data []byte) (FormState, error) {
	if !json.Valid(data) {
		var probe any
		err := json.Unmarshal(data, &probe)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return FormState{}, &ParseError{Err: err}
	}

	state := DefaultState()
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return state, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return FormState{}, &ParseError{Err: err}
	}

	if v, ok := raw["meta"]; ok {
		var meta Meta
		if err := json.Unmarshal(v, &meta); err != nil {
			return FormState{}, &ParseError{Err: err}
		}
		state.Meta = meta
	}
	if v, ok := raw["llabWindow"]; ok {
		var w Window
		if err := json.Unmarshal(v, &w); err != nil {
			return FormState{}, &ParseError{Err: err}
		}
		state.Window = w
	}
	if v, ok := raw["llabRows"]; ok {
		var rows []ActivityRow
		if err := json.Unmarshal(v, &rows); err != nil {
			return FormState{}, &ParseError{Err: err}
		}
		state.Rows = rows
	}
	if v, ok := raw["attachments"]; ok {
		var atts []Attachment
		if err := json.Unmarshal(v, &atts); err != nil {
			return FormState{}, &ParseError{Err: err}
		}
		state.Attachments = atts
	}

	return state.normalize(), nil
}

// ExportDOCX is a placeholder for Word export.
func ExportDOCX(FormState) ([]byte, error) {
	return nil, ErrUnimplemented
}
