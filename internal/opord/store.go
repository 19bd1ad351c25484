package opord

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"log"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
)

// PersistFunc writes the whole state to durable storage. It is called after
// every mutation.
type PersistFunc func(FormState) error

// Store owns the current FormState. Mutations never edit the held value in
// place: each one builds a new state and swaps it in.
type Store struct {
	mu      sync.Mutex
	state   FormState
	persist PersistFunc
}

// NewStore rehydrates a store from previously persisted bytes. Empty or
// unparsable data falls back to DefaultState. persist may be nil.
func NewStore(persist PersistFunc, saved []byte) *Store {
	state := DefaultState()
	if len(bytes.TrimSpace(saved)) > 0 {
		loaded, err := ImportJSON(saved)
		if err != nil {
			log.Printf("opord: ignoring persisted state: %v", err)
		} else {
			state = loaded
		}
	}
	return &Store{state: state, persist: persist}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Replace swaps in next wholesale.
func (s *Store) Replace(next FormState) {
	_ = s.update(func(st *FormState) error {
		*st = next.Clone()
		return nil
	})
}

// Import decodes a JSON document and replaces the state with it. On error the
// current state is left as it was.
func (s *Store) Import(data []byte) (FormState, error) {
	next, err := ImportJSON(data)
	if err != nil {
		return FormState{}, err
	}
	s.Replace(next)
	return next, nil
}

func (s *Store) SetMeta(key, value string) error {
	return s.update(func(st *FormState) error {
		if !st.Meta.set(key, value) {
			return fieldError("meta", key)
		}
		return nil
	})
}

func (s *Store) SetWindow(key, value string) error {
	return s.update(func(st *FormState) error {
		switch key {
		case WindowStart:
			st.Window.Start = value
		case WindowEnd:
			st.Window.End = value
		default:
			return fieldError("window", key)
		}
		return nil
	})
}

// SetActivityField sets one field of row index. Minutes are parsed from
// text; anything that is not a non-negative number becomes 0.
func (s *Store) SetActivityField(index int, key, value string) error {
	return s.update(func(st *FormState) error {
		if index < 0 || index >= len(st.Rows) {
			return indexError("activity", index, len(st.Rows))
		}
		row := &st.Rows[index]
		switch key {
		case RowActivity:
			row.Activity = value
		case RowLocation:
			row.Location = value
		case RowPOCIC:
			row.POCIC = value
		case RowMinutes:
			row.Minutes = ParseMinutes(value)
		default:
			return fieldError("activity", key)
		}
		return nil
	})
}

func (s *Store) AddActivity() {
	_ = s.update(func(st *FormState) error {
		st.Rows = append(st.Rows, ActivityRow{})
		return nil
	})
}

// RemoveActivity deletes row index; later rows shift down by one.
func (s *Store) RemoveActivity(index int) error {
	return s.update(func(st *FormState) error {
		if index < 0 || index >= len(st.Rows) {
			return indexError("activity", index, len(st.Rows))
		}
		st.Rows = append(st.Rows[:index], st.Rows[index+1:]...)
		return nil
	})
}

func (s *Store) AddAttachment() {
	_ = s.update(func(st *FormState) error {
		st.Attachments = append(st.Attachments, Attachment{})
		return nil
	})
}

func (s *Store) SetAttachmentName(index int, value string) error {
	return s.update(func(st *FormState) error {
		if index < 0 || index >= len(st.Attachments) {
			return indexError("attachment", index, len(st.Attachments))
		}
		st.Attachments[index].Name = value
		return nil
	})
}

// RemoveAttachment deletes attachment index; later attachments shift down.
func (s *Store) RemoveAttachment(index int) error {
	return s.update(func(st *FormState) error {
		if index < 0 || index >= len(st.Attachments) {
			return indexError("attachment", index, len(st.Attachments))
		}
		st.Attachments = append(st.Attachments[:index], st.Attachments[index+1:]...)
		return nil
	})
}

// AttachImage reads an image and stores it as a data URI on attachment
// index. The read happens outside the store lock, so the attachment keeps its
// previous image until the read completes. Two calls for the same index race
// and the later completion wins.
func (s *Store) AttachImage(ctx context.Context, index int, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	uri := EncodeDataURI(data)

	return s.update(func(st *FormState) error {
		if index < 0 || index >= len(st.Attachments) {
			return indexError("attachment", index, len(st.Attachments))
		}
		st.Attachments[index].ImageDataURL = uri
		return nil
	})
}

// update applies fn to a copy of the state and swaps it in when fn succeeds.
// Persistence runs under the lock so storage never sees writes out of order.
func (s *Store) update(fn func(*FormState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	s.state = next

	if s.persist != nil {
		if err := s.persist(next.Clone()); err != nil {
			log.Printf("opord: persist state: %v", err)
		}
	}
	return nil
}

// EncodeDataURI encodes data as a base64 data URI using the detected media
// type.
func EncodeDataURI(data []byte) string {
	mediaType, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return "data:" + strings.TrimSpace(mediaType) + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseMinutes converts form text to a duration in minutes.
func ParseMinutes(value string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
