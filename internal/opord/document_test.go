package opord

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func sampleState() FormState {
	return FormState{
		Meta: Meta{
			Title:          "Land Nav <Practical>",
			Unit:           "Det 860",
			OpordNumber:    "24-07",
			DTGLocal:       "051300MAR24",
			Location:       "Green Canyon & Trailhead",
			Classification: "UNCLASSIFIED",
		},
		Window: Window{Start: "2024-03-05T09:00", End: "2024-03-05T10:00"},
		Rows: []ActivityRow{
			{Activity: "Brief", Location: "Bldg 12", POCIC: "C/Lt Doe", Minutes: 15},
			{Activity: "Movement", Location: "Lot B", POCIC: "C/Capt Roe", Minutes: 7.5},
		},
		Attachments: []Attachment{
			{Name: "Route sketch", ImageDataURL: "data:image/png;base64,AAAA"},
			{Name: "Comms card"},
		},
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	for _, s := range []FormState{sampleState(), DefaultState(), {Rows: []ActivityRow{}, Attachments: []Attachment{}}} {
		data, err := ExportJSON(s)
		mustNoErr(t, err)
		got, err := ImportJSON(data)
		mustNoErr(t, err)
		if diff := cmp.Diff(s, got); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestExportJSONFormat(t *testing.T) {
	data, err := ExportJSON(sampleState())
	mustNoErr(t, err)
	text := string(data)

	for _, want := range []string{
		"{\n  \"meta\": {\n    \"title\": \"Land Nav <Practical>\",",
		"\"llabWindow\": {",
		"\"llabRows\": [",
		"\"pocic\": \"C/Lt Doe\"",
		"\"minutes\": 7.5",
		"\"imageDataUrl\": \"data:image/png;base64,AAAA\"",
		"Green Canyon & Trailhead",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("export missing %q:\n%s", want, text)
		}
	}
	if strings.Count(text, "imageDataUrl") != 1 {
		t.Fatalf("attachment without image should omit imageDataUrl:\n%s", text)
	}
}

func TestExportImportRoundTripZeroValue(t *testing.T) {
	data, err := ExportJSON(FormState{})
	mustNoErr(t, err)
	got, err := ImportJSON(data)
	mustNoErr(t, err)
	if got.Rows == nil || got.Attachments == nil {
		t.Fatalf("import left nil slices: %+v", got)
	}
	if diff := cmp.Diff(FormState{}, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExportJSONEmitsArraysForNilSlices(t *testing.T) {
	data, err := ExportJSON(FormState{})
	mustNoErr(t, err)
	if !strings.Contains(string(data), `"llabRows": []`) || !strings.Contains(string(data), `"attachments": []`) {
		t.Fatalf("expected empty arrays:\n%s", data)
	}
}

func TestImportJSONShallowMerge(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want func() FormState
	}{
		{
			name: "missing keys fall back to defaults",
			in:   `{"llabWindow": {"start": "2024-03-05T09:00", "end": "2024-03-05T10:00"}}`,
			want: func() FormState {
				s := DefaultState()
				s.Window = Window{Start: "2024-03-05T09:00", End: "2024-03-05T10:00"}
				return s
			},
		},
		{
			name: "nested meta is replaced wholesale",
			in:   `{"meta": {"title": "Only title"}}`,
			want: func() FormState {
				s := DefaultState()
				s.Meta = Meta{Title: "Only title"}
				return s
			},
		},
		{
			name: "empty rows are kept empty",
			in:   `{"llabRows": []}`,
			want: func() FormState {
				s := DefaultState()
				s.Rows = []ActivityRow{}
				return s
			},
		},
		{
			name: "null rows become empty",
			in:   `{"llabRows": null}`,
			want: func() FormState {
				s := DefaultState()
				s.Rows = []ActivityRow{}
				return s
			},
		},
		{
			name: "unknown keys are ignored",
			in:   `{"version": 3, "attachments": [{"name": "A"}]}`,
			want: func() FormState {
				s := DefaultState()
				s.Attachments = []Attachment{{Name: "A"}}
				return s
			},
		},
		{name: "null document", in: `null`, want: DefaultState},
		{name: "array document", in: `[1, 2]`, want: DefaultState},
		{name: "number document", in: ` 42 `, want: DefaultState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ImportJSON([]byte(tt.in))
			mustNoErr(t, err)
			if diff := cmp.Diff(tt.want(), got); diff != "" {
				t.Fatalf("state mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestImportJSONParseErrors(t *testing.T) {
	for _, in := range []string{
		``,
		`{`,
		`{"meta": }`,
		`not json at all`,
		`{"meta": 5}`,
		`{"llabRows": [{"minutes": "ten"}]}`,
		`{"attachments": {"name": "x"}}`,
	} {
		_, err := ImportJSON([]byte(in))
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("%q: err = %v, want *ParseError", in, err)
		}
		if perr.Unwrap() == nil {
			t.Fatalf("%q: parse error without cause", in)
		}
	}
}

func TestExportDOCXUnavailable(t *testing.T) {
	data, err := ExportDOCX(sampleState())
	if !errors.Is(err, ErrUnimplemented) {
		t.Fatalf("err = %v, want ErrUnimplemented", err)
	}
	if data != nil {
		t.Fatalf("expected no document bytes")
	}
}
