// Package opord holds the OPORD table builder: the form state, the store that
// owns it, the schedule planner and the document import/export helpers.
package opord

// Meta is the free-text header block of an OPORD. No field is validated.
type Meta struct {
	Title          string `json:"title"`
	Unit           string `json:"unit"`
	OpordNumber    string `json:"opordNumber"`
	DTGLocal       string `json:"dtgLocal"`
	Location       string `json:"location"`
	Classification string `json:"classification"`
}

// Window is the LLAB window. Either bound may be empty, meaning unset.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ActivityRow is one line of the LLAB schedule. Order in FormState is the
// schedule order.
type ActivityRow struct {
	Activity string  `json:"activity"`
	Location string  `json:"location"`
	POCIC    string  `json:"pocic"`
	Minutes  float64 `json:"minutes"`
}

type Attachment struct {
	Name         string `json:"name"`
	ImageDataURL string `json:"imageDataUrl,omitempty"`
}

// FormState is the whole builder document. It is always replaced wholesale.
type FormState struct {
	Meta        Meta          `json:"meta"`
	Window      Window        `json:"llabWindow"`
	Rows        []ActivityRow `json:"llabRows"`
	Attachments []Attachment  `json:"attachments"`
}

// Field keys accepted by the field-level store operations.
const (
	MetaTitle          = "title"
	MetaUnit           = "unit"
	MetaOpordNumber    = "opordNumber"
	MetaDTGLocal       = "dtgLocal"
	MetaLocation       = "location"
	MetaClassification = "classification"

	WindowStart = "start"
	WindowEnd   = "end"

	RowActivity = "activity"
	RowLocation = "location"
	RowPOCIC    = "pocic"
	RowMinutes  = "minutes"
)

// MetaKeys lists the meta fields in display order.
var MetaKeys = []string{
	MetaTitle,
	MetaUnit,
	MetaOpordNumber,
	MetaDTGLocal,
	MetaLocation,
	MetaClassification,
}

// DefaultState returns a fresh state with one empty activity row.
func DefaultState() FormState {
	return FormState{
		Rows:        []ActivityRow{{}},
		Attachments: []Attachment{},
	}
}

// Clone returns a deep copy of s.
func (s FormState) Clone() FormState {
	out := s
	if s.Rows != nil {
		out.Rows = append(make([]ActivityRow, 0, len(s.Rows)), s.Rows...)
	}
	if s.Attachments != nil {
		out.Attachments = append(make([]Attachment, 0, len(s.Attachments)), s.Attachments...)
	}
	return out
}

// normalize replaces nil slices with empty ones so the JSON form always
// carries arrays.
func (s FormState) normalize() FormState {
	if s.Rows == nil {
		s.Rows = []ActivityRow{}
	}
	if s.Attachments == nil {
		s.Attachments = []Attachment{}
	}
	return s
}

// MetaValue returns the meta field named by key.
func (m Meta) MetaValue(key string) (string, bool) {
	switch key {
	case MetaTitle:
		return m.Title, true
	case MetaUnit:
		return m.Unit, true
	case MetaOpordNumber:
		return m.OpordNumber, true
	case MetaDTGLocal:
		return m.DTGLocal, true
	case MetaLocation:
		return m.Location, true
	case MetaClassification:
		return m.Classification, true
	}
	return "", false
}

func (m *Meta) set(key, value string) bool {
	switch key {
	case MetaTitle:
		m.Title = value
	case MetaUnit:
		m.Unit = value
	case MetaOpordNumber:
		m.OpordNumber = value
	case MetaDTGLocal:
		m.DTGLocal = value
	case MetaLocation:
		m.Location = value
	case MetaClassification:
		m.Classification = value
	default:
		return false
	}
	return true
}
