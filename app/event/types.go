package event

// Raw provider output. Providers return loosely-shaped dictionaries and any
// field may be absent, empty, or of the wrong type, so the raw record is kept
// as an untyped bag and read defensively.
type RawEvent map[string]any

// Ambient discovery context: where the providers were searching when the
// record was produced. Used to fill city/state unless the record carries its own.
type Context struct {
	City  string
	State string
}

// Event categories (closed enumeration)

type Category string

const (
	CategoryConcert    Category = "concert"
	CategorySports     Category = "sports"
	CategoryTheater    Category = "theater"
	CategoryConference Category = "conference"
	CategoryFestival   Category = "festival"
	CategoryNightlife  Category = "nightlife"
	CategoryCivic      Category = "civic"
	CategoryAcademic   Category = "academic"
	CategoryAirport    Category = "airport"
	CategoryOther      Category = "other"
)

// Expected attendance levels. Absence (empty string) means the provider
// expressed no opinion; it is never defaulted.
const (
	AttendanceHigh   = "high"
	AttendanceMedium = "medium"
	AttendanceLow    = "low"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NormalizedEvent is the canonical schema produced by normalization and
// consumed by validation and hashing. Date/time fields use the empty string
// for "absent"; dates are YYYY-MM-DD, times are 24-hour HH:MM.
type NormalizedEvent struct {
	Title              string       `json:"title"`
	VenueName          string       `json:"venue_name"`
	Address            string       `json:"address,omitempty"`
	City               string       `json:"city"`
	State              string       `json:"state"`
	EventStartDate     string       `json:"event_start_date,omitempty"`
	EventStartTime     string       `json:"event_start_time,omitempty"`
	EventEndTime       string       `json:"event_end_time,omitempty"`
	Category           Category     `json:"category"`
	ExpectedAttendance string       `json:"expected_attendance,omitempty"`
	Coordinates        *Coordinates `json:"coordinates,omitempty"`
	SourceModel        string       `json:"source_model,omitempty"`

	// Stamped after validation, before handing the record downstream.
	ContentHash string `json:"content_hash,omitempty"`
}

// helpers for reading the untyped raw bag

func (r RawEvent) str(keys ...string) string {
	for _, key := range keys {
		v, ok := r[key]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func (r RawEvent) num(key string) (float64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		return parseFloat(n)
	}
	return 0, false
}
