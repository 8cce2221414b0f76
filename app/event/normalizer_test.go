package event

import (
	"reflect"
	"testing"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"plain", "Concert", "Concert"},
		{"surrounding whitespace", "  Concert  ", "Concert"},
		{"straight double quotes", `"Jazz Night"`, "Jazz Night"},
		{"straight single quotes", "'Jazz Night'", "Jazz Night"},
		{"curly double quotes", "“Jazz Night”", "Jazz Night"},
		{"curly single quotes", "‘Jazz Night’", "Jazz Night"},
		{"mismatched quotes kept", `"Jazz Night`, `"Jazz Night`},
		{"one layer only", `""Jazz Night""`, `"Jazz Night"`},
		{"whitespace runs collapsed", "Jazz   Night \t Live", "Jazz Night Live"},
		{"case preserved", "JAZZ night", "JAZZ night"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTitle(tt.input); got != tt.expected {
				t.Errorf("NormalizeTitle(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeVenueName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"no comma", "Madison Square Garden", "Madison Square Garden"},
		{"venue with address", "MSG, 4 Penn Plaza", "MSG"},
		{"multiple commas", "MSG, 4 Penn Plaza, New York", "MSG"},
		{"whitespace trimmed", "  The Fillmore  ", "The Fillmore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeVenueName(tt.input); got != tt.expected {
				t.Errorf("NormalizeVenueName(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"iso passes through", "2026-01-15", "2026-01-15"},
		{"slash date", "01/15/2026", "2026-01-15"},
		{"slash date unpadded", "1/5/2026", "2026-01-05"},
		{"month name", "January 15, 2026", "2026-01-15"},
		{"abbreviated month name", "Jan 15, 2026", "2026-01-15"},
		{"month name without comma", "January 15 2026", "2026-01-15"},
		{"impossible slash date", "13/40/2026", ""},
		{"unknown shape", "next Tuesday", ""},
		{"garbage", "not a date", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDate(tt.input); got != tt.expected {
				t.Errorf("NormalizeDate(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"24 hour passes through", "19:00", "19:00"},
		{"24 hour zero padded", "7:30", "07:30"},
		{"pm with space", "7 PM", "19:00"},
		{"pm without space", "7PM", "19:00"},
		{"lowercase pm with minutes", "7:30pm", "19:30"},
		{"am", "9 AM", "09:00"},
		{"noon", "12 PM", "12:00"},
		{"midnight", "12 AM", "00:00"},
		{"invalid hour", "25:00", ""},
		{"invalid minutes", "7:75pm", ""},
		{"garbage", "evening", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTime(tt.input); got != tt.expected {
				t.Errorf("NormalizeTime(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
	}{
		{"", CategoryOther},
		{"concert", CategoryConcert},
		{"Live Music", CategoryConcert},
		{"music festival", CategoryConcert},
		{"NBA", CategorySports},
		{"nfl game", CategorySports},
		{"Broadway show", CategoryTheater},
		{"tech conference", CategoryConference},
		{"street festival", CategoryFestival},
		{"DJ set", CategoryNightlife},
		{"city council meeting", CategoryCivic},
		{"university lecture", CategoryAcademic},
		{"airport expansion", CategoryAirport},
		{"something else entirely", CategoryOther},
	}

	for _, tt := range tests {
		if got := NormalizeCategory(tt.input); got != tt.expected {
			t.Errorf("NormalizeCategory(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeCategory_FixedPoint(t *testing.T) {
	// Every category value must normalize to itself so re-normalizing an
	// already-normalized record cannot move it to a different category.
	for category := range knownCategories {
		if got := NormalizeCategory(string(category)); got != category {
			t.Errorf("NormalizeCategory(%q) = %q, expected fixed point", category, got)
		}
	}
}

func TestNormalizeAttendance(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"high", "high"},
		{"HIGH", "high"},
		{"Medium", "medium"},
		{"low", "low"},
		{"", ""},
		{"massive", ""},
	}

	for _, tt := range tests {
		if got := NormalizeAttendance(tt.input); got != tt.expected {
			t.Errorf("NormalizeAttendance(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizer_Run(t *testing.T) {
	normalizer := NewNormalizer(Context{City: "New York", State: "NY"})

	raw := RawEvent{
		"title":      `"Concert at Madison Square Garden"`,
		"venue":      "MSG, 4 Penn Plaza",
		"event_date": "01/15/2026",
		"event_time": "7 PM",
	}

	got := normalizer.Run(raw)

	if got.Title != "Concert at Madison Square Garden" {
		t.Errorf("Expected title 'Concert at Madison Square Garden', got %q", got.Title)
	}
	if got.VenueName != "MSG" {
		t.Errorf("Expected venue name 'MSG', got %q", got.VenueName)
	}
	if got.Address != "4 Penn Plaza" {
		t.Errorf("Expected address '4 Penn Plaza', got %q", got.Address)
	}
	if got.EventStartDate != "2026-01-15" {
		t.Errorf("Expected start date '2026-01-15', got %q", got.EventStartDate)
	}
	if got.EventStartTime != "19:00" {
		t.Errorf("Expected start time '19:00', got %q", got.EventStartTime)
	}
	if got.City != "New York" || got.State != "NY" {
		t.Errorf("Expected context city/state, got %q/%q", got.City, got.State)
	}
	if got.Category != CategoryOther {
		t.Errorf("Expected default category 'other', got %q", got.Category)
	}
}

func TestNormalizer_Run_CurrentFieldNames(t *testing.T) {
	normalizer := NewNormalizer(Context{City: "Dallas", State: "TX"})

	raw := RawEvent{
		"title":            "Cirque du Soleil",
		"venue_name":       "Cosm",
		"event_start_date": "2026-03-01",
		"event_start_time": "20:00",
		"event_end_time":   "22:00",
	}

	got := normalizer.Run(raw)

	if got.VenueName != "Cosm" {
		t.Errorf("Expected venue name 'Cosm', got %q", got.VenueName)
	}
	if got.EventStartDate != "2026-03-01" {
		t.Errorf("Expected start date '2026-03-01', got %q", got.EventStartDate)
	}
	if got.EventStartTime != "20:00" {
		t.Errorf("Expected start time '20:00', got %q", got.EventStartTime)
	}
	if got.EventEndTime != "22:00" {
		t.Errorf("Expected end time '22:00', got %q", got.EventEndTime)
	}
}

func TestNormalizer_Run_RecordOverridesContext(t *testing.T) {
	normalizer := NewNormalizer(Context{City: "New York", State: "NY"})

	raw := RawEvent{
		"title": "Away Game",
		"venue": "Arena",
		"city":  "Boston",
		"state": "MA",
	}

	got := normalizer.Run(raw)

	if got.City != "Boston" || got.State != "MA" {
		t.Errorf("Record-supplied city/state should win, got %q/%q", got.City, got.State)
	}
}

func TestNormalizer_Run_Coordinates(t *testing.T) {
	normalizer := NewNormalizer(Context{})

	tests := []struct {
		name     string
		raw      RawEvent
		expected *Coordinates
	}{
		{"float values", RawEvent{"lat": 40.7505, "lng": -73.9934}, &Coordinates{Lat: 40.7505, Lng: -73.9934}},
		{"string values", RawEvent{"lat": "40.7505", "lng": "-73.9934"}, &Coordinates{Lat: 40.7505, Lng: -73.9934}},
		{"missing lng", RawEvent{"lat": 40.7505}, nil},
		{"unparseable", RawEvent{"lat": "north", "lng": "west"}, nil},
		{"nested form", RawEvent{"coordinates": map[string]any{"lat": 40.7505, "lng": -73.9934}}, &Coordinates{Lat: 40.7505, Lng: -73.9934}},
		{"absent", RawEvent{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizer.Run(tt.raw).Coordinates
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected coordinates %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNormalizer_Run_MalformedFieldsDegrade(t *testing.T) {
	normalizer := NewNormalizer(Context{City: "Austin", State: "TX"})

	raw := RawEvent{
		"title":      nil,
		"venue":      42,
		"event_date": "whenever",
		"event_time": "late",
		"category":   "???",
	}

	got := normalizer.Run(raw)

	if got.Title != "" {
		t.Errorf("Expected empty title, got %q", got.Title)
	}
	if got.VenueName != "" {
		t.Errorf("Expected empty venue name, got %q", got.VenueName)
	}
	if got.EventStartDate != "" {
		t.Errorf("Expected absent start date, got %q", got.EventStartDate)
	}
	if got.EventStartTime != "" {
		t.Errorf("Expected absent start time, got %q", got.EventStartTime)
	}
	if got.Category != CategoryOther {
		t.Errorf("Expected category 'other', got %q", got.Category)
	}
}

func TestNormalizer_Run_Deterministic(t *testing.T) {
	normalizer := NewNormalizer(Context{City: "New York", State: "NY"})

	raw := RawEvent{
		"title":               `"Concert"`,
		"venue":               "MSG, 4 Penn Plaza",
		"event_date":          "01/15/2026",
		"event_time":          "7 PM",
		"category":            "live music",
		"expected_attendance": "HIGH",
		"lat":                 40.7505,
		"lng":                 -73.9934,
		"source_model":        "provider-a",
	}

	first := normalizer.Run(raw)
	second := normalizer.Run(raw)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Normalization not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestNormalizer_Run_Idempotent(t *testing.T) {
	normalizer := NewNormalizer(Context{City: "New York", State: "NY"})

	raw := RawEvent{
		"title":               `"Concert at MSG"`,
		"venue":               "MSG, 4 Penn Plaza",
		"event_date":          "January 15, 2026",
		"event_time":          "7:30pm",
		"event_end_time":      "11 PM",
		"category":            "live music",
		"expected_attendance": "high",
		"lat":                 "40.7505",
		"lng":                 "-73.9934",
		"source_model":        "provider-a",
	}

	once := normalizer.Run(raw)

	// Feed the canonical fields back in, as a defensive consumer would.
	again := normalizer.Run(RawEvent{
		"title":               once.Title,
		"venue_name":          once.VenueName,
		"address":             once.Address,
		"city":                once.City,
		"state":               once.State,
		"event_start_date":    once.EventStartDate,
		"event_start_time":    once.EventStartTime,
		"event_end_time":      once.EventEndTime,
		"category":            string(once.Category),
		"expected_attendance": once.ExpectedAttendance,
		"coordinates":         once.Coordinates,
		"source_model":        once.SourceModel,
	})

	if !reflect.DeepEqual(once, again) {
		t.Errorf("Normalization not idempotent:\nonce:  %+v\nagain: %+v", once, again)
	}
}

func TestNormalizer_RunBatch(t *testing.T) {
	normalizer := NewNormalizer(Context{City: "New York", State: "NY"})

	batch := []any{
		map[string]any{"title": "Event One", "venue": "Venue A"},
		map[string]any{"title": "Event Two", "venue": "Venue B"},
	}

	got := normalizer.RunBatch(batch)

	if len(got) != 2 {
		t.Fatalf("Expected 2 normalized events, got %d", len(got))
	}
	if got[0].Title != "Event One" || got[1].Title != "Event Two" {
		t.Errorf("Batch order not preserved: %q, %q", got[0].Title, got[1].Title)
	}
}

func TestNormalizer_RunBatch_NonListInput(t *testing.T) {
	normalizer := NewNormalizer(Context{})

	inputs := []any{
		nil,
		"not an array",
		42,
		map[string]any{"title": "lone object"},
	}

	for _, input := range inputs {
		got := normalizer.RunBatch(input)
		if len(got) != 0 {
			t.Errorf("RunBatch(%v) should yield an empty slice, got %d events", input, len(got))
		}
	}
}
