package event

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Normalizer converts raw provider records into the canonical schema.
// Normalization is lenient: a field that cannot be repaired degrades to its
// absent form (empty string, nil coordinates) and the record travels on to
// validation, which is where rejection happens.
type Normalizer struct {
	ctx   Context
	rules []CategoryRule
}

func NewNormalizer(ctx Context) *Normalizer {
	return &Normalizer{
		ctx:   ctx,
		rules: DefaultCategoryRules(),
	}
}

// NewNormalizerWithRules uses a custom category keyword table, e.g. one
// loaded from a rules file.
func NewNormalizerWithRules(ctx Context, rules []CategoryRule) *Normalizer {
	return &Normalizer{
		ctx:   ctx,
		rules: rules,
	}
}

// Run normalizes a single raw record. Both legacy (event_date, event_time)
// and current (event_start_date, event_start_time) field names are accepted,
// and the canonical field names themselves are accepted too, so feeding a
// normalized record back through Run is a fixed point.
func (n *Normalizer) Run(raw RawEvent) NormalizedEvent {
	venueRaw := raw.str("venue_name", "venue")

	normalized := NormalizedEvent{
		Title:              NormalizeTitle(raw.str("title")),
		VenueName:          NormalizeVenueName(venueRaw),
		Address:            n.extractAddress(raw, venueRaw),
		City:               coalesce(strings.TrimSpace(raw.str("city")), n.ctx.City),
		State:              coalesce(strings.TrimSpace(raw.str("state")), n.ctx.State),
		EventStartDate:     NormalizeDate(raw.str("event_start_date", "event_date")),
		EventStartTime:     NormalizeTime(raw.str("event_start_time", "event_time")),
		EventEndTime:       NormalizeTime(raw.str("event_end_time")),
		Category:           normalizeCategory(raw.str("category"), n.rules),
		ExpectedAttendance: NormalizeAttendance(raw.str("expected_attendance")),
		SourceModel:        raw.str("source_model"),
	}

	normalized.Coordinates = extractCoordinates(raw)

	return normalized
}

// RunBatch normalizes a sequence of raw records. The input is typed as any
// because provider payloads arrive as decoded JSON: anything that is not a
// list (nil, a bare string, an object) yields an empty slice, never a panic.
func (n *Normalizer) RunBatch(input any) []NormalizedEvent {
	raws := AsBatch(input)

	events := make([]NormalizedEvent, 0, len(raws))
	for _, raw := range raws {
		events = append(events, n.Run(raw))
	}
	return events
}

// AsBatch coerces decoded JSON into a list of raw events. Non-list input of
// any kind comes back as an empty batch.
func AsBatch(input any) []RawEvent {
	switch batch := input.(type) {
	case []RawEvent:
		return batch
	case []map[string]any:
		raws := make([]RawEvent, 0, len(batch))
		for _, m := range batch {
			raws = append(raws, RawEvent(m))
		}
		return raws
	case []any:
		raws := make([]RawEvent, 0, len(batch))
		for _, v := range batch {
			if m, ok := v.(map[string]any); ok {
				raws = append(raws, RawEvent(m))
			}
		}
		return raws
	default:
		return nil
	}
}

func (n *Normalizer) extractAddress(raw RawEvent, venueRaw string) string {
	if addr := strings.TrimSpace(raw.str("address")); addr != "" {
		return addr
	}
	// Providers commonly return "Venue Name, Street Address" in one field;
	// the portion after the first comma is the address.
	if idx := strings.Index(venueRaw, ","); idx >= 0 {
		return strings.TrimSpace(venueRaw[idx+1:])
	}
	return ""
}

func extractCoordinates(raw RawEvent) *Coordinates {
	lat, latOK := raw.num("lat")
	lng, lngOK := raw.num("lng")
	if latOK && lngOK {
		return &Coordinates{Lat: lat, Lng: lng}
	}

	// Nested form, as produced by normalization itself.
	if nested, ok := raw["coordinates"].(map[string]any); ok {
		lat, latOK = RawEvent(nested).num("lat")
		lng, lngOK = RawEvent(nested).num("lng")
		if latOK && lngOK {
			return &Coordinates{Lat: lat, Lng: lng}
		}
	}
	if nested, ok := raw["coordinates"].(*Coordinates); ok && nested != nil {
		return &Coordinates{Lat: nested.Lat, Lng: nested.Lng}
	}
	return nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// quotePairs lists the surrounding quote styles stripped from titles, one
// layer only and only when both ends match.
var quotePairs = [][2]string{
	{`"`, `"`},
	{`'`, `'`},
	{"“", "”"}, // curly double
	{"‘", "’"}, // curly single
}

// NormalizeTitle trims, strips a single layer of surrounding quotes, and
// collapses whitespace runs to a single space. Content is otherwise left
// alone: no case changes, no truncation.
func NormalizeTitle(title string) string {
	title = strings.TrimSpace(norm.NFC.String(title))
	if title == "" {
		return ""
	}

	for _, pair := range quotePairs {
		if len(title) > len(pair[0])+len(pair[1]) &&
			strings.HasPrefix(title, pair[0]) && strings.HasSuffix(title, pair[1]) {
			title = title[len(pair[0]) : len(title)-len(pair[1])]
			break
		}
	}

	title = whitespaceRun.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}

// NormalizeVenueName extracts the venue from the common
// "Venue Name, Street Address" provider shape: everything before the first
// comma. Input without a comma is returned trimmed.
func NormalizeVenueName(venue string) string {
	venue = norm.NFC.String(venue)
	if idx := strings.Index(venue, ","); idx >= 0 {
		venue = venue[:idx]
	}
	return strings.TrimSpace(venue)
}

var (
	isoDateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// monthNameLayouts cover the "Month DD, YYYY" provider shape, full and
// abbreviated English month names.
var monthNameLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
}

// NormalizeDate converts the three accepted date shapes to YYYY-MM-DD:
// ISO input passes through unchanged, M/D/YYYY is re-emitted zero-padded,
// and English month-name dates are parsed. Anything else is absent ("").
func NormalizeDate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return ""
	}

	if isoDateRe.MatchString(date) {
		return date
	}

	if m := slashDateRe.FindStringSubmatch(date); m != nil {
		if _, err := time.Parse("1/2/2006", date); err != nil {
			return ""
		}
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
	}

	for _, layout := range monthNameLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("2006-01-02")
		}
	}

	return ""
}

var (
	clockTimeRe  = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	twelveHourRe = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?\s*([AP])\.?M\.?$`)
)

// NormalizeTime converts accepted time shapes to 24-hour HH:MM. 24-hour
// input passes through (zero-padded); 12-hour forms with an AM/PM suffix,
// with or without minutes or a space, are converted (12 AM -> 00:00,
// 12 PM -> 12:00). Anything else is absent ("").
func NormalizeTime(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return ""
	}

	if m := clockTimeRe.FindStringSubmatch(t); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return ""
		}
		return fmt.Sprintf("%02d:%02d", hour, minute)
	}

	if m := twelveHourRe.FindStringSubmatch(t); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			return ""
		}

		pm := strings.EqualFold(m[3], "P")
		if pm && hour != 12 {
			hour += 12
		} else if !pm && hour == 12 {
			hour = 0
		}
		return fmt.Sprintf("%02d:%02d", hour, minute)
	}

	return ""
}

// NormalizeAttendance passes a recognized attendance level through,
// case-insensitively. Unrecognized or empty input stays absent rather than
// being defaulted: absence means the provider expressed no opinion.
func NormalizeAttendance(attendance string) string {
	switch strings.ToLower(strings.TrimSpace(attendance)) {
	case AttendanceHigh:
		return AttendanceHigh
	case AttendanceMedium:
		return AttendanceMedium
	case AttendanceLow:
		return AttendanceLow
	default:
		return ""
	}
}

// NormalizeCategory maps a free-text category hint into the closed category
// enumeration using the default keyword table.
func NormalizeCategory(hint string) Category {
	return normalizeCategory(hint, DefaultCategoryRules())
}

func normalizeCategory(hint string, rules []CategoryRule) Category {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint == "" {
		return CategoryOther
	}

	for _, rule := range rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(hint, keyword) {
				return rule.Category
			}
		}
	}
	return CategoryOther
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
