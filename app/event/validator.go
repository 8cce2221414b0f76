package event

import "strings"

// ValidationSchemaVersion identifies the rule set below. It is bumped every
// time a rule is added or changed so that records validated under an older
// rule set can be recognized and re-validated at read time instead of being
// migrated. Version 1 predates the end-time requirements.
const ValidationSchemaVersion = 2

// NeedsReadTimeValidation reports whether a record stamped with the given
// schema version (0 meaning no stamp at all) must be re-validated before
// being trusted.
func NeedsReadTimeValidation(storedVersion int) bool {
	return storedVersion < ValidationSchemaVersion
}

// RejectReason is the closed vocabulary of hard-validation failures. Each
// reason names exactly one failed precondition.
type RejectReason string

const (
	ReasonMissingTitle      RejectReason = "missing_title"
	ReasonTBDInTitle        RejectReason = "tbd_in_title"
	ReasonTBDInVenue        RejectReason = "tbd_in_venue"
	ReasonMissingLocation   RejectReason = "missing_location"
	ReasonMissingStartDate  RejectReason = "missing_start_date"
	ReasonInvalidDateFormat RejectReason = "invalid_date_format"
	ReasonMissingStartTime  RejectReason = "missing_start_time"
	ReasonMissingEndTime    RejectReason = "missing_end_time"
	ReasonTBDInEndTime      RejectReason = "tbd_in_end_time"
)

type Verdict struct {
	Valid  bool         `json:"valid"`
	Reason RejectReason `json:"reason,omitempty"`
}

// RejectedEvent pairs an invalid event with the reason it was rejected, so
// no rejection is ever swallowed.
type RejectedEvent struct {
	Event  NormalizedEvent `json:"event"`
	Reason RejectReason    `json:"reason"`
}

// ValidationResult partitions a batch into valid and rejected events. The
// batch is stamped with the schema version it was validated under so stored
// copies can be recognized as stale once the rules change.
type ValidationResult struct {
	Valid         []NormalizedEvent `json:"valid"`
	Invalid       []RejectedEvent   `json:"invalid"`
	Stats         ValidationStats   `json:"stats"`
	SchemaVersion int               `json:"schema_version"`
}

type ValidationStats struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// Validate applies the hard-reject rules to one normalized event. Checks run
// in a fixed precedence order and the first failure determines the reported
// reason. Validation is a pure function of the event: same input, same verdict.
func Validate(e NormalizedEvent) Verdict {
	if e.Title == "" {
		return reject(ReasonMissingTitle)
	}
	if containsTBD(e.Title) {
		return reject(ReasonTBDInTitle)
	}
	if containsTBD(e.VenueName) {
		return reject(ReasonTBDInVenue)
	}
	if e.VenueName == "" && e.Address == "" {
		return reject(ReasonMissingLocation)
	}
	if e.EventStartDate == "" {
		return reject(ReasonMissingStartDate)
	}
	if !isoDateRe.MatchString(e.EventStartDate) {
		return reject(ReasonInvalidDateFormat)
	}
	if e.EventStartTime == "" {
		return reject(ReasonMissingStartTime)
	}
	if e.EventEndTime == "" {
		return reject(ReasonMissingEndTime)
	}
	if containsTBD(e.EventEndTime) {
		return reject(ReasonTBDInEndTime)
	}

	return Verdict{Valid: true}
}

// ValidateBatch partitions a sequence of normalized events. A nil input
// yields empty partitions, not an error.
func ValidateBatch(events []NormalizedEvent) ValidationResult {
	result := ValidationResult{
		Valid:         make([]NormalizedEvent, 0, len(events)),
		Invalid:       make([]RejectedEvent, 0),
		SchemaVersion: ValidationSchemaVersion,
	}

	for _, e := range events {
		verdict := Validate(e)
		if verdict.Valid {
			result.Valid = append(result.Valid, e)
		} else {
			result.Invalid = append(result.Invalid, RejectedEvent{Event: e, Reason: verdict.Reason})
		}
	}

	result.Stats = ValidationStats{
		Total:   len(events),
		Valid:   len(result.Valid),
		Invalid: len(result.Invalid),
	}
	return result
}

func reject(reason RejectReason) Verdict {
	return Verdict{Valid: false, Reason: reason}
}

// containsTBD matches "TBD" anywhere in the value, case-insensitively,
// including inside longer words. Deliberate: see the matching note in DESIGN.md.
func containsTBD(s string) bool {
	return strings.Contains(strings.ToUpper(s), "TBD")
}
