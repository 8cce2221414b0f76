package event

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// lowered folds a string to lower case for hash canonicalization. A fresh
// Caser per call: cases.Caser carries state and is not safe to share across
// goroutines, and batches are hashed concurrently.
func lowered(s string) string {
	return cases.Lower(language.Und).String(s)
}

// venueSuffixSeparators are the ways providers append the venue to the
// title ("Concert at Venue X", "Concert @ Venue X", "Concert - Venue X").
var venueSuffixSeparators = []string{" at ", " @ ", " - "}

// BuildHashInput builds the deterministic identity string an event is hashed
// over: lower-cased title (with a trailing venue reference stripped when it
// names the event's own venue), venue name, address, start date, and start
// time. The time is re-passed through the normalizer so "7 PM" and "19:00"
// collapse to the same representation regardless of what the caller stored.
func BuildHashInput(e NormalizedEvent) string {
	title := lowered(strings.TrimSpace(e.Title))
	venue := lowered(strings.TrimSpace(e.VenueName))

	title = stripVenueSuffix(title, venue)

	return fmt.Sprintf("%s|%s|%s|%s|%s",
		title,
		venue,
		lowered(strings.TrimSpace(e.Address)),
		e.EventStartDate,
		NormalizeTime(e.EventStartTime))
}

// stripVenueSuffix removes a trailing " at <venue>" / " @ <venue>" /
// " - <venue>" from an already lower-cased title, only when the suffix venue
// is the event's own venue. "Concert" and "Concert at Venue X" hash
// identically when both carry venue_name "Venue X".
func stripVenueSuffix(title, venue string) string {
	if venue == "" {
		return title
	}
	for _, sep := range venueSuffixSeparators {
		suffix := sep + venue
		if strings.HasSuffix(title, suffix) && len(title) > len(suffix) {
			return strings.TrimSpace(strings.TrimSuffix(title, suffix))
		}
	}
	return title
}

// GenerateEventHash derives the 128-bit content hash (32 lowercase hex
// characters) identifying an event. This is an identity fingerprint for
// deduplication, not a security primitive.
func GenerateEventHash(e NormalizedEvent) string {
	sum := md5.Sum([]byte(BuildHashInput(e)))
	return hex.EncodeToString(sum[:])
}

func EventsHaveSameHash(a, b NormalizedEvent) bool {
	return GenerateEventHash(a) == GenerateEventHash(b)
}

// HashGroup is a transient aggregate of events sharing one content hash,
// produced only for duplicate reporting. The caller decides which member is
// authoritative; grouping never picks a winner.
type HashGroup struct {
	Hash   string            `json:"hash"`
	Events []NormalizedEvent `json:"events"`
	Count  int               `json:"count"`
}

// GroupEventsByHash maps each content hash to the events sharing it.
func GroupEventsByHash(events []NormalizedEvent) map[string][]NormalizedEvent {
	groups := make(map[string][]NormalizedEvent)
	for _, e := range events {
		hash := GenerateEventHash(e)
		groups[hash] = append(groups[hash], e)
	}
	return groups
}

// FindDuplicatesByHash returns the groups with more than one member, in
// first-seen order, each annotated with its member count.
func FindDuplicatesByHash(events []NormalizedEvent) []HashGroup {
	groups := make(map[string][]NormalizedEvent)
	order := make([]string, 0)

	for _, e := range events {
		hash := GenerateEventHash(e)
		if _, seen := groups[hash]; !seen {
			order = append(order, hash)
		}
		groups[hash] = append(groups[hash], e)
	}

	duplicates := make([]HashGroup, 0)
	for _, hash := range order {
		members := groups[hash]
		if len(members) > 1 {
			duplicates = append(duplicates, HashGroup{
				Hash:   hash,
				Events: members,
				Count:  len(members),
			})
		}
	}
	return duplicates
}
