package event

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CategoryRule maps keyword substrings onto one category. Rules are checked
// in order and the first keyword match wins, so more specific categories must
// come before broader ones ("music festival" has to hit concert before
// festival gets a chance at "festival").
type CategoryRule struct {
	Category Category `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// DefaultCategoryRules returns the built-in keyword table. Every category
// name is a keyword of itself, which keeps category normalization a fixed
// point on already-normalized records.
func DefaultCategoryRules() []CategoryRule {
	return []CategoryRule{
		{CategoryConcert, []string{"concert", "live music", "music festival", "gig", "symphony", "orchestra"}},
		{CategorySports, []string{"sports", "nba", "nfl", "mlb", "nhl", "soccer", "game"}},
		{CategoryTheater, []string{"theater", "theatre", "broadway", "musical", "play", "ballet"}},
		{CategoryConference, []string{"conference", "convention", "expo", "summit", "trade show"}},
		{CategoryFestival, []string{"festival", "fair", "carnival", "parade"}},
		{CategoryNightlife, []string{"nightlife", "club night", "dj", "bar crawl"}},
		{CategoryCivic, []string{"civic", "city council", "town hall", "rally"}},
		{CategoryAcademic, []string{"academic", "university", "college", "lecture", "graduation", "commencement"}},
		{CategoryAirport, []string{"airport", "flight"}},
	}
}

var knownCategories = map[Category]bool{
	CategoryConcert:    true,
	CategorySports:     true,
	CategoryTheater:    true,
	CategoryConference: true,
	CategoryFestival:   true,
	CategoryNightlife:  true,
	CategoryCivic:      true,
	CategoryAcademic:   true,
	CategoryAirport:    true,
	CategoryOther:      true,
}

// LoadCategoryRules reads a keyword table from a YAML file. The file may
// reorder rules or extend keywords, but it can only target the closed
// category enumeration; an unknown category fails the load.
func LoadCategoryRules(path string) ([]CategoryRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category rules: %w", err)
	}

	var rules []CategoryRule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse category rules %s: %w", path, err)
	}

	for i, rule := range rules {
		if !knownCategories[rule.Category] {
			return nil, fmt.Errorf("invalid config %s: unknown category '%s'", path, rule.Category)
		}
		if len(rule.Keywords) == 0 {
			return nil, fmt.Errorf("invalid config %s: category '%s' has no keywords", path, rule.Category)
		}
		for j, keyword := range rule.Keywords {
			rules[i].Keywords[j] = strings.ToLower(strings.TrimSpace(keyword))
		}
	}

	return rules, nil
}
