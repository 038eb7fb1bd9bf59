package silver

import (
	"regexp"
	"strings"
)

var tagCleanRe = regexp.MustCompile(`[^a-z0-9_]+`)

// Aliases collapse the coach model's free-phrase variants onto one stable
// bucket key. Keyed both by the raw lowercase phrase and its cleaned form.
var tagAliases = map[string]string{
	"call 3bet too wide":    "call_3bet_too_wide",
	"call3bet_too_wide":     "call_3bet_too_wide",
	"miss value river":      "miss_value_river",
	"miss_value_river":      "miss_value_river",
	"check back frequency":  "check_back_frequency",
	"trip hands management": "trips_management",
	"trips_management":      "trips_management",
}

// NormalizeTags maps learning tags to stable snake_case keys so that leak
// aggregation buckets stay consistent across coach responses. Order is
// preserved and duplicates are dropped.
func NormalizeTags(tags []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range tags {
		raw := strings.ToLower(strings.TrimSpace(t))
		key := strings.Trim(tagCleanRe.ReplaceAllString(raw, "_"), "_")
		norm, ok := tagAliases[raw]
		if !ok {
			norm, ok = tagAliases[key]
		}
		if !ok {
			norm = key
		}
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, norm)
	}
	return out
}
