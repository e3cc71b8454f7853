package gemini

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// KnownModels lists text models accepted without a warning.
var KnownModels = []string{
	"gemini-2.5-pro",
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
	"gemini-1.5-pro",
	"gemini-1.5-flash",
	"gemini-1.5-flash-8b",
}

// IsKnownModel reports whether name is in KnownModels. A "models/" prefix is
// ignored.
func IsKnownModel(name string) bool {
	name = strings.TrimPrefix(strings.TrimSpace(name), "models/")
	for _, m := range KnownModels {
		if m == name {
			return true
		}
	}
	return false
}

// SuggestModel returns the known model closest to name, or "" when nothing is
// close.
func SuggestModel(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "models/")
	if name == "" {
		return ""
	}
	ranks := fuzzy.RankFindFold(name, KnownModels)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}
	best, bestDist := "", -1
	for _, m := range KnownModels {
		d := fuzzy.LevenshteinDistance(strings.ToLower(name), m)
		if bestDist < 0 || d < bestDist {
			best, bestDist = m, d
		}
	}
	if bestDist > len(name)/2 {
		return ""
	}
	return best
}

// ModelWarning describes why name may not be served, or returns "" for a
// known model. Unknown names are still sent as given.
func ModelWarning(name string) string {
	if IsKnownModel(name) {
		return ""
	}
	if suggestion := SuggestModel(name); suggestion != "" {
		return fmt.Sprintf("unknown model %q (did you mean %q?)", strings.TrimSpace(name), suggestion)
	}
	return fmt.Sprintf("unknown model %q", strings.TrimSpace(name))
}
