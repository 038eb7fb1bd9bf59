package coach

import (
	"regexp"
	"sort"
)

const holeCardsMarker = "*** HOLE CARDS ***"

var holeCardsSplitRe = regexp.MustCompile(regexp.QuoteMeta(holeCardsMarker))

// AnnotatePositions rewrites action-section player names to carry their
// resolved position, e.g. "namesarehard raises to $0.62" becomes
// "namesarehard (HJ) raises to $0.62". Annotated text pins the positions so
// the coach model cannot invent its own.
//
// Only the section after the hole-cards marker is touched; seat lines in the
// header keep the bare names. Longer names substitute first so a name that is
// a prefix of another is never half-replaced.
func AnnotatePositions(rawText string, positions map[string]string) string {
	if len(positions) == 0 {
		return rawText
	}
	loc := holeCardsSplitRe.FindStringIndex(rawText)
	if loc == nil {
		return rawText
	}
	header, action := rawText[:loc[1]], rawText[loc[1]:]

	names := make([]string, 0, len(positions))
	for name := range positions {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\b`)
		if err != nil {
			continue
		}
		action = re.ReplaceAllString(action, name+" ("+positions[name]+")")
	}
	return header + action
}
