package handparse

import "regexp"

// PatternRegistry is the matcher table for one hand-history dialect. Every
// extractor resolves its pattern here instead of holding an inline constant,
// so a site variant only needs a different registry, not different code.
type PatternRegistry struct {
	// Seat line with initial stack:
	// "Seat 1: PlayerName ($50.00)" or "Seat 3: Hero (1500 in chips)"
	Seat *regexp.Regexp

	// "Seat #4 is the button"
	Button *regexp.Regexp

	// "$0.10/$0.25" from the header line
	Stakes *regexp.Regexp

	// "Dealt to KannyThOP [7c Ks]"
	HeroCards *regexp.Regexp

	// "villain22: shows [Ah Kh]"
	ShownCards *regexp.Regexp

	Flop  *regexp.Regexp
	TurnC *regexp.Regexp
	River *regexp.Regexp

	// One action per line. "raises to" must stay ahead of "raises" in the
	// alternation or raise-to amounts parse as raise deltas.
	Action *regexp.Regexp

	// "Total pot $3.95"
	Pot *regexp.Regexp

	// "2023/10/25 12:00:00" or dashed variant
	Date *regexp.Regexp

	// Street markers in play order, checked line by line during the action scan.
	StreetMarkers []StreetMarker

	// Signals that a seated player is not part of the hand. Any one match
	// excludes the captured name from the ring.
	Inactive []*regexp.Regexp

	// Small-blind post line for the dead-button fallback. Tolerates a missing
	// colon and an optional "the".
	SBPost *regexp.Regexp
}

// StreetMarker ties a street tag line to the street it opens.
type StreetMarker struct {
	Street  Street
	Pattern *regexp.Regexp
}

const card = `([2-9TJQKA][cdhs])`

var defaultRegistry = &PatternRegistry{
	Seat:       regexp.MustCompile(`(?im)Seat\s+(\d+):\s+(.+?)\s+\(\s*\$?([0-9,]+(?:\.[0-9]+)?)\s*(?:in\s+chips)?\s*\)`),
	Button:     regexp.MustCompile(`(?i)Seat\s*#?\s*(\d+)\s+is\s+the\s+button`),
	Stakes:     regexp.MustCompile(`\$?([0-9]+(?:\.[0-9]+)?)\s*/\s*\$?([0-9]+(?:\.[0-9]+)?)`),
	HeroCards:  regexp.MustCompile(`(?i)Dealt\s+to\s+(\S+)\s*\[\s*` + card + `\s+` + card + `\s*\]`),
	ShownCards: regexp.MustCompile(`(?i)(\S+):\s*shows\s*\[\s*` + card + `\s+` + card + `\s*\]`),
	Flop:       regexp.MustCompile(`(?i)\*\*\*\s*FLOP\s*\*\*\*\s*\[\s*` + card + `\s+` + card + `\s+` + card + `\s*\]`),
	TurnC:      regexp.MustCompile(`(?i)\*\*\*\s*TURN\s*\*\*\*.*?\[\s*` + card + `\s*\]`),
	River:      regexp.MustCompile(`(?i)\*\*\*\s*RIVER\s*\*\*\*.*?\[\s*` + card + `\s*\]`),
	Action: regexp.MustCompile(`(?i)^([^\s:]+):?\s*` +
		`(folds|checks|calls|bets|raises\s+to|raises|all-in|posts\s+(?:the\s+)?small\s+blind|posts\s+(?:the\s+)?big\s+blind)` +
		`\s*\$?([0-9,]+(?:\.[0-9]+)?)?(?:\s+to\s+\$?([0-9,]+(?:\.[0-9]+)?))?`),
	Pot:  regexp.MustCompile(`(?i)Total\s+pot\s+\$?([0-9,]+(?:\.[0-9]+)?)`),
	Date: regexp.MustCompile(`(\d{4}[-/]\d{2}[-/]\d{2}\s+\d{2}:\d{2}:\d{2})`),
	StreetMarkers: []StreetMarker{
		{Preflop, regexp.MustCompile(`(?i)\*\*\*\s*HOLE\s+CARDS\s*\*\*\*`)},
		{Flop, regexp.MustCompile(`(?i)\*\*\*\s*FLOP\s*\*\*\*`)},
		{Turn, regexp.MustCompile(`(?i)\*\*\*\s*TURN\s*\*\*\*`)},
		{River, regexp.MustCompile(`(?i)\*\*\*\s*RIVER\s*\*\*\*`)},
		{Showdown, regexp.MustCompile(`(?i)\*\*\*\s*SHOW\s*DOWN\s*\*\*\*`)},
	},
	Inactive: []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\w+)\s+sits?\s+out`),
		regexp.MustCompile(`(?i)(\w+)\s+waits\s+for\s+big\s+blind`),
		regexp.MustCompile(`(?i)(\w+)\s+will\s+be\s+allowed\s+to\s+play`),
	},
	SBPost: regexp.MustCompile(`(?im)^(\S+?)(?:\s*:\s*|\s+)posts\s+(?:the\s+)?small\s+blind`),
}

// DefaultPatterns returns the registry for the common "Site Hand #n" dialect.
func DefaultPatterns() *PatternRegistry { return defaultRegistry }
