// Package silver derives query-ready analytics columns from raw hand-history
// text. Every extractor is a pure function over the text; absence is reported
// with an ok bool or a nil pointer, never an error.
package silver

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Dash-delimited stakes from the header ("- $0.10/$0.25 -") are
	// unambiguous; the loose form catches headers without the dashes but can
	// also hit dates, so it only runs second.
	stakesStrictRe = regexp.MustCompile(`-\s*\$?(\d+(?:\.\d+)?)\s*/\s*\$?(\d+(?:\.\d+)?)\s*-`)
	stakesLooseRe  = regexp.MustCompile(`\$?\s*(\d+(?:\.\d+)?)\s*/\s*\$?\s*(\d+(?:\.\d+)?)`)
	stakesNumRe    = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

	heroCardsRe = regexp.MustCompile(`(?i)Dealt to\s+\S+\s*\[([2-9TJQKA][cdhs])\s+([2-9TJQKA][cdhs])\]`)
	flopCardsRe = regexp.MustCompile(`(?i)\*\*\*\s*FLOP\s*\*\*\*\s*\[([2-9TJQKA][cdhs])\s+([2-9TJQKA][cdhs])\s+([2-9TJQKA][cdhs])\]`)
	turnCardRe  = regexp.MustCompile(`(?i)\*\*\*\s*TURN\s*\*\*\*.*?\[([2-9TJQKA][cdhs])\]`)
	riverCardRe = regexp.MustCompile(`(?i)\*\*\*\s*RIVER\s*\*\*\*.*?\[([2-9TJQKA][cdhs])\]`)

	siteRe = regexp.MustCompile(`(?i)(americas?\s+cardroom|(?:^|[^a-z])acr(?:$|[^a-z])|pokerstars|ggpoker|clubgg|pokerbros)`)

	tableMaxRe     = regexp.MustCompile(`(?i)(\d+)\s*-\s*max`)
	tablePlayersRe = regexp.MustCompile(`(?i)\b(\d+)\s*players?\b`)

	showdownTagRe = regexp.MustCompile(`(?i)\bshow\s*down\b|\bshowdown\b`)
	flopTagRe     = regexp.MustCompile(`(?i)\*\*\*\s*flop\s*\*\*\*`)
	turnTagRe     = regexp.MustCompile(`(?i)\*\*\*\s*turn\s*\*\*\*`)
	riverTagRe    = regexp.MustCompile(`(?i)\*\*\*\s*river\s*\*\*\*`)

	openRe        = regexp.MustCompile(`(?i)\b(hero|you)\s*:\s*(raises|opens)\b`)
	threeBetRe    = regexp.MustCompile(`(?i)\b(3[- ]?bet|re[- ]?raise)\b`)
	fourBetRe     = regexp.MustCompile(`(?i)\b4[- ]?bet\b`)
	allInRe       = regexp.MustCompile(`(?i)\b(all[- ]?in|shove|jam)\b`)
	preflopCallRe = regexp.MustCompile(`(?is)\*\*\*\s*HOLE CARDS\s*\*\*\*.*?Hero:\s*calls\b`)

	currencyRe = regexp.MustCompile(`([$€£])`)
	heroWinRe  = regexp.MustCompile(`(?i)\b(hero|you)\b.{0,40}\b(collected|wins)\b.*?(?:\$|€|£)?\s*([0-9]+(?:\.[0-9]+)?)`)
	otherWinRe = regexp.MustCompile(`(?i)\b(collected|wins)\b.*?(?:\$|€|£)?\s*([0-9]+(?:\.[0-9]+)?)`)

	heroInvestRe = regexp.MustCompile(`(?im)^Hero:\s*(?:posts (?:small blind|big blind)\s*(?:\$|€|£)?([0-9]+(?:\.[0-9]+)?)` +
		`|bets\s*(?:\$|€|£)?([0-9]+(?:\.[0-9]+)?)` +
		`|calls\s*(?:\$|€|£)?([0-9]+(?:\.[0-9]+)?)` +
		`|raises to\s*(?:\$|€|£)?([0-9]+(?:\.[0-9]+)?))`)
)

var siteNames = map[string]string{
	"pokerstars": "PokerStars",
	"ggpoker":    "GGPoker",
	"clubgg":     "ClubGG",
	"pokerbros":  "PokerBros",
}

// DetectSite matches the known site names anywhere in the text. ACR has two
// spellings ("Americas Cardroom" and the bare abbreviation) that collapse to
// one label.
func DetectSite(text string) (string, bool) {
	m := siteRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	val := strings.ToLower(m[1])
	if strings.Contains(val, "acr") || strings.Contains(val, "americas") {
		return "ACR", true
	}
	if name, ok := siteNames[strings.TrimSpace(val)]; ok {
		return name, true
	}
	return strings.TrimSpace(val), true
}

// DetectGameType returns "tournament" when tournament vocabulary appears
// anywhere in the text, "cash" otherwise.
func DetectGameType(text string) string {
	s := strings.ToLower(text)
	for _, w := range []string{"tournament", "mtt", "icm", "players left", "bubble", "payout"} {
		if strings.Contains(s, w) {
			return "tournament"
		}
	}
	return "cash"
}

func DetectTableSize(text string) (int, bool) {
	m := tableMaxRe.FindStringSubmatch(text)
	if m == nil {
		m = tablePlayersRe.FindStringSubmatch(text)
	}
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// StreetReached buckets a hand by its last street. Showdown folds into
// "river": for leak queries the board was complete either way.
func StreetReached(text string) string {
	switch {
	case riverTagRe.MatchString(text) || showdownTagRe.MatchString(text):
		return "river"
	case turnTagRe.MatchString(text):
		return "turn"
	case flopTagRe.MatchString(text):
		return "flop"
	default:
		return "preflop"
	}
}

// PreflopFlags reports the coarse preflop shape signals used for leak
// bucketing. These are vocabulary probes over the whole text, not a replay.
func PreflopFlags(text string) (open, threeBet, fourBet, allIn bool) {
	return openRe.MatchString(text), threeBetRe.MatchString(text),
		fourBetRe.MatchString(text), allInRe.MatchString(text)
}

func DetectPreflopCall(text string) bool {
	return preflopCallRe.MatchString(text)
}

func DetectCurrency(text string) (string, bool) {
	m := currencyRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// DetectResult returns the hero's monetary result and, when the big blind is
// known, the same amount in big blinds. An explicit hero win line is
// authoritative; otherwise, if someone else collected the pot, the hero's
// summed investment is returned as a loss. A hand with neither signal has no
// result.
func DetectResult(text string, bb *float64) (currency string, amount, resultBB *float64) {
	currency, _ = DetectCurrency(text)

	if m := heroWinRe.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return currency, nil, nil
		}
		return currency, &v, inBigBlinds(v, bb)
	}

	if otherWinRe.MatchString(text) {
		total := 0.0
		for _, m := range heroInvestRe.FindAllStringSubmatch(text, -1) {
			for _, g := range m[1:] {
				if g == "" {
					continue
				}
				if v, err := strconv.ParseFloat(g, 64); err == nil {
					total += v
				}
			}
		}
		if total > 0 {
			loss := -total
			return currency, &loss, inBigBlinds(loss, bb)
		}
	}

	return "", nil, nil
}

func inBigBlinds(amount float64, bb *float64) *float64 {
	if bb == nil || *bb <= 0 {
		return nil
	}
	v := amount / *bb
	return &v
}

// ExtractStakes pulls the stakes string and numeric blinds from the raw hand
// header, preferring the strict dash-delimited form.
func ExtractStakes(text string) (raw string, sb, bb *float64) {
	t := strings.TrimSpace(text)
	m := stakesStrictRe.FindStringSubmatch(t)
	if m == nil {
		m = stakesLooseRe.FindStringSubmatch(t)
	}
	if m == nil {
		return "", nil, nil
	}
	sbV, err1 := strconv.ParseFloat(m[1], 64)
	bbV, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return "", nil, nil
	}
	return m[1] + "/" + m[2], &sbV, &bbV
}

// ParseStakes reads the first two numbers out of a free-form stakes string
// like "$0.10/$0.25" or "0.5/1 NL".
func ParseStakes(raw string) (sb, bb *float64) {
	nums := stakesNumRe.FindAllString(strings.TrimSpace(raw), 2)
	if len(nums) < 2 {
		return nil, nil
	}
	sbV, err1 := strconv.ParseFloat(nums[0], 64)
	bbV, err2 := strconv.ParseFloat(nums[1], 64)
	if err1 != nil || err2 != nil {
		return nil, nil
	}
	return &sbV, &bbV
}

var positionAliases = map[string]string{
	"BTN": "BTN", "BU": "BTN",
	"SB": "SB", "SMALLBLIND": "SB",
	"BB": "BB", "BIGBLIND": "BB",
	"CO": "CO", "CUTOFF": "CO",
	"HJ": "HJ", "HIJACK": "HJ",
	"MP": "MP", "UTG": "UTG",
	"UTG+1": "MP", "UTG+2": "MP", "UTG+3": "MP",
}

// Substring fallback checks longer keys first so "SMALLBLIND" wins over "SB"
// and "UTG+1" over "UTG".
var positionAliasOrder = []string{
	"SMALLBLIND", "BIGBLIND", "CUTOFF", "HIJACK",
	"UTG+1", "UTG+2", "UTG+3",
	"BTN", "UTG", "BU", "SB", "BB", "CO", "HJ", "MP",
}

// NormalizePosition maps free-form position labels onto the six stable
// buckets (BTN/SB/BB/CO/HJ/MP/UTG) the silver queries group by.
func NormalizePosition(raw string) (string, bool) {
	p := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	if p == "" {
		return "", false
	}
	p = strings.ReplaceAll(p, "DEALER", "BTN")
	p = strings.ReplaceAll(p, "BUTTON", "BTN")
	if norm, ok := positionAliases[p]; ok {
		return norm, true
	}
	for _, key := range positionAliasOrder {
		if strings.Contains(p, key) {
			return positionAliases[key], true
		}
	}
	return "", false
}

// CardsAndBoard pulls the hero's hole cards and the board street by street,
// uppercased two-character codes joined by spaces. Missing streets are empty.
func CardsAndBoard(text string) (cards, flop, turn, river string) {
	if m := heroCardsRe.FindStringSubmatch(text); m != nil {
		cards = strings.ToUpper(m[1]) + " " + strings.ToUpper(m[2])
	}
	if m := flopCardsRe.FindStringSubmatch(text); m != nil {
		flop = strings.ToUpper(m[1]) + " " + strings.ToUpper(m[2]) + " " + strings.ToUpper(m[3])
	}
	if m := turnCardRe.FindStringSubmatch(text); m != nil {
		turn = strings.ToUpper(m[1])
	}
	if m := riverCardRe.FindStringSubmatch(text); m != nil {
		river = strings.ToUpper(m[1])
	}
	return cards, flop, turn, river
}
