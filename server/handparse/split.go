package handparse

import (
	"regexp"
	"strings"
)

// Hand header lines used by most sites:
//
//	"PokerStars Hand #1234567890:  Hold'em ..."
//	"Ignition Hand #123456789:  Hold'em ..."
//	"***** Hand History for Game 123456789 *****"
var handHeaderRe = regexp.MustCompile(`(?m)^(.*Hand #\d+.*|\*{3,}\s*Hand History for Game \d+.*)$`)

var blankLineRe = regexp.MustCompile(`\n\s*\n`)

// Blocks shorter than this are junk between hands, not hands.
const minHandLen = 50

// SplitHands cuts a multi-hand history file into per-hand text blocks. Each
// detected header starts a new hand; unknown formats fall back to blank-line
// splitting. Every returned block is exactly one hand, the precondition the
// parser depends on.
func SplitHands(txt string) []string {
	norm := strings.ReplaceAll(txt, "\r\n", "\n")

	locs := handHeaderRe.FindAllStringIndex(norm, -1)
	if len(locs) > 0 {
		var blocks []string
		for i, loc := range locs {
			end := len(norm)
			if i+1 < len(locs) {
				end = locs[i+1][0]
			}
			chunk := strings.TrimSpace(norm[loc[0]:end])
			if len(chunk) > minHandLen {
				blocks = append(blocks, chunk)
			}
		}
		return blocks
	}

	var blocks []string
	for _, b := range blankLineRe.Split(norm, -1) {
		b = strings.TrimSpace(b)
		if len(b) > minHandLen {
			blocks = append(blocks, b)
		}
	}
	return blocks
}
