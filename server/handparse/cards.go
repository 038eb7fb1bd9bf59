package handparse

import (
	"strconv"
	"strings"
)

var suitGlyphs = map[byte]string{
	'c': "♣", 'C': "♣",
	'd': "♦", 'D': "♦",
	'h': "♥", 'H': "♥",
	's': "♠", 'S': "♠",
}

// ConvertCard maps two-character notation to the display token the replayer
// renders: "Ah" -> "A♥", "Ts" -> "T♠". Unknown suit letters pass through
// unchanged rather than erroring.
func ConvertCard(card string) string {
	if len(card) < 2 {
		return card
	}
	rank := strings.ToUpper(card[:len(card)-1])
	suit := card[len(card)-1]
	if glyph, ok := suitGlyphs[suit]; ok {
		return rank + glyph
	}
	return rank + string(suit)
}

// parseAmount reads a monetary string, tolerating thousands separators.
// Returns nil when the string is empty or not a number.
func parseAmount(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}
