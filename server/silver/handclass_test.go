package silver

import "testing"

func TestHandClassPreflopPocketPair(t *testing.T) {
	class, ok := HandClass("2C 2D", "")
	if !ok || class != "Pair" {
		t.Fatalf("pocket pair = (%q, %v)", class, ok)
	}
}

func TestHandClassPreflopUnpairedTooFewCards(t *testing.T) {
	if _, ok := HandClass("AH KH", ""); ok {
		t.Fatalf("unpaired preflop hand classified without a board")
	}
}

func TestHandClassNoHoleCards(t *testing.T) {
	if _, ok := HandClass("", "TS 9H 8D 2C 5S"); ok {
		t.Fatalf("classified without hole cards")
	}
}

func TestHandClassFullBoard(t *testing.T) {
	class, ok := HandClass("AH KH", "QH JH TH 2C 5S")
	if !ok || class == "" {
		t.Fatalf("royal board = (%q, %v), want a class", class, ok)
	}
}

func TestHandClassIgnoresJunkTokens(t *testing.T) {
	class, ok := HandClass("AH KH", "QH JH TH xx 1Z")
	if !ok || class == "" {
		t.Fatalf("junk tokens broke classification: (%q, %v)", class, ok)
	}
}

func TestHandClassLowercaseInput(t *testing.T) {
	class, ok := HandClass("2c 2d", "")
	if !ok || class != "Pair" {
		t.Fatalf("lowercase pocket pair = (%q, %v)", class, ok)
	}
}
