// Package study builds the study index: one embedded text chunk per coached
// hand, searchable by leak tag, position and street.
package study

import (
	"strings"
)

// ChunkInput is the slice of a silver row that goes into a study chunk.
type ChunkInput struct {
	Site             string
	StakesBucket     string
	StakesRaw        string
	HeroPosition     string
	PositionNorm     string
	StreetReached    string
	LearningTags     []string
	GTOStrategy      string
	ExploitDeviation string
}

// BuildContent renders the text that gets embedded: a one-line metadata
// header, the tag list, then the coach's strategy and deviation notes.
func BuildContent(in ChunkInput) string {
	site := orDefault(in.Site, "Unknown")
	stakes := orDefault(orDefault(in.StakesBucket, in.StakesRaw), "Unknown stakes")
	heroPos := orDefault(orDefault(in.HeroPosition, in.PositionNorm), "Unknown position")
	street := orDefault(in.StreetReached, "preflop")

	tags := "none"
	if len(in.LearningTags) > 0 {
		tags = strings.Join(in.LearningTags, ", ")
	}

	var b strings.Builder
	b.WriteString("Site: " + site + " | Stakes: " + stakes + " | Hero position: " + heroPos +
		" | Street reached: " + street + "\n")
	b.WriteString("Coach tags: [" + tags + "]\n\n")

	gto := strings.TrimSpace(in.GTOStrategy)
	dev := strings.TrimSpace(in.ExploitDeviation)
	var parts []string
	if gto != "" {
		parts = append(parts, "GTO Strategy:\n"+gto)
	}
	if dev != "" {
		parts = append(parts, "\nExploit Deviation (what went wrong / how to adjust):\n"+dev)
	}
	if len(parts) == 0 {
		b.WriteString("No strategy text.")
	} else {
		b.WriteString(strings.Join(parts, "\n"))
	}
	return b.String()
}

// ChunkPosition is the label a chunk is indexed under: the coach's hero
// position when present, else the parser's normalized position. Must match
// the preference BuildContent uses in its header.
func ChunkPosition(heroPosition, positionNorm string) string {
	if strings.TrimSpace(heroPosition) != "" {
		return heroPosition
	}
	return positionNorm
}

// TokenEstimate is the whitespace-split word count, matching what the chunk
// table stores. Close enough for size filtering; not a tokenizer.
func TokenEstimate(content string) int {
	return len(strings.Fields(content))
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
