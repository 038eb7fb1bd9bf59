package handparse

// inactiveNames collects players that are seated but not part of the hand.
// Three independent textual signals count, any one is sufficient:
// "X sits out" / "sitting out", "X waits for big blind",
// "X will be allowed to play after the button".
//
// This must run before turn-order reconstruction: inactive seats are not part
// of the ring and must never receive inferred folds.
func (p *Parser) inactiveNames(text string) map[string]bool {
	out := map[string]bool{}
	for _, re := range p.pats.Inactive {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if name := m[1]; name != "" {
				out[name] = true
			}
		}
	}
	return out
}
