package handparse

import (
	"bufio"
	"strings"
)

// extractActions scans the text line by line, tracking the current street via
// marker lines interleaved with the action lines, and parses one action per
// matching line.
func (p *Parser) extractActions(text string) []Action {
	var actions []Action
	street := Preflop

	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())

		for _, m := range p.pats.StreetMarkers {
			if m.Pattern.MatchString(line) {
				street = m.Street
				break
			}
		}

		m := p.pats.Action.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		player := strings.TrimSpace(m[1])
		verb := strings.ToLower(strings.Join(strings.Fields(m[2]), " "))
		amount := parseAmount(m[3])
		toAmount := parseAmount(m[4])

		var typ ActionType
		switch {
		case strings.Contains(verb, "small blind"):
			typ = ActionPostSB
		case strings.Contains(verb, "big blind"):
			typ = ActionPostBB
		case verb == "raises to" || toAmount != nil:
			typ = ActionRaiseTo
			if toAmount != nil {
				amount = toAmount
			}
		case verb == "raises":
			typ = ActionRaise
		case verb == "all-in":
			typ = ActionAllIn
		case verb == "folds":
			typ = ActionFold
		case verb == "checks":
			typ = ActionCheck
		case verb == "calls":
			typ = ActionCall
		case verb == "bets":
			typ = ActionBet
		default:
			continue
		}

		actions = append(actions, Action{
			Player: player,
			Type:   typ,
			Amount: amount,
			Street: street,
		})
	}
	return actions
}
