package blackjack

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/samuelfneumann/gotabular/statekey"
	"github.com/samuelfneumann/gotabular/table"
)

// StateOf returns the observation of a game state
func StateOf(dealerFirst, points int, specialAce bool) statekey.Descriptor {
	return statekey.Descriptor{dealerFirst, points, specialAce}
}

// RenderPolicy renders the greedy policy of q over the states in which
// the player has a choice, one row per player total and one column per
// dealer card. Cells show B for Bid, S for Stop, and - for states
// never visited.
func RenderPolicy(q *table.ActionValues, specialAce bool) string {
	return render(specialAce, func(s statekey.Key) string {
		if q.Count(s, Bid)+q.Count(s, Stop) == 0 && q.Get(s, Bid) == 0 &&
			q.Get(s, Stop) == 0 {
			return "-"
		}
		if q.Get(s, Bid) > q.Get(s, Stop) {
			return "B"
		}
		return "S"
	})
}

// RenderValues renders state values over the same grid as RenderPolicy
func RenderValues(v *table.StateValues, specialAce bool) string {
	return render(specialAce, func(s statekey.Key) string {
		if v.Count(s) == 0 {
			return "-"
		}
		return fmt.Sprintf("%.2f", v.Get(s))
	})
}

func render(specialAce bool, cell func(statekey.Key) string) string {
	var b strings.Builder
	t := tablewriter.NewWriter(&b)

	header := []string{"Points"}
	for d := 1; d <= 10; d++ {
		header = append(header, strconv.Itoa(d))
	}
	t.SetHeader(header)

	for p := MaxStopPoints - 1; p >= MinBidPoints; p-- {
		row := []string{strconv.Itoa(p)}
		for d := 1; d <= 10; d++ {
			row = append(row, cell(StateOf(d, p, specialAce).Key()))
		}
		t.Append(row)
	}
	t.Render()
	return b.String()
}
