package format

import (
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// WriteTable renders the transition table of a. The start state is marked
// with "->" and accepting states with "*".
func WriteTable(w io.Writer, a Automaton) error {
	columns := a.Inputs()
	if hasEpsilonMoves(a) {
		columns = append(columns, a.Epsilon())
	}

	table := tablewriter.NewWriter(w)
	table.Header(append([]string{"State"}, columns...))

	start := a.Start()
	for _, s := range a.States() {
		label := s.Name
		if s.Accepting() {
			label = "*" + label
		}
		if s.ID == start.ID {
			label = "->" + label
		}

		row := []string{label}
		for _, symbol := range columns {
			targets := targetNames(a, s, symbol)
			row = append(row, strings.Join(targets, ","))
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func hasEpsilonMoves(a Automaton) bool {
	for _, s := range a.States() {
		if s.Has(a.Epsilon()) {
			return true
		}
	}
	return false
}
