// Package report renders attribution results for humans (ASCII or Markdown
// tables) and machines (JSON).
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/katalvlaran/touchpath/attribution"
	"github.com/katalvlaran/touchpath/markov"
)

// Output formats.
const (
	ASCII    = "ascii"
	Markdown = "markdown"
	JSON     = "json"
)

// ErrUnknownFormat is returned for a format other than ASCII, Markdown or JSON.
var ErrUnknownFormat = errors.New("report: unknown format")

// Render writes rep in the given format: one row per channel, one column per
// method and a footer with the total credit of each method. Skipped methods
// are listed under the table.
func Render(w io.Writer, rep *attribution.Report, format string) error {
	if format == JSON {
		return writeJSON(w, rep)
	}

	t := table.NewWriter()
	header := table.Row{"channel"}
	footer := table.Row{"total"}
	for _, m := range rep.Methods {
		header = append(header, string(m))
		footer = append(footer, num(rep.Total(m)))
	}
	t.AppendHeader(header)
	for _, ch := range rep.Channels {
		row := table.Row{ch}
		for _, m := range rep.Methods {
			row = append(row, num(rep.Value(m, ch)))
		}
		t.AppendRow(row)
	}
	t.AppendFooter(footer)
	t.SetColumnConfigs(numericColumns(len(rep.Methods)))

	if err := write(w, t, format); err != nil {
		return err
	}
	for _, m := range attribution.Methods {
		reason, ok := rep.Skipped[m]
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "skipped %s: %s\n", m, reason); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}

	return nil
}

// matrixJSON is the JSON shape of a transition matrix.
type matrixJSON struct {
	States []string    `json:"states"`
	Rows   [][]float64 `json:"rows"`
}

// RenderMatrix writes the transition probabilities of tm, one row per
// source state.
func RenderMatrix(w io.Writer, tm *markov.TransitionMatrix, format string) error {
	states := tm.States()
	m := tm.Matrix()
	rows := make([][]float64, len(states))
	for i := range states {
		r, err := m.Row(i)
		if err != nil {
			return fmt.Errorf("report: %w", err)
		}
		rows[i] = r
	}
	if format == JSON {
		return writeJSON(w, matrixJSON{States: states, Rows: rows})
	}

	t := table.NewWriter()
	header := table.Row{"from \\ to"}
	for _, st := range states {
		header = append(header, st)
	}
	t.AppendHeader(header)
	for i, st := range states {
		row := table.Row{st}
		for _, p := range rows[i] {
			row = append(row, num(p))
		}
		t.AppendRow(row)
	}
	t.SetColumnConfigs(numericColumns(len(states)))

	return write(w, t, format)
}

func write(w io.Writer, t table.Writer, format string) error {
	var out string
	switch format {
	case ASCII, "":
		t.SetStyle(table.StyleLight)
		out = t.Render()
	case Markdown:
		out = t.RenderMarkdown()
	default:
		return fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
	if _, err := io.WriteString(w, out+"\n"); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	return nil
}

// numericColumns right-aligns columns 2..n+1.
func numericColumns(n int) []table.ColumnConfig {
	cfgs := make([]table.ColumnConfig, n)
	for i := range cfgs {
		cfgs[i] = table.ColumnConfig{Number: i + 2, Align: text.AlignRight, AlignFooter: text.AlignRight}
	}

	return cfgs
}

// num prints at most four decimals without trailing zeros.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}

	return s
}
