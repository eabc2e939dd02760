package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/csvtool/internal/duration"
	"github.com/Zuo-Peng/csvtool/internal/history"
)

const ellipsis = "…"

type Options struct {
	Width        int    // terminal width (0 = no limit)
	MaxCellWidth int    // hard cap per cell (0 = no cap)
	Highlight    string // column to color, e.g. the sum target
	Footer       string
}

// Table renders header and rows as a bordered table that fits opts.Width.
func Table(header []string, rows [][]string, opts Options) string {
	limit := cellLimit(len(header), opts)

	fit := func(cells []string) []string {
		out := make([]string, len(cells))
		for i, c := range cells {
			c = strings.ReplaceAll(c, "\n", " ")
			if limit > 0 {
				c = runewidth.Truncate(c, limit, ellipsis)
			}
			out[i] = c
		}
		return out
	}

	fitted := make([][]string, len(rows))
	for i, r := range rows {
		fitted[i] = fit(r)
	}

	highlight := -1
	for i, h := range header {
		if opts.Highlight != "" && h == opts.Highlight {
			highlight = i
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(fit(header)...).
		Rows(fitted...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == highlight:
				return styleTarget
			default:
				return styleCell
			}
		})

	out := t.String()
	if opts.Footer != "" {
		out += "\n" + styleFooter.Render(opts.Footer)
	}
	return out
}

// cellLimit spreads the usable width over n columns. Each column costs one
// border rune plus two padding cells.
func cellLimit(n int, opts Options) int {
	limit := opts.MaxCellWidth
	if opts.Width > 0 && n > 0 {
		per := (opts.Width-1)/n - 3
		if per < 4 {
			per = 4
		}
		if limit == 0 || per < limit {
			limit = per
		}
	}
	return limit
}

// History renders recorded runs, newest first.
func History(runs []history.Run, opts Options) string {
	if len(runs) == 0 {
		return styleFooter.Render("No runs recorded.")
	}

	header := []string{"#", "when", "op", "column", "input", "rows", "total", "status"}
	rows := make([][]string, 0, len(runs))
	failed := make(map[int]bool)
	for i, r := range runs {
		total := ""
		if r.Operation == "sum-duration" && r.Status == history.StatusOK {
			total = duration.FromMinutes(r.TotalMinutes).String()
		}
		status := r.Status
		if r.Error != "" {
			status += ": " + r.Error
			failed[i] = true
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Operation,
			r.Column,
			r.InFile,
			fmt.Sprintf("%d", r.Rows),
			total,
			status,
		})
	}

	limit := cellLimit(len(header), opts)
	for _, r := range rows {
		for i := range r {
			if limit > 0 {
				r[i] = runewidth.Truncate(r[i], limit, ellipsis)
			}
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case failed[row] && col == len(header)-1:
				return styleFailed
			case col == 6:
				return styleTarget
			default:
				return styleCell
			}
		})
	return t.String()
}
