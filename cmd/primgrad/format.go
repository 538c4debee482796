package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/primgrad/internal/gradcheck"
	"github.com/born-ml/primgrad/internal/tensor"
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)
	oddRowStyle = lipgloss.NewStyle().Faint(false).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Faint(true).
			PaddingLeft(1).PaddingRight(1)
	redRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "9", Dark: "9"}).
			Bold(true).
			PaddingLeft(1).PaddingRight(1)
)

// parseShape parses a comma-separated list of dimensions. The empty string is
// the scalar shape.
func parseShape(s string) (tensor.Shape, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return tensor.Shape{}, nil
	}
	parts := strings.Split(s, ",")
	shape := make(tensor.Shape, len(parts))
	for i, part := range parts {
		dim, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.Wrapf(err, "dimension #%d of %q", i, s)
		}
		shape[i] = dim
	}
	if err := shape.Validate(); err != nil {
		return nil, errors.WithMessagef(err, "shape %q", s)
	}
	return shape, nil
}

func formatAxes(axes []int) string {
	parts := make([]string, len(axes))
	for i, axis := range axes {
		parts[i] = strconv.Itoa(axis)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// resultsTable renders one row per case, failed cases in red.
func resultsTable(results []gradcheck.Result, cfg gradcheck.Config) *lgtable.Table {
	reds := make(map[int]bool)
	table := lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		Headers("Case", "Max error", "Status", "# tensors", "Allocated").
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			switch {
			case row < 0:
				return headerRowStyle
			case reds[row]:
				s = redRowStyle
			case row%2 == 0:
				s = oddRowStyle
			default:
				s = evenRowStyle
			}
			if col == 0 || col == 2 {
				return s.Align(lipgloss.Left)
			}
			return s.Align(lipgloss.Right)
		})

	var totalTensors, totalBytes int64
	for i, r := range results {
		status := "ok"
		switch {
		case r.Err != nil:
			status = "error"
		case !r.Passed:
			status = fmt.Sprintf("> %g", cfg.Tolerance)
		}
		if !r.Passed {
			reds[i] = true
		}
		table.Row(r.Name,
			fmt.Sprintf("%.3g", r.MaxErr),
			status,
			humanize.Comma(r.Stats.Tensors),
			humanize.Bytes(uint64(r.Stats.Bytes)))
		totalTensors += r.Stats.Tensors
		totalBytes += r.Stats.Bytes
	}
	table.Row("total", "", "", humanize.Comma(totalTensors), humanize.Bytes(uint64(totalBytes)))
	return table
}
