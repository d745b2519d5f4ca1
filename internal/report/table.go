package report

import (
	"strconv"
	"strings"

	"github.com/programme-lv/membench/internal/measure"
)

var headers = [3]string{"Language", "Depth", "Peak RSS (MB)"}

// Render formats the ordered result list as a plain-text table: one
// header row, one dash separator row, one row per result in input
// order. Every cell is left-justified and padded to its column width,
// the maximum of the header and every cell in that column.
func Render(results []measure.Result) string {
	rows := make([][3]string, 0, len(results))
	for _, res := range results {
		rows = append(rows, [3]string{
			res.Language,
			strconv.Itoa(res.Depth),
			strconv.FormatFloat(res.PeakMB, 'f', 2, 64),
		})
	}

	var widths [3]int
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	fmtRow := func(cells [3]string) string {
		padded := make([]string, len(cells))
		for i, cell := range cells {
			padded[i] = cell + strings.Repeat(" ", widths[i]-len(cell))
		}
		return strings.Join(padded, " | ")
	}

	segments := make([]string, len(widths))
	for i, w := range widths {
		segments[i] = strings.Repeat("-", w)
	}
	separator := strings.Join(segments, "-+-")

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, fmtRow(headers), separator)
	for _, row := range rows {
		lines = append(lines, fmtRow(row))
	}
	return strings.Join(lines, "\n")
}
