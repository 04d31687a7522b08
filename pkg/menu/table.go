package menu

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/lounas/pkg/restaurant"
)

// Default selectors for the table strategy.
const (
	DefaultTableSelector = "table.lunch-list-table"
	DefaultRowSelector   = "tr"
)

// TableStrategy reads pages that list the week as table rows: the first cell
// names the day, the second holds that day's dishes. Rows are assumed to be
// day-unique, so the first matching row wins.
type TableStrategy struct{}

func (TableStrategy) Kind() restaurant.Kind { return restaurant.KindTable }

func (TableStrategy) Collect(t *Tree, day Day, opts Options) ([]string, bool) {
	rowSel := or(opts.Selectors.Row, DefaultRowSelector)

	var lines []string
	found := false
	t.FindAll(or(opts.Selectors.Table, DefaultTableSelector)).EachWithBreak(func(_ int, table *goquery.Selection) bool {
		table.Find(rowSel).EachWithBreak(func(_ int, row *goquery.Selection) bool {
			cells := row.ChildrenFiltered("td, th")
			if cells.Length() < 2 || !IsTargetDay(Line(cells.Eq(0)), day) {
				return true
			}
			c := newCollector(day, opts.StopMarkers, false)
			for _, item := range splitItems(Text(cells.Eq(1))) {
				if !c.offer(item) {
					break
				}
			}
			lines, found = c.lines, true
			return false
		})
		return !found
	})
	return lines, found
}

// splitItems splits a cell's text on line breaks and commas. A comma between
// two digits is a decimal separator ("12,70€") and does not split.
func splitItems(s string) []string {
	var items []string
	var cur strings.Builder
	runes := []rune(s)
	flush := func() {
		if item := strings.TrimSpace(cur.String()); item != "" {
			items = append(items, item)
		}
		cur.Reset()
	}
	for i, r := range runes {
		switch {
		case r == '\n':
			flush()
		case r == ',' && !(i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1])):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return items
}
