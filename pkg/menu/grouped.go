package menu

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/lounas/pkg/restaurant"
)

// Default selectors for the grouped-list strategy.
const (
	DefaultGroupSelector   = "li.menu-group-item"
	DefaultHeadingSelector = "h1, h2, h3, h4, h5, h6, .menu-group-title"
	DefaultItemSelector    = "p"
)

// GroupedListStrategy reads pages that wrap each day in its own list item.
// The group's heading (or, lacking one, its whole text) names the day and its
// paragraphs are the dishes.
type GroupedListStrategy struct{}

func (GroupedListStrategy) Kind() restaurant.Kind { return restaurant.KindGroupedList }

func (GroupedListStrategy) Collect(t *Tree, day Day, opts Options) ([]string, bool) {
	headingSel := or(opts.Selectors.Heading, DefaultHeadingSelector)
	itemSel := or(opts.Selectors.Item, DefaultItemSelector)

	var lines []string
	found := false
	t.FindAll(or(opts.Selectors.Group, DefaultGroupSelector)).EachWithBreak(func(_ int, group *goquery.Selection) bool {
		label := group
		if heading := group.Find(headingSel).First(); heading.Length() > 0 {
			label = heading
		}
		if !IsTargetDay(Line(label), day) {
			return true
		}

		c := newCollector(day, opts.StopMarkers, false)
		group.Find(itemSel).EachWithBreak(func(_ int, item *goquery.Selection) bool {
			return c.offer(Text(item))
		})
		lines, found = c.lines, true
		return false
	})
	return lines, found
}
