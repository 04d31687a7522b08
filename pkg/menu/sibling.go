package menu

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/lounas/pkg/restaurant"
)

// DefaultAnchorSelector lists the nodes that may carry a day heading.
const DefaultAnchorSelector = "p, h1, h2, h3, h4, h5, h6"

// SiblingWalkStrategy anchors on the first node naming the day and collects
// the anchor's following siblings until another day begins, a stop marker
// appears, or the siblings run out.
//
// With an item selector set, only matching siblings are content; the others
// are skipped but still end the walk when they name a day or a stop marker.
type SiblingWalkStrategy struct{}

func (SiblingWalkStrategy) Kind() restaurant.Kind { return restaurant.KindSiblingWalk }

func (SiblingWalkStrategy) Collect(t *Tree, day Day, opts Options) ([]string, bool) {
	var anchor *goquery.Selection
	t.FindAll(or(opts.Selectors.Anchor, DefaultAnchorSelector)).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if IsTargetDay(Line(s), day) {
			anchor = s
			return false
		}
		return true
	})
	if anchor == nil {
		return nil, false
	}

	itemSel := opts.Selectors.Item
	c := newCollector(day, opts.StopMarkers, true)
	anchor.NextAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
		if itemSel != "" && !sib.Is(itemSel) {
			return !c.ends(Line(sib))
		}
		return c.offer(Text(sib))
	})
	return c.lines, true
}
