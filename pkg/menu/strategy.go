package menu

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jmylchreest/lounas/internal/logger"
	"github.com/jmylchreest/lounas/pkg/restaurant"
)

// Options tune one strategy run.
type Options struct {
	StopMarkers []string
	Scope       string
	Selectors   restaurant.Selectors
}

// Strategy locates the target day's section in a tree and collects its raw
// candidate lines. found is false when the tree has no anchor for the day.
// Strategies hold no state; one value may serve concurrent extractions.
type Strategy interface {
	Kind() restaurant.Kind
	Collect(t *Tree, day Day, opts Options) (lines []string, found bool)
}

var strategies = map[restaurant.Kind]Strategy{
	restaurant.KindTable:            TableStrategy{},
	restaurant.KindGroupedList:      GroupedListStrategy{},
	restaurant.KindSiblingWalk:      SiblingWalkStrategy{},
	restaurant.KindParagraphCapture: ParagraphCaptureStrategy{},
}

// StrategyFor returns the strategy for a structural kind.
func StrategyFor(k restaurant.Kind) (Strategy, bool) {
	s, ok := strategies[k]
	return s, ok
}

// Extract runs s against t for day: the tree is narrowed to opts.Scope first,
// then the collected lines are normalised.
func Extract(s Strategy, t *Tree, day Day, opts Options) Result {
	if t == nil {
		return Failed(ErrNoDocument)
	}

	region, ok := t.Scope(opts.Scope, opts.Selectors.Anchor)
	if !ok {
		logger.Debug("scope not found", "scope", opts.Scope, "strategy", s.Kind())
		return NotFound()
	}

	lines, found := s.Collect(region, day, opts)
	if !found {
		logger.Debug("no anchor for day", "day", day.Name(), "strategy", s.Kind())
		return NotFound()
	}
	return Normalize(lines)
}

// collector accumulates fragments of one day's section and decides where the
// section ends.
type collector struct {
	day        Day
	stops      []string
	boundaries bool
	lines      []string
}

func newCollector(day Day, stops []string, boundaries bool) *collector {
	return &collector{day: day, stops: stops, boundaries: boundaries}
}

// offer consumes one fragment and reports whether collection continues.
// Fragments naming the target day are headings and never become content.
func (c *collector) offer(text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	text = norm.NFC.String(text)
	if c.boundaries && IsAnyDayBoundary(text, c.day) {
		logger.Debug("day boundary reached", "day", c.day.Name(), "text", text)
		return false
	}
	if IsTargetDay(text, c.day) {
		return true
	}
	if i := FindStopIndex(text, c.stops); i >= 0 {
		logger.Debug("stop marker reached", "offset", i, "text", text)
		if prefix := strings.TrimSpace(text[:i]); prefix != "" {
			c.lines = append(c.lines, prefix)
		}
		return false
	}
	c.lines = append(c.lines, text)
	return true
}

// ends reports whether a fragment that is not itself content still closes
// the section.
func (c *collector) ends(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return (c.boundaries && IsAnyDayBoundary(text, c.day)) || FindStopIndex(text, c.stops) >= 0
}

func or(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}
