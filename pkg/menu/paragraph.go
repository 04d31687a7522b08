package menu

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/lounas/pkg/restaurant"
)

type captureState int

const (
	stateIdle captureState = iota
	stateCapturing
	stateDone
)

// ParagraphCaptureStrategy scans a flat run of paragraphs. A paragraph naming
// the day switches capturing on and is consumed as the heading; capture ends
// at the next day, at a stop marker, or at the end of input.
type ParagraphCaptureStrategy struct{}

func (ParagraphCaptureStrategy) Kind() restaurant.Kind { return restaurant.KindParagraphCapture }

func (ParagraphCaptureStrategy) Collect(t *Tree, day Day, opts Options) ([]string, bool) {
	state := stateIdle
	c := newCollector(day, opts.StopMarkers, true)

	t.FindAll(or(opts.Selectors.Item, DefaultItemSelector)).EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := Text(p)
		switch state {
		case stateIdle:
			if IsTargetDay(text, day) {
				state = stateCapturing
			}
		case stateCapturing:
			if !c.offer(text) {
				state = stateDone
			}
		}
		return state != stateDone
	})

	if state == stateIdle {
		return nil, false
	}
	return c.lines, true
}
