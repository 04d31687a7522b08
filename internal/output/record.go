package output

import (
	"time"

	"github.com/jmylchreest/lounas/pkg/lounas"
	"github.com/jmylchreest/lounas/pkg/menu"
	"github.com/jmylchreest/lounas/pkg/restaurant"
)

// Record is the structured form of an entry used by the json, jsonl and
// yaml writers.
type Record struct {
	Name      string             `json:"name" yaml:"name"`
	URL       string             `json:"url" yaml:"url"`
	Day       string             `json:"day" yaml:"day"`
	Status    menu.Status        `json:"status" yaml:"status"`
	Items     []string           `json:"items,omitempty" yaml:"items,omitempty"`
	Message   string             `json:"message,omitempty" yaml:"message,omitempty"`
	Hours     string             `json:"hours,omitempty" yaml:"hours,omitempty"`
	Prices    []restaurant.Price `json:"prices,omitempty" yaml:"prices,omitempty"`
	FetchedAt time.Time          `json:"fetched_at" yaml:"fetched_at"`
}

// NewRecord converts an entry. Message carries the placeholder text when
// there are no items.
func NewRecord(e lounas.Entry) Record {
	r := Record{
		Name:      e.Restaurant.Name,
		URL:       e.Restaurant.URL,
		Day:       e.Day.Name(),
		Status:    e.Result.Status,
		Items:     e.Result.Lines,
		Hours:     e.Restaurant.Hours,
		Prices:    e.Restaurant.Prices,
		FetchedAt: e.FetchedAt.UTC(),
	}
	if !e.Result.OK() {
		r.Message = e.Result.Placeholder()
	}
	return r
}
