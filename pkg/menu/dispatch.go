package menu

import (
	"slices"

	"github.com/jmylchreest/lounas/internal/logger"
	"github.com/jmylchreest/lounas/pkg/restaurant"
)

// Override replaces the generic strategy choice for one site. Site is matched
// caselessly against the descriptor's URL and name.
type Override struct {
	Site        string
	Kind        restaurant.Kind
	StopMarkers []string
	Scope       string
}

// DefaultOverrides are the per-site plans for the built-in restaurants.
var DefaultOverrides = []Override{
	{
		// Shared page for several branches; only the Lauttasaari part applies.
		Site:        "makiata",
		Kind:        restaurant.KindSiblingWalk,
		StopMarkers: []string{"Haaga", "Espoo", "Otaniemi"},
		Scope:       "Lauttasaari",
	},
	{
		Site:        "persilja",
		Kind:        restaurant.KindSiblingWalk,
		StopMarkers: []string{"ERIKOIS", "ERIKOIS LOUNAS"},
	},
	{
		Site:        "pisara",
		Kind:        restaurant.KindParagraphCapture,
		StopMarkers: []string{"LISÄTIETOJA", "ALLERGEENEISTA"},
	},
}

// SourceDescriptor marks a plan built from the descriptor's own stop markers
// or scope.
const SourceDescriptor = "descriptor"

// Plan is the resolved extraction choice for one restaurant.
type Plan struct {
	Kind     restaurant.Kind
	Declared string // the descriptor's type as written
	Options  Options
	Override string // site id or SourceDescriptor when an override applied
}

// Dispatcher picks a strategy for each restaurant and runs it.
type Dispatcher struct {
	overrides []Override
}

// NewDispatcher returns a dispatcher consulting overrides in order.
func NewDispatcher(overrides []Override) *Dispatcher {
	return &Dispatcher{overrides: slices.Clone(overrides)}
}

var defaultDispatcher = NewDispatcher(DefaultOverrides)

// Dispatch runs the default dispatcher.
func Dispatch(d restaurant.Descriptor, t *Tree, day Day) Result {
	return defaultDispatcher.Run(d, t, day)
}

// Plan resolves the strategy, stop markers and scope for a descriptor.
// Stop markers or a scope declared on the descriptor win; otherwise the first
// matching site override applies; otherwise the declared type runs bare.
func (x *Dispatcher) Plan(d restaurant.Descriptor) Plan {
	p := Plan{
		Kind:     d.Kind(),
		Declared: d.Type,
		Options:  Options{Selectors: d.Selectors},
	}

	if len(d.StopMarkers) > 0 || d.Scope != "" {
		p.Options.StopMarkers = d.StopMarkers
		p.Options.Scope = d.Scope
		p.Override = SourceDescriptor
		return p
	}

	for _, o := range x.overrides {
		if !d.Matches(o.Site) {
			continue
		}
		if o.Kind != "" {
			p.Kind = o.Kind
		}
		p.Options.StopMarkers = o.StopMarkers
		p.Options.Scope = o.Scope
		p.Override = o.Site
		break
	}
	return p
}

// Run extracts the menu of d from t for day. It never panics on bad input:
// an unrecognised type yields UnknownType and a missing tree an error result.
func (x *Dispatcher) Run(d restaurant.Descriptor, t *Tree, day Day) Result {
	p := x.Plan(d)

	s, ok := StrategyFor(p.Kind)
	if !ok {
		logger.Debug("no strategy for type", "restaurant", d.Name, "type", p.Declared)
		return UnknownType(p.Declared)
	}

	logger.Debug("dispatching",
		"restaurant", d.Name,
		"strategy", p.Kind,
		"override", p.Override,
		"scope", p.Options.Scope,
		"stop_markers", len(p.Options.StopMarkers))

	return Extract(s, t, day, p.Options)
}
