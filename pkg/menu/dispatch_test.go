package menu

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/jmylchreest/lounas/pkg/restaurant"
)

func builtin(t *testing.T, name string) restaurant.Descriptor {
	t.Helper()
	for _, d := range restaurant.Builtin() {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("no built-in restaurant %q", name)
	return restaurant.Descriptor{}
}

// --- Built-in Restaurant Tests ---

func TestDispatch_Builtin(t *testing.T) {
	tests := []struct {
		restaurant string
		fixture    string
		want       []string
	}{
		{"Makiata", "scoped.html", []string{"Kanacurry", "Tofuwok"}},
		{"Telakka", "grouped.html", []string{"Paahtopaisti", "Kasvisrisotto (VEG)"}},
		{"Persilja", "sibling.html", []string{"Kalakeitto (L, G)", "Kasvislasagne (VEG)", "Salaattipöytä", "Päivän jälkiruoka"}},
		{"Pisara", "paragraph.html", []string{"Lohikiusaus (L, G)", "Kasvispihvit ja perunamuusi", "Mustikkapiirakka"}},
		{"Casa Mare", "table.html", []string{"Kalakeitto", "ruisleipä", "Broileria", "riisiä", "Kahvi 2,50€"}},
	}

	for _, tt := range tests {
		t.Run(tt.restaurant, func(t *testing.T) {
			got := Dispatch(builtin(t, tt.restaurant), loadTree(t, tt.fixture), keskiviikko)
			wantLines(t, got, tt.want)
		})
	}
}

func TestDispatch_MakiataScopeSkipsPageChrome(t *testing.T) {
	pages := map[string]string{
		"title": `<html><head><title>Makiata Lauttasaari</title></head><body>
<p>Lauttasaari</p><p>Keskiviikko</p><p>Kanacurry</p></body></html>`,
		"nav": `<html><body><nav><a>Lauttasaari</a><a>Haaga</a></nav>
<div><p>Lauttasaari</p><p>Keskiviikko</p><p>Kanacurry</p></div></body></html>`,
	}

	for name, page := range pages {
		t.Run(name, func(t *testing.T) {
			got := Dispatch(builtin(t, "Makiata"), mustParse(t, page), keskiviikko)
			wantLines(t, got, []string{"Kanacurry"})
		})
	}
}

func TestDispatch_WrongPageNotFound(t *testing.T) {
	// A Persilja-style page read as a table has no lunch table.
	got := Dispatch(builtin(t, "Casa Mare"), loadTree(t, "sibling.html"), keskiviikko)
	wantStatus(t, got, StatusNotFound)
}

// --- Plan Tests ---

func TestDispatcher_Plan(t *testing.T) {
	tests := []struct {
		name         string
		desc         restaurant.Descriptor
		wantKind     restaurant.Kind
		wantOverride string
		wantScope    string
		wantStops    []string
	}{
		{
			name:         "site override replaces declared type",
			desc:         restaurant.Descriptor{Name: "Makiata", URL: "https://makiata.fi/lounas", Type: "table"},
			wantKind:     restaurant.KindSiblingWalk,
			wantOverride: "makiata",
			wantScope:    "Lauttasaari",
			wantStops:    []string{"Haaga", "Espoo", "Otaniemi"},
		},
		{
			name:     "no override",
			desc:     restaurant.Descriptor{Name: "Casa Mare", URL: "https://ravintolacasamare.fi/lounas", Type: "table"},
			wantKind: restaurant.KindTable,
		},
		{
			name: "descriptor markers win",
			desc: restaurant.Descriptor{
				Name:        "Pisara",
				URL:         "https://ravintolapisara.fi",
				Type:        "sibling-walk",
				StopMarkers: []string{"Jälkiruoka"},
			},
			wantKind:     restaurant.KindSiblingWalk,
			wantOverride: SourceDescriptor,
			wantStops:    []string{"Jälkiruoka"},
		},
		{
			name:     "alias",
			desc:     restaurant.Descriptor{Name: "Harbour", URL: "https://harbour.example", Type: "simple_p"},
			wantKind: restaurant.KindParagraphCapture,
		},
	}

	x := NewDispatcher(DefaultOverrides)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := x.Plan(tt.desc)
			if p.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", p.Kind, tt.wantKind)
			}
			if p.Override != tt.wantOverride {
				t.Errorf("Override = %q, want %q", p.Override, tt.wantOverride)
			}
			if p.Options.Scope != tt.wantScope {
				t.Errorf("Scope = %q, want %q", p.Options.Scope, tt.wantScope)
			}
			if diff := cmp.Diff(tt.wantStops, p.Options.StopMarkers); diff != "" {
				t.Errorf("StopMarkers mismatch (-want +got):\n%s", diff)
			}
			if p.Declared != tt.desc.Type {
				t.Errorf("Declared = %q, want %q", p.Declared, tt.desc.Type)
			}
		})
	}
}

func TestDispatcher_SelectorsFromDescriptor(t *testing.T) {
	d := restaurant.Descriptor{
		Name:      "Persilja",
		URL:       "https://persilja.fi",
		Type:      "div_snippet",
		Selectors: restaurant.Selectors{Anchor: "h3"},
	}
	if got := NewDispatcher(DefaultOverrides).Plan(d).Options.Selectors.Anchor; got != "h3" {
		t.Errorf("Anchor = %q, want h3", got)
	}
}

func TestDispatcher_CustomOverrides(t *testing.T) {
	tree := mustParse(t, `<div><h2>North</h2><p>Wednesday</p><p>Soup N</p>
<h2>South</h2><p>Wednesday</p><p>Soup S</p><p>Drinks</p></div>`)

	x := NewDispatcher([]Override{{
		Site:        "harbour",
		Kind:        restaurant.KindSiblingWalk,
		Scope:       "South",
		StopMarkers: []string{"Drinks"},
	}})
	d := restaurant.Descriptor{Name: "Harbour", URL: "https://harbour.example", Type: "paragraph-capture"}

	wantLines(t, x.Run(d, tree, wednesday), []string{"Soup S"})
}

func TestNewDispatcher_CopiesOverrides(t *testing.T) {
	overrides := []Override{{Site: "harbour", Kind: restaurant.KindTable}}
	x := NewDispatcher(overrides)
	overrides[0].Kind = restaurant.KindGroupedList

	d := restaurant.Descriptor{Name: "Harbour", URL: "https://harbour.example", Type: "list"}
	if got := x.Plan(d).Kind; got != restaurant.KindTable {
		t.Errorf("Kind = %s, want table", got)
	}
}

// --- Failure Tests ---

func TestDispatch_UnknownType(t *testing.T) {
	d := restaurant.Descriptor{Name: "Harbour", URL: "https://harbour.example", Type: "carousel"}

	got := Dispatch(d, loadTree(t, "table.html"), keskiviikko)
	wantStatus(t, got, StatusUnknownType)
	if !errors.Is(got.Err(), ErrUnknownType) {
		t.Errorf("Err() = %v, want ErrUnknownType", got.Err())
	}
	if !strings.Contains(got.Message, "carousel") {
		t.Errorf("message %q should name the declared type", got.Message)
	}
	if got.Placeholder() != PlaceholderUnknownType {
		t.Errorf("Placeholder() = %q", got.Placeholder())
	}

	// Reported even without a document.
	wantStatus(t, Dispatch(d, nil, keskiviikko), StatusUnknownType)
}

func TestDispatch_NilTree(t *testing.T) {
	got := Dispatch(builtin(t, "Casa Mare"), nil, keskiviikko)
	wantStatus(t, got, StatusError)
	if !errors.Is(got.Err(), ErrUpstream) {
		t.Errorf("Err() = %v, want ErrUpstream", got.Err())
	}
}

func TestDispatch_WeekendNotFound(t *testing.T) {
	for _, name := range []string{"Makiata", "Telakka", "Persilja", "Pisara", "Casa Mare"} {
		d := builtin(t, name)
		fixture := map[string]string{
			"Makiata":   "scoped.html",
			"Telakka":   "grouped.html",
			"Persilja":  "sibling.html",
			"Pisara":    "paragraph.html",
			"Casa Mare": "table.html",
		}[name]

		got := Dispatch(d, loadTree(t, fixture), NewDay(time.Sunday, Finnish))
		if got.Status != StatusNotFound {
			t.Errorf("%s: expected not_found on Sunday, got %s", name, got.Status)
		}
	}
}

func TestDispatch_Idempotent(t *testing.T) {
	tree := loadTree(t, "paragraph.html")
	d := builtin(t, "Pisara")

	first := Dispatch(d, tree, keskiviikko)
	wantStatus(t, first, StatusFound)
	for range 3 {
		if diff := cmp.Diff(first, Dispatch(d, tree, keskiviikko)); diff != "" {
			t.Fatalf("repeated dispatch differs (-first +again):\n%s", diff)
		}
	}
}
