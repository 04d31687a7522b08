package restaurant

// Builtin returns the Lauttasaari restaurants lounas ships with.
// The returned slice is a fresh copy; callers may modify it.
func Builtin() []Descriptor {
	return []Descriptor{
		{
			Name:  "Makiata",
			URL:   "https://makiata.fi/lounas",
			Type:  "table",
			Hours: "11:00–13:00",
			Prices: []Price{
				{Label: "Soup+salad+coffee", Price: "12,70€"},
				{Label: "Full lunch", Price: "13,70€"},
			},
		},
		{
			Name:  "Telakka",
			URL:   "https://bistrotelakka.fi",
			Type:  "list",
			Hours: "11:00–14:00",
			Prices: []Price{
				{Label: "Buffet", Price: "13,70€"},
				{Label: "A la carte available", Price: "–"},
			},
		},
		{
			Name:  "Persilja",
			URL:   "https://persilja.fi/lounas",
			Type:  "div_snippet",
			Hours: "10:30–15:00",
			Prices: []Price{
				{Label: "Buffet", Price: "13,70€"},
				{Label: "Seniors", Price: "12,50€"},
			},
		},
		{
			Name:  "Pisara",
			URL:   "https://ravintolapisara.fi/lounaslistat/lauttasaari",
			Type:  "simple_p",
			Hours: "11:00–14:00",
			Prices: []Price{
				{Label: "Full lunch", Price: "13,00€"},
				{Label: "Soup", Price: "11,50€"},
			},
		},
		{
			Name:  "Casa Mare",
			URL:   "https://ravintolacasamare.fi/lounas",
			Type:  "table",
			Hours: "11:00–14:00",
			Prices: []Price{
				{Label: "Full lunch", Price: "14,00€"},
			},
		},
	}
}
