package knowledge

// Endpoints holds the base URL of every upstream API.
type Endpoints struct {
	Wikipedia      string
	Geocoding      string
	Forecast       string
	FreeDictionary string
	Datamuse       string
	Wiktionary     string
	MerriamWebster string
	Google         string
	Serper         string
	Brave          string
	Tavily         string
	NewsAPI        string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Wikipedia:      "https://en.wikipedia.org/w/api.php",
		Geocoding:      "https://geocoding-api.open-meteo.com/v1/search",
		Forecast:       "https://api.open-meteo.com/v1/forecast",
		FreeDictionary: "https://api.dictionaryapi.dev/api/v2/entries/en/",
		Datamuse:       "https://api.datamuse.com/words",
		Wiktionary:     "https://en.wiktionary.org/w/api.php",
		MerriamWebster: "https://www.dictionaryapi.com/api/v3/references/collegiate/json/",
		Google:         "https://www.googleapis.com/customsearch/v1",
		Serper:         "https://google.serper.dev/search",
		Brave:          "https://api.search.brave.com/res/v1/web/search",
		Tavily:         "https://api.tavily.com/search",
		NewsAPI:        "https://newsapi.org/v2/top-headlines",
	}
}
