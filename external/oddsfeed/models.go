package oddsfeed

// eventItem mirrors one event row of the odds provider's listing payload.
type eventItem struct {
	ID           string          `json:"id"`
	SportKey     string          `json:"sport_key"`
	SportTitle   string          `json:"sport_title"`
	CommenceTime string          `json:"commence_time"`
	HomeTeam     string          `json:"home_team"`
	AwayTeam     string          `json:"away_team"`
	Bookmakers   []bookmakerItem `json:"bookmakers"`
}

type bookmakerItem struct {
	Key        string       `json:"key"`
	Title      string       `json:"title"`
	LastUpdate string       `json:"last_update"`
	Markets    []marketItem `json:"markets"`
}

type marketItem struct {
	Key      string        `json:"key"`
	Outcomes []outcomeItem `json:"outcomes"`
}

type outcomeItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}
