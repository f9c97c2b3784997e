package insight

type analyzeRequestBody struct {
	MatchID  string `json:"matchId"`
	HomeTeam string `json:"homeTeam"`
	AwayTeam string `json:"awayTeam"`
	League   string `json:"league"`
}

type analyzeResponseBody struct {
	Success       bool               `json:"success"`
	MatchID       string             `json:"matchId"`
	Probabilities *probabilitiesBody `json:"probabilities"`
	Risk          string             `json:"risk"`
	Value         valueBody          `json:"value"`
	Momentum      *momentumBody      `json:"momentum"`
	Tactical      string             `json:"tactical"`
	Meta          metaBody           `json:"meta"`
	Warnings      []string           `json:"warnings"`
	GeneratedAt   string             `json:"generatedAt"`
}

type probabilitiesBody struct {
	HomeWin float64  `json:"homeWin"`
	Draw    *float64 `json:"draw"`
	AwayWin float64  `json:"awayWin"`
	Over    *float64 `json:"over"`
	Under   *float64 `json:"under"`
}

type valueBody struct {
	Flag    string  `json:"flag"`
	Outcome string  `json:"outcome"`
	Edge    float64 `json:"edge"`
}

type momentumBody struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

type metaBody struct {
	DataQuality     *bool  `json:"dataQuality"`
	FormSource      string `json:"formSource"`
	H2HSampleSize   *int   `json:"h2hSampleSize"`
	MarketStability *bool  `json:"marketStability"`
}

type aiPicksResponseBody struct {
	Success         bool         `json:"success"`
	AIPicks         []aiPickBody `json:"aiPicks"`
	FlaggedMatchIDs []string     `json:"flaggedMatchIds"`
}

type aiPickBody struct {
	MatchID      string  `json:"matchId"`
	League       string  `json:"league"`
	AIReason     string  `json:"aiReason"`
	ValueBetEdge float64 `json:"valueBetEdge"`
	Conviction   float64 `json:"conviction"`
}

type formResponseBody struct {
	Success bool            `json:"success"`
	Team    string          `json:"team"`
	Matches []formMatchBody `json:"matches"`
	Stats   *formStatsBody  `json:"stats"`
}

type formStatsBody struct {
	GoalsScored     int     `json:"goalsScored"`
	GoalsConceded   int     `json:"goalsConceded"`
	CleanSheets     int     `json:"cleanSheets"`
	MatchesPlayed   int     `json:"matchesPlayed"`
	AvgGoalsScored  float64 `json:"avgGoalsScored"`
	AvgGoalsAgainst float64 `json:"avgGoalsAgainst"`
}

type formMatchBody struct {
	Result   string `json:"result"`
	Opponent string `json:"opponent"`
	Score    string `json:"score"`
	Date     string `json:"date"`
}

type speechRequestBody struct {
	Text string `json:"text"`
}

type speechResponseBody struct {
	Success     bool   `json:"success"`
	AudioBase64 string `json:"audioBase64"`
	ContentType string `json:"contentType"`
}
