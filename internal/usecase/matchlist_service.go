package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/matchsight/analysis-api/internal/domain/analysis"
	"github.com/matchsight/analysis-api/internal/domain/match"
)

type TimeFilter string

const (
	TimeFilterToday    TimeFilter = "today"
	TimeFilterTomorrow TimeFilter = "tomorrow"
	TimeFilterLater    TimeFilter = "later"
)

type ViewMode string

const (
	ViewModeAIPicks ViewMode = "ai-picks"
	ViewModeAll     ViewMode = "all"
)

// BrowseState is the match browser's filter selection.
type BrowseState struct {
	Sport      string
	League     string
	TimeFilter TimeFilter
	ViewMode   ViewMode
}

// BrowseResult is the visible match set for one state, plus flags recording
// which degradation rules fired so callers can label the view honestly.
type BrowseResult struct {
	Matches      []match.Match
	Picks        map[string]analysis.AIPick
	TimeFilter   TimeFilter
	ViewMode     ViewMode
	FallbackUsed bool
	WidenedToAll bool
}

// MatchListService computes the filtered, ranked match views. All filter
// changes recompute synchronously from the snapshot repository; no filter
// change triggers a provider fetch.
type MatchListService struct {
	matchRepo match.Repository
	pickRepo  analysis.PickRepository
	location  *time.Location
	now       func() time.Time
}

func NewMatchListService(matchRepo match.Repository, pickRepo analysis.PickRepository, location *time.Location) *MatchListService {
	if location == nil {
		location = time.Local
	}
	return &MatchListService{
		matchRepo: matchRepo,
		pickRepo:  pickRepo,
		location:  location,
		now:       time.Now,
	}
}

// NormalizeTimeFilter defaults unknown values to today.
func NormalizeTimeFilter(value string) TimeFilter {
	switch TimeFilter(value) {
	case TimeFilterTomorrow:
		return TimeFilterTomorrow
	case TimeFilterLater:
		return TimeFilterLater
	default:
		return TimeFilterToday
	}
}

// NormalizeViewMode defaults unknown values to all.
func NormalizeViewMode(value string) ViewMode {
	if ViewMode(value) == ViewModeAIPicks {
		return ViewModeAIPicks
	}
	return ViewModeAll
}

// ChangeSport applies the sport switch rule: the selected league survives
// only when it belongs to the new sport.
func (s *MatchListService) ChangeSport(state BrowseState, sportKey string) BrowseState {
	next := state
	next.Sport = match.NormalizeSportKey(sportKey)
	if !match.LeagueOfSport(state.League, next.Sport) {
		next.League = ""
	}
	return next
}

// Browse computes the visible set for one browser state.
func (s *MatchListService) Browse(ctx context.Context, state BrowseState) (BrowseResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchListService.Browse")
	defer span.End()

	league := state.League
	if league == "" {
		league = state.Sport
	}
	if league == "" {
		return BrowseResult{}, fmt.Errorf("%w: sport or league required", ErrInvalidInput)
	}

	all, err := s.matchRepo.ListByLeague(ctx, league)
	if err != nil {
		return BrowseResult{}, fmt.Errorf("list league matches: %w", err)
	}

	filter := NormalizeTimeFilter(string(state.TimeFilter))
	window := s.FilterByWindow(all, filter, s.now())

	result := BrowseResult{
		TimeFilter: filter,
		ViewMode:   NormalizeViewMode(string(state.ViewMode)),
	}

	if result.ViewMode != ViewModeAIPicks {
		sortByCommence(window)
		result.Matches = window
		return result, nil
	}

	flagged, err := s.pickRepo.FlaggedIDsByLeague(ctx, league)
	if err != nil {
		return BrowseResult{}, fmt.Errorf("list flagged match ids: %w", err)
	}

	if len(flagged) == 0 {
		// No server-side picks at all for this league: the heuristic
		// hotness ranking takes over. The two rankings never mix.
		result.Matches = s.HeuristicPicks(window)
		result.FallbackUsed = true
		return result, nil
	}

	picks, err := s.pickRepo.ListByLeague(ctx, league)
	if err != nil {
		return BrowseResult{}, fmt.Errorf("list ai picks: %w", err)
	}

	pickByID := make(map[string]analysis.AIPick, len(picks))
	for _, p := range picks {
		pickByID[p.MatchID] = p
	}

	flaggedSet := make(map[string]struct{}, len(flagged))
	for _, id := range flagged {
		flaggedSet[id] = struct{}{}
	}

	inWindow := make([]match.Match, 0, len(window))
	for _, m := range window {
		if _, ok := flaggedSet[m.ID]; ok {
			inWindow = append(inWindow, m)
		}
	}

	if len(inWindow) == 0 {
		// Picks exist but none in this window: widen to every match in the
		// window instead of an empty state.
		sortByCommence(window)
		result.Matches = window
		result.WidenedToAll = true
		return result, nil
	}

	sort.SliceStable(inWindow, func(i, j int) bool {
		return pickByID[inWindow[i].ID].RankScore() > pickByID[inWindow[j].ID].RankScore()
	})
	result.Matches = inWindow
	result.Picks = pickByID
	return result, nil
}

// ClassifyWindow buckets a kickoff time against the local calendar day.
// Exactly midnight tomorrow counts as tomorrow; 23:59:59 tonight is still
// today. Past matches stay in today so live games remain visible.
func (s *MatchListService) ClassifyWindow(commence, now time.Time) TimeFilter {
	local := now.In(s.location)
	startTomorrow := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, s.location)
	startAfter := time.Date(local.Year(), local.Month(), local.Day()+2, 0, 0, 0, 0, s.location)

	kickoff := commence.In(s.location)
	switch {
	case kickoff.Before(startTomorrow):
		return TimeFilterToday
	case kickoff.Before(startAfter):
		return TimeFilterTomorrow
	default:
		return TimeFilterLater
	}
}

func (s *MatchListService) FilterByWindow(matches []match.Match, filter TimeFilter, now time.Time) []match.Match {
	out := make([]match.Match, 0, len(matches))
	for _, m := range matches {
		if s.ClassifyWindow(m.CommenceTime, now) == filter {
			out = append(out, m)
		}
	}
	return out
}

// RankAIPicks orders picks by edge + conviction/10 descending; equal scores
// fall back to match ID so the order is reproducible.
func (s *MatchListService) RankAIPicks(picks []analysis.AIPick) []analysis.AIPick {
	ranked := make([]analysis.AIPick, len(picks))
	copy(ranked, picks)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].RankScore(), ranked[j].RankScore()
		if a != b {
			return a > b
		}
		return ranked[i].MatchID < ranked[j].MatchID
	})
	return ranked
}

// HeuristicPicks ranks matches by composite hotness. Only used when the
// league has no server-side picks at all.
func (s *MatchListService) HeuristicPicks(matches []match.Match) []match.Match {
	ranked := make([]match.Match, len(matches))
	copy(ranked, matches)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Signals.Hotness(), ranked[j].Signals.Hotness()
		if a != b {
			return a > b
		}
		return ranked[i].CommenceTime.Before(ranked[j].CommenceTime)
	})
	return ranked
}

func sortByCommence(matches []match.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CommenceTime.Before(matches[j].CommenceTime)
	})
}
