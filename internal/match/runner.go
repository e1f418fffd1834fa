// internal/match/runner.go
package match

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/daifugo/internal/models"
	"github.com/jason-s-yu/daifugo/internal/progression"
	"github.com/jason-s-yu/daifugo/internal/rating"
	"github.com/sirupsen/logrus"
)

// Archive stores finished-game summaries.
type Archive interface {
	SaveGame(ctx context.Context, summary models.GameSummary) error
}

// StandingsArchive is implemented by archives that also keep rating history.
type StandingsArchive interface {
	SaveStandings(ctx context.Context, gameID uuid.UUID, before map[string]float64, after []rating.Standing) error
}

// DayReport is everything that happened over one Day/Evening/Night.
type DayReport struct {
	Summary   models.GameSummary        `json:"summary"`
	Evening   progression.EveningReport `json:"evening"`
	Night     []progression.NightResult `json:"night"`
	Standings []rating.Standing         `json:"standings,omitempty"`
}

// Runner plays a Session through a progression cycle, one game per day.
type Runner struct {
	Session *Session
	Cycle   *progression.Cycle
	Board   *rating.Board // optional
	Archive Archive       // optional

	// MaxSteps bounds each game; zero means no limit.
	MaxSteps int
}

// NewRunner binds the session's skill checks to the cycle roster.
func NewRunner(s *Session, c *progression.Cycle) *Runner {
	s.Stats = c.Roster
	return &Runner{Session: s, Cycle: c, MaxSteps: 5000}
}

// Run plays days until the cycle ends. Archive failures are logged and do not
// stop the cycle.
func (r *Runner) Run(ctx context.Context) ([]DayReport, error) {
	var reports []DayReport
	for {
		started, err := r.Cycle.BeginDay(r.Session.Engine)
		if err != nil {
			return reports, err
		}
		if !started {
			return reports, nil
		}
		report, err := r.playDay(ctx)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
}

func (r *Runner) playDay(ctx context.Context) (DayReport, error) {
	eng := r.Session.Engine
	ranking, err := r.Session.Play(ctx, r.MaxSteps)
	if err != nil {
		return DayReport{}, err
	}

	report := DayReport{Summary: models.GameSummary{
		GameID:     eng.ID,
		CycleID:    r.Cycle.ID,
		Day:        r.Cycle.Day(),
		Players:    eng.Players(),
		Ranking:    ranking,
		Caught:     eng.Caught(),
		Rounds:     eng.Rounds(),
		Cheats:     eng.CheatHistory(),
		FinishedAt: time.Now(),
	}}
	log := r.Session.log.WithFields(logrus.Fields{"cycle": r.Cycle.ID, "game": eng.ID, "day": r.Cycle.Day()})

	if r.Archive != nil {
		if err := r.Archive.SaveGame(ctx, report.Summary); err != nil {
			log.WithError(err).Warn("failed to archive game summary")
		}
	}
	if r.Board != nil {
		before := make(map[string]float64, len(ranking))
		for _, p := range ranking {
			before[p] = r.Board.Get(p).Rating
		}
		report.Standings = r.Board.Record(ranking)
		if sa, ok := r.Archive.(StandingsArchive); ok {
			if err := sa.SaveStandings(ctx, eng.ID, before, report.Standings); err != nil {
				log.WithError(err).Warn("failed to archive standings")
			}
		}
	}

	if report.Evening, err = r.Cycle.EndDay(ranking); err != nil {
		return DayReport{}, err
	}
	if report.Night, err = r.Cycle.RunNight(); err != nil {
		return DayReport{}, err
	}
	log.WithField("ranking", ranking).Info("day complete")
	return report, nil
}
