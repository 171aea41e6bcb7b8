package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/sentype/internal/model"
	"github.com/verte-zerg/sentype/internal/store"
)

// Report contains precomputed data for history rendering.
type Report struct {
	Rounds  []model.RoundAggregate
	Summary Summary
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.HistoryConfig) (Report, error) {
	rounds, err := st.ListRounds(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(rounds) > cfg.Last {
		rounds = rounds[len(rounds)-cfg.Last:]
	}
	return Report{
		Rounds:  rounds,
		Summary: Summarize(rounds),
	}, nil
}

// Render writes the summary, trend and recent-rounds table.
func (r Report) Render(w io.Writer, window, width, tableRows int) error {
	if err := RenderSummary(w, r.Rounds); err != nil {
		return err
	}
	if err := RenderTrend(w, r.Rounds, window, width); err != nil {
		return err
	}
	return RenderRoundTable(w, r.Rounds, tableRows)
}
