package stats

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/typetutor/internal/heatmap"
	"github.com/verte-zerg/typetutor/internal/model"
	"github.com/verte-zerg/typetutor/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions   []model.SessionAggregate
	Heatmap    heatmap.Heatmap
	CharAggs   []model.CharAggregate
	WrongChars []model.WrongCharAggregate
}

// RenderOptions controls report output.
type RenderOptions struct {
	Scheme     heatmap.Scheme
	MinPresses int
	Top        int
	Color      bool
	Now        time.Time
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	ids := sessionIDs(sessions)
	keyAggs, err := st.ListKeyAggregatesForSessions(ctx, ids)
	if err != nil {
		return Report{}, err
	}
	charAggs, err := st.ListCharAggregatesForSessions(ctx, ids)
	if err != nil {
		return Report{}, err
	}
	wrong, err := st.ListWrongCharsForSessions(ctx, ids, cfg.Top)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Sessions:   sessions,
		Heatmap:    HeatmapFromAggregates(keyAggs),
		CharAggs:   charAggs,
		WrongChars: wrong,
	}, nil
}

// Render writes the summary, keyboard heatmap, per-key table, per-char
// table and top wrong characters.
func (r Report) Render(w io.Writer, opts RenderOptions) error {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if err := RenderSummary(w, r.Sessions, opts.Now); err != nil {
		return err
	}
	if len(r.Sessions) == 0 {
		return nil
	}
	if len(r.Heatmap) > 0 {
		if _, err := fmt.Fprintln(w, heatmap.Render(r.Heatmap, heatmap.RenderOptions{Scheme: opts.Scheme, Color: opts.Color})); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
	}
	if err := RenderKeyTable(w, r.Heatmap, opts.Scheme, opts.MinPresses); err != nil {
		return err
	}
	if err := RenderCharTable(w, r.CharAggs, opts.Top); err != nil {
		return err
	}
	return RenderWrongChars(w, r.WrongChars)
}

func sessionIDs(sessions []model.SessionAggregate) []string {
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}
