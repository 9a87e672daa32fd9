package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"honnef.co/go/swipedash/dashboard"
	"honnef.co/go/swipedash/gesture"
	"honnef.co/go/swipedash/touchlog"
)

type replayStats struct {
	Events    int
	Swipes    []gesture.SwipeEvent
	Refreshes int
	Failures  int
}

func (st replayStats) String() string {
	dirs := make([]string, len(st.Swipes))
	for i, ev := range st.Swipes {
		dirs[i] = ev.Direction.String()
	}
	return fmt.Sprintf("%d events, %d swipes [%s], %d refreshes, %d failed refreshes",
		st.Events, len(st.Swipes), strings.Join(dirs, " "), st.Refreshes, st.Failures)
}

// replay feeds a touch log through a swipe and a pull-to-refresh recognizer the way the window routes input to them.
// Swipes switch panels, and the pull only receives input on the notifications panel. Once either recognizer grabs a
// pointer, the other one is cancelled. Refreshes run against a simulated dashboard and are waited for before the
// next event is replayed.
func replay(r io.Reader, cfg Config, log zerolog.Logger) (replayStats, error) {
	lr, err := touchlog.NewReader(r)
	if err != nil {
		return replayStats{}, err
	}

	dash := dashboard.New(&dashboard.Source{
		Latency:     cfg.Refresh.Latency,
		FailureRate: cfg.Refresh.FailureRate,
	})

	var st replayStats
	var panel dashboard.Panel
	var swipe gesture.Swipe
	sc := cfg.swipeConfig()
	sc.OnSwipeLeft = func() { panel = panel.Next() }
	sc.OnSwipeRight = func() { panel = panel.Prev() }
	swipe.SetConfig(sc)
	pull := gesture.PullToRefresh{OnRefresh: dash.Refresh}
	pull.SetConfig(cfg.pullConfig())
	defer pull.Detach()

	for {
		e, err := lr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return st, err
		}
		st.Events++
		log.Debug().Stringer("type", e.Type).Uint64("pointer", uint64(e.PointerID)).Float32("x", e.Position.X).Float32("y", e.Position.Y).Msg("event")

		q := touchlog.Events(e)
		onNotifications := panel == dashboard.PanelNotifications
		for _, ev := range swipe.Update(q) {
			log.Info().Stringer("direction", ev.Direction).Float32("distance", ev.Distance).Stringer("panel", panel).Msg("swipe")
			st.Swipes = append(st.Swipes, ev)
		}

		var evs []gesture.PullEvent
		if onNotifications {
			evs = pull.Update(q)
		} else {
			pull.Cancel()
			evs = pull.Update(touchlog.Events())
		}

		// A grab cancels the pointer for every other handler. The swipe's area encloses the pull's, so its grab wins
		// when both grab on the same event.
		if swipe.Grabbing() {
			pull.Cancel()
		} else if pull.Grabbing() {
			swipe.Cancel()
		}

		if pull.Refreshing() {
			pull.Wait()
			evs = append(evs, pull.Update(touchlog.Events())...)
		}
		for _, ev := range evs {
			switch ev.Kind {
			case gesture.PullRefreshStarted:
				log.Info().Msg("refresh started")
			case gesture.PullRefreshed:
				st.Refreshes++
				log.Info().Int("notifications", len(dash.Snapshot().Notifications)).Msg("refreshed")
			case gesture.PullRefreshFailed:
				st.Failures++
				log.Warn().Err(ev.Err).Msg("refresh failed")
			}
		}
	}
	return st, nil
}
