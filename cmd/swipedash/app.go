package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"time"

	"honnef.co/go/swipedash/dashboard"
	ourfont "honnef.co/go/swipedash/font"
	"honnef.co/go/swipedash/gesture"
	"honnef.co/go/swipedash/layout"
	"honnef.co/go/swipedash/theme"
	"honnef.co/go/swipedash/touchlog"
	"honnef.co/go/swipedash/widget"

	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/io/event"
	"gioui.org/io/system"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"github.com/rs/zerolog"
)

const snapDuration = 250 * time.Millisecond

// rubberBand is how far panels and the pull indicator follow the pointer, relative to the pointer's movement.
const rubberBand = 0.5

func runApp(cfg Config, log zerolog.Logger) error {
	var rec *touchlog.Recorder
	closeLog := func() error { return nil }
	if cfg.Record != "" {
		f, err := os.Create(cfg.Record)
		if err != nil {
			return err
		}
		tw, err := touchlog.NewWriter(f)
		if err != nil {
			f.Close()
			return err
		}
		rec = touchlog.NewRecorder(tw)
		closeLog = func() error {
			err := rec.Err()
			if cerr := tw.Close(); err == nil {
				err = cerr
			}
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			return err
		}
		log.Info().Str("file", cfg.Record).Msg("recording touch input")
	}

	go func() {
		w := app.NewWindow(app.Title("swipedash"), app.Size(unit.Dp(420), unit.Dp(760)))
		ui := newUI(cfg, log, w)
		ui.recorder = rec
		err := ui.Run(w)
		if cerr := closeLog(); cerr != nil {
			log.Error().Err(cerr).Str("file", cfg.Record).Msg("couldn't write touch log")
		}
		if err != nil {
			log.Error().Err(err).Msg("window failed")
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
	return nil
}

type UI struct {
	log  zerolog.Logger
	dash *dashboard.Dashboard
	win  *theme.Window

	panel dashboard.Panel
	swipe gesture.Swipe
	// swipeOffset is the horizontal offset the current panel had in the previous frame, due to a swipe in progress.
	swipeOffset float32
	snap        theme.Animation[float32]

	pull          gesture.PullToRefresh
	notifications layout.List
	activity      layout.List
	metrics       layout.UniformGrid

	recorder *touchlog.Recorder
	// areaOffset is the position of the panel area in window coordinates.
	areaOffset f32.Point
}

func newUI(cfg Config, log zerolog.Logger, w *app.Window) *UI {
	ui := &UI{
		log: log,
		dash: dashboard.New(&dashboard.Source{
			Latency:     cfg.Refresh.Latency,
			FailureRate: cfg.Refresh.FailureRate,
		}),
		win:           &theme.Window{Theme: theme.NewTheme(ourfont.Collection())},
		notifications: layout.List{Axis: layout.Vertical},
		activity:      layout.List{Axis: layout.Vertical},
	}

	sc := cfg.swipeConfig()
	sc.OnSwipeLeft = func() { ui.panel = ui.panel.Next() }
	sc.OnSwipeRight = func() { ui.panel = ui.panel.Prev() }
	ui.swipe.SetConfig(sc)

	ui.pull.OnRefresh = ui.dash.Refresh
	ui.pull.Scroller = gesture.ListScroller{List: &ui.notifications}
	ui.pull.Invalidate = w.Invalidate
	ui.pull.SetConfig(cfg.pullConfig())

	return ui
}

func (ui *UI) Run(w *app.Window) error {
	var ops op.Ops
	for e := range w.Events() {
		switch ev := e.(type) {
		case system.DestroyEvent:
			ui.swipe.Detach()
			ui.pull.Detach()
			return ev.Err
		case system.FrameEvent:
			ui.win.Render(&ops, ev, ui.Layout)
			ev.Frame(&ops)
		}
	}
	return nil
}

func (ui *UI) Layout(win *theme.Window, gtx layout.Context) layout.Dimensions {
	paint.Fill(gtx.Ops, win.Theme.Palette.Background)
	// Relative timestamps
	op.InvalidateOp{At: gtx.Now.Add(15 * time.Second)}.Add(gtx.Ops)

	ui.update(win, gtx)
	snap := ui.dash.Snapshot()

	hgtx := gtx
	hgtx.Constraints.Min = image.Point{}
	hdims := ui.layoutHeader(win, hgtx, snap)

	pgtx := gtx
	pgtx.Constraints = layout.Exact(image.Pt(gtx.Constraints.Max.X, max(0, gtx.Constraints.Max.Y-hdims.Size.Y)))
	ui.areaOffset = f32.Pt(0, float32(hdims.Size.Y))
	stack := op.Offset(image.Pt(0, hdims.Size.Y)).Push(gtx.Ops)
	ui.layoutPanels(win, pgtx, snap)
	stack.Pop()

	return layout.Dimensions{Size: gtx.Constraints.Max}
}

// queue returns the event queue for the panel area's gestures.
func (ui *UI) queue(gtx layout.Context) event.Queue {
	if ui.recorder == nil || gtx.Queue == nil {
		return gtx
	}
	return ui.recorder.Queue(gtx.Queue, ui.areaOffset)
}

func (ui *UI) update(win *theme.Window, gtx layout.Context) {
	q := ui.queue(gtx)

	prev := ui.panel
	wasSwiping := ui.swipe.State().Swiping
	for _, ev := range ui.swipe.Update(q) {
		ui.log.Debug().Stringer("direction", ev.Direction).Float32("distance", ev.Distance).Msg("swipe")
	}
	switch {
	case ui.panel != prev:
		// Slide the new panel in from the side the pointer moved away from.
		from := float32(gtx.Constraints.Max.X) / 3
		if ui.panel == prev.Prev() {
			from = -from
		}
		theme.StartSimpleAnimation(gtx, &ui.snap, from, 0, snapDuration, theme.EaseOut(3))
		ui.log.Info().Stringer("panel", ui.panel).Msg("switched panel")
	case wasSwiping && !ui.swipe.State().Swiping && ui.swipeOffset != 0:
		theme.StartSimpleAnimation(gtx, &ui.snap, ui.swipeOffset, 0, snapDuration, theme.EaseOut(3))
	}

	for _, ev := range ui.pull.Update(q) {
		switch ev.Kind {
		case gesture.PullRefreshStarted:
			ui.log.Info().Msg("refresh started")
		case gesture.PullRefreshed:
			snap := ui.dash.Snapshot()
			ui.log.Info().Int("refreshes", snap.Refreshes).Int("notifications", len(snap.Notifications)).Msg("refreshed")
			win.ShowNotification(gtx, "Dashboard updated")
		case gesture.PullRefreshFailed:
			ui.log.Warn().Err(ev.Err).Msg("refresh failed")
			win.ShowNotification(gtx, fmt.Sprintf("Refresh failed: %s", ev.Err))
		}
	}
}

// panelOffset returns the horizontal offset of the current panel, following a horizontal swipe in progress or
// snapping back after one.
func (ui *UI) panelOffset(gtx layout.Context) float32 {
	st := ui.swipe.State()
	if st.Swiping && st.Direction.Horizontal() {
		d := st.Distance * rubberBand
		if st.Direction == gesture.DirectionLeft {
			d = -d
		}
		ui.snap.Cancel()
		ui.swipeOffset = d
		return d
	}
	ui.swipeOffset = 0
	if !ui.snap.Done() {
		return ui.snap.Value(gtx)
	}
	return 0
}

// listInput disables input for lists while one of the gestures owns the pointer, so that the lists don't scroll
// along with it.
func (ui *UI) listInput(gtx layout.Context) layout.Context {
	st := ui.swipe.State()
	if ui.pull.State().Pulling || (ui.swipe.Config().PreventScroll && st.Swiping && st.Direction.Horizontal()) {
		gtx.Queue = nil
	}
	return gtx
}

func (ui *UI) layoutHeader(win *theme.Window, gtx layout.Context, snap dashboard.Snapshot) layout.Dimensions {
	th := win.Theme
	return layout.UniformInset(10).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return widget.TextLine{Color: th.Palette.Foreground}.Layout(gtx, th.Shaper, font.Font{Weight: font.Bold}, th.TextSizeTitle, ui.panel.String())
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				txt := "Updated " + dashboard.Ago(snap.RefreshedAt, gtx.Now)
				return widget.TextLine{Color: th.Palette.ForegroundDisabled}.Layout(gtx, th.Shaper, font.Font{}, th.TextSize, txt)
			}),
			layout.Rigid(layout.Spacer{Height: 6}.Layout),
			layout.Rigid(theme.PageDots(th, len(dashboard.Panels()), int(ui.panel)).Layout),
		)
	})
}

func (ui *UI) layoutPanels(win *theme.Window, gtx layout.Context, snap dashboard.Snapshot) layout.Dimensions {
	size := gtx.Constraints.Max

	// The gesture areas stay put while the panel moves, and enclose the panels' own input areas so that they
	// receive the same events.
	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	ui.swipe.Add(gtx.Ops)
	if ui.panel == dashboard.PanelNotifications {
		defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
		ui.pull.Add(gtx.Ops)
	} else {
		ui.pull.Cancel()
	}

	off := ui.panelOffset(gtx)
	defer op.Offset(image.Pt(int(off), 0)).Push(gtx.Ops).Pop()

	switch ui.panel {
	case dashboard.PanelOverview:
		ui.layoutOverview(win, gtx, snap)
	case dashboard.PanelNotifications:
		ui.layoutNotifications(win, gtx, snap)
	case dashboard.PanelActivity:
		ui.layoutActivity(win, gtx, snap)
	}
	return layout.Dimensions{Size: size}
}

func (ui *UI) layoutOverview(win *theme.Window, gtx layout.Context, snap dashboard.Snapshot) layout.Dimensions {
	const padding = 8
	gap := gtx.Dp(padding)
	ui.metrics.Columns = layout.ColumnsFor(gtx.Constraints.Max.X-2*gap, gtx.Dp(150), gap)
	ui.metrics.RowHeight = gtx.Dp(84)
	ui.metrics.Gap = gap

	// The cards fit without scrolling, and the grid must not claim drags that switch panels.
	gtx.Queue = nil
	return layout.UniformInset(padding).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return ui.metrics.Layout(gtx, len(snap.Metrics), func(gtx layout.Context, i int) layout.Dimensions {
			return theme.Card(win.Theme).Layout(win, gtx, func(win *theme.Window, gtx layout.Context) layout.Dimensions {
				return layoutMetric(win, gtx, snap.Metrics[i])
			})
		})
	})
}

func layoutMetric(win *theme.Window, gtx layout.Context, m dashboard.Metric) layout.Dimensions {
	th := win.Theme
	changeColor := th.Palette.ForegroundDisabled
	switch {
	case m.Change > 0:
		changeColor = th.Palette.Positive
	case m.Change < 0:
		changeColor = th.Palette.Negative
	}

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return widget.TextLine{Color: th.Palette.ForegroundDisabled}.Layout(gtx, th.Shaper, font.Font{}, th.TextSize, m.Name)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return widget.TextLine{Color: th.Palette.Foreground}.Layout(gtx, th.Shaper, font.Font{Weight: font.Bold}, th.TextSizeLarge, dashboard.FormatValue(m))
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return widget.TextLine{Color: changeColor}.Layout(gtx, th.Shaper, font.Font{}, th.TextSize, dashboard.FormatChange(m))
		}),
	)
}

func (ui *UI) layoutNotifications(win *theme.Window, gtx layout.Context, snap dashboard.Snapshot) layout.Dimensions {
	th := win.Theme
	st := ui.pull.State()

	var label string
	var height int
	progress := ui.pull.Progress()
	switch {
	case st.Refreshing:
		label = "Refreshing…"
		height = gtx.Dp(40)
		progress = 1
	case st.Pulling:
		if ui.pull.WouldRefresh() {
			label = "Release to refresh"
		} else {
			label = "Pull to refresh"
		}
		height = int(st.PullDistance * rubberBand)
	}

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(theme.Dumb(win, theme.PullIndicator(th, label, progress, height).Layout)),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			gtx = ui.listInput(gtx)
			return ui.notifications.Layout(gtx, len(snap.Notifications), func(gtx layout.Context, i int) layout.Dimensions {
				n := snap.Notifications[i]
				return listItem(win, gtx, th.Palette.Severity[n.Severity], n.Title, dashboard.Ago(n.At, gtx.Now))
			})
		}),
	)
}

func (ui *UI) layoutActivity(win *theme.Window, gtx layout.Context, snap dashboard.Snapshot) layout.Dimensions {
	gtx = ui.listInput(gtx)
	return ui.activity.Layout(gtx, len(snap.Activity), func(gtx layout.Context, i int) layout.Dimensions {
		a := snap.Activity[i]
		return listItem(win, gtx, win.Theme.Palette.Accent, a.Who+" "+a.What, dashboard.Ago(a.At, gtx.Now))
	})
}

// listItem draws a card with a colored marker, a title and a secondary line.
func listItem(win *theme.Window, gtx layout.Context, marker color.NRGBA, title, detail string) layout.Dimensions {
	th := win.Theme
	gtx.Constraints.Min.X = gtx.Constraints.Max.X
	return layout.Inset{Top: 4, Bottom: 4, Left: 8, Right: 8}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return theme.Card(th).Layout(win, gtx, func(win *theme.Window, gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					sz := image.Pt(gtx.Dp(6), gtx.Dp(32))
					paint.FillShape(gtx.Ops, marker, clip.Rect{Max: sz}.Op())
					return layout.Dimensions{Size: sz}
				}),
				layout.Rigid(layout.Spacer{Width: 8}.Layout),
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							return widget.Label{MaxLines: 2}.Layout(gtx, th.Shaper, font.Font{}, th.TextSize, title, widget.ColorTextMaterial(gtx, th.Palette.Foreground))
						}),
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							return widget.TextLine{Color: th.Palette.ForegroundDisabled}.Layout(gtx, th.Shaper, font.Font{}, th.TextSize*0.85, detail)
						}),
					)
				}),
			)
		})
	})
}
