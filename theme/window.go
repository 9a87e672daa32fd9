package theme

import (
	"context"
	"image"
	rtrace "runtime/trace"
	"time"

	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
)

// How long a notification stays on screen.
const notificationDuration = 2 * time.Second

type Window struct {
	Theme *Theme

	notification notification
}

type Widget func(win *Window, gtx layout.Context) layout.Dimensions

func Dumb(win *Window, w Widget) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		return w(win, gtx)
	}
}

func (win *Window) Render(ops *op.Ops, ev system.FrameEvent, w Widget) {
	defer rtrace.StartRegion(context.Background(), "theme.Window.Render").End()
	gtx := layout.NewContext(ops, ev)

	stack := clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops)
	w(win, gtx)

	win.notification.Layout(win, gtx)
	stack.Pop()
}

// ShowNotification displays msg at the bottom of the window for a short while, replacing any notification that is
// still being shown.
func (win *Window) ShowNotification(gtx layout.Context, msg string) {
	win.notification.message = msg
	win.notification.shownAt = gtx.Now
	op.InvalidateOp{}.Add(gtx.Ops)
}

type notification struct {
	message string
	shownAt time.Time
}

func (notif *notification) Layout(win *Window, gtx layout.Context) layout.Dimensions {
	defer rtrace.StartRegion(context.Background(), "theme.notification.Layout").End()

	if notif.message == "" || gtx.Now.After(notif.shownAt.Add(notificationDuration)) {
		return layout.Dimensions{}
	}

	ngtx := gtx
	ngtx.Constraints.Min = image.Point{}
	ngtx.Constraints.Max.X = min(gtx.Constraints.Max.X-gtx.Dp(20), gtx.Dp(400))
	macro := op.Record(gtx.Ops)
	dims := BorderedText(win.Theme, notif.message).Layout(win, ngtx)
	call := macro.Stop()

	defer op.Offset(image.Pt(gtx.Constraints.Max.X/2-dims.Size.X/2, gtx.Constraints.Max.Y-dims.Size.Y-gtx.Dp(30))).Push(gtx.Ops).Pop()
	call.Add(gtx.Ops)

	op.InvalidateOp{At: notif.shownAt.Add(notificationDuration)}.Add(gtx.Ops)

	return dims
}
