package theme

import (
	"context"
	"image"
	"image/color"
	rtrace "runtime/trace"

	"honnef.co/go/swipedash/layout"
	"honnef.co/go/swipedash/widget"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
)

type Theme struct {
	Shaper        *text.Shaper
	Palette       Palette
	TextSize      unit.Sp
	TextSizeLarge unit.Sp
	TextSizeTitle unit.Sp

	WindowPadding unit.Dp
	WindowBorder  unit.Dp
}

type Palette struct {
	Background         color.NRGBA
	Foreground         color.NRGBA
	ForegroundDisabled color.NRGBA
	Border             color.NRGBA
	Accent             color.NRGBA

	Card     color.NRGBA
	Positive color.NRGBA
	Negative color.NRGBA

	// Indexed by dashboard.Severity.
	Severity [3]color.NRGBA

	Popup struct {
		Background color.NRGBA
	}
}

var DefaultPalette = Palette{
	Background:         rgba(0xFFFFEAFF),
	Foreground:         rgba(0x000000FF),
	ForegroundDisabled: rgba(0x727272FF),
	Border:             rgba(0x000000FF),
	Accent:             rgba(0x9696FFFF),

	Card:     rgba(0xFFFFFFFF),
	Positive: rgba(0x478847FF),
	Negative: rgba(0xB22222FF),

	Severity: [3]color.NRGBA{
		rgba(0x9CEFEFFF),
		rgba(0xEEEE9EFF),
		rgba(0xFF8A80FF),
	},

	Popup: struct {
		Background color.NRGBA
	}{
		Background: rgba(0xEEFFEEFF),
	},
}

func NewTheme(fontCollection []font.FontFace) *Theme {
	return &Theme{
		Palette:       DefaultPalette,
		Shaper:        text.NewShaper(fontCollection),
		TextSize:      14,
		TextSizeLarge: 18,
		TextSizeTitle: 24,

		WindowPadding: 6,
		WindowBorder:  1,
	}
}

type ProgressBarStyle struct {
	ForegroundColor color.NRGBA
	BackgroundColor color.NRGBA
	BorderWidth     unit.Dp
	Progress        float32
}

func ProgressBar(th *Theme, progress float32) ProgressBarStyle {
	return ProgressBarStyle{
		ForegroundColor: th.Palette.Positive,
		BackgroundColor: rgba(0),
		BorderWidth:     1,
		Progress:        progress,
	}
}

func (p ProgressBarStyle) Layout(gtx layout.Context) layout.Dimensions {
	defer rtrace.StartRegion(context.Background(), "theme.ProgressBarStyle.Layout").End()

	return widget.Border{
		Color: p.ForegroundColor,
		Width: p.BorderWidth,
	}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		// Draw background
		bg := clip.Rect{Max: gtx.Constraints.Min}.Op()
		paint.FillShape(gtx.Ops, p.BackgroundColor, bg)

		// Draw foreground
		fg := frect{Max: f32.Pt(float32(gtx.Constraints.Min.X)*clamp1(p.Progress), float32(gtx.Constraints.Min.Y))}.Op(gtx.Ops)
		paint.FillShape(gtx.Ops, p.ForegroundColor, fg)

		return layout.Dimensions{
			Size: gtx.Constraints.Min,
		}
	})
}

type BorderedTextStyle struct {
	Text string

	Padding         unit.Dp
	BorderSize      unit.Dp
	BorderColor     color.NRGBA
	TextSize        unit.Sp
	TextColor       color.NRGBA
	BackgroundColor color.NRGBA
}

func BorderedText(th *Theme, s string) BorderedTextStyle {
	return BorderedTextStyle{
		Text:            s,
		BorderSize:      th.WindowBorder,
		BorderColor:     th.Palette.Border,
		Padding:         th.WindowPadding,
		TextSize:        th.TextSize,
		TextColor:       th.Palette.Foreground,
		BackgroundColor: th.Palette.Popup.Background,
	}
}

func (bt BorderedTextStyle) Layout(win *Window, gtx layout.Context) layout.Dimensions {
	defer rtrace.StartRegion(context.Background(), "theme.BorderedTextStyle.Layout").End()

	return widget.Bordered{Color: bt.BorderColor, Width: bt.BorderSize}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		defer clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops).Pop()
		gtx.Constraints.Min = image.Pt(0, 0)
		var padding = gtx.Dp(bt.Padding)

		macro := op.Record(gtx.Ops)
		dims := widget.Label{}.Layout(gtx, win.Theme.Shaper, font.Font{}, bt.TextSize, bt.Text, widget.ColorTextMaterial(gtx, bt.TextColor))
		call := macro.Stop()

		total := clip.Rect{
			Min: image.Pt(0, 0),
			Max: image.Pt(dims.Size.X+2*padding, dims.Size.Y+2*padding),
		}

		paint.FillShape(gtx.Ops, bt.BackgroundColor, total.Op())

		stack := op.Offset(image.Pt(padding, padding)).Push(gtx.Ops)
		call.Add(gtx.Ops)
		stack.Pop()

		return layout.Dimensions{
			Baseline: dims.Baseline,
			Size:     total.Max,
		}
	})
}

// CardStyle draws a widget on a bordered, padded background.
type CardStyle struct {
	Padding         unit.Dp
	BorderSize      unit.Dp
	BorderColor     color.NRGBA
	BackgroundColor color.NRGBA
}

func Card(th *Theme) CardStyle {
	return CardStyle{
		Padding:         th.WindowPadding,
		BorderSize:      th.WindowBorder,
		BorderColor:     th.Palette.Border,
		BackgroundColor: th.Palette.Card,
	}
}

func (c CardStyle) Layout(win *Window, gtx layout.Context, w Widget) layout.Dimensions {
	defer rtrace.StartRegion(context.Background(), "theme.CardStyle.Layout").End()

	return widget.Bordered{Color: c.BorderColor, Width: c.BorderSize}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return widget.Background{Color: c.BackgroundColor}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(c.Padding).Layout(gtx, Dumb(win, w))
		})
	})
}

// PullIndicatorStyle draws the area revealed by pulling a list down. It shows a label and a bar that fills up as
// the pull approaches the refresh threshold.
type PullIndicatorStyle struct {
	Label    string
	Progress float32
	// Height of the indicator, in pixels.
	Height int

	TextSize        unit.Sp
	TextColor       color.NRGBA
	BackgroundColor color.NRGBA
	Bar             ProgressBarStyle
	BarHeight       unit.Dp
}

func PullIndicator(th *Theme, label string, progress float32, height int) PullIndicatorStyle {
	bar := ProgressBar(th, progress)
	bar.ForegroundColor = th.Palette.Accent
	return PullIndicatorStyle{
		Label:           label,
		Progress:        progress,
		Height:          height,
		TextSize:        th.TextSize,
		TextColor:       th.Palette.ForegroundDisabled,
		BackgroundColor: th.Palette.Popup.Background,
		Bar:             bar,
		BarHeight:       4,
	}
}

func (pi PullIndicatorStyle) Layout(win *Window, gtx layout.Context) layout.Dimensions {
	defer rtrace.StartRegion(context.Background(), "theme.PullIndicatorStyle.Layout").End()

	if pi.Height <= 0 {
		return layout.Dimensions{}
	}
	size := image.Pt(gtx.Constraints.Max.X, pi.Height)
	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	paint.FillShape(gtx.Ops, pi.BackgroundColor, clip.Rect{Max: size}.Op())

	lgtx := gtx
	lgtx.Constraints.Min = image.Point{}
	macro := op.Record(gtx.Ops)
	dims := widget.TextLine{Color: pi.TextColor}.Layout(lgtx, win.Theme.Shaper, font.Font{}, pi.TextSize, pi.Label)
	call := macro.Stop()
	stack := op.Offset(image.Pt((size.X-dims.Size.X)/2, (size.Y-dims.Size.Y)/2)).Push(gtx.Ops)
	call.Add(gtx.Ops)
	stack.Pop()

	barHeight := min(gtx.Dp(pi.BarHeight), size.Y)
	bgtx := gtx
	bgtx.Constraints = layout.Exact(image.Pt(size.X, barHeight))
	stack = op.Offset(image.Pt(0, size.Y-barHeight)).Push(gtx.Ops)
	bar := pi.Bar
	bar.Progress = pi.Progress
	bar.Layout(bgtx)
	stack.Pop()

	return layout.Dimensions{Size: size}
}

// PageDotsStyle draws one dot per page, highlighting the current one.
type PageDotsStyle struct {
	Pages   int
	Current int

	Size          unit.Dp
	Spacing       unit.Dp
	Color         color.NRGBA
	SelectedColor color.NRGBA
}

func PageDots(th *Theme, pages, current int) PageDotsStyle {
	return PageDotsStyle{
		Pages:         pages,
		Current:       current,
		Size:          8,
		Spacing:       6,
		Color:         th.Palette.ForegroundDisabled,
		SelectedColor: th.Palette.Accent,
	}
}

func (pd PageDotsStyle) Layout(gtx layout.Context) layout.Dimensions {
	defer rtrace.StartRegion(context.Background(), "theme.PageDotsStyle.Layout").End()

	if pd.Pages <= 0 {
		return layout.Dimensions{}
	}
	size := gtx.Dp(pd.Size)
	spacing := gtx.Dp(pd.Spacing)
	width := pd.Pages*size + (pd.Pages-1)*spacing
	x := max(0, (gtx.Constraints.Max.X-width)/2)
	for i := 0; i < pd.Pages; i++ {
		c := pd.Color
		if i == pd.Current {
			c = pd.SelectedColor
		}
		dot := clip.Ellipse{Min: image.Pt(x, 0), Max: image.Pt(x+size, size)}
		paint.FillShape(gtx.Ops, c, dot.Op(gtx.Ops))
		x += size + spacing
	}
	return layout.Dimensions{Size: image.Pt(gtx.Constraints.Max.X, size)}
}

func rgba(c uint32) color.NRGBA {
	return color.NRGBA{
		A: uint8(c & 0xFF),
		B: uint8(c >> 8 & 0xFF),
		G: uint8(c >> 16 & 0xFF),
		R: uint8(c >> 24 & 0xFF),
	}
}

type frect struct {
	Min f32.Point
	Max f32.Point
}

func (r frect) Path(ops *op.Ops) clip.PathSpec {
	var p clip.Path
	p.Begin(ops)
	p.MoveTo(r.Min)
	p.LineTo(f32.Pt(r.Max.X, r.Min.Y))
	p.LineTo(r.Max)
	p.LineTo(f32.Pt(r.Min.X, r.Max.Y))
	p.LineTo(r.Min)
	return p.End()
}

func (r frect) Op(ops *op.Ops) clip.Op {
	return clip.Outline{Path: r.Path(ops)}.Op()
}

// clamp1 limits v to range [0..1].
func clamp1(v float32) float32 {
	if v >= 1 {
		return 1
	} else if v <= 0 {
		return 0
	} else {
		return v
	}
}
