package layout

import (
	"gioui.org/layout"
	"gioui.org/x/outlay"
)

// UniformGrid lays out cells of equal size in columns that share the available width.
type UniformGrid struct {
	Grid      outlay.Grid
	Columns   int
	RowHeight int
	Gap       int
}

// ColumnsFor returns how many columns of at least minWidth fit into width, and at least one.
func ColumnsFor(width, minWidth, gap int) int {
	if minWidth <= 0 {
		return 1
	}
	return max(1, (width+gap)/(minWidth+gap))
}

func (ug UniformGrid) Layout(gtx layout.Context, n int, cellFunc func(gtx layout.Context, i int) layout.Dimensions) layout.Dimensions {
	cols := max(ug.Columns, 1)
	rows := (n + cols - 1) / cols
	colWidth := max(0, (gtx.Constraints.Max.X-(cols-1)*ug.Gap)/cols)

	dimmer := func(axis layout.Axis, index, constraint int) int {
		switch axis {
		case layout.Vertical:
			return ug.RowHeight + ug.Gap
		case layout.Horizontal:
			return colWidth + ug.Gap
		default:
			panic("unreachable")
		}
	}

	// outlay.Grid fills the Max constraint
	height := max(0, rows*(ug.RowHeight+ug.Gap)-ug.Gap)
	gtx.Constraints.Max.Y = min(gtx.Constraints.Max.Y, height)
	gtx.Constraints.Min = gtx.Constraints.Constrain(gtx.Constraints.Min)

	wrapper := func(gtx layout.Context, row, col int) layout.Dimensions {
		ogtx := gtx
		idx := row*cols + col
		if idx >= n {
			return layout.Dimensions{Size: gtx.Constraints.Min}
		}
		// The gap is part of each cell as far as outlay.Grid is concerned.
		gtx.Constraints.Min.X = max(0, gtx.Constraints.Min.X-ug.Gap)
		gtx.Constraints.Max.X = max(0, gtx.Constraints.Max.X-ug.Gap)
		gtx.Constraints.Min.Y = max(0, gtx.Constraints.Min.Y-ug.Gap)
		gtx.Constraints.Max.Y = max(0, gtx.Constraints.Max.Y-ug.Gap)
		dims := cellFunc(gtx, idx)
		dims.Size = ogtx.Constraints.Constrain(dims.Size)
		return dims
	}
	return ug.Grid.Layout(gtx, rows, cols, dimmer, wrapper)
}
