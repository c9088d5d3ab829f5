package layout

// Region is an axis-aligned rectangle of the figure in pixels, with the
// origin at the top-left corner.
type Region struct {
	X      uint32 `json:"x"`
	Y      uint32 `json:"y"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Region) Right() uint32 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Region) Bottom() uint32 { return r.Y + r.Height }

// CenterX returns the horizontal center point of the region.
func (r Region) CenterX() uint32 { return r.X + r.Width/2 }

// CenterY returns the vertical center point of the region.
func (r Region) CenterY() uint32 { return r.Y + r.Height/2 }

// IsEmpty reports whether the region has no area.
func (r Region) IsEmpty() bool { return r.Width == 0 || r.Height == 0 }
