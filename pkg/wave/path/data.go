package path

// pathData accumulates relative commands for an open sub-path.
type pathData struct {
	curX, curY     int32
	startX, startY int32
	fullyStroked   bool
	cmds           []Command
}

func newPathData(x, y int32) pathData {
	return pathData{curX: x, curY: y, startX: x, startY: y, fullyStroked: true}
}

func sign(v int32) int32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// horizontal extends a trailing horizontal line of the same direction or
// appends a new one.
func (p *pathData) horizontal(dx int32) {
	p.curX += dx
	if n := len(p.cmds); n > 0 {
		last := &p.cmds[n-1]
		if last.Kind == Horizontal && sign(last.DX) == sign(dx) {
			last.DX += dx
			return
		}
	}
	p.cmds = append(p.cmds, H(dx))
}

func (p *pathData) dashed(dx int32) {
	p.curX += dx
	if n := len(p.cmds); n > 0 {
		last := &p.cmds[n-1]
		if last.Kind == DashedHorizontal && sign(last.DX) == sign(dx) {
			last.DX += dx
			return
		}
	}
	p.cmds = append(p.cmds, DashedH(dx))
}

func (p *pathData) vertical(dy int32) {
	p.curY += dy
	p.cmds = append(p.cmds, V(dy))
}

func (p *pathData) verticalNoStroke(dy int32) {
	p.curY += dy
	p.fullyStroked = false
	p.cmds = append(p.cmds, VNoStroke(dy))
}

func (p *pathData) line(dx, dy int32) {
	p.curX += dx
	p.curY += dy
	p.cmds = append(p.cmds, L(dx, dy))
}

func (p *pathData) curve(cx1, cy1, cx2, cy2, dx, dy int32) {
	p.curX += dx
	p.curY += dy
	p.cmds = append(p.cmds, C(cx1, cy1, cx2, cy2, dx, dy))
}

// restartMoveTo shifts the run start by (dx, dy) and drops pending
// commands.
func (p *pathData) restartMoveTo(dx, dy int32) {
	p.curX += dx
	p.curY += dy
	p.startX += dx
	p.startY += dy
	p.cmds = p.cmds[:0]
}

// takeAndRestartAt drains the commands and starts a new run at (x, y).
func (p *pathData) takeAndRestartAt(x, y int32) []Command {
	cmds := p.cmds
	p.cmds = nil
	p.curX, p.curY = x, y
	p.startX, p.startY = x, y
	p.fullyStroked = true
	return cmds
}
