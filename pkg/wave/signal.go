package wave

// Signal is one row of a timing diagram.
type Signal struct {
	// Name is drawn in the text column left of the schema. Empty names
	// draw nothing.
	Name string

	// Cycles holds one state per cycle.
	Cycles []CycleState

	// Data holds box labels, assigned to boxed segments left to right.
	Data []string

	// Nodes holds one node character per cycle position; '.' is no node.
	Nodes string

	// Period is the number of drawn cycles per clock state. Zero is
	// treated as 1.
	Period uint16

	// Phase shifts the whole signal right along the time axis.
	Phase CycleOffset
}

// NewSignal returns a signal parsed from the compact cycle notation.
func NewSignal(cycles string) Signal {
	return Signal{Cycles: ParseCycles(cycles), Period: 1}
}

// Repeated returns a signal holding n copies of state.
func Repeated(state CycleState, n int) Signal {
	cycles := make([]CycleState, n)
	for i := range cycles {
		cycles[i] = state
	}
	return Signal{Cycles: cycles, Period: 1}
}

func (s Signal) WithName(name string) Signal {
	s.Name = name
	return s
}

func (s Signal) WithData(data ...string) Signal {
	s.Data = data
	return s
}

func (s Signal) WithNodes(nodes string) Signal {
	s.Nodes = nodes
	return s
}

func (s Signal) WithPeriod(period uint16) Signal {
	s.Period = period
	return s
}

func (s Signal) WithPhase(phase CycleOffset) Signal {
	s.Phase = phase
	return s
}

// PeriodOrDefault returns the period clamped to at least 1.
func (s Signal) PeriodOrDefault() uint16 {
	if s.Period == 0 {
		return 1
	}
	return s.Period
}

// Section is a node of the figure tree: a *[Signal] leaf or a *[Group].
type Section interface {
	section()
}

func (*Signal) section() {}

// Group brackets a contiguous run of sections. A nil Label draws an
// unlabeled bracket.
type Group struct {
	Label    *string
	Sections []Section
}

func (*Group) section() {}

// NewGroup returns a labeled group. An empty label yields an unlabeled group.
func NewGroup(label string, sections ...Section) *Group {
	g := &Group{Sections: sections}
	if label != "" {
		g.Label = &label
	}
	return g
}

// CycleMarker enumerates cycles in a header or footer ruler, starting at
// Start and labeling every Every-th cycle. Every == 0 draws nothing.
type CycleMarker struct {
	Start uint32
	Every uint32
}

// Figure is a complete timing diagram description.
type Figure struct {
	Header string
	Footer string

	TopMarker    *CycleMarker
	BottomMarker *CycleMarker

	// HScale multiplies the cycle width. Zero is treated as 1.
	HScale uint16

	Sections []Section

	// Edges holds raw edge declarations such as "a~>b label".
	Edges []string
}

// HScaleOrDefault returns the horizontal scale clamped to at least 1.
func (f *Figure) HScaleOrDefault() uint16 {
	if f.HScale == 0 {
		return 1
	}
	return f.HScale
}

// Signals returns every signal leaf of the figure in document order.
func (f *Figure) Signals() []*Signal {
	var out []*Signal
	stack := make([][]Section, 0, 4)
	stack = append(stack, f.Sections)
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if len(top) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		stack[len(stack)-1] = top[1:]
		switch s := top[0].(type) {
		case *Signal:
			if s != nil {
				out = append(out, s)
			}
		case *Group:
			if s != nil {
				stack = append(stack, s.Sections)
			}
		}
	}
	return out
}
