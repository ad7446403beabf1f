package engine

// State is the lifecycle stage of one generation run
type State int

const (
	Idle State = iota
	Running
	Finalizing
	Done
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Finalizing:
		return "finalizing"
	case Done:
		return "done"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible
func (s State) Terminal() bool {
	return s == Done || s == Cancelled
}

// Clock counts presented frames. Elapsed time is derived from the frame
// number on every read so rounding never accumulates.
type Clock struct {
	FPS   int
	Frame int64
}

// ElapsedMs is the global time of the current frame
func (c Clock) ElapsedMs() float64 {
	return float64(c.Frame) * 1000 / float64(c.FPS)
}

// FrameMs is the duration of one frame
func (c Clock) FrameMs() float64 {
	return 1000 / float64(c.FPS)
}
