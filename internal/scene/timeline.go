package scene

// Cursor is the position of the global clock within a scene list
type Cursor struct {
	Index        int     // active scene
	StartMs      float64 // global time at which the active scene starts
	SinceStartMs float64 // elapsed time inside the active scene
	Progress     float64 // SinceStartMs / scene duration, in [0,1]
}

// Locate walks the cumulative scene boundaries to find the scene containing
// elapsedMs. A boundary instant belongs to the scene that starts there.
// Past the end, the last scene is reported at progress 1. ok is false for an
// empty list.
func Locate(scenes []Scene, elapsedMs float64) (c Cursor, ok bool) {
	if len(scenes) == 0 {
		return Cursor{}, false
	}
	if elapsedMs < 0 {
		elapsedMs = 0
	}

	start := 0.0
	for i, s := range scenes {
		dur := s.DurationMs()
		if elapsedMs < start+dur {
			since := elapsedMs - start
			return Cursor{Index: i, StartMs: start, SinceStartMs: since, Progress: since / dur}, true
		}
		if i == len(scenes)-1 {
			return Cursor{Index: i, StartMs: start, SinceStartMs: dur, Progress: 1}, true
		}
		start += dur
	}
	return Cursor{}, false
}
