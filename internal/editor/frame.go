package editor

import "time"

// frameInterval paces coalesced pointer-move application at roughly
// display refresh rate. Pointer events can arrive faster than this;
// intermediate moves between two ticks are dropped in favour of the
// most recent one.
const frameInterval = time.Second / 60

// startFrameLoop begins the per-drag tick loop. It is started on drag
// entry and stopped only through finishDrag, so a loop can never
// outlive its drag. Caller holds e.mu.
func (e *Editor) startFrameLoop() {
	if e.frameStop != nil {
		return
	}
	stop := make(chan struct{})
	e.frameStop = stop

	go func() {
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				e.Tick()
			case <-stop:
				return
			}
		}
	}()
}

// stopFrameLoop stops the tick loop if one is running. Caller holds
// e.mu.
func (e *Editor) stopFrameLoop() {
	if e.frameStop != nil {
		close(e.frameStop)
		e.frameStop = nil
	}
}
