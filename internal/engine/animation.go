package engine

// advanceAnimation moves one object's animation clock forward by delta
// seconds. It runs before rule evaluation, so same-tick animation
// conditions observe post-advance values.
//
// Frame layout: a playing animation shows frame floor(clock*fps) modulo
// frameCount. Looping animations wrap and count completed loops;
// non-looping animations pin on their final frame and stop.
func advanceAnimation(o *objectState, delta float64, tick int64) {
	o.PrevFrame = o.Frame
	o.PrevLoops = o.LoopCount

	anim := o.animation()
	if anim == nil || !o.Playing {
		return
	}

	o.AnimClock += delta * o.Speed
	framesElapsed := int(o.AnimClock * anim.FPS)
	if framesElapsed < 0 {
		framesElapsed = 0
	}

	if o.Loop {
		o.Frame = framesElapsed % anim.FrameCount
		o.LoopCount = framesElapsed / anim.FrameCount
		return
	}

	last := anim.FrameCount - 1
	if framesElapsed >= last {
		o.Frame = last
		// Fire the end edge once per playback, the first tick the final
		// frame is reached.
		if o.endedTick < o.startedTick {
			o.endedTick = tick
		}
		// One full pass completed once the clock passes the final frame's
		// duration; playback then stops pinned on the last frame.
		if framesElapsed >= anim.FrameCount {
			o.Playing = false
			o.LoopCount = 1
		}
		return
	}
	o.Frame = framesElapsed
}
