package player

// Key names a keyboard key by its physical code
type Key string

const (
	KeySpace      Key = "Space"
	KeyArrowRight Key = "ArrowRight"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
	KeyM          Key = "KeyM"
)

// HandleKey applies a keyboard shortcut. It reports whether the key's
// default action (page scrolling) must be suppressed.
func (c *Controller) HandleKey(key Key) bool {
	switch key {
	case KeySpace:
		c.TogglePlayPause()
		return true
	case KeyArrowRight:
		c.NextTrack()
	case KeyArrowLeft:
		c.PreviousTrack()
	case KeyArrowUp:
		c.StepVolume(volumeStep)
		return true
	case KeyArrowDown:
		c.StepVolume(-volumeStep)
		return true
	case KeyM:
		c.ToggleMute()
	}
	return false
}

// PointerDown starts a drag session on target and applies the pointer
// position. Any previous session is replaced.
func (c *Controller) PointerDown(target DragTarget, x float64, bar Bounds) {
	c.state.Drag = target
	c.dragBar = bar
	c.applyDrag(x)
}

// PointerMove re-applies the active drag session at x
func (c *Controller) PointerMove(x float64) {
	c.applyDrag(x)
}

// PointerUp ends the drag session
func (c *Controller) PointerUp() {
	c.state.Drag = DragNone
	c.dragBar = Bounds{}
}

func (c *Controller) applyDrag(x float64) {
	switch c.state.Drag {
	case DragProgress:
		c.SeekTo(x, c.dragBar)
	case DragVolume:
		c.SetVolumeAt(x, c.dragBar)
	}
}
