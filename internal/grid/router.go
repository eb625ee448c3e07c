package grid

import "github.com/cmlabs-hris/grafik-backend-go/internal/pkg/keycombo"

// Event is one input delivered to the controller's router.
type Event interface {
	isEvent()
}

// PressEvent is a primary-button press on a cell.
type PressEvent struct {
	Key  Key
	Mods Modifiers
}

// MoveEvent reports the cell under the pointer while a button is held.
type MoveEvent struct {
	Key Key
}

type ReleaseEvent struct{}

// OutsideClickEvent is a click that landed on neither the grid nor the menu.
type OutsideClickEvent struct{}

// TickEvent marks the end of the current input batch.
type TickEvent struct{}

type KeyEvent struct {
	Combo keycombo.Combo
}

// ChooseEvent picks an entry of the open menu.
type ChooseEvent struct {
	Item Item
}

type OpenMenuEvent struct{}

type AutoPlanEvent struct{}

func (PressEvent) isEvent()        {}
func (MoveEvent) isEvent()         {}
func (ReleaseEvent) isEvent()      {}
func (OutsideClickEvent) isEvent() {}
func (TickEvent) isEvent()         {}
func (KeyEvent) isEvent()          {}
func (ChooseEvent) isEvent()       {}
func (OpenMenuEvent) isEvent()     {}
func (AutoPlanEvent) isEvent()     {}

// Mount starts routing events to the controller.
func (c *Controller) Mount() {
	c.mounted = true
}

// Unmount stops routing, drops any drag in progress and closes the menu.
// Outcomes may still be applied afterwards.
func (c *Controller) Unmount() {
	c.mounted = false
	c.state = StateIdle
	c.suppress = false
	c.closeMenu()
}

func (c *Controller) Mounted() bool {
	return c.mounted
}

// Handle routes one event. Events arriving while unmounted are ignored.
func (c *Controller) Handle(ev Event) Effect {
	if !c.mounted {
		return Effect{}
	}
	switch e := ev.(type) {
	case PressEvent:
		c.press(e.Key, e.Mods)
	case MoveEvent:
		c.move(e.Key)
	case ReleaseEvent:
		c.release()
	case OutsideClickEvent:
		c.outsideClick()
	case TickEvent:
		c.suppress = false
	case KeyEvent:
		return c.key(e.Combo)
	case ChooseEvent:
		return c.choose(e.Item)
	case OpenMenuEvent:
		c.openMenuAtCursor()
	case AutoPlanEvent:
		return c.autoPlan()
	}
	return Effect{}
}
