package state

import "github.com/atomicstack/winadmin/internal/command"

// Item is one selectable action in a section's action panel.
type Item struct {
	ID      string
	Label   string
	Command command.Command
	Quick   bool
}

// ItemsFor builds the action list for a section: its own commands followed
// by the quick actions.
func ItemsFor(cmds, quick []command.Command) []Item {
	items := make([]Item, 0, len(cmds)+len(quick))
	for _, c := range cmds {
		items = append(items, Item{ID: c.Name(), Label: c.Label(), Command: c})
	}
	for _, c := range quick {
		items = append(items, Item{ID: c.Name(), Label: c.Label(), Command: c, Quick: true})
	}
	return items
}

// CloneItems produces a shallow copy of the provided items.
func CloneItems(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}
