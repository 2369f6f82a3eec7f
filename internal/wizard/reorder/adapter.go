// Package reorder translates drag-and-drop gestures into explicit move
// commands for a field-array. Gestures carry record identities, not positions;
// identities are resolved to indices at drop time so a list mutated mid-drag
// still reorders correctly.
package reorder

import "github.com/google/uuid"

// CommandType discriminates reorder commands.
type CommandType string

// CommandMove relocates one record.
const CommandMove CommandType = "move"

// Command is the reducer-friendly form of a completed gesture.
type Command struct {
	Type CommandType
	From int
	To   int
}

// List is the slice of a field-array controller the adapter needs.
type List interface {
	IndexOf(id uuid.UUID) int
	Move(from, to int)
}

// Adapter binds drag gestures to one list.
type Adapter struct {
	list List
}

// NewAdapter creates an adapter for list.
func NewAdapter(list List) *Adapter {
	return &Adapter{list: list}
}

// DragEnd resolves a completed gesture into a move command. The gesture is
// cancelled (ok=false) when there is no drop target, the target equals the
// source, or either identity is no longer in the list.
func (a *Adapter) DragEnd(active, over uuid.UUID) (Command, bool) {
	if over == uuid.Nil || active == over {
		return Command{}, false
	}
	from := a.list.IndexOf(active)
	to := a.list.IndexOf(over)
	if from < 0 || to < 0 {
		return Command{}, false
	}
	return Command{Type: CommandMove, From: from, To: to}, true
}

// Dispatch applies a command to the list through the same move path as every
// other field-array mutation.
func (a *Adapter) Dispatch(cmd Command) {
	if cmd.Type != CommandMove {
		return
	}
	a.list.Move(cmd.From, cmd.To)
}

// CompleteDrag is the common gesture path: resolve, then dispatch. It reports
// whether a move was performed.
func (a *Adapter) CompleteDrag(active, over uuid.UUID) bool {
	cmd, ok := a.DragEnd(active, over)
	if !ok {
		return false
	}
	a.Dispatch(cmd)
	return true
}
