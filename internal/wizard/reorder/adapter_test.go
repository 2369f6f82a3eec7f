package reorder

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-wizard/internal/wizard/fieldarray"
)

func newList(t *testing.T, vals ...string) (*fieldarray.Controller[string], []uuid.UUID) {
	t.Helper()
	c := fieldarray.New[string](nil)
	ids := make([]uuid.UUID, 0, len(vals))
	for _, v := range vals {
		ids = append(ids, c.Append(v).ID)
	}
	return c, ids
}

func TestCompleteDrag_MovesByIdentity(t *testing.T) {
	list, ids := newList(t, "A", "B", "C")
	a := NewAdapter(list)

	moved := a.CompleteDrag(ids[0], ids[2])

	require.True(t, moved)
	assert.Equal(t, []string{"B", "C", "A"}, list.Values())
}

func TestDragEnd_ResolvesIndicesAtDropTime(t *testing.T) {
	list, ids := newList(t, "A", "B", "C")
	a := NewAdapter(list)

	// List mutated externally mid-drag: a new record prepended shifts all
	// positions. The gesture still targets the right records.
	list.Move(2, 0) // C, A, B

	cmd, ok := a.DragEnd(ids[0], ids[1])
	require.True(t, ok)
	assert.Equal(t, Command{Type: CommandMove, From: 1, To: 2}, cmd)

	a.Dispatch(cmd)
	assert.Equal(t, []string{"C", "B", "A"}, list.Values())
}

func TestDragEnd_NoDropTargetCancels(t *testing.T) {
	list, ids := newList(t, "A", "B")
	a := NewAdapter(list)

	_, ok := a.DragEnd(ids[0], uuid.Nil)
	assert.False(t, ok)
	assert.Equal(t, []string{"A", "B"}, list.Values())
}

func TestDragEnd_DropOnSelfCancels(t *testing.T) {
	list, ids := newList(t, "A", "B")
	a := NewAdapter(list)

	_, ok := a.DragEnd(ids[1], ids[1])
	assert.False(t, ok)
}

func TestDragEnd_RemovedIdentityCancels(t *testing.T) {
	list, ids := newList(t, "A", "B", "C")
	a := NewAdapter(list)

	list.Remove(0)

	_, ok := a.DragEnd(ids[0], ids[2])
	assert.False(t, ok)
	assert.Equal(t, []string{"B", "C"}, list.Values())
}

func TestDispatch_IgnoresUnknownCommandType(t *testing.T) {
	list, _ := newList(t, "A", "B")
	a := NewAdapter(list)

	a.Dispatch(Command{Type: "shuffle", From: 0, To: 1})
	assert.Equal(t, []string{"A", "B"}, list.Values())
}
