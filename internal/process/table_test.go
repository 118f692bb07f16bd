package process

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_InsertAndGet(t *testing.T) {
	tbl := NewTable()
	p := NewProcess("p1", 3, time.Now())
	require.NoError(t, tbl.Insert(p))

	got, err := tbl.Get("p1")
	require.NoError(t, err)
	assert.Same(t, p, got)
}

func TestTable_DuplicateNameRejected(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Insert(NewProcess("p1", 3, time.Now())))
	err := tbl.Insert(NewProcess("p1", 5, time.Now()))
	require.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, 1, tbl.Len())
}

func TestTable_IterInOrderIsStable(t *testing.T) {
	tbl := NewTable()
	names := []string{"p3", "p1", "p2"}
	for _, n := range names {
		require.NoError(t, tbl.Insert(NewProcess(n, 1, time.Now())))
	}
	got := tbl.IterInOrder()
	require.Len(t, got, 3)
	for i, p := range got {
		assert.Equal(t, names[i], p.Name)
	}
}

func TestTable_ClearResetsState(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Insert(NewProcess("p1", 1, time.Now())))
	tbl.Clear()
	assert.Equal(t, 0, tbl.Len())
	assert.Empty(t, tbl.IterInOrder())

	// After Clear, a name reused before clearing can be inserted again.
	require.NoError(t, tbl.Insert(NewProcess("p1", 1, time.Now())))
}

func TestTable_GetMissing(t *testing.T) {
	tbl := NewTable()
	_, err := tbl.Get("nope")
	require.ErrorIs(t, err, ErrNotFound)
}
