package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoardPushPop(t *testing.T) {
	t.Run("tokens stack from the bottom", func(t *testing.T) {
		b := NewBoard(7, 6)

		for i := 0; i < 6; i++ {
			row, ok := b.Push(i%2, 3)
			require.True(t, ok, "Push should succeed while the column has room")
			require.Equal(t, i, row, "Token should land on the lowest empty row")
		}

		require.True(t, b.IsColumnFull(3), "Column should be full")
		require.False(t, b.CanPush(3), "Full column should not accept tokens")
		_, ok := b.Push(0, 3)
		require.False(t, ok, "Push on a full column should fail")
		require.Equal(t, 6, b.ColumnHeight(3))
	})

	t.Run("push then pop restores the board", func(t *testing.T) {
		b := NewBoard(5, 4)
		empty := b.Copy()
		columns := []int{0, 4, 4, 2, 1, 2, 2, 3}

		for i, c := range columns {
			_, ok := b.Push(i%3, c)
			require.True(t, ok)
		}
		require.False(t, b.Equal(empty), "Board should differ after pushes")

		for i := len(columns) - 1; i >= 0; i-- {
			token, ok := b.Pop(columns[i])
			require.True(t, ok)
			require.Equal(t, i%3, token, "Pop should return the last token pushed in that column")
		}
		require.True(t, b.Equal(empty), "Board should be empty again")
		require.True(t, b.IsEmpty())
	})

	t.Run("pop on an empty column fails", func(t *testing.T) {
		b := NewBoard(4, 4)

		token, ok := b.Pop(1)

		require.False(t, ok)
		require.Equal(t, Empty, token)
	})

	t.Run("out of range columns are rejected", func(t *testing.T) {
		b := NewBoard(4, 4)

		require.False(t, b.CanPush(-1))
		require.False(t, b.CanPush(4))
		_, ok := b.Push(0, 4)
		require.False(t, ok)
		_, ok = b.Pop(-1)
		require.False(t, ok)
	})
}

func TestBoardQueries(t *testing.T) {
	t.Run("out of range slots read as empty", func(t *testing.T) {
		b := NewBoard(4, 4)
		b.Push(1, 0)

		require.Equal(t, 1, b.Get(0, 0))
		require.True(t, b.Has(0, 0))
		require.Equal(t, Empty, b.Get(0, 1))
		require.Equal(t, Empty, b.Get(-1, 0))
		require.Equal(t, Empty, b.Get(0, 4))
		require.False(t, b.Has(9, 9))
	})

	t.Run("fill metadata", func(t *testing.T) {
		b := NewBoard(4, 4)
		require.True(t, b.IsEmpty())
		require.False(t, b.IsFull())

		for c := 0; c < 4; c++ {
			for r := 0; r < 4; r++ {
				b.Push(0, c)
			}
		}

		require.True(t, b.IsFull())
		require.False(t, b.IsEmpty())
		require.False(t, b.IsColumnEmpty(2))

		b.Clear()
		require.True(t, b.IsEmpty())
		require.True(t, b.IsColumnEmpty(2))
	})

	t.Run("copies are independent", func(t *testing.T) {
		b := NewBoard(4, 4)
		b.Push(0, 1)

		c := b.Copy()
		c.Push(1, 1)

		require.Equal(t, 1, b.ColumnHeight(1))
		require.Equal(t, 2, c.ColumnHeight(1))
		require.False(t, b.Equal(c))
	})

	t.Run("string renders the top row first", func(t *testing.T) {
		b := NewBoard(4, 4)
		b.Push(0, 0)
		b.Push(1, 0)
		b.Push(1, 3)

		require.Equal(t, ". . . .\n. . . .\n1 . . .\n0 . . 1\n", b.String())
	})

	t.Run("non-positive dimensions panic", func(t *testing.T) {
		require.Panics(t, func() { NewBoard(0, 4) })
	})
}
