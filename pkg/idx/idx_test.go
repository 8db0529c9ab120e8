package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("generates unique sortable ids", func(t *testing.T) {
		a := New()
		b := New()
		require.False(t, a.IsZero())
		require.NotEqual(t, a, b)
		require.Less(t, a.String(), b.String(), "monotonic source keeps ids ordered")
	})

	t.Run("embeds the timestamp", func(t *testing.T) {
		at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		id := NewAt(at)
		require.Equal(t, at.Truncate(time.Millisecond), id.Time())
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("round-trips a generated id", func(t *testing.T) {
		id := New()
		parsed, err := Parse(id.String())
		require.NoError(t, err)
		require.Equal(t, id, parsed)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, s := range []string{"", "  ", "not-a-ulid", "0"} {
			_, err := Parse(s)
			require.ErrorIs(t, err, ErrInvalid, s)
		}
	})
}
