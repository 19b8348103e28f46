package idx_test

import (
	"sort"
	"testing"
	"time"

	"github.com/openferp/directory/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	id := idx.New()
	require.False(t, id.IsZero())

	parsed, err := idx.Parse(" " + id.String() + " ")
	require.NoError(t, err)
	require.Equal(t, id, parsed)
	require.True(t, idx.Valid(id.String()))
}

func TestParseRejects(t *testing.T) {
	for _, s := range []string{"", "   ", "not-a-ulid", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3Z"} {
		_, err := idx.Parse(s)
		require.ErrorIs(t, err, idx.ErrInvalid, s)
		require.False(t, idx.Valid(s))
	}
}

func TestMonotonicWithinMillisecond(t *testing.T) {
	at := time.Unix(1_700_000_000, 0).UTC()

	ids := make([]string, 50)
	for i := range ids {
		ids[i] = idx.NewAt(at).String()
	}
	require.True(t, sort.StringsAreSorted(ids), "ids minted at the same instant keep creation order")
}

func TestTimeExtraction(t *testing.T) {
	tm := time.Unix(1_700_000_000, 0).UTC()
	require.WithinDuration(t, tm, idx.NewAt(tm).Time(), time.Millisecond)
	require.True(t, idx.ID("garbage").Time().IsZero())
}

func TestMustParse(t *testing.T) {
	require.NotPanics(t, func() { idx.MustParse("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV") })
	require.Panics(t, func() { idx.MustParse("nope") })
}
