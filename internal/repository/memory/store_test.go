package memory

import (
	"context"
	"testing"

	"fitpro/tracker/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	st := NewStore()

	in := []string{"a", "b"}
	require.NoError(t, st.Save(ctx, "k", in))
	in[0] = "changed"

	var out []string
	found, err := st.Load(ctx, "k", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, out)

	found, err = st.Load(ctx, "missing", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_CorruptValue(t *testing.T) {
	st := NewStore()
	st.data["k"] = []byte("{not json")

	var out map[string]int
	found, err := st.Load(context.Background(), "k", &out)
	assert.True(t, found)
	assert.ErrorIs(t, err, repository.ErrCorrupt)
}
