package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clonedPayload struct {
	items []string
	calls *int
}

func (c clonedPayload) Clone() any {
	*c.calls++
	return clonedPayload{items: append([]string(nil), c.items...), calls: c.calls}
}

func TestToken_Null(t *testing.T) {
	assert.True(t, NewToken(nil).IsNull())
	assert.True(t, (*Token)(nil).IsNull())
	assert.False(t, NewToken(0).IsNull(), "falsy payload is not null")
	assert.False(t, NewToken("").IsNull())
	assert.Equal(t, "Token: <null>", NewToken(nil).String())
}

func TestToken_CloneIsDeep(t *testing.T) {
	orig := NewToken(map[string][]int{"a": {1, 2}})
	clone := orig.Clone()

	clone.Payload().(map[string][]int)["a"][0] = 99

	assert.Equal(t, 1, orig.Payload().(map[string][]int)["a"][0])
	assert.False(t, orig.Equal(clone))
}

func TestToken_CloneUsesCloner(t *testing.T) {
	calls := 0
	orig := NewToken(clonedPayload{items: []string{"x"}, calls: &calls})

	clone := orig.Clone()

	require.Equal(t, 1, calls)
	assert.True(t, orig.Equal(clone))
}

func TestStorageName(t *testing.T) {
	for _, valid := range []string{"counter", "a.b", "ns:key-1", "X_Y"} {
		n, err := NewStorageName(valid)
		require.NoError(t, err, valid)
		assert.Equal(t, valid, n.String())
		assert.True(t, n.IsValid())
	}

	for _, invalid := range []string{"", "with space", "a/b", "ü"} {
		_, err := NewStorageName(invalid)
		assert.ErrorIs(t, err, ErrInvalidStorageName, invalid)
	}

	assert.False(t, StorageName{}.IsValid())
	assert.Panics(t, func() { MustStorageName("bad name") })
}
