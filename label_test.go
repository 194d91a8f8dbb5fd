package jandas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelEquality(t *testing.T) {
	assert.Equal(t, IntLabel(1), IntLabel(1))
	assert.NotEqual(t, IntLabel(1), StringLabel("1"))
	assert.Equal(t, StringLabel("Edad"), StringLabel("Edad"))

	set := map[Label]int{IntLabel(1): 1, StringLabel("1"): 2}
	assert.Len(t, set, 2)
}

func TestNewLabel(t *testing.T) {
	l, err := NewLabel(5)
	require.NoError(t, err)
	assert.True(t, l.IsInt())
	n, ok := l.Int()
	assert.True(t, ok)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, int64(5), l.Value())

	l, err = NewLabel("Ciudad")
	require.NoError(t, err)
	assert.False(t, l.IsInt())
	assert.Equal(t, "Ciudad", l.Value())
	assert.Equal(t, `"Ciudad"`, l.Quoted())

	_, err = NewLabel(1.5)
	require.ErrorIs(t, err, ErrTypeIncompatible)

	_, err = NewLabel(nil)
	require.ErrorIs(t, err, ErrNullArgument)
}

func TestDefaultLabels(t *testing.T) {
	assert.Equal(t, []Label{IntLabel(0), IntLabel(1), IntLabel(2)}, DefaultLabels(3))
	assert.Empty(t, DefaultLabels(0))
}

func TestNextIntLabel(t *testing.T) {
	assert.Equal(t, IntLabel(0), nextIntLabel(nil))
	assert.Equal(t, IntLabel(3), nextIntLabel(DefaultLabels(3)))
	assert.Equal(t, IntLabel(11), nextIntLabel([]Label{IntLabel(10), StringLabel("x")}))
	assert.Equal(t, IntLabel(2), nextIntLabel(StringLabels("a", "b")))
}
