package ulid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Monotonic(t *testing.T) {
	a := New()
	b := New()

	assert.Len(t, a, 26)
	assert.True(t, IsValid(a))
	assert.Less(t, a, b)
	assert.False(t, IsValid("not-a-ulid"))
}

func TestGenerator_FixedClock(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(func() time.Time { return at })

	a, b := g.New(), g.New()
	assert.Less(t, a, b)

	got, err := Time(a)
	require.NoError(t, err)
	assert.True(t, at.Equal(got))

	_, err = Time("bogus")
	assert.Error(t, err)
}
