package rtstate

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep(t *testing.T) {
	tests := []struct {
		s     State
		d     Direction
		count int
		want  State
	}{
		{0, Next, 3, 1},
		{2, Next, 3, 0},
		{0, Previous, 3, 2},
		{1, Previous, 3, 0},
		{0, Next, 1, 0},
		{1, Direction(7), 3, 1},
		{1, Next, 0, 1},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, Step(test.s, test.d, test.count), "Step(%d, %v, %d)", test.s, test.d, test.count)
	}
}

// Any sequence of directions lands on the initial State plus the signed sum, modulo count.
func TestStepSum(t *testing.T) {
	const count = 5
	dirs := []Direction{Next, Next, Previous, Next, Previous, Previous, Previous, Next, Next, Next, Next}
	s := State(2)
	sum := 2
	for _, d := range dirs {
		s = Step(s, d, count)
		if d == Next {
			sum++
		} else {
			sum--
		}
		assert.Equal(t, State(((sum%count)+count)%count), s)
	}
}

func TestNewTableRejects(t *testing.T) {
	_, err := NewTable()
	assert.ErrorIs(t, err, ErrEmptyTable)

	_, err = NewTable(Entry{Optional: []Optional{{Task: "x"}}})
	assert.Error(t, err, "optional without toggle")

	_, err = NewTable(Entry{
		Resume:   []TaskID{"x"},
		Optional: []Optional{{Task: "x", Toggle: NewSlot[bool]()}},
	})
	assert.Error(t, err, "task both resumed and optional")
}

func TestTableSets(t *testing.T) {
	table, err := NewTable(
		Entry{Name: "zero", Resume: []TaskID{"a", "b"}},
		Entry{Name: "one", Resume: []TaskID{"c", "d"}, Optional: []Optional{{Task: "e", Toggle: NewSlot[bool]()}}},
		Entry{Name: "two", Resume: []TaskID{"a", "c"}},
	)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Count())
	assert.Equal(t, []TaskID{"a", "b", "c", "d", "e"}, table.Managed())
	assert.Equal(t, []TaskID{"c", "d", "e"}, table.SuspendSet(0))
	assert.Equal(t, []TaskID{"a", "b"}, table.SuspendSet(1))
	assert.Equal(t, []TaskID{"b", "d", "e"}, table.SuspendSet(2))

	_, ok := table.Optional(1, "e")
	assert.True(t, ok)
	_, ok = table.Optional(0, "e")
	assert.False(t, ok)
}

func TestTableVerify(t *testing.T) {
	table, err := NewTable(Entry{Resume: []TaskID{"a", "b"}})
	require.NoError(t, err)
	r := NewRegistry(zerolog.Nop())
	_, err = r.Spawn("a", idle)
	require.NoError(t, err)
	assert.ErrorIs(t, table.Verify(r), ErrUnknownTask)

	_, err = r.Spawn("b", idle)
	require.NoError(t, err)
	assert.NoError(t, table.Verify(r))
}
