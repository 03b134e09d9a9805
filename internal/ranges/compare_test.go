package ranges

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func num(lower, upper any, bounds string) Interval {
	return Interval{
		Kind:           KindNumeric,
		Lower:          lower,
		Upper:          upper,
		LowerInclusive: bounds[0] == '[',
		UpperInclusive: bounds[1] == ']',
	}
}

func TestCompareValues(t *testing.T) {
	c, ok := CompareValues(int64(3), 2.5)
	assert.True(t, ok)
	assert.Equal(t, 1, c)

	early := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c, ok = CompareValues(early, early.Add(time.Hour))
	assert.True(t, ok)
	assert.Equal(t, -1, c)

	_, ok = CompareValues("a", int64(1))
	assert.False(t, ok)
}

func TestInterval_ContainsInterval(t *testing.T) {
	outer := num(int64(10), int64(100), "[]")

	assert.True(t, outer.ContainsInterval(Point(KindNumeric, int64(10))))
	assert.True(t, outer.ContainsInterval(Point(KindNumeric, int64(100))))
	assert.False(t, outer.ContainsInterval(Point(KindNumeric, int64(101))))

	halfOpen := num(int64(10), int64(100), "[)")
	assert.False(t, halfOpen.ContainsInterval(Point(KindNumeric, int64(100))))

	unbounded := num(nil, int64(5), "[]")
	assert.True(t, unbounded.ContainsInterval(Point(KindNumeric, int64(-1000))))
}

func TestInterval_Ordering(t *testing.T) {
	a := num(int64(1), int64(5), "[)")
	b := num(int64(5), int64(9), "[]")

	assert.True(t, a.StrictlyLeftOf(b))
	assert.False(t, a.Overlaps(b))
	assert.True(t, b.NotExtendsLeftOf(a))
	assert.True(t, a.NotExtendsRightOf(b))

	closed := num(int64(1), int64(5), "[]")
	assert.True(t, closed.Overlaps(b))
}
