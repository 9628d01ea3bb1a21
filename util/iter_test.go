package util

import (
	"slices"
	"strconv"
	"testing"

	"github.com/benbjohnson/immutable"
	"github.com/stretchr/testify/assert"
)

func TestListValues(t *testing.T) {
	l := immutable.NewList(1, 2, 3)
	assert.Equal(t, []int{1, 2, 3}, slices.Collect(ListValues(l)))
	assert.Empty(t, slices.Collect(ListValues(immutable.NewList[int]())))
}

func TestMapAndFilter(t *testing.T) {
	l := immutable.NewList(1, 2, 3, 4)
	even := FilterIter(ListValues(l), func(i int) bool { return i%2 == 0 })
	assert.Equal(t, []string{"2", "4"}, slices.Collect(MapIter(even, strconv.Itoa)))
}

func TestIterStopsEarly(t *testing.T) {
	l := immutable.NewList(1, 2, 3)
	var seen []int
	for v := range MapIter(ListValues(l), func(i int) int { return i * 10 }) {
		seen = append(seen, v)
		if v == 20 {
			break
		}
	}
	assert.Equal(t, []int{10, 20}, seen)
}
