package collections_test

import (
	"fmt"
	"testing"

	"github.com/alkime/breathe/pkg/collections"

	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	t.Run("basic types", func(t *testing.T) {
		ints := []int{1, 2, 3, 4}
		squared := collections.Apply(ints, func(i int) int {
			return i * i
		})

		require.ElementsMatch(t, []int{1, 4, 9, 16}, squared)
	})

	t.Run("conversion", func(t *testing.T) {
		labels := collections.Apply([]float64{4, 5.5}, func(v float64) string {
			return fmt.Sprint(v)
		})

		require.Equal(t, []string{"4", "5.5"}, labels)
	})
}

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"box": 1, "478": 2, "coherent": 3}
	require.Equal(t, []string{"478", "box", "coherent"}, collections.SortedKeys(m))
	require.Empty(t, collections.SortedKeys(map[string]int{}))
}
