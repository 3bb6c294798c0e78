package pagination

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_AllPagesFit(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, Generate(1, 6))
	assert.Equal(t, []int{1}, Generate(1, 1))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, Generate(4, 7))
}

func TestGenerate_NearStart(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, Ellipsis, 9, 10}, Generate(2, 10))
	assert.Equal(t, []int{1, 2, 3, Ellipsis, 9, 10}, Generate(1, 10))
	assert.Equal(t, []int{1, 2, 3, Ellipsis, 9, 10}, Generate(3, 10))
}

func TestGenerate_NearEnd(t *testing.T) {
	assert.Equal(t, []int{1, 2, Ellipsis, 8, 9, 10}, Generate(8, 10))
	assert.Equal(t, []int{1, 2, Ellipsis, 8, 9, 10}, Generate(10, 10))
}

func TestGenerate_Middle(t *testing.T) {
	assert.Equal(t, []int{1, Ellipsis, 4, 5, 6, Ellipsis, 10}, Generate(5, 10))
	assert.Equal(t, []int{1, Ellipsis, 3, 4, 5, Ellipsis, 100}, Generate(4, 100))
}

func TestGenerate_NoEllipsisForSmallTotals(t *testing.T) {
	for total := 1; total <= 7; total++ {
		for current := 1; current <= total; current++ {
			seq := Generate(current, total)
			assert.Len(t, seq, total)
			assert.NotContains(t, seq, Ellipsis)
		}
	}
}

func TestGenerate_PagesStrictlyIncreasing(t *testing.T) {
	for total := 1; total <= 40; total++ {
		for current := 1; current <= total; current++ {
			t.Run(fmt.Sprintf("current=%d,total=%d", current, total), func(t *testing.T) {
				seq := Generate(current, total)
				last := 0
				for _, p := range seq {
					if p == Ellipsis {
						continue
					}
					assert.Greater(t, p, last, "page numbers must be strictly increasing without duplicates")
					last = p
				}
			})
		}
	}
}

func TestGenerate_CurrentPageAlwaysShown(t *testing.T) {
	for total := 1; total <= 40; total++ {
		for current := 1; current <= total; current++ {
			assert.Contains(t, Generate(current, total), current)
		}
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3", "...", "9", "10"}, Labels(2, 10))
	assert.Equal(t, []string{"1", "2", "3"}, Labels(1, 3))
}
