package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Offset(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"first page starts at zero", Filter{Page: 1, PageSize: 20}, 0},
		{"third page skips two pages", Filter{Page: 3, PageSize: 20}, 40},
		{"zero page is clamped", Filter{Page: 0, PageSize: 20}, 0},
		{"zero page size is clamped", Filter{Page: 5, PageSize: 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Offset())
		})
	}
}

func TestNewPaginated(t *testing.T) {
	items := []string{"Atlas SARL", "Brume SAS"}

	t.Run("rounds total pages up", func(t *testing.T) {
		page := NewPaginated(items, 41, 1, 20)
		assert.Equal(t, int64(41), page.Total)
		assert.Equal(t, 3, page.TotalPages)
	})

	t.Run("exact multiple", func(t *testing.T) {
		page := NewPaginated(items, 40, 2, 20)
		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("empty listing", func(t *testing.T) {
		page := NewPaginated([]string{}, 0, 1, 20)
		assert.Equal(t, 0, page.TotalPages)
		assert.Empty(t, page.Items)
	})

	t.Run("zero page size yields no pages", func(t *testing.T) {
		page := NewPaginated(items, 2, 1, 0)
		assert.Equal(t, 0, page.TotalPages)
	})
}
