package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_SquareCells(t *testing.T) {
	got := Calculate(Params{
		ContainerWidth:   101,
		ContainerHeight:  40,
		Columns:          4,
		Gap:              2,
		ItemCount:        10,
		ScrollbarReserve: 1,
	})

	// (101 - 1 - 2*3) / 4 = 23
	assert.Equal(t, 23, got.ItemWidth)
	assert.Equal(t, 23, got.ItemHeight)
	assert.Equal(t, 23, got.ImageHeight)
	assert.Equal(t, 3, got.RowCount)
	assert.Equal(t, 25, got.ColumnWidth)
	assert.Equal(t, 25, got.RowHeight)
	assert.Equal(t, 1, got.ScrollbarReserve)
	assert.True(t, got.Measured())
}

func TestCalculate_DateStripShrinksImage(t *testing.T) {
	got := Calculate(Params{
		ContainerWidth: 40,
		Columns:        2,
		Gap:            0,
		ItemCount:      3,
		ShowDates:      true,
		DateStrip:      3,
	})

	assert.Equal(t, 20, got.ItemWidth)
	assert.Equal(t, 20, got.ItemHeight)
	assert.Equal(t, 17, got.ImageHeight)
	assert.Equal(t, 2, got.RowCount)
}

func TestCalculate_AspectScalesHeight(t *testing.T) {
	got := Calculate(Params{ContainerWidth: 40, Columns: 2, Gap: 1, Aspect: 0.5})

	assert.Equal(t, 19, got.ItemWidth)
	assert.Equal(t, 9, got.ItemHeight)
	assert.Equal(t, 10, got.RowHeight)
}

func TestCalculate_DegenerateInputs(t *testing.T) {
	cases := []struct {
		name string
		p    Params
	}{
		{"zero width", Params{ContainerWidth: 0, Columns: 3}},
		{"negative width", Params{ContainerWidth: -5, Columns: 3}},
		{"zero columns", Params{ContainerWidth: 100, Columns: 0}},
		{"negative columns", Params{ContainerWidth: 100, Columns: -1}},
		{"gaps eat everything", Params{ContainerWidth: 10, Columns: 5, Gap: 3}},
		{"reserve eats everything", Params{ContainerWidth: 2, Columns: 1, ScrollbarReserve: 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Calculate(tc.p)
			assert.Equal(t, Result{}, got)
			assert.False(t, got.Measured())
		})
	}
}

func TestCalculate_NeverOverflows(t *testing.T) {
	for width := 0; width <= 120; width++ {
		for columns := 1; columns <= 12; columns++ {
			for gap := 0; gap <= 4; gap++ {
				got := Calculate(Params{ContainerWidth: width, Columns: columns, Gap: gap, ItemCount: 50})
				require.GreaterOrEqual(t, got.ItemWidth, 0)
				require.LessOrEqualf(t, columns*got.ColumnWidth, width+gap,
					"width=%d columns=%d gap=%d result=%+v", width, columns, gap, got)
			}
		}
	}
}

func TestRowCount(t *testing.T) {
	assert.Equal(t, 0, RowCount(0, 4))
	assert.Equal(t, 0, RowCount(10, 0))
	assert.Equal(t, 1, RowCount(4, 4))
	assert.Equal(t, 2, RowCount(5, 4))
	assert.Equal(t, 25, RowCount(100, 4))
}
