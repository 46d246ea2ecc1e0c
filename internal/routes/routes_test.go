package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stoplens.dev/internal/models"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		raw    string
		number string
		name   string
	}{
		{"504-King", "504", "King"},
		{"35 Jane", "35", "Jane"},
		{"167 Pharmacy North", "167", "Pharmacy North"},
		{"52-Lawrence West-A", "52", "Lawrence West-A"},
		{"9 Bayview-Express", "9", "Bayview-Express"},
		{"300", "300", ""},
		{"  506-Carlton ", "506", "Carlton"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			ref := ParseRef(tt.raw)
			assert.Equal(t, tt.raw, ref.Raw)
			assert.Equal(t, tt.number, ref.Number)
			assert.Equal(t, tt.name, ref.Name)
			assert.Equal(t, tt.number, ExtractNumber(tt.raw))
			assert.Equal(t, tt.name, Name(tt.raw))
		})
	}
}

func TestColorClass(t *testing.T) {
	tests := []struct {
		number   string
		expected models.ColorClass
	}{
		{"300", models.ColorExpress},
		{"385", models.ColorExpress},
		{"900", models.ColorNight},
		{"925", models.ColorNight},
		{"402", models.ColorLimited},
		{"504", models.ColorStandard},
		{"3", models.ColorStandard},
		{"39", models.ColorStandard},
		{"3000", models.ColorStandard},
		{"9A", models.ColorStandard},
		{"", models.ColorStandard},
		{"3xx", models.ColorStandard},
	}

	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			assert.Equal(t, tt.expected, ColorClass(tt.number))
		})
	}
}

func TestSort(t *testing.T) {
	in := []string{"9 Bayview", "167 Pharmacy North", "35 Jane"}

	assert.Equal(t, []string{"9 Bayview", "35 Jane", "167 Pharmacy North"}, Sort(in))
	assert.Equal(t, []string{"9 Bayview", "167 Pharmacy North", "35 Jane"}, in, "input is not modified")
}

func TestSortPlacesRoutesWithoutDigitsLast(t *testing.T) {
	got := Sort([]string{"Shuttle", "504-King", "Blue Night", "25-Don Mills"})
	assert.Equal(t, []string{"25-Don Mills", "504-King", "Shuttle", "Blue Night"}, got)
}

func TestSortRefs(t *testing.T) {
	refs := []models.RouteRef{ParseRef("504-King"), ParseRef("35 Jane"), ParseRef("300-Bloor-Danforth")}
	SortRefs(refs)

	assert.Equal(t, "35", refs[0].Number)
	assert.Equal(t, "300", refs[1].Number)
	assert.Equal(t, models.ColorExpress, refs[1].Color)
	assert.Equal(t, "504", refs[2].Number)
}

func TestNumericKey(t *testing.T) {
	n, ok := NumericKey("52-Lawrence West-A")
	assert.True(t, ok)
	assert.Equal(t, 52, n)

	_, ok = NumericKey("Shuttle")
	assert.False(t, ok)
}
