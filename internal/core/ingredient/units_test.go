package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertWithinClass(t *testing.T) {
	c := NewConverter()

	cases := []struct {
		qty      float64
		from, to string
		want     float64
	}{
		{2, "cuillère à soupe", "ml", 30},
		{3, "cuillère à café", "ml", 15},
		{1, "kg", "g", 1000},
		{500, "g", "kg", 0.5},
		{2, "l", "ml", 2000},
		{20, "cl", "ml", 200},
		{1, "tasse", "ml", 250},
		{2, "verre", "l", 0.4},
		{4, "pièce", "unité", 4},
		{250, "mg", "g", 0.25},
	}

	for _, tc := range cases {
		got, ok := c.Convert(tc.qty, tc.from, tc.to)
		assert.True(t, ok, "%v %s -> %s 應可換算", tc.qty, tc.from, tc.to)
		assert.InDelta(t, tc.want, got, 1e-9)
	}
}

func TestConvertIdentity(t *testing.T) {
	c := NewConverter()

	got, ok := c.Convert(7, "g", "g")
	assert.True(t, ok)
	assert.Equal(t, 7.0, got)

	// 未知單位同名時仍是恆等換算
	got, ok = c.Convert(2, "sachet", "sachet")
	assert.True(t, ok)
	assert.Equal(t, 2.0, got)
}

func TestConvertIncompatibleClasses(t *testing.T) {
	c := NewConverter()

	_, ok := c.Convert(5, "g", "unité")
	assert.False(t, ok)

	_, ok = c.Convert(1, "ml", "g")
	assert.False(t, ok)

	// 未知單位永不與其他單位換算
	_, ok = c.Convert(1, "sachet", "g")
	assert.False(t, ok)
	_, ok = c.Convert(1, "g", "sachet")
	assert.False(t, ok)
}

func TestConvertPluralAndAbbreviatedUnits(t *testing.T) {
	c := NewConverter()

	got, ok := c.Convert(2, "cuillères à soupe", "ml")
	assert.True(t, ok)
	assert.Equal(t, 30.0, got)

	got, ok = c.Convert(1, "c. à café", "ml")
	assert.True(t, ok)
	assert.Equal(t, 5.0, got)

	got, ok = c.Convert(3, "Gousses", "unité")
	assert.True(t, ok)
	assert.Equal(t, 3.0, got)
}

func TestToBase(t *testing.T) {
	c := NewConverter()

	qty, unit := c.ToBase(2, "kg")
	assert.Equal(t, 2000.0, qty)
	assert.Equal(t, "g", unit)

	qty, unit = c.ToBase(3, "cuillères à soupe")
	assert.Equal(t, 45.0, qty)
	assert.Equal(t, "ml", unit)

	qty, unit = c.ToBase(2, "tranche")
	assert.Equal(t, 2.0, qty)
	assert.Equal(t, "unité", unit)

	// 未知單位原樣帶回
	qty, unit = c.ToBase(1, "Sachet")
	assert.Equal(t, 1.0, qty)
	assert.Equal(t, "sachet", unit)
}

func TestBestDisplayUnit(t *testing.T) {
	c := NewConverter()

	qty, unit := c.BestDisplayUnit(1500, "g")
	assert.Equal(t, 1.5, qty)
	assert.Equal(t, "kg", unit)

	qty, unit = c.BestDisplayUnit(999, "g")
	assert.Equal(t, 999.0, qty)
	assert.Equal(t, "g", unit)

	qty, unit = c.BestDisplayUnit(2000, "ml")
	assert.Equal(t, 2.0, qty)
	assert.Equal(t, "l", unit)

	qty, unit = c.BestDisplayUnit(1200, "mg")
	assert.Equal(t, 1.2, qty)
	assert.Equal(t, "g", unit)

	// 計數單位不升級
	qty, unit = c.BestDisplayUnit(3000, "unité")
	assert.Equal(t, 3000.0, qty)
	assert.Equal(t, "unité", unit)
}

func TestClass(t *testing.T) {
	c := NewConverter()

	assert.Equal(t, ClassMass, c.Class("KG"))
	assert.Equal(t, ClassVolume, c.Class("cuillère à soupe"))
	assert.Equal(t, ClassCount, c.Class("gousses"))
	assert.Equal(t, ClassUnknown, c.Class("sachet"))
}
