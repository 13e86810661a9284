package shoppinglist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateMergesByNameAndUnit(t *testing.T) {
	lines := []Line{
		{Name: "eggs", MeasurementUnit: "pcs", Amount: 2},
		{Name: "flour", MeasurementUnit: "g", Amount: 100},
		{Name: "eggs", MeasurementUnit: "pcs", Amount: 3},
	}

	items := Aggregate(lines)

	assert.Equal(t, []Item{
		{Name: "eggs", MeasurementUnit: "pcs", Total: 5},
		{Name: "flour", MeasurementUnit: "g", Total: 100},
	}, items)
}

func TestAggregateKeepsUnitsApart(t *testing.T) {
	lines := []Line{
		{Name: "sugar", MeasurementUnit: "g", Amount: 50},
		{Name: "sugar", MeasurementUnit: "tbsp", Amount: 2},
		{Name: "sugar", MeasurementUnit: "g", Amount: 25},
	}

	items := Aggregate(lines)

	assert.Len(t, items, 2)
	assert.Equal(t, Item{Name: "sugar", MeasurementUnit: "g", Total: 75}, items[0])
	assert.Equal(t, Item{Name: "sugar", MeasurementUnit: "tbsp", Total: 2}, items[1])
}

func TestAggregatePreservesFirstSeenOrder(t *testing.T) {
	lines := []Line{
		{Name: "zucchini", MeasurementUnit: "pcs", Amount: 1},
		{Name: "apple", MeasurementUnit: "pcs", Amount: 1},
		{Name: "milk", MeasurementUnit: "ml", Amount: 200},
		{Name: "apple", MeasurementUnit: "pcs", Amount: 4},
	}

	items := Aggregate(lines)

	names := make([]string, 0, len(items))
	for _, i := range items {
		names = append(names, i.Name)
	}
	assert.Equal(t, []string{"zucchini", "apple", "milk"}, names)
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}

func TestItemString(t *testing.T) {
	assert.Equal(t, "* eggs(pcs) - 5", Item{Name: "eggs", MeasurementUnit: "pcs", Total: 5}.String())
}
