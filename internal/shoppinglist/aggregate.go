// Package shoppinglist merges basket ingredient lines into totals and renders
// them as a PDF.
package shoppinglist

import (
	"fmt"
)

// Line is one ingredient line of one basket recipe
type Line struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

// Item is the total quantity of one (name, unit) pair
type Item struct {
	Name            string
	MeasurementUnit string
	Total           int
}

func (i Item) String() string {
	return fmt.Sprintf("* %s(%s) - %d", i.Name, i.MeasurementUnit, i.Total)
}

type itemKey struct {
	name string
	unit string
}

// Aggregate sums amounts per (name, unit). Items keep the order in which their
// key was first seen.
func Aggregate(lines []Line) []Item {
	index := make(map[itemKey]int, len(lines))
	items := make([]Item, 0, len(lines))

	for _, l := range lines {
		k := itemKey{l.Name, l.MeasurementUnit}
		if i, ok := index[k]; ok {
			items[i].Total += l.Amount
			continue
		}
		index[k] = len(items)
		items = append(items, Item{Name: l.Name, MeasurementUnit: l.MeasurementUnit, Total: l.Amount})
	}

	return items
}
