package shoppinglist

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
)

func items(n int) []Item {
	out := make([]Item, n)
	for i := range out {
		out[i] = Item{Name: fmt.Sprintf("ingredient %d", i), MeasurementUnit: "g", Total: i + 1}
	}
	return out
}

func TestPlanSinglePage(t *testing.T) {
	r := NewRenderer(config.DefaultSettings().ShoppingList)

	pages := r.plan("Shopping list for alice", items(3))

	require.Len(t, pages, 1)
	require.NotNil(t, pages[0].title)
	assert.Equal(t, "Shopping list for alice", pages[0].title.text)
	assert.Equal(t, float64(800), pages[0].title.y)
	require.Len(t, pages[0].rows, 3)
	assert.Equal(t, float64(770), pages[0].rows[0].y)
	assert.Equal(t, float64(750), pages[0].rows[1].y)
	assert.Equal(t, "* ingredient 2(g) - 3", pages[0].rows[2].text)
}

func TestPlanBreaksAtBottomMargin(t *testing.T) {
	layout := config.DefaultSettings().ShoppingList
	r := NewRenderer(layout)

	pages := r.plan("title", items(100))

	// 770 down to 70 fits 36 rows, continuation pages run from 800 down to 70
	require.Len(t, pages, 3)
	assert.Len(t, pages[0].rows, 36)
	assert.Len(t, pages[1].rows, 37)
	assert.Len(t, pages[2].rows, 27)

	for i, p := range pages[1:] {
		assert.Nil(t, p.title, "page %d", i+2)
		assert.Equal(t, layout.TitleY, p.rows[0].y, "page %d", i+2)
	}
	for _, p := range pages {
		for _, row := range p.rows {
			assert.Greater(t, row.y, layout.BottomMargin)
		}
	}
}

func TestPlanExactFitDoesNotAddEmptyPage(t *testing.T) {
	r := NewRenderer(config.DefaultSettings().ShoppingList)

	pages := r.plan("title", items(36))

	require.Len(t, pages, 1)
	assert.Len(t, pages[0].rows, 36)
}

func TestPlanEmptyList(t *testing.T) {
	r := NewRenderer(config.DefaultSettings().ShoppingList)

	pages := r.plan("title", nil)

	require.Len(t, pages, 1)
	assert.NotNil(t, pages[0].title)
	assert.Empty(t, pages[0].rows)
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer(config.DefaultSettings().ShoppingList)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "alice", items(50)))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
