package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequestOffset(t *testing.T) {
	tests := []struct {
		name string
		req  PageRequest
		want int
	}{
		{"first page", PageRequest{Page: 1, Size: 6}, 0},
		{"third page", PageRequest{Page: 3, Size: 6}, 12},
		{"zero page", PageRequest{Page: 0, Size: 6}, 0},
		{"zero size", PageRequest{Page: 4, Size: 0}, 0},
		{"largest page", PageRequest{Page: math.MaxInt, Size: 6}, math.MaxInt},
		{"wraps to negative", PageRequest{Page: math.MaxInt/2 + 2, Size: 2}, math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.req.offset()
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
		})
	}
}
