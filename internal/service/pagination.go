package service

import "math"

// PageRequest selects one page of a list. Page is 1-based.
type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) offset() int {
	if p.Page < 1 || p.Size < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Size
}
