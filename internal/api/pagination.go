package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// pageRequest reads page and limit from the query string. A page that is not
// a positive integer yields ok=false after a 404 has been written.
func pageRequest(c *gin.Context, p config.Pagination) (service.PageRequest, bool) {
	req := service.PageRequest{Page: 1, Size: p.PageSize}

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Invalid page."})
			return req, false
		}
		req.Page = n
	}
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			req.Size = n
		}
	}
	if req.Size > p.MaxPageSize {
		req.Size = p.MaxPageSize
	}
	// The offset of the page must fit in an int
	if req.Page-1 > math.MaxInt/req.Size {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Invalid page."})
		return req, false
	}
	return req, true
}

// pageCount is the number of pages holding total items
func pageCount(req service.PageRequest, total int64) int64 {
	size := int64(req.Size)
	return (total + size - 1) / size
}

// pageOutOfRange writes a 404 for a page past the last one. The first page is
// always valid, even when empty.
func pageOutOfRange(c *gin.Context, req service.PageRequest, total int64) bool {
	if req.Page == 1 || int64(req.Page) <= pageCount(req, total) {
		return false
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "Invalid page."})
	return true
}

// newPage builds a paginated body with absolute next and previous links
func newPage[T any](c *gin.Context, baseURL string, req service.PageRequest, total int64, results []T) types.Page[T] {
	if results == nil {
		results = []T{}
	}
	page := types.Page[T]{Count: total, Results: results}

	if int64(req.Page) < pageCount(req, total) {
		next := pageURL(c, baseURL, req.Page+1)
		page.Next = &next
	}
	if req.Page > 1 {
		prev := pageURL(c, baseURL, req.Page-1)
		page.Previous = &prev
	}
	return page
}

func pageURL(c *gin.Context, baseURL string, n int) string {
	q := c.Request.URL.Query()
	if n == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(n))
	}

	u := baseURL + c.Request.URL.Path
	if encoded := q.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// requestBaseURL returns the scheme and host clients used to reach the API,
// unless a public base URL is configured.
func requestBaseURL(c *gin.Context, configured string) string {
	if configured != "" {
		return configured
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
