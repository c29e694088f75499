package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/types"
)

const maxPageSize = 100

type pageParams struct {
	Page  int
	Limit int
}

func (p pageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// parsePage reads ?page and ?limit. An invalid page number writes a 404.
func parsePage(c *gin.Context, defaultLimit int) (pageParams, bool) {
	p := pageParams{Page: 1, Limit: defaultLimit}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			c.JSON(http.StatusNotFound, gin.H{"detail": "invalid page"})
			return p, false
		}
		p.Page = page
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			p.Limit = limit
		}
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
	// page*limit must fit an int so offsets never wrap negative
	if p.Page > math.MaxInt/p.Limit {
		c.JSON(http.StatusNotFound, gin.H{"detail": "invalid page"})
		return p, false
	}
	return p, true
}

// writePage responds with the paginated envelope. A page past the end is a 404.
func writePage[T any](c *gin.Context, p pageParams, count int64, results []T) {
	if p.Page > 1 && int64(p.Offset()) >= count {
		c.JSON(http.StatusNotFound, gin.H{"detail": "invalid page"})
		return
	}
	if results == nil {
		results = []T{}
	}

	page := types.Page[T]{Count: count, Results: results}
	if int64(p.Page*p.Limit) < count {
		next := pageURL(c, p.Page+1)
		page.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(c, p.Page-1)
		page.Previous = &prev
	}
	c.JSON(http.StatusOK, page)
}

func pageURL(c *gin.Context, page int) string {
	u := *c.Request.URL
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	u.Scheme = requestScheme(c)
	u.Host = c.Request.Host
	return u.String()
}

func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

// positiveQuery parses a positive integer query value, or returns 0
func positiveQuery(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// pathID parses a numeric path parameter; anything else is a 404. Ids are
// bounded to 63 bits to fit a BIGINT column.
func pathID(c *gin.Context, key string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(key), 10, 63)
	if err != nil || id == 0 {
		notFound(c)
		return 0, false
	}
	return uint(id), true
}
