// Package httpquery reads paging, sorting and filter values from query strings.
package httpquery

import (
	"strconv"
	"strings"

	"github.com/fekuna/penstore/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Options reads limit, page, sort and depth. Missing or malformed values stay
// zero so the use case applies its defaults.
func Options(c *gin.Context) model.QueryOptions {
	return model.QueryOptions{
		Limit: Int(c, "limit"),
		Page:  Int(c, "page"),
		Sort:  strings.TrimSpace(c.Query("sort")),
		Depth: Int(c, "depth"),
	}
}

func Int(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}

// Bool returns nil when the parameter is absent or not a boolean.
func Bool(c *gin.Context, key string) *bool {
	v, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

// Decimal returns nil when the parameter is absent or not a number.
func Decimal(c *gin.Context, key string) *decimal.Decimal {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil
	}
	return &d
}
