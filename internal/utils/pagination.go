package utils

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage    = 1
	DefaultLimit   = 10
	MaxFeedLimit   = 100
	MaxSearchLimit = 50
)

type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// ParsePageQuery reads page/limit query values. Missing, non-numeric or
// non-positive values fall back to the defaults; it never fails.
func ParsePageQuery(rawPage, rawLimit string) Page {
	return NormalizePage(atoiOr(rawPage, DefaultPage), atoiOr(rawLimit, DefaultLimit), MaxFeedLimit)
}

// NormalizePage applies defaults to non-positive values and caps limit at max.
// Page is clamped so Offset never overflows int; a clamped page is past any
// real result set and reads back empty.
func NormalizePage(page, limit, max int) Page {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if max > 0 && limit > max {
		limit = max
	}
	if page > math.MaxInt/limit {
		page = math.MaxInt / limit
	}
	return Page{Page: page, Limit: limit}
}

// TotalPages returns ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func atoiOr(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return n
}
