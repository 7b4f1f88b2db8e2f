package utils

import (
	"strconv"
	"strings"
)

// FeedVersionKey is the counter bumped whenever ownerID publishes a post.
func FeedVersionKey(ownerID string) string {
	return "feed:ver:" + ownerID
}

type OwnerVersion struct {
	ID      string
	Version int64
}

// BuildFeedCacheKey derives a page key from every owner's current version, so
// a new post by any owner moves readers onto a fresh key.
func BuildFeedCacheKey(owners []OwnerVersion, sortField, order string, page Page) string {
	parts := make([]string, 0, len(owners))
	for _, o := range owners {
		parts = append(parts, o.ID+"@"+strconv.FormatInt(o.Version, 10))
	}

	return "feed:list:v1:owners=" + strings.Join(parts, ",") +
		":sort=" + sortField +
		":order=" + order +
		":page=" + strconv.Itoa(page.Page) +
		":limit=" + strconv.Itoa(page.Limit)
}
