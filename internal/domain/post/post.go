package post

import (
	"strings"
	"time"
)

type Type string

const (
	TypeText  Type = "text"
	TypeImage Type = "image"
	TypeMixed Type = "mixed"
)

func (t Type) Valid() bool {
	switch t {
	case TypeText, TypeImage, TypeMixed:
		return true
	}
	return false
}

type Post struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Content   *string   `json:"content"`
	Caption   *string   `json:"caption"`
	ImageURL  *string   `json:"image_url"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter selects posts. Non-empty fields are combined with AND; each field
// matches any of its values.
type Filter struct {
	OwnerIDs   []string
	OwnerNames []string
}

type SortField string

const (
	SortDate      SortField = "date"
	SortCreatedAt SortField = "created_at"
	SortUpdatedAt SortField = "updated_at"
	SortType      SortField = "type"
	SortUserName  SortField = "user_name"
)

// ParseSortField maps a client supplied field name onto a sortable column,
// falling back to the event date.
func ParseSortField(raw string) SortField {
	switch f := SortField(strings.ToLower(strings.TrimSpace(raw))); f {
	case SortDate, SortCreatedAt, SortUpdatedAt, SortType, SortUserName:
		return f
	}
	return SortDate
}

type Sort struct {
	Field SortField
	Desc  bool
}

// ParseSort builds a Sort from query values. Only "asc" selects ascending
// order.
func ParseSort(field, order string) Sort {
	return Sort{
		Field: ParseSortField(field),
		Desc:  !strings.EqualFold(strings.TrimSpace(order), "asc"),
	}
}

func (s Sort) Order() string {
	if s.Desc {
		return "desc"
	}
	return "asc"
}

type CreatePostRequest struct {
	Type     Type    `json:"type"`
	Content  *string `json:"content"`
	Caption  *string `json:"caption"`
	ImageURL *string `json:"image_url"`
	Date     string  `json:"date"`
}

type SearchRequest struct {
	Names []string `json:"names" binding:"max=100,dive,max=200"`
	Page  int      `json:"page"`
	Limit int      `json:"limit"`
}
