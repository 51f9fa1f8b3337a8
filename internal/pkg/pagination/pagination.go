package pagination

import "github.com/gofiber/fiber/v2"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is the page window requested by a listing endpoint
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Meta describes where a page sits in the full result set
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Response wraps one page of rows with its Meta
type Response struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta"`
}

// GetParams reads ?page and ?limit. Missing or non-numeric values fall back
// to page 1 and DefaultLimit; limit is capped at MaxLimit.
func GetParams(c *fiber.Ctx) *Params {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	return &Params{Page: page, Limit: ClampLimit(c.QueryInt("limit", DefaultLimit))}
}

// ClampLimit maps a non-positive limit to DefaultLimit and caps it at MaxLimit
func ClampLimit(limit int) int {
	switch {
	case limit < 1:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// Offset is the number of rows to skip for this page
func (p *Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * ClampLimit(p.Limit)
}

// GetMeta computes page counts for total rows
func GetMeta(params *Params, total int64) *Meta {
	limit := ClampLimit(params.Limit)
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &Meta{
		Page:       params.Page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}

func NewResponse(data interface{}, params *Params, total int64) *Response {
	return &Response{Data: data, Meta: GetMeta(params, total)}
}
