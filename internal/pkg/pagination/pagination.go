package pagination

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// DefaultSize is the default number of items per page
const DefaultSize = 10

// MaxSize is the maximum number of items per page
const MaxSize = 100

// sortColumns whitelists the client-facing sort fields and maps them to
// store columns. Anything else falls back to createdAt.
var sortColumns = map[string]string{
	"id":        "id",
	"amount":    "amount",
	"term":      "term",
	"status":    "status",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// Params represents pagination query parameters. Page is zero-based.
type Params struct {
	Page      int
	Size      int
	Sort      string
	Direction string
}

// GetParams extracts pagination parameters from the request query
func GetParams(c *fiber.Ctx) *Params {
	page, _ := strconv.Atoi(c.Query("page", "0"))
	size, _ := strconv.Atoi(c.Query("size", strconv.Itoa(DefaultSize)))

	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}

	sort := c.Query("sort", "createdAt")
	if _, ok := sortColumns[sort]; !ok {
		sort = "createdAt"
	}

	direction := strings.ToLower(c.Query("direction", "desc"))
	if direction != "asc" {
		direction = "desc"
	}

	return &Params{
		Page:      page,
		Size:      size,
		Sort:      sort,
		Direction: direction,
	}
}

// Offset returns the store offset for the page
func (p *Params) Offset() int {
	return p.Page * p.Size
}

// OrderBy returns the whitelisted ORDER BY expression
func (p *Params) OrderBy() string {
	column := sortColumns[p.Sort]
	if p.Direction == "asc" {
		return column + " ASC"
	}
	return column + " DESC"
}

// Page represents a paginated response
type Page struct {
	Content       interface{} `json:"content"`
	Page          int         `json:"page"`
	Size          int         `json:"size"`
	TotalElements int64       `json:"totalElements"`
	TotalPages    int         `json:"totalPages"`
}

// NewPage builds a paginated response envelope
func NewPage(content interface{}, params *Params, total int64) *Page {
	totalPages := int(total) / params.Size
	if int(total)%params.Size > 0 {
		totalPages++
	}

	return &Page{
		Content:       content,
		Page:          params.Page,
		Size:          params.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}
