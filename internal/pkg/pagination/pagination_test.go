package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paramsFor(t *testing.T, query string) *Params {
	t.Helper()
	var got *Params
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = GetParams(c)
		return nil
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/?"+query, nil))
	require.NoError(t, err)
	resp.Body.Close()
	require.NotNil(t, got)
	return got
}

func TestGetParamsDefaults(t *testing.T) {
	p := paramsFor(t, "")
	assert.Equal(t, 0, p.Page)
	assert.Equal(t, DefaultSize, p.Size)
	assert.Equal(t, "createdAt", p.Sort)
	assert.Equal(t, "desc", p.Direction)
}

func TestGetParamsClamping(t *testing.T) {
	p := paramsFor(t, "page=-3&size=0")
	assert.Equal(t, 0, p.Page)
	assert.Equal(t, DefaultSize, p.Size)

	p = paramsFor(t, "size=500")
	assert.Equal(t, MaxSize, p.Size)
}

// Unknown sort fields fall back to createdAt so clients cannot order by
// arbitrary columns.
func TestGetParamsSortWhitelist(t *testing.T) {
	p := paramsFor(t, "sort=amount&direction=asc")
	assert.Equal(t, "amount", p.Sort)
	assert.Equal(t, "amount ASC", p.OrderBy())

	p = paramsFor(t, "sort=password;drop&direction=up")
	assert.Equal(t, "createdAt", p.Sort)
	assert.Equal(t, "created_at DESC", p.OrderBy())
}

func TestOffset(t *testing.T) {
	p := &Params{Page: 3, Size: 20}
	assert.Equal(t, 60, p.Offset())
}

func TestNewPage(t *testing.T) {
	params := &Params{Page: 0, Size: 10}
	page := NewPage([]string{"a", "b"}, params, 25)
	assert.Equal(t, int64(25), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 0, page.Page)
	assert.Equal(t, 10, page.Size)

	page = NewPage([]string{}, params, 0)
	assert.Equal(t, 0, page.TotalPages)

	page = NewPage([]string{}, params, 30)
	assert.Equal(t, 3, page.TotalPages)
}
