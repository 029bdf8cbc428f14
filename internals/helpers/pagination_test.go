package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveFor(t *testing.T, target string) Paging {
	t.Helper()

	app := fiber.New()
	var got Paging
	app.Get("/t", func(c *fiber.Ctx) error {
		got = ResolvePaging(c, 20, 100)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return got
}

func TestResolvePaging(t *testing.T) {
	cases := []struct {
		name   string
		target string
		want   Paging
	}{
		{"defaults", "/t", Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20}},
		{"explicit", "/t?page=3&per_page=50", Paging{Page: 3, PerPage: 50, Offset: 100, Limit: 50}},
		{"page_size alias", "/t?page=2&page_size=10", Paging{Page: 2, PerPage: 10, Offset: 10, Limit: 10}},
		{"capped at max", "/t?per_page=500", Paging{Page: 1, PerPage: 100, Offset: 0, Limit: 100}},
		{"garbage falls back", "/t?page=x&per_page=-5", Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, resolveFor(t, tc.target))
		})
	}
}

func TestBuildPaginationFromPage(t *testing.T) {
	p := BuildPaginationFromPage(95, 2, 20)
	assert.Equal(t, 5, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	empty := BuildPaginationFromPage(0, 1, 20)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}
