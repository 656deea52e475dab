package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequestDefaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/products", nil)
	p := FromRequest(req)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequestExplicit(t *testing.T) {
	req := httptest.NewRequest("GET", "/products?page=3&per_page=10", nil)
	p := FromRequest(req)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PerPage)
	assert.Equal(t, 20, p.Offset)
}

func TestFromRequestIgnoresInvalid(t *testing.T) {
	req := httptest.NewRequest("GET", "/products?page=-1&per_page=5000", nil)
	p := FromRequest(req)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
}

func TestNewResult(t *testing.T) {
	data := []string{"a", "b", "c"}
	res := NewResult(data, 45, Params{Page: 2, PerPage: 20})

	assert.Equal(t, 45, res.TotalCount)
	assert.Equal(t, 3, res.TotalPages)
	assert.True(t, res.HasNext)
	assert.True(t, res.HasPrev)
}

func TestNewResultLastPage(t *testing.T) {
	res := NewResult([]int{1}, 41, Params{Page: 3, PerPage: 20})

	assert.Equal(t, 3, res.TotalPages)
	assert.False(t, res.HasNext)
	assert.True(t, res.HasPrev)
}
