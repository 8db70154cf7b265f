package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func parseQuery(t *testing.T, query string) Params {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return Parse(c)
}

func TestParseDefaults(t *testing.T) {
	p := parseQuery(t, "")
	require.Equal(t, DefaultPage, p.Page)
	require.Equal(t, DefaultLimit, p.Limit)
	require.Equal(t, 0, p.Offset)
}

func TestParseComputesOffset(t *testing.T) {
	p := parseQuery(t, "page=3&limit=25")
	require.Equal(t, 3, p.Page)
	require.Equal(t, 25, p.Limit)
	require.Equal(t, 50, p.Offset)
}

func TestParseClampsOutOfRangeValues(t *testing.T) {
	p := parseQuery(t, "page=0&limit=0")
	require.Equal(t, DefaultPage, p.Page)
	require.Equal(t, DefaultLimit, p.Limit)

	p = parseQuery(t, "page=-2&limit=500")
	require.Equal(t, DefaultPage, p.Page)
	require.Equal(t, MaxLimit, p.Limit)
}

func TestParseIgnoresGarbage(t *testing.T) {
	p := parseQuery(t, "page=abc&limit=xyz")
	require.Equal(t, DefaultPage, p.Page)
	require.Equal(t, DefaultLimit, p.Limit)
}
