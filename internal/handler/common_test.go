package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func testCtx(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestGetUserID(t *testing.T) {
	c := testCtx(t, "/")
	c.Set("user_id", uint64(42))
	id, err := getUserID(c)
	require.NoError(t, err)
	require.Equal(t, uint64(42), id)

	c = testCtx(t, "/")
	_, err = getUserID(c)
	require.Error(t, err)
}

func TestPathID(t *testing.T) {
	c := testCtx(t, "/")
	c.SetParamNames("id")
	c.SetParamValues("17")
	id, err := pathID(c, "id")
	require.NoError(t, err)
	require.Equal(t, uint64(17), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		c := testCtx(t, "/")
		c.SetParamNames("id")
		c.SetParamValues(bad)
		_, err := pathID(c, "id")
		require.Error(t, err, "value %q should be rejected", bad)
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "/?", 20, 0},
		{"explicit", "/?limit=5&offset=10", 5, 10},
		{"capped_at_max", "/?limit=500", 100, 0},
		{"negative_ignored", "/?limit=-3&offset=-7", 20, 0},
		{"garbage_ignored", "/?limit=abc&offset=xyz", 20, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			limit, offset := pagination(testCtx(t, tc.target), 20, 100)
			require.Equal(t, tc.wantLimit, limit)
			require.Equal(t, tc.wantOffset, offset)
		})
	}
}

func TestHealth(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, Health(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}
