package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/autostrada/auction-api/internal/config"
)

func TestEncodeDecodePayload(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	body := []byte(`{"auctions":[]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	require.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsTruncated(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{1, 2, 3})
	require.False(t, ok)

	payload, err := encodePayload(http.StatusOK, http.Header{}, []byte("x"))
	require.NoError(t, err)
	_, _, _, ok = decodePayload(payload[:6])
	require.False(t, ok)
}

func newCtx(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/auctions")
	return c
}

func TestCacheKeyStable(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, newCtx(t, "/v1/auctions?status=ACTIVE"))
	b := cacheKeyFrom(cfg, newCtx(t, "/v1/auctions?status=ACTIVE"))
	c := cacheKeyFrom(cfg, newCtx(t, "/v1/auctions?status=SOLD"))

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Contains(t, a, "cache:")
}

func TestCaptureWriterDetectsOversizeBody(t *testing.T) {
	cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK, limit: 8}

	_, err := cw.Write([]byte("12345678"))
	require.NoError(t, err)
	_, err = cw.Write([]byte("overflow"))
	require.NoError(t, err)

	// The buffer never exceeds the limit, but size keeps counting so
	// the store path can tell the capture is incomplete and skip it.
	require.Equal(t, "12345678", cw.buf.String())
	require.Equal(t, int64(16), cw.size)
	require.Greater(t, cw.size, cw.limit)
}

func TestCaptureWriterUnlimited(t *testing.T) {
	cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}

	_, err := cw.Write([]byte("hello "))
	require.NoError(t, err)
	_, err = cw.Write([]byte("world"))
	require.NoError(t, err)

	require.Equal(t, "hello world", cw.buf.String())
	require.Equal(t, int64(11), cw.size)
}

func TestCacheDisabledPassesThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(newCtx(t, "/v1/auctions")))
	require.True(t, called)
}
