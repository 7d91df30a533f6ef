package ctxutil

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewContextWithRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/books", nil)
	req.Header.Set("User-Agent", "test-agent")

	ctx := NewContextWithRequest(context.Background(), req, "handler", "ListBooks")

	assert.Equal(t, "handler", GetModule(ctx))
	assert.Equal(t, "ListBooks", GetFunction(ctx))
	assert.Equal(t, "test-agent", GetUserAgent(ctx))
	assert.False(t, GetStartTime(ctx).IsZero())
}

func TestNewContextWithRequest_KeepsStartTime(t *testing.T) {
	start := time.Now().Add(-time.Minute)
	ctx := WithValue(context.Background(), StartTimeKey, start)

	ctx = NewContextWithRequest(ctx, nil, "service", "List")

	assert.Equal(t, start, GetStartTime(ctx))
	assert.GreaterOrEqual(t, GetDuration(ctx), time.Minute)
}

func TestWithRequestAndClientID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithClientID(ctx, "client-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "client-1", GetClientID(ctx))
	assert.Empty(t, GetModule(ctx))
}

func TestGetters_EmptyContext(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetClientID(ctx))
	assert.Zero(t, GetDuration(ctx))
}
