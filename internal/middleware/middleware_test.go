package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Payphone-Digital/storefront/internal/constants"
	"github.com/Payphone-Digital/storefront/internal/dto"
	ctxutil "github.com/Payphone-Digital/storefront/pkg/context"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sessionRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware(), SessionMiddleware(SessionConfig{CookieName: "sid", TTL: time.Hour}))
	r.GET("/who", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"gin": ClientID(c),
			"ctx": ctxutil.GetClientID(c.Request.Context()),
			"req": ctxutil.GetRequestID(c.Request.Context()),
		})
	})
	return r
}

func TestSessionMiddleware_IssuesCookie(t *testing.T) {
	w := httptest.NewRecorder()
	sessionRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/who", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.NoError(t, uuid.Validate(cookies[0].Value))
	assert.Contains(t, w.Body.String(), cookies[0].Value)
	assert.NotEmpty(t, w.Header().Get(constants.HeaderXRequestID))
}

func TestSessionMiddleware_KeepsValidCookie(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: id})
	req.Header.Set(constants.HeaderXRequestID, "req-1")

	w := httptest.NewRecorder()
	sessionRouter().ServeHTTP(w, req)

	assert.JSONEq(t, `{"gin":"`+id+`","ctx":"`+id+`","req":"req-1"}`, w.Body.String())
}

func TestSessionMiddleware_ReplacesForgedCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "../../etc"})

	w := httptest.NewRecorder()
	sessionRouter().ServeHTTP(w, req)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, "../../etc", cookies[0].Value)
	assert.NoError(t, uuid.Validate(cookies[0].Value))
}

func TestValidateRequestBody(t *testing.T) {
	r := gin.New()
	r.POST("/genres",
		NewValidationMiddleware().ValidateRequestBody(func() interface{} { return &dto.GenreRequest{} }),
		func(c *gin.Context) {
			var req dto.GenreRequest
			require.NoError(t, c.ShouldBindJSON(&req))
			c.JSON(http.StatusCreated, req)
		},
	)

	tests := []struct {
		name string
		body string
		code int
		want string
	}{
		{"valid", `{"id":"poetry","name":"Poetry"}`, http.StatusCreated, "Poetry"},
		{"missing name", `{"id":"poetry"}`, http.StatusBadRequest, "name must not be empty"},
		{"bad id", `{"id":"po-etry","name":"Poetry"}`, http.StatusBadRequest, "letters and digits"},
		{"bad json", `{"id":`, http.StatusBadRequest, constants.MsgBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/genres", strings.NewReader(tt.body))
			req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
