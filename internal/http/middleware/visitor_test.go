package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newVisitorEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Visitor(testSecret))
	r.GET("/", func(c *gin.Context) {
		id, _ := GetVisitorID(c)
		c.String(http.StatusOK, id)
	})
	return r
}

func TestVisitorIssuesCookie(t *testing.T) {
	r := newVisitorEngine()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	_, err := uuid.Parse(w.Body.String())
	require.NoError(t, err)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, VisitorCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	id, err := parseToken(cookies[0].Value, testSecret)
	require.NoError(t, err)
	assert.Equal(t, w.Body.String(), id)
}

func TestVisitorKeepsValidCookie(t *testing.T) {
	id := uuid.NewString()
	token, err := GenerateVisitorToken(id, testSecret)
	require.NoError(t, err)

	r := newVisitorEngine()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookie, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, id, w.Body.String())
	assert.Empty(t, w.Result().Cookies())
}

func TestVisitorReplacesForgedCookie(t *testing.T) {
	token, err := GenerateVisitorToken(uuid.NewString(), "other-secret")
	require.NoError(t, err)

	r := newVisitorEngine()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookie, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Len(t, w.Result().Cookies(), 1)
	_, err = parseToken(token, testSecret)
	assert.Error(t, err)
}

func TestParseTokenRejectsNonUUIDSubject(t *testing.T) {
	token, err := GenerateVisitorToken("42", testSecret)
	require.NoError(t, err)
	_, err = parseToken(token, testSecret)
	assert.Error(t, err)
}
