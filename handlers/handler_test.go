package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"clipstream/feed"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authedContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userId", primitive.NewObjectID().Hex())
	return c, w
}

func TestCreatePostReportsAllViolationsAtOnce(t *testing.T) {
	h := New(Options{})
	c, w := authedContext(t, http.MethodPost, "/api/post", `{"description":"hi"}`)

	h.CreatePost(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	require.Contains(t, body, "Validation Error")
	require.Contains(t, body, "Video URL is required")
	require.Contains(t, body, "At least one tag is required")
	require.Contains(t, body, "Location description is required")
	require.Contains(t, body, "Location latitude must be a number")
	require.Contains(t, body, "Location longitude must be a number")
}

func TestCreatePostRejectsNonNumericCoordinates(t *testing.T) {
	h := New(Options{})
	c, w := authedContext(t, http.MethodPost, "/api/post",
		`{"video":"v.m3u8","tags":["a"],"location":{"locationString":"Lagos","lat":"6.5","lng":"3.4"}}`)

	h.CreatePost(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "latitude must be a number")
	require.Contains(t, w.Body.String(), "longitude must be a number")
}

func TestParseExclude(t *testing.T) {
	valid1 := primitive.NewObjectID()
	valid2 := primitive.NewObjectID()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet,
		"/api/posts/discover?exclude="+valid1.Hex()+",not-an-id&exclude="+valid2.Hex(), nil)

	ids := parseExclude(c)
	require.Equal(t, []primitive.ObjectID{valid1, valid2}, ids)
}

func TestParsePaginationRejection(t *testing.T) {
	c, w := authedContext(t, http.MethodGet, "/api/posts/liked?itemsPerPage=0", "")

	_, ok := parsePagination(c)
	require.False(t, ok)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Invalid pagination values.")
}

func TestWriteFeedErrorMapping(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{feed.ErrInvalidPagination, http.StatusBadRequest, "Invalid pagination values."},
		{&feed.PageOutOfRangeError{TotalPages: 3}, http.StatusBadRequest, "page number exceeds total pages (3)"},
		{feed.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{http.ErrHandlerTimeout, http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		writeFeedError(c, tc.err)
		require.Equal(t, tc.status, w.Code)
		require.Contains(t, w.Body.String(), tc.message)
	}
}

func TestViewerIDRejectsGarbage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userId", "not-a-hex-id")

	_, ok := viewerID(c)
	require.False(t, ok)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
