package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_AttachesAuthFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()

	router := gin.New()
	router.Use(Logger(logger))
	router.GET("/insights", func(c *gin.Context) {
		c.Set("subject_id", "user-0001")
		c.Set("role", "viewer")
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/insights", nil))

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, "user-0001", entry.Data["subject_id"])
	assert.Equal(t, "viewer", entry.Data["role"])
	assert.Equal(t, http.StatusOK, entry.Data["status_code"])
}

func TestLogger_AnonymousRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()

	router := gin.New()
	router.Use(Logger(logger))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.NotContains(t, entry.Data, "subject_id")
	assert.NotContains(t, entry.Data, "role")
}
