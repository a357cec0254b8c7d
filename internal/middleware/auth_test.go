package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce-attendance/internal/utils"
)

func newRouter(secret string, defaultRole string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Identify(secret, defaultRole))
	router.GET("/read", RequirePermission(PermAttendanceRead), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": c.GetString(ContextRole), "actor": Actor(c)})
	})
	router.POST("/import", RequirePermission(PermAttendanceImport), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func serve(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestIdentifyWithoutSecretUsesDefaultRole(t *testing.T) {
	router := newRouter("", RoleViewer)

	rec := serve(router, http.MethodGet, "/read", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"role":"viewer","actor":"local"}`, rec.Body.String())

	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPost, "/import", "").Code)
}

func TestIdentifyWithSecret(t *testing.T) {
	router := newRouter("secret", RoleAdmin)

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/read", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/read", "garbage").Code)

	supervisor, err := utils.GenerateAccessToken("sup-1", RoleSupervisor, "", "secret", 5)
	require.NoError(t, err)
	rec := serve(router, http.MethodGet, "/read", supervisor)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"role":"supervisor","actor":"sup-1"}`, rec.Body.String())
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPost, "/import", supervisor).Code)

	manager, err := utils.GenerateAccessToken("mgr-1", RoleManager, "", "secret", 5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodPost, "/import", manager).Code)

	stranger, err := utils.GenerateAccessToken("x", "contractor", "", "secret", 5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodGet, "/read", stranger).Code)
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, PermSettingsWrite))
	assert.False(t, HasPermission(RoleManager, PermSettingsWrite))
	assert.False(t, HasPermission(RoleViewer, PermAttendanceWrite))
	assert.False(t, HasPermission("", PermAttendanceRead))
}
