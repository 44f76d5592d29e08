package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"case-management-tool/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	user := &models.User{Username: "worker1", Role: models.RoleCaseWorker}
	user.ID = 42

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "worker1", claims.Username)
	assert.Equal(t, models.RoleCaseWorker, claims.Role)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(&models.User{Username: "worker1", Role: models.RoleCaseWorker})
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)

	token, err := issuer.Issue(&models.User{Username: "worker1", Role: models.RoleCaseWorker})
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)

	assert.True(t, CheckPassword(hash, "admin123"))
	assert.False(t, CheckPassword(hash, "admin124"))
}

func newAuthedRouter(issuer *TokenIssuer, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	chain := append([]gin.HandlerFunc{RequireAuth(issuer)}, extra...)
	chain = append(chain, func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/protected", chain...)
	return router
}

func TestRequireAuthRejectsMissingAndBadTokens(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	router := newAuthedRouter(issuer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminBlocksCaseWorker(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	router := newAuthedRouter(issuer, RequireAdmin())

	worker := &models.User{Username: "worker1", Role: models.RoleCaseWorker}
	token, err := issuer.Issue(worker)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	router := newAuthedRouter(issuer, RequireAdmin())

	admin := &models.User{Username: "admin", Role: models.RoleAdmin}
	token, err := issuer.Issue(admin)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidRole(t *testing.T) {
	assert.True(t, models.ValidRole(models.RoleAdmin))
	assert.True(t, models.ValidRole(models.RoleCaseWorker))
	assert.False(t, models.ValidRole("supervisor"))
}
