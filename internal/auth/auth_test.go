package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/penstore/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(role string) *model.User {
	return &model.User{BaseModel: model.BaseModel{ID: "user-1"}, Email: "admin@example.com", Role: role}
}

func TestIssueAndParse(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, exp, err := tm.Issue(newUser(model.RoleAdmin))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, model.RoleAdmin, claims.Role)
}

func TestParseRejectsExpiredAndForeignTokens(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.Issue(newUser(model.RoleAdmin))
	require.NoError(t, err)

	tm.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	other := NewTokenManager("another-secret", time.Hour)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tm := NewTokenManager("secret", time.Hour)
	adminToken, _, err := tm.Issue(newUser(model.RoleAdmin))
	require.NoError(t, err)
	staffToken, _, err := tm.Issue(newUser("staff"))
	require.NoError(t, err)

	r := gin.New()
	r.GET("/admin", RequireAdmin(tm), func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c))
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Token abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"wrong role", "Bearer " + staffToken, http.StatusForbidden},
		{"admin", "Bearer " + adminToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "user-1", w.Body.String())
			}
		})
	}
}
