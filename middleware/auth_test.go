package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"home-flavours/models"
	"home-flavours/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func withRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(principalKey, services.Principal{UserID: 9, Role: role})
		c.Set("userID", uint(9))
		c.Set("role", string(role))
	}
}

func TestRoleRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		role models.UserRole
		want int
	}{
		{models.RoleTiffinMaker, http.StatusOK},
		{models.RoleAdmin, http.StatusOK},
		{models.RoleCustomer, http.StatusForbidden},
	}
	for _, tc := range cases {
		r := gin.New()
		r.GET("/kitchen", withRole(tc.role), RoleRequired(models.RoleTiffinMaker, models.RoleAdmin), func(c *gin.Context) {
			assert.Equal(t, uint(9), GetUserID(c))
			assert.Equal(t, tc.role, GetPrincipal(c).Role)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/kitchen", nil))
		assert.Equal(t, tc.want, w.Code, tc.role)
	}
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := map[string]struct {
		header, url string
		allowQuery  bool
		want        string
	}{
		"header":             {"Bearer abc", "/ws", false, "abc"},
		"query on socket":    {"", "/ws?token=xyz", true, "xyz"},
		"query elsewhere":    {"", "/profile?token=xyz", false, ""},
		"header beats query": {"Bearer abc", "/ws?token=xyz", true, "abc"},
		"wrong shape":        {"Token abc", "/ws", true, ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, tc.url, nil)
			if tc.header != "" {
				c.Request.Header.Set("Authorization", tc.header)
			}
			assert.Equal(t, tc.want, bearerToken(c, tc.allowQuery))
		})
	}
}

func TestRolesString(t *testing.T) {
	assert.Equal(t, "customer, admin", rolesString([]models.UserRole{models.RoleCustomer, models.RoleAdmin}))
}
