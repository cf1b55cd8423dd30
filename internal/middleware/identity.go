package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"agile_tools/internal/service"
)

// identityHeader 是信任的身份來源，由前端或反向代理帶入
const identityHeader = "X-Auth-User"

// UserKey 是解析後的用戶在 gin context 中的鍵
const UserKey = "currentUser"

// IdentityMiddleware 解析請求的身份
// 從 X-Auth-User 取出用戶名，第一次見到的名字會自動建立用戶；
// 缺少或空白時以 401 拒絕
func IdentityMiddleware(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := strings.TrimSpace(c.GetHeader(identityHeader))
		if username == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		user, err := users.Resolve(username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "無法解析用戶身份"})
			c.Abort()
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}
