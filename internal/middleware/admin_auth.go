package middleware

import (
	"net/http"

	"city-pet-go/internal/model"

	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware 检查用户是否具有管理员权限。
// 此中间件必须在 AuthMiddleware 之后使用。
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("user")
		if !exists {
			// user 对象不存在说明 AuthMiddleware 未能成功解析
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load user from context"})
			return
		}

		currentUser, ok := user.(*model.User)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unexpected user type in context"})
			return
		}

		if currentUser.Role != "ADMIN" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin privilege required"})
			return
		}

		c.Next()
	}
}
