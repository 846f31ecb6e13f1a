package admin

import (
	"github.com/vendora/internal/constants"
	handlershared "github.com/vendora/internal/http/handlers/shared"
	"github.com/vendora/internal/service"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetAdminID(c)
}

func currentUsername(c *gin.Context) string {
	if value, ok := c.Get("username"); ok {
		if username, ok := value.(string); ok {
			return username
		}
	}
	return ""
}

func currentIsSuper(c *gin.Context) bool {
	if value, ok := c.Get("admin_is_super"); ok {
		if flag, ok := value.(bool); ok {
			return flag
		}
	}
	return false
}

// adminActor 以当前管理员作为提现流转的操作者
func adminActor(c *gin.Context) (service.PayoutActor, bool) {
	adminID, ok := getAdminID(c)
	if !ok {
		return service.PayoutActor{}, false
	}
	return service.PayoutActor{Type: constants.ActorTypeAdmin, ID: adminID}, true
}
