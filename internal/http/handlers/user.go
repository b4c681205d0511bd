package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/datapar/analysis-backend/internal/http/response"
	"github.com/datapar/analysis-backend/internal/platform/ctxutil"
	"github.com/datapar/analysis-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/v1/user
func (uh *UserHandler) GetMe(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("no authenticated user"))
		return
	}
	user, err := uh.userService.GetUserByID(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	if user == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("user not found"))
		return
	}
	response.RespondOK(c, gin.H{"user": services.PublicUser(user)})
}
