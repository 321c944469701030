package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/itsVijayCoder/doc-chain-server/internal/middleware"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/errcode"
	appErr "github.com/itsVijayCoder/doc-chain-server/internal/pkg/errors"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/response"
	"github.com/itsVijayCoder/doc-chain-server/internal/service"
)

func getUserID(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextUserIDKey)
	userID, _ := value.(string)
	return userID
}

func getActor(c *gin.Context) service.Actor {
	role, _ := c.Get(middleware.ContextUserRoleKey)
	roleStr, _ := role.(string)
	return service.Actor{ID: getUserID(c), Role: roleStr}
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Warn("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("user_id", getUserID(c)),
		zap.Error(err),
	)
	switch {
	case appErr.IsNotFound(err):
		response.Error(c, errcode.ErrNotFound, "not found")
	case err == appErr.ErrUnauthorized:
		response.Error(c, errcode.ErrUnauthorized, "unauthorized")
	case err == appErr.ErrForbidden:
		response.Error(c, errcode.ErrForbidden, "forbidden")
	case err == appErr.ErrInvalid:
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case appErr.IsConflict(err):
		response.Error(c, errcode.ErrConflict, "conflict")
	case err == appErr.ErrLinkExpired:
		response.Error(c, errcode.ErrLinkExpired, "link expired")
	case err == appErr.ErrBadPassword:
		response.Error(c, errcode.ErrBadPassword, "password incorrect")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
