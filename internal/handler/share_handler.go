package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/itsVijayCoder/doc-chain-server/internal/model"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/errcode"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/response"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/timeutil"
	"github.com/itsVijayCoder/doc-chain-server/internal/service"
)

type ShareHandler struct {
	shares *service.ShareService
}

func NewShareHandler(shares *service.ShareService) *ShareHandler {
	return &ShareHandler{shares: shares}
}

type createShareRequest struct {
	UserID      string `json:"user_id"`
	Permission  string `json:"permission"`
	ExpireHours int    `json:"expire_hours"`
}

type batchShareRequest struct {
	UserIDs     []string `json:"user_ids"`
	Permission  string   `json:"permission"`
	ExpireHours int      `json:"expire_hours"`
}

func (h *ShareHandler) List(c *gin.Context) {
	shares, err := h.shares.ListByDocument(c.Request.Context(), getActor(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"shares": shares})
}

func (h *ShareHandler) Create(c *gin.Context) {
	var req createShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	permission, expireAt, ok := shareTerms(c, req.Permission, req.ExpireHours)
	if !ok {
		return
	}
	if req.UserID == "" {
		response.Error(c, errcode.ErrInvalid, "user_id is required")
		return
	}
	share, err := h.shares.Grant(c.Request.Context(), getActor(c), c.Param("id"), req.UserID, permission, expireAt)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, share)
}

// CreateBatch grants one permission to several users in one call. Grants are
// issued sequentially in the order given and stop at the first failure;
// grants already applied stay applied.
func (h *ShareHandler) CreateBatch(c *gin.Context) {
	var req batchShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if len(req.UserIDs) == 0 {
		response.Error(c, errcode.ErrInvalid, "select at least one user")
		return
	}
	permission, expireAt, ok := shareTerms(c, req.Permission, req.ExpireHours)
	if !ok {
		return
	}
	result, err := h.shares.GrantBatch(c.Request.Context(), getActor(c), c.Param("id"), req.UserIDs, permission, expireAt)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

func (h *ShareHandler) Remove(c *gin.Context) {
	if err := h.shares.Remove(c.Request.Context(), getActor(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func shareTerms(c *gin.Context, permissionStr string, expireHours int) (model.PermissionLevel, int64, bool) {
	permission, ok := model.ParsePermission(permissionStr)
	if !ok {
		response.Error(c, errcode.ErrInvalid, "invalid permission")
		return "", 0, false
	}
	if !service.ValidExpiryHours(expireHours) {
		response.Error(c, errcode.ErrInvalid, "invalid expiry")
		return "", 0, false
	}
	return permission, service.ExpiryFromPreset(expireHours, timeutil.NowMilli()), true
}
