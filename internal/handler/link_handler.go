package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/itsVijayCoder/doc-chain-server/internal/filestore"
	"github.com/itsVijayCoder/doc-chain-server/internal/model"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/errcode"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/response"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/timeutil"
	"github.com/itsVijayCoder/doc-chain-server/internal/service"
)

type LinkHandler struct {
	links *service.LinkService
	store filestore.Store
}

func NewLinkHandler(links *service.LinkService, store filestore.Store) *LinkHandler {
	return &LinkHandler{links: links, store: store}
}

type generateLinkRequest struct {
	Permission      string `json:"permission"`
	ExpireHours     int    `json:"expire_hours"`
	AllowDownload   *bool  `json:"allow_download"`
	RequirePassword bool   `json:"require_password"`
	Password        string `json:"password"`
	BlockchainAudit bool   `json:"blockchain_audit"`
}

func (h *LinkHandler) Generate(c *gin.Context) {
	var req generateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	permission, ok := model.ParsePermission(req.Permission)
	if !ok {
		response.Error(c, errcode.ErrInvalid, "invalid permission")
		return
	}
	if !service.ValidExpiryHours(req.ExpireHours) {
		response.Error(c, errcode.ErrInvalid, "invalid expiry")
		return
	}
	if req.RequirePassword && req.Password == "" {
		response.Error(c, errcode.ErrInvalid, "password is required")
		return
	}
	allowDownload := true
	if req.AllowDownload != nil {
		allowDownload = *req.AllowDownload
	}
	link, err := h.links.Generate(c.Request.Context(), getActor(c), c.Param("id"), service.ShareLinkSettings{
		Permission:      permission,
		ExpireAt:        service.ExpiryFromPreset(req.ExpireHours, timeutil.NowMilli()),
		AllowDownload:   allowDownload,
		RequirePassword: req.RequirePassword,
		Password:        req.Password,
		BlockchainAudit: req.BlockchainAudit,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, link)
}

// GetActive returns the document's current link with the expiry preset
// re-derived from the stored timestamp, when it still lands on one.
func (h *LinkHandler) GetActive(c *gin.Context) {
	link, err := h.links.GetActive(c.Request.Context(), getActor(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	if link == nil {
		response.Success(c, gin.H{"link": nil})
		return
	}
	payload := gin.H{
		"link":             link,
		"url":              h.links.URL(link.Token),
		"require_password": link.RequiresPassword(),
	}
	if preset, ok := service.PresetFromExpiry(link.ExpireAt, timeutil.NowMilli()); ok {
		payload["expiry_preset"] = preset
	}
	response.Success(c, payload)
}

func (h *LinkHandler) Revoke(c *gin.Context) {
	if err := h.links.Revoke(c.Request.Context(), getActor(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

// PublicResolve serves anyone holding the link URL. Password, expiry, and
// revocation checks happen in the service.
func (h *LinkHandler) PublicResolve(c *gin.Context) {
	access, err := h.links.Resolve(c.Request.Context(), c.Param("token"), c.Query("password"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, access)
}

func (h *LinkHandler) PublicDownload(c *gin.Context) {
	access, err := h.links.Resolve(c.Request.Context(), c.Param("token"), c.Query("password"))
	if err != nil {
		handleError(c, err)
		return
	}
	if !access.AllowDownload {
		response.Error(c, errcode.ErrForbidden, "downloads are disabled for this link")
		return
	}
	doc := access.Document
	reader, err := h.store.Open(c.Request.Context(), doc.FileKey)
	if err != nil {
		response.Error(c, errcode.ErrNotFound, "file not found")
		return
	}
	defer reader.Close()
	mimeType := doc.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	c.DataFromReader(200, doc.Size, mimeType, reader, map[string]string{
		"Content-Disposition": `attachment; filename="` + doc.Title + `"`,
	})
}
