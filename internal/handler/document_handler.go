package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/itsVijayCoder/doc-chain-server/internal/filestore"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/errcode"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/response"
	"github.com/itsVijayCoder/doc-chain-server/internal/service"
)

const maxUploadBytes = 100 << 20

type DocumentHandler struct {
	documents *service.DocumentService
	store     filestore.Store
}

func NewDocumentHandler(documents *service.DocumentService, store filestore.Store) *DocumentHandler {
	return &DocumentHandler{documents: documents, store: store}
}

// Upload accepts a multipart document. The title defaults to the uploaded
// filename when the form omits it.
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, errcode.ErrInvalid, "file is required")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		response.Error(c, errcode.ErrInvalid, "file too large")
		return
	}
	title := c.PostForm("title")
	if title == "" {
		title = fileHeader.Filename
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, errcode.ErrUploadFailed, "open upload failed")
		return
	}
	defer file.Close()

	key := service.NewStorageKey()
	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.store.Save(c.Request.Context(), key, file, fileHeader.Size, contentType); err != nil {
		response.Error(c, errcode.ErrUploadFailed, "store upload failed")
		return
	}
	doc, err := h.documents.Create(c.Request.Context(), getUserID(c), service.DocumentCreateInput{
		Title:    title,
		FileKey:  key,
		MimeType: contentType,
		Size:     fileHeader.Size,
	})
	if err != nil {
		_ = h.store.Delete(c.Request.Context(), key)
		handleError(c, err)
		return
	}
	response.Success(c, doc)
}

func (h *DocumentHandler) List(c *gin.Context) {
	var starred *int
	if value := c.Query("starred"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			starred = &parsed
		}
	}
	limit := uint(0)
	if value := c.Query("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			limit = uint(parsed)
		}
	}
	offset := uint(0)
	if value := c.Query("offset"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			offset = uint(parsed)
		}
	}
	docs, err := h.documents.List(c.Request.Context(), getUserID(c), c.Query("q"), starred, limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"documents": docs})
}

func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.documents.Get(c.Request.Context(), getActor(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, doc)
}

type starRequest struct {
	Starred bool `json:"starred"`
}

func (h *DocumentHandler) Star(c *gin.Context) {
	var req starRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if err := h.documents.SetStarred(c.Request.Context(), getUserID(c), c.Param("id"), req.Starred); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.documents.Delete(c.Request.Context(), getActor(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func (h *DocumentHandler) Download(c *gin.Context) {
	doc, err := h.documents.Get(c.Request.Context(), getActor(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	h.serveFile(c, doc.FileKey, doc.Title, doc.MimeType, doc.Size)
}

func (h *DocumentHandler) SharedWithMe(c *gin.Context) {
	items, err := h.documents.SharedWithMe(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"documents": items})
}

func (h *DocumentHandler) serveFile(c *gin.Context, key, name, mimeType string, size int64) {
	reader, err := h.store.Open(c.Request.Context(), key)
	if err != nil {
		response.Error(c, errcode.ErrNotFound, "file not found")
		return
	}
	defer reader.Close()
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	c.DataFromReader(200, size, mimeType, reader, map[string]string{
		"Content-Disposition": `attachment; filename="` + name + `"`,
	})
}
