package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/itsVijayCoder/doc-chain-server/internal/model"
	"github.com/itsVijayCoder/doc-chain-server/internal/pkg/response"
	"github.com/itsVijayCoder/doc-chain-server/internal/service"
)

type UserHandler struct {
	directory *service.DirectoryService
}

func NewUserHandler(directory *service.DirectoryService) *UserHandler {
	return &UserHandler{directory: directory}
}

// Search backs the share dialog's user picker. An empty query returns the
// whole directory.
func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.directory.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"users": users})
}

type permissionOption struct {
	Value       model.PermissionLevel `json:"value"`
	Label       string                `json:"label"`
	Description string                `json:"description"`
}

// ShareOptions exposes the selectable permission levels and expiry presets so
// clients render the same tables the server enforces. Admin is hidden unless
// the caller asks for it.
func (h *UserHandler) ShareOptions(c *gin.Context) {
	includeAdmin := c.Query("include_admin") == "1"
	levels := model.SelectablePermissions(includeAdmin)
	options := make([]permissionOption, 0, len(levels))
	for _, level := range levels {
		options = append(options, permissionOption{
			Value:       level,
			Label:       level.Label(),
			Description: level.Description(),
		})
	}
	response.Success(c, gin.H{
		"permissions":    options,
		"expiry_presets": service.ExpiryPresets(),
	})
}
