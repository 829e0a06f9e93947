package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cinemood/cinemood/internal/history"
)

// HistoryHandler converts uploaded watch logs into the serialized history the
// recommendation endpoints accept.
type HistoryHandler struct{}

// NewHistoryHandler creates the handler.
func NewHistoryHandler() *HistoryHandler {
	return &HistoryHandler{}
}

// Import handles POST /history/import: a multipart CSV or XLSX watch log in,
// typed entries plus a prompt-ready serialization out.
func (h *HistoryHandler) Import(c *gin.Context) {
	c.Request.ParseMultipartForm(10 << 20) // 10MB limit

	file, fileHeader, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing uploaded file"})
		return
	}
	defer file.Close()

	result, err := history.ParseUpload(fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "history import failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"entries":    result.Entries,
		"skipped":    result.Skipped,
		"serialized": history.Serialize(result.Entries),
	})
}
