package drive

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/prodtrack/backend-go/internal/service"
)

type Handler struct {
	source   FileSource
	importer *PlanImporter
}

func NewHandler(source FileSource, importer *PlanImporter) *Handler {
	return &Handler{source: source, importer: importer}
}

// ListFiles lists a folder given by ?folderId= or ?path=.
func (h *Handler) ListFiles(c *gin.Context) {
	folderID := c.Query("folderId")
	if path := c.Query("path"); path != "" {
		id, err := h.source.FindFolderByPath(c.Request.Context(), path)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "folder not found", "details": err.Error()})
			return
		}
		folderID = id
	}

	files, err := h.source.ListFiles(c.Request.Context(), folderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list files", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, files)
}

// ImportPlans imports ?fileId=, or the newest workbook of ?path= (default
// the configured plan folder).
func (h *Handler) ImportPlans(c *gin.Context) {
	ctx := c.Request.Context()

	if fileID := c.Query("fileId"); fileID != "" {
		result, err := h.importer.ImportFile(ctx, fileID)
		if err != nil {
			importError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "fileId": fileID, "result": result})
		return
	}

	file, result, err := h.importer.ImportLatest(ctx, c.Query("path"))
	if err != nil {
		importError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "file": file, "result": result})
}

func importError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, service.ErrInvalidPlan) {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": "plan import failed", "details": err.Error()})
}
