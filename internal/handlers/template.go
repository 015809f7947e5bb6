package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	infralogger "github.com/jonesrussell/north-cloud/negative-keywords/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/exporter"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/importer"
)

type TemplateHandler struct {
	logger infralogger.Logger
}

func NewTemplateHandler(log infralogger.Logger) *TemplateHandler {
	return &TemplateHandler{logger: log}
}

// Get serves an example search-term workbook.
func (h *TemplateHandler) Get(c *gin.Context) {
	var buf bytes.Buffer
	if err := importer.WriteTemplate(&buf); err != nil {
		h.logger.Error("Failed to build template", infralogger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build template"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", importer.TemplateFilename))
	c.Data(http.StatusOK, exporter.FormatXLSX.MIMEType(), buf.Bytes())
}
