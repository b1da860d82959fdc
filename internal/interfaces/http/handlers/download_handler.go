package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "citizen-portal.backend/internal/domain/errors"
	"citizen-portal.backend/internal/interfaces/http/response"
	"citizen-portal.backend/internal/usecases"
)

type DownloadRequest struct {
	Data        string `json:"data"`
	ContentType string `json:"contentType"`
	FileName    string `json:"fileName"`
}

// Download decodes a base64 payload and returns it as a file
// POST /api/v1/download
func Download(c *gin.Context) {
	var req DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest("Request body must be a JSON object"))
		return
	}

	data, contentType, err := usecases.DecodeDownload(req.Data, req.ContentType)
	if err != nil {
		response.Error(c, err)
		return
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = "document" + extensionFor(contentType)
	}
	c.Header("Content-Disposition", attachment(fileName))
	c.Data(http.StatusOK, contentType, data)
}
