package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/datapar/analysis-backend/internal/http/response"
	"github.com/datapar/analysis-backend/internal/platform/ctxutil"
	"github.com/datapar/analysis-backend/internal/services"
)

type DatasetHandler struct {
	datasetService services.DatasetService
}

func NewDatasetHandler(datasetService services.DatasetService) *DatasetHandler {
	return &DatasetHandler{datasetService: datasetService}
}

// POST /api/v1/dataset/upload (multipart form, field "file")
func (dh *DatasetHandler) Upload(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("no authenticated user"))
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "file_required", fmt.Errorf("file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "file_unreadable", err)
		return
	}
	defer file.Close()

	dataset, err := dh.datasetService.UploadDataset(c.Request.Context(), rd.UserID, services.Upload{
		OriginalName: fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		Content:      file,
	})
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"dataset": dataset})
}

// GET /api/v1/dataset/:id
func (dh *DatasetHandler) Get(c *gin.Context) {
	dataset, err := dh.datasetService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"dataset": dataset})
}

// GET /api/v1/dataset
func (dh *DatasetHandler) ListMine(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("no authenticated user"))
		return
	}
	datasets, err := dh.datasetService.ListByUser(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"datasets": datasets})
}

// DELETE /api/v1/dataset/:id
func (dh *DatasetHandler) Delete(c *gin.Context) {
	if err := dh.datasetService.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
