package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/datapar/analysis-backend/internal/http/response"
	"github.com/datapar/analysis-backend/internal/platform/docstore"
	"github.com/datapar/analysis-backend/internal/services"
)

type JobHandler struct {
	jobService    services.JobService
	resultService services.ResultService
}

func NewJobHandler(jobService services.JobService, resultService services.ResultService) *JobHandler {
	return &JobHandler{jobService: jobService, resultService: resultService}
}

// POST /api/v1/job
func (jh *JobHandler) Create(c *gin.Context) {
	var req struct {
		DatasetID     string         `json:"datasetId"`
		JobType       string         `json:"jobType"`
		SubType       string         `json:"subType"`
		Parameters    map[string]any `json:"parameters"`
		ClusterConfig *int           `json:"clusterConfig"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	input := services.JobInput{
		DatasetID:  req.DatasetID,
		JobType:    req.JobType,
		SubType:    req.SubType,
		Parameters: req.Parameters,
	}
	if req.ClusterConfig != nil {
		input.ClusterConfig = *req.ClusterConfig
	}
	job, err := jh.jobService.Create(c.Request.Context(), input)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"job": job})
}

// GET /api/v1/job/:id
func (jh *JobHandler) Get(c *gin.Context) {
	job, err := jh.jobService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}

// GET /api/v1/job?datasetId=...|status=...
func (jh *JobHandler) List(c *gin.Context) {
	if datasetID := c.Query("datasetId"); datasetID != "" {
		jobs, err := jh.jobService.ListByDataset(c.Request.Context(), datasetID)
		if err != nil {
			response.RespondFromError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"jobs": jobs})
		return
	}
	if status := c.Query("status"); status != "" {
		jobs, err := jh.jobService.ListByStatus(c.Request.Context(), status)
		if err != nil {
			response.RespondFromError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"jobs": jobs})
		return
	}
	response.RespondError(c, http.StatusBadRequest, "invalid_request",
		fmt.Errorf("datasetId or status query parameter is required"))
}

// PATCH /api/v1/job/:id
func (jh *JobHandler) Update(c *gin.Context) {
	var updates docstore.Document
	if err := c.ShouldBindJSON(&updates); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	job, err := jh.jobService.UpdateByID(c.Request.Context(), c.Param("id"), updates)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}

// DELETE /api/v1/job/:id
func (jh *JobHandler) Delete(c *gin.Context) {
	if err := jh.jobService.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/v1/job/:id/ml-results
func (jh *JobHandler) RecordMLResult(c *gin.Context) {
	var data docstore.Document
	if err := c.ShouldBindJSON(&data); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := jh.resultService.RecordMLResult(c.Request.Context(), c.Param("id"), data)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"result": result})
}

// GET /api/v1/job/:id/ml-results
func (jh *JobHandler) ListMLResults(c *gin.Context) {
	results, err := jh.resultService.MLResultsByJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"results": results})
}

// DELETE /api/v1/ml-results/:id
func (jh *JobHandler) DeleteMLResult(c *gin.Context) {
	if err := jh.resultService.DeleteMLResult(c.Request.Context(), c.Param("id")); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/v1/job/:id/statistics
func (jh *JobHandler) RecordStatistics(c *gin.Context) {
	var data docstore.Document
	if err := c.ShouldBindJSON(&data); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	stats, err := jh.resultService.RecordStatistics(c.Request.Context(), c.Param("id"), data)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"statistics": stats})
}

// GET /api/v1/job/:id/statistics
func (jh *JobHandler) ListStatistics(c *gin.Context) {
	stats, err := jh.resultService.StatisticsByJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"statistics": stats})
}

// DELETE /api/v1/statistics/:id
func (jh *JobHandler) DeleteStatistics(c *gin.Context) {
	if err := jh.resultService.DeleteStatistics(c.Request.Context(), c.Param("id")); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
