/*
Copyright 2024 Vistos Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetEnrichmentStatus returns one pipeline run with per-call results,
// response times and derived progress.
func (a Api) GetEnrichmentStatus(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	progress, err := a.vistos.GetEnrichmentStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]gin.H, 0, len(progress.Request.Results))
	for _, r := range progress.Request.Results {
		results = append(results, gin.H{
			"service_name":     r.ServiceName,
			"sequence_order":   r.SequenceOrder,
			"status":           r.Status,
			"error_message":    r.ErrorMessage,
			"response_time_ms": r.ResponseTime().Milliseconds(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"enrichment_request_id": progress.Request.EnrichmentRequestID,
		"status":                progress.Request.Status,
		"progress_percent":      progress.ProgressPercent,
		"attempted":             progress.Attempted,
		"succeeded":             progress.Succeeded,
		"results":               results,
	})
}

func (a Api) GetAllEnrichmentRequests(c *gin.Context) {
	limit, offset := paginate(c)
	resp, err := a.vistos.GetAllEnrichmentRequests(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
