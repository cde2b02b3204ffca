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
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	model2 "github.com/herbertavetisyan/vist0s/api/model"
	"github.com/herbertavetisyan/vist0s/api/middleware"
	"github.com/herbertavetisyan/vist0s/internal/apierror"
	"github.com/herbertavetisyan/vist0s/model"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	var apiErr apierror.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apierror.MapErrorToHTTPStatus(apiErr), gin.H{"error": apiErr.Message, "code": apiErr.Code})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func paginate(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (a Api) SubmitApplication(c *gin.Context) {
	var newApplication model2.SubmitApplication
	if err := c.ShouldBindJSON(&newApplication); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := newApplication.ValidateSubmitApplication(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.vistos.SubmitApplication(c.Request.Context(), newApplication.ToNewApplication())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// SubmitPartnerApplication accepts a submission through an authenticated
// partner channel and stamps the application with the partner's id.
func (a Api) SubmitPartnerApplication(c *gin.Context) {
	partner, exists := c.Get(middleware.PartnerContextKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "partner authentication required"})
		return
	}

	var newApplication model2.SubmitApplication
	if err := c.ShouldBindJSON(&newApplication); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := newApplication.ValidateSubmitApplication(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	input := newApplication.ToNewApplication()
	input.PartnerID = partner.(*model.Partner).PartnerID

	resp, err := a.vistos.SubmitApplication(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetApplication(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.vistos.GetApplication(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetAllApplications(c *gin.Context) {
	limit, offset := paginate(c)
	resp, err := a.vistos.GetAllApplications(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetAuditTrail(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.vistos.GetAuditTrail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) SelectOffer(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var selection model2.SelectOffer
	if err := c.ShouldBindJSON(&selection); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := selection.ValidateSelectOffer(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.vistos.SelectOffer(c.Request.Context(), id, selection.Amount, selection.Term)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) SignAgreement(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.vistos.SignAgreement(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetDocument(c *gin.Context) {
	id, _ := c.Params.Get("id")
	docType, _ := c.Params.Get("docType")

	content, err := a.vistos.RenderAgreement(c.Request.Context(), id, docType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/plain", content)
}

func (a Api) SignDocument(c *gin.Context) {
	id, _ := c.Params.Get("id")
	docType, _ := c.Params.Get("docType")

	resp, err := a.vistos.SignDocument(c.Request.Context(), id, docType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document " + docType + " signed.", "status": resp.Status})
}

func (a Api) RequestOTP(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	if err := a.vistos.RequestOTP(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}

func (a Api) VerifyOTP(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var body model2.VerifyOTP
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := body.ValidateVerifyOTP(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.vistos.VerifyOTP(c.Request.Context(), id, body.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) Disburse(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var body model2.Disburse
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := body.ValidateDisburse(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.vistos.Disburse(c.Request.Context(), id, body.BankName, body.AccountNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) Approve(c *gin.Context) {
	a.resolveManualReview(c, true)
}

func (a Api) Reject(c *gin.Context) {
	a.resolveManualReview(c, false)
}

func (a Api) resolveManualReview(c *gin.Context, approve bool) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var decision model2.ManualDecision
	if err := c.ShouldBindJSON(&decision); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := decision.ValidateManualDecision(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	var resp *model.Application
	var err error
	if approve {
		resp, err = a.vistos.Approve(c.Request.Context(), id, decision.Reviewer)
	} else {
		resp, err = a.vistos.RejectApplication(c.Request.Context(), id, decision.Reviewer, decision.Reason)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
