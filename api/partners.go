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

	model2 "github.com/herbertavetisyan/vist0s/api/model"

	"github.com/gin-gonic/gin"
)

// CreatePartner registers an origination channel. The response is the only
// time the api key is returned in the clear.
func (a Api) CreatePartner(c *gin.Context) {
	var newPartner model2.CreatePartner
	if err := c.ShouldBindJSON(&newPartner); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := newPartner.ValidateCreatePartner(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	partnerType := newPartner.Type
	if partnerType == "" {
		partnerType = "AGENT"
	}

	resp, err := a.vistos.CreatePartner(newPartner.Name, partnerType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetAllPartners(c *gin.Context) {
	resp, err := a.vistos.GetAllPartners()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) RotatePartnerKey(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	newKey, err := a.vistos.RotatePartnerKey(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "API Key rotated successfully", "api_key": newKey})
}

func (a Api) RevokePartner(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	if err := a.vistos.RevokePartner(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Partner revoked successfully"})
}
