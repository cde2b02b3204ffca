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
	"github.com/gin-gonic/gin"

	vistos "github.com/herbertavetisyan/vist0s"
	"github.com/herbertavetisyan/vist0s/api/middleware"
	"github.com/herbertavetisyan/vist0s/config"
)

type Api struct {
	vistos *vistos.Vistos
	router *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router

	router.POST("/applications", a.SubmitApplication)
	router.GET("/applications/:id", a.GetApplication)
	router.GET("/applications", a.GetAllApplications)
	router.GET("/applications/:id/audit", a.GetAuditTrail)

	router.POST("/applications/:id/select-offer", a.SelectOffer)
	router.POST("/applications/:id/sign", a.SignAgreement)
	router.GET("/applications/:id/documents/:docType", a.GetDocument)
	router.POST("/applications/:id/documents/:docType/sign", a.SignDocument)
	router.POST("/applications/:id/otp", a.RequestOTP)
	router.POST("/applications/:id/otp/verify", a.VerifyOTP)
	router.POST("/applications/:id/disburse", a.Disburse)
	router.POST("/applications/:id/approve", a.Approve)
	router.POST("/applications/:id/reject", a.Reject)

	router.GET("/enrichment/:id", a.GetEnrichmentStatus)
	router.GET("/enrichment", a.GetAllEnrichmentRequests)

	router.POST("/stages", a.CreateStage)
	router.GET("/stages", a.GetAllStages)
	router.POST("/products", a.CreateProduct)
	router.GET("/products/:id", a.GetProduct)
	router.GET("/products", a.GetAllProducts)

	admin := router.Group("/admin", middleware.SecretKeyAuthMiddleware())
	admin.POST("/partners", a.CreatePartner)
	admin.GET("/partners", a.GetAllPartners)
	admin.PUT("/partners/:id/rotate-key", a.RotatePartnerKey)
	admin.DELETE("/partners/:id", a.RevokePartner)

	partnerAPI := router.Group("/partner", middleware.PartnerAuthMiddleware(a.vistos))
	partnerAPI.POST("/applications", a.SubmitPartnerApplication)

	return a.router
}

func NewAPI(v *vistos.Vistos) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{vistos: v, router: r}
}
