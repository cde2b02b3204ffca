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

package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/herbertavetisyan/vist0s/config"
	"github.com/herbertavetisyan/vist0s/model"
)

const (
	// KeyHeader carries the admin secret for operator endpoints.
	KeyHeader = "X-Vistos-Key"
	// PartnerKeyHeader carries a partner api key for channel submissions.
	PartnerKeyHeader = "X-Vistos-Partner-Key"
	// PartnerContextKey is where an authenticated partner is stored on the
	// request context.
	PartnerContextKey = "partner"
)

// PartnerValidator resolves a partner api key to an active partner.
type PartnerValidator interface {
	AuthenticatePartner(apiKey string) (*model.Partner, error)
}

// SecretKeyAuthMiddleware guards operator endpoints with the configured
// server secret.
func SecretKeyAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		conf, err := config.Fetch()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Secret key is not configured"})
			return
		}
		secretKey := conf.Server.SecretKey
		if secretKey == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Secret key is not configured"})
			return
		}

		clientSecret := c.GetHeader(KeyHeader)

		if clientSecret == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing secret key"})
			return
		}

		if !secureCompare(secretKey, clientSecret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid secret key"})
			return
		}

		c.Next()
	}
}

// PartnerAuthMiddleware authenticates a partner api key and stores the
// partner on the request context for handlers to pick up. Revoked keys are
// rejected the same way unknown keys are.
func PartnerAuthMiddleware(validator PartnerValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(PartnerKeyHeader)
		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing partner api key"})
			return
		}

		partner, err := validator.AuthenticatePartner(apiKey)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid partner api key"})
			return
		}

		c.Set(PartnerContextKey, partner)
		c.Next()
	}
}

func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
