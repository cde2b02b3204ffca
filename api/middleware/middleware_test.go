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
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/herbertavetisyan/vist0s/config"
	"github.com/herbertavetisyan/vist0s/model"
)

type staticValidator struct {
	partner *model.Partner
	err     error
}

func (v *staticValidator) AuthenticatePartner(string) (*model.Partner, error) {
	return v.partner, v.err
}

func performRequest(handler gin.HandlerFunc, headers map[string]string) (*httptest.ResponseRecorder, *gin.Context) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	var captured *gin.Context
	router.GET("/protected", handler, func(c *gin.Context) {
		captured = c
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp, captured
}

func TestSecretKeyAuthMiddleware(t *testing.T) {
	config.MockConfig(&config.Configuration{Server: config.ServerConfig{SecretKey: "top-secret"}})

	tests := []struct {
		name     string
		headers  map[string]string
		wantCode int
	}{
		{"valid key", map[string]string{KeyHeader: "top-secret"}, http.StatusOK},
		{"wrong key", map[string]string{KeyHeader: "guess"}, http.StatusUnauthorized},
		{"missing key", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := performRequest(SecretKeyAuthMiddleware(), tt.headers)
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestSecretKeyAuthMiddlewareUnconfigured(t *testing.T) {
	config.MockConfig(&config.Configuration{})

	resp, _ := performRequest(SecretKeyAuthMiddleware(), map[string]string{KeyHeader: "anything"})

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestPartnerAuthMiddleware(t *testing.T) {
	partner := &model.Partner{PartnerID: "ptn_1", Name: "Acme Brokers"}
	validator := &staticValidator{partner: partner}

	resp, captured := performRequest(PartnerAuthMiddleware(validator), map[string]string{PartnerKeyHeader: "pk_valid"})

	assert.Equal(t, http.StatusOK, resp.Code)
	got, exists := captured.Get(PartnerContextKey)
	assert.True(t, exists)
	assert.Equal(t, partner, got)
}

func TestPartnerAuthMiddlewareRejects(t *testing.T) {
	validator := &staticValidator{err: errors.New("invalid partner api key")}

	resp, _ := performRequest(PartnerAuthMiddleware(validator), map[string]string{PartnerKeyHeader: "pk_bad"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	respMissing, _ := performRequest(PartnerAuthMiddleware(validator), nil)
	assert.Equal(t, http.StatusUnauthorized, respMissing.Code)
}
