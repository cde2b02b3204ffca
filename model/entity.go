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
package model

import (
	"strings"
	"time"
)

// Entity types.
const (
	EntityIndividual   = "INDIVIDUAL"
	EntityOrganization = "ORGANIZATION"
)

// Entity is an applicant, co-applicant or guarantor, keyed by national id.
// Names are stored as submitted (non-Latin scripts included); registry
// payloads are compared against them through NormalizeName.
type Entity struct {
	EntityID    string                 `json:"entity_id"`
	NationalID  string                 `json:"national_id"`
	EntityType  string                 `json:"entity_type"`
	FirstName   string                 `json:"first_name"`
	LastName    string                 `json:"last_name"`
	DOB         time.Time              `json:"dob,omitempty"`
	PhoneNumber string                 `json:"phone_number"`
	Email       string                 `json:"email"`
	CreatedAt   time.Time              `json:"created_at"`
	MetaData    map[string]interface{} `json:"meta_data,omitempty"`
}

// NormalizeName folds case and strips all whitespace so that registry
// payloads and stored values compare equal regardless of formatting.
func NormalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// SameName reports whether two names are equal after normalization.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

// SameBirthDate compares dates componentwise, ignoring time of day and
// timezone.
func SameBirthDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
