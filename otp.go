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

package vistos

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// OTP is a generated one-time password. Only the hash and expiry are
// persisted; the plain code exists just long enough to be delivered.
type OTP struct {
	Code      string
	Hash      string
	ExpiresAt time.Time
}

// GenerateOTP creates a 6-digit code with the configured expiry window.
func GenerateOTP(expiryMinutes int) (*OTP, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return nil, err
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)
	return &OTP{
		Code:      code,
		Hash:      HashOTP(code),
		ExpiresAt: time.Now().Add(time.Duration(expiryMinutes) * time.Minute),
	}, nil
}

// HashOTP returns the hex sha256 digest of a code.
func HashOTP(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// VerifyOTPCode checks a submitted code against the stored hash and expiry.
func VerifyOTPCode(code, storedHash string, expiresAt *time.Time) bool {
	if storedHash == "" || expiresAt == nil {
		return false
	}
	if time.Now().After(*expiresAt) {
		return false
	}
	inputHash := HashOTP(code)
	return subtle.ConstantTimeCompare([]byte(inputHash), []byte(storedHash)) == 1
}
