package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/roll2bowl/partner-api/internal/pkg/cache"
	"github.com/roll2bowl/partner-api/internal/pkg/env"
)

const (
	// Expiration bounds how long a login code stays redeemable.
	Expiration = 5 * time.Minute
	codeLength = 6

	cacheKeyFormat = "otp:%s"
)

var (
	ErrNotRequested = errors.New("no login code was requested for this phone number")
	ErrMismatch     = errors.New("login code does not match")
)

// Generate creates a numeric login code for the phone number and stores
// its bcrypt hash with a TTL. The plain code is returned for delivery
// and never persisted.
func Generate(phoneNumber string) (string, error) {
	code, err := randomCode(codeLength)
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf(cacheKeyFormat, phoneNumber)
	if err := cache.Set(key, string(hash), Expiration); err != nil {
		return "", err
	}
	return code, nil
}

// Verify redeems a login code. A correct code is single-use; the stored
// hash is deleted on success so replays fail.
func Verify(phoneNumber, code string) error {
	key := fmt.Sprintf(cacheKeyFormat, phoneNumber)
	hash, err := cache.Get(key)
	if err != nil || hash == "" {
		return ErrNotRequested
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)); err != nil {
		return ErrMismatch
	}
	_ = cache.Delete(key)
	return nil
}

// StaticCode returns the development bypass code, empty outside dev.
// It lets local clients log in without an SMS provider.
func StaticCode() string {
	if !env.IsDev() {
		return ""
	}
	return env.GetEnv("OTP_DEV_CODE", "")
}

func randomCode(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits), nil
}
