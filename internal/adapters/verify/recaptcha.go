// Package verify implements the bot-verification port against the
// Google reCAPTCHA siteverify endpoint.
package verify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/telehealth-companion/booking-service/internal/config"
	"github.com/telehealth-companion/booking-service/internal/core/domain"
	"github.com/telehealth-companion/booking-service/internal/core/ports"
)

const siteVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

type RecaptchaVerifier struct {
	secretKey string
	endpoint  string
	client    *http.Client
	cb        *gobreaker.CircuitBreaker
}

var _ ports.BotVerifier = (*RecaptchaVerifier)(nil)

func NewRecaptchaVerifier(secretKey string) *RecaptchaVerifier {
	return &RecaptchaVerifier{
		secretKey: secretKey,
		endpoint:  siteVerifyURL,
		client:    http.DefaultClient,
		cb:        config.NewCircuitBreaker("Recaptcha"),
	}
}

// NewRecaptchaVerifierWithEndpoint points the verifier at a different
// siteverify URL, for tests.
func NewRecaptchaVerifierWithEndpoint(secretKey, endpoint string) *RecaptchaVerifier {
	v := NewRecaptchaVerifier(secretKey)
	v.endpoint = endpoint
	return v
}

type siteVerifyResponse struct {
	Success bool `json:"success"`
}

// Verify checks the challenge token with the verification service. An
// empty token fails without a network call; an unreachable service or
// open breaker fails closed.
func (v *RecaptchaVerifier) Verify(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrVerificationFailed
	}

	ok, err := v.cb.Execute(func() (any, error) {
		return v.siteVerify(ctx, token)
	})
	if err != nil {
		return domain.ErrVerificationFailed
	}
	if ok != true {
		return domain.ErrVerificationFailed
	}
	return nil
}

func (v *RecaptchaVerifier) siteVerify(ctx context.Context, token string) (bool, error) {
	form := url.Values{
		"secret":   {v.secretKey},
		"response": {token},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var result siteVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, err
	}
	return result.Success, nil
}
