package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coastline/villas/internal/captcha"
	"coastline/villas/internal/config"
)

// MockTurnstileVerifier
type MockTurnstileVerifier struct {
	mock.Mock
}

func (m *MockTurnstileVerifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	args := m.Called(ctx, token, remoteIP)
	return args.Bool(0), args.Error(1)
}

func (m *MockTurnstileVerifier) GenerateHumanToken(ip, fingerprint, spaSession string, ttl time.Duration) (string, error) {
	args := m.Called(ip, fingerprint, spaSession, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockTurnstileVerifier) ValidateHumanToken(tokenString, ip, fingerprint, spaSession string) bool {
	args := m.Called(tokenString, ip, fingerprint, spaSession)
	return args.Bool(0)
}

type captchaResult struct {
	IsHuman bool   `json:"is_human"`
	Issued  string `json:"issued"`
}

func setupCaptchaTestEngine(cfg *config.Config, verifier captcha.ITurnstileVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CaptchaMiddleware(cfg, verifier))
	r.Any("/api/submit-booking", func(c *gin.Context) {
		c.JSON(http.StatusOK, captchaResult{
			IsHuman: c.GetBool(ContextKeyIsHumanVerified),
			Issued:  c.Writer.Header().Get("X-C-T"),
		})
	})
	return r
}

func submitWithHeaders(t *testing.T, r *gin.Engine, method, ip string, headers map[string]string) captchaResult {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, "/api/submit-booking", nil)
	req.RemoteAddr = ip + ":12345"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var res captchaResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestCaptchaMiddleware_NoHeaders(t *testing.T) {
	mockVerifier := new(MockTurnstileVerifier)
	router := setupCaptchaTestEngine(&config.Config{}, mockVerifier)

	res := submitWithHeaders(t, router, http.MethodPost, "1.1.1.1", nil)

	assert.False(t, res.IsHuman)
	assert.Empty(t, res.Issued)
	mockVerifier.AssertNotCalled(t, "Verify")
	mockVerifier.AssertNotCalled(t, "ValidateHumanToken")
}

func TestCaptchaMiddleware_SolvedChallengeIssuesToken(t *testing.T) {
	cfg := &config.Config{CaptchaTokenTTL: 10 * time.Minute}
	mockVerifier := new(MockTurnstileVerifier)
	router := setupCaptchaTestEngine(cfg, mockVerifier)

	mockVerifier.On("Verify", mock.Anything, "solved", "1.1.1.1").Return(true, nil)
	mockVerifier.On("GenerateHumanToken", "1.1.1.1", "fp1", "sess1", cfg.CaptchaTokenTTL).Return("human-token", nil)

	res := submitWithHeaders(t, router, http.MethodPost, "1.1.1.1", map[string]string{
		"X-C-V": "solved", "X-BFP": "fp1", "X-SPA": "sess1",
	})

	assert.True(t, res.IsHuman)
	assert.Equal(t, "human-token", res.Issued)
	mockVerifier.AssertExpectations(t)
}

func TestCaptchaMiddleware_ChallengeOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		verified bool
		err      error
	}{
		{name: "rejected", verified: false},
		{name: "siteverify unreachable", err: errors.New("timeout")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockVerifier := new(MockTurnstileVerifier)
			router := setupCaptchaTestEngine(&config.Config{}, mockVerifier)
			mockVerifier.On("Verify", mock.Anything, "challenge", "2.2.2.2").Return(tt.verified, tt.err)

			res := submitWithHeaders(t, router, http.MethodPost, "2.2.2.2", map[string]string{"X-C-V": "challenge"})

			assert.False(t, res.IsHuman)
			assert.Empty(t, res.Issued)
			mockVerifier.AssertNotCalled(t, "GenerateHumanToken")
		})
	}
}

func TestCaptchaMiddleware_TokenIssueFailureStillHuman(t *testing.T) {
	mockVerifier := new(MockTurnstileVerifier)
	router := setupCaptchaTestEngine(&config.Config{}, mockVerifier)
	mockVerifier.On("Verify", mock.Anything, "solved", "5.5.5.5").Return(true, nil)
	mockVerifier.On("GenerateHumanToken", "5.5.5.5", "", "", time.Duration(0)).Return("", errors.New("sign failed"))

	res := submitWithHeaders(t, router, http.MethodPost, "5.5.5.5", map[string]string{"X-C-V": "solved"})

	assert.True(t, res.IsHuman)
	assert.Empty(t, res.Issued)
}

func TestCaptchaMiddleware_HumanToken(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{name: "valid", valid: true},
		{name: "invalid", valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockVerifier := new(MockTurnstileVerifier)
			router := setupCaptchaTestEngine(&config.Config{}, mockVerifier)
			mockVerifier.On("ValidateHumanToken", "xct", "3.3.3.3", "fp2", "sess2").Return(tt.valid)

			res := submitWithHeaders(t, router, http.MethodPost, "3.3.3.3", map[string]string{
				"X-C-T": "xct", "X-BFP": "fp2", "X-SPA": "sess2",
			})

			assert.Equal(t, tt.valid, res.IsHuman)
			assert.Empty(t, res.Issued)
			mockVerifier.AssertExpectations(t)
			mockVerifier.AssertNotCalled(t, "Verify")
		})
	}
}

func TestCaptchaMiddleware_InvalidTokenFallsBackToChallenge(t *testing.T) {
	mockVerifier := new(MockTurnstileVerifier)
	router := setupCaptchaTestEngine(&config.Config{}, mockVerifier)
	mockVerifier.On("ValidateHumanToken", "expired", "4.4.4.4", "", "").Return(false)
	mockVerifier.On("Verify", mock.Anything, "solved", "4.4.4.4").Return(true, nil)
	mockVerifier.On("GenerateHumanToken", "4.4.4.4", "", "", time.Duration(0)).Return("fresh", nil)

	res := submitWithHeaders(t, router, http.MethodPost, "4.4.4.4", map[string]string{"X-C-T": "expired", "X-C-V": "solved"})

	assert.True(t, res.IsHuman)
	assert.Equal(t, "fresh", res.Issued)
}

func TestCaptchaMiddleware_SkipsNonPost(t *testing.T) {
	mockVerifier := new(MockTurnstileVerifier)
	router := setupCaptchaTestEngine(&config.Config{}, mockVerifier)

	res := submitWithHeaders(t, router, http.MethodGet, "6.6.6.6", map[string]string{"X-C-V": "solved"})

	assert.False(t, res.IsHuman)
	mockVerifier.AssertNotCalled(t, "Verify")
}
