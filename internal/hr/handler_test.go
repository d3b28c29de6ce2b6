package hr

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func transitionContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/expense-reports/1/validate", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestBindTransitionAllowsEmptyBody(t *testing.T) {
	h := NewHandler(nil, zap.NewNop())
	c, _ := transitionContext(t, "")

	req, ok := h.bindTransition(c)

	assert.True(t, ok)
	assert.Nil(t, req.Montant)
}

func TestBindTransitionParsesOverrideAmount(t *testing.T) {
	h := NewHandler(nil, zap.NewNop())
	c, _ := transitionContext(t, `{"montant": 250.00}`)

	req, ok := h.bindTransition(c)

	require.True(t, ok)
	require.NotNil(t, req.Montant)
	assert.Equal(t, 250.00, *req.Montant)
}

func TestBindTransitionRejectsMalformedBody(t *testing.T) {
	h := NewHandler(nil, zap.NewNop())
	c, w := transitionContext(t, `{"montant": "deux cents"}`)

	req, ok := h.bindTransition(c)

	assert.False(t, ok)
	assert.Nil(t, req.Montant)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
