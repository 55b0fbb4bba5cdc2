package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/interfaces/http/dto"
)

type tenantCodePayload struct {
	TenantCode string `json:"tenant_code" binding:"required,tenantcode"`
	Password   string `json:"password" binding:"required,min=8"`
}

func validationTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	SetupValidator()

	engine := gin.New()
	engine.POST("/probe", func(c *gin.Context) {
		var payload tenantCodePayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, FormatValidationErrors(err, "req-1"))
			return
		}
		c.Status(http.StatusOK)
	})
	return engine
}

func postJSON(engine *gin.Engine, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/probe", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)
	return rec
}

func TestTenantCodeValidation(t *testing.T) {
	engine := validationTestEngine(t)

	t.Run("accepts valid tenant code", func(t *testing.T) {
		rec := postJSON(engine, `{"tenant_code": "ACME-01", "password": "secret-password"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects tenant code with illegal characters", func(t *testing.T) {
		rec := postJSON(engine, `{"tenant_code": "acme corp!", "password": "secret-password"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), dto.ErrCodeValidation)
		assert.Contains(t, rec.Body.String(), "tenant_code")
	})

	t.Run("rejects tenant code over 50 characters", func(t *testing.T) {
		long := strings.Repeat("A", 51)
		rec := postJSON(engine, `{"tenant_code": "`+long+`", "password": "secret-password"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("reports field names from json tags", func(t *testing.T) {
		rec := postJSON(engine, `{"tenant_code": "ACME", "password": "short"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"field":"password"`)
		assert.Contains(t, rec.Body.String(), "at least 8 characters")
	})
}

func TestFormatValidationErrorsNonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-2")
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
	assert.Equal(t, "req-2", resp.Error.RequestID)
}
