package apperrors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Job not found", ErrJobNotFound.Error())

	wrapped := New(http.StatusInternalServerError, "Failed to retrieve job status", errors.New("redis down"))
	assert.Equal(t, "Failed to retrieve job status: redis down", wrapped.Error())
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("redis down")
	wrapped := New(http.StatusInternalServerError, "Failed to retrieve job status", cause)
	assert.True(t, errors.Is(wrapped, cause))
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	Respond(c, ErrJobNotFound)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.JSONEq(t, `{"error": "Job not found"}`, recorder.Body.String())
}
