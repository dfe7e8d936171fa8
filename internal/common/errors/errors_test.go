package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStandardError_UnwrapKeepsCause(t *testing.T) {
	err := NewSummaryFailedError(context.DeadlineExceeded)

	assert.True(t, stderrors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, err.Error(), "SUMMARY_FAILED")
	assert.Contains(t, err.Error(), "deadline exceeded")
}

func TestHasCode_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("contact 42: %w", NewCRMWriteFailedError("42", stderrors.New("status 500")))

	assert.True(t, HasCode(wrapped, ErrCodeCRMWriteFailed))
	assert.False(t, HasCode(wrapped, ErrCodeCRMReadFailed))
	assert.Equal(t, "42", AsStandard(wrapped).Metadata["contactId"])
}

func TestGetErrorCategory(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeSourceTimeout, "SOURCE"},
		{ErrCodeSourceUnavailable, "SOURCE"},
		{ErrCodeLLMTimeout, "CONTACT"},
		{ErrCodeCRMWriteFailed, "CONTACT"},
		{ErrCodeCRMReadFailed, "FATAL"},
		{ErrCodeRunInProgress, "FATAL"},
		{ErrCodeConfigInvalid, "CONFIG"},
		{ErrorCode("SOMETHING_ELSE"), "OTHER"},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorCategory(tt.code))
		})
	}
}

func TestIsRecoverable(t *testing.T) {
	assert.True(t, IsRecoverable(NewSourceTimeoutError("news", 8*time.Second)))
	assert.True(t, IsRecoverable(NewCRMWriteFailedError("1", stderrors.New("x"))))
	assert.False(t, IsRecoverable(NewCRMReadFailedError(stderrors.New("x"))))
	assert.False(t, IsRecoverable(stderrors.New("plain")))
}

func TestHTTPStatusAndResponse(t *testing.T) {
	assert.Equal(t, http.StatusConflict, HTTPStatus(NewRunInProgressError("run-1")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(NewUnauthorizedError()))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(NewCRMReadFailedError(stderrors.New("503"))))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(NewCRMNotConfiguredError("no token")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(stderrors.New("boom")))

	body := ToResponse(NewSourceTimeoutError("bio", time.Second))
	assert.Equal(t, ErrCodeSourceTimeout, body["code"])
	assert.Equal(t, map[string]interface{}{"source": "bio"}, body["metadata"])
	assert.Contains(t, body["error"], "bio")
}
