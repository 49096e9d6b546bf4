package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"movilidad/domain/core"
)

func TestWrapKeepsCode(t *testing.T) {
	base := UnknownTarget("OBJ_x")
	wrapped := Wrapf(base, "run %s", "r1")

	assert.Equal(t, CodeUnknownTarget, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, base))
	assert.Contains(t, wrapped.Error(), "run r1")
	assert.True(t, core.IsUnknownTarget(wrapped))
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	err := Wrap(fmt.Errorf("boom"), "load")
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Nil(t, Wrap(nil, "x"))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("ctx: %w", AssetUnavailable("records", nil))
	assert.True(t, IsAppError(err))
	assert.Equal(t, CodeAssetUnavailable, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, fmt.Errorf("bad json"))
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "bad json", err.(*AppError).Message)
}
