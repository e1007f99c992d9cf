package errorx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("duplicate entry")
	err := Wrap(cause, CodeRegistryError, "添加好友记录失败")

	assert.Equal(t, "添加好友记录失败: duplicate entry", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeRegistryError, GetCode(err))
}

func TestGetCodeDefaultsToServerBusy(t *testing.T) {
	assert.Equal(t, CodeServerBusy, GetCode(errors.New("boom")))
}

func TestPredefinedErrorsMatchWithErrorsIs(t *testing.T) {
	wrapped := fmt.Errorf("remove row: %w", ErrOutOfRange)
	assert.ErrorIs(t, wrapped, ErrOutOfRange)
	assert.NotErrorIs(t, wrapped, ErrReentrant)
}

func TestHasCodeWalksNestedCodeErrors(t *testing.T) {
	inner := Wrap(errors.New("record not found"), CodeNotFound, "查询好友")
	outer := Wrap(inner, CodeRegistryError, "删除好友")

	assert.True(t, HasCode(outer, CodeRegistryError))
	assert.True(t, HasCode(outer, CodeNotFound))
	assert.False(t, HasCode(outer, CodeCacheError))
	assert.True(t, IsNotFound(outer))
}
