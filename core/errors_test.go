package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, NOERROR, Code(nil))
	assert.Equal(t, EINTERNAL, Code(errors.New("plain")))
	err := Error(EMISSING, "string %d not found", 7)
	assert.Equal(t, EMISSING, Code(err))
	assert.Equal(t, "string 7 not found", UserMessage(err))
	assert.True(t, Failed(err))
	assert.False(t, IsWarning(err))
}

func TestWrappedErrors(t *testing.T) {
	cause := errors.New("short read")
	err := WrapError(cause, ECORRUPT, "record at %d", 12)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ECORRUPT, Code(err))
	assert.Contains(t, err.Error(), "short read")
	//
	w := ErrorWithCode(nil, EWARNING)
	assert.True(t, IsWarning(w))
	assert.False(t, Failed(w))
	assert.Equal(t, "warning: partial match", UserMessage(w))
}

func TestAllocators(t *testing.T) {
	b, err := Alloc(nil, 8)
	require.NoError(t, err)
	assert.Len(t, b, 8)
	budget := &BudgetAllocator{Remaining: 10}
	_, err = Alloc(budget, 6)
	require.NoError(t, err)
	_, err = Alloc(budget, 6)
	assert.Equal(t, ERESOURCES, Code(err))
	assert.Equal(t, 4, budget.Remaining)
	_, err = HeapAllocator{}.Alloc(-1)
	assert.Equal(t, EINVALID, Code(err))
}
