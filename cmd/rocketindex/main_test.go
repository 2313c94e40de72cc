package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFormat_AcceptsJSONAndText(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validateFormat("json"))
	assert.NoError(t, validateFormat("text"))
}

func TestValidateFormat_RejectsUnknownFormat(t *testing.T) {
	t.Parallel()
	assert.Error(t, validateFormat("yaml"))
}

func TestAsNotFound_MatchesNotFoundErrOnly(t *testing.T) {
	t.Parallel()

	var nf notFoundErr
	assert.True(t, asNotFound(newNotFound("no symbol %q", "Foo"), &nf))
	assert.Equal(t, `no symbol "Foo"`, nf.msg)

	nf = notFoundErr{}
	assert.False(t, asNotFound(errors.New("boom"), &nf))
}
