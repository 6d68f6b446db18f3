package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindNotFound, http.StatusNotFound},
		{KindPrecondition, http.StatusUnprocessableEntity},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindNotImplemented, http.StatusNotImplemented},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, New(c.kind, "x").Status(), string(c.kind))
	}
}

func TestErrorString(t *testing.T) {
	err := Preconditionf("branch has classes")
	assert.Equal(t, "branch has classes", err.Error())

	err = err.WithDetail("%d classes belong to this branch", 3)
	assert.Equal(t, "branch has classes: 3 classes belong to this branch", err.Error())
}

func TestFrom(t *testing.T) {
	original := Conflictf("roll number already exists")
	assert.Same(t, original, From(original))

	cause := errors.New("connection reset")
	wrapped := From(cause)
	assert.Equal(t, KindInternal, wrapped.Kind)
	assert.ErrorIs(t, wrapped, cause)
}

func TestFromDB(t *testing.T) {
	dup := FromDB(gorm.ErrDuplicatedKey, "email already in use", "failed to create user")
	assert.Equal(t, KindConflict, dup.Kind)
	assert.Equal(t, "email already in use", dup.Message)
	assert.ErrorIs(t, dup, gorm.ErrDuplicatedKey)

	unnamed := FromDB(gorm.ErrDuplicatedKey, "", "failed to create timetable")
	assert.Equal(t, KindConflict, unnamed.Kind)
	assert.Equal(t, "already exists", unnamed.Message)

	missing := FromDB(gorm.ErrRecordNotFound, "", "failed to fetch user")
	assert.Equal(t, KindNotFound, missing.Kind)

	other := FromDB(errors.New("disk full"), "", "failed to fetch user")
	assert.Equal(t, KindInternal, other.Kind)
	assert.Equal(t, "failed to fetch user", other.Message)
}

func TestIsKind(t *testing.T) {
	assert.True(t, IsKind(NotFoundf("class not found"), KindNotFound))
	assert.False(t, IsKind(NotFoundf("class not found"), KindConflict))
	assert.False(t, IsKind(errors.New("plain"), KindInternal))
}
