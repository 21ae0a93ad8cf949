package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseDBError_Classification(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"nil error", nil, "", 0},
		{"record not found", gorm.ErrRecordNotFound, ResourceNotFound, http.StatusNotFound},
		{"postgres duplicate key", stderrors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email"`), ResourceAlreadyExists, http.StatusConflict},
		{"sqlite unique constraint", stderrors.New("UNIQUE constraint failed: users.email"), ResourceAlreadyExists, http.StatusConflict},
		{"foreign key violation", stderrors.New(`ERROR: update or delete violates foreign key constraint`), ResourceConflict, http.StatusConflict},
		{"connection refused", stderrors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), InternalDatabaseError, http.StatusServiceUnavailable},
		{"unclassified", stderrors.New("something broke"), InternalDatabaseError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseDBError(tt.err)
			assert.Equal(t, tt.code, info.Code)
			assert.Equal(t, tt.status, info.StatusCode)
		})
	}
}

func TestIsDuplicateKeyError(t *testing.T) {
	assert.True(t, IsDuplicateKeyError(stderrors.New("duplicate key value violates unique constraint")))
	assert.True(t, IsDuplicateKeyError(stderrors.New("UNIQUE constraint failed: cart_items.user_id")))
	assert.False(t, IsDuplicateKeyError(stderrors.New("connection reset by peer")))
	assert.False(t, IsDuplicateKeyError(nil))
}
