package errors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
	}{
		{name: "nil error", err: nil, context: "create flavor", wantCode: InternalServerError},
		{name: "record not found", err: fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound), context: "get flavor", wantCode: ResourceNotFound},
		{name: "translated duplicate", err: gorm.ErrDuplicatedKey, context: "create flavor", wantCode: ResourceAlreadyExists},
		{name: "postgres duplicate on name", err: errors.New(`ERROR: duplicate key value violates unique constraint "idx_flavors_name"`), context: "create flavor", wantCode: FlavorNameExists},
		{name: "sqlite unique on name", err: errors.New("UNIQUE constraint failed: flavors.name"), context: "update flavor", wantCode: FlavorNameExists},
		{name: "locked database", err: errors.New("database is locked"), context: "delete flavor", wantCode: InternalDatabaseError},
		{name: "unknown", err: errors.New("boom"), context: "delete flavor", wantCode: InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
			if tt.err != nil {
				assert.NotContains(t, info.Message, tt.err.Error())
			}
		})
	}
}

func TestParseError_ContextMessages(t *testing.T) {
	assert.Equal(t, "Flavor not found", ParseError(gorm.ErrRecordNotFound, "get flavor").Message)
	assert.Contains(t, ParseError(errors.New("x"), "update flavor").Message, "update")
}

func TestRespondWithValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithValidationError(c, "", "bad input", map[string]string{"price": "must be positive"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"VALIDATION_INVALID_INPUT","message":"bad input","fields":{"price":"must be positive"}}`, w.Body.String())
}
