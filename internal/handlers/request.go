package handlers

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/abacus-tasks/internal/errors"
	"github.com/yukikurage/abacus-tasks/internal/models"
	"go.uber.org/zap"
)

// patchBody keeps the raw JSON of each field sent in a partial update so an
// absent field can be told apart from an explicit null.
type patchBody map[string]json.RawMessage

func bindPatch(c *gin.Context) (patchBody, error) {
	var body patchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, err
	}
	return body, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// field decodes a non-nullable field. It returns nil when the field is absent.
func field[T any](body patchBody, name string) (*T, error) {
	raw, ok := body[name]
	if !ok {
		return nil, nil
	}
	if isNull(raw) {
		return nil, apierrors.NewValidationError(name, "must not be null")
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, apierrors.NewValidationError(name, "has the wrong type")
	}
	return &v, nil
}

// nullableField decodes a field that may be set to null. clear is true for
// an explicit null.
func nullableField[T any](body patchBody, name string) (value *T, clear bool, err error) {
	raw, ok := body[name]
	if !ok {
		return nil, false, nil
	}
	if isNull(raw) {
		return nil, true, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false, apierrors.NewValidationError(name, "has the wrong type")
	}
	return &v, false, nil
}

// parseDueDate turns an optional YYYY-MM-DD string into a date.
func parseDueDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	due, err := models.ParseDate("due_date", *value)
	if err != nil {
		return nil, err
	}
	return &due, nil
}

// logUnexpected logs errors that map to a 500 so the cause is not lost
func logUnexpected(log *zap.Logger, c *gin.Context, err error) {
	switch {
	case apierrors.Is(err, apierrors.ErrValidation),
		apierrors.Is(err, apierrors.ErrReference),
		apierrors.Is(err, apierrors.ErrPolicy),
		apierrors.Is(err, apierrors.ErrNotFound),
		apierrors.Is(err, apierrors.ErrConflict):
		return
	}
	log.Error("Request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
}
