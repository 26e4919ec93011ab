package validate

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/samyukta/registration-service/internal/domain"
)

const maxBodyBytes = 1 << 20

// DecodeJSON rejects unknown fields, trailing values and bodies over 1MiB.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return domain.ErrValidationMeta("invalid json body", map[string]string{"body": err.Error()})
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return domain.ErrValidation("invalid json body: multiple JSON values")
	}
	return nil
}

func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// UUIDParam fails with a validation error naming the parameter.
func UUIDParam(name, v string) error {
	if !IsUUID(v) {
		return domain.ErrValidationMeta("invalid path param", map[string]string{name: "must be a uuid"})
	}
	return nil
}
