package validate

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/baechuer/real-time-ressys/services/location-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/location-service/internal/transport/http/dto"
)

// maxBodyBytes caps request bodies; a city name is at most a few hundred bytes.
const maxBodyBytes = 64 << 10

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

// DecodeJSON decodes a JSON body into dst. Unknown fields are ignored.
func DecodeJSON(r *http.Request, dst any) error {
	return render.DecodeJSON(r.Body, dst)
}

// DecodeCreateCity reads a create request from a JSON or form body and validates it.
func DecodeCreateCity(w http.ResponseWriter, r *http.Request) (dto.CreateCityReq, error) {
	var req dto.CreateCityReq
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if isForm(r) {
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return req, domain.ErrValidation("invalid form body")
		}
		req.Name = r.PostFormValue("name")
	} else if err := DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		return req, domain.ErrValidation("invalid json body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := Struct(req); err != nil {
		return req, err
	}
	return req, nil
}

// Struct runs tag validation and reports failures as a validation error keyed by json field.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.ErrValidation("invalid request")
	}
	meta := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		meta[fe.Field()] = describe(fe)
	}
	return domain.ErrValidationMeta("invalid request", meta)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return "must be <= " + fe.Param() + " chars"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}
