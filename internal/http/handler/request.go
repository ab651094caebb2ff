package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sandeepkv93/statuspage-service/internal/http/middleware"
	"github.com/sandeepkv93/statuspage-service/internal/http/response"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindJSON decodes and validates the request body into dst. It writes the
// 400 response itself and reports false when the body is unusable.
func bindJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.Error(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large", nil)
			return false
		}
		response.Validation(w, r, []string{"Invalid JSON body"})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		response.Validation(w, r, validationMessages(err))
		return false
	}
	return true
}

func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out = append(out, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			out = append(out, "Invalid email format")
		case "max":
			out = append(out, fmt.Sprintf("%s must be %s characters or less", fe.Field(), fe.Param()))
		default:
			out = append(out, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return out
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}

// currentUserID is only called behind RequireSession.
func currentUserID(r *http.Request) string {
	auth, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		return ""
	}
	return auth.User.ID
}
