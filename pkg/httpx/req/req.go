package req

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"explore_tours/pkg/errcodes"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary         //nolint:gochecknoglobals // skip
	validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // skip
)

func Read(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return failure.NewInvalidArgumentError(
			fmt.Errorf("json.Decode: %w", err).Error(),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription("Invalid JSON"),
		)
	}

	if err := validate.StructCtx(r.Context(), dest); err != nil {
		return failure.NewInvalidArgumentError(
			"validation error",
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription(err.Error()),
		)
	}

	return nil
}

// PathInt64 parses a numeric chi URL parameter. A malformed value is reported
// as an invalid argument with the given code.
func PathInt64(r *http.Request, name string, code failure.ErrorCode) (int64, error) {
	raw := chi.URLParam(r, name)

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, failure.NewInvalidArgumentError(
			fmt.Errorf("strconv.ParseInt(%s): %w", name, err).Error(),
			failure.WithCode(code),
			failure.WithDescription(fmt.Sprintf("%s must be an integer, got %q", name, raw)),
		)
	}

	return v, nil
}

// QueryInt returns def when the parameter is absent.
func QueryInt(r *http.Request, name string, def int, code failure.ErrorCode) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, failure.NewInvalidArgumentError(
			fmt.Errorf("strconv.Atoi(%s): %w", name, err).Error(),
			failure.WithCode(code),
			failure.WithDescription(fmt.Sprintf("%s must be an integer, got %q", name, raw)),
		)
	}

	return v, nil
}

// QueryInt64List parses comma separated integers, e.g. ?customers=1,2,3.
// Repeated parameters are accepted too.
func QueryInt64List(r *http.Request, name string, code failure.ErrorCode) ([]int64, error) {
	var result []int64

	for _, raw := range r.URL.Query()[name] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}

			v, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, failure.NewInvalidArgumentError(
					fmt.Errorf("strconv.ParseInt(%s): %w", name, err).Error(),
					failure.WithCode(code),
					failure.WithDescription(fmt.Sprintf("%s must be a list of integers, got %q", name, raw)),
				)
			}

			result = append(result, v)
		}
	}

	return result, nil
}

func Has(r *http.Request, name string) bool {
	return r.URL.Query().Has(name)
}
