package transport

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/goliatone/go-disputes/core"
	goerrors "github.com/goliatone/go-errors"
)

func transportError(message string, category goerrors.Category, code int) error {
	return goerrors.New(message, category).
		WithCode(code).
		WithTextCode(transportTextCode(category))
}

func transportTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return core.ServiceErrorBadInput
	case goerrors.CategoryAuth:
		return core.ServiceErrorInvalidSignature
	case goerrors.CategoryAuthz:
		return core.ServiceErrorPermissionDenied
	case goerrors.CategoryNotFound:
		return core.ServiceErrorOrderNotFound
	default:
		return core.ServiceErrorInternal
	}
}

func writeJSONError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	textCode := core.ServiceErrorInternal
	message := "An unexpected error occurred"

	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		if rich.Code != 0 {
			code = rich.Code
		}
		if rich.TextCode != "" {
			textCode = rich.TextCode
		}
		if strings.TrimSpace(rich.Message) != "" {
			message = rich.Message
		}
	} else if err != nil {
		message = err.Error()
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": message,
			"code":    textCode,
		},
	})
}
