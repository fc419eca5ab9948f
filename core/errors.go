package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Error kinds are the classification labels stored on error records and
// surfaced in webhook results. Gate failures map 1:1 onto a kind; anything
// unexpected inside the pipeline is a ProcessingError.
const (
	KindInvalidSignature       = "InvalidSignature"
	KindUnsupportedWebhookType = "UnsupportedWebhookType"
	KindInvalidShopDomain      = "InvalidShopDomain"
	KindJSONParseError         = "JSONParseError"
	KindUnsupportedDisputeType = "UnsupportedDisputeType"
	KindOrderNotFound          = "OrderNotFound"
	KindProcessingError        = "ProcessingError"
)

const (
	ServiceErrorBadInput               = "DISPUTES_BAD_INPUT"
	ServiceErrorInvalidSignature       = "DISPUTES_INVALID_SIGNATURE"
	ServiceErrorUnsupportedWebhookType = "DISPUTES_UNSUPPORTED_WEBHOOK_TYPE"
	ServiceErrorInvalidShopDomain      = "DISPUTES_INVALID_SHOP_DOMAIN"
	ServiceErrorJSONParse              = "DISPUTES_JSON_PARSE_ERROR"
	ServiceErrorUnsupportedDisputeType = "DISPUTES_UNSUPPORTED_DISPUTE_TYPE"
	ServiceErrorOrderNotFound          = "DISPUTES_ORDER_NOT_FOUND"
	ServiceErrorProcessing             = "DISPUTES_PROCESSING_ERROR"
	ServiceErrorPermissionDenied       = "DISPUTES_PERMISSION_DENIED"
	ServiceErrorInternal               = "DISPUTES_INTERNAL_ERROR"
)

func kindCategory(kind string) goerrors.Category {
	switch kind {
	case KindInvalidSignature:
		return goerrors.CategoryAuth
	case KindUnsupportedWebhookType, KindJSONParseError:
		return goerrors.CategoryBadInput
	case KindInvalidShopDomain:
		return goerrors.CategoryAuthz
	case KindUnsupportedDisputeType:
		return goerrors.CategoryValidation
	case KindOrderNotFound:
		return goerrors.CategoryNotFound
	default:
		return goerrors.CategoryInternal
	}
}

func kindTextCode(kind string) string {
	switch kind {
	case KindInvalidSignature:
		return ServiceErrorInvalidSignature
	case KindUnsupportedWebhookType:
		return ServiceErrorUnsupportedWebhookType
	case KindInvalidShopDomain:
		return ServiceErrorInvalidShopDomain
	case KindJSONParseError:
		return ServiceErrorJSONParse
	case KindUnsupportedDisputeType:
		return ServiceErrorUnsupportedDisputeType
	case KindOrderNotFound:
		return ServiceErrorOrderNotFound
	case KindProcessingError:
		return ServiceErrorProcessing
	default:
		return ServiceErrorInternal
	}
}

// KindHTTPStatus returns the response status a given error kind serves.
func KindHTTPStatus(kind string) int {
	return serviceHTTPStatus(kindCategory(kind))
}

func newKindError(kind string, message string) *goerrors.Error {
	return ensureServiceErrorEnvelope(
		goerrors.New(message, kindCategory(kind)).
			WithTextCode(kindTextCode(kind)).
			WithMetadata(map[string]any{"kind": kind}),
	)
}

func processingError(cause error) *goerrors.Error {
	if cause == nil {
		return newKindError(KindProcessingError, "chargeback processing failed")
	}
	return ensureServiceErrorEnvelope(
		goerrors.Wrap(cause, goerrors.CategoryInternal, "chargeback processing failed").
			WithTextCode(ServiceErrorProcessing).
			WithMetadata(map[string]any{"kind": KindProcessingError}),
	)
}

func serviceErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureServiceErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "signature"):
		return newServiceError(err.Error(), goerrors.CategoryAuth, ServiceErrorInvalidSignature)
	case strings.Contains(msg, "not found"):
		return newServiceError(err.Error(), goerrors.CategoryNotFound, ServiceErrorOrderNotFound)
	case strings.Contains(msg, "throttl"), strings.Contains(msg, "rate limit"):
		return newServiceError(err.Error(), goerrors.CategoryRateLimit, ServiceErrorBadInput)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "mismatch"):
		return newServiceError(err.Error(), goerrors.CategoryBadInput, ServiceErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureServiceErrorEnvelope(mapped)
}

func newServiceError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureServiceErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureServiceErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = serviceHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultServiceTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultServiceTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ServiceErrorBadInput
	case goerrors.CategoryNotFound:
		return ServiceErrorOrderNotFound
	case goerrors.CategoryAuth:
		return ServiceErrorInvalidSignature
	case goerrors.CategoryAuthz:
		return ServiceErrorPermissionDenied
	default:
		return ServiceErrorInternal
	}
}

func serviceHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
