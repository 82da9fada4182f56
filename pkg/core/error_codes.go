package core

import "net/http"

// Exchange error codes carried in the "error.code" field of failed responses.
const (
	CodeActionForbidden         = 403
	CodeTooManyRequests         = 429
	CodeInternalServerError     = 500
	CodeServiceUnavailable      = 503
	CodeGatewayTimeout          = 504
	CodeAuthorizationRequired   = 1001
	CodeAuthorizationFailed     = 1002
	CodeActionForbiddenForKey   = 1003
	CodeUnsupportedAuthMethod   = 1004
	CodeSymbolNotFound          = 2001
	CodeCurrencyNotFound        = 2002
	CodeQuantityNotValid        = 2010
	CodeQuantityTooLow          = 2011
	CodeBadQuantity             = 2012
	CodePriceNotValid           = 2020
	CodePriceTooLow             = 2021
	CodeBadPrice                = 2022
	CodeValidationError         = 10001
	CodeInsufficientFunds       = 20001
	CodeOrderNotFound           = 20002
	CodeLimitExceeded           = 20003
	CodeTransactionNotFound     = 20004
	CodeDuplicateClientOrderID  = 20008
	CodeAddressGenerationFailed = 20010
)

// ClassifyAPICode maps an exchange error code to an ErrorType.
// The HTTP status is used when the code is not in the table.
func ClassifyAPICode(code, status int) ErrorType {
	switch code {
	case CodeTooManyRequests, CodeLimitExceeded:
		return ErrorTypeRateLimit
	case CodeActionForbidden, CodeAuthorizationRequired, CodeAuthorizationFailed,
		CodeActionForbiddenForKey, CodeUnsupportedAuthMethod:
		return ErrorTypeAuthentication
	case CodeSymbolNotFound, CodeCurrencyNotFound, CodeOrderNotFound, CodeTransactionNotFound:
		return ErrorTypeNotFound
	case CodeQuantityNotValid, CodeQuantityTooLow, CodeBadQuantity,
		CodePriceNotValid, CodePriceTooLow, CodeBadPrice, CodeDuplicateClientOrderID:
		return ErrorTypeInvalidOrder
	case CodeInsufficientFunds:
		return ErrorTypeInsufficientFunds
	case CodeValidationError:
		return ErrorTypeBadRequest
	case CodeGatewayTimeout:
		return ErrorTypeTimeout
	case CodeInternalServerError, CodeServiceUnavailable, CodeAddressGenerationFailed:
		return ErrorTypeServerError
	}

	switch {
	case status == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrorTypeAuthentication
	case status == http.StatusNotFound:
		return ErrorTypeNotFound
	case status == http.StatusGatewayTimeout:
		return ErrorTypeTimeout
	case status >= http.StatusInternalServerError:
		return ErrorTypeServerError
	case status >= http.StatusBadRequest:
		return ErrorTypeBadRequest
	default:
		return ErrorTypeUnknown
	}
}
