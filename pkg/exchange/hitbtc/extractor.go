package hitbtc

import (
	"errors"

	"github.com/bytedance/sonic"

	"hitbtc/pkg/core"
)

var errNoErrorObject = errors.New(`error response has no "error" object`)

// wireJSON rejects strings that are not valid UTF-8.
var wireJSON = sonic.Config{ValidateString: true}.Froze()

// Extract decodes a response body. A 2xx body is decoded into T; any other
// status is decoded as the exchange error envelope and returned as
// *core.APIError. Bodies that match neither schema yield
// *core.DeserializationError carrying the raw bytes.
func Extract[T any](statusCode int, body []byte) (T, error) {
	var result T

	if statusCode < 200 || statusCode >= 300 {
		return result, extractError(statusCode, body)
	}

	if err := wireJSON.Unmarshal(body, &result); err != nil {
		return result, core.NewDeserializationError(statusCode, body, err)
	}
	return result, nil
}

// ExtractResponse is Extract over a transport response.
func ExtractResponse[T any](resp *core.Response) (T, error) {
	return Extract[T](resp.StatusCode, resp.Body)
}

func extractError(statusCode int, body []byte) error {
	var envelope hitbtcError
	if err := wireJSON.Unmarshal(body, &envelope); err != nil {
		return core.NewDeserializationError(statusCode, body, err)
	}
	if envelope.Error == nil {
		return core.NewDeserializationError(statusCode, body, errNoErrorObject)
	}
	return &core.APIError{
		StatusCode:  statusCode,
		Code:        envelope.Error.Code,
		Message:     envelope.Error.Message,
		Description: envelope.Error.Description,
	}
}
