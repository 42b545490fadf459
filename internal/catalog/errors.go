package catalog

import "errors"

// Error codes the client surfaces with dedicated hints.
const (
	CodeAuthFailed       = 5
	CodeTooManyRequests  = 6
	CodePermissionDenied = 15
	CodeAccessDenied     = 201
)

func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// Hint returns a short suggestion for well-known api errors, or "".
func Hint(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return ""
	}
	switch apiErr.Code {
	case CodeAuthFailed:
		return "the token is invalid or expired, run 'moosic auth login'"
	case CodeTooManyRequests:
		return "too many requests per second, wait a moment and try again"
	case CodePermissionDenied, CodeAccessDenied:
		return "access denied, the audio may be private or need an access key"
	default:
		return ""
	}
}
