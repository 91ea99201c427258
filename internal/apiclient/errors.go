package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/angelmondragon/stride-storefront/pkg/errors"
)

// APIError is a non-2xx or success:false response.
type APIError struct {
	Status  int
	Code    pkgerrors.Code
	Message string
	Details json.RawMessage
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d (%s)", e.Status, e.Code)
	}
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// DetailMap decodes object-shaped details, such as per-field validation messages.
func (e *APIError) DetailMap() map[string]string {
	if len(e.Details) == 0 {
		return nil
	}
	var out map[string]string
	if err := json.Unmarshal(e.Details, &out); err != nil {
		return nil
	}
	return out
}

func newAPIError(status int, env envelope, decodeErr error) *APIError {
	apiErr := &APIError{Status: status, Message: env.Message}
	if env.Error != nil {
		apiErr.Code = pkgerrors.Code(env.Error.Code)
		apiErr.Details = env.Error.Details
	}
	if apiErr.Code == "" {
		apiErr.Code = pkgerrors.CodeForStatus(status)
	}
	if apiErr.Message == "" {
		if decodeErr != nil {
			apiErr.Message = http.StatusText(status)
		} else {
			apiErr.Message = pkgerrors.MetadataFor(apiErr.Code).PublicMessage
		}
	}
	return apiErr
}

// AsAPIError extracts an *APIError from err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a 401 from the API or a missing login.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status == http.StatusUnauthorized
}
