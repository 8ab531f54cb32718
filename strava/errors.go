package strava

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Error kinds. Every *APIError matches exactly one of these with errors.Is.
var (
	ErrBadRequest         = errors.New("strava: bad request")
	ErrUnauthorized       = errors.New("strava: unauthorized")
	ErrInvalidToken       = errors.New("strava: invalid token")
	ErrNotFound           = errors.New("strava: not found")
	ErrRateLimited        = errors.New("strava: rate limit exceeded")
	ErrInternalServer     = errors.New("strava: internal server error")
	ErrServiceUnavailable = errors.New("strava: service unavailable")
	ErrUnknown            = errors.New("strava: unknown error")
	ErrNetwork            = errors.New("strava: network error")
)

// rateLimitMessage is the fault message Strava sends with a 403 when the
// application is over its request limit.
const rateLimitMessage = "Rate Limit Exceeded"

// FaultDetail is one entry of the errors list in a Strava fault.
type FaultDetail struct {
	Resource string `json:"resource"`
	Field    string `json:"field"`
	Code     string `json:"code"`
}

// Fault is the error payload Strava returns with failed requests.
type Fault struct {
	Message string        `json:"message"`
	Errors  []FaultDetail `json:"errors"`
}

func (f Fault) String() string {
	if len(f.Errors) == 0 {
		return f.Message
	}
	details := make([]string, 0, len(f.Errors))
	for _, d := range f.Errors {
		details = append(details, d.Resource+"."+d.Field+" "+d.Code)
	}
	return f.Message + " (" + strings.Join(details, ", ") + ")"
}

// applicationInvalid reports whether Strava rejected the token itself rather
// than the request.
func (f Fault) applicationInvalid() bool {
	for _, d := range f.Errors {
		if d.Resource == "Application" && d.Code == "invalid" {
			return true
		}
	}
	return false
}

type APIError struct {
	Kind       error
	StatusCode int
	Status     string
	Fault      Fault
	// Err is the transport failure behind ErrNetwork.
	Err error
}

func (e *APIError) Error() string {
	msg := e.Kind.Error()
	if e.Status != "" {
		msg += ": " + e.Status
	}
	if s := e.Fault.String(); s != "" {
		msg += ": " + s
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Is(target error) bool {
	return target == e.Kind
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func errorFromResponse(statusCode int, status string, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Status:     status,
	}
	if status == "" {
		apiErr.Status = fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode))
	}
	if err := json.Unmarshal(body, &apiErr.Fault); err != nil {
		apiErr.Fault = Fault{Message: strings.TrimSpace(string(body))}
	}
	apiErr.Kind = kindOf(statusCode, apiErr.Fault)
	return apiErr
}

func kindOf(statusCode int, fault Fault) error {
	switch statusCode {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		if fault.applicationInvalid() {
			return ErrInvalidToken
		}
		return ErrUnauthorized
	case http.StatusForbidden:
		if fault.Message == rateLimitMessage {
			return ErrRateLimited
		}
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusInternalServerError:
		return ErrInternalServer
	case http.StatusServiceUnavailable:
		return ErrServiceUnavailable
	default:
		return ErrUnknown
	}
}
