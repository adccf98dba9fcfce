package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/habedi/suds/auth"
	"github.com/habedi/suds/client"
	"github.com/habedi/suds/pkg/clierr"
)

// sessionExpiredMessage tells the operator how to recover from a terminal auth failure.
const sessionExpiredMessage = "session expired, run `suds login`"

// toCLIError turns an error from the client into a typed CLI error. what
// describes the failed action, e.g. "fetch order 12".
func toCLIError(what string, err error) error {
	if err == nil {
		return nil
	}
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		return err
	}
	if errors.Is(err, auth.ErrSessionExpired) {
		return clierr.New(clierr.Auth, sessionExpiredMessage, err)
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusNotFound:
			return clierr.New(clierr.NotFound, fmt.Sprintf("failed to %s: not found", what), err)
		case http.StatusBadRequest:
			return clierr.New(clierr.Validation, fmt.Sprintf("failed to %s: %s", what, apiErr.Error()), err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return clierr.New(clierr.Auth, fmt.Sprintf("failed to %s: not authorized (%s)", what, apiErr.Error()), err)
		default:
			return clierr.New(clierr.API, fmt.Sprintf("failed to %s: %s", what, apiErr.Error()), err)
		}
	}
	return internalError(what, err)
}

func internalError(what string, err error) error {
	return clierr.New(clierr.Internal, fmt.Sprintf("failed to %s: %v", what, err), err)
}

func validationError(err error) error {
	return clierr.New(clierr.Validation, err.Error(), err)
}

func configError(err error) error {
	return clierr.New(clierr.Validation, fmt.Sprintf("invalid configuration: %v", err), err)
}
