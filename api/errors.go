package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tidepool-org/prescription-wizard/prescriptions"
	"github.com/tidepool-org/prescription-wizard/wizard"
)

type validationResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func httpError(err error) error {
	var validationErr *wizard.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response := validationResponse{Message: wizard.ErrStepIncomplete.Error(), Errors: map[string]string{}}
		for path, e := range validationErr.Errors {
			response.Errors[path] = e.Error()
		}
		return echo.NewHTTPError(http.StatusBadRequest, response).SetInternal(err)
	case errors.Is(err, wizard.ErrSessionNotFound), errors.Is(err, prescriptions.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error()).SetInternal(err)
	case errors.Is(err, wizard.ErrSubmissionPending),
		errors.Is(err, wizard.ErrCoolingDown),
		errors.Is(err, wizard.ErrEditing),
		errors.Is(err, wizard.ErrNotEditable):
		return echo.NewHTTPError(http.StatusConflict, err.Error()).SetInternal(err)
	case errors.Is(err, wizard.ErrInvalidPosition), errors.Is(err, wizard.ErrNotEditing):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "unable to process request").SetInternal(err)
	}
}
