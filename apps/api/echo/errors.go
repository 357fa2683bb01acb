package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/taskspro/backend/core"
)

var (
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, "Authentication failed")
	errUnauthorized         = echo.ErrUnauthorized
	errAccountDeactivated   = echo.NewHTTPError(http.StatusUnauthorized, "Account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusUnauthorized, "Refresh has expired")
	errNotFound             = echo.ErrNotFound
	errForbidden            = echo.ErrForbidden
)

func newAppHTTPErrorHandler(
	logger core.Logger,
	translator ut.Translator,
	signalShutdown func(),
) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var res interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			code = origErr.Code
			res = echo.Map{"error": origErr.Message}
			if origErr.Internal != nil {
				res = echo.Map{"error": origErr.Message, "internal": origErr.Internal.Error()}
			}

		case validator.ValidationErrors:
			code = http.StatusBadRequest
			errs := make(echo.Map, len(origErr))
			for _, e := range origErr {
				errs[core.CleanString(e.Field(), true /* lower */)] = e.Translate(translator)
			}
			res = echo.Map{"errors": errs}

		case *core.ValidationError:
			code = http.StatusBadRequest
			if len(origErr.Fields) > 0 {
				errs := make(echo.Map, len(origErr.Fields))
				for _, fe := range origErr.Fields {
					errs[core.CleanString(fe.Field, true /* lower */)] = fe.Error
				}
				res = echo.Map{"errors": errs}
			} else {
				res = echo.Map{"error": origErr.Error()}
			}

		default:
			logger.Error(err.Error(), err)

			code = http.StatusInternalServerError
			res = echo.Map{"error": http.StatusText(code)}

			// shut the api down on unrecoverable errors
			if core.IsShutdown(origErr) {
				defer signalShutdown()
			}
		}

		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, res)
			}
			if err != nil {
				logger.Error("sending error response", err)
			}
		}
	}
}
