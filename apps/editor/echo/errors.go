package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
	"github.com/BillJr99/Ursinus-Boilerplate-Code/core/schedule"
)

var errInvalidID = echo.NewHTTPError(http.StatusBadRequest, "id must be a positive number")

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err); origErr {
		case schedule.ErrNodeNotFound:
			code = http.StatusNotFound
			message = err.Error()
		case schedule.ErrNotItem, schedule.ErrNotCategory, schedule.ErrEmptyTitle, schedule.ErrCrossCategory:
			code = http.StatusUnprocessableEntity
			message = err.Error()
		default:
			switch typedErr := origErr.(type) {
			case *echo.HTTPError:
				if typedErr.Internal != nil {
					if herr, ok := typedErr.Internal.(*echo.HTTPError); ok {
						typedErr = herr
					}
				}
				code = typedErr.Code
				message = typedErr.Message
			case *core.ValidationError:
				if typedErr.Fields != nil {
					fldErrs := make(map[string]string, len(typedErr.Fields))
					for _, fErr := range typedErr.Fields {
						fldErrs[fErr.Field] = fErr.Error
					}
					message = fldErrs
				} else {
					message = typedErr.Error()
				}
				code = http.StatusBadRequest
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg
				if logger != nil {
					logger.Error(msg, errors.Wrap(err, msg))
				}
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
