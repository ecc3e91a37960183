package http

import (
	"errors"
	"net/http"

	"crelend-backend/internal/adapter/valuator"
	domainLoan "crelend-backend/internal/domain/loan"
	domainValuation "crelend-backend/internal/domain/valuation"
	valuationUC "crelend-backend/internal/usecase/valuation"

	"github.com/labstack/echo/v4"
)

// domainErrJSON maps domain sentinels to status codes. The split matters to
// callers: 4xx means "fix your request", 502/504 means "the valuation
// service is down, retry later".
func domainErrJSON(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domainLoan.ErrNotFound), errors.Is(err, domainValuation.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainLoan.ErrInvalidState),
		errors.Is(err, domainValuation.ErrAlreadyExists),
		errors.Is(err, valuationUC.ErrNotStale):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainLoan.ErrValidation):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, valuator.ErrTimeout):
		return c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: err.Error()})
	case errors.Is(err, valuator.ErrRejected), errors.Is(err, valuator.ErrUnreachable):
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
