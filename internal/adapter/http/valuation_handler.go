package http

import (
	"net/http"

	"crelend-backend/internal/usecase/valuation"

	"github.com/labstack/echo/v4"
)

type ValuationHandler struct{ uc *valuation.Usecase }

func NewValuationHandler(uc *valuation.Usecase) *ValuationHandler {
	return &ValuationHandler{uc: uc}
}

// RequestValuation runs the full draft → decision workflow for one loan.
func (h *ValuationHandler) RequestValuation(c echo.Context) error {
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	dto, err := h.uc.RequestValuation(c.Request().Context(), loanID)
	if err != nil {
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ValuationHandler) GetValuation(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// RevertStale is the operational unstick for loans abandoned in
// PENDING_VALUATION by a failed rollback.
func (h *ValuationHandler) RevertStale(c echo.Context) error {
	loanID := c.Param("loan_id")
	if err := h.uc.RevertStale(c.Request().Context(), loanID); err != nil {
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"loan_id": loanID, "status": "DRAFT"})
}
