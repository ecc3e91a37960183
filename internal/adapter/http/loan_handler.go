package http

import (
	"net/http"

	"crelend-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type loanReq struct {
	BorrowerName     string  `json:"borrower_name"      validate:"required"`
	BorrowerEmail    string  `json:"borrower_email"     validate:"required,email"`
	BorrowerPhone    string  `json:"borrower_phone"`
	PropertyType     string  `json:"property_type"      validate:"required,proptype"`
	PropertySizeSqft int64   `json:"property_size_sqft" validate:"required,gt=0"`
	PropertyAgeYears int64   `json:"property_age_years" validate:"gte=0"`
	PropertyAddress  string  `json:"property_address"`
	Amount           float64 `json:"amount"             validate:"required,gt=0,dec2"`
}

func (r loanReq) toInput() loan.CreateLoanInput {
	return loan.CreateLoanInput{
		BorrowerName:     r.BorrowerName,
		BorrowerEmail:    r.BorrowerEmail,
		BorrowerPhone:    r.BorrowerPhone,
		PropertyType:     r.PropertyType,
		PropertySizeSqft: r.PropertySizeSqft,
		PropertyAgeYears: r.PropertyAgeYears,
		PropertyAddress:  r.PropertyAddress,
		Amount:           decimal.NewFromFloat(r.Amount),
	}
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req loanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	dtos, err := h.uc.List(c.Request().Context())
	if err != nil {
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *LoanHandler) UpdateLoan(c echo.Context) error {
	var req loanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Update(c.Request().Context(), c.Param("loan_id"), req.toInput())
	if err != nil {
		return domainErrJSON(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) DeleteLoan(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("loan_id")); err != nil {
		return domainErrJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
