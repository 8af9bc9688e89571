package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/workpay/lending-engine/internal/domain"
	customError "github.com/workpay/lending-engine/pkg/errors"
	"github.com/workpay/lending-engine/pkg/response"
)

// LendingService is the surface of the core engine the transport layer needs.
type LendingService interface {
	RequestAdvance(ctx context.Context, request *domain.AdvanceRequest) (*domain.AdvanceResponse, error)
	RequestLoan(ctx context.Context, request *domain.LoanRequest) (*domain.LoanResponse, error)
	ListLoans(ctx context.Context) ([]*domain.LoanRecord, error)
}

type LendingHandler struct {
	service   LendingService
	validator *validator.Validate
}

func NewLendingHandler(service LendingService) *LendingHandler {
	return &LendingHandler{
		service:   service,
		validator: newValidator(),
	}
}

// newValidator registers decimal-aware tags: dgt (> 0), dgte (>= 0),
// dlte (<= 1). go-playground's numeric tags don't see through
// decimal.Decimal.
func newValidator() *validator.Validate {
	v := validator.New()

	decimalCmp := func(check func(decimal.Decimal) bool) validator.Func {
		return func(fl validator.FieldLevel) bool {
			value, ok := fl.Field().Interface().(decimal.Decimal)
			if !ok {
				return false
			}
			return check(value)
		}
	}

	_ = v.RegisterValidation("dgt", decimalCmp(func(d decimal.Decimal) bool {
		return d.IsPositive()
	}))
	_ = v.RegisterValidation("dgte", decimalCmp(func(d decimal.Decimal) bool {
		return !d.IsNegative()
	}))
	_ = v.RegisterValidation("dlte", decimalCmp(func(d decimal.Decimal) bool {
		return d.LessThanOrEqual(decimal.NewFromInt(1))
	}))

	return v
}

// RequestAdvance handles POST /api/v1/advances
func (h *LendingHandler) RequestAdvance(w http.ResponseWriter, r *http.Request) {
	var request domain.AdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "request validation failed", err)
		return
	}

	result, err := h.service.RequestAdvance(r.Context(), &request)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.Success(w, result)
}

// RequestLoan handles POST /api/v1/loans
func (h *LendingHandler) RequestLoan(w http.ResponseWriter, r *http.Request) {
	var request domain.LoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "request validation failed", err)
		return
	}

	result, err := h.service.RequestLoan(r.Context(), &request)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.Created(w, result)
}

// ListLoans handles GET /api/v1/loans
func (h *LendingHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.ListLoans(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.Success(w, loans)
}

func (h *LendingHandler) writeServiceError(w http.ResponseWriter, err error) {
	var bizErr *customError.BusinessError
	if errors.As(err, &bizErr) {
		switch bizErr.Code {
		case customError.ErrCodeInvalidInput, customError.ErrCodeUnsupportedPayFrequency:
			response.BadRequest(w, bizErr.Message, bizErr.Err)
		case customError.ErrCodeCalculationDegenerate:
			response.UnprocessableEntity(w, bizErr.Message, bizErr.Err)
		case customError.ErrCodeActiveLoanExists:
			response.Conflict(w, bizErr.Message, bizErr.Err)
		default:
			response.InternalServerError(w, bizErr.Message, bizErr.Err)
		}
		return
	}

	response.InternalServerError(w, "internal error", err)
}
