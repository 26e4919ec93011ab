package handlers

import (
	"context"
	"net/http"

	"github.com/samyukta/registration-service/internal/application/registration"
	"github.com/samyukta/registration-service/internal/domain"
	"github.com/samyukta/registration-service/internal/transport/http/dto"
	"github.com/samyukta/registration-service/internal/transport/http/response"
	"github.com/samyukta/registration-service/internal/transport/http/validate"
)

type Quoter interface {
	Quote(ctx context.Context, req domain.PricingRequest) (*registration.Quote, error)
}

type PricingHandler struct {
	quoter Quoter
}

func NewPricingHandler(q Quoter) *PricingHandler {
	return &PricingHandler{quoter: q}
}

func (h *PricingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req dto.QuoteReq
	if err := validate.DecodeJSON(w, r, &req); err != nil {
		response.Err(w, r, err)
		return
	}
	pr, err := req.ToPricingRequest()
	if err != nil {
		response.Err(w, r, err)
		return
	}
	q, err := h.quoter.Quote(r.Context(), pr)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToQuoteResp(q))
}
