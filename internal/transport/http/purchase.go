package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mridulgandhi29/real-estate-tracker/internal/app"
	"github.com/mridulgandhi29/real-estate-tracker/internal/domain"
)

// Purchaser is the minimal interface needed to run the purchase workflow.
type Purchaser interface {
	Purchase(ctx context.Context, in app.PurchaseInput) (app.PurchaseResult, error)
}

type purchaseRequest struct {
	BuyerName  string `json:"buyer_name"`
	OfferPrice int64  `json:"offer_price"`
}

type purchaseResponse struct {
	ListingID  string `json:"listing_id"`
	Outcome    string `json:"outcome"`
	Message    string `json:"message"`
	BuyerName  string `json:"buyer_name,omitempty"`
	OfferPrice int64  `json:"offer_price,omitempty"`
	Warning    string `json:"warning,omitempty"`
}

// handlePurchase serves POST /listings/{id}/purchase. Every terminal
// business outcome maps to a distinct response; the partially-failed
// sold-but-unrecorded case carries an explicit warning so it can never be
// mistaken for a clean success.
func handlePurchase(svc Purchaser, w http.ResponseWriter, r *http.Request, listingID string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	var req purchaseRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	res, err := svc.Purchase(r.Context(), app.PurchaseInput{
		ListingID:  listingID,
		BuyerName:  req.BuyerName,
		OfferPrice: req.OfferPrice,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBuyerRequired):
			writeError(w, http.StatusBadRequest, codeBuyerRequired, err.Error())
		case errors.Is(err, domain.ErrNegativePrice):
			writeError(w, http.StatusBadRequest, codeNegativePrice, err.Error())
		case errors.Is(err, domain.ErrInvalidID):
			writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, codeTransactionFailed, "purchase transaction failed, no changes were applied")
		}
		return
	}

	resp := purchaseResponse{
		ListingID: listingID,
		Outcome:   string(res.Outcome),
	}
	switch res.Outcome {
	case domain.OutcomeSold:
		resp.Message = "purchase completed"
		resp.BuyerName = res.Record.BuyerName
		resp.OfferPrice = res.Record.OfferPrice
		writeJSON(w, http.StatusOK, resp)
	case domain.OutcomeSoldDegraded:
		resp.Message = "purchase completed (server does not support transactions)"
		resp.BuyerName = res.Record.BuyerName
		resp.OfferPrice = res.Record.OfferPrice
		writeJSON(w, http.StatusOK, resp)
	case domain.OutcomeSoldUnrecorded:
		resp.Message = "listing marked sold but the sale record failed to persist"
		resp.BuyerName = res.Record.BuyerName
		resp.OfferPrice = res.Record.OfferPrice
		resp.Warning = "sale is unrecorded and needs manual reconciliation"
		writeJSON(w, http.StatusOK, resp)
	case domain.OutcomeUnavailable:
		resp.Message = "listing is not available"
		writeJSON(w, http.StatusConflict, resp)
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
