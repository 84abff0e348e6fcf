package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mridulgandhi29/real-estate-tracker/internal/app"
	"github.com/mridulgandhi29/real-estate-tracker/internal/domain"
)

// ListingManager is the slice of the listing service the listing routes use.
type ListingManager interface {
	CreateListing(ctx context.Context, in app.CreateListingInput) (domain.Listing, error)
	ListListings(ctx context.Context, page int) ([]domain.Listing, error)
	FindByCity(ctx context.Context, city string) ([]domain.Listing, error)
	GetListing(ctx context.Context, id string) (domain.Listing, error)
	UpdatePrice(ctx context.Context, id string, price int64) error
	DeleteListing(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) ([]string, error)
}

type listingResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	City      string    `json:"city"`
	Price     int64     `json:"price"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toListingResponse(l domain.Listing) listingResponse {
	return listingResponse{
		ID:        l.ID,
		Title:     l.Title,
		City:      l.City,
		Price:     l.Price,
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt,
	}
}

func toListingResponses(ls []domain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, toListingResponse(l))
	}
	return out
}

// HandleListings serves the /listings collection: POST creates a listing,
// GET returns either one price-sorted page or the listings matching a city
// fragment when ?city= is present.
func HandleListings(svc ListingManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			createListing(svc, w, r)
		case http.MethodGet:
			listListings(svc, w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type createListingRequest struct {
	Title string `json:"title"`
	City  string `json:"city"`
	Price int64  `json:"price"`
}

func createListing(svc ListingManager, w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	listing, err := svc.CreateListing(r.Context(), app.CreateListingInput{
		Title: req.Title,
		City:  req.City,
		Price: req.Price,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTitleRequired):
			writeError(w, http.StatusBadRequest, codeTitleRequired, err.Error())
		case errors.Is(err, domain.ErrCityRequired):
			writeError(w, http.StatusBadRequest, codeCityRequired, err.Error())
		case errors.Is(err, domain.ErrNegativePrice):
			writeError(w, http.StatusBadRequest, codeNegativePrice, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toListingResponse(listing))
}

func listListings(svc ListingManager, w http.ResponseWriter, r *http.Request) {
	if city := r.URL.Query().Get("city"); city != "" {
		listings, err := svc.FindByCity(r.Context(), city)
		if err != nil {
			if errors.Is(err, domain.ErrCityRequired) {
				writeError(w, http.StatusBadRequest, codeCityRequired, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, toListingResponses(listings))
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil && parsed > 0 {
			page = parsed
		}
	}

	listings, err := svc.ListListings(r.Context(), page)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toListingResponses(listings))
}

// HandleListingByID serves the /listings/{id}... subtree: GET and DELETE on
// the listing itself, PATCH on /price, POST on /purchase.
func HandleListingByID(svc ListingManager, purchaser Purchaser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, action, ok := parseListingPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch action {
		case "":
			switch r.Method {
			case http.MethodGet:
				getListing(svc, w, r, id)
			case http.MethodDelete:
				deleteListing(svc, w, r, id)
			default:
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			}
		case "price":
			if r.Method != http.MethodPatch {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			updatePrice(svc, w, r, id)
		case "purchase":
			handlePurchase(purchaser, w, r, id)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func parseListingPath(path string) (id, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch len(parts) {
	case 2:
		if parts[0] != "listings" || parts[1] == "" {
			return "", "", false
		}
		return parts[1], "", true
	case 3:
		if parts[0] != "listings" || parts[1] == "" || parts[2] == "" {
			return "", "", false
		}
		return parts[1], parts[2], true
	default:
		return "", "", false
	}
}

func getListing(svc ListingManager, w http.ResponseWriter, r *http.Request, id string) {
	listing, err := svc.GetListing(r.Context(), id)
	if err != nil {
		writeListingLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponse(listing))
}

type updatePriceRequest struct {
	Price int64 `json:"price"`
}

func updatePrice(svc ListingManager, w http.ResponseWriter, r *http.Request, id string) {
	var req updatePriceRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	if err := svc.UpdatePrice(r.Context(), id, req.Price); err != nil {
		if errors.Is(err, domain.ErrNegativePrice) {
			writeError(w, http.StatusBadRequest, codeNegativePrice, err.Error())
			return
		}
		writeListingLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "price": req.Price})
}

func deleteListing(svc ListingManager, w http.ResponseWriter, r *http.Request, id string) {
	if err := svc.DeleteListing(r.Context(), id); err != nil {
		writeListingLookupError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeListingLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrListingNotFound):
		writeError(w, http.StatusNotFound, codeListingNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

// HandleEnsureIndexes serves POST /admin/indexes.
func HandleEnsureIndexes(svc ListingManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		names, err := svc.EnsureIndexes(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"indexes": names})
	}
}
