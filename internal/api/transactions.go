package api

import (
	"net/http"

	"medsales/m/internal/service"
)

func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.svc.ListPurchases(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, purchases)
}

func (h *Handler) addPurchase(w http.ResponseWriter, r *http.Request) {
	var req service.PurchaseInput
	if err := decodeInput(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	p, err := h.svc.AddPurchase(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.svc.ListSales(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sales)
}

func (h *Handler) addSale(w http.ResponseWriter, r *http.Request) {
	var req service.SaleInput
	if err := decodeInput(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	sale, err := h.svc.AddSale(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, sale)
}

func (h *Handler) listReturns(w http.ResponseWriter, r *http.Request) {
	returns, err := h.svc.ReturnsReport(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, returns)
}

func (h *Handler) processReturn(w http.ResponseWriter, r *http.Request) {
	var req service.ReturnInput
	if err := decodeInput(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	res, err := h.svc.ProcessReturn(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}
