package api

import (
	"fmt"
	"net/http"

	"medsales/m/domain"
	"medsales/m/internal/export"
)

func (h *Handler) inventoryReport(w http.ResponseWriter, r *http.Request) {
	lines, err := h.svc.InventoryReport(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, lines)
}

func (h *Handler) financialReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.FinancialSummary(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *Handler) dailyFinancials(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}
	rows, err := h.svc.DailyFinancials(r.Context(), from, to)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func (h *Handler) exportFinancials(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}
	rows, err := h.svc.DailyFinancials(r.Context(), from, to)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	f, err := export.FinancialWorkbook(rows)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=financials.xlsx")
	if err := f.Write(w); err != nil {
		h.logger.WithError(err).Error("write financial workbook")
	}
}

func (h *Handler) exportSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.svc.ListSales(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	f, err := export.SalesWorkbook(sales)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=sales.xlsx")
	if err := f.Write(w); err != nil {
		h.logger.WithError(err).Error("write sales workbook")
	}
}

// dateRange reads the optional from/to query parameters.
func dateRange(w http.ResponseWriter, r *http.Request) (domain.Date, domain.Date, bool) {
	var from, to domain.Date
	fields := map[string]string{}
	for name, dst := range map[string]*domain.Date{"from": &from, "to": &to} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		d, err := domain.ParseDate(raw)
		if err != nil {
			fields[name] = fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw)
			continue
		}
		*dst = d
	}
	if len(fields) > 0 {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "validation failed", "fields": fields})
		return domain.Date{}, domain.Date{}, false
	}
	return from, to, true
}
