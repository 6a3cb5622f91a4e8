package api

import (
	"net/http"

	"medsales/m/internal/service"
)

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.svc.ListMedicines(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) addMedicine(w http.ResponseWriter, r *http.Request) {
	var req service.MedicineInput
	if err := decodeInput(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	m, err := h.svc.AddMedicine(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, m)
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.svc.ListSuppliers(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, suppliers)
}

func (h *Handler) addSupplier(w http.ResponseWriter, r *http.Request) {
	var req service.PartyInput
	if err := decodeInput(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	s, err := h.svc.AddSupplier(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, s)
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

func (h *Handler) addCustomer(w http.ResponseWriter, r *http.Request) {
	var req service.PartyInput
	if err := decodeInput(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	c, err := h.svc.AddCustomer(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.svc.ListEmployees(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, employees)
}

func (h *Handler) addEmployee(w http.ResponseWriter, r *http.Request) {
	var req service.EmployeeInput
	if err := decodeInput(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	e, err := h.svc.AddEmployee(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, e)
}
