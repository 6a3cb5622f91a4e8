package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"medsales/m/domain"
	"medsales/m/internal/config"
	"medsales/m/internal/reconcile"
	"medsales/m/internal/service"
	"medsales/m/internal/session"
)

const (
	sessionCookie = "session"
	flashCookie   = "flash"
	loginNotice   = "Please log in to access this page."
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	svc      *service.Service
	sessions *session.Manager
	logger   logrus.FieldLogger
	logFile  string
}

// New constructs a Handler. logFile is the path served by the log viewer.
func New(svc *service.Service, sessions *session.Manager, logger logrus.FieldLogger, logFile string) *Handler {
	return &Handler{svc: svc, sessions: sessions, logger: logger, logFile: logFile}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: h.logger, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(h.loadSession)

	r.Get("/", h.index)
	r.Get("/healthz", h.health)
	r.Get("/login", h.loginPage)
	r.Post("/login", h.login)

	r.Group(func(pr chi.Router) {
		pr.Use(h.requireSession)

		pr.Get("/logout", h.logout)
		pr.Get("/dashboard", h.dashboard)

		pr.Route("/medicines", func(r chi.Router) {
			r.Get("/", h.listMedicines)
			r.Post("/", h.addMedicine)
		})
		pr.Route("/suppliers", func(r chi.Router) {
			r.Get("/", h.listSuppliers)
			r.Post("/", h.addSupplier)
		})
		pr.Route("/customers", func(r chi.Router) {
			r.Get("/", h.listCustomers)
			r.Post("/", h.addCustomer)
		})
		pr.Route("/employees", func(r chi.Router) {
			r.Get("/", h.listEmployees)
			r.Post("/", h.addEmployee)
		})

		pr.Route("/purchases", func(r chi.Router) {
			r.Get("/", h.listPurchases)
			r.Post("/", h.addPurchase)
		})
		pr.Route("/sales", func(r chi.Router) {
			r.Get("/", h.listSales)
			r.Post("/", h.addSale)
		})
		pr.Route("/returns", func(r chi.Router) {
			r.Get("/", h.listReturns)
			r.Post("/", h.processReturn)
		})

		pr.Route("/reports", func(r chi.Router) {
			r.Get("/inventory", h.inventoryReport)
			r.Get("/sales", h.listSales)
			r.Get("/sales/export", h.exportSales)
			r.Get("/returns", h.listReturns)
			r.Get("/financial", h.financialReport)
			r.Get("/financial/daily", h.dailyFinancials)
			r.Get("/financial/export", h.exportFinancials)
		})

		pr.Route("/users", func(r chi.Router) {
			r.Get("/", h.listUsers)
			r.Post("/", h.addUser)
		})
		pr.Get("/logs", h.viewLogs)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// loadSession attaches the identity behind the request's token, if any.
func (h *Handler) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		ident, err := h.sessions.Resolve(r.Context(), token)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				config.LogError(h.logger, "api", "loadSession", "resolve session", nil, err)
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(session.WithIdentity(r.Context(), ident)))
	})
}

// requireSession sends anonymous requests to the login page.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); !ok {
			setFlash(w, loginNotice)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	ident, ok := session.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing session")
		return false
	}
	if !ident.IsAdmin {
		h.respondServiceError(w, r, service.ErrForbidden)
		return false
	}
	return true
}

func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}

func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending notice and clears it.
func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1, Expires: time.Unix(0, 0)})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}

// respondServiceError maps service and reconciliation errors onto status codes.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *service.ValidationError
		rerr *service.ReferenceError
		rule *reconcile.RuleError
	)
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "validation failed", "fields": verr.Fields})
	case errors.As(err, &rerr):
		setFlash(w, rerr.Error())
		respondError(w, http.StatusNotFound, rerr.Error())
	case errors.As(err, &rule):
		msg := rule.Error()
		setFlash(w, msg)
		respondError(w, http.StatusConflict, msg)
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, err.Error())
	default:
		config.LogError(h.logger, "api", "respondServiceError", r.Method+" "+r.URL.Path, nil, err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// Helpers

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

// decodeInput decodes a JSON body and reports malformed input as a ValidationError.
func decodeInput(r *http.Request, dest interface{}) error {
	err := decodeJSON(r, dest)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &service.ValidationError{Fields: map[string]string{typeErr.Field: typeMessage(typeErr.Type)}}
	}
	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return &service.ValidationError{Fields: map[string]string{strings.Trim(field, `"`): "is not a known field"}}
	}
	return &service.ValidationError{Fields: map[string]string{"body": "is not valid: " + err.Error()}}
}

func typeMessage(t reflect.Type) string {
	if t == reflect.TypeOf(domain.Date{}) {
		return "must be a date in YYYY-MM-DD format"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "must be a whole number"
	case reflect.Float32, reflect.Float64:
		return "must be a number"
	case reflect.Bool:
		return "must be true or false"
	case reflect.String:
		return "must be a string"
	default:
		return "has the wrong type"
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
