package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Dan9191/cashflow-forecaster/internal/calendar"
	"github.com/Dan9191/cashflow-forecaster/internal/export"
	"github.com/Dan9191/cashflow-forecaster/internal/middleware"
	"github.com/Dan9191/cashflow-forecaster/internal/models"
	"github.com/Dan9191/cashflow-forecaster/internal/repository"
	"github.com/Dan9191/cashflow-forecaster/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Forecaster is the service surface the HTTP layer depends on
type Forecaster interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Projection(ctx context.Context, userID int64, days int) (*calendar.Projection, error)
	Scenario(ctx context.Context, userID int64, days int, h calendar.Hypothetical) (*calendar.ScenarioOutcome, error)
	Summary(ctx context.Context, userID int64) (models.MonthlySummary, error)
}

type Handler struct {
	svc Forecaster
	log *logrus.Logger
}

func NewHandler(svc Forecaster, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Routes registers the public routes on r, then the routes guarded by auth
func (h *Handler) Routes(r *mux.Router, auth mux.MiddlewareFunc) {
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	protected := r.PathPrefix("/").Subrouter()
	protected.Use(auth)
	protected.HandleFunc("/projection", h.Projection).Methods(http.MethodGet)
	protected.HandleFunc("/projection.xml", h.ProjectionXML).Methods(http.MethodGet)
	protected.HandleFunc("/scenarios", h.Scenario).Methods(http.MethodPost)
	protected.HandleFunc("/summary", h.Summary).Methods(http.MethodGet)
}

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Projection returns the daily balance calendar
func (h *Handler) Projection(w http.ResponseWriter, r *http.Request) {
	p, ok := h.projection(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ProjectionXML returns the daily balance calendar as an XML document
func (h *Handler) ProjectionXML(w http.ResponseWriter, r *http.Request) {
	p, ok := h.projection(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	if err := export.WriteProjectionXML(w, p); err != nil {
		h.log.WithError(err).Error("Failed to write projection XML")
	}
}

// Scenario evaluates a hypothetical expense
func (h *Handler) Scenario(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	days, ok := daysParam(w, r)
	if !ok {
		return
	}

	var req scenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			writeJSON(w, http.StatusBadRequest, &calendar.ValidationError{Field: typeErr.Field, Reason: "must be a " + typeErr.Type.String()})
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	hypothetical, err := req.hypothetical()
	if err != nil {
		h.fail(w, err)
		return
	}

	outcome, err := h.svc.Scenario(r.Context(), userID, days, hypothetical)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// scenarioRequest keeps date and frequency raw so parse failures name their field
type scenarioRequest struct {
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
	Frequency string  `json:"frequency"`
	AccountID string  `json:"account_id"`
}

func (req scenarioRequest) hypothetical() (calendar.Hypothetical, error) {
	h := calendar.Hypothetical{Name: req.Name, Amount: req.Amount, AccountID: req.AccountID}
	if req.Date != "" {
		date, err := models.ParseDate(req.Date)
		if err != nil {
			return h, &calendar.ValidationError{Field: "date", Reason: "must be a date in YYYY-MM-DD format"}
		}
		h.Date = date
	}
	if req.Frequency != "" {
		freq, err := models.ParseFrequency(req.Frequency)
		if err != nil {
			return h, &calendar.ValidationError{Field: "frequency", Reason: fmt.Sprintf("unknown frequency %q", req.Frequency)}
		}
		h.Frequency = freq
	}
	return h, nil
}

// Summary returns monthly-equivalent totals
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	summary, err := h.svc.Summary(r.Context(), userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) projection(w http.ResponseWriter, r *http.Request) (*calendar.Projection, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	days, ok := daysParam(w, r)
	if !ok {
		return nil, false
	}

	p, err := h.svc.Projection(r.Context(), userID, days)
	if err != nil {
		h.fail(w, err)
		return nil, false
	}
	return p, true
}

// daysParam reads ?days=N; absent means the configured default
func daysParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return 0, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 {
		writeJSON(w, http.StatusBadRequest, &calendar.ValidationError{Field: "days", Reason: "must be a positive integer"})
		return 0, false
	}
	return days, true
}

// fail maps service errors onto status codes
func (h *Handler) fail(w http.ResponseWriter, err error) {
	var ve *calendar.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, ve)
	case errors.Is(err, calendar.ErrNoAccounts):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		h.log.WithError(err).Error("Request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
