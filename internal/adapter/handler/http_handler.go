package handler

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/rl1809/axion/internal/core/domain"
	"github.com/rl1809/axion/internal/core/service"
	logx "github.com/rl1809/axion/pkg/logger"
)

// Credentials are the single set of login credentials accepted.
type Credentials struct {
	Username string
	Password string
}

type HTTPHandler struct {
	app         *service.App
	credentials Credentials
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=128"`
}

type SessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

type AddProductRequest struct {
	ID           string  `json:"id" validate:"max=64"`
	Name         string  `json:"name" validate:"required,max=200"`
	Category     string  `json:"category" validate:"required,max=100"`
	Cost         float64 `json:"cost"`
	CurrentPrice float64 `json:"currentPrice"`
	MonthlySales int     `json:"monthlySales"`
	Description  string  `json:"description" validate:"max=2000"`
}

type ConfirmRequest struct {
	Confirmed bool `json:"confirmed"`
}

type ConfirmResponse struct {
	Removed bool `json:"removed"`
}

type ViewRequest struct {
	View string `json:"view" validate:"required,oneof=dashboard inventory simulator"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewHTTPHandler(app *service.App, credentials Credentials) *HTTPHandler {
	return &HTTPHandler{app: app, credentials: credentials}
}

// Routes builds the router. middlewares run before routing, after request id
// and panic recovery.
func (h *HTTPHandler) Routes(metrics http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger)
	r.Use(middlewares...)

	r.Get("/health", h.HealthCheck)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", h.GetSession)
		r.Post("/session", h.Login)
		r.Delete("/session", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(h.requireSession)

			r.Get("/state", h.GetState)
			r.Get("/products", h.ListProducts)
			r.Post("/products", h.AddProduct)
			r.Delete("/products/{id}", h.RequestRemoval)
			r.Post("/products/{id}/simulate", h.OpenSimulator)
			r.Get("/categories", h.ListCategories)
			r.Post("/confirmations/{token}", h.ResolveRemoval)
			r.Get("/view", h.GetView)
			r.Put("/view", h.SetView)
			r.Get("/simulator", h.GetSimulator)
			r.Get("/dashboard", h.GetDashboard)
			r.Get("/sync", h.GetSync)
		})
	})

	return r
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SessionResponse{Authenticated: h.app.Authenticated()})
}

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	success := h.checkCredentials(req.Username, req.Password)
	if err := h.app.Login(r.Context(), success); err != nil {
		writeError(w, err)
		return
	}

	if !success {
		logx.Warn().Str("username", req.Username).Msg("login rejected")
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "invalid credentials"})
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{Authenticated: true})
}

func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{Authenticated: false})
}

func (h *HTTPHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.State())
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.app.FilterProducts(q.Get("q"), q.Get("category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.app.Categories()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *HTTPHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req AddProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	product := domain.Product{
		ID:           req.ID,
		Name:         req.Name,
		Category:     req.Category,
		Cost:         req.Cost,
		CurrentPrice: req.CurrentPrice,
		MonthlySales: req.MonthlySales,
		Description:  req.Description,
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	if err := h.app.AddProduct(product); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *HTTPHandler) RequestRemoval(w http.ResponseWriter, r *http.Request) {
	conf, err := h.app.RequestRemoval(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, conf)
}

func (h *HTTPHandler) ResolveRemoval(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	removed, err := h.app.ResolveRemoval(chi.URLParam(r, "token"), req.Confirmed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ConfirmResponse{Removed: removed})
}

func (h *HTTPHandler) OpenSimulator(w http.ResponseWriter, r *http.Request) {
	view, err := h.app.OpenSimulator(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *HTTPHandler) GetView(w http.ResponseWriter, r *http.Request) {
	view, err := h.app.ViewState()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *HTTPHandler) SetView(w http.ResponseWriter, r *http.Request) {
	var req ViewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.app.Navigate(domain.View(req.View)); err != nil {
		writeError(w, err)
		return
	}
	h.GetView(w, r)
}

func (h *HTTPHandler) GetSimulator(w http.ResponseWriter, r *http.Request) {
	var prices []float64
	for _, raw := range r.URL.Query()["price"] {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "price must be a number"})
			return
		}
		prices = append(prices, price)
	}

	view, err := h.app.Simulate(prices)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *HTTPHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.app.Dashboard()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *HTTPHandler) GetSync(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.SyncStatus())
}

func (h *HTTPHandler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.app.Authenticated() {
			writeError(w, service.ErrNotAuthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *HTTPHandler) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.credentials.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.credentials.Password)) == 1
	return userOK && passOK
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid request body"})
		return false
	}
	if err := validateStruct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: err.Error()})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	resp := ErrorResponse{Error: "internal_server_error", Message: "internal error"}

	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		status = http.StatusUnauthorized
		resp = ErrorResponse{Error: "unauthorized", Message: err.Error()}
	case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrUnknownConfirmation):
		status = http.StatusNotFound
		resp = ErrorResponse{Error: "not_found", Message: err.Error()}
	case errors.Is(err, domain.ErrUnknownView):
		status = http.StatusBadRequest
		resp = ErrorResponse{Error: "bad_request", Message: err.Error()}
	default:
		logx.Error().Err(err).Msg("request failed")
	}

	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logx.Debug().
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Msg("http request")
	})
}
