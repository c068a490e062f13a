package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rariteth/go-cart/internal/cart"
	"github.com/rariteth/go-cart/internal/catalog"
	"github.com/rariteth/go-cart/internal/config"
	"github.com/rariteth/go-cart/internal/domain"
	"github.com/rariteth/go-cart/internal/events"
	"github.com/rariteth/go-cart/internal/identity"
	"github.com/rariteth/go-cart/internal/repository"
	"github.com/rariteth/go-cart/internal/session"
)

// CartHandler serves the cart mutation operations. An engine is built per
// request, scoped to the caller's browser session and the configured guard.
type CartHandler struct {
	cfg      config.Config
	sessions session.Store
	repo     repository.CartRepository
	identity identity.Resolver
	catalog  *catalog.Catalog
	sink     events.Sink
}

func NewCartHandler(
	cfg config.Config,
	sessions session.Store,
	repo repository.CartRepository,
	resolver identity.Resolver,
	cat *catalog.Catalog,
	sink events.Sink,
) *CartHandler {
	return &CartHandler{
		cfg:      cfg,
		sessions: sessions,
		repo:     repo,
		identity: resolver,
		catalog:  cat,
		sink:     sink,
	}
}

// Routes mounts the cart API.
func (h *CartHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/cart", h.GetCart)
	r.Delete("/cart", h.ClearCart)
	r.Post("/cart/items", h.AddItem)
	r.Patch("/cart/items/{row_id}", h.UpdateQuantity)
	r.Delete("/cart/items/{row_id}", h.RemoveItem)
	r.Post("/cart/refresh", h.RefreshCart)
	r.Post("/cart/restore", h.RestoreCart)
	r.Post("/logout", h.Logout)
	return r
}

type addItemRequest struct {
	ProductID int64             `json:"product_id"`
	Quantity  *int              `json:"quantity"`
	Options   map[string]string `json:"options"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Instance       string         `json:"instance"`
	Items          []*domain.Item `json:"items"`
	Count          int            `json:"count"`
	Total          float64        `json:"total"`
	FormattedTotal string         `json:"formatted_total"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *CartHandler) engine(r *http.Request) (*cart.Engine, error) {
	instance := r.URL.Query().Get("instance")
	if instance == "" {
		instance = domain.DefaultInstance
	}
	scope, err := domain.NewScope(instance, h.cfg.AuthGuard)
	if err != nil {
		return nil, err
	}

	sessions := session.Scoped(h.sessions, sessionIDFromContext(r.Context()))
	return cart.NewEngine(scope, h.cfg, sessions, h.repo, h.identity, h.catalog, h.sink), nil
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	eng, err := h.engine(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_instance", err.Error())
		return
	}

	items, err := eng.Items(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.respondCart(w, http.StatusOK, eng, items)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	eng, err := h.engine(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_instance", err.Error())
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	qty := 1
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
			return
		}
		qty = *req.Quantity
	}

	buyable, err := h.catalog.Buyable(r.Context(), req.ProductID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	item, err := eng.Add(r.Context(), buyable, domain.OptionsFromMap(req.Options), qty)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	eng, err := h.engine(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_instance", err.Error())
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must not be negative")
		return
	}

	item, err := eng.Get(r.Context(), chi.URLParam(r, "row_id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	item.Qty = req.Quantity
	if err := eng.Update(r.Context(), item); err != nil {
		respondDomainError(w, err)
		return
	}

	items, err := eng.Items(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.respondCart(w, http.StatusOK, eng, items)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	eng, err := h.engine(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_instance", err.Error())
		return
	}

	item, err := eng.Get(r.Context(), chi.URLParam(r, "row_id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if err := eng.Remove(r.Context(), item); err != nil {
		respondDomainError(w, err)
		return
	}

	items, err := eng.Items(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.respondCart(w, http.StatusOK, eng, items)
}

func (h *CartHandler) RefreshCart(w http.ResponseWriter, r *http.Request) {
	eng, err := h.engine(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_instance", err.Error())
		return
	}

	items, err := eng.Items(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if err := eng.Refresh(r.Context(), items.Items()); err != nil {
		respondDomainError(w, err)
		return
	}

	items, err = eng.Items(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.respondCart(w, http.StatusOK, eng, items)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	eng, err := h.engine(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_instance", err.Error())
		return
	}

	if err := eng.Clear(r.Context()); err != nil {
		respondDomainError(w, err)
		return
	}

	h.respondCart(w, http.StatusOK, eng, domain.Collection{})
}

func (h *CartHandler) RestoreCart(w http.ResponseWriter, r *http.Request) {
	eng, err := h.engine(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_instance", err.Error())
		return
	}

	id, ok := h.identity.Resolve(r.Context(), h.cfg.AuthGuard)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	if err := eng.Restore(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}

	items, err := eng.Items(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.respondCart(w, http.StatusOK, eng, items)
}

func (h *CartHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.cfg.DestroyOnLogout {
		eng, err := h.engine(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_instance", err.Error())
			return
		}
		if err := eng.Destroy(r.Context()); err != nil {
			respondDomainError(w, err)
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *CartHandler) respondCart(w http.ResponseWriter, status int, eng *cart.Engine, items domain.Collection) {
	respondJSON(w, status, cartResponse{
		Instance:       eng.Scope().Instance(),
		Items:          items.Items(),
		Count:          items.Count(),
		Total:          items.Total(),
		FormattedTotal: cart.FormatAmount(items.Total(), h.cfg.Format),
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownRowID),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, repository.ErrCartNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrInvalidIdentifier),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrZeroPriceNotAllowed),
		errors.Is(err, domain.ErrInvalidQuantity):
		respondError(w, http.StatusUnprocessableEntity, "invalid_item", err.Error())
	case errors.Is(err, repository.ErrAlreadyStored):
		respondError(w, http.StatusConflict, "already_stored", err.Error())
	default:
		log.Printf("cart handler error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
