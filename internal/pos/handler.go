package pos

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/tableside/internal/cart"
	"github.com/appetiteclub/tableside/internal/catalog"
	"github.com/appetiteclub/tableside/internal/clientstate"
	"github.com/appetiteclub/tableside/internal/kv"
	"github.com/appetiteclub/tableside/internal/orders"
)

const (
	MaxBodyBytes      = 64 << 10
	SessionCookieName = "tableside_session"
)

// MenuSource provides the current catalog snapshot.
type MenuSource interface {
	Snapshot() catalog.Snapshot
}

type HandlerDeps struct {
	Menu       MenuSource
	Orders     orders.Store
	Submitter  orders.Submitter
	Ledger     orders.Ledger
	State      kv.Store
	Classifier *orders.Classifier
}

type Handler struct {
	menu       MenuSource
	orders     orders.Store
	submitter  orders.Submitter
	ledger     orders.Ledger
	state      kv.Store
	classifier *orders.Classifier
	sessions   *SessionStore
	logger     aqm.Logger
	config     *aqm.Config
	tlm        *telemetry.HTTP
}

func NewHandler(deps HandlerDeps, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if deps.State == nil {
		deps.State = kv.NewMemoryStore()
	}
	if deps.Classifier == nil {
		deps.Classifier = orders.NewClassifier(nil)
	}

	h := &Handler{
		menu:       deps.Menu,
		orders:     deps.Orders,
		submitter:  deps.Submitter,
		ledger:     deps.Ledger,
		state:      deps.State,
		classifier: deps.Classifier,
		logger:     logger,
		config:     config,
		tlm:        telemetry.NewHTTP(),
	}

	h.sessions = NewSessionStore(sessionTTL(config, logger), h.newSession)

	return h
}

// Sessions exposes the session table for lifecycle wiring.
func (h *Handler) Sessions() *SessionStore {
	return h.sessions
}

func sessionTTL(config *aqm.Config, logger aqm.Logger) time.Duration {
	if config == nil {
		return 0
	}
	raw, ok := config.GetString("session.ttl")
	if !ok || raw == "" {
		return 0
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil {
		logger.Info("invalid session.ttl value", "value", raw, "error", err)
		return 0
	}
	return ttl
}

func (h *Handler) newSession(id string) *Session {
	return &Session{
		Cart:      cart.New(),
		Board:     orders.NewBoard(h.orders, h.ledger, h.classifier, h.logger.With("session_id", id)),
		LastOrder: clientstate.NewLastOrder(kv.WithPrefix(h.state, "session."+id+".")),
	}
}

// RegisterRoutes registers the customer and admin routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/menu", h.Menu)
	r.Get("/last-order", h.LastOrder)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.Cart)
		r.Post("/items", h.AddToCart)
		r.Post("/items/{itemID}/increase", h.IncreaseQty)
		r.Post("/items/{itemID}/decrease", h.DecreaseQty)
		r.Post("/checkout", h.Checkout)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/orders", h.AdminOrders)
		r.Post("/orders/{orderID}/open", h.OpenOrder)
		r.Post("/orders/{orderID}/delete", h.RequestDelete)
		r.Post("/detail/close", h.CloseOrder)
		r.Post("/delete/confirm", h.ConfirmDelete)
		r.Post("/delete/cancel", h.CancelDelete)
	})
}

type menuItemView struct {
	catalog.Item
	Qty int `json:"qty"`
}

type menuSectionView struct {
	Category catalog.Category `json:"category"`
	Items    []menuItemView   `json:"items"`
}

type cartView struct {
	Lines      []cart.Line `json:"lines"`
	TotalQty   int         `json:"total_qty"`
	TotalPrice float64     `json:"total_price"`
}

type menuView struct {
	Version   uint64               `json:"version"`
	Sections  []menuSectionView    `json:"sections"`
	Cart      cartView             `json:"cart"`
	LastOrder *clientstate.Summary `json:"last_order,omitempty"`
}

type orderDetailView struct {
	orders.Order
	Lines []orderLineView `json:"lines"`
}

type orderLineView struct {
	orders.OrderItem
	Subtotal float64 `json:"subtotal"`
}

type addToCartRequest struct {
	ItemID string `json:"item_id"`
}

type checkoutRequest struct {
	Table string `json:"table"`
	Note  string `json:"note"`
}

// Menu handles GET /menu
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Menu")
	defer finish()
	log := h.log(r)

	session := h.session(w, r)
	snapshot := h.snapshot()

	view := menuView{
		Version:  snapshot.Version,
		Sections: make([]menuSectionView, 0, len(snapshot.Categories)),
		Cart:     newCartView(session.Cart),
	}

	for _, section := range snapshot.Sections() {
		items := make([]menuItemView, 0, len(section.Items))
		for _, item := range section.Items {
			items = append(items, menuItemView{Item: item, Qty: session.Cart.Qty(item.ID)})
		}
		view.Sections = append(view.Sections, menuSectionView{Category: section.Category, Items: items})
	}

	summary, err := session.LastOrder.Load(r.Context())
	if err != nil {
		log.Error("cannot load last order", "error", err)
	}
	view.LastOrder = summary

	aqm.RespondSuccess(w, view)
}

// LastOrder handles GET /last-order
func (h *Handler) LastOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.LastOrder")
	defer finish()
	log := h.log(r)

	session := h.session(w, r)

	summary, err := session.LastOrder.Load(r.Context())
	if err != nil {
		log.Error("cannot load last order", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load last order")
		return
	}
	if summary == nil {
		aqm.RespondError(w, http.StatusNotFound, "No order placed yet")
		return
	}

	aqm.RespondSuccess(w, summary)
}

// Cart handles GET /cart
func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Cart")
	defer finish()

	session := h.session(w, r)
	aqm.RespondSuccess(w, newCartView(session.Cart))
}

// AddToCart handles POST /cart/items
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddToCart")
	defer finish()
	log := h.log(r)

	session := h.session(w, r)

	var req addToCartRequest
	if !h.decodeBody(w, r, &req, log) {
		return
	}

	item, ok := h.snapshot().Item(req.ItemID)
	if !ok {
		aqm.RespondError(w, http.StatusNotFound, "Menu item not found")
		return
	}

	if err := session.Cart.Add(item); err != nil {
		if errors.Is(err, cart.ErrAlreadyInCart) {
			aqm.RespondError(w, http.StatusConflict, "Item already in cart, increase its quantity instead")
			return
		}
		log.Error("cannot add item to cart", "item_id", item.ID, "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not add item")
		return
	}

	aqm.RespondSuccess(w, newCartView(session.Cart))
}

// IncreaseQty handles POST /cart/items/{itemID}/increase
func (h *Handler) IncreaseQty(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.IncreaseQty")
	defer finish()

	session := h.session(w, r)
	session.Cart.Increase(chi.URLParam(r, "itemID"))
	aqm.RespondSuccess(w, newCartView(session.Cart))
}

// DecreaseQty handles POST /cart/items/{itemID}/decrease
func (h *Handler) DecreaseQty(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DecreaseQty")
	defer finish()

	session := h.session(w, r)
	session.Cart.Decrease(chi.URLParam(r, "itemID"))
	aqm.RespondSuccess(w, newCartView(session.Cart))
}

// Checkout handles POST /cart/checkout
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Checkout")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	session := h.session(w, r)

	var req checkoutRequest
	if !h.decodeBody(w, r, &req, log) {
		return
	}

	sub, err := orders.NewSubmission(req.Table, req.Note, session.Cart.Lines())
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.submitter == nil {
		aqm.RespondError(w, http.StatusServiceUnavailable, "Order store not configured")
		return
	}

	placed, err := h.submitter.CreateOrder(ctx, sub)
	if err == nil && placed == nil {
		err = errors.New("empty create response")
	}
	if err != nil {
		log.Error("cannot place order", "table", sub.Table, "error", err)
		aqm.RespondError(w, http.StatusBadGateway, "Could not place order, please try again")
		return
	}

	placedAt := placed.CreatedAt
	if placedAt.IsZero() {
		placedAt = time.Now()
	}
	summary := clientstate.Summary{
		OrderID:    placed.ID,
		Table:      sub.Table,
		TotalQty:   sub.TotalQty,
		TotalPrice: sub.TotalPrice,
		PlacedAt:   placedAt,
	}
	if err := session.LastOrder.Save(ctx, summary); err != nil {
		log.Error("cannot save last order", "order_id", placed.ID, "error", err)
	}

	session.Cart.Clear()
	log.Info("order placed", "order_id", placed.ID, "table", sub.Table, "total_qty", sub.TotalQty)

	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, summary)
}

// AdminOrders handles GET /admin/orders
func (h *Handler) AdminOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AdminOrders")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	session := h.session(w, r)

	if err := session.Board.Load(ctx); err != nil {
		log.Debug("showing previous order list", "error", err)
	}

	aqm.RespondSuccess(w, session.Board.View(ctx))
}

// OpenOrder handles POST /admin/orders/{orderID}/open
func (h *Handler) OpenOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.OpenOrder")
	defer finish()

	session := h.session(w, r)

	o, err := session.Board.Open(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		aqm.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	aqm.RespondSuccess(w, newOrderDetailView(o))
}

// CloseOrder handles POST /admin/detail/close
func (h *Handler) CloseOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CloseOrder")
	defer finish()

	session := h.session(w, r)
	session.Board.Close()
	aqm.RespondSuccess(w, session.Board.View(r.Context()))
}

// RequestDelete handles POST /admin/orders/{orderID}/delete
func (h *Handler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RequestDelete")
	defer finish()

	session := h.session(w, r)

	if err := session.Board.RequestDelete(chi.URLParam(r, "orderID")); err != nil {
		aqm.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	aqm.RespondSuccess(w, session.Board.View(r.Context()))
}

// ConfirmDelete handles POST /admin/delete/confirm
func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ConfirmDelete")
	defer finish()
	ctx := r.Context()

	session := h.session(w, r)

	err := session.Board.ConfirmDelete(ctx)
	switch {
	case err == nil:
		aqm.RespondSuccess(w, session.Board.View(ctx))
	case errors.Is(err, orders.ErrNothingToDelete):
		aqm.RespondError(w, http.StatusConflict, "No order awaiting confirmation")
	case errors.Is(err, orders.ErrOrderNotFound):
		aqm.RespondError(w, http.StatusNotFound, "Order not found")
	default:
		aqm.RespondError(w, http.StatusBadGateway, "Could not delete order, please retry or cancel")
	}
}

// CancelDelete handles POST /admin/delete/cancel
func (h *Handler) CancelDelete(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelDelete")
	defer finish()

	session := h.session(w, r)
	session.Board.CancelDelete()
	aqm.RespondSuccess(w, session.Board.View(r.Context()))
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) *Session {
	var id string
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		id = cookie.Value
	}

	session, created := h.sessions.Ensure(id)
	if created || session.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    session.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return session
}

func (h *Handler) snapshot() catalog.Snapshot {
	if h.menu == nil {
		return catalog.Snapshot{}
	}
	return h.menu.Snapshot()
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}, log aqm.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("cannot read request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := json.Unmarshal(body, dest); err != nil {
		log.Debug("cannot decode request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	return true
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}

func newCartView(c *cart.Cart) cartView {
	return cartView{
		Lines:      c.Lines(),
		TotalQty:   c.TotalQty(),
		TotalPrice: c.TotalPrice(),
	}
}

func newOrderDetailView(o orders.Order) orderDetailView {
	lines := make([]orderLineView, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, orderLineView{OrderItem: item, Subtotal: item.Subtotal()})
	}
	return orderDetailView{Order: o, Lines: lines}
}
