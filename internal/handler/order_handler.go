package handler

import (
	"fmt"
	"net/http"

	"fsanano/storefront/internal/model"
	"fsanano/storefront/internal/service"
	"fsanano/storefront/internal/session"
)

type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type PlaceOrderRequest struct {
	// UserID defaults to the session user when omitted.
	UserID          *int             `json:"user_id"`
	Status          string           `json:"status"`
	ShippingAddress string           `json:"shipping_address"`
	PaymentMethod   string           `json:"payment_method"`
	CartItems       []model.CartItem `json:"cartItems"`
}

func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	userID, err := orderOwner(r, req.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	placed, err := h.svc.PlaceOrder(r.Context(), service.PlaceOrderInput{
		UserID:          userID,
		Status:          req.Status,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		CartItems:       req.CartItems,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, placed)
}

// orderOwner picks the user an order is placed for. A logged in user may
// only order for themselves.
func orderOwner(r *http.Request, bodyUserID *int) (int, error) {
	sessionUserID, loggedIn := session.UserIDFromContext(r.Context())
	switch {
	case bodyUserID == nil && loggedIn:
		return sessionUserID, nil
	case bodyUserID == nil:
		return 0, nil
	case loggedIn && *bodyUserID != sessionUserID:
		return 0, fmt.Errorf("%w: cannot place an order for another user", service.ErrForbidden)
	}
	return *bodyUserID, nil
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	lines, err := h.svc.ListOrders(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}
