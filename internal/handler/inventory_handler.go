package handler

import (
	"net/http"

	"fsanano/storefront/internal/service"

	"github.com/go-chi/chi/v5"
)

type InventoryHandler struct {
	svc *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

type sizeIDResponse struct {
	ProductSizeID int `json:"product_size_id"`
}

type quantityResponse struct {
	QuantityAvailable int `json:"quantity_available"`
}

type SetQuantityRequest struct {
	// AvailableQuantity may be null, which stores 0.
	AvailableQuantity *int `json:"availableQuantity"`
}

func (h *InventoryHandler) GetSizeID(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.svc.SizeID(r.Context(), productID, chi.URLParam(r, "selectedSize"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sizeIDResponse{ProductSizeID: id})
}

func (h *InventoryHandler) GetQuantity(w http.ResponseWriter, r *http.Request) {
	sizeID, err := pathID(r, "productSizeId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	qty, err := h.svc.Quantity(r.Context(), sizeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quantityResponse{QuantityAvailable: qty})
}

func (h *InventoryHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	sizeID, err := pathID(r, "productSizeId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req SetQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.SetQuantity(r.Context(), sizeID, req.AvailableQuantity); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Quantity updated successfully!")
}
