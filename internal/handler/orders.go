package handler

import (
	"net/http"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/apierror"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/dto"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler { return &OrdersHandler{svc: svc} }

// Create godoc
// @Summary      Open order
// @Description  Creates a pending order on a free table, snapshotting current dish prices.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateOrderRequest true "Order"
// @Success      201  {object} dto.OrderResponse
// @Failure      409  {object} apierror.APIError
// @Router       /orders [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateOrder(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List orders
// @Description  Paginated, newest first. Chefs always see the kitchen view (pending + cooking).
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status    query string false "Comma-separated status set"
// @Param        waiter_id query string false "Filter by waiter"
// @Param        table_id  query string false "Filter by table"
// @Param        page      query int    false "Page (default 1)"
// @Param        limit     query int    false "Page size (default 50)"
// @Success      200 {object} dto.OrderListResponse
// @Router       /orders [get]
func (h *OrdersHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListOrders(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns one order with its items.
func (h *OrdersHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetOrder(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddItems godoc
// @Summary      Add items to order
// @Description  Appends line items while the order is pending or cooking. Prices snapshot at add time.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Order UUID"
// @Param        body body dto.AddItemsRequest true "Items"
// @Success      200  {object} dto.OrderResponse
// @Failure      409  {object} apierror.APIError
// @Router       /orders/{id}/items [post]
func (h *OrdersHandler) AddItems(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AddItemsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddItems(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Transition godoc
// @Summary      Advance order lifecycle
// @Description  Applies one of start | mark_ready | complete | cancel. Invalid transitions are rejected atomically with 409.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Order UUID"
// @Param        body body dto.TransitionRequest true "Event"
// @Success      200  {object} dto.OrderResponse
// @Failure      403  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /orders/{id}/transition [post]
func (h *OrdersHandler) Transition(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.TransitionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Transition(c.Request.Context(), actorFrom(c), id, model.OrderEvent(req.Event))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete order
// @Description  Admin-only hard delete, allowed in any state. Clears the table back-reference if needed.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      204
// @Failure      403 {object} apierror.APIError
// @Router       /orders/{id} [delete]
func (h *OrdersHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteOrder(c.Request.Context(), actorFrom(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
