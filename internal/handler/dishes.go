package handler

import (
	"net/http"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/apierror"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/dto"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/service"

	"github.com/gin-gonic/gin"
)

type DishesHandler struct{ svc service.MenuService }

func NewDishesHandler(svc service.MenuService) *DishesHandler { return &DishesHandler{svc: svc} }

// Create godoc
// @Summary      Create dish
// @Description  Adds a dish to the menu. Name must be unique within its category.
// @Tags         menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateDishRequest true "Dish data"
// @Success      201  {object} dto.DishResponse
// @Failure      409  {object} apierror.APIError
// @Router       /dishes [post]
func (h *DishesHandler) Create(c *gin.Context) {
	var req dto.CreateDishRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateDish(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List dishes
// @Description  Returns the menu. Defaults to available dishes only; use available=all for everything.
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Param        category_id query string false "Filter by category"
// @Param        name        query string false "Substring match on name"
// @Param        available   query string false "false | all"
// @Success      200 {array} dto.DishResponse
// @Router       /dishes [get]
func (h *DishesHandler) List(c *gin.Context) {
	var filter dto.DishFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListDishes(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns one dish.
func (h *DishesHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetDish(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update dish
// @Description  Partial update. Price changes never affect existing orders.
// @Tags         menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Dish UUID"
// @Param        body body dto.UpdateDishRequest true "Fields to update"
// @Success      200  {object} dto.DishResponse
// @Router       /dishes/{id} [patch]
func (h *DishesHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateDishRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateDish(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes a dish from the catalog.
func (h *DishesHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteDish(c.Request.Context(), actorFrom(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Import godoc
// @Summary      Import menu from remote feed
// @Description  Pulls the configured catalog feed and upserts dishes by name and category.
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ImportResult
// @Failure      409 {object} apierror.APIError
// @Router       /dishes/import [post]
func (h *DishesHandler) Import(c *gin.Context) {
	resp, err := h.svc.ImportFromRemote(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
