package handler

import (
	"net/http"
	"strconv"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/apierror"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/dto"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/service"

	"github.com/gin-gonic/gin"
)

type TablesHandler struct{ svc service.TableService }

func NewTablesHandler(svc service.TableService) *TablesHandler { return &TablesHandler{svc: svc} }

// Create godoc
// @Summary      Register table
// @Tags         tables
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateTableRequest true "Table data"
// @Success      201  {object} dto.TableResponse
// @Failure      409  {object} apierror.APIError
// @Router       /tables [post]
func (h *TablesHandler) Create(c *gin.Context) {
	var req dto.CreateTableRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateTable(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List tables
// @Tags         tables
// @Produce      json
// @Security     BearerAuth
// @Param        free query bool false "Only free tables"
// @Success      200 {array} dto.TableResponse
// @Router       /tables [get]
func (h *TablesHandler) List(c *gin.Context) {
	freeOnly := c.Query("free") == "true"
	resp, err := h.svc.ListTables(c.Request.Context(), freeOnly)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns one table by id.
func (h *TablesHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetTable(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByNumber looks a table up by its floor number.
func (h *TablesHandler) GetByNumber(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number < 1 {
		c.JSON(http.StatusBadRequest, apierror.New("invalid table number"))
		return
	}
	resp, err := h.svc.GetTableByNumber(c.Request.Context(), number)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update table
// @Description  Edits table metadata. Status is read-only here; occupancy belongs to the order lifecycle.
// @Tags         tables
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Table UUID"
// @Param        body body dto.UpdateTableRequest true "Fields to update"
// @Success      200  {object} dto.TableResponse
// @Router       /tables/{id} [patch]
func (h *TablesHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateTableRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateTable(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete refuses to remove a table with a live order.
func (h *TablesHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteTable(c.Request.Context(), actorFrom(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
