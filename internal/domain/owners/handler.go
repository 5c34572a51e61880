package owners

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vetclinic/vetclinic/pkg/clinicerr"
	"github.com/vetclinic/vetclinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the owner endpoints onto an authenticated group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/owners", h.List)
	api.POST("/owners", h.Create)
	api.GET("/owners/recent", h.Recent)
	api.GET("/owners/check-email", h.CheckEmail)
	api.GET("/owners/:id", h.Get)
	api.PUT("/owners/:id", h.Update)
	api.DELETE("/owners/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return clinicerr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	o, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return clinicerr.HTTP(err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return clinicerr.HTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return clinicerr.HTTP(err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return clinicerr.HTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Recent(c echo.Context) error {
	items, err := h.svc.Recent(c.Request().Context())
	if err != nil {
		return clinicerr.HTTP(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CheckEmail(c echo.Context) error {
	exists, err := h.svc.EmailExists(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return clinicerr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"exists": exists})
}
