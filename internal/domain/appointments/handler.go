package appointments

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vetclinic/vetclinic/internal/domain/accounts"
	"github.com/vetclinic/vetclinic/internal/platform/auth"
	"github.com/vetclinic/vetclinic/pkg/clinicerr"
	"github.com/vetclinic/vetclinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the appointment endpoints onto an authenticated
// group. Creation and the slot grid are veterinarian-only; updates and
// deletes also admit administrators; the rest is visibility-scoped per
// caller inside the service.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/appointments", h.List)
	api.POST("/appointments", h.Create, auth.RequireRole(accounts.RoleVeterinarian))
	api.GET("/appointments/available-slots", h.AvailableSlots, auth.RequireRole(accounts.RoleVeterinarian))
	api.GET("/appointments/:id", h.Get)
	api.PUT("/appointments/:id", h.Update, auth.RequireRole(accounts.RoleVeterinarian, accounts.RoleAdministrator))
	api.DELETE("/appointments/:id", h.Delete, auth.RequireRole(accounts.RoleVeterinarian, accounts.RoleAdministrator))
	api.POST("/appointments/:id/cancel", h.Cancel)
	api.POST("/appointments/:id/complete", h.Complete)
}

func viewerFrom(c echo.Context) Viewer {
	ctx := c.Request().Context()
	id, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return Viewer{}
	}
	return Viewer{UserID: id, Role: auth.RoleFromContext(ctx)}
}

func (h *Handler) Create(c echo.Context) error {
	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return clinicerr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), id, viewerFrom(c))
	if err != nil {
		return clinicerr.HTTP(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) List(c echo.Context) error {
	var f Filter
	if v := c.QueryParam("date"); v != "" {
		day, err := time.Parse("2006-01-02", v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, use YYYY-MM-DD")
		}
		f.Date = &day
	}
	f.Status = c.QueryParam("status")
	if v := c.QueryParam("vet"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid vet id")
		}
		f.VetID = &id
	}
	if v := c.QueryParam("patient"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
		}
		f.PatientID = &id
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), f, viewerFrom(c), pg.Limit, pg.Offset)
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
	a, err := h.svc.Update(c.Request().Context(), id, in, viewerFrom(c))
	if err != nil {
		return clinicerr.HTTP(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id, viewerFrom(c)); err != nil {
		return clinicerr.HTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Cancel(c.Request().Context(), id, viewerFrom(c))
	if err != nil {
		return clinicerr.HTTP(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Complete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Complete(c.Request().Context(), id, viewerFrom(c))
	if err != nil {
		return clinicerr.HTTP(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) AvailableSlots(c echo.Context) error {
	vetParam, dateParam := c.QueryParam("vet_id"), c.QueryParam("date")
	if vetParam == "" || dateParam == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "vet_id and date query parameters are required")
	}
	vetID, err := uuid.Parse(vetParam)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid vet_id")
	}
	date, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, use YYYY-MM-DD")
	}
	slots, err := h.svc.AvailableSlots(c.Request().Context(), vetID, date)
	if err != nil {
		return clinicerr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"vet_id": vetID,
		"date":   dateParam,
		"slots":  slots,
	})
}
