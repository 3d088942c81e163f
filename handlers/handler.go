package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"home-flavours/services"

	"github.com/gin-gonic/gin"
	"github.com/romana/rlog"
)

// Handler carries the services every route depends on
type Handler struct {
	Auth      *services.AuthService
	Catalog   *services.CatalogService
	Makers    *services.MakerService
	Menu      *services.MenuService
	Cart      *services.CartService
	Orders    *services.OrderService
	Dashboard *services.DashboardService
	Admin     *services.AdminService
	Hub       *services.RealtimeHub
}

// respondError maps a service error onto a status code and a JSON body
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrUnknownDay),
		errors.Is(err, services.ErrItemUnavailable),
		errors.Is(err, services.ErrEmptyCart):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrNotInCatalog),
		errors.Is(err, services.ErrNoMakerProfile),
		errors.Is(err, services.ErrCartEntryNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateAccount),
		errors.Is(err, services.ErrMakerProfileExists),
		errors.Is(err, services.ErrMenuItemInUse),
		errors.Is(err, services.ErrHasOrders),
		errors.Is(err, services.ErrMixedMakers),
		errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidTransition):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		rlog.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// dateRange reads optional ?from= and ?to= days (YYYY-MM-DD)
func dateRange(c *gin.Context) (services.DateRange, bool) {
	var rng services.DateRange
	for key, dst := range map[string]*time.Time{"from": &rng.From, "to": &rng.To} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		d, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be YYYY-MM-DD"})
			return rng, false
		}
		*dst = d
	}
	return rng, true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
