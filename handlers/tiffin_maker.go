package handlers

import (
	"net/http"
	"time"

	"home-flavours/middleware"
	"home-flavours/models"
	"home-flavours/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ── Maker profile ────────────────────────────────────────────────────────────

type CreateMakerRequest struct {
	BusinessName     string   `json:"business_name" binding:"required"`
	Location         string   `json:"location" binding:"required"`
	CuisineSpecialty string   `json:"cuisine_specialty"`
	Rating           *float64 `json:"rating" binding:"omitempty,gte=0,lte=5"`
}

type UpdateMakerRequest struct {
	BusinessName     *string `json:"business_name"`
	Location         *string `json:"location"`
	CuisineSpecialty *string `json:"cuisine_specialty"`
}

func (r CreateMakerRequest) input() services.MakerProfileInput {
	return services.MakerProfileInput{
		BusinessName:     r.BusinessName,
		Location:         r.Location,
		CuisineSpecialty: r.CuisineSpecialty,
		Rating:           r.Rating,
	}
}

// CreateMakerProfile lets a tiffin_maker user open their kitchen
func (h *Handler) CreateMakerProfile(c *gin.Context) {
	var req CreateMakerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	maker, err := h.Makers.CreateProfile(c.Request.Context(), middleware.GetUserID(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Tiffin maker profile created", "tiffin_maker": maker})
}

func (h *Handler) GetMakerProfile(c *gin.Context) {
	maker, err := h.Makers.Profile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tiffin_maker": maker})
}

func (h *Handler) UpdateMakerProfile(c *gin.Context) {
	var req UpdateMakerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	maker, err := h.Makers.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), services.MakerProfileUpdate{
		BusinessName:     req.BusinessName,
		Location:         req.Location,
		CuisineSpecialty: req.CuisineSpecialty,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "tiffin_maker": maker})
}

// ── Menu Management ──────────────────────────────────────────────────────────

type MenuItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Icon        string          `json:"icon"`
	DayOfWeek   string          `json:"day_of_week" binding:"required"`
	IsAvailable *bool           `json:"is_available"`
}

type UpdateMenuItemRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Icon        *string          `json:"icon"`
	DayOfWeek   *string          `json:"day_of_week"`
	IsAvailable *bool            `json:"is_available"`
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

func (h *Handler) GetMyMenu(c *gin.Context) {
	items, err := h.Menu.ListMine(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu": items})
}

func (h *Handler) AddMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.Menu.Create(c.Request.Context(), middleware.GetUserID(c), services.MenuItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Icon:        req.Icon,
		DayOfWeek:   req.DayOfWeek,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": item})
}

func (h *Handler) UpdateMenuItem(c *gin.Context) {
	id, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	var req UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.Menu.Update(c.Request.Context(), middleware.GetUserID(c), id, services.MenuItemUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Icon:        req.Icon,
		DayOfWeek:   req.DayOfWeek,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

// SetMenuItemAvailability toggles whether customers can order an item
func (h *Handler) SetMenuItemAvailability(c *gin.Context) {
	id, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.Menu.SetAvailability(c.Request.Context(), middleware.GetUserID(c), id, *req.IsAvailable)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *Handler) DeleteMenuItem(c *gin.Context) {
	id, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	if err := h.Menu.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

// ── Orders ───────────────────────────────────────────────────────────────────

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// GetMakerOrders returns orders for the caller's kitchen, filtered by
// ?status= and ?delivery_date=
func (h *Handler) GetMakerOrders(c *gin.Context) {
	var date *time.Time
	if raw := c.Query("delivery_date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "delivery_date must be YYYY-MM-DD"})
			return
		}
		date = &d
	}
	orders, err := h.Orders.ListForMaker(c.Request.Context(), middleware.GetUserID(c), models.OrderStatus(c.Query("status")), date)
	if err != nil {
		respondError(c, err)
		return
	}

	summary := map[models.OrderStatus]int{}
	for _, o := range orders {
		summary[o.Status]++
	}
	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

// UpdateOrderStatus applies a maker or admin state transition
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.Orders.UpdateStatus(c.Request.Context(), middleware.GetPrincipal(c), id, req.Status, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated to " + string(order.Status),
		"order":   order,
	})
}

// MakerDashboard returns order analytics, scoped by ?from=&to= (default
// the last 30 days)
func (h *Handler) MakerDashboard(c *gin.Context) {
	rng, ok := dateRange(c)
	if !ok {
		return
	}
	d, err := h.Dashboard.Maker(c.Request.Context(), middleware.GetUserID(c), rng)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboard": d})
}
