package handlers

import (
	"net/http"
	"time"

	"home-flavours/middleware"
	"home-flavours/models"
	"home-flavours/services"

	"github.com/gin-gonic/gin"
)

// ── Cart ─────────────────────────────────────────────────────────────────────

// AddToCartRequest names either a menu item id or a weekly menu dish
type AddToCartRequest struct {
	MenuItemID uint   `json:"menu_item_id"`
	Day        string `json:"day" binding:"required_without=MenuItemID"`
	Name       string `json:"name" binding:"required_without=MenuItemID"`
	Quantity   int    `json:"quantity" binding:"omitempty,min=1,max=10"`
}

type UpdateCartRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0,max=10"`
}

// GetCart returns the caller's cart with line totals
func (h *Handler) GetCart(c *gin.Context) {
	view, err := h.Cart.View(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": view})
}

func (h *Handler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ctx := c.Request.Context()
	customerID := middleware.GetUserID(c)
	var (
		entry *models.CartEntry
		err   error
	)
	if req.MenuItemID != 0 {
		entry, err = h.Cart.AddItem(ctx, customerID, req.MenuItemID, req.Quantity)
	} else {
		entry, err = h.Cart.AddCatalogItem(ctx, customerID, req.Day, req.Name, req.Quantity)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": entry.MenuItem.Name + " added to cart!",
		"entry":   entry,
	})
}

// UpdateCartEntry sets a line's quantity; zero removes it
func (h *Handler) UpdateCartEntry(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Cart.UpdateQuantity(c.Request.Context(), middleware.GetUserID(c), id, *req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
}

func (h *Handler) RemoveCartEntry(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Cart.RemoveItem(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.Cart.Clear(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// ── Orders ───────────────────────────────────────────────────────────────────

type PlaceOrderRequest struct {
	DeliveryDate        string               `json:"delivery_date" binding:"omitempty,datetime=2006-01-02"`
	DeliveryAddress     string               `json:"delivery_address"`
	PaymentMethod       models.PaymentMethod `json:"payment_method" binding:"omitempty,oneof=COD GPay"`
	SpecialInstructions string               `json:"special_instructions"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// PlaceOrder checks out the caller's cart (customer only)
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := services.PlaceOrderInput{
		DeliveryAddress:     req.DeliveryAddress,
		PaymentMethod:       req.PaymentMethod,
		SpecialInstructions: req.SpecialInstructions,
	}
	if req.DeliveryDate != "" {
		d, err := time.Parse("2006-01-02", req.DeliveryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "delivery_date must be YYYY-MM-DD"})
			return
		}
		in.DeliveryDate = &d
	}

	order, err := h.Orders.PlaceOrder(c.Request.Context(), middleware.GetUserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GetMyOrders returns all orders for the logged-in customer
func (h *Handler) GetMyOrders(c *gin.Context) {
	orders, err := h.Orders.ListForCustomer(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail returns a single order's full detail with history
func (h *Handler) GetOrderDetail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := h.Orders.Get(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder cancels a pending or confirmed order
func (h *Handler) CancelOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CancelOrderRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	order, err := h.Orders.Cancel(c.Request.Context(), middleware.GetPrincipal(c), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order": order})
}

func (h *Handler) CustomerDashboard(c *gin.Context) {
	d, err := h.Dashboard.Customer(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboard": d})
}
