package handlers

import (
	"net/http"
	"strconv"

	"home-flavours/middleware"
	"home-flavours/models"
	"home-flavours/repository"

	"github.com/gin-gonic/gin"
)

type AdminCreateMakerRequest struct {
	UserID uint `json:"user_id" binding:"required"`
	CreateMakerRequest
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// AdminOverview returns platform-wide totals; order figures honour
// ?from=&to=
func (h *Handler) AdminOverview(c *gin.Context) {
	rng, ok := dateRange(c)
	if !ok {
		return
	}
	o, err := h.Dashboard.Admin(c.Request.Context(), rng)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"overview": o})
}

// AdminGetAllUsers lists users, filtered by ?role= and ?search=
func (h *Handler) AdminGetAllUsers(c *gin.Context) {
	users, err := h.Admin.ListUsers(c.Request.Context(), models.UserRole(c.Query("role")), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// AdminCreateUser creates an account of any role
func (h *Handler) AdminCreateUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := req.input()
	if in.Role == "" {
		in.Role = models.RoleCustomer
	}
	user, err := h.Admin.CreateUser(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created", "user": user})
}

func (h *Handler) AdminDeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Admin.DeleteUser(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func (h *Handler) AdminGetAllMakers(c *gin.Context) {
	makers, err := h.Makers.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(makers), "tiffin_makers": makers})
}

// AdminCreateMaker opens a maker profile on behalf of a tiffin_maker user
func (h *Handler) AdminCreateMaker(c *gin.Context) {
	var req AdminCreateMakerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	maker, err := h.Makers.CreateProfile(c.Request.Context(), req.UserID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Tiffin maker created", "tiffin_maker": maker})
}

func (h *Handler) AdminSetMakerActive(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Makers.SetActive(c.Request.Context(), id, *req.IsActive); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tiffin maker updated", "is_active": *req.IsActive})
}

func (h *Handler) AdminDeleteMaker(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Makers.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tiffin maker deleted"})
}

// AdminGetAllOrders returns orders filtered by ?status=, ?customer_id= and
// ?tiffin_maker_id=
func (h *Handler) AdminGetAllOrders(c *gin.Context) {
	filter := repository.OrderFilter{Status: models.OrderStatus(c.Query("status"))}
	for name, dst := range map[string]**uint{
		"customer_id":     &filter.CustomerID,
		"tiffin_maker_id": &filter.TiffinMakerID,
	} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
			return
		}
		id := uint(v)
		*dst = &id
	}

	orders, err := h.Orders.ListAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// AdminClearCarts empties every customer's cart
func (h *Handler) AdminClearCarts(c *gin.Context) {
	n, err := h.Cart.ClearAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All carts cleared", "removed": n})
}
