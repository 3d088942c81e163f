package handlers

import (
	"net/http"
	"time"

	"home-flavours/models"
	"home-flavours/statemachine"

	"github.com/gin-gonic/gin"
)

// GetWeeklyMenu returns the seven-day tiffin menu (public)
func (h *Handler) GetWeeklyMenu(c *gin.Context) {
	menu := h.Catalog.WeeklyMenu()
	c.JSON(http.StatusOK, gin.H{"count": len(menu), "menu": menu})
}

// GetTodayMenu returns the menu for the server's current weekday
func (h *Handler) GetTodayMenu(c *gin.Context) {
	day, err := h.Catalog.Today(time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": day.Day, "items": day.Items})
}

func (h *Handler) GetDayMenu(c *gin.Context) {
	day, err := h.Catalog.Day(c.Param("day"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": day.Day, "items": day.Items})
}

// ListMakers returns all active tiffin makers (public)
func (h *Handler) ListMakers(c *gin.Context) {
	makers, err := h.Makers.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(makers), "tiffin_makers": makers})
}

// GetMakerMenu returns a maker's available items, optionally for ?day=
func (h *Handler) GetMakerMenu(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	items, err := h.Menu.ListForMaker(c.Request.Context(), id, c.Query("day"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu": items})
}

// GetStateMachineInfo returns the order lifecycle for informational purposes
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	transitions := statemachine.GetAllTransitions()
	info := make([]gin.H, 0, len(transitions))
	for _, t := range transitions {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	var terminal []models.OrderStatus
	for _, s := range models.AllStatuses {
		if statemachine.IsTerminal(s) {
			terminal = append(terminal, s)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": terminal,
		"description":     "Tiffin Order Lifecycle State Machine",
	})
}
