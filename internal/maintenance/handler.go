package maintenance

import (
	"net/http"

	"github.com/bogdanSgithub/autovitals-backend/internal/httpx"
	"github.com/bogdanSgithub/autovitals-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r gin.IRouter, gate *middleware.Gate) {
	m := r.Group("/maintenance", gate.Require(middleware.Authenticated()))
	m.POST("", h.add)
	m.GET("/all", h.listAll)
	m.GET("/:carId", h.listForCar)
	m.GET("/:carId/:carPart", h.get)
	m.PUT("/:carId/:carPart", h.update)
	m.DELETE("/:carId/:carPart", h.delete)
}

func caller(c *gin.Context) string {
	id, _ := middleware.Identity(c)
	return id.Username
}

func (h *Handler) add(c *gin.Context) {
	var rec Record
	if !httpx.Bind(c, &rec) {
		return
	}
	created, err := h.svc.Add(c.Request.Context(), caller(c), rec)
	if err != nil {
		httpx.Fail(c, "add maintenance record", err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *Handler) listAll(c *gin.Context) {
	records, err := h.svc.ListAll(c.Request.Context(), caller(c))
	if err != nil {
		httpx.Fail(c, "list maintenance records", err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) listForCar(c *gin.Context) {
	records, err := h.svc.ListForCar(c.Request.Context(), caller(c), c.Param("carId"))
	if err != nil {
		httpx.Fail(c, "list maintenance records", err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) get(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), caller(c), c.Param("carId"), c.Param("carPart"))
	if err != nil {
		httpx.Fail(c, "get maintenance record", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if !httpx.Bind(c, &req) {
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), caller(c), Record{
		CarID:       c.Param("carId"),
		CarPart:     c.Param("carPart"),
		LastChanged: req.LastChanged,
		Mileage:     req.Mileage,
		Price:       req.Price,
	})
	if err != nil {
		httpx.Fail(c, "update maintenance record", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), caller(c), c.Param("carId"), c.Param("carPart")); err != nil {
		httpx.Fail(c, "delete maintenance record", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("carPart")})
}
