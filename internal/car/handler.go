package car

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
	owner := gate.Require(middleware.Self(middleware.BodyField("userID")))
	anyone := gate.Require(middleware.Authenticated())

	cars := r.Group("/cars")
	cars.POST("", owner, h.add)
	cars.GET("/all/:id", gate.Require(middleware.Self(middleware.PathParam("id"))), h.list)
	cars.GET("/:id", anyone, h.get)
	cars.PUT("", owner, h.update)
	cars.DELETE("/:id", anyone, h.delete)
}

func (h *Handler) add(c *gin.Context) {
	var req carRequest
	if !httpx.Bind(c, &req) {
		return
	}
	created, err := h.svc.Add(c.Request.Context(), req.toCar())
	if err != nil {
		httpx.Fail(c, "add car", err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *Handler) list(c *gin.Context) {
	cars, err := h.svc.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.Fail(c, "list cars", err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

// get only shows the caller's own cars; anything else is a 404.
func (h *Handler) get(c *gin.Context) {
	id, _ := middleware.Identity(c)
	car, err := h.svc.Get(c.Request.Context(), c.Param("id"), id.Username)
	if err != nil {
		httpx.Fail(c, "get car", err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (h *Handler) update(c *gin.Context) {
	var req carRequest
	if !httpx.Bind(c, &req) {
		return
	}
	oid, err := ParseID(req.ID)
	if err != nil {
		httpx.Fail(c, "update car", err)
		return
	}
	car := req.toCar()
	car.ID = oid

	updated, err := h.svc.Update(c.Request.Context(), car)
	if err != nil {
		httpx.Fail(c, "update car", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) delete(c *gin.Context) {
	id, _ := middleware.Identity(c)
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), id.Username); err != nil {
		httpx.Fail(c, "delete car", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}
