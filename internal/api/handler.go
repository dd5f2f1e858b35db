package api

import (
	"net/http"
	"time"

	"jewelshop/internal/apperr"
	"jewelshop/internal/auth"
	"jewelshop/internal/models"
	"jewelshop/internal/service"
	"jewelshop/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	checkout  *service.CheckoutService
	cart      *service.CartService
	orders    *service.OrderService
	catalog   *service.CatalogService
	addresses *service.AddressService
	verifier  auth.Verifier
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	checkout *service.CheckoutService,
	cart *service.CartService,
	orders *service.OrderService,
	catalog *service.CatalogService,
	addresses *service.AddressService,
	verifier auth.Verifier,
) *Handler {
	return &Handler{
		checkout:  checkout,
		cart:      cart,
		orders:    orders,
		catalog:   catalog,
		addresses: addresses,
		verifier:  verifier,
		logger:    util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	v1.GET("/jewelry", h.listJewelry)
	v1.GET("/jewelry/:model", h.getJewelry)

	authed := v1.Group("")
	authed.Use(authMiddleware(h.verifier))
	{
		authed.GET("/cart", h.getCart)
		authed.POST("/cart/items", h.addToCart)
		authed.PUT("/cart/items/:id", h.updateCartItem)
		authed.DELETE("/cart/items/:id", h.removeCartItem)
		authed.POST("/cart/checkout", h.checkoutCart)

		authed.GET("/orders", h.listOrders)
		authed.GET("/orders/:id", h.getOrder)

		authed.GET("/addresses", h.listAddresses)
		authed.POST("/addresses", h.createAddress)
		authed.PUT("/addresses/:id", h.updateAddress)
		authed.DELETE("/addresses/:id", h.deleteAddress)

		admin := authed.Group("")
		admin.Use(requireRole(models.RoleAdmin))
		{
			admin.GET("/admin/orders", h.listAllOrders)
			admin.PATCH("/orders/:id/status", h.updateOrderStatus)
			admin.POST("/jewelry", h.createJewelry)
			admin.PUT("/jewelry/:model", h.updateJewelry)
			admin.DELETE("/jewelry/:model", h.deleteJewelry)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// respondError maps classified errors to status codes. Internal detail is
// logged, not leaked.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// --- cart ---

type addToCartRequest struct {
	JewelryID uuid.UUID `json:"jewelry_id" binding:"required"`
}

type updateCartRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type checkoutRequest struct {
	AddressID uuid.UUID `json:"address_id" binding:"required"`
}

func (h *Handler) getCart(c *gin.Context) {
	identity := identityFrom(c)

	items, err := h.cart.ListForUser(c.Request.Context(), identity.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) addToCart(c *gin.Context) {
	identity := identityFrom(c)

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.cart.Add(c.Request.Context(), identity.UserID, req.JewelryID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) updateCartItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.cart.SetQuantity(c.Request.Context(), id, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) removeCartItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.cart.Remove(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) checkoutCart(c *gin.Context) {
	identity := identityFrom(c)

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	orders, err := h.checkout.Checkout(c.Request.Context(),
		identity.UserID, req.AddressID, c.GetHeader("Idempotency-Key"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"orders": orders})
}

// --- orders ---

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) listOrders(c *gin.Context) {
	identity := identityFrom(c)

	orders, err := h.orders.ListForUser(c.Request.Context(), identity.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) getOrder(c *gin.Context) {
	identity := identityFrom(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.Get(c.Request.Context(), id, identity.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) listAllOrders(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.orders.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// --- jewelry ---

type jewelryRequest struct {
	ModelNumber   string          `json:"model_number" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Type          string          `json:"type" binding:"required"`
	StockQuantity int             `json:"stock_quantity" binding:"min=0"`
	Price         decimal.Decimal `json:"price"`
	DateOfArrival time.Time       `json:"date_of_arrival"`
}

func (h *Handler) listJewelry(c *gin.Context) {
	items, err := h.catalog.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) getJewelry(c *gin.Context) {
	item, err := h.catalog.GetByModel(c.Request.Context(), c.Param("model"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) createJewelry(c *gin.Context) {
	identity := identityFrom(c)

	var req jewelryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item := &models.Jewelry{
		ModelNumber:   req.ModelNumber,
		Name:          req.Name,
		Type:          req.Type,
		StockQuantity: req.StockQuantity,
		Price:         req.Price,
		DateOfArrival: req.DateOfArrival,
	}
	if item.DateOfArrival.IsZero() {
		item.DateOfArrival = time.Now()
	}

	created, err := h.catalog.Create(c.Request.Context(), item, identity.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateJewelry(c *gin.Context) {
	var req jewelryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item := &models.Jewelry{
		ModelNumber:   c.Param("model"),
		Name:          req.Name,
		Type:          req.Type,
		StockQuantity: req.StockQuantity,
		Price:         req.Price,
		DateOfArrival: req.DateOfArrival,
	}

	updated, err := h.catalog.Update(c.Request.Context(), item)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteJewelry(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("model")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- addresses ---

type addressRequest struct {
	Street   string `json:"street" binding:"required"`
	City     string `json:"city" binding:"required"`
	State    string `json:"state" binding:"required"`
	Country  string `json:"country" binding:"required"`
	Pincode  string `json:"pincode" binding:"required"`
	Landmark string `json:"landmark"`
	Phone    string `json:"phone" binding:"required"`
}

func (r *addressRequest) toModel() *models.Address {
	return &models.Address{
		Street:   r.Street,
		City:     r.City,
		State:    r.State,
		Country:  r.Country,
		Pincode:  r.Pincode,
		Landmark: r.Landmark,
		Phone:    r.Phone,
	}
}

func (h *Handler) listAddresses(c *gin.Context) {
	identity := identityFrom(c)

	addrs, err := h.addresses.List(c.Request.Context(), identity.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, addrs)
}

func (h *Handler) createAddress(c *gin.Context) {
	identity := identityFrom(c)

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	addr, err := h.addresses.Save(c.Request.Context(), req.toModel(), identity.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, addr)
}

func (h *Handler) updateAddress(c *gin.Context) {
	identity := identityFrom(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	addr := req.toModel()
	addr.ID = id

	updated, err := h.addresses.Update(c.Request.Context(), addr, identity.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteAddress(c *gin.Context) {
	identity := identityFrom(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.addresses.Delete(c.Request.Context(), id, identity.UserID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
