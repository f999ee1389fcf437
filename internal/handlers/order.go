package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/shopapp/internal/middleware"
	"github.com/example/shopapp/internal/models"
	"github.com/example/shopapp/internal/services"
	"github.com/example/shopapp/internal/utils"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	orders   *services.OrderService
	users    *services.UserService
	notifier services.OrderNotifier
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orders *services.OrderService, users *services.UserService, notifier services.OrderNotifier) *OrderHandler {
	return &OrderHandler{orders: orders, users: users, notifier: notifier}
}

type cartLineRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

type createOrderRequest struct {
	FullName        string            `json:"fullname"`
	Email           string            `json:"email"`
	PhoneNumber     string            `json:"phone_number"`
	Address         string            `json:"address"`
	Note            string            `json:"note"`
	ShippingMethod  string            `json:"shipping_method"`
	ShippingAddress string            `json:"shipping_address"`
	ShippingDate    string            `json:"shipping_date"`
	PaymentMethod   string            `json:"payment_method"`
	CartItems       []cartLineRequest `json:"cart_items" validate:"required,min=1,dive"`
}

// CreateOrder materializes the caller's cart into an order.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	input := services.CreateOrderInput{
		FullName:        req.FullName,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		Address:         req.Address,
		Note:            req.Note,
		ShippingMethod:  req.ShippingMethod,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	}
	for _, line := range req.CartItems {
		input.CartLines = append(input.CartLines, services.CartLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	if req.ShippingDate != "" {
		date, err := time.ParseInLocation("2006-01-02", req.ShippingDate, time.Local)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid shipping_date, expected YYYY-MM-DD")
		}
		input.ShippingDate = &date
	}

	order, err := h.orders.Create(caller.ID, input)
	if err != nil {
		return respondError(c, err)
	}

	if h.notifier != nil {
		h.notifier.NotifyNewOrder(order, caller)
	}

	return respondCreated(c, "Insert order successfully", orderResponse(order))
}

// ListByUser returns orders of one user. Callers see their own orders;
// admins may read any user's.
func (h *OrderHandler) ListByUser(c *fiber.Ctx) error {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	userID, err := c.ParamsInt("user_id")
	if err != nil || userID <= 0 {
		userID = int(caller.ID)
	}
	if uint(userID) != caller.ID && !caller.IsAdmin() {
		return fiber.NewError(fiber.StatusForbidden, "cannot read another user's orders")
	}

	orders, err := h.orders.ListByUser(uint(userID))
	if err != nil {
		return respondError(c, err)
	}

	responses := make([]fiber.Map, 0, len(orders))
	for i := range orders {
		responses = append(responses, orderResponse(&orders[i]))
	}
	return respondSuccess(c, "Get list of orders successfully", responses)
}

// GetOrder returns a single order by id.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.orders.Get(uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, "Get order successfully", orderResponse(order))
}

// UpdateOrder applies a partial update. Admin only.
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var patch services.OrderPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.orders.Update(uint(id), patch)
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, "Update order successfully", orderResponse(order))
}

// CancelOrder cancels an order placed by the caller.
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	caller, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.orders.Cancel(uint(id), caller.ID)
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, "Cancel order successfully", orderResponse(order))
}

// DeleteOrder soft-deletes an order. Deleting a missing id succeeds.
// Admin only.
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.orders.Delete(uint(id)); err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, "Delete order successfully", nil)
}

// UpdateStatus transitions an order's status. Admin only.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	status := c.Query("status")
	if status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "status is required")
	}

	order, err := h.orders.UpdateStatus(uint(id), status)
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, "Order status updated successfully", orderResponse(order))
}

// SearchByKeyword returns active orders matching a keyword. Admin only.
func (h *OrderHandler) SearchByKeyword(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	orders, total, err := h.orders.SearchByKeyword(c.Query("keyword"), pg)
	if err != nil {
		return respondError(c, err)
	}

	responses := make([]fiber.Map, 0, len(orders))
	for i := range orders {
		responses = append(responses, orderResponse(&orders[i]))
	}
	return respondList(c, "Get orders successfully", responses, pg.Page, pg.Limit, total)
}

func orderResponse(order *models.Order) fiber.Map {
	items := make([]fiber.Map, 0, len(order.Details))
	for _, detail := range order.Details {
		items = append(items, fiber.Map{
			"product_id": detail.ProductID,
			"quantity":   detail.Quantity,
			"unit_price": detail.UnitPrice,
		})
	}

	return fiber.Map{
		"id":               order.ID,
		"user_id":          order.UserID,
		"fullname":         order.FullName,
		"email":            order.Email,
		"phone_number":     order.PhoneNumber,
		"address":          order.Address,
		"note":             order.Note,
		"order_date":       order.OrderDate,
		"status":           order.Status,
		"total_money":      order.TotalMoney,
		"shipping_method":  order.ShippingMethod,
		"shipping_address": order.ShippingAddress,
		"shipping_date":    order.ShippingDate,
		"payment_method":   order.PaymentMethod,
		"active":           order.Active,
		"items":            items,
	}
}
