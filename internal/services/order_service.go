package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/example/shopapp/internal/models"
	"github.com/example/shopapp/internal/store"
	"github.com/example/shopapp/internal/utils"
)

// statusTransitions is the allowed order state machine. DELIVERED and
// CANCELLED are terminal.
var statusTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
	models.OrderStatusDelivered:  {},
	models.OrderStatusCancelled:  {},
}

// CartLine is one (product, quantity) pair submitted by a client.
type CartLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// CreateOrderInput carries everything needed to materialize an order.
type CreateOrderInput struct {
	FullName        string
	Email           string
	PhoneNumber     string
	Address         string
	Note            string
	ShippingMethod  string
	ShippingAddress string
	ShippingDate    *time.Time
	PaymentMethod   string
	CartLines       []CartLine
}

// OrderPatch carries optional order updates. A present-and-non-blank field
// overwrites the matching order field; nil fields stay untouched. The owner
// changes only when UserID is set explicitly.
type OrderPatch struct {
	UserID          *uint      `json:"user_id"`
	FullName        *string    `json:"full_name"`
	Email           *string    `json:"email"`
	PhoneNumber     *string    `json:"phone_number"`
	Address         *string    `json:"address"`
	Note            *string    `json:"note"`
	Status          *string    `json:"status"`
	TotalMoney      *float64   `json:"total_money"`
	ShippingMethod  *string    `json:"shipping_method"`
	ShippingAddress *string    `json:"shipping_address"`
	ShippingDate    *time.Time `json:"shipping_date"`
	PaymentMethod   *string    `json:"payment_method"`
}

// OrderService implements the order workflow: cart materialization, partial
// updates, ownership-checked cancellation, soft delete and keyword search.
type OrderService struct {
	db     *gorm.DB
	orders *store.OrderStore
	users  *store.UserStore
}

// NewOrderService constructs an OrderService. The db handle is used for the
// creation transaction, where product resolution and the order insert must
// share one atomic unit.
func NewOrderService(db *gorm.DB, orders *store.OrderStore, users *store.UserStore) *OrderService {
	return &OrderService{db: db, orders: orders, users: users}
}

// Create validates the cart and materializes an order with its detail rows
// in one transaction. Each line captures the product's current price, so
// later price changes never affect past orders.
func (s *OrderService) Create(callerID uint, input CreateOrderInput) (*models.Order, error) {
	user, err := s.users.FindByID(callerID)
	if err != nil {
		return nil, err
	}

	shippingDate := startOfDay(time.Now())
	if input.ShippingDate != nil {
		shippingDate = startOfDay(*input.ShippingDate)
	}
	if civilDate(shippingDate).Before(civilDate(time.Now())) {
		return nil, ErrShippingDate
	}

	shippingAddress := input.ShippingAddress
	if shippingAddress == "" {
		shippingAddress = input.Address
	}

	order := &models.Order{
		UserID:          user.ID,
		FullName:        input.FullName,
		Email:           input.Email,
		PhoneNumber:     input.PhoneNumber,
		Address:         input.Address,
		Note:            input.Note,
		OrderDate:       time.Now(),
		Status:          models.OrderStatusPending,
		ShippingMethod:  input.ShippingMethod,
		ShippingAddress: shippingAddress,
		ShippingDate:    shippingDate,
		PaymentMethod:   input.PaymentMethod,
		Active:          true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var total float64
		for _, line := range input.CartLines {
			var product models.Product
			if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: id %d", store.ErrProductNotFound, line.ProductID)
				}
				return err
			}

			order.Details = append(order.Details, models.OrderDetail{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
			})
			total += product.Price * float64(line.Quantity)
		}

		order.TotalMoney = total
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// Get loads one order with its details.
func (s *OrderService) Get(id uint) (*models.Order, error) {
	return s.orders.FindByID(id)
}

// ListByUser returns all orders of one user.
func (s *OrderService) ListByUser(userID uint) ([]models.Order, error) {
	return s.orders.FindByUserID(userID)
}

// Update applies a partial update. Ownership is reassigned only when the
// patch names a user explicitly, and that user must exist.
func (s *OrderService) Update(id uint, patch OrderPatch) (*models.Order, error) {
	order, err := s.orders.FindByID(id)
	if err != nil {
		return nil, err
	}

	if patch.UserID != nil && *patch.UserID != 0 {
		user, err := s.users.FindByID(*patch.UserID)
		if err != nil {
			return nil, err
		}
		order.UserID = user.ID
	}

	if err := applyOrderPatch(order, patch); err != nil {
		return nil, err
	}

	if err := s.orders.Save(order); err != nil {
		return nil, err
	}
	return order, nil
}

// applyOrderPatch merges every present-and-non-blank patch field into the
// order. Status changes go through the transition table.
func applyOrderPatch(order *models.Order, patch OrderPatch) error {
	setString := func(dst *string, src *string) {
		if src != nil && strings.TrimSpace(*src) != "" {
			*dst = strings.TrimSpace(*src)
		}
	}

	setString(&order.FullName, patch.FullName)
	setString(&order.Email, patch.Email)
	setString(&order.PhoneNumber, patch.PhoneNumber)
	setString(&order.Address, patch.Address)
	setString(&order.Note, patch.Note)
	setString(&order.ShippingMethod, patch.ShippingMethod)
	setString(&order.ShippingAddress, patch.ShippingAddress)
	setString(&order.PaymentMethod, patch.PaymentMethod)

	if patch.TotalMoney != nil {
		order.TotalMoney = *patch.TotalMoney
	}
	if patch.ShippingDate != nil {
		order.ShippingDate = startOfDay(*patch.ShippingDate)
	}
	if patch.Status != nil && strings.TrimSpace(*patch.Status) != "" {
		next := strings.ToLower(strings.TrimSpace(*patch.Status))
		if err := checkTransition(order.Status, next); err != nil {
			return err
		}
		order.Status = next
	}

	return nil
}

// Cancel transitions an order to CANCELLED. Only the user who placed the
// order may cancel it.
func (s *OrderService) Cancel(id uint, callerID uint) (*models.Order, error) {
	order, err := s.orders.FindByID(id)
	if err != nil {
		return nil, err
	}

	if order.UserID != callerID {
		return nil, ErrNotOrderOwner
	}

	status := models.OrderStatusCancelled
	return s.Update(id, OrderPatch{Status: &status})
}

// Delete soft-deletes an order: the row stays retrievable with active=false.
// A missing id is a silent no-op.
func (s *OrderService) Delete(id uint) error {
	order, err := s.orders.FindByID(id)
	if errors.Is(err, store.ErrOrderNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	order.Active = false
	return s.orders.Save(order)
}

// UpdateStatus transitions an order to the given status through the
// transition table.
func (s *OrderService) UpdateStatus(id uint, status string) (*models.Order, error) {
	order, err := s.orders.FindByID(id)
	if err != nil {
		return nil, err
	}

	next := strings.ToLower(strings.TrimSpace(status))
	if err := checkTransition(order.Status, next); err != nil {
		return nil, err
	}

	order.Status = next
	if err := s.orders.Save(order); err != nil {
		return nil, err
	}
	return order, nil
}

// SearchByKeyword returns active orders matching the keyword with
// deterministic offset/limit paging.
func (s *OrderService) SearchByKeyword(keyword string, pg utils.Pagination) ([]models.Order, int64, error) {
	return s.orders.SearchByKeyword(keyword, pg)
}

func checkTransition(current, next string) error {
	if _, known := statusTransitions[next]; !known {
		return fmt.Errorf("%w: unknown status %q", ErrStatusTransition, next)
	}
	if current == next {
		return nil
	}
	for _, candidate := range statusTransitions[current] {
		if candidate == next {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrStatusTransition, current, next)
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// civilDate strips a timestamp to the calendar date written in its own
// location. Shipping dates carry no meaningful clock or zone, so comparing
// civil dates keeps a same-day order valid no matter which offset the value
// arrived with.
func civilDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
