package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/shopapp/internal/models"
	"github.com/example/shopapp/internal/services"
	"github.com/example/shopapp/internal/store"
	"github.com/example/shopapp/internal/testutils"
	"github.com/example/shopapp/internal/utils"
)

func newOrderService(db *gorm.DB) *services.OrderService {
	return services.NewOrderService(db, store.NewOrderStore(db), store.NewUserStore(db))
}

func TestCreateOrderMaterializesCart(t *testing.T) {
	db := testutils.TestDB(t)
	svc := newOrderService(db)

	user := testutils.CreateTestUser(t, db, "998901112233", "", "secret1", models.RoleUser)
	category := testutils.CreateTestCategory(t, db, "Phones")
	p1 := testutils.CreateTestProduct(t, db, "Handset", 100, category.ID)
	p2 := testutils.CreateTestProduct(t, db, "Charger", 25.5, category.ID)

	order, err := svc.Create(user.ID, services.CreateOrderInput{
		FullName:    "Buyer",
		Address:     "2 Cart Lane",
		PhoneNumber: "998901112233",
		CartLines: []services.CartLine{
			{ProductID: p1.ID, Quantity: 2},
			{ProductID: p2.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, order.Active)
	require.Len(t, order.Details, 2)
	assert.Equal(t, 100.0, order.Details[0].UnitPrice)
	assert.Equal(t, 25.5, order.Details[1].UnitPrice)
	assert.Equal(t, 2*100.0+3*25.5, order.TotalMoney)

	// Later price changes never affect the captured line price.
	p1.Price = 999
	require.NoError(t, db.Save(p1).Error)

	reloaded, err := svc.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, reloaded.Details[0].UnitPrice)
	assert.Equal(t, order.TotalMoney, reloaded.TotalMoney)
}

func TestCreateOrderDefaultsShippingFields(t *testing.T) {
	db := testutils.TestDB(t)
	svc := newOrderService(db)

	user := testutils.CreateTestUser(t, db, "998901112233", "", "secret1", models.RoleUser)
	category := testutils.CreateTestCategory(t, db, "Phones")
	product := testutils.CreateTestProduct(t, db, "Handset", 10, category.ID)

	order, err := svc.Create(user.ID, services.CreateOrderInput{
		Address:   "2 Cart Lane",
		CartLines: []services.CartLine{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, "2 Cart Lane", order.ShippingAddress)

	now := time.Now()
	year, month, day := now.Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	assert.True(t, order.ShippingDate.Equal(today), "shipping date defaults to today")
}

func TestCreateOrderAcceptsUTCMidnightTodayWestOfUTC(t *testing.T) {
	original := time.Local
	time.Local = time.FixedZone("UTC-5", -5*60*60)
	t.Cleanup(func() { time.Local = original })

	db := testutils.TestDB(t)
	svc := newOrderService(db)

	user := testutils.CreateTestUser(t, db, "998901112233", "", "secret1", models.RoleUser)
	category := testutils.CreateTestCategory(t, db, "Phones")
	product := testutils.CreateTestProduct(t, db, "Handset", 10, category.ID)

	// A same-day date serialized as UTC midnight sits hours before local
	// midnight on a server west of UTC; the calendar date is still today.
	year, month, day := time.Now().Date()
	utcMidnight := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	order, err := svc.Create(user.ID, services.CreateOrderInput{
		ShippingDate: &utcMidnight,
		CartLines:    []services.CartLine{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, utcMidnight, order.ShippingDate)
}

func TestCreateOrderRejectsPastShippingDate(t *testing.T) {
	db := testutils.TestDB(t)
	svc := newOrderService(db)

	user := testutils.CreateTestUser(t, db, "998901112233", "", "secret1", models.RoleUser)
	category := testutils.CreateTestCategory(t, db, "Phones")
	product := testutils.CreateTestProduct(t, db, "Handset", 10, category.ID)

	yesterday := time.Now().AddDate(0, 0, -1)
	_, err := svc.Create(user.ID, services.CreateOrderInput{
		ShippingDate: &yesterday,
		CartLines:    []services.CartLine{{ProductID: product.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, services.ErrShippingDate)

	var orders, details int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderDetail{}).Count(&details).Error)
	assert.Zero(t, orders)
	assert.Zero(t, details)
}

func TestCreateOrderRollsBackOnMissingProduct(t *testing.T) {
	db := testutils.TestDB(t)
	svc := newOrderService(db)

	user := testutils.CreateTestUser(t, db, "998901112233", "", "secret1", models.RoleUser)
	category := testutils.CreateTestCategory(t, db, "Phones")
	product := testutils.CreateTestProduct(t, db, "Handset", 10, category.ID)

	_, err := svc.Create(user.ID, services.CreateOrderInput{
		CartLines: []services.CartLine{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: 99999, Quantity: 1},
		},
	})
	require.ErrorIs(t, err, store.ErrProductNotFound)

	var orders, details int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderDetail{}).Count(&details).Error)
	assert.Zero(t, orders, "no partially-created order may be visible")
	assert.Zero(t, details)
}

func TestCreateOrderUnknownUser(t *testing.T) {
	db := testutils.TestDB(t)
	svc := newOrderService(db)

	_, err := svc.Create(12345, services.CreateOrderInput{
		CartLines: []services.CartLine{{ProductID: 1, Quantity: 1}},
	})
	require.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestCancelOrderOwnership(t *testing.T) {
	db := testutils.TestDB(t)
	svc := newOrderService(db)

	owner := testutils.CreateTestUser(t, db, "998901112233", "", "secret1", models.RoleUser)
	other := testutils.CreateTestUser(t, db, "998907778899", "", "secret2", models.RoleUser)
	category := testutils.CreateTestCategory(t, db, "Phones")
	product := testutils.CreateTestProduct(t, db, "Handset", 10, category.ID)

	order, err := svc.Create(owner.ID, services.CreateOrderInput{
		CartLines: []services.CartLine{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.Cancel(order.ID, other.ID)
	require.ErrorIs(t, err, services.ErrNotOrderOwner)

	cancelled, err := svc.Cancel(order.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
}

func TestDeleteOrderSoftDeletes(t *testing.T) {
	db := testutils.TestDB(t)
	svc := newOrderService(db)

	user := testutils.CreateTestUser(t, db, "998901112233", "", "secret1", models.RoleUser)
	category := testutils.CreateTestCategory(t, db, "Phones")
	product := testutils.CreateTestProduct(t, db, "Handset", 10, category.ID)

	order, err := svc.Create(user.ID, services.CreateOrderInput{
		CartLines: []services.CartLine{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(order.ID))

	reloaded, err := svc.Get(order.ID)
	require.NoError(t, err, "soft-deleted order stays retrievable by id")
	assert.False(t, reloaded.Active)

	// Deleting a missing id is a silent no-op.
	require.NoError(t, svc.Delete(99999))
}

func TestUpdateStatusTransitions(t *testing.T) {
	db := testutils.TestDB(t)
	svc := newOrderService(db)

	user := testutils.CreateTestUser(t, db, "998901112233", "", "secret1", models.RoleUser)
	category := testutils.CreateTestCategory(t, db, "Phones")
	product := testutils.CreateTestProduct(t, db, "Handset", 10, category.ID)

	order, err := svc.Create(user.ID, services.CreateOrderInput{
		CartLines: []services.CartLine{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(order.ID, models.OrderStatusDelivered)
	require.ErrorIs(t, err, services.ErrStatusTransition, "pending cannot jump to delivered")

	_, err = svc.UpdateStatus(order.ID, "teleported")
	require.ErrorIs(t, err, services.ErrStatusTransition)

	for _, status := range []string{
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
	} {
		updated, err := svc.UpdateStatus(order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	_, err = svc.UpdateStatus(order.ID, models.OrderStatusCancelled)
	require.ErrorIs(t, err, services.ErrStatusTransition, "delivered is terminal")
}

func TestUpdateOrderPatchSemantics(t *testing.T) {
	db := testutils.TestDB(t)
	svc := newOrderService(db)

	user := testutils.CreateTestUser(t, db, "998901112233", "", "secret1", models.RoleUser)
	category := testutils.CreateTestCategory(t, db, "Phones")
	product := testutils.CreateTestProduct(t, db, "Handset", 10, category.ID)

	order, err := svc.Create(user.ID, services.CreateOrderInput{
		FullName:  "Original Name",
		Address:   "Original Address",
		Note:      "Original Note",
		CartLines: []services.CartLine{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	newName := "Patched Name"
	blank := "   "
	updated, err := svc.Update(order.ID, services.OrderPatch{
		FullName: &newName,
		Address:  &blank,
	})
	require.NoError(t, err)

	assert.Equal(t, "Patched Name", updated.FullName)
	assert.Equal(t, "Original Address", updated.Address, "blank patch fields leave the target untouched")
	assert.Equal(t, "Original Note", updated.Note)
	assert.Equal(t, user.ID, updated.UserID, "owner unchanged without explicit user id")
}

func TestUpdateOrderOwnerReassignment(t *testing.T) {
	db := testutils.TestDB(t)
	svc := newOrderService(db)

	owner := testutils.CreateTestUser(t, db, "998901112233", "", "secret1", models.RoleUser)
	next := testutils.CreateTestUser(t, db, "998907778899", "", "secret2", models.RoleUser)
	category := testutils.CreateTestCategory(t, db, "Phones")
	product := testutils.CreateTestProduct(t, db, "Handset", 10, category.ID)

	order, err := svc.Create(owner.ID, services.CreateOrderInput{
		CartLines: []services.CartLine{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	missing := uint(99999)
	_, err = svc.Update(order.ID, services.OrderPatch{UserID: &missing})
	require.ErrorIs(t, err, store.ErrUserNotFound)

	updated, err := svc.Update(order.ID, services.OrderPatch{UserID: &next.ID})
	require.NoError(t, err)
	assert.Equal(t, next.ID, updated.UserID)

	_, err = svc.Update(99999, services.OrderPatch{})
	require.ErrorIs(t, err, store.ErrOrderNotFound)
}

func TestSearchByKeywordPaging(t *testing.T) {
	db := testutils.TestDB(t)
	svc := newOrderService(db)

	user := testutils.CreateTestUser(t, db, "998901112233", "", "secret1", models.RoleUser)
	category := testutils.CreateTestCategory(t, db, "Phones")
	product := testutils.CreateTestProduct(t, db, "Handset", 10, category.ID)

	for i := 0; i < 5; i++ {
		_, err := svc.Create(user.ID, services.CreateOrderInput{
			FullName:  "Keyword Buyer",
			Address:   "Searchable Street",
			CartLines: []services.CartLine{{ProductID: product.ID, Quantity: 1}},
		})
		require.NoError(t, err)
	}
	noise, err := svc.Create(user.ID, services.CreateOrderInput{
		FullName:  "Someone Else",
		CartLines: []services.CartLine{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(noise.ID))

	page1, total, err := svc.SearchByKeyword("keyword", utils.Pagination{Page: 1, Limit: 3, Offset: 0})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page1, 3)

	page2, _, err := svc.SearchByKeyword("keyword", utils.Pagination{Page: 2, Limit: 3, Offset: 3})
	require.NoError(t, err)
	require.Len(t, page2, 2)

	// Stable id-ascending sort keeps page boundaries deterministic.
	assert.Less(t, page1[2].ID, page2[0].ID)

	// Soft-deleted orders never surface in search.
	all, total, err := svc.SearchByKeyword("", utils.Pagination{Page: 1, Limit: 50, Offset: 0})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	for _, order := range all {
		assert.True(t, order.Active)
	}
}
