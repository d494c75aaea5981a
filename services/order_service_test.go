package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/novus318/resoi.server/models"
	"github.com/novus318/resoi.server/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique in-memory database per test so parallel tests never share state.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.AdminUser{},
		&models.Table{},
		&models.Order{},
		&models.CartItem{},
		&models.Staff{},
		&models.StaffTransaction{},
	))
	return db
}

// broadcastRecorder captures hub publications so tests can assert on exactly
// what would have reached the dashboards.
type broadcastRecorder struct {
	mu           sync.Mutex
	tableEvents  []*models.Order
	onlineEvents []*models.Order
}

func (r *broadcastRecorder) PublishTableOrder(order *models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tableEvents = append(r.tableEvents, order)
}

func (r *broadcastRecorder) PublishOnlineOrder(order *models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onlineEvents = append(r.onlineEvents, order)
}

func (r *broadcastRecorder) counts() (table, online int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tableEvents), len(r.onlineEvents)
}

// stubGateway stands up a fake gateway whose responses the test scripts.
// requests counts every HTTP call that reached it.
func stubGateway(t *testing.T, requests *int32, handler http.HandlerFunc) *PhonePeService {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			atomic.AddInt32(requests, 1)
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return testGateway(server.URL)
}

func acceptingGateway(t *testing.T, requests *int32) *PhonePeService {
	return stubGateway(t, requests, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"code":"PAYMENT_INITIATED"}`)
	})
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{Name: "Asha", MobileNumber: "9876543210"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTable(t *testing.T, db *gorm.DB) *models.Table {
	t.Helper()
	table := &models.Table{TableNumber: "T1", Status: models.TableAvailable}
	require.NoError(t, db.Create(table).Error)
	return table
}

func sampleCart() []CartItemInput {
	return []CartItemInput{
		{ItemID: 1, Name: "Paneer Tikka", Price: 9000, Quantity: 2, Variant: "full", IsVeg: true},
		{ItemID: 2, Name: "Masala Chai", Price: 5000, Quantity: 1},
	}
}

func TestCreateTableOrderDineIn(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	table := seedTable(t, db)
	rec := &broadcastRecorder{}
	svc := NewOrderService(db, nil, rec)

	order, err := svc.CreateTableOrder(CreateTableOrderInput{
		Kind:     models.KindDining,
		TableID:  &table.ID,
		UserType: models.PrincipalUser,
		UserID:   user.ID,
		Items:    sampleCart(),
	})
	require.NoError(t, err)

	assert.Regexp(t, orderIDPattern, order.OrderID)
	assert.Equal(t, models.StatusConfirmed, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, int64(23000), order.TotalAmount)
	require.NotNil(t, order.Table)
	assert.Equal(t, "T1", order.Table.TableNumber)

	var stored models.Table
	require.NoError(t, db.First(&stored, table.ID).Error)
	assert.Equal(t, models.TableOccupied, stored.Status)

	tableEvents, onlineEvents := rec.counts()
	assert.Equal(t, 1, tableEvents)
	assert.Equal(t, 0, onlineEvents)
}

func TestCreateTableOrderParcelNeedsNoTable(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	rec := &broadcastRecorder{}
	svc := NewOrderService(db, nil, rec)

	order, err := svc.CreateTableOrder(CreateTableOrderInput{
		Kind:     models.KindParcel,
		UserType: models.PrincipalUser,
		UserID:   user.ID,
		Items:    sampleCart(),
	})
	require.NoError(t, err)
	assert.Nil(t, order.TableID)
	assert.Equal(t, models.StatusConfirmed, order.Status)
}

func TestCreateTableOrderValidation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	table := seedTable(t, db)
	svc := NewOrderService(db, nil, nil)

	tests := []struct {
		name string
		in   CreateTableOrderInput
		kind utils.ErrorKind
	}{
		{
			name: "dining without table",
			in:   CreateTableOrderInput{Kind: models.KindDining, UserType: models.PrincipalUser, UserID: user.ID, Items: sampleCart()},
			kind: utils.KindInvalidInput,
		},
		{
			name: "online kind rejected here",
			in:   CreateTableOrderInput{Kind: models.KindOnline, UserType: models.PrincipalUser, UserID: user.ID, Items: sampleCart()},
			kind: utils.KindInvalidInput,
		},
		{
			name: "empty cart",
			in:   CreateTableOrderInput{Kind: models.KindDining, TableID: &table.ID, UserType: models.PrincipalUser, UserID: user.ID},
			kind: utils.KindInvalidInput,
		},
		{
			name: "unknown principal kind",
			in:   CreateTableOrderInput{Kind: models.KindParcel, UserType: "Visitor", UserID: user.ID, Items: sampleCart()},
			kind: utils.KindInvalidInput,
		},
		{
			name: "missing user",
			in:   CreateTableOrderInput{Kind: models.KindParcel, UserType: models.PrincipalUser, UserID: 999, Items: sampleCart()},
			kind: utils.KindNotFound,
		},
		{
			name: "zero quantity line",
			in: CreateTableOrderInput{Kind: models.KindParcel, UserType: models.PrincipalUser, UserID: user.ID,
				Items: []CartItemInput{{ItemID: 1, Name: "Chai", Price: 5000, Quantity: 0}}},
			kind: utils.KindInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTableOrder(tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.kind, utils.KindOf(err))
		})
	}
}

func TestCreateTableOrderRollsBackOnMissingTable(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	svc := NewOrderService(db, nil, nil)

	missing := uint(999)
	_, err := svc.CreateTableOrder(CreateTableOrderInput{
		Kind:     models.KindDining,
		TableID:  &missing,
		UserType: models.PrincipalUser,
		UserID:   user.ID,
		Items:    sampleCart(),
	})
	require.Error(t, err)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))

	// The order insert must have rolled back with the failed table update.
	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateOnlineOrderCOD(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	rec := &broadcastRecorder{}
	var gatewayHits int32
	svc := NewOrderService(db, acceptingGateway(t, &gatewayHits), rec)

	order, charge, err := svc.CreateOnlineOrder(CreateOnlineOrderInput{
		UserID:        user.ID,
		Address:       "12 MG Road, Kochi",
		Lat:           9.93,
		Lng:           76.26,
		PaymentMethod: models.PaymentMethodCOD,
		Items:         sampleCart(),
	})
	require.NoError(t, err)
	assert.Nil(t, charge)

	// COD confirms immediately but the payment stays pending until delivery.
	assert.Equal(t, models.StatusConfirmed, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, models.KindOnline, order.Kind)
	assert.Equal(t, "12 MG Road, Kochi", order.DeliveryAddress)
	assert.Zero(t, atomic.LoadInt32(&gatewayHits))

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "12 MG Road, Kochi", stored.DeliveryAddress)
	assert.Equal(t, 9.93, stored.DeliveryLat)

	tableEvents, onlineEvents := rec.counts()
	assert.Equal(t, 0, tableEvents)
	assert.Equal(t, 1, onlineEvents)
}

func TestCreateOnlineOrderOnlinePayment(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	rec := &broadcastRecorder{}
	var gatewayHits int32
	svc := NewOrderService(db, acceptingGateway(t, &gatewayHits), rec)

	order, charge, err := svc.CreateOnlineOrder(CreateOnlineOrderInput{
		UserID:        user.ID,
		Address:       "12 MG Road, Kochi",
		PaymentMethod: models.PaymentMethodOnline,
		Items:         sampleCart(),
	})
	require.NoError(t, err)
	require.NotNil(t, charge)
	assert.True(t, charge.Success)
	assert.Equal(t, int32(1), atomic.LoadInt32(&gatewayHits))

	// The order stays pending until the gateway settles; no broadcast yet.
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	_, onlineEvents := rec.counts()
	assert.Zero(t, onlineEvents)
}

func TestCreateOnlineOrderInvalidPayerKeepsOrder(t *testing.T) {
	db := newTestDB(t)
	user := &models.User{Name: "Ravi", MobileNumber: "987654321"} // 9 digits
	require.NoError(t, db.Create(user).Error)
	svc := NewOrderService(db, acceptingGateway(t, nil), &broadcastRecorder{})

	order, charge, err := svc.CreateOnlineOrder(CreateOnlineOrderInput{
		UserID:        user.ID,
		Address:       "12 MG Road, Kochi",
		PaymentMethod: models.PaymentMethodOnline,
		Items:         sampleCart(),
	})
	require.Error(t, err)
	assert.Equal(t, utils.KindInvalidInput, utils.KindOf(err))
	assert.Nil(t, charge)

	// The order is durable before the charge is attempted, so the caller
	// gets it back and can retry payment against it.
	require.NotNil(t, order)
	stored, getErr := svc.GetOrder(order.OrderID)
	require.NoError(t, getErr)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Equal(t, models.PaymentPending, stored.PaymentStatus)
}

func TestCreateOnlineOrderReusesExisting(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	svc := NewOrderService(db, acceptingGateway(t, nil), &broadcastRecorder{})

	first, _, err := svc.CreateOnlineOrder(CreateOnlineOrderInput{
		UserID:        user.ID,
		Address:       "12 MG Road, Kochi",
		PaymentMethod: models.PaymentMethodOnline,
		Items:         sampleCart(),
	})
	require.NoError(t, err)

	second, _, err := svc.CreateOnlineOrder(CreateOnlineOrderInput{
		UserID:          user.ID,
		Address:         "14 MG Road, Kochi",
		PaymentMethod:   models.PaymentMethodOnline,
		ExistingOrderID: first.OrderID,
	})
	require.NoError(t, err)
	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Equal(t, "14 MG Road, Kochi", second.DeliveryAddress)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateOnlineOrderRejectsForeignReuse(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	other := &models.User{Name: "Ravi", MobileNumber: "9000000000"}
	require.NoError(t, db.Create(other).Error)
	svc := NewOrderService(db, acceptingGateway(t, nil), &broadcastRecorder{})

	first, _, err := svc.CreateOnlineOrder(CreateOnlineOrderInput{
		UserID:        user.ID,
		Address:       "12 MG Road, Kochi",
		PaymentMethod: models.PaymentMethodCOD,
		Items:         sampleCart(),
	})
	require.NoError(t, err)

	_, _, err = svc.CreateOnlineOrder(CreateOnlineOrderInput{
		UserID:          other.ID,
		Address:         "7 Marine Drive",
		PaymentMethod:   models.PaymentMethodCOD,
		ExistingOrderID: first.OrderID,
	})
	require.Error(t, err)
	assert.Equal(t, utils.KindInvalidInput, utils.KindOf(err))
}

func TestUpdateCartItemsMergesByItemAndVariant(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	svc := NewOrderService(db, nil, &broadcastRecorder{})

	order, err := svc.CreateTableOrder(CreateTableOrderInput{
		Kind:     models.KindParcel,
		UserType: models.PrincipalUser,
		UserID:   user.ID,
		Items:    sampleCart(), // item 1 "full" x2 at 9000, item 2 x1 at 5000
	})
	require.NoError(t, err)

	updated, err := svc.UpdateCartItems(order.OrderID, []CartItemInput{
		{ItemID: 1, Name: "Paneer Tikka", Price: 9000, Quantity: 1, Variant: "full"},
		{ItemID: 1, Name: "Paneer Tikka", Price: 6000, Quantity: 1, Variant: "half"},
	})
	require.NoError(t, err)

	require.Len(t, updated.CartItems, 3)
	quantities := map[string]int{}
	for _, item := range updated.CartItems {
		quantities[fmt.Sprintf("%d/%s", item.ItemID, item.Variant)] = item.Quantity
	}
	assert.Equal(t, 3, quantities["1/full"], "same item and variant must merge")
	assert.Equal(t, 1, quantities["1/half"], "new variant must append")
	assert.Equal(t, 1, quantities["2/"])

	// 3x9000 + 1x6000 + 1x5000
	assert.Equal(t, int64(38000), updated.TotalAmount)

	stored, err := svc.GetOrder(order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, int64(38000), stored.TotalAmount)
	assert.Len(t, stored.CartItems, 3)
}

func TestUpdateCartItemsUnknownOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, nil, nil)

	_, err := svc.UpdateCartItems("RS-0000000", sampleCart())
	require.Error(t, err)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func TestUpdateStatusSettlesPaymentOnComplete(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	rec := &broadcastRecorder{}
	svc := NewOrderService(db, nil, rec)

	order, err := svc.CreateTableOrder(CreateTableOrderInput{
		Kind:     models.KindParcel,
		UserType: models.PrincipalUser,
		UserID:   user.ID,
		Items:    sampleCart(),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(order.OrderID, models.StatusCompleted, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, models.PaymentCompleted, updated.PaymentStatus)

	stored, err := svc.GetOrder(order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, stored.PaymentStatus)

	tableEvents, _ := rec.counts()
	assert.Equal(t, 2, tableEvents) // creation plus the status change
}

func TestUpdateStatusPolicyDisabled(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	svc := NewOrderService(db, nil, nil)
	svc.SettlePaymentOnComplete = false

	order, err := svc.CreateTableOrder(CreateTableOrderInput{
		Kind:     models.KindParcel,
		UserType: models.PrincipalUser,
		UserID:   user.ID,
		Items:    sampleCart(),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(order.OrderID, models.StatusCompleted, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, models.PaymentPending, updated.PaymentStatus)
}

func TestUpdateStatusRejectsIllegalMove(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	svc := NewOrderService(db, nil, nil)

	order, err := svc.CreateTableOrder(CreateTableOrderInput{
		Kind:     models.KindParcel,
		UserType: models.PrincipalUser,
		UserID:   user.ID,
		Items:    sampleCart(),
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(order.OrderID, models.StatusCompleted, models.PaymentFailed)
	require.Error(t, err)
	assert.Equal(t, utils.KindInvalidInput, utils.KindOf(err))

	// A rejected transition must leave the stored row untouched.
	stored, err := svc.GetOrder(order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
	assert.Equal(t, models.PaymentPending, stored.PaymentStatus)
}

func TestSetPaymentMethod(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	svc := NewOrderService(db, nil, nil)

	order, err := svc.CreateTableOrder(CreateTableOrderInput{
		Kind:     models.KindParcel,
		UserType: models.PrincipalUser,
		UserID:   user.ID,
		Items:    sampleCart(),
	})
	require.NoError(t, err)

	updated, err := svc.SetPaymentMethod(order.OrderID, models.PaymentMethodCash)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodCash, updated.PaymentMethod)

	// COD is a delivery concept; table orders only take cash or online.
	_, err = svc.SetPaymentMethod(order.OrderID, models.PaymentMethodCOD)
	require.Error(t, err)
	assert.Equal(t, utils.KindInvalidInput, utils.KindOf(err))
}

func TestPayOnline(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	var gatewayHits int32
	svc := NewOrderService(db, acceptingGateway(t, &gatewayHits), nil)

	order, err := svc.CreateTableOrder(CreateTableOrderInput{
		Kind:     models.KindParcel,
		UserType: models.PrincipalUser,
		UserID:   user.ID,
		Items:    sampleCart(),
	})
	require.NoError(t, err)

	updated, charge, err := svc.PayOnline(order.OrderID)
	require.NoError(t, err)
	require.NotNil(t, charge)
	assert.Equal(t, models.PaymentMethodOnline, updated.PaymentMethod)
	assert.Equal(t, models.PaymentPending, updated.PaymentStatus)
	assert.Equal(t, int32(1), atomic.LoadInt32(&gatewayHits))
}

func TestPayOnlineRejectsPaidOrder(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	svc := NewOrderService(db, acceptingGateway(t, nil), nil)

	order, err := svc.CreateTableOrder(CreateTableOrderInput{
		Kind:     models.KindParcel,
		UserType: models.PrincipalUser,
		UserID:   user.ID,
		Items:    sampleCart(),
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(order.OrderID, "", models.PaymentCompleted)
	require.NoError(t, err)

	_, _, err = svc.PayOnline(order.OrderID)
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, utils.KindOf(err))
}

func TestPollPaymentSettlesOnce(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	rec := &broadcastRecorder{}
	var gatewayHits int32
	svc := NewOrderService(db, acceptingGateway(t, &gatewayHits), rec)

	order, _, err := svc.CreateOnlineOrder(CreateOnlineOrderInput{
		UserID:        user.ID,
		Address:       "12 MG Road, Kochi",
		PaymentMethod: models.PaymentMethodOnline,
		Items:         sampleCart(),
	})
	require.NoError(t, err)

	polled, changed, err := svc.PollPayment(order.OrderID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.PaymentCompleted, polled.PaymentStatus)
	assert.Equal(t, models.StatusConfirmed, polled.Status)
	_, onlineEvents := rec.counts()
	assert.Equal(t, 1, onlineEvents)

	// A second poll sees no change: no store write, no broadcast.
	again, changed, err := svc.PollPayment(order.OrderID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.PaymentCompleted, again.PaymentStatus)
	assert.Equal(t, models.StatusConfirmed, again.Status)
	_, onlineEvents = rec.counts()
	assert.Equal(t, 1, onlineEvents)
}

func TestPollPaymentFailedSettlement(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	rec := &broadcastRecorder{}
	charging := acceptingGateway(t, nil)
	svc := NewOrderService(db, charging, rec)

	order, _, err := svc.CreateOnlineOrder(CreateOnlineOrderInput{
		UserID:        user.ID,
		Address:       "12 MG Road, Kochi",
		PaymentMethod: models.PaymentMethodOnline,
		Items:         sampleCart(),
	})
	require.NoError(t, err)

	svc.gateway = stubGateway(t, nil, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false,"code":"PAYMENT_ERROR"}`)
	})

	polled, changed, err := svc.PollPayment(order.OrderID)
	require.Error(t, err)
	assert.Equal(t, utils.KindGatewayRejected, utils.KindOf(err))
	assert.True(t, changed)
	assert.Equal(t, models.PaymentFailed, polled.PaymentStatus)
	assert.Equal(t, models.StatusFailed, polled.Status)

	// A failed order recovers once the customer pays again and the gateway
	// settles.
	svc.gateway = acceptingGateway(t, nil)
	recovered, changed, err := svc.PollPayment(order.OrderID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.PaymentCompleted, recovered.PaymentStatus)
	assert.Equal(t, models.StatusConfirmed, recovered.Status)
}

func TestPollPaymentSkipsCashAndCOD(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	var gatewayHits int32
	svc := NewOrderService(db, acceptingGateway(t, &gatewayHits), &broadcastRecorder{})

	order, _, err := svc.CreateOnlineOrder(CreateOnlineOrderInput{
		UserID:        user.ID,
		Address:       "12 MG Road, Kochi",
		PaymentMethod: models.PaymentMethodCOD,
		Items:         sampleCart(),
	})
	require.NoError(t, err)

	polled, changed, err := svc.PollPayment(order.OrderID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.PaymentPending, polled.PaymentStatus)
	assert.Zero(t, atomic.LoadInt32(&gatewayHits))
}

func TestPollPaymentKeepsAdvancedStatus(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	svc := NewOrderService(db, acceptingGateway(t, nil), &broadcastRecorder{})

	order, err := svc.CreateTableOrder(CreateTableOrderInput{
		Kind:     models.KindParcel,
		UserType: models.PrincipalUser,
		UserID:   user.ID,
		Items:    sampleCart(),
	})
	require.NoError(t, err)

	_, _, err = svc.PayOnline(order.OrderID)
	require.NoError(t, err)

	// The kitchen has already started on it.
	_, err = svc.UpdateStatus(order.OrderID, models.StatusInProgress, "")
	require.NoError(t, err)

	polled, changed, err := svc.PollPayment(order.OrderID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.PaymentCompleted, polled.PaymentStatus)
	assert.Equal(t, models.StatusInProgress, polled.Status, "settlement must not rewind kitchen progress")
}

func TestGetOrderNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db, nil, nil)

	_, err := svc.GetOrder("RS-9999999")
	require.Error(t, err)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func TestOrdersToday(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	svc := NewOrderService(db, nil, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateTableOrder(CreateTableOrderInput{
			Kind:     models.KindParcel,
			UserType: models.PrincipalUser,
			UserID:   user.ID,
			Items:    sampleCart(),
		})
		require.NoError(t, err)
	}

	orders, err := svc.OrdersToday()
	require.NoError(t, err)
	assert.Len(t, orders, 3)
	for _, order := range orders {
		assert.NotEmpty(t, order.CartItems)
	}
}
