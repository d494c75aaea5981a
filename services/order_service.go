package services

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/novus318/resoi.server/models"
	"github.com/novus318/resoi.server/utils"
)

// Broadcaster pushes order mutations to connected dashboards. The websocket
// hub satisfies this; tests substitute a recorder.
type Broadcaster interface {
	PublishTableOrder(order *models.Order)
	PublishOnlineOrder(order *models.Order)
}

// OrderService orchestrates order creation, cart updates, status moves and
// payment reconciliation against the store, the gateway and the hub.
type OrderService struct {
	db      *gorm.DB
	gateway *PhonePeService
	hub     Broadcaster
	idGen   *OrderIDGenerator

	// SettlePaymentOnComplete forces paymentStatus to completed when an
	// order is marked completed without an explicit payment status. The
	// source system behaved both ways in different routes, so this is a
	// policy switch rather than a hard rule; callers that pass both fields
	// bypass it entirely.
	SettlePaymentOnComplete bool

	// Cart merges are serialized per order to avoid lost updates between
	// concurrent callers.
	cartLocks sync.Map
}

func NewOrderService(db *gorm.DB, gateway *PhonePeService, hub Broadcaster) *OrderService {
	return &OrderService{
		db:                      db,
		gateway:                 gateway,
		hub:                     hub,
		idGen:                   NewOrderIDGenerator(db),
		SettlePaymentOnComplete: true,
	}
}

// Principal is the resolved order creator, a tagged variant over the two
// concrete account types.
type Principal struct {
	Kind   models.PrincipalKind
	ID     uint
	Name   string
	Mobile string
}

var principalResolvers = map[models.PrincipalKind]func(db *gorm.DB, id uint) (*Principal, error){
	models.PrincipalUser: func(db *gorm.DB, id uint) (*Principal, error) {
		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			return nil, utils.NewAppError(utils.KindNotFound, "user not found")
		}
		return &Principal{Kind: models.PrincipalUser, ID: user.ID, Name: user.Name, Mobile: user.MobileNumber}, nil
	},
	models.PrincipalAdmin: func(db *gorm.DB, id uint) (*Principal, error) {
		var admin models.AdminUser
		if err := db.First(&admin, id).Error; err != nil {
			return nil, utils.NewAppError(utils.KindNotFound, "user not found")
		}
		return &Principal{Kind: models.PrincipalAdmin, ID: admin.ID, Name: admin.Name, Mobile: admin.MobileNumber}, nil
	},
}

// ResolvePrincipal dispatches on the principal kind.
func ResolvePrincipal(db *gorm.DB, kind models.PrincipalKind, id uint) (*Principal, error) {
	resolve, ok := principalResolvers[kind]
	if !ok {
		return nil, utils.NewAppError(utils.KindInvalidInput, "invalid user details")
	}
	return resolve(db, id)
}

// CartItemInput is one requested line. Prices are minor units; the server
// snapshots them into the order and computes the total itself.
type CartItemInput struct {
	ItemID   uint   `json:"itemId"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Offer    int    `json:"offer"`
	Quantity int    `json:"quantity"`
	Variant  string `json:"variant"`
	IsVeg    bool   `json:"isVeg"`
	Image    string `json:"image"`
}

func validateCartItems(items []CartItemInput) error {
	if len(items) == 0 {
		return utils.NewAppError(utils.KindInvalidInput, "cart items cannot be empty")
	}
	for _, item := range items {
		if item.Name == "" {
			return utils.NewAppError(utils.KindInvalidInput, "cart item name is required")
		}
		if item.Quantity < 1 {
			return utils.NewAppError(utils.KindInvalidInput, "cart item quantity must be at least 1")
		}
		if item.Price < 0 {
			return utils.NewAppError(utils.KindInvalidInput, "cart item price cannot be negative")
		}
		if item.Offer < 0 || item.Offer > 100 {
			return utils.NewAppError(utils.KindInvalidInput, "cart item offer must be between 0 and 100")
		}
	}
	return nil
}

func toCartItems(items []CartItemInput) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, in := range items {
		out = append(out, models.CartItem{
			ItemID:   in.ItemID,
			Name:     in.Name,
			Price:    in.Price,
			Offer:    in.Offer,
			Quantity: in.Quantity,
			Variant:  in.Variant,
			IsVeg:    in.IsVeg,
			Image:    in.Image,
		})
	}
	return out
}

type CreateTableOrderInput struct {
	Kind     models.OrderKind
	TableID  *uint
	UserType models.PrincipalKind
	UserID   uint
	Items    []CartItemInput
}

// CreateTableOrder creates a dine-in or parcel order. The order row, its
// items and the table occupancy flip commit in one transaction; any failure
// leaves nothing behind. Creation conflicts on the order id re-draw and
// retry.
func (s *OrderService) CreateTableOrder(in CreateTableOrderInput) (*models.Order, error) {
	if in.Kind != models.KindDining && in.Kind != models.KindParcel {
		return nil, utils.NewAppError(utils.KindInvalidInput, "invalid order type")
	}
	if in.Kind == models.KindDining && in.TableID == nil {
		return nil, utils.NewAppError(utils.KindInvalidInput, "table id is required for dining orders")
	}
	if !models.ValidPrincipalKind(in.UserType) {
		return nil, utils.NewAppError(utils.KindInvalidInput, "invalid user details")
	}
	if err := validateCartItems(in.Items); err != nil {
		return nil, err
	}

	if _, err := ResolvePrincipal(s.db, in.UserType, in.UserID); err != nil {
		return nil, err
	}

	items := toCartItems(in.Items)
	total := ComputeTotal(items)

	var order *models.Order
	for attempt := 0; attempt < orderIDAttempts; attempt++ {
		orderID, err := s.idGen.Generate()
		if err != nil {
			return nil, err
		}

		candidate := &models.Order{
			OrderID:       orderID,
			Kind:          in.Kind,
			UserType:      in.UserType,
			UserID:        in.UserID,
			Status:        models.StatusConfirmed,
			PaymentStatus: models.PaymentPending,
			TotalAmount:   total,
			CartItems:     items,
		}
		if in.Kind == models.KindDining {
			candidate.TableID = in.TableID
		}

		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(candidate).Error; err != nil {
				return err
			}
			if in.Kind == models.KindDining {
				res := tx.Model(&models.Table{}).
					Where("id = ?", *in.TableID).
					Update("status", models.TableOccupied)
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return utils.NewAppError(utils.KindNotFound, "table not found")
				}
			}
			return nil
		})
		if err == nil {
			order = candidate
			break
		}
		if IsDuplicateOrderID(err) {
			continue
		}
		if kind := utils.KindOf(err); kind != utils.KindInternal {
			return nil, err
		}
		return nil, utils.WrapError(utils.KindInternal, "error confirming order", err)
	}
	if order == nil {
		return nil, utils.NewAppError(utils.KindConflict, "could not allocate a unique order id")
	}

	if order.Kind == models.KindDining {
		var table models.Table
		if err := s.db.First(&table, *order.TableID).Error; err == nil {
			order.Table = &table
		}
	}

	if s.hub != nil {
		s.hub.PublishTableOrder(order)
	}
	return order, nil
}

type CreateOnlineOrderInput struct {
	UserID          uint
	Address         string
	Lat             float64
	Lng             float64
	PaymentMethod   models.PaymentMethod
	Items           []CartItemInput
	ExistingOrderID string
}

// CreateOnlineOrder persists a delivery order and the user's address update
// atomically. COD orders confirm inside the same transaction; online
// payments are initiated only after the commit, so a gateway failure leaves
// a pending order the client retries against via ExistingOrderID instead of
// creating a duplicate.
func (s *OrderService) CreateOnlineOrder(in CreateOnlineOrderInput) (*models.Order, *ChargeResponse, error) {
	if in.PaymentMethod != models.PaymentMethodCOD && in.PaymentMethod != models.PaymentMethodOnline {
		return nil, nil, utils.NewAppError(utils.KindInvalidInput, "invalid payment method")
	}
	if in.Address == "" {
		return nil, nil, utils.NewAppError(utils.KindInvalidInput, "delivery address is required")
	}

	var user models.User
	if err := s.db.First(&user, in.UserID).Error; err != nil {
		return nil, nil, utils.NewAppError(utils.KindNotFound, "user not found")
	}

	var order *models.Order
	if in.ExistingOrderID != "" {
		existing, err := s.GetOrder(in.ExistingOrderID)
		if err != nil {
			return nil, nil, err
		}
		if existing.Kind != models.KindOnline || existing.UserID != in.UserID {
			return nil, nil, utils.NewAppError(utils.KindInvalidInput, "order cannot be reused")
		}
		if existing.PaymentStatus == models.PaymentCompleted {
			return nil, nil, utils.NewAppError(utils.KindConflict, "order is already paid")
		}
		order = existing
		order.SetDeliveryAddress(in.Address, in.Lat, in.Lng)
		order.PaymentMethod = in.PaymentMethod
	} else {
		if err := validateCartItems(in.Items); err != nil {
			return nil, nil, err
		}
		items := toCartItems(in.Items)
		orderID, err := s.idGen.Generate()
		if err != nil {
			return nil, nil, err
		}
		order = &models.Order{
			OrderID:       orderID,
			Kind:          models.KindOnline,
			UserType:      models.PrincipalUser,
			UserID:        user.ID,
			PaymentMethod: in.PaymentMethod,
			PaymentStatus: models.PaymentPending,
			Status:        models.StatusPending,
			TotalAmount:   ComputeTotal(items),
			CartItems:     items,
		}
		order.SetDeliveryAddress(in.Address, in.Lat, in.Lng)
	}

	cod := in.PaymentMethod == models.PaymentMethodCOD
	persist := func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if cod && order.Status == models.StatusPending {
				if err := models.Transition(order, models.StatusConfirmed, ""); err != nil {
					return utils.WrapError(utils.KindInvalidInput, "order cannot be confirmed", err)
				}
			}
			if err := tx.Save(order).Error; err != nil {
				return err
			}
			// Last order wins on the stored delivery address.
			return tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
				"delivery_address": in.Address,
				"delivery_lat":     in.Lat,
				"delivery_lng":     in.Lng,
			}).Error
		})
	}

	err := persist()
	for attempt := 0; err != nil && IsDuplicateOrderID(err) && in.ExistingOrderID == "" && attempt < orderIDAttempts; attempt++ {
		// Lost the race on a freshly drawn id; re-draw and retry.
		if order.OrderID, err = s.idGen.Generate(); err != nil {
			return nil, nil, err
		}
		err = persist()
	}
	if err != nil {
		if kind := utils.KindOf(err); kind != utils.KindInternal {
			return nil, nil, err
		}
		return nil, nil, utils.WrapError(utils.KindInternal, "error creating order", err)
	}

	if cod {
		if s.hub != nil {
			s.hub.PublishOnlineOrder(order)
		}
		return order, nil, nil
	}

	// Online payment: the order is already durable. Charge failures are
	// reported alongside it so the client can retry payment, not the order.
	charge, err := s.gateway.InitiateCharge(order, user.Name, user.MobileNumber)
	if err != nil {
		return order, nil, err
	}
	return order, charge, nil
}

func (s *OrderService) cartLock(orderID string) *sync.Mutex {
	lock, _ := s.cartLocks.LoadOrStore(orderID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// UpdateCartItems merges incoming lines into an order's cart: a line
// matching an existing one by item id and variant increments its quantity,
// anything else appends. The total is recomputed from the merged cart.
func (s *OrderService) UpdateCartItems(orderID string, incoming []CartItemInput) (*models.Order, error) {
	if err := validateCartItems(incoming); err != nil {
		return nil, err
	}

	lock := s.cartLock(orderID)
	lock.Lock()
	defer lock.Unlock()

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("CartItems").Where("order_id = ?", orderID).First(&order).Error; err != nil {
			return utils.NewAppError(utils.KindNotFound, "order not found")
		}

		for _, in := range incoming {
			merged := false
			for i := range order.CartItems {
				existing := &order.CartItems[i]
				if existing.ItemID == in.ItemID && existing.Variant == in.Variant {
					existing.Quantity += in.Quantity
					if err := tx.Model(&models.CartItem{}).Where("id = ?", existing.ID).
						Update("quantity", existing.Quantity).Error; err != nil {
						return err
					}
					merged = true
					break
				}
			}
			if !merged {
				item := models.CartItem{
					OrderID:  order.ID,
					ItemID:   in.ItemID,
					Name:     in.Name,
					Price:    in.Price,
					Offer:    in.Offer,
					Quantity: in.Quantity,
					Variant:  in.Variant,
					IsVeg:    in.IsVeg,
					Image:    in.Image,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				order.CartItems = append(order.CartItems, item)
			}
		}

		order.TotalAmount = ComputeTotal(order.CartItems)
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("total_amount", order.TotalAmount).Error
	})
	if err != nil {
		if kind := utils.KindOf(err); kind != utils.KindInternal {
			return nil, err
		}
		return nil, utils.WrapError(utils.KindInternal, "error updating cart", err)
	}
	return &order, nil
}

// UpdateStatus moves an order through the state machine. When the policy
// flag is set, completing an order with no explicit payment status also
// settles the payment. Broadcasts only when something actually changed.
func (s *OrderService) UpdateStatus(orderID string, status models.OrderStatus, payment models.PaymentStatus) (*models.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if s.SettlePaymentOnComplete && status == models.StatusCompleted && payment == "" {
		payment = models.PaymentCompleted
	}

	prevStatus, prevPayment := order.Status, order.PaymentStatus
	if err := models.Transition(order, status, payment); err != nil {
		return nil, utils.WrapError(utils.KindInvalidInput, err.Error(), err)
	}

	if order.Status == prevStatus && order.PaymentStatus == prevPayment {
		return order, nil
	}

	if err := s.db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
	}).Error; err != nil {
		return nil, utils.WrapError(utils.KindInternal, "error updating order status", err)
	}

	s.broadcast(order)
	return order, nil
}

// SetPaymentMethod records a deferred payment-method choice for a table
// order.
func (s *OrderService) SetPaymentMethod(orderID string, method models.PaymentMethod) (*models.Order, error) {
	if method != models.PaymentMethodCash && method != models.PaymentMethodOnline {
		return nil, utils.NewAppError(utils.KindInvalidInput, "invalid payment method")
	}

	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("payment_method", method).Error; err != nil {
		return nil, utils.WrapError(utils.KindInternal, "error updating payment method", err)
	}
	order.PaymentMethod = method
	return order, nil
}

// PayOnline switches a table order to online payment and initiates a
// charge. The order is durable before the gateway is touched, so a charge
// failure is retryable without duplicating the order.
func (s *OrderService) PayOnline(orderID string) (*models.Order, *ChargeResponse, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.PaymentStatus == models.PaymentCompleted {
		return nil, nil, utils.NewAppError(utils.KindConflict, "order is already paid")
	}

	principal, err := ResolvePrincipal(s.db, order.UserType, order.UserID)
	if err != nil {
		return nil, nil, err
	}

	if err := models.Transition(order, "", models.PaymentPending); err != nil {
		return nil, nil, utils.WrapError(utils.KindInvalidInput, err.Error(), err)
	}
	order.PaymentMethod = models.PaymentMethodOnline
	if err := s.db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"payment_method": order.PaymentMethod,
		"payment_status": order.PaymentStatus,
	}).Error; err != nil {
		return nil, nil, utils.WrapError(utils.KindInternal, "error updating payment status", err)
	}

	charge, err := s.gateway.InitiateCharge(order, principal.Name, principal.Mobile)
	if err != nil {
		return order, nil, err
	}
	return order, charge, nil
}

// PollPayment reconciles an order against the gateway's settlement state.
// Cash and COD orders return stored state without a gateway call. Only an
// actual change mutates the store and broadcasts; repeated polls with no
// gateway change are pure reads. The returned bool reports whether anything
// changed.
func (s *OrderService) PollPayment(orderID string) (*models.Order, bool, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, false, err
	}

	if order.PaymentMethod == models.PaymentMethodCash || order.PaymentMethod == models.PaymentMethodCOD {
		return order, false, nil
	}

	state, err := s.gateway.CheckStatus(order.OrderID)
	if err != nil {
		return order, false, err
	}

	var payment models.PaymentStatus
	var status models.OrderStatus
	switch state {
	case SettlementConfirmed:
		payment, status = models.PaymentCompleted, models.StatusConfirmed
	case SettlementFailed:
		payment, status = models.PaymentFailed, models.StatusFailed
	}

	if order.PaymentStatus == payment {
		return order, false, nil
	}

	// The order may already have moved past the target status (a settled
	// order being cooked, say); in that case only the payment field moves.
	if !models.CanTransition(order.Status, status) {
		status = ""
	}
	if err := models.Transition(order, status, payment); err != nil {
		return order, false, utils.WrapError(utils.KindInvalidInput, err.Error(), err)
	}

	if err := s.db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
	}).Error; err != nil {
		return order, false, utils.WrapError(utils.KindInternal, "error updating payment status", err)
	}

	s.broadcast(order)

	if order.PaymentStatus == models.PaymentFailed {
		return order, true, utils.NewAppError(utils.KindGatewayRejected, "payment confirmation failed")
	}
	return order, true, nil
}

// GetOrder loads an order by its public id with cart and table attached.
func (s *OrderService) GetOrder(orderID string) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("CartItems").Preload("Table").
		Where("order_id = ?", orderID).First(&order).Error; err != nil {
		return nil, utils.NewAppError(utils.KindNotFound, "order not found")
	}
	return &order, nil
}

// OrdersToday returns orders created since local midnight, the window the
// store dashboard shows.
func (s *OrderService) OrdersToday() ([]models.Order, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var orders []models.Order
	if err := s.db.Preload("CartItems").Preload("Table").
		Where("created_at >= ?", start).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, utils.WrapError(utils.KindInternal, "error fetching orders", err)
	}
	return orders, nil
}

func (s *OrderService) broadcast(order *models.Order) {
	if s.hub == nil {
		return
	}
	if order.Kind == models.KindOnline {
		s.hub.PublishOnlineOrder(order)
	} else {
		s.hub.PublishTableOrder(order)
	}
}
