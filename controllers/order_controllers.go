package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/novus318/resoi.server/models"
	"github.com/novus318/resoi.server/services"
	"github.com/novus318/resoi.server/utils"
)

// OrderController serves the dine-in / parcel order surface.
type OrderController struct {
	DB  *gorm.DB
	Svc *services.OrderService
}

func NewOrderController(db *gorm.DB, svc *services.OrderService) *OrderController {
	return &OrderController{DB: db, Svc: svc}
}

// CreateTableOrder -> POST /table/create/table-order
func (oc *OrderController) CreateTableOrder(c *gin.Context) {
	type reqBody struct {
		OrderType models.OrderKind         `json:"orderType"`
		TableID   *uint                    `json:"tableId"`
		UserToken string                   `json:"userToken"`
		UserType  models.PrincipalKind     `json:"userType"`
		CartItems []services.CartItemInput `json:"cartItems"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, utils.WrapError(utils.KindInvalidInput, "invalid request body", err))
		return
	}

	if body.UserToken == "" {
		utils.RespondError(c, utils.NewAppError(utils.KindInvalidInput, "invalid user details"))
		return
	}
	claims, err := utils.ParseToken(body.UserToken)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	order, err := oc.Svc.CreateTableOrder(services.CreateTableOrderInput{
		Kind:     body.OrderType,
		TableID:  body.TableID,
		UserType: body.UserType,
		UserID:   claims.UserID,
		Items:    body.CartItems,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order confirmed successfully", order)
}

// UpdateOrderStatus -> PUT /table/update/table-order-status
// Status and payment status are independent fields; omitting paymentStatus
// on a completion falls back to the service's settle-on-complete policy.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	type reqBody struct {
		OrderID       string               `json:"orderId"`
		Status        models.OrderStatus   `json:"status"`
		PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, utils.WrapError(utils.KindInvalidInput, "invalid request body", err))
		return
	}
	if body.OrderID == "" || (body.Status == "" && body.PaymentStatus == "") {
		utils.RespondError(c, utils.NewAppError(utils.KindInvalidInput, "invalid input data"))
		return
	}

	order, err := oc.Svc.UpdateStatus(body.OrderID, body.Status, body.PaymentStatus)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order status updated successfully", order)
}

// UpdateCart -> PUT /table/update/table-order
func (oc *OrderController) UpdateCart(c *gin.Context) {
	type reqBody struct {
		OrderID   string                   `json:"orderId"`
		CartItems []services.CartItemInput `json:"cartItems"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, utils.WrapError(utils.KindInvalidInput, "invalid request body", err))
		return
	}
	if body.OrderID == "" {
		utils.RespondError(c, utils.NewAppError(utils.KindInvalidInput, "invalid input data"))
		return
	}

	order, err := oc.Svc.UpdateCartItems(body.OrderID, body.CartItems)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order updated successfully", order)
}

// GetOrder -> GET /table/get-order/:order_id
func (oc *OrderController) GetOrder(c *gin.Context) {
	order, err := oc.Svc.GetOrder(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order retrieved successfully", order)
}

// SetPaymentMethod -> POST /table/order-paymentMethod
// Dine-in flows may defer the cash/online choice past order creation.
func (oc *OrderController) SetPaymentMethod(c *gin.Context) {
	type reqBody struct {
		OrderID       string               `json:"orderId"`
		PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, utils.WrapError(utils.KindInvalidInput, "invalid request body", err))
		return
	}

	order, err := oc.Svc.SetPaymentMethod(body.OrderID, body.PaymentMethod)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment method updated successfully", order)
}

// PayOnline -> POST /table/table-order/online-pay
// A charge failure still returns the order so the client retries payment
// against it instead of resubmitting a duplicate.
func (oc *OrderController) PayOnline(c *gin.Context) {
	type reqBody struct {
		OrderID string `json:"orderId"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, utils.WrapError(utils.KindInvalidInput, "invalid request body", err))
		return
	}

	order, charge, err := oc.Svc.PayOnline(body.OrderID)
	if err != nil {
		if order != nil {
			utils.RespondErrorWithData(c, err, gin.H{"order": order})
			return
		}
		utils.RespondError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Payment initiated successfully", gin.H{
		"order":   order,
		"payment": charge,
	})
}

// OrderStatus -> GET /table/order-status/:order_id and
// /online/order-status/:order_id. Cash and COD orders return stored state;
// anything else triggers a gateway poll. Gateway failures still carry the
// best-known order state in the response.
func (oc *OrderController) OrderStatus(c *gin.Context) {
	order, changed, err := oc.Svc.PollPayment(c.Param("order_id"))
	if err != nil {
		if order != nil {
			utils.RespondErrorWithData(c, err, gin.H{"order": order})
			return
		}
		utils.RespondError(c, err)
		return
	}

	if changed {
		utils.RespondJSON(c, http.StatusOK, "payment confirmed successfully", order)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "payment status fetched successfully", order)
}

// OrdersToday -> GET /table/get-store/ordersToday
func (oc *OrderController) OrdersToday(c *gin.Context) {
	orders, err := oc.Svc.OrdersToday()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Today's store orders fetched successfully", orders)
}
