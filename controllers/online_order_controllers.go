package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/novus318/resoi.server/models"
	"github.com/novus318/resoi.server/services"
	"github.com/novus318/resoi.server/utils"
)

// OnlineOrderController serves the delivery-order surface.
type OnlineOrderController struct {
	DB  *gorm.DB
	Svc *services.OrderService
}

func NewOnlineOrderController(db *gorm.DB, svc *services.OrderService) *OnlineOrderController {
	return &OnlineOrderController{DB: db, Svc: svc}
}

type coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CreateOrder -> POST /online/create/order
// COD orders confirm immediately; online payment returns the gateway charge
// alongside the order. If the charge fails the order is still returned so
// the client can retry via existingOrderId.
func (oc *OnlineOrderController) CreateOrder(c *gin.Context) {
	type reqBody struct {
		UserToken       string                   `json:"userToken"`
		Address         string                   `json:"address"`
		Coordinates     coordinates              `json:"coordinates"`
		PaymentMethod   models.PaymentMethod     `json:"paymentMethod"`
		CartItems       []services.CartItemInput `json:"cartItems"`
		ExistingOrderID string                   `json:"existingOrderId"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, utils.WrapError(utils.KindInvalidInput, "invalid request body", err))
		return
	}

	claims, err := utils.ParseToken(body.UserToken)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	order, charge, err := oc.Svc.CreateOnlineOrder(services.CreateOnlineOrderInput{
		UserID:          claims.UserID,
		Address:         body.Address,
		Lat:             body.Coordinates.Lat,
		Lng:             body.Coordinates.Lng,
		PaymentMethod:   body.PaymentMethod,
		Items:           body.CartItems,
		ExistingOrderID: body.ExistingOrderID,
	})
	if err != nil {
		if order != nil {
			utils.RespondErrorWithData(c, err, gin.H{"order": order})
			return
		}
		utils.RespondError(c, err)
		return
	}

	response := gin.H{"order": order}
	message := "Order created successfully"
	if charge != nil {
		response["payment"] = charge
		message = "Order created and payment initiated successfully"
	}
	utils.RespondJSON(c, http.StatusCreated, message, response)
}
