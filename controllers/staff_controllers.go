package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/novus318/resoi.server/models"
	"github.com/novus318/resoi.server/utils"
)

type StaffController struct {
	DB *gorm.DB
}

func NewStaffController(db *gorm.DB) *StaffController {
	return &StaffController{DB: db}
}

// RecordAdvance -> POST /staff/:staff_id/advance
// The balance change and the ledger entry commit together, the same
// all-or-nothing unit-of-work pattern the order flows use.
func (sc *StaffController) RecordAdvance(c *gin.Context) {
	staffID, err := strconv.Atoi(c.Param("staff_id"))
	if err != nil {
		utils.RespondError(c, utils.NewAppError(utils.KindInvalidInput, "invalid staff id"))
		return
	}

	type reqBody struct {
		Amount      int64  `json:"amount"`
		Description string `json:"description"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, utils.WrapError(utils.KindInvalidInput, "invalid request body", err))
		return
	}
	if body.Amount <= 0 {
		utils.RespondError(c, utils.NewAppError(utils.KindInvalidInput, "amount must be positive"))
		return
	}

	var staff models.Staff
	txErr := sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&staff, staffID).Error; err != nil {
			return utils.NewAppError(utils.KindNotFound, "staff not found")
		}

		staff.AdvancePayment += body.Amount
		if err := tx.Model(&models.Staff{}).Where("id = ?", staff.ID).
			Update("advance_payment", staff.AdvancePayment).Error; err != nil {
			return err
		}

		entry := models.StaffTransaction{
			StaffID:     staff.ID,
			Type:        models.LedgerAdvance,
			Amount:      body.Amount,
			Description: body.Description,
		}
		return tx.Create(&entry).Error
	})
	if txErr != nil {
		if utils.KindOf(txErr) != utils.KindInternal {
			utils.RespondError(c, txErr)
			return
		}
		utils.RespondError(c, utils.WrapError(utils.KindInternal, "error processing advance payment", txErr))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Advance payment recorded successfully", staff)
}
