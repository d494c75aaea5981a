package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/novus318/resoi.server/models"
	"github.com/novus318/resoi.server/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// GetAllTables -> GET /tables
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Order("table_number asc").Find(&tables).Error; err != nil {
		utils.RespondError(c, utils.WrapError(utils.KindInternal, "error fetching tables", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}
