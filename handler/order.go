package handler

import (
	"errors"
	"lomaro_whatsapp/constants"
	"lomaro_whatsapp/database"
	"lomaro_whatsapp/helper"
	"lomaro_whatsapp/model"
	"lomaro_whatsapp/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func GetOrderByCode(c *fiber.Ctx) error {
	code := c.Locals("orderCode").(string)

	var order model.Order
	if err := database.DB.Preload("Lines").Where("public_code = ?", code).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

func GetAllOrders(c *fiber.Ctx) error {
	var pagination model.Pagination
	if err := c.QueryParser(&pagination); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, err)
	}

	query := database.DB.Model(&model.Order{}).Preload("Lines").Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if source := c.Query("source"); source != "" {
		query = query.Where("source = ?", source)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	var orders []model.Order
	if err := utils.ApplyPagination(query, pagination.Limit, pagination.Page).Find(&orders).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       orders,
		Limit:      pagination.Limit,
		Page:       pagination.Page,
		TotalCount: totalCount,
	})
}

func UpdateOrderStatus(c *fiber.Ctx) error {
	code := c.Locals("orderCode").(string)
	input := c.Locals("inputOrderStatus").(model.UpdateOrderStatusInput)

	accountInfo, isAdmin := helper.GetInfoAccountFromToken(c)
	if accountInfo.AccountId == 0 {
		// GetInfoAccountFromToken already wrote the error response.
		return nil
	}
	if !helper.StatusChangeAllowed(isAdmin, input.Status) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("not admin"))
	}

	var order model.Order
	if err := database.DB.Where("public_code = ?", code).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ORDER_NOT_FOUND, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	order.Status = input.Status
	if err := database.DB.Save(&order).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, order)
}
