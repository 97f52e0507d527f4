package handler

import (
	"campus_eats/constants"
	"campus_eats/database"
	"campus_eats/helper"
	"campus_eats/model"
	"campus_eats/service"
	"campus_eats/utils"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func CreateCoupon(c *fiber.Ctx) error {
	actor, ok := helper.ActingUserFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	input, ok := c.Locals("input").(model.CreateCouponInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	coupon, err := service.CreateCoupon(c.UserContext(), database.DB, actor, input)
	if err != nil {
		return basketError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, coupon)
}

func ListCoupons(c *fiber.Ctx) error {
	coupons, err := service.ListCoupons(c.UserContext(), database.DB)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, coupons)
}

func GetAvailableCoupons(c *fiber.Ctx) error {
	actor, ok := helper.ActingUserFromCtx(c)
	if !ok {
		return unauthorized(c)
	}

	coupons, err := service.GetAvailableCoupons(c.UserContext(), database.DB, actor.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, coupons)
}

func GetMyCoupons(c *fiber.Ctx) error {
	actor, ok := helper.ActingUserFromCtx(c)
	if !ok {
		return unauthorized(c)
	}

	coupons, err := service.GetUserCoupons(c.UserContext(), database.DB, actor.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, coupons)
}

func PurchaseCoupon(c *fiber.Ctx) error {
	actor, ok := helper.ActingUserFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	input, ok := c.Locals("input").(model.PurchaseCouponInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, nil)
	}

	userCoupon, remaining, err := service.PurchaseCoupon(c.UserContext(), database.DB, actor.ID, input.CouponId)
	if err != nil {
		status, message := errorStatus(err)
		return c.Status(status).JSON(model.PurchaseCouponResult{Success: false, Message: message})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, model.PurchaseCouponResult{
		Success:         true,
		Message:         constants.COUPON_PURCHASED_SUCCESS,
		UserCouponId:    &userCoupon.ID,
		RemainingPoints: &remaining,
	})
}

// DeleteCoupon removes the coupon, refunds every holder and mails them a notice.
func DeleteCoupon(c *fiber.Ctx) error {
	actor, ok := helper.ActingUserFromCtx(c)
	if !ok {
		return unauthorized(c)
	}
	id := inputId(c)

	var coupon model.Coupon
	database.DB.WithContext(c.UserContext()).First(&coupon, "id = ?", id)

	refunded, err := service.DeleteCoupon(c.UserContext(), database.DB, actor, id)
	if err != nil {
		return serviceError(c, err)
	}

	notifyRefunded(c, refunded, coupon)
	return utils.SuccessResponse(c, fiber.StatusOK, model.DeleteCouponResult{
		Success:       true,
		Message:       constants.COUPON_DELETED_SUCCESS,
		RefundedUsers: len(refunded),
	})
}

func notifyRefunded(c *fiber.Ctx, userIDs []uuid.UUID, coupon model.Coupon) {
	if len(userIDs) == 0 {
		return
	}
	var emails []string
	err := database.DB.WithContext(c.UserContext()).
		Model(&model.User{}).
		Where("id IN ?", userIDs).
		Pluck("email", &emails).Error
	if err != nil {
		slog.Warn("refund notices skipped", "coupon_id", coupon.ID, "error", err)
		return
	}
	utils.SendCouponRefundNotice(emails, coupon.Name, coupon.PointsCost)
}
