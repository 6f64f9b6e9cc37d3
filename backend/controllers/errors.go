package controllers

import (
	"errors"
	"log"
	"strconv"

	"classquiz/backend/services"
	"classquiz/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type errorKind struct {
	err    error
	status int
	code   string
}

var errorKinds = []errorKind{
	{services.ErrQuizNotFound, fiber.StatusNotFound, "quiz_not_found"},
	{services.ErrResultNotFound, fiber.StatusNotFound, "result_not_found"},
	{services.ErrProfileNotFound, fiber.StatusNotFound, "profile_not_found"},
	{services.ErrNotEnrolled, fiber.StatusForbidden, "not_enrolled"},
	{services.ErrOwnershipViolation, fiber.StatusForbidden, "not_quiz_owner"},
	{services.ErrAlreadySubmitted, fiber.StatusConflict, "already_submitted"},
	{services.ErrEmptyQuiz, fiber.StatusConflict, "empty_quiz"},
	{services.ErrDuplicateAccount, fiber.StatusConflict, "duplicate_account"},
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized, "invalid_credentials"},
}

// respondError writes the envelope for an error returned by the services package.
func respondError(c *fiber.Ctx, logger *log.Logger, err error) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return utils.ValidationError(c, verr.Fields)
	}

	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return utils.Error(c, k.status, k.code, err.Error())
		}
	}

	logger.Printf("%s %s: %v", c.Method(), c.Path(), err)
	return utils.InternalServerError(c, "Could not process request")
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

func userID(c *fiber.Ctx) (uint, bool) {
	claims, ok := utils.CurrentUser(c)
	return claims.UserID, ok
}
