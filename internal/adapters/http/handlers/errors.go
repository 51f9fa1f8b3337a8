package handlers

import (
	"errors"

	"vgt-backoffice/internal/core/access"
	"vgt-backoffice/internal/core/domain"
	"vgt-backoffice/internal/core/services"
	"vgt-backoffice/internal/pkg/logger"
	"vgt-backoffice/internal/pkg/response"
	"vgt-backoffice/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
)

var (
	notFoundErrors = []error{
		services.ErrUserNotFound,
		services.ErrProfileNotFound,
		services.ErrPartyNotFound,
		services.ErrBranchNotFound,
		services.ErrConsignmentNotFound,
		services.ErrChallanNotFound,
	}

	conflictErrors = []error{
		services.ErrEmployeeCodeExists,
		services.ErrEmailAlreadyExists,
		services.ErrIdentityExists,
		services.ErrBranchCodeExists,
		services.ErrUserAlreadyDeactivated,
		services.ErrPartyAlreadyInactive,
		services.ErrConsignmentCancelled,
	}

	badRequestErrors = []error{
		services.ErrOldPasswordWrong,
		services.ErrCannotDeactivateSelf,
		services.ErrCannotChangeOwnRole,
		services.ErrBillingBranchRequired,
		services.ErrBranchInactive,
		services.ErrSameBranch,
		services.ErrPartyInactive,
		services.ErrPartyWrongType,
		services.ErrNegativeWeight,
		services.ErrInvalidBookingDate,
		services.ErrInvalidChallanPeriod,
		services.ErrInvalidChallanDate,
	}

	unauthorizedErrors = []error{
		access.ErrUnauthorized,
		services.ErrInvalidCredentials,
		services.ErrInvalidRole,
		services.ErrAccountDeactivated,
		services.ErrInvalidToken,
		services.ErrTokenExpired,
		services.ErrTokenRevoked,
	}
)

// fail answers err through the response helpers. Service sentinels keep their
// own message; anything unknown is logged and reported with fallback.
func fail(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, access.ErrForbidden):
		return response.Forbidden(c, "You don't have permission to access this resource")
	case errors.Is(err, services.ErrDirectoryUnavailable):
		return response.Forbidden(c, services.ErrDirectoryUnavailable.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		var fields validate.Errors
		if errors.As(err, &fields) {
			return response.ValidationError(c, err.Error(), fields)
		}
		return response.BadRequest(c, err.Error())
	}

	if target := matchAny(err, unauthorizedErrors); target != nil {
		return response.Unauthorized(c, target.Error())
	}
	if target := matchAny(err, notFoundErrors); target != nil {
		return response.NotFound(c, target.Error())
	}
	if target := matchAny(err, conflictErrors); target != nil {
		return response.Conflict(c, target.Error())
	}
	if target := matchAny(err, badRequestErrors); target != nil {
		return response.BadRequest(c, target.Error())
	}

	logger.Error(fallback, err)
	return response.InternalServerError(c, fallback)
}

func matchAny(err error, targets []error) error {
	for _, target := range targets {
		if errors.Is(err, target) {
			return target
		}
	}
	return nil
}
