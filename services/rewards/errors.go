package rewards

import (
	"fmt"
	"strconv"

	"loyalty-ledger/pkg/errutil"
)

func errUserNotFound(userID string) error {
	return errutil.NotFound(
		fmt.Sprintf("user with ID %s not found", userID),
		errutil.WithDetails(errutil.Detail{Field: "userId", Message: userID}),
	)
}

func errInsufficientPoints(required, available int64) error {
	return errutil.BadRequest(
		"Insufficient points for redemption",
		errutil.WithDetails(
			errutil.Detail{Field: "requiredPoints", Message: strconv.FormatInt(required, 10)},
			errutil.Detail{Field: "availablePoints", Message: strconv.FormatInt(available, 10)},
		),
	)
}

func errInvalidRequest(field, reason string) error {
	return errutil.ValidationFailed(
		fmt.Sprintf("invalid %s: %s", field, reason),
		errutil.WithDetails(errutil.Detail{Field: field, Message: reason}),
	)
}

// IsInsufficientPoints reports whether err is the insufficient-points failure
// as opposed to a malformed request.
func IsInsufficientPoints(err error) bool {
	be, ok := err.(errutil.BaseError)
	return ok && be.Status() == errutil.StatusBadRequest
}
