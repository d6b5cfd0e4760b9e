package utils

import (
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

// Stable error kinds exposed to clients. Responses carry the kind and a
// message, never internals.
const (
	ErrCodeNotFound          = "not_found"
	ErrCodeForbidden         = "forbidden"
	ErrCodeInvalidArgument   = "invalid_argument"
	ErrCodeInsufficientFunds = "insufficient_funds"
	ErrCodeUnauthenticated   = "unauthenticated"
	ErrCodeInternal          = "internal"
)

func CreateError(statusCode int, code string, message string, ctx iris.Context) {
	ctx.StopWithJSON(statusCode, iris.Map{"error": code, "message": message})
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(iris.StatusInternalServerError, ErrCodeInternal, "Internal server error", ctx)
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, ErrCodeNotFound, "Not found", ctx)
}

func CreateForbidden(ctx iris.Context) {
	CreateError(iris.StatusForbidden, ErrCodeForbidden, "You are not authorized to perform this action", ctx)
}

func CreateInsufficientFunds(ctx iris.Context) {
	CreateError(iris.StatusBadRequest, ErrCodeInsufficientFunds, "Insufficient tokens", ctx)
}

// HandleValidationErrors maps validator violations (and malformed bodies) to
// an invalid_argument response.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		validationErrors := make([]iris.Map, 0, len(errs))
		for _, e := range errs {
			validationErrors = append(validationErrors, iris.Map{
				"field": e.Field(),
				"tag":   e.Tag(),
				"value": e.Param(),
			})
		}
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{
			"error":   ErrCodeInvalidArgument,
			"message": "Validation failed",
			"fields":  validationErrors,
		})
		return
	}

	CreateError(iris.StatusBadRequest, ErrCodeInvalidArgument, "Invalid request body", ctx)
}
