package utils

import (
	"errors"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

// Error envelope: {"error": <code>, "message": <text>} plus "fields" for
// validation failures. Success envelope: {"success": true, "data": ...}.

func JSONError(ctx iris.Context, status int, code, message string) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"error": code, "message": message})
}

func CreateUnauthorized(ctx iris.Context, message string) {
	JSONError(ctx, iris.StatusUnauthorized, "unauthorized", message)
}

func CreateForbidden(ctx iris.Context, message string) {
	JSONError(ctx, iris.StatusForbidden, "access_denied", message)
}

func CreateNotFound(ctx iris.Context, message string) {
	JSONError(ctx, iris.StatusNotFound, "not_found", message)
}

func CreateConflict(ctx iris.Context, message string) {
	JSONError(ctx, iris.StatusConflict, "conflict", message)
}

// HandleValidationErrors converts a ReadJSON failure into a 400 with the
// offending field list when the app validator rejected the payload, and into
// a generic 400 otherwise.
func HandleValidationErrors(err error, ctx iris.Context) {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		fields := make([]iris.Map, 0, len(errs))
		for _, fe := range errs {
			fields = append(fields, iris.Map{
				"field": fe.Field(),
				"tag":   fe.Tag(),
				"param": fe.Param(),
			})
		}
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{
			"error":   "validation_error",
			"message": "One or more fields failed validation",
			"fields":  fields,
		})
		return
	}
	JSONError(ctx, iris.StatusBadRequest, "invalid_payload", "request body could not be parsed")
}

// HandleInternalError logs the full error server-side and returns a generic
// message unless running in development.
func HandleInternalError(ctx iris.Context, err error) {
	log.Printf("internal error: %v", err)
	message := "something went wrong"
	if os.Getenv("APP_ENV") == "development" && err != nil {
		message = err.Error()
	}
	JSONError(ctx, iris.StatusInternalServerError, "internal_error", message)
}

type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

func JSONPage(ctx iris.Context, data interface{}, page, perPage int, total int64) {
	ctx.JSON(iris.Map{
		"data": data,
		"meta": PageMeta{Page: page, PerPage: perPage, Total: total},
	})
}
