package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	pkgError "github.com/zapdesk/zapdesk/pkg/error"
	"github.com/zapdesk/zapdesk/pkg/utils"
)

// Recovery turns handler panics into JSON error responses. Typed errors from
// pkg/error keep their own status and code; anything else is a 500.
func Recovery() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			res := utils.ResponseData{
				Status:  fiber.StatusInternalServerError,
				Code:    "INTERNAL_SERVER_ERROR",
				Message: fmt.Sprintf("%v", r),
			}
			if typed, ok := r.(pkgError.GenericError); ok {
				res.Status = typed.StatusCode()
				res.Code = typed.ErrCode()
				res.Message = typed.Error()
			}

			logrus.Errorf("[REST] Recovered panic: %v", r)
			_ = ctx.Status(res.Status).JSON(res)
		}()

		return ctx.Next()
	}
}
