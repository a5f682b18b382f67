package rest

import (
	"github.com/gofiber/fiber/v2"

	coreConfig "github.com/zapdesk/zapdesk/core/config"
	"github.com/zapdesk/zapdesk/pkg/msgworker"
	"github.com/zapdesk/zapdesk/pkg/utils"
)

type Monitoring struct {
	pool *msgworker.EventWorkerPool
}

func InitRestMonitoring(app fiber.Router, pool *msgworker.EventWorkerPool) Monitoring {
	rest := Monitoring{pool: pool}
	app.Get("/monitoring/workerpool", rest.WorkerPool)
	app.Get("/monitoring/settings", rest.Settings)
	app.Get("/health", rest.Health)
	return rest
}

func (controller *Monitoring) WorkerPool(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch worker pool stats",
		Results: controller.pool.GetStats(),
	})
}

func (controller *Monitoring) Settings(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch application settings",
		Results: coreConfig.GetAllSettings(),
	})
}

func (controller *Monitoring) Health(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "OK",
	})
}
