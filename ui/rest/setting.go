package rest

import (
	"github.com/gofiber/fiber/v2"

	domainSetting "github.com/zapdesk/zapdesk/domains/setting"
	"github.com/zapdesk/zapdesk/pkg/utils"
)

type Setting struct {
	Service domainSetting.ISettingUsecase
}

func InitRestSetting(app fiber.Router, service domainSetting.ISettingUsecase) Setting {
	rest := Setting{Service: service}
	app.Get("/settings", rest.List)
	app.Get("/settings/:key", rest.Get)
	app.Put("/settings/:key", rest.Set)
	app.Delete("/settings/:key", rest.Delete)
	return rest
}

func (controller *Setting) List(c *fiber.Ctx) error {
	settings, err := controller.Service.List(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch settings",
		Results: settings,
	})
}

func (controller *Setting) Get(c *fiber.Ctx) error {
	setting, err := controller.Service.Get(c.UserContext(), c.Params("key"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch setting",
		Results: setting,
	})
}

func (controller *Setting) Set(c *fiber.Ctx) error {
	var request domainSetting.SaveRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)
	request.Key = c.Params("key")

	setting, err := controller.Service.Set(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success save setting",
		Results: setting,
	})
}

func (controller *Setting) Delete(c *fiber.Ctx) error {
	err := controller.Service.Delete(c.UserContext(), c.Params("key"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success delete setting",
	})
}
