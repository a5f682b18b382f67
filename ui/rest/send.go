package rest

import (
	"github.com/gofiber/fiber/v2"

	domainSend "github.com/zapdesk/zapdesk/domains/send"
	"github.com/zapdesk/zapdesk/pkg/utils"
)

type Send struct {
	Service domainSend.ISendUsecase
}

func InitRestSend(app fiber.Router, service domainSend.ISendUsecase) Send {
	rest := Send{Service: service}
	app.Post("/send/message", rest.SendText)
	app.Post("/send/media", rest.SendMedia)
	app.Post("/send/menu", rest.SendMenu)
	return rest
}

func (controller *Send) SendText(c *fiber.Ctx) error {
	var request domainSend.TextRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	response, err := controller.Service.SendText(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success send message",
		Results: response,
	})
}

func (controller *Send) SendMedia(c *fiber.Ctx) error {
	request := domainSend.MediaRequest{
		Phone:   c.FormValue("phone"),
		Caption: c.FormValue("caption"),
	}

	file, err := c.FormFile("file")
	if err == nil {
		request.File = file
	}

	response, err := controller.Service.SendMedia(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success send media",
		Results: response,
	})
}

func (controller *Send) SendMenu(c *fiber.Ctx) error {
	var request struct {
		Phone string `json:"phone" form:"phone"`
	}
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	response, err := controller.Service.SendDepartmentMenu(c.UserContext(), request.Phone)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success send department menu",
		Results: response,
	})
}
