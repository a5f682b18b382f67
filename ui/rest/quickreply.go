package rest

import (
	"github.com/gofiber/fiber/v2"

	domainQuickReply "github.com/zapdesk/zapdesk/domains/quickreply"
	"github.com/zapdesk/zapdesk/pkg/utils"
)

type QuickReply struct {
	Service domainQuickReply.IQuickReplyUsecase
}

func InitRestQuickReply(app fiber.Router, service domainQuickReply.IQuickReplyUsecase) QuickReply {
	rest := QuickReply{Service: service}
	app.Get("/quick-replies", rest.List)
	app.Post("/quick-replies", rest.Create)
	app.Put("/quick-replies/:id", rest.Update)
	app.Delete("/quick-replies/:id", rest.Delete)
	return rest
}

func (controller *QuickReply) List(c *fiber.Ctx) error {
	replies, err := controller.Service.List(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch quick replies",
		Results: replies,
	})
}

func (controller *QuickReply) Create(c *fiber.Ctx) error {
	var request domainQuickReply.SaveRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	reply, err := controller.Service.Create(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success create quick reply",
		Results: reply,
	})
}

func (controller *QuickReply) Update(c *fiber.Ctx) error {
	var request domainQuickReply.SaveRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)
	request.ID = c.Params("id")

	reply, err := controller.Service.Update(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success update quick reply",
		Results: reply,
	})
}

func (controller *QuickReply) Delete(c *fiber.Ctx) error {
	err := controller.Service.Delete(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success delete quick reply",
	})
}
