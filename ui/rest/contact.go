package rest

import (
	"github.com/gofiber/fiber/v2"

	domainContact "github.com/zapdesk/zapdesk/domains/contact"
	"github.com/zapdesk/zapdesk/pkg/utils"
)

type Contact struct {
	Service domainContact.IContactUsecase
}

func InitRestContact(app fiber.Router, service domainContact.IContactUsecase) Contact {
	rest := Contact{Service: service}
	app.Get("/contacts", rest.List)
	app.Post("/contacts", rest.Create)
	app.Put("/contacts/:id", rest.Update)
	app.Delete("/contacts/:id", rest.Delete)
	return rest
}

func (controller *Contact) List(c *fiber.Ctx) error {
	contacts, err := controller.Service.List(c.UserContext(), c.Query("search"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch contacts",
		Results: contacts,
	})
}

func (controller *Contact) Create(c *fiber.Ctx) error {
	var request domainContact.CreateRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	contact, err := controller.Service.Create(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success create contact",
		Results: contact,
	})
}

func (controller *Contact) Update(c *fiber.Ctx) error {
	var request domainContact.UpdateRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)
	request.ID = c.Params("id")

	contact, err := controller.Service.Update(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success update contact",
		Results: contact,
	})
}

func (controller *Contact) Delete(c *fiber.Ctx) error {
	err := controller.Service.Delete(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success delete contact",
	})
}
