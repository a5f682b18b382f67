package rest

import (
	"github.com/gofiber/fiber/v2"

	domainUser "github.com/zapdesk/zapdesk/domains/user"
	"github.com/zapdesk/zapdesk/pkg/utils"
)

type User struct {
	Service domainUser.IUserUsecase
}

func InitRestUser(app fiber.Router, service domainUser.IUserUsecase) User {
	rest := User{Service: service}
	app.Get("/users", rest.List)
	app.Post("/users", rest.Create)
	app.Put("/users/:id", rest.Update)
	app.Delete("/users/:id", rest.Delete)
	return rest
}

func (controller *User) List(c *fiber.Ctx) error {
	users, err := controller.Service.List(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch users",
		Results: users,
	})
}

func (controller *User) Create(c *fiber.Ctx) error {
	var request domainUser.CreateRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	user, err := controller.Service.Create(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success create user",
		Results: user,
	})
}

func (controller *User) Update(c *fiber.Ctx) error {
	var request domainUser.UpdateRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)
	request.ID = c.Params("id")

	user, err := controller.Service.Update(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success update user",
		Results: user,
	})
}

func (controller *User) Delete(c *fiber.Ctx) error {
	err := controller.Service.Delete(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success delete user",
	})
}
