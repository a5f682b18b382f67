package rest

import (
	"github.com/gofiber/fiber/v2"

	domainDepartment "github.com/zapdesk/zapdesk/domains/department"
	"github.com/zapdesk/zapdesk/pkg/utils"
)

type Department struct {
	Service domainDepartment.IDepartmentUsecase
}

func InitRestDepartment(app fiber.Router, service domainDepartment.IDepartmentUsecase) Department {
	rest := Department{Service: service}
	app.Get("/departments", rest.List)
	app.Post("/departments", rest.Create)
	app.Put("/departments/reorder", rest.Reorder)
	app.Put("/departments/:id", rest.Update)
	app.Delete("/departments/:id", rest.Delete)
	return rest
}

func (controller *Department) List(c *fiber.Ctx) error {
	departments, err := controller.Service.List(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch departments",
		Results: departments,
	})
}

func (controller *Department) Create(c *fiber.Ctx) error {
	var request domainDepartment.CreateRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	department, err := controller.Service.Create(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success create department",
		Results: department,
	})
}

func (controller *Department) Update(c *fiber.Ctx) error {
	var request domainDepartment.UpdateRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)
	request.ID = c.Params("id")

	department, err := controller.Service.Update(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success update department",
		Results: department,
	})
}

func (controller *Department) Delete(c *fiber.Ctx) error {
	err := controller.Service.Delete(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success delete department",
	})
}

func (controller *Department) Reorder(c *fiber.Ctx) error {
	var request domainDepartment.ReorderRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	departments, err := controller.Service.Reorder(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success reorder departments",
		Results: departments,
	})
}
