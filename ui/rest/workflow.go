package rest

import (
	"github.com/gofiber/fiber/v2"

	domainWorkflow "github.com/zapdesk/zapdesk/domains/workflow"
	"github.com/zapdesk/zapdesk/pkg/utils"
)

type Workflow struct {
	Service domainWorkflow.IWorkflowUsecase
}

func InitRestWorkflow(app fiber.Router, service domainWorkflow.IWorkflowUsecase) Workflow {
	rest := Workflow{Service: service}
	app.Get("/workflows", rest.List)
	app.Post("/workflows", rest.Create)
	app.Put("/workflows/:id", rest.Update)
	app.Delete("/workflows/:id", rest.Delete)
	return rest
}

func (controller *Workflow) List(c *fiber.Ctx) error {
	workflows, err := controller.Service.List(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch workflows",
		Results: workflows,
	})
}

func (controller *Workflow) Create(c *fiber.Ctx) error {
	var request domainWorkflow.SaveRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	workflow, err := controller.Service.Create(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success create workflow",
		Results: workflow,
	})
}

func (controller *Workflow) Update(c *fiber.Ctx) error {
	var request domainWorkflow.SaveRequest
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)
	request.ID = c.Params("id")

	workflow, err := controller.Service.Update(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success update workflow",
		Results: workflow,
	})
}

func (controller *Workflow) Delete(c *fiber.Ctx) error {
	err := controller.Service.Delete(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success delete workflow",
	})
}
