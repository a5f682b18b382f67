package rest

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	domainReport "github.com/zapdesk/zapdesk/domains/report"
	"github.com/zapdesk/zapdesk/pkg/utils"
)

type Report struct {
	Service domainReport.IReportUsecase
}

func InitRestReport(app fiber.Router, service domainReport.IReportUsecase) Report {
	rest := Report{Service: service}
	app.Get("/reports/overview", rest.Overview)
	app.Get("/reports/export", rest.Export)
	return rest
}

func (controller *Report) Overview(c *fiber.Ctx) error {
	overview, err := controller.Service.Overview(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch report overview",
		Results: overview,
	})
}

func (controller *Report) Export(c *fiber.Ctx) error {
	data, err := controller.Service.ExportXLSX(c.UserContext())
	utils.PanicIfNeeded(err)

	filename := fmt.Sprintf("report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(data)
}
