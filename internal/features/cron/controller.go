package cron_feature

import (
	"github.com/gofiber/fiber/v2"
)

type CronController struct {
	Service CronService
}

func NewCronController(service CronService) *CronController {
	return &CronController{
		Service: service,
	}
}

// ListCronJobs godoc
// @Summary List housekeeping jobs
// @Tags cron
// @Produce json
// @Success 200 {array} Job
// @Router /api/cron-jobs [get]
func (c *CronController) ListCronJobs(ctx *fiber.Ctx) error {
	return ctx.JSON(c.Service.ListJobs())
}

// ExecuteCronJob godoc
// @Summary Run a housekeeping job now
// @Tags cron
// @Produce json
// @Param name path string true "Job name"
// @Success 200 {object} Job
// @Failure 404 {object} map[string]interface{}
// @Router /api/cron-jobs/{name}/execute [post]
func (c *CronController) ExecuteCronJob(ctx *fiber.Ctx) error {
	job, err := c.Service.RunJob(ctx.Params("name"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(job)
}
