package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/fitbuddy/internal/domain"
	"github.com/mansoorceksport/fitbuddy/internal/middleware"
	"github.com/mansoorceksport/fitbuddy/internal/service"
)

type ProgramHandler struct {
	programService  *service.ProgramService
	progressService *service.ProgressService
}

func NewProgramHandler(programService *service.ProgramService, progressService *service.ProgressService) *ProgramHandler {
	return &ProgramHandler{
		programService:  programService,
		progressService: progressService,
	}
}

// Create handles POST /v1/programs
func (h *ProgramHandler) Create(c *fiber.Ctx) error {
	var req domain.ProgramInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	program, err := h.programService.Create(c.UserContext(), middleware.Username(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(program)
}

// List handles GET /v1/programs
func (h *ProgramHandler) List(c *fiber.Ctx) error {
	programs, err := h.programService.List(c.UserContext(), middleware.Username(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(programs)
}

func (h *ProgramHandler) Get(c *fiber.Ctx) error {
	program, err := h.programService.Get(c.UserContext(), middleware.Username(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(program)
}

// Update handles PUT /v1/programs/:id. Days are matched by id, exercises are replaced.
func (h *ProgramHandler) Update(c *fiber.Ctx) error {
	var req domain.ProgramInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	program, err := h.programService.Update(c.UserContext(), middleware.Username(c), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(program)
}

// UpdateDay handles PUT /v1/programs/:id/days/:dayId
func (h *ProgramHandler) UpdateDay(c *fiber.Ctx) error {
	var req domain.DayInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	program, err := h.programService.UpdateDay(c.UserContext(), middleware.Username(c), c.Params("id"), c.Params("dayId"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(program)
}

func (h *ProgramHandler) Delete(c *fiber.Ctx) error {
	if err := h.programService.Delete(c.UserContext(), middleware.Username(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// WithLogs handles GET /v1/programs/with-logs
func (h *ProgramHandler) WithLogs(c *fiber.Ctx) error {
	programs, err := h.programService.WithLogs(c.UserContext(), middleware.Username(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(programs)
}

// WithoutLogs handles GET /v1/programs/without-logs
func (h *ProgramHandler) WithoutLogs(c *fiber.Ctx) error {
	programs, err := h.programService.WithoutLogs(c.UserContext(), middleware.Username(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(programs)
}

// Overview handles GET /v1/programs/overview
func (h *ProgramHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.programService.Overview(c.UserContext(), middleware.Username(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(overview)
}

// Logs handles GET /v1/programs/:id/progress-logs
func (h *ProgramHandler) Logs(c *fiber.Ctx) error {
	logs, err := h.progressService.ProgramLogs(c.UserContext(), middleware.Username(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(logs)
}

// LogSummaries handles GET /v1/programs/:id/progress-logs/summaries
func (h *ProgramHandler) LogSummaries(c *fiber.Ctx) error {
	summaries, err := h.progressService.ProgramSummaries(c.UserContext(), middleware.Username(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summaries)
}
