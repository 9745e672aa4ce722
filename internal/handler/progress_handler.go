package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/fitbuddy/internal/domain"
	"github.com/mansoorceksport/fitbuddy/internal/middleware"
	"github.com/mansoorceksport/fitbuddy/internal/service"
)

type ProgressHandler struct {
	progressService *service.ProgressService
}

func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// progressLogRequest takes the date as text so plain calendar dates are accepted
type progressLogRequest struct {
	domain.ProgressLogInput
	Date string `json:"date"`
}

func (r progressLogRequest) input() (domain.ProgressLogInput, error) {
	in := r.ProgressLogInput
	date, err := parseDate(r.Date)
	if err != nil {
		return in, err
	}
	in.Date = date
	return in, nil
}

func (h *ProgressHandler) parse(c *fiber.Ctx) (domain.ProgressLogInput, error) {
	var req progressLogRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ProgressLogInput{}, domain.Invalid("invalid request body")
	}
	return req.input()
}

// Create handles POST /v1/progress-logs
func (h *ProgressHandler) Create(c *fiber.Ctx) error {
	in, err := h.parse(c)
	if err != nil {
		return respondError(c, err)
	}

	progressLog, err := h.progressService.Create(c.UserContext(), middleware.Username(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(progressLog)
}

func (h *ProgressHandler) Get(c *fiber.Ctx) error {
	progressLog, err := h.progressService.Get(c.UserContext(), middleware.Username(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(progressLog)
}

// Update handles PUT /v1/progress-logs/:id. Entries are replaced wholesale.
func (h *ProgressHandler) Update(c *fiber.Ctx) error {
	in, err := h.parse(c)
	if err != nil {
		return respondError(c, err)
	}

	progressLog, err := h.progressService.Update(c.UserContext(), middleware.Username(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(progressLog)
}

func (h *ProgressHandler) Delete(c *fiber.Ctx) error {
	if err := h.progressService.Delete(c.UserContext(), middleware.Username(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List handles GET /v1/progress-logs?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ProgressHandler) List(c *fiber.Ctx) error {
	from, err := parseDate(c.Query("from"))
	if err != nil {
		return respondError(c, err)
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		return respondError(c, err)
	}

	summaries, err := h.progressService.ListInRange(c.UserContext(), middleware.Username(c), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summaries)
}

// GetEntry handles GET /v1/exercise-progress/:id
func (h *ProgressHandler) GetEntry(c *fiber.Ctx) error {
	entry, err := h.progressService.GetEntry(c.UserContext(), middleware.Username(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}
