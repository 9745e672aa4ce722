package handler

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/fitbuddy/internal/domain"
	"github.com/mansoorceksport/fitbuddy/internal/middleware"
	"github.com/mansoorceksport/fitbuddy/internal/service"
)

type ExerciseHandler struct {
	exerciseService *service.ExerciseService
	maxUploadBytes  int64
}

func NewExerciseHandler(exerciseService *service.ExerciseService, maxUploadSizeMB int64) *ExerciseHandler {
	return &ExerciseHandler{
		exerciseService: exerciseService,
		maxUploadBytes:  maxUploadSizeMB * 1024 * 1024,
	}
}

// Search handles GET /v1/exercises?name=
func (h *ExerciseHandler) Search(c *fiber.Ctx) error {
	exercises, err := h.exerciseService.Search(c.UserContext(), c.Query("name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(exercises)
}

func (h *ExerciseHandler) Get(c *fiber.Ctx) error {
	exercise, err := h.exerciseService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(exercise)
}

func (h *ExerciseHandler) Create(c *fiber.Ctx) error {
	var req domain.Exercise
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	exercise, err := h.exerciseService.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(exercise)
}

func (h *ExerciseHandler) Update(c *fiber.Ctx) error {
	var req domain.Exercise
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	exercise, err := h.exerciseService.Update(c.UserContext(), middleware.Username(c), c.Params("id"), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(exercise)
}

func (h *ExerciseHandler) Delete(c *fiber.Ctx) error {
	if err := h.exerciseService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BatchDelete handles DELETE /v1/exercises?ids=a,b,c
func (h *ExerciseHandler) BatchDelete(c *fiber.Ctx) error {
	var ids []string
	for _, id := range strings.Split(c.Query("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	if err := h.exerciseService.BatchDelete(c.UserContext(), ids); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Usage handles GET /v1/exercises/:id/usage
func (h *ExerciseHandler) Usage(c *fiber.Ctx) error {
	usage, err := h.exerciseService.Usage(c.UserContext(), middleware.Username(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(usage)
}

// UploadMedia handles POST /v1/exercises/:id/media (multipart field "file")
func (h *ExerciseHandler) UploadMedia(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "No file uploaded")
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		return badRequest(c, "File too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "Failed to read file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return badRequest(c, "Failed to read file")
	}

	contentType := fileHeader.Header.Get(fiber.HeaderContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	exercise, err := h.exerciseService.UploadMedia(c.UserContext(), middleware.Username(c), c.Params("id"), data, fileHeader.Filename, contentType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(exercise)
}
