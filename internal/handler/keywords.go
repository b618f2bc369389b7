package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"keyword-scout/internal/service"
	"keyword-scout/pkg/logger"
	"keyword-scout/pkg/models"
	"keyword-scout/pkg/storage"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100

	generateFailed = "Failed to generate keywords"
)

type Handler struct {
	svc     service.KeywordService
	timeout time.Duration
	log     *logger.Logger
}

// New returns handlers backed by svc. A non-positive timeout leaves
// generate requests bounded only by the client connection.
func New(svc service.KeywordService, timeout time.Duration) *Handler {
	return &Handler{
		svc:     svc,
		timeout: timeout,
		log:     logger.GetLogger().Component("keyword_handler"),
	}
}

// Generate handles POST /api/keywords/generate. An empty body samples seeds
// from the registry. Any failure yields 500 with a generic message and no
// partial results.
func (h *Handler) Generate(c *fiber.Ctx) error {
	var req models.GenerateRequest
	if body := c.Body(); len(body) > 0 {
		if err := c.App().Config().JSONDecoder(body, &req); err != nil {
			h.log.WithError(err).Warn("Malformed generate request")
			return jsonError(c, fiber.StatusInternalServerError, generateFailed)
		}
	}

	ctx := c.UserContext()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	resp, err := h.svc.Generate(ctx, req.ManualSeeds)
	if err != nil {
		h.log.WithError(err).WithField("request_id", c.Locals("requestid")).Error("Keyword generation failed")
		return jsonError(c, fiber.StatusInternalServerError, generateFailed)
	}
	return c.JSON(resp)
}

// History handles GET /api/keywords/history?limit=N.
func (h *Handler) History(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	runs, err := h.svc.History(c.UserContext(), limit)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			return jsonError(c, fiber.StatusNotFound, "run history is not enabled")
		}
		h.log.WithError(err).Error("Failed to load run history")
		return jsonError(c, fiber.StatusInternalServerError, "Failed to load run history")
	}
	if runs == nil {
		runs = []*storage.Run{}
	}
	return c.JSON(fiber.Map{
		"runs": runs,
	})
}

// Seeds handles GET /api/seeds?category=name.
func (h *Handler) Seeds(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories": h.svc.Categories(),
		"seeds":      h.svc.Seeds(c.Query("category")),
	})
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
