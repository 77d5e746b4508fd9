package properties

import (
	"errors"

	"parcel-watch/core/logger"
	"parcel-watch/core/reconcile"
	"parcel-watch/feature/properties/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for properties.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the property routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/properties")
	group.Post("/match", h.HandleMatch)
	group.Post("/snapshots", h.HandleCaptureSnapshot)
	group.Get("/snapshots", h.HandleListSnapshots)
	group.Delete("/snapshots/:id", h.HandleDeleteSnapshot)
	group.Get("/diff", h.HandleDiff)
	group.Post("/notify", h.HandleNotify)
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidPayload):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrSnapshotNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrNoDatabase):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func failure(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// HandleMatch cross-references a property payload against a places payload.
// @Summary Match Properties
// @Description Matches property records to places by normalized address, then by coordinate proximity. Unmatched properties are dropped unless no places are available.
// @Tags properties
// @Accept json
// @Produce json
// @Param request body models.MatchRequest true "Bucket objects to match"
// @Success 200 {object} models.MatchReport "Match Report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 422 {object} map[string]string "Invalid Payload"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /properties/match [post]
func (h *Handler) HandleMatch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req models.MatchRequest
	if err := c.BodyParser(&req); err != nil || req.Places == "" || req.Properties == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "places and properties are required"})
	}

	report, err := h.service.Match(c.Context(), req.Places, req.Properties)
	if err != nil {
		return failure(c, l, "Match failed", err)
	}
	return c.JSON(report)
}

// HandleCaptureSnapshot stores a property payload as a snapshot.
// @Summary Capture Snapshot
// @Description Decodes a property payload from the bucket and persists it as a snapshot.
// @Tags properties
// @Accept json
// @Produce json
// @Param request body models.CaptureRequest true "Payload to capture"
// @Success 201 {object} models.SnapshotSummary "Snapshot"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 503 {object} map[string]string "Database Unavailable"
// @Router /properties/snapshots [post]
func (h *Handler) HandleCaptureSnapshot(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req models.CaptureRequest
	if err := c.BodyParser(&req); err != nil || req.Properties == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "properties is required"})
	}

	summary, err := h.service.CaptureSnapshot(c.Context(), req.Label, req.Properties)
	if err != nil {
		return failure(c, l, "Snapshot capture failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(summary)
}

// HandleListSnapshots lists snapshots, most recent first.
// @Summary List Snapshots
// @Tags properties
// @Produce json
// @Param limit query int false "Maximum number of snapshots"
// @Success 200 {array} models.SnapshotSummary "Snapshots"
// @Failure 503 {object} map[string]string "Database Unavailable"
// @Router /properties/snapshots [get]
func (h *Handler) HandleListSnapshots(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	snapshots, err := h.service.ListSnapshots(c.Context(), c.QueryInt("limit", 50))
	if err != nil {
		return failure(c, l, "Snapshot listing failed", err)
	}
	return c.JSON(snapshots)
}

// HandleDeleteSnapshot deletes a snapshot.
// @Summary Delete Snapshot
// @Tags properties
// @Param id path string true "Snapshot ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /properties/snapshots/{id} [delete]
func (h *Handler) HandleDeleteSnapshot(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.DeleteSnapshot(c.Context(), c.Params("id")); err != nil {
		return failure(c, l, "Snapshot deletion failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDiff plans notifications for the changes between two snapshots.
// @Summary Diff Snapshots
// @Description Diffs two snapshots and classifies ownership and sale changes. Defaults to the two most recent snapshots.
// @Tags properties
// @Produce json
// @Param old query string false "Older snapshot ID"
// @Param new query string false "Newer snapshot ID"
// @Success 200 {object} reconcile.Plan "Notification Plan"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /properties/diff [get]
func (h *Handler) HandleDiff(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	plan, err := h.service.DiffSnapshots(c.Context(), c.Query("old"), c.Query("new"), reconcile.RunOptions{
		LocationName:  c.Query("location"),
		AssetTypeName: c.Query("asset_type"),
	})
	if err != nil {
		return failure(c, l, "Snapshot diff failed", err)
	}
	return c.JSON(plan)
}

// HandleNotify plans and dispatches change notifications.
// @Summary Notify Changes
// @Description Diffs two snapshots and dispatches significant changes. Nothing is sent unless confirm is true and dry_run is false.
// @Tags properties
// @Accept json
// @Produce json
// @Param request body models.NotifyRequest true "Snapshots and dispatch options"
// @Success 200 {object} models.NotifyReport "Notify Report"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /properties/notify [post]
func (h *Handler) HandleNotify(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req models.NotifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	report, err := h.service.Notify(c.Context(), req.Old, req.New,
		reconcile.RunOptions{LocationName: req.LocationName, AssetTypeName: req.AssetTypeName},
		reconcile.ApplyOptions{DryRun: req.DryRun, Confirmed: req.Confirm},
	)
	if err != nil {
		if report != nil {
			l.Error("Notification dispatch failed", zap.Error(err), zap.Int("dispatched", report.Dispatched))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error(), "report": report})
		}
		return failure(c, l, "Notify failed", err)
	}
	return c.JSON(report)
}
