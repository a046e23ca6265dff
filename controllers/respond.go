package controller

import (
	"errors"
	"strconv"
	"strings"

	"coldcommand/sequencer"
	"coldcommand/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// respondError maps sequencer errors onto HTTP responses.
func respondError(c *fiber.Ctx, log *logrus.Entry, err error) error {
	var verr *sequencer.ValidationError
	var perr *sequencer.PersistenceError
	switch {
	case errors.Is(err, sequencer.ErrNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found")
	case errors.Is(err, sequencer.ErrConflict):
		return utils.ErrorResponse(c, fiber.StatusConflict, "Sequence was changed by someone else. Reload and try again.")
	case errors.As(err, &verr):
		return utils.ValidationResponse(c, verr.Message, verr.FieldErrors)
	case errors.As(err, &perr):
		utils.LogError("persistence_error", err, map[string]interface{}{
			"op":          perr.Op,
			"campaign_id": c.Params("id"),
			"path":        c.Path(),
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to "+perr.Op)
	default:
		log.WithError(err).WithField("path", c.Path()).Error("Unhandled error")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

func setETag(c *fiber.Ctx, version int) {
	c.Set(fiber.HeaderETag, strconv.Quote(strconv.Itoa(version)))
}

// expectedVersion reads If-Match ("3", W/"3" or 3), falling back to the body value.
// A wildcard or absent header means the write is unconditional.
func expectedVersion(c *fiber.Ctx, fromBody *int) (*int, error) {
	raw := strings.TrimSpace(c.Get(fiber.HeaderIfMatch))
	if raw == "" || raw == "*" {
		return fromBody, nil
	}
	raw = strings.TrimPrefix(raw, "W/")
	raw = strings.Trim(raw, `"`)
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return nil, &sequencer.ValidationError{
			Message:     "invalid If-Match header",
			FieldErrors: map[string]string{"If-Match": "must be a sequence version"},
		}
	}
	return &v, nil
}

func intParam(c *fiber.Ctx, name string) (int, error) {
	v, err := strconv.Atoi(c.Params(name))
	if err != nil {
		return 0, &sequencer.ValidationError{
			Message:     "invalid path parameter",
			FieldErrors: map[string]string{name: "must be a number"},
		}
	}
	return v, nil
}
