package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/technicalhatchet/fieldserve/pkg/util"
)

// validate checks DTO structs; handlers surface failures as validation errors.
var validate = validator.New()

func validateStruct(payload any) error {
	if err := validate.Struct(payload); err != nil {
		details := map[string]any{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				details[strings.ToLower(fe.Field())] = fe.Tag()
			}
		}
		return apperrors.NewValidationError("invalid payload", details)
	}
	return nil
}

// actorUserID reads the authenticated user id forwarded by the gateway.
func actorUserID(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Get("X-User-ID"))
}

func requireDateQuery(c *fiber.Ctx, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, apperrors.NewValidationError(name+" is required (YYYY-MM-DD)", nil)
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(name+" must be YYYY-MM-DD", nil)
	}
	return parsed, nil
}

func optionalDateQuery(c *fiber.Ctx, name string, fallback time.Time) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(name+" must be YYYY-MM-DD", nil)
	}
	return parsed, nil
}

func optionalStringQuery(c *fiber.Ctx, name string) *string {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	return &raw
}

func parseIntQuery(c *fiber.Ctx, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
