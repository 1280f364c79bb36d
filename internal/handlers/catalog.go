package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/pagination"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/services"
)

// catalogError writes the response for the service errors the catalog
// handlers expect. Anything else goes to the app ErrorHandler as a 500.
func catalogError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrSubcategoryNotFound),
		errors.Is(err, services.ErrProductNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrSlugTaken),
		errors.Is(err, services.ErrSKUTaken):
		return fail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidSlug),
		errors.Is(err, services.ErrInvalidPrice),
		errors.Is(err, pagination.ErrInvalidParams):
		return fail(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrStorageTimeout):
		return fail(c, fiber.StatusServiceUnavailable, err.Error())
	}
	return err
}

// pageParams reads ?page= and ?size=.
func pageParams(c *fiber.Ctx) (pagination.Params, error) {
	return pagination.Parse(c.Query("page"), c.Query("size"))
}
