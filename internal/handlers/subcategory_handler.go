package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/services"
)

type SubcategoryHandler struct {
	service *services.SubcategoryService
}

func NewSubcategoryHandler(service *services.SubcategoryService) *SubcategoryHandler {
	return &SubcategoryHandler{service: service}
}

func (h *SubcategoryHandler) List(c *fiber.Ctx) error {
	params, err := pageParams(c)
	if err != nil {
		return catalogError(c, err)
	}

	page, err := h.service.List(c.UserContext(), params)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(page)
}

func (h *SubcategoryHandler) Get(c *fiber.Ctx) error {
	id, ferr := paramID(c)
	if ferr != nil {
		return failWith(c, ferr)
	}

	sub, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(sub)
}

func (h *SubcategoryHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSubcategoryRequest
	if ferr := bind(c, &req); ferr != nil {
		return failWith(c, ferr)
	}

	sub, err := h.service.Create(c.UserContext(), &req)
	if err != nil {
		return catalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

func (h *SubcategoryHandler) Update(c *fiber.Ctx) error {
	id, ferr := paramID(c)
	if ferr != nil {
		return failWith(c, ferr)
	}
	var req dto.UpdateSubcategoryRequest
	if ferr := bind(c, &req); ferr != nil {
		return failWith(c, ferr)
	}

	sub, err := h.service.Update(c.UserContext(), id, &req)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(sub)
}

func (h *SubcategoryHandler) Delete(c *fiber.Ctx) error {
	id, ferr := paramID(c)
	if ferr != nil {
		return failWith(c, ferr)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return catalogError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
