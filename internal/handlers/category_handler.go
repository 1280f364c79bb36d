package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/services"
)

type CategoryHandler struct {
	service *services.CategoryService
}

func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
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

func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, ferr := paramID(c)
	if ferr != nil {
		return failWith(c, ferr)
	}

	category, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(category)
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if ferr := bind(c, &req); ferr != nil {
		return failWith(c, ferr)
	}

	category, err := h.service.Create(c.UserContext(), &req)
	if err != nil {
		return catalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, ferr := paramID(c)
	if ferr != nil {
		return failWith(c, ferr)
	}
	var req dto.UpdateCategoryRequest
	if ferr := bind(c, &req); ferr != nil {
		return failWith(c, ferr)
	}

	category, err := h.service.Update(c.UserContext(), id, &req)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(category)
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, ferr := paramID(c)
	if ferr != nil {
		return failWith(c, ferr)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return catalogError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
