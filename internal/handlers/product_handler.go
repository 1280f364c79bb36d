package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/services"
)

type ProductHandler struct {
	service *services.ProductService
}

func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
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

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ferr := paramID(c)
	if ferr != nil {
		return failWith(c, ferr)
	}

	product, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if ferr := bind(c, &req); ferr != nil {
		return failWith(c, ferr)
	}

	product, err := h.service.Create(c.UserContext(), &req)
	if err != nil {
		return catalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ferr := paramID(c)
	if ferr != nil {
		return failWith(c, ferr)
	}
	var req dto.UpdateProductRequest
	if ferr := bind(c, &req); ferr != nil {
		return failWith(c, ferr)
	}

	product, err := h.service.Update(c.UserContext(), id, &req)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ferr := paramID(c)
	if ferr != nil {
		return failWith(c, ferr)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return catalogError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
