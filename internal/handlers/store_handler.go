package handlers

import (
	"etalase/internal/screens"
	"etalase/internal/services"
	"etalase/internal/session"
	"etalase/internal/validation"
	"etalase/internal/viewmodels"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StoreHandler serves storefront reads and the owner/member writes on a store.
type StoreHandler struct {
	reader   screens.Reader
	mapper   viewmodels.Mapper
	sessions *session.Store
	products *services.ProductService
	reviews  *services.ReviewService
	members  fiber.Handler
	logger   *zap.Logger
}

// NewStoreHandler creates a new StoreHandler. members guards the write routes.
func NewStoreHandler(
	reader screens.Reader,
	mapper viewmodels.Mapper,
	sessions *session.Store,
	products *services.ProductService,
	reviews *services.ReviewService,
	members fiber.Handler,
	logger *zap.Logger,
) *StoreHandler {
	return &StoreHandler{
		reader:   reader,
		mapper:   mapper,
		sessions: sessions,
		products: products,
		reviews:  reviews,
		members:  members,
		logger:   logger,
	}
}

// RegisterRoutes registers the store routes with the Fiber app.
func (h *StoreHandler) RegisterRoutes(router fiber.Router) {
	storeRoutes := router.Group("/stores")
	storeRoutes.Get("/owner/:ownerId", h.HandleGetStoreByOwner)
	storeRoutes.Get("/:storeId/products", h.HandleGetProducts)
	storeRoutes.Post("/:storeId/products", h.members, h.HandleCreateProduct)
	storeRoutes.Put("/:storeId/products/:productId", h.members, h.HandleUpdateProduct)
	storeRoutes.Delete("/:storeId/products/:productId", h.members, h.HandleDeleteProduct)
	storeRoutes.Get("/:storeId/reviews", h.HandleGetReviews)
	storeRoutes.Post("/:storeId/reviews", h.members, h.HandleWriteReview)
}

// HandleGetStoreByOwner returns an owner's profile and products. The profile
// is null when the owner has not created one.
func (h *StoreHandler) HandleGetStoreByOwner(c *fiber.Ctx) error {
	screen := screens.NewStoreScreen(h.reader, h.mapper, screens.NewLiveness())
	r := screen.Refresh(c.UserContext(), c.Params("ownerId"))
	if !r.IsOk() {
		return respondError(c, h.logger, "Could not load store", r.Err)
	}
	return c.JSON(r.Value)
}

// HandleGetProducts lists a store's products.
func (h *StoreHandler) HandleGetProducts(c *fiber.Ctx) error {
	docs, err := h.reader.FetchProductsByStore(c.UserContext(), c.Params("storeId"))
	if err != nil {
		return respondError(c, h.logger, "Could not load products", err)
	}
	return c.JSON(h.mapper.Products(docs))
}

// HandleGetReviews lists a store's reviews, newest first, with their summary.
func (h *StoreHandler) HandleGetReviews(c *fiber.Ctx) error {
	screen := screens.NewReviewsScreen(h.reader, h.mapper, h.sessions, screens.NewLiveness())
	r := screen.Refresh(c.UserContext(), c.Params("storeId"))
	if !r.IsOk() {
		return respondError(c, h.logger, "Could not load reviews", r.Err)
	}
	return c.JSON(r.Value)
}

// HandleCreateProduct adds a product to the caller's store.
func (h *StoreHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var form validation.ProductForm
	if err := c.BodyParser(&form); err != nil {
		return invalidBody(c, err)
	}
	product, err := h.products.CreateProduct(c.UserContext(), c.Params("storeId"), form)
	if err != nil {
		return respondError(c, h.logger, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.mapper.Product(*product))
}

// HandleUpdateProduct edits a product of the caller's store.
func (h *StoreHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var form validation.ProductForm
	if err := c.BodyParser(&form); err != nil {
		return invalidBody(c, err)
	}
	product, err := h.products.UpdateProduct(c.UserContext(), c.Params("storeId"), c.Params("productId"), form)
	if err != nil {
		return respondError(c, h.logger, "Could not update product", err)
	}
	return c.JSON(h.mapper.Product(*product))
}

// HandleDeleteProduct removes a product from the caller's store.
func (h *StoreHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.products.DeleteProduct(c.UserContext(), c.Params("storeId"), c.Params("productId")); err != nil {
		return respondError(c, h.logger, "Could not delete product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleWriteReview creates or replaces the caller's review of a store.
func (h *StoreHandler) HandleWriteReview(c *fiber.Ctx) error {
	var form validation.ReviewForm
	if err := c.BodyParser(&form); err != nil {
		return invalidBody(c, err)
	}
	review, err := h.reviews.Write(c.UserContext(), c.Params("storeId"), form)
	if err != nil {
		return respondError(c, h.logger, "Could not save review", err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.mapper.Review(*review))
}
