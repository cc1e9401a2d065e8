package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"product-registry/models"
	"product-registry/store"
)

// ProductController translates HTTP requests into registry operations.
type ProductController struct {
	Registry store.Registry
	Log      logrus.FieldLogger
}

// NewProductController wires a controller to its registry.
func NewProductController(reg store.Registry, log logrus.FieldLogger) (*ProductController, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}
	return &ProductController{Registry: reg, Log: log}, nil
}

// ListProducts retrieves all products
func (pc *ProductController) ListProducts(c *gin.Context) {
	products, err := pc.Registry.ListAll(c.Request.Context())
	if err != nil {
		pc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProductByID retrieves a product by ID
func (pc *ProductController) GetProductByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	product, err := pc.Registry.GetByID(c.Request.Context(), id)
	if err != nil {
		pc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct handles creating a new product
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := pc.Registry.Create(c.Request.Context(), req.Product())
	if err != nil {
		pc.fail(c, err)
		return
	}

	pc.Log.WithFields(logrus.Fields{"product_id": product.ID, "name": product.Name}).Info("product_created")
	c.Header("Location", fmt.Sprintf("/products/%d", product.ID))
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles updating an existing product
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ID != nil && *req.ID != id {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "id mismatch",
			"details": fmt.Sprintf("body id %d does not match path id %d", *req.ID, id),
		})
		return
	}

	if err := pc.Registry.Update(c.Request.Context(), id, req.Name, *req.Price); err != nil {
		pc.fail(c, err)
		return
	}

	pc.Log.WithField("product_id", id).Info("product_updated")
	c.Status(http.StatusNoContent)
}

// DeleteProduct handles deleting a product
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := pc.Registry.Delete(c.Request.Context(), id); err != nil {
		pc.fail(c, err)
		return
	}

	pc.Log.WithField("product_id", id).Info("product_deleted")
	c.Status(http.StatusNoContent)
}

// fail maps registry errors to status codes.
func (pc *ProductController) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Product already exists", "details": err.Error()})
	case errors.Is(err, store.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "details": err.Error()})
	default:
		_ = c.Error(err)
		pc.Log.WithError(err).Error("registry_failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id", "details": c.Param("id")})
		return 0, false
	}
	return id, true
}

// bindJSON decodes and validates the body, writing a 400 on failure.
func bindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "details": describe(verrs)})
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_json", "details": err.Error()})
	return false
}
