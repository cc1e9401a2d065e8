package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"product-registry/controllers"
	"product-registry/docs"
	"product-registry/metrics"
	"product-registry/middleware"
	"product-registry/store"
)

// Options carries what the router needs besides the registry.
type Options struct {
	Log           logrus.FieldLogger
	Metrics       *metrics.Metrics
	AllowedOrigin string
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(reg store.Registry, opts Options) (*gin.Engine, error) {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(opts.Log),
		gin.Recovery(),
	)
	if opts.Metrics != nil {
		router.Use(middleware.Metrics(opts.Metrics))
	}
	router.Use(middleware.CORS(opts.AllowedOrigin))

	pc, err := controllers.NewProductController(reg, opts.Log)
	if err != nil {
		return nil, err
	}
	RegisterRoutes(router, pc)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	if err := docs.Register(router); err != nil {
		return nil, err
	}
	return router, nil
}

// RegisterRoutes mounts the product routes.
func RegisterRoutes(router gin.IRoutes, pc *controllers.ProductController) {
	router.GET("/products", pc.ListProducts)
	router.GET("/products/:id", pc.GetProductByID)
	router.POST("/products", pc.CreateProduct)
	router.PUT("/products/:id", pc.UpdateProduct)
	router.DELETE("/products/:id", pc.DeleteProduct)
}
