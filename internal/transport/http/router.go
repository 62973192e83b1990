package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/soniq/shop-backend/internal/handlers"
	"github.com/soniq/shop-backend/internal/middleware"
)

type Deps struct {
	Auth            *middleware.Auth
	AuthHandler     *handlers.AuthHandler
	CategoryHandler *handlers.CategoryHandler
	BrandHandler    *handlers.BrandHandler
	ProductHandler  *handlers.ProductHandler
	BannerHandler   *handlers.BannerHandler
	WishlistHandler *handlers.WishlistHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.Validator = handlers.NewRequestValidator()

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	auth := e.Group("/auth")
	auth.POST("/authenticate", d.AuthHandler.Authenticate)
	auth.POST("/authenticate-pass", d.AuthHandler.AuthenticatePass)
	auth.POST("/refresh-token", d.AuthHandler.RefreshToken)
	auth.POST("/resend-otp", d.AuthHandler.ResendOtp)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.GET("", d.AuthHandler.ListAccounts, d.Auth.Authenticate, d.Auth.AdminOnly)
	auth.GET("/:uid", d.AuthHandler.GetAccount, d.Auth.Authenticate, d.Auth.AdminOnly)

	category := e.Group("/category")
	category.GET("/categories", d.CategoryHandler.ListCategories)
	category.GET("/:uid", d.CategoryHandler.GetCategory)
	category.POST("/addCategory", d.CategoryHandler.AddCategory, d.Auth.Authenticate, d.Auth.AdminOnly)
	category.PUT("/:uid", d.CategoryHandler.UpdateCategory, d.Auth.Authenticate, d.Auth.AdminOnly)
	category.DELETE("/:uid", d.CategoryHandler.DeleteCategory, d.Auth.Authenticate, d.Auth.AdminOnly)

	brand := e.Group("/brand")
	brand.GET("", d.BrandHandler.ListBrands)
	brand.POST("/add", d.BrandHandler.AddBrand, d.Auth.Authenticate, d.Auth.AdminOnly)

	product := e.Group("/product")
	product.GET("", d.ProductHandler.ListProducts)
	product.GET("/:uid", d.ProductHandler.GetProduct)
	product.POST("/add", d.ProductHandler.AddProduct, d.Auth.Authenticate, d.Auth.SellerOrAdmin)

	banner := e.Group("/banner")
	banner.GET("", d.BannerHandler.ListBanners)
	banner.POST("/create", d.BannerHandler.CreateBanner, d.Auth.Authenticate, d.Auth.AdminOnly)

	wishlist := e.Group("/wishlist", d.Auth.Authenticate)
	wishlist.POST("/add", d.WishlistHandler.AddToWishlist)
	wishlist.DELETE("/:uid", d.WishlistHandler.DeleteFromWishlist)
	wishlist.GET("/:user_id", d.WishlistHandler.GetWishlist)
}
