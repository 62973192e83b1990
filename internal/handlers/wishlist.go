package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/soniq/shop-backend/internal/middleware"
	"github.com/soniq/shop-backend/internal/models"
	"github.com/soniq/shop-backend/internal/uid"
)

type WishlistHandler struct {
	DB *gorm.DB
}

type wishlistRequest struct {
	ProductUID string `json:"product_uid" validate:"required"`
	VariantUID string `json:"variant_uid" validate:"omitempty"`
}

// AddToWishlist is idempotent: adding an item the account already has returns
// the existing row.
func (h *WishlistHandler) AddToWishlist(c echo.Context) error {
	actor := middleware.AccountFromContext(c)

	var req wishlistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var product models.Product
	if err := h.DB.Where("uid = ?", req.ProductUID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var variantID *uint
	if req.VariantUID != "" {
		var variant models.ProductVariant
		err := h.DB.Where("uid = ? AND product_id = ?", req.VariantUID, product.ID).First(&variant).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "variant not found")
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		variantID = &variant.ID
	}

	query := h.DB.Where("user_id = ? AND product_id = ?", actor.ID, product.ID)
	if variantID == nil {
		query = query.Where("variant_id IS NULL")
	} else {
		query = query.Where("variant_id = ?", *variantID)
	}

	var existing models.Wishlist
	err := query.First(&existing).Error
	if err == nil {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "wishlist": existing})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	item := models.Wishlist{
		UID:       uid.New(),
		UserID:    actor.ID,
		ProductID: product.ID,
		VariantID: variantID,
		CreatedBy: actor.UID,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "wishlist": item})
}

func (h *WishlistHandler) DeleteFromWishlist(c echo.Context) error {
	actor := middleware.AccountFromContext(c)

	result := h.DB.
		Where("uid = ? AND user_id = ?", c.Param("uid"), actor.ID).
		Delete(&models.Wishlist{})
	if result.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "wishlist item not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *WishlistHandler) GetWishlist(c echo.Context) error {
	actor := middleware.AccountFromContext(c)

	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id must be numeric")
	}
	// an account reads only its own list unless it is an admin
	if uint(userID) != actor.ID && actor.RoleName != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "cannot read another account's wishlist")
	}

	var items []models.Wishlist
	err = h.DB.
		Preload("Product").
		Preload("Product.Images").
		Preload("Variant").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&items).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "wishlist": items})
}
