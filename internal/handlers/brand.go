package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/soniq/shop-backend/internal/middleware"
	"github.com/soniq/shop-backend/internal/models"
	"github.com/soniq/shop-backend/internal/uid"
	"github.com/soniq/shop-backend/internal/util"
)

type BrandHandler struct {
	DB *gorm.DB
}

type brandRequest struct {
	Name        string `json:"name"        validate:"required"`
	Slug        string `json:"slug"        validate:"omitempty"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"    validate:"omitempty,url"`
}

func (h *BrandHandler) AddBrand(c echo.Context) error {
	actor := middleware.AccountFromContext(c)

	var req brandRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	slug := req.Slug
	if slug == "" {
		slug = util.MakeSlug(req.Name)
	}

	var existing models.Brand
	err := h.DB.Where("slug = ?", slug).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "brand slug already in use")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	brand := models.Brand{
		UID:         uid.New(),
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		CreatedBy:   actor.UID,
	}
	if err := h.DB.Create(&brand).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "brand": brand})
}

func (h *BrandHandler) ListBrands(c echo.Context) error {
	var brands []models.Brand
	if err := h.DB.Order("name ASC").Find(&brands).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "brands": brands})
}
