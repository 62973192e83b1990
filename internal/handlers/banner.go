package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/soniq/shop-backend/internal/models"
	"github.com/soniq/shop-backend/internal/uid"
)

type BannerHandler struct {
	DB *gorm.DB
}

type bannerRequest struct {
	Title       string     `json:"title"       validate:"required"`
	Description string     `json:"description" validate:"required"`
	LinkURL     string     `json:"link_url"    validate:"omitempty,url"`
	ImageURL    string     `json:"image_url"   validate:"required,url"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Discount    *int       `json:"discount"    validate:"omitempty,gte=0,lte=100"`
}

func (h *BannerHandler) CreateBanner(c echo.Context) error {
	var req bannerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return echo.NewHTTPError(http.StatusBadRequest, "end_date must not precede start_date")
	}

	banner := models.Banner{
		UID:         uid.New(),
		Title:       req.Title,
		Description: req.Description,
		LinkURL:     req.LinkURL,
		ImageURL:    req.ImageURL,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Discount:    req.Discount,
	}
	if err := h.DB.Create(&banner).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "banner": banner})
}

// ListBanners returns banners whose date window covers now. A nil start or
// end leaves that side of the window open.
func (h *BannerHandler) ListBanners(c echo.Context) error {
	now := time.Now()
	var banners []models.Banner
	err := h.DB.
		Where("start_date IS NULL OR start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now).
		Order("id DESC").
		Find(&banners).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "banners": banners})
}
