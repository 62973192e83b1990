package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/soniq/shop-backend/internal/middleware"
	"github.com/soniq/shop-backend/internal/models"
	"github.com/soniq/shop-backend/internal/uid"
)

type CategoryHandler struct {
	DB *gorm.DB
}

type categoryRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description" validate:"required"`
	ParentUID   string `json:"parent_uid"  validate:"omitempty"`
}

// AddCategory accepts one object or an array of them; either way every
// referenced parent must already exist.
func (h *CategoryHandler) AddCategory(c echo.Context) error {
	actor := middleware.AccountFromContext(c)

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var reqs []categoryRequest
	if err := json.Unmarshal(body, &reqs); err != nil {
		var single categoryRequest
		if err := json.Unmarshal(body, &single); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		reqs = []categoryRequest{single}
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no categories given")
	}

	categories := make([]models.Category, 0, len(reqs))
	for _, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return err
		}
		category := models.Category{
			UID:         uid.New(),
			Name:        req.Name,
			Description: req.Description,
			CreatedBy:   actor.UID,
		}
		if req.ParentUID != "" {
			var parent models.Category
			err := h.DB.Where("uid = ?", req.ParentUID).First(&parent).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusBadRequest, "parent category does not exist")
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
			category.ParentID = &parent.ID
		}
		categories = append(categories, category)
	}

	if err := h.DB.Create(&categories).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "categories": categories})
}

func (h *CategoryHandler) ListCategories(c echo.Context) error {
	var categories []models.Category
	if err := h.DB.Preload("Parent").Order("id ASC").Find(&categories).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "categories": categories})
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	var category models.Category
	err := h.DB.Preload("Parent").Where("uid = ?", c.Param("uid")).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "category": category})
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	actor := middleware.AccountFromContext(c)

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var category models.Category
	err := h.DB.Where("uid = ?", c.Param("uid")).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"updated_by":  actor.UID,
	}
	if req.ParentUID != "" {
		var parent models.Category
		err := h.DB.Where("uid = ?", req.ParentUID).First(&parent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "parent category does not exist")
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if parent.ID == category.ID {
			return echo.NewHTTPError(http.StatusBadRequest, "category cannot be its own parent")
		}
		updates["parent_id"] = parent.ID
	}
	if err := h.DB.Model(&category).Updates(updates).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "category": category})
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	result := h.DB.Where("uid = ?", c.Param("uid")).Delete(&models.Category{})
	if result.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "category not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
