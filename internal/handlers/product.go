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
	"github.com/soniq/shop-backend/internal/util"
)

type ProductHandler struct {
	DB *gorm.DB
}

type productOptionRequest struct {
	Name   string   `json:"name"   validate:"required"`
	Values []string `json:"values" validate:"required,min=1,dive,required"`
}

type productVariantRequest struct {
	VariantName   string   `json:"variant_name"   validate:"required"`
	Price         float64  `json:"price"          validate:"required,gt=0"`
	StockQuantity int      `json:"stock_quantity" validate:"gte=0"`
	OptionValues  []string `json:"option_values"  validate:"omitempty,dive,required"`
}

type productMediaRequest struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url"  validate:"required,url"`
	Type string `json:"type" validate:"required,oneof=image video"`
}

type productRequest struct {
	Name             string                  `json:"name"              validate:"required"`
	Slug             string                  `json:"slug"              validate:"omitempty"`
	Description      string                  `json:"description"       validate:"required"`
	ShortDescription string                  `json:"short_description"`
	Price            float64                 `json:"price"             validate:"required,gt=0"`
	DiscountPrice    *float64                `json:"discount_price"    validate:"omitempty,gt=0"`
	Status           string                  `json:"status"            validate:"omitempty,oneof=active inactive draft"`
	CategoryUID      string                  `json:"category_uid"      validate:"required"`
	BrandUID         string                  `json:"brand_uid"         validate:"required"`
	Options          []productOptionRequest  `json:"options"           validate:"omitempty,dive"`
	Variants         []productVariantRequest `json:"variants"          validate:"omitempty,dive"`
	Media            []productMediaRequest   `json:"media"             validate:"omitempty,dive"`
}

// AddProduct writes the product with its options, option values, variants and
// media in one transaction; a failure anywhere leaves no rows behind. Product
// stock is the sum of variant stock when variants are present.
func (h *ProductHandler) AddProduct(c echo.Context) error {
	actor := middleware.AccountFromContext(c)

	var req productRequest
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

	var count int64
	if err := h.DB.Model(&models.Product{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if count > 0 {
		return echo.NewHTTPError(http.StatusConflict, "product slug already in use")
	}

	var category models.Category
	if err := h.DB.Where("uid = ?", req.CategoryUID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "category does not exist")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	var brand models.Brand
	if err := h.DB.Where("uid = ?", req.BrandUID).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "brand does not exist")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	status := req.Status
	if status == "" {
		status = models.ProductStatusActive
	}

	stock := 0
	for _, v := range req.Variants {
		stock += v.StockQuantity
	}

	product := models.Product{
		UID:              uid.New(),
		Name:             req.Name,
		Slug:             slug,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Price:            req.Price,
		DiscountPrice:    req.DiscountPrice,
		SKU:              util.MakeSKU(req.Name),
		StockQuantity:    stock,
		Status:           status,
		CategoryID:       category.ID,
		BrandID:          brand.ID,
		CreatedBy:        actor.UID,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}

		// option-value rows indexed by value string, for variant linking
		valueByName := map[string]models.ProductOptionValue{}
		for _, o := range req.Options {
			option := models.ProductOption{
				UID:       uid.New(),
				ProductID: product.ID,
				Name:      o.Name,
				CreatedBy: actor.UID,
			}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
			for _, v := range o.Values {
				value := models.ProductOptionValue{
					UID:       uid.New(),
					OptionID:  option.ID,
					Value:     v,
					CreatedBy: actor.UID,
				}
				if err := tx.Create(&value).Error; err != nil {
					return err
				}
				valueByName[v] = value
			}
		}

		for _, v := range req.Variants {
			variant := models.ProductVariant{
				UID:           uid.New(),
				ProductID:     product.ID,
				VariantName:   v.VariantName,
				SKU:           util.MakeSKU(req.Name + " " + v.VariantName),
				Price:         v.Price,
				StockQuantity: v.StockQuantity,
				CreatedBy:     actor.UID,
			}
			for _, name := range v.OptionValues {
				value, ok := valueByName[name]
				if !ok {
					return errors.New("variant references unknown option value: " + name)
				}
				variant.OptionValues = append(variant.OptionValues, value)
			}
			if err := tx.Create(&variant).Error; err != nil {
				return err
			}
		}

		for _, m := range req.Media {
			media := models.ProductMedia{
				UID:       uid.New(),
				ProductID: product.ID,
				Name:      m.Name,
				URL:       m.URL,
				Type:      m.Type,
				CreatedBy: actor.UID,
			}
			if err := tx.Create(&media).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.loadProduct(product.UID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "product": created})
}

func (h *ProductHandler) loadProduct(productUID string) (*models.Product, error) {
	var product models.Product
	err := h.DB.
		Preload("Category").
		Preload("Brand").
		Preload("Options.Values").
		Preload("Variants.OptionValues").
		Preload("Images").
		Where("uid = ?", productUID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.Product{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var items []models.Product
	err := h.DB.
		Preload("Category").
		Preload("Brand").
		Preload("Images").
		Preload("Variants").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"meta": echo.Map{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.loadProduct(c.Param("uid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "product": product})
}
