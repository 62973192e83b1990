package models

import (
	"time"
)

const (
	AuthTypeEmail  = "email"
	AuthTypeMobile = "mobile"
)

const (
	ActionSignUp = "sign_up"
	ActionSignIn = "sign_in"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleDelivery = "delivery"
	RoleSupport  = "support"
)

type Role struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"     json:"id"`
	UID         string `gorm:"size:64;uniqueIndex"          json:"uid"`
	Name        string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:100"                     json:"description"`
}

// Account is a users-table row. Exactly one of Email or
// (CountryCode, PhoneNumber) is set, matching AuthType.
type Account struct {
	ID           uint       `gorm:"primaryKey;autoIncrement"        json:"id"`
	UID          string     `gorm:"size:64;uniqueIndex;not null"    json:"uid"`
	AuthType     string     `gorm:"size:10;not null"                json:"auth_type"`
	PasswordHash string     `gorm:"size:255;not null"               json:"-"`
	Email        *string    `gorm:"size:100;uniqueIndex"            json:"email,omitempty"`
	CountryCode  *string    `gorm:"size:8;uniqueIndex:idx_users_phone"  json:"country_code,omitempty"`
	PhoneNumber  *string    `gorm:"size:20;uniqueIndex:idx_users_phone" json:"phone_number,omitempty"`
	RoleName     string     `gorm:"size:50;not null;default:customer"   json:"role_name"`
	IsVerified   bool       `gorm:"default:false"                   json:"is_verified"`
	EmailVerify  *time.Time `json:"email_verify,omitempty"`
	MobileVerify *time.Time `json:"mobile_verify,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Account) TableName() string { return "users" }

type OtpCode struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"index;not null"           json:"user_id"`
	Otp        string    `gorm:"size:6;not null"          json:"otp"`
	ActionType string    `gorm:"size:10"                  json:"action_type"`
	IsVerified bool      `gorm:"not null;default:false"   json:"is_verified"`
	Attempts   int       `gorm:"not null;default:0"       json:"attempts"`
	ExpiresAt  time.Time `gorm:"not null"                 json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (OtpCode) TableName() string { return "otp_codes" }

// RefreshToken rows are append-only: rotation revokes the old row and links
// it to its successor through ReplacedByToken. Token holds the SHA-256 of the
// secret handed to the client, never the secret itself.
type RefreshToken struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uint       `gorm:"index;not null"           json:"user_id"`
	DeviceID        string     `gorm:"size:128;not null"        json:"device_id"`
	DeviceType      string     `gorm:"size:16;not null"         json:"device_type"`
	Token           string     `gorm:"size:512;uniqueIndex"     json:"-"`
	CreatedByIP     string     `gorm:"size:45"                  json:"created_by_ip"`
	RevokedByIP     string     `gorm:"size:45"                  json:"revoked_by_ip"`
	IsRevoked       bool       `gorm:"default:false"            json:"is_revoked"`
	RevokedAt       *time.Time `json:"revoked_at,omitempty"`
	ExpiresAt       time.Time  `gorm:"not null"                 json:"expires_at"`
	ReplacedByToken string     `gorm:"size:512"                 json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type AccountLog struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"index;not null"           json:"user_id"`
	Action     string    `gorm:"size:50;not null"         json:"action"`
	IPAddress  string    `gorm:"size:45"                  json:"ip_address"`
	DeviceInfo string    `gorm:"size:255"                 json:"device_info"`
	Location   string    `gorm:"size:255"                 json:"location"`
	CreatedAt  time.Time `json:"created_at"`
}

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"     json:"id"`
	UID         string    `gorm:"size:64;uniqueIndex;not null" json:"uid"`
	Name        string    `gorm:"not null"                     json:"name"`
	Description string    `gorm:"not null"                     json:"description"`
	ParentID    *uint     `gorm:"index"                        json:"parent_id"`
	Parent      *Category `gorm:"foreignKey:ParentID"          json:"parent,omitempty"`
	CreatedBy   string    `gorm:"size:64;not null"             json:"created_by"`
	UpdatedBy   string    `gorm:"size:64"                      json:"updated_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Brand struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"     json:"id"`
	UID         string    `gorm:"size:64;uniqueIndex;not null" json:"uid"`
	Name        string    `gorm:"not null"                     json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null"         json:"slug"`
	Description string    `json:"description"`
	LogoURL     string    `json:"logo_url"`
	CreatedBy   string    `gorm:"size:64;not null"             json:"created_by"`
	UpdatedBy   string    `gorm:"size:64"                      json:"updated_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
	ProductStatusDraft    = "draft"
)

type Product struct {
	ID               uint             `gorm:"primaryKey;autoIncrement"      json:"id"`
	UID              string           `gorm:"size:64;uniqueIndex;not null"  json:"uid"`
	Name             string           `gorm:"size:255;not null"             json:"name"`
	Slug             string           `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description      string           `gorm:"not null"                      json:"description"`
	ShortDescription string           `gorm:"size:500"                      json:"short_description"`
	Price            float64          `gorm:"not null"                      json:"price"`
	DiscountPrice    *float64         `json:"discount_price"`
	SKU              string           `gorm:"size:100;uniqueIndex;not null" json:"sku"`
	StockQuantity    int              `gorm:"not null"                      json:"stock_quantity"`
	Status           string           `gorm:"size:10;not null;default:active" json:"status"`
	CategoryID       uint             `gorm:"not null"                      json:"category_id"`
	Category         *Category        `gorm:"foreignKey:CategoryID"         json:"category,omitempty"`
	BrandID          uint             `gorm:"not null"                      json:"brand_id"`
	Brand            *Brand           `gorm:"foreignKey:BrandID"            json:"brand,omitempty"`
	Options          []ProductOption  `gorm:"foreignKey:ProductID"          json:"options,omitempty"`
	Variants         []ProductVariant `gorm:"foreignKey:ProductID"          json:"variants,omitempty"`
	Images           []ProductMedia   `gorm:"foreignKey:ProductID"          json:"images,omitempty"`
	CreatedBy        string           `gorm:"size:64;not null"              json:"created_by"`
	UpdatedBy        string           `gorm:"size:64"                       json:"updated_by"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type ProductVariant struct {
	ID            uint                 `gorm:"primaryKey;autoIncrement"      json:"id"`
	UID           string               `gorm:"size:64;uniqueIndex;not null"  json:"uid"`
	ProductID     uint                 `gorm:"index;not null"                json:"product_id"`
	VariantName   string               `gorm:"size:200;not null"             json:"variant_name"`
	SKU           string               `gorm:"size:100;uniqueIndex;not null" json:"sku"`
	Price         float64              `gorm:"not null"                      json:"price"`
	StockQuantity int                  `gorm:"not null"                      json:"stock_quantity"`
	OptionValues  []ProductOptionValue `gorm:"many2many:variant_option_values;joinForeignKey:VariantID;joinReferences:OptionValueID" json:"option_values,omitempty"`
	CreatedBy     string               `gorm:"size:64;not null"              json:"created_by"`
	UpdatedBy     string               `gorm:"size:64"                       json:"updated_by"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type ProductOption struct {
	ID        uint                 `gorm:"primaryKey;autoIncrement"     json:"id"`
	UID       string               `gorm:"size:64;uniqueIndex;not null" json:"uid"`
	ProductID uint                 `gorm:"index;not null"               json:"product_id"`
	Name      string               `gorm:"size:100;not null"            json:"name"`
	Values    []ProductOptionValue `gorm:"foreignKey:OptionID"          json:"values,omitempty"`
	CreatedBy string               `gorm:"size:64;not null"             json:"created_by"`
	UpdatedBy string               `gorm:"size:64"                      json:"updated_by"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

type ProductOptionValue struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"     json:"id"`
	UID       string    `gorm:"size:64;uniqueIndex;not null" json:"uid"`
	OptionID  uint      `gorm:"index;not null"               json:"option_id"`
	Value     string    `gorm:"size:100;not null"            json:"value"`
	CreatedBy string    `gorm:"size:64;not null"             json:"created_by"`
	UpdatedBy string    `gorm:"size:64"                      json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

type ProductMedia struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"     json:"id"`
	UID       string    `gorm:"size:64;uniqueIndex;not null" json:"uid"`
	ProductID uint      `gorm:"index;not null"               json:"product_id"`
	Name      string    `gorm:"not null"                     json:"name"`
	URL       string    `gorm:"not null"                     json:"url"`
	Type      string    `gorm:"size:10;not null"             json:"type"`
	CreatedBy string    `gorm:"size:64;not null"             json:"created_by"`
	UpdatedBy string    `gorm:"size:64"                      json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProductMedia) TableName() string { return "product_media" }

type Banner struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UID         string     `gorm:"size:64;not null"         json:"uid"`
	Title       string     `gorm:"not null"                 json:"title"`
	Description string     `gorm:"not null"                 json:"description"`
	LinkURL     string     `json:"link_url"`
	ImageURL    string     `gorm:"not null"                 json:"image_url"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Discount    *int       `json:"discount"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Wishlist struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"     json:"id"`
	UID       string          `gorm:"size:64;uniqueIndex;not null" json:"uid"`
	UserID    uint            `gorm:"index;not null"               json:"user_id"`
	ProductID uint            `gorm:"not null"                     json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID"         json:"product,omitempty"`
	VariantID *uint           `json:"variant_id"`
	Variant   *ProductVariant `gorm:"foreignKey:VariantID"         json:"variant,omitempty"`
	CreatedBy string          `gorm:"size:64;not null"             json:"created_by"`
	UpdatedBy string          `gorm:"size:64"                      json:"updated_by"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Wishlist) TableName() string { return "wishlists" }
