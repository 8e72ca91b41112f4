package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"facturation-backend/database"
	"facturation-backend/middlewares"
	"facturation-backend/models"
	"facturation-backend/pricing"
	"facturation-backend/utils"
)

type ProductCreateDTO struct {
	Reference     string          `json:"reference" validate:"required,max=50"`
	Name          string          `json:"name" validate:"required,max=200"`
	Description   string          `json:"description" validate:"max=2000"`
	Unit          string          `json:"unit" validate:"max=20"`
	VATRate       decimal.Decimal `json:"vat_rate"`
	SalePrice     pricing.Entry   `json:"sale_price"`
	PurchasePrice pricing.Entry   `json:"purchase_price"`
	Active        *bool           `json:"active"`
}

type ProductUpdateDTO struct {
	Reference     *string          `json:"reference" validate:"omitempty,min=1,max=50"`
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" validate:"omitempty,max=2000"`
	Unit          *string          `json:"unit" validate:"omitempty,max=20"`
	VATRate       *decimal.Decimal `json:"vat_rate"`
	SalePrice     *pricing.Entry   `json:"sale_price" patch:"-"`
	PurchasePrice *pricing.Entry   `json:"purchase_price" patch:"-"`
	Active        *bool            `json:"active"`
}

// ProductView is a product with both sides of its prices for the current VAT rate.
type ProductView struct {
	models.Product
	SalePrice     pricing.Pair `json:"sale_price"`
	PurchasePrice pricing.Pair `json:"purchase_price"`
}

func productView(p models.Product) (ProductView, error) {
	conv, err := pricing.NewConverter(p.VATRate)
	if err != nil {
		return ProductView{}, err
	}
	return ProductView{
		Product:       p,
		SalePrice:     conv.Display(pricing.Price{HT: p.SalePriceHT}),
		PurchasePrice: conv.Display(pricing.Price{HT: p.PurchasePriceHT}),
	}, nil
}

// resolvePrices turns user entries into the HT values to store.
func resolvePrices(conv pricing.Converter, entries ...pricing.Entry) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(entries))
	for i, e := range entries {
		ht, err := conv.Resolve(e)
		if err != nil {
			return nil, err
		}
		if ht.IsNegative() {
			return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "prices must not be negative")
		}
		out[i] = ht
	}
	return out, nil
}

// POST /api/products
func CreateProduct(c *fiber.Ctx) error {
	var in ProductCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	conv, err := pricing.NewConverter(in.VATRate)
	if err != nil {
		return err
	}
	prices, err := resolvePrices(conv, in.SalePrice, in.PurchasePrice)
	if err != nil {
		return err
	}

	db, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "tenant db unavailable")
	}

	product := models.Product{
		Reference:       in.Reference,
		Name:            in.Name,
		Description:     in.Description,
		Unit:            in.Unit,
		VATRate:         in.VATRate,
		SalePriceHT:     prices[0],
		PurchasePriceHT: prices[1],
		Active:          in.Active == nil || *in.Active,
	}
	if err := db.Create(&product).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create product")
	}

	view, err := productView(product)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// GET /api/products?limit=&offset=&q=
func GetProducts(c *fiber.Ctx) error {
	db, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "tenant db unavailable")
	}

	limit, offset := utils.Page(c.Query("limit"), c.Query("offset"))
	q := db.Model(&models.Product{}).Order("reference").Limit(limit).Offset(offset)
	if term := strings.TrimSpace(c.Query("q")); term != "" {
		like := "%" + term + "%"
		q = q.Where("reference ILIKE ? OR name ILIKE ?", like, like)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		v, err := productView(p)
		if err != nil {
			return err
		}
		views = append(views, v)
	}
	return c.JSON(fiber.Map{
		"products": views,
		"message":  "success",
	})
}

func findProduct(db *gorm.DB, id string) (models.Product, error) {
	var p models.Product
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return p, fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return p, fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	return p, nil
}

// GET /api/products/:id
func GetProduct(c *fiber.Ctx) error {
	db, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "tenant db unavailable")
	}
	p, err := findProduct(db, c.Params("id"))
	if err != nil {
		return err
	}
	view, err := productView(p)
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// PUT /api/products/:id
//
// A VAT change keeps the stored HT prices; their TTC side is derived again on read.
func UpdateProduct(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing product id in path")
	}

	var in ProductUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	db, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "tenant db unavailable")
	}
	existing, err := findProduct(db, id)
	if err != nil {
		return err
	}

	rate := existing.VATRate
	if in.VATRate != nil {
		rate = *in.VATRate
	}
	conv, err := pricing.NewConverter(rate)
	if err != nil {
		return err
	}

	updates := utils.UpdatesFromPtrDTO(&in, nil)
	for col, entry := range map[string]*pricing.Entry{"sale_price_ht": in.SalePrice, "purchase_price_ht": in.PurchasePrice} {
		if entry == nil {
			continue
		}
		prices, err := resolvePrices(conv, *entry)
		if err != nil {
			return err
		}
		updates[col] = prices[0]
	}

	if len(updates) > 0 {
		if err := db.Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not update product")
		}
	}

	out, err := findProduct(db, id)
	if err != nil {
		return err
	}
	view, err := productView(out)
	if err != nil {
		return err
	}
	return c.JSON(view)
}
