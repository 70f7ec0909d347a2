package domain

import "github.com/shopspring/decimal"

// StockStatus отражает складской статус товара. На расчёты не влияет,
// используется только для сообщений в интерфейсе.
type StockStatus string

const (
	StockStatusInStock     StockStatus = "instock"
	StockStatusOutOfStock  StockStatus = "outofstock"
	StockStatusOnBackorder StockStatus = "onbackorder"
)

// CartItem: одна строка корзины.
type CartItem struct {
	// ID строки выдаётся при добавлении и не совпадает с ProductID.
	ID int64 `json:"id"`
	// ProductID: идентификатор товара в каталоге.
	ProductID int64 `json:"product_id"`
	// VariationID: вариант товара (размер/цвет), nil если вариантов нет.
	VariationID *int64          `json:"variation_id,omitempty"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	// SalePrice: цена со скидкой; если задана, считается эффективной ценой.
	SalePrice  *decimal.Decimal  `json:"sale_price,omitempty"`
	Quantity   int               `json:"quantity"`
	Image      string            `json:"image,omitempty"`
	SKU        string            `json:"sku,omitempty"`
	Team       string            `json:"team,omitempty"`
	Category   string            `json:"category,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	// MaxQuantity: верхняя граница количества, проверяется при изменениях.
	MaxQuantity *int        `json:"max_quantity,omitempty"`
	StockStatus StockStatus `json:"stock_status,omitempty"`
}

// EffectivePrice возвращает цену за единицу, по которой считается подытог.
func (i CartItem) EffectivePrice() decimal.Decimal {
	if i.SalePrice != nil {
		return *i.SalePrice
	}
	return i.Price
}

// LineTotal возвращает стоимость строки: эффективная цена * количество.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SameLine сообщает, описывают ли две позиции одну строку корзины.
func (i CartItem) SameLine(productID int64, variationID *int64) bool {
	return i.ProductID == productID && sameVariation(i.VariationID, variationID)
}

func sameVariation(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Clone возвращает копию позиции без общих указателей и map.
func (i CartItem) Clone() CartItem {
	out := i
	if i.VariationID != nil {
		v := *i.VariationID
		out.VariationID = &v
	}
	if i.SalePrice != nil {
		p := *i.SalePrice
		out.SalePrice = &p
	}
	if i.MaxQuantity != nil {
		m := *i.MaxQuantity
		out.MaxQuantity = &m
	}
	if i.Attributes != nil {
		out.Attributes = make(map[string]string, len(i.Attributes))
		for k, v := range i.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}

// CartItemInput: товар, который каталог передаёт в корзину.
// ID здесь: идентификатор товара, он становится ProductID строки.
type CartItemInput struct {
	ID          int64
	VariationID *int64
	Name        string
	Price       decimal.Decimal
	SalePrice   *decimal.Decimal
	Image       string
	SKU         string
	Team        string
	Category    string
	Attributes  map[string]string
	MaxQuantity *int
	StockStatus StockStatus
}

// Address: почтовый адрес доставки.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company,omitempty"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Phone     string `json:"phone,omitempty"`
}

// BillingInfo: платёжный адрес, дополнительно содержит email.
type BillingInfo struct {
	Address
	Email string `json:"email"`
}

// DiscountType определяет способ расчёта скидки по купону.
type DiscountType string

const (
	// DiscountFixedCart: фиксированная сумма на всю корзину.
	DiscountFixedCart DiscountType = "fixed_cart"
	// DiscountPercent: процент от подытога.
	DiscountPercent DiscountType = "percent"
)

// Coupon: применённый купон. Amount хранится строкой, как отдаёт платформа.
type Coupon struct {
	Code         string       `json:"code,omitempty"`
	DiscountType DiscountType `json:"discount_type"`
	Amount       string       `json:"amount"`
}

// ShippingMethod описывает выбранный способ доставки. Total содержит фиксированную ставку строкой.
type ShippingMethod struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
	Total string `json:"total"`
}

// CartSnapshot: сохраняемая часть состояния корзины.
// Флаг открытия, купон и способ доставки сюда не входят.
type CartSnapshot struct {
	Items         []CartItem   `json:"items"`
	Shipping      *Address     `json:"shipping"`
	Billing       *BillingInfo `json:"billing"`
	PaymentMethod string       `json:"paymentMethod"`
	CustomerNote  string       `json:"customerNote"`
}

// Totals: набор производных сумм корзины.
type Totals struct {
	Items    int             `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}
