package httpx

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jcmexdev/osouk/internal/core/domain/entity"
	"github.com/jcmexdev/osouk/internal/core/service"
)

// priceField tolerates the two shapes the storefront sends for money:
// a JSON number (25) or a string ("12,50" from a form input). The raw text
// is kept as-is; parsing and comma normalization happen in the service's
// price helpers.
type priceField string

func (f *priceField) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = priceField(s)
		return nil
	}
	*f = priceField(b)
	return nil
}

type ProductRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       priceField `json:"price"`
	Category    string     `json:"category"`
	Image       string     `json:"image"`
	InStock     *bool      `json:"in_stock"`
	PromoPrice  priceField `json:"promo_price"`
}

// toInput validates the request into the typed command the service expects.
// Only the price can fail; a missing in_stock defaults to true and a bad
// promo price normalizes to nil, matching the storefront's semantics.
func (r ProductRequest) toInput() (service.ProductInput, error) {
	price, err := service.ParsePrice(string(r.Price))
	if err != nil {
		return service.ProductInput{}, err
	}

	inStock := true
	if r.InStock != nil {
		inStock = *r.InStock
	}

	return service.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       price,
		Category:    r.Category,
		Image:       r.Image,
		InStock:     inStock,
		PromoPrice:  service.ParseOptionalPrice(string(r.PromoPrice)),
	}, nil
}

type OrderRequest struct {
	CustomerName  string             `json:"customer_name"`
	Email         string             `json:"email"`
	Phone         string             `json:"phone"`
	Address       string             `json:"address"`
	City          string             `json:"city"`
	Total         priceField         `json:"total"`
	Items         []entity.OrderItem `json:"items"`
	PaymentMethod string             `json:"payment_method"`
}

var errMissingField = errors.New("missing required field")

func (r OrderRequest) toInput() (service.OrderInput, error) {
	required := map[string]string{
		"customer_name":  r.CustomerName,
		"phone":          r.Phone,
		"address":        r.Address,
		"city":           r.City,
		"payment_method": r.PaymentMethod,
	}
	for field, value := range required {
		if value == "" {
			return service.OrderInput{}, fmt.Errorf("%w: %s", errMissingField, field)
		}
	}
	if len(r.Items) == 0 {
		return service.OrderInput{}, fmt.Errorf("%w: items", errMissingField)
	}

	total, err := service.ParsePrice(string(r.Total))
	if err != nil {
		return service.OrderInput{}, err
	}

	return service.OrderInput{
		CustomerName:  r.CustomerName,
		Email:         r.Email,
		Phone:         r.Phone,
		Address:       r.Address,
		City:          r.City,
		Total:         total,
		Items:         r.Items,
		PaymentMethod: r.PaymentMethod,
	}, nil
}

type HealthResponse struct {
	Status  string `json:"status"`
	DBReady bool   `json:"dbReady"`
}

// ProductResponse is the write-endpoint envelope. Persisted is omitted on a
// durable write and false when the write only reached the fallback mirror.
type ProductResponse struct {
	Success   bool           `json:"success"`
	Product   entity.Product `json:"product"`
	Persisted *bool          `json:"persisted,omitempty"`
}

type DeleteResponse struct {
	Success   bool  `json:"success"`
	Persisted *bool `json:"persisted,omitempty"`
}

type OrderCreatedResponse struct {
	Success bool  `json:"success"`
	OrderID int64 `json:"orderId"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
