package invoices

import (
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fedegimenez/amaro-backend/pkg/db/models"
	"github.com/fedegimenez/amaro-backend/pkg/enums"
)

//go:embed invoice.html.tmpl
var invoiceTemplate string

var tmpl = template.Must(template.New("invoice").Parse(invoiceTemplate))

type lineView struct {
	Name      string
	Variant   string
	Quantity  int
	UnitPrice string
	Total     string
}

type invoiceView struct {
	OrderNumber     string
	Date            string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerDNI     string
	ShippingMethod  string
	ShippingAddress string
	PaymentMethod   string
	Lines           []lineView
	Subtotal        string
	ShippingCost    string
	Total           string
}

// Render produces the HTML invoice for an order. The output is a pure
// function of the order row, so re-rendering the same order always yields
// identical bytes.
func Render(order *models.Order) ([]byte, error) {
	if order == nil {
		return nil, fmt.Errorf("order required")
	}

	view := invoiceView{
		OrderNumber:    order.OrderNumber,
		Date:           order.CreatedAt.UTC().Format("02/01/2006"),
		CustomerName:   order.CustomerName,
		CustomerEmail:  order.CustomerEmail,
		CustomerPhone:  order.CustomerPhone,
		ShippingMethod: shippingLabel(order.ShippingMethod),
		PaymentMethod:  paymentLabel(order.PaymentMethod),
		ShippingCost:   order.ShippingCost.StringFixed(2),
		Total:          order.TotalAmount.StringFixed(2),
	}
	if order.CustomerDNI != nil {
		view.CustomerDNI = *order.CustomerDNI
	}
	if order.ShippingAddress != nil {
		view.ShippingAddress = *order.ShippingAddress
	}

	subtotal := decimal.Zero
	for _, item := range order.Items {
		subtotal = subtotal.Add(item.Total)
		view.Lines = append(view.Lines, lineView{
			Name:      item.ProductName,
			Variant:   variantLabel(item.Color, item.Size),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Total:     item.Total.StringFixed(2),
		})
	}
	view.Subtotal = subtotal.StringFixed(2)

	var buf strings.Builder
	if err := tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", order.OrderNumber, err)
	}
	return []byte(buf.String()), nil
}

func variantLabel(color, size *string) string {
	parts := make([]string, 0, 2)
	if color != nil && *color != "" {
		parts = append(parts, *color)
	}
	if size != nil && *size != "" {
		parts = append(parts, "Talle "+*size)
	}
	return strings.Join(parts, " / ")
}

func shippingLabel(method enums.ShippingMethod) string {
	if method == enums.ShippingMethodDelivery {
		return "Envío a domicilio"
	}
	return "Retiro en local"
}

func paymentLabel(method enums.PaymentMethod) string {
	switch method {
	case enums.PaymentMethodCash:
		return "Efectivo"
	case enums.PaymentMethodTransfer:
		return "Transferencia bancaria"
	case enums.PaymentMethodMercadoPago:
		return "MercadoPago"
	default:
		return method.String()
	}
}
