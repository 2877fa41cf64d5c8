package mercadopago

import (
	"context"
	"errors"
	"strings"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/shopspring/decimal"

	"github.com/fedegimenez/amaro-backend/pkg/config"
	pkgerrors "github.com/fedegimenez/amaro-backend/pkg/errors"
	"github.com/fedegimenez/amaro-backend/pkg/logger"
)

var (
	errAccessTokenRequired = errors.New("mercadopago access token is required")
	errLoggerRequired      = errors.New("mercadopago logger is required")
)

// PreferenceItem is one checkout line sent to the gateway.
type PreferenceItem struct {
	ID        string
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
}

// PreferenceInput describes the hosted checkout session to create.
type PreferenceInput struct {
	Items             []PreferenceItem
	ExternalReference string
	SuccessURL        string
	FailureURL        string
	PendingURL        string
	NotificationURL   string
	PayerEmail        string
}

// Preference is the gateway-side checkout session.
type Preference struct {
	ID        string
	InitPoint string
}

// PreferenceCreator is the surface payment services depend on.
type PreferenceCreator interface {
	CreatePreference(ctx context.Context, input PreferenceInput) (*Preference, error)
}

// Client exposes MercadoPago primitives with centralized auth, logging, and
// error mapping.
type Client struct {
	preferences preference.Client
	currencyID  string
	logger      *logger.Logger
}

// NewClient initializes the MercadoPago wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.MercadoPagoConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	accessToken := strings.TrimSpace(cfg.AccessToken)
	if accessToken == "" {
		return nil, errAccessTokenRequired
	}

	sdkCfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "initialize mercadopago sdk")
	}

	c := &Client{
		preferences: preference.NewClient(sdkCfg),
		currencyID:  cfg.CurrencyID,
		logger:      logg,
	}

	logg.Info(ctx, "mercadopago client initialized")
	return c, nil
}

// CreatePreference creates a hosted checkout preference for the given lines.
func (c *Client) CreatePreference(ctx context.Context, input PreferenceInput) (*Preference, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "preference requires at least one item")
	}

	items := make([]preference.ItemRequest, 0, len(input.Items))
	for _, item := range input.Items {
		price, _ := item.UnitPrice.Float64()
		items = append(items, preference.ItemRequest{
			ID:         item.ID,
			Title:      item.Title,
			Quantity:   item.Quantity,
			UnitPrice:  price,
			CurrencyID: c.currencyID,
		})
	}

	req := preference.Request{
		Items:             items,
		ExternalReference: input.ExternalReference,
		NotificationURL:   input.NotificationURL,
		BackURLs: &preference.BackURLsRequest{
			Success: input.SuccessURL,
			Failure: input.FailureURL,
			Pending: input.PendingURL,
		},
		AutoReturn: "approved",
	}
	if input.PayerEmail != "" {
		req.Payer = &preference.PayerRequest{Email: input.PayerEmail}
	}

	resp, err := c.preferences.Create(ctx, req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create mercadopago preference")
	}

	ctx = c.logger.WithField(ctx, "preference_id", resp.ID)
	c.logger.Info(ctx, "mercadopago preference created")

	return &Preference{
		ID:        resp.ID,
		InitPoint: resp.InitPoint,
	}, nil
}
