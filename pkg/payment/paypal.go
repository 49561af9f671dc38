package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"staynest/pkg/utils"

	"github.com/plutov/paypal/v4"
	"go.uber.org/zap"
)

// OrderRequest describes a one-off CAPTURE order.
type OrderRequest struct {
	ReferenceID string
	Amount      float64
	Currency    string
}

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// Order is the handle a client follows to approve the payment.
type Order struct {
	ID     string
	Status string
	Links  []Link
}

// Capture is the gateway's answer to a capture request.
type Capture struct {
	OrderID     string
	Status      string
	ReferenceID string
}

var ErrNotCompleted = errors.New("payment not completed")

// PayPalGateway talks to the PayPal Orders v2 API.
type PayPalGateway struct {
	client *paypal.Client
	cfg    utils.PayPalConfig
	log    *zap.Logger

	mu     sync.Mutex
	authed bool
}

func NewPayPalGateway(cfg utils.PayPalConfig, log *zap.Logger) (*PayPalGateway, error) {
	base := paypal.APIBaseSandBox
	if cfg.Mode == "live" {
		base = paypal.APIBaseLive
	}

	client, err := paypal.NewClient(cfg.ClientID, cfg.ClientSecret, base)
	if err != nil {
		return nil, fmt.Errorf("create paypal client: %w", err)
	}
	client.SetHTTPClient(&http.Client{Timeout: cfg.Timeout})

	return &PayPalGateway{
		client: client,
		cfg:    cfg,
		log:    log.With(zap.String("gateway", "paypal"), zap.String("mode", cfg.Mode)),
	}, nil
}

// authenticate fetches the first access token. The client refreshes it afterwards.
func (g *PayPalGateway) authenticate(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.authed {
		return nil
	}
	if _, err := g.client.GetAccessToken(ctx); err != nil {
		g.log.Error("Failed to get paypal access token", zap.Error(err))
		return fmt.Errorf("paypal access token: %w", err)
	}
	g.authed = true
	return nil
}

func (g *PayPalGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	if err := g.authenticate(ctx); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = g.cfg.Currency
	}

	units := []paypal.PurchaseUnitRequest{{
		ReferenceID: req.ReferenceID,
		Amount: &paypal.PurchaseUnitAmount{
			Currency: currency,
			Value:    strconv.FormatFloat(req.Amount, 'f', 2, 64),
		},
	}}
	appCtx := &paypal.ApplicationContext{
		BrandName: g.cfg.BrandName,
		ReturnURL: g.cfg.ReturnURL,
		CancelURL: g.cfg.CancelURL,
	}

	order, err := g.client.CreateOrder(ctx, paypal.OrderIntentCapture, units, nil, appCtx)
	if err != nil {
		g.log.Error("Failed to create paypal order",
			zap.Error(err),
			zap.String("reference_id", req.ReferenceID),
		)
		return nil, fmt.Errorf("create paypal order: %w", err)
	}

	links := make([]Link, 0, len(order.Links))
	for _, l := range order.Links {
		links = append(links, Link{Href: l.Href, Rel: l.Rel, Method: l.Method})
	}

	g.log.Info("PayPal order created",
		zap.String("order_id", order.ID),
		zap.String("reference_id", req.ReferenceID),
	)
	return &Order{ID: order.ID, Status: order.Status, Links: links}, nil
}

func (g *PayPalGateway) CaptureOrder(ctx context.Context, orderID string) (*Capture, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	if err := g.authenticate(ctx); err != nil {
		return nil, err
	}

	res, err := g.client.CaptureOrder(ctx, orderID, paypal.CaptureOrderRequest{})
	if err != nil {
		g.log.Error("Failed to capture paypal order",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
		return nil, fmt.Errorf("capture paypal order %s: %w", orderID, err)
	}

	if res.Status != "COMPLETED" {
		g.log.Warn("PayPal capture not completed",
			zap.String("order_id", orderID),
			zap.String("status", res.Status),
		)
		return nil, fmt.Errorf("capture paypal order %s: %w (%s)", orderID, ErrNotCompleted, res.Status)
	}

	capture := &Capture{OrderID: res.ID, Status: res.Status}
	if len(res.PurchaseUnits) > 0 {
		capture.ReferenceID = res.PurchaseUnits[0].ReferenceID
	}
	return capture, nil
}
