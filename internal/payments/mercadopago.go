package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"

	"github.com/carosellagiuliano-max/salon-scheduler/internal/models"
)

// Charger collects deposits and no-show charges through Mercado Pago.
// Charges are one-shot: a failure is reported back and never retried here.
type Charger struct {
	client payment.Client
}

func NewCharger(accessToken string) (*Charger, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("payments: %w", err)
	}
	return &Charger{client: payment.NewClient(cfg)}, nil
}

func (c *Charger) ChargeDeposit(ctx context.Context, ap *models.Appointment, amountChf float64) (string, error) {
	return c.charge(ctx, ap, amountChf, fmt.Sprintf("Deposit for appointment %d", ap.ID))
}

func (c *Charger) ChargeNoShow(ctx context.Context, ap *models.Appointment, amountChf float64) (string, error) {
	return c.charge(ctx, ap, amountChf, fmt.Sprintf("No-show charge for appointment %d", ap.ID))
}

// Disabled stands in when no gateway credentials are configured. Charges
// report failure so deposits stay in the pending sub-state instead of being
// silently waved through.
type Disabled struct{}

var ErrDisabled = errors.New("payments: gateway not configured")

func (Disabled) ChargeDeposit(context.Context, *models.Appointment, float64) (string, error) {
	return "", ErrDisabled
}

func (Disabled) ChargeNoShow(context.Context, *models.Appointment, float64) (string, error) {
	return "", ErrDisabled
}

func (c *Charger) charge(ctx context.Context, ap *models.Appointment, amountChf float64, description string) (string, error) {
	req := payment.Request{
		TransactionAmount: amountChf,
		Description:       description,
		ExternalReference: strconv.FormatUint(uint64(ap.ID), 10),
	}

	res, err := c.client.Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("payments: charge appointment %d: %w", ap.ID, err)
	}
	return strconv.Itoa(res.ID), nil
}
