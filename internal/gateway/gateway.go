package gateway

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Charger charges a stored payment-method token and returns an authorization
// reference. Used by the auto-payment path.
type Charger interface {
	Charge(token string, amount decimal.Decimal) (string, error)
}

// SimulatedGateway is a stand-in payment gateway. Tokens prefixed with
// "declined" are rejected, empty tokens mean no stored method; everything
// else authorizes and returns a reference.
type SimulatedGateway struct {
	log *logrus.Logger
}

// NewSimulatedGateway creates a simulated gateway.
func NewSimulatedGateway(log *logrus.Logger) *SimulatedGateway {
	return &SimulatedGateway{log: log}
}

// Charge simulates charging the stored token.
func (g *SimulatedGateway) Charge(token string, amount decimal.Decimal) (string, error) {
	if token == "" {
		return "", fmt.Errorf("no payment method on file")
	}
	if strings.HasPrefix(token, "declined") {
		return "", fmt.Errorf("charge declined by issuer")
	}
	ref := "auth_" + uuid.NewString()
	g.log.Infof("Simulated charge of %s against token %s: %s", amount.StringFixed(2), token, ref)
	return ref, nil
}
