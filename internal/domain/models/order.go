package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CounterpartyKind tells client orders from supplier orders.
type CounterpartyKind string

const (
	KindClient   CounterpartyKind = "client"
	KindSupplier CounterpartyKind = "supplier"
)

// Code is the letter embedded in order ids (CMD-C-1, CMD-F-1).
func (k CounterpartyKind) Code() string {
	if k == KindSupplier {
		return "F"
	}
	return "C"
}

// Label is the French document title word for the counterparty.
func (k CounterpartyKind) Label() string {
	if k == KindSupplier {
		return "Fournisseur"
	}
	return "Client"
}

// OrderID formats the n-th order id of this kind.
func (k CounterpartyKind) OrderID(n int) string {
	return fmt.Sprintf("CMD-%s-%d", k.Code(), n)
}

// ParseCounterpartyKind accepts the singular/plural English and French route names.
func ParseCounterpartyKind(value string) (CounterpartyKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "client", "clients":
		return KindClient, nil
	case "supplier", "suppliers", "fournisseur", "fournisseurs":
		return KindSupplier, nil
	}
	return "", fmt.Errorf("unknown counterparty kind %q", value)
}

// OrderStatus is derived once, when the order is saved.
type OrderStatus string

const (
	StatusInProgress OrderStatus = "En cours"
	StatusDelivered  OrderStatus = "Livrée"
)

// StatusFor returns Livrée when delivery is on or before today.
func StatusFor(delivery, today Date) OrderStatus {
	if !delivery.After(today) {
		return StatusDelivered
	}
	return StatusInProgress
}

// PaymentMode lists the accepted payment methods.
type PaymentMode string

const (
	PaymentCash     PaymentMode = "Espèces"
	PaymentTransfer PaymentMode = "Virement"
	PaymentCheque   PaymentMode = "Chèque"
	PaymentCard     PaymentMode = "Carte bancaire"
)

// PaymentModes is the ordered choice list of the order form.
var PaymentModes = []PaymentMode{PaymentCash, PaymentTransfer, PaymentCheque, PaymentCard}

// Valid reports whether m is one of PaymentModes.
func (m PaymentMode) Valid() bool {
	for _, mode := range PaymentModes {
		if m == mode {
			return true
		}
	}
	return false
}

// Order is a client or supplier order. ID is assigned at creation and never changes.
type Order struct {
	Ref                string           `json:"ref"`
	ID                 string           `json:"id"`
	Kind               CounterpartyKind `json:"kind"`
	Counterparty       string           `json:"counterparty"`
	Email              string           `json:"email"`
	Phone              string           `json:"phone"`
	Product            string           `json:"product"`
	OrderDate          Date             `json:"order_date"`
	DeliveryDate       Date             `json:"delivery_date"`
	PriceBeforeTax     decimal.Decimal  `json:"price_before_tax"`
	VATPct             decimal.Decimal  `json:"vat_pct"`
	DiscountPct        decimal.Decimal  `json:"discount_pct"`
	PriceAfterDiscount decimal.Decimal  `json:"price_after_discount"`
	PriceAfterTax      decimal.Decimal  `json:"price_after_tax"`
	Advance            decimal.Decimal  `json:"advance"`
	RemainingBalance   decimal.Decimal  `json:"remaining_balance"`
	PaymentMode        PaymentMode      `json:"payment_mode"`
	Status             OrderStatus      `json:"status"`
	Quantity           int              `json:"quantity"`
}

// OrderInput is the order form. Amounts are raw text as typed by the user.
type OrderInput struct {
	Counterparty   string      `json:"counterparty"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	Product        string      `json:"product"`
	OrderDate      Date        `json:"order_date"`
	DeliveryDate   Date        `json:"delivery_date"`
	PriceBeforeTax string      `json:"price_before_tax"`
	VATPct         string      `json:"vat_pct"`
	DiscountPct    string      `json:"discount_pct"`
	Advance        string      `json:"advance"`
	PaymentMode    PaymentMode `json:"payment_mode"`
	Quantity       int         `json:"quantity"`
}
