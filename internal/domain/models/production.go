package models

import (
	"strconv"
	"strings"
)

// ProductType is the category of a production batch.
type ProductType string

const (
	TypeOliveOil     ProductType = "Huile d'olive"
	TypeVegetableOil ProductType = "Huile végétale"
	TypeOlive        ProductType = "Olive"
)

// ProductTypes is the ordered choice list of the production form.
var ProductTypes = []ProductType{TypeOliveOil, TypeVegetableOil, TypeOlive}

// HasOutput is false for raw olives: no produced quantity, yield or quality.
func (t ProductType) HasOutput() bool { return t != TypeOlive }

// Category folds free-form type names onto the known statistics categories.
func (t ProductType) Category() string {
	lower := strings.ToLower(string(t))
	switch {
	case strings.Contains(lower, "huile d'olive"):
		return string(TypeOliveOil)
	case strings.Contains(lower, "huile végétale"), strings.Contains(lower, "huile vegetale"):
		return string(TypeVegetableOil)
	case strings.Contains(lower, "olive"):
		return string(TypeOlive)
	}
	return string(t)
}

// Quality grades an oil batch.
type Quality string

const (
	QualityVirgin      Quality = "Huile vierge"
	QualityExtraVirgin Quality = "Huile extra vierge"
)

// Qualities is the ordered choice list of the quality selector.
var Qualities = []Quality{QualityVirgin, QualityExtraVirgin}

// Placeholder is rendered in place of fields that do not apply to a type.
const Placeholder = "-"

// ProductionBatch is one row of the production table. ID is the dense 1..N row number.
type ProductionBatch struct {
	Ref              string      `json:"ref"`
	ID               int         `json:"id"`
	Identifier       string      `json:"identifier"`
	ProductionDate   Date        `json:"production_date"`
	Type             ProductType `json:"type"`
	RawQuantityKg    float64     `json:"raw_quantity_kg"`
	ProducedQuantity float64     `json:"produced_quantity_l,omitempty"`
	Yield            float64     `json:"yield,omitempty"`
	Lot              string      `json:"lot"`
	Quality          Quality     `json:"quality,omitempty"`
	ExpirationDate   Date        `json:"expiration_date"`
}

// ProducedText renders the produced litres, or "-" for olives.
func (b ProductionBatch) ProducedText() string {
	if !b.Type.HasOutput() {
		return Placeholder
	}
	return formatQuantity(b.ProducedQuantity)
}

// RawText renders the raw material kilograms.
func (b ProductionBatch) RawText() string { return formatQuantity(b.RawQuantityKg) }

// YieldText renders the yield with two decimals, or "-" for olives.
func (b ProductionBatch) YieldText() string {
	if !b.Type.HasOutput() {
		return Placeholder
	}
	return strconv.FormatFloat(b.Yield, 'f', 2, 64)
}

// QualityText renders the grade, or "-" for olives.
func (b ProductionBatch) QualityText() string {
	if !b.Type.HasOutput() || b.Quality == "" {
		return Placeholder
	}
	return string(b.Quality)
}

// BatchInput is the production form. Quantities are raw text as typed by the user.
type BatchInput struct {
	Identifier       string      `json:"identifier"`
	ProductionDate   Date        `json:"production_date"`
	Type             ProductType `json:"type"`
	RawQuantity      string      `json:"raw_quantity_kg"`
	ProducedQuantity string      `json:"produced_quantity_l"`
	Yield            string      `json:"yield"`
	Lot              string      `json:"lot"`
	Quality          Quality     `json:"quality"`
	ExpirationDate   Date        `json:"expiration_date"`
}

func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
