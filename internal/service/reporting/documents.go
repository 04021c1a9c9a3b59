package reporting

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/mamadbah2/oliveraq/internal/domain/models"
	"github.com/mamadbah2/oliveraq/internal/export"
)

const currency = "DT"

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// StockReportColumns is the header of the monthly stock table.
var StockReportColumns = []string{"ID", "Identifiant", "Date", "Type", "Qte Matière", "Qte Produite", "Rendement", "Lot", "Qualité"}

// AttestationDocument is the work certificate of e, dated today.
func (s *Service) AttestationDocument(e models.Employee) export.Document {
	today := s.calendar.Today()
	return export.Document{
		Title: "ATTESTATION DE TRAVAIL",
		Sections: []export.Section{{
			Paragraphs: []string{
				fmt.Sprintf("Je soussigné(e), représentant(e) de la société %s,", s.business.Name),
				fmt.Sprintf("Certifie que %s occupe le poste de %s au sein de notre établissement depuis le %s.",
					e.FullName(), e.Position, e.HireDate),
				"Cette attestation est délivrée à l'intéressé(e) pour servir et valoir ce que de droit.",
				fmt.Sprintf("Fait à %s, le %s", s.business.City, today),
			},
		}},
		Footer: []string{"La Direction"},
	}
}

// InvoiceDocument is the invoice of order o.
func (s *Service) InvoiceDocument(o models.Order) export.Document {
	title := "FACTURE CLIENT"
	if o.Kind == models.KindSupplier {
		title = "FACTURE FOURNISSEUR"
	}

	return export.Document{
		Title:    title,
		Subtitle: s.business.Name,
		Sections: []export.Section{
			{Fields: []export.Field{
				{Label: "Date", Value: s.calendar.Today().String()},
				{Label: "ID Commande", Value: o.ID},
			}},
			{Fields: []export.Field{
				{Label: o.Kind.Label(), Value: o.Counterparty},
				{Label: "Email", Value: o.Email},
				{Label: "Téléphone", Value: o.Phone},
				{Label: "Produit", Value: o.Product},
				{Label: "Quantité", Value: strconv.Itoa(o.Quantity)},
				{Label: "Date commande", Value: o.OrderDate.String()},
				{Label: "Date livraison", Value: o.DeliveryDate.String()},
				{Label: "Prix HT", Value: money(o.PriceBeforeTax.StringFixed(2))},
				{Label: "Remise", Value: o.DiscountPct.String() + "%"},
				{Label: "Prix après remise", Value: money(o.PriceAfterDiscount.StringFixed(2))},
				{Label: "TVA", Value: o.VATPct.String() + "%"},
				{Label: "Prix TTC", Value: money(o.PriceAfterTax.StringFixed(2))},
				{Label: "Avance", Value: money(o.Advance.StringFixed(2))},
				{Label: "Reste à payer", Value: money(o.RemainingBalance.StringFixed(2))},
				{Label: "Mode de paiement", Value: string(o.PaymentMode)},
				{Label: "Statut", Value: string(o.Status)},
			}},
		},
	}
}

// StockReportDocument lays out a monthly stock report.
func (s *Service) StockReportDocument(r models.MonthlyStockReport) export.Document {
	rows := make([][]string, 0, len(r.Batches))
	for _, b := range r.Batches {
		rows = append(rows, stockRow(b))
	}

	summary := make([]string, 0, len(r.ByType))
	for _, v := range r.ByType {
		summary = append(summary, fmt.Sprintf("%s : %.2f L (%.2f%%)", v.Type, v.Litres, v.Percent))
	}

	return export.Document{
		Title:    "État de Stock - " + monthLabel(r.Start),
		Subtitle: s.business.Name,
		Sections: []export.Section{
			{Fields: []export.Field{
				{Label: "Période", Value: fmt.Sprintf("%s - %s", r.Start, r.End)},
				{Label: "Total quantité produite", Value: fmt.Sprintf("%.2f L", r.TotalProducedL)},
			}},
			{Table: &export.Table{Columns: StockReportColumns, Rows: rows}},
			{Heading: "Résumé par type de produit", Paragraphs: summary},
		},
	}
}

// AttestationFileName follows the Attestation_<nom>_<prenom>.pdf pattern.
func AttestationFileName(e models.Employee) string {
	return fmt.Sprintf("Attestation_%s_%s.pdf", safeName(e.LastName), safeName(e.FirstName))
}

// InvoiceFileName follows the Facture_<Client|Fournisseur>_<nom>.pdf pattern.
func InvoiceFileName(o models.Order) string {
	return fmt.Sprintf("Facture_%s_%s.pdf", o.Kind.Label(), safeName(o.Counterparty))
}

// StockReportFileName follows the Etat_Stock_<yyyy>_<mm> pattern.
func StockReportFileName(r models.MonthlyStockReport, format export.Format) string {
	return fmt.Sprintf("Etat_Stock_%d_%02d.%s", r.Start.Year(), int(r.Start.Month()), format)
}

func stockRow(b models.ProductionBatch) []string {
	return []string{
		strconv.Itoa(b.ID),
		b.Identifier,
		b.ProductionDate.String(),
		string(b.Type),
		b.RawText(),
		b.ProducedText(),
		b.YieldText(),
		b.Lot,
		b.QualityText(),
	}
}

func monthLabel(d models.Date) string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s %d", frenchMonths[d.Month()-1], d.Year())
}

func money(amount string) string { return amount + " " + currency }

// safeName keeps letters and digits so a name cannot escape the export directory.
func safeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "sans_nom"
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, name)
}
