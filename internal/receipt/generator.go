package receipt

import (
	"bytes"
	"fmt"

	"kloudcart/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
)

// Generator renders an order snapshot into a PDF receipt document.
type Generator interface {
	Generate(snapshot model.OrderSnapshot) ([]byte, error)
}

// pdfGenerator implements Generator using fpdf. Core fonts only, so
// currency amounts are labelled "Rs." rather than using the rupee glyph.
type pdfGenerator struct {
	logger zerolog.Logger
}

// NewPDFGenerator creates a PDF receipt generator.
func NewPDFGenerator(logger zerolog.Logger) Generator {
	return &pdfGenerator{
		logger: logger.With().Str("component", "receipt-generator").Logger(),
	}
}

// Column widths for the item table, in millimetres.
var itemColWidths = [6]float64{10, 60, 35, 15, 35, 35}

var itemHeader = [6]string{"#", "Product Name", "Category", "Qty", "Unit Price (Rs.)", "Subtotal (Rs.)"}

// Generate renders the snapshot. An empty item list produces a table with
// only the header row.
func (g *pdfGenerator) Generate(snapshot model.OrderSnapshot) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("KloudCart Receipt", false)
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(0, 0, 128)
	pdf.CellFormat(0, 12, "KloudCart Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// Company block
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 6, "KloudCart E-Commerce", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Your Trusted Online Shopping Partner", "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Email: support@kloudcart.com", "", 1, "L", false, 0, "")
	pdf.Ln(8)

	// Order metadata
	meta := [][2]string{
		{"Order ID:", snapshot.OrderID.String()},
		{"Customer:", snapshot.UserEmail},
		{"Order Date:", snapshot.CreatedAt.Format("January 2, 2006 at 3:04 PM")},
	}
	for _, row := range meta {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 6, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	// Item table header
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range itemHeader {
		pdf.CellFormat(itemColWidths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// Item rows
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for i, item := range snapshot.Items {
		category := item.Category
		if category == "" {
			category = "N/A"
		}

		fill := i%2 == 1
		pdf.SetFillColor(211, 211, 211)
		cells := [6]string{
			fmt.Sprintf("%d", i+1),
			item.Name,
			category,
			fmt.Sprintf("%d", item.Quantity),
			fmt.Sprintf("%.2f", item.Price),
			fmt.Sprintf("%.2f", item.Subtotal),
		}
		for j, cell := range cells {
			pdf.CellFormat(itemColWidths[j], 7, cell, "1", 0, "C", fill, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(8)

	// Total row, aligned under the last two columns
	indent := itemColWidths[0] + itemColWidths[1] + itemColWidths[2] + itemColWidths[3]
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(173, 216, 230)
	pdf.SetTextColor(0, 0, 128)
	pdf.CellFormat(indent, 9, "", "", 0, "", false, 0, "")
	pdf.CellFormat(itemColWidths[4], 9, "Total Amount:", "1", 0, "R", true, 0, "")
	pdf.CellFormat(itemColWidths[5], 9, fmt.Sprintf("Rs. %.2f", snapshot.Total), "1", 1, "R", true, 0, "")
	pdf.Ln(12)

	// Footer
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 5, "Thank you for shopping with KloudCart!", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "This is a computer-generated receipt.", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "For support, contact us at support@kloudcart.com", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		g.logger.Error().Err(err).
			Str("order_id", snapshot.OrderID.String()).
			Msg("failed to render receipt PDF")
		return nil, fmt.Errorf("failed to render receipt PDF: %w", err)
	}

	g.logger.Debug().
		Str("order_id", snapshot.OrderID.String()).
		Int("bytes", buf.Len()).
		Int("items", len(snapshot.Items)).
		Msg("receipt PDF rendered")

	return buf.Bytes(), nil
}
