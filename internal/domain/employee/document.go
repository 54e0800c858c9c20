package employee

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// RenderDocument renders the printable details sheet for one record.
func RenderDocument(e Employee) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Employee "+e.ID), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(e.FullName()))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, tr(e.ID))
	pdf.Ln(10)

	sections := []struct {
		title string
		rows  [][2]string
	}{
		{"Personal", [][2]string{
			{"First name", e.FirstName},
			{"Surname", e.Surname},
			{"Date of birth", e.DateOfBirth},
			{"Gender", e.Gender},
		}},
		{"Job", [][2]string{
			{"Position", e.Position},
			{"Department", e.Department},
			{"Salary", fmt.Sprintf("%.2f", e.Salary)},
			{"Start date", e.StartDate},
		}},
		{"Contact", [][2]string{
			{"Email", e.Email},
			{"Phone number", e.PhoneNumber},
			{"Address", e.Address},
			{"Emergency contact", e.EmergencyContactName},
			{"Emergency phone", e.EmergencyContactPhone},
		}},
	}
	for _, section := range sections {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, section.title)
		pdf.Ln(8)
		for _, row := range section.rows {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.Cell(50, 7, row[0]+":")
			pdf.SetFont("Helvetica", "", 11)
			pdf.Cell(0, 7, tr(row[1]))
			pdf.Ln(7)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	return buf.Bytes(), nil
}
