// Package exports writes the issuance log in formats event organizers can
// hand to their administration.
package exports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"campus-connect/event-portal/event-portal-backend/internal/artifacts"
)

var issuanceColumns = []string{
	"Certificate ID", "Registration ID", "Event ID", "Certificate Type",
	"Participant", "Filename", "Size (bytes)", "Checksum", "Issued At",
}

const issuedAtLayout = "2006-01-02 15:04:05"

func issuanceRow(cert artifacts.Certificate) []string {
	return []string{
		cert.ID.String(),
		cert.RegistrationID.String(),
		cert.EventID.String(),
		cert.CertificateType,
		cert.ParticipantName,
		cert.Filename,
		strconv.FormatInt(cert.FileSize, 10),
		cert.Checksum,
		cert.IssuedAt.Format(issuedAtLayout),
	}
}

// WriteCSV streams the issuance log as CSV.
func WriteCSV(w io.Writer, certs []artifacts.Certificate) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(issuanceColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, cert := range certs {
		if err := writer.Write(issuanceRow(cert)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteExcel writes the issuance log as a styled single-sheet workbook.
func WriteExcel(w io.Writer, certs []artifacts.Certificate) error {
	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Issued Certificates"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, name := range issuanceColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
		if err := file.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i, cert := range certs {
		for col, value := range issuanceRow(cert) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	if len(certs) > 0 {
		last, err := excelize.CoordinatesToCellName(len(issuanceColumns), len(certs)+1)
		if err != nil {
			return err
		}
		if err := file.AutoFilter(sheet, "A1:"+last, nil); err != nil {
			return fmt.Errorf("failed to set auto filter: %w", err)
		}
	}

	return file.Write(w)
}
