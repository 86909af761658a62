package exports

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"campus-connect/event-portal/event-portal-backend/internal/artifacts"
)

func sampleCertificates() []artifacts.Certificate {
	return []artifacts.Certificate{
		{
			ID:              uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			RegistrationID:  uuid.MustParse("22222222-2222-2222-2222-222222222222"),
			EventID:         uuid.MustParse("33333333-3333-3333-3333-333333333333"),
			CertificateType: "participation",
			ParticipantName: "Asha Verma",
			Filename:        "participation_Tech_Symposium_Asha_Verma.pdf",
			FileSize:        48213,
			Checksum:        "deadbeef",
			IssuedAt:        time.Date(2025, 3, 5, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:              uuid.MustParse("44444444-4444-4444-4444-444444444444"),
			RegistrationID:  uuid.MustParse("55555555-5555-5555-5555-555555555555"),
			EventID:         uuid.MustParse("33333333-3333-3333-3333-333333333333"),
			CertificateType: "winner",
			ParticipantName: "Rohan Iyer",
			Filename:        "winner_Tech_Symposium_Rohan_Iyer.pdf",
			FileSize:        51002,
			Checksum:        "cafebabe",
			IssuedAt:        time.Date(2025, 3, 5, 11, 0, 0, 0, time.UTC),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, sampleCertificates())
	assert.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, issuanceColumns, records[0])
	assert.Equal(t, "Asha Verma", records[1][4])
	assert.Equal(t, "48213", records[1][6])
	assert.Equal(t, "2025-03-05 10:30:00", records[1][8])
	assert.Equal(t, "winner", records[2][3])
}

func TestWriteCSV_EmptyLog(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, nil)
	assert.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestWriteExcel(t *testing.T) {
	var buf bytes.Buffer
	err := WriteExcel(&buf, sampleCertificates())
	assert.NoError(t, err)

	file, err := excelize.OpenReader(&buf)
	assert.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows("Issued Certificates")
	assert.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, issuanceColumns, rows[0])
	assert.Equal(t, "participation_Tech_Symposium_Asha_Verma.pdf", rows[1][5])
	assert.Equal(t, "Rohan Iyer", rows[2][4])

	styleID, err := file.GetCellStyle("Issued Certificates", "A1")
	assert.NoError(t, err)
	style, err := file.GetStyle(styleID)
	assert.NoError(t, err)
	assert.Equal(t, "pattern", style.Fill.Type)
	if assert.Len(t, style.Fill.Color, 1) {
		assert.True(t, strings.HasSuffix(style.Fill.Color[0], "4472C4"))
	}
	assert.True(t, style.Font.Bold)
}

func TestWriteExcel_EmptyLog(t *testing.T) {
	var buf bytes.Buffer
	err := WriteExcel(&buf, nil)
	assert.NoError(t, err)

	file, err := excelize.OpenReader(&buf)
	assert.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows("Issued Certificates")
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
}
