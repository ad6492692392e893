package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"lifeflow-backend/internal/domain"
)

const exportSheet = "Requests"

var exportHeader = []string{
	"ID", "Requester", "Requester Email", "Recipient", "Blood Type", "District", "Upazila",
	"Hospital", "Address", "Date", "Time", "Status", "Donor", "Donor Email", "Created",
}

type ExportService struct {
	requests domain.RequestRepository
	log      *zap.Logger
}

func NewExportService(requests domain.RequestRepository, l *zap.Logger) *ExportService {
	return &ExportService{requests: requests, log: l}
}

// RequestsXLSX renders every blood request into a workbook and returns it
// with a suggested file name.
func (s *ExportService) RequestsXLSX(ctx context.Context) (*bytes.Buffer, string, error) {
	rows, err := s.requests.List(ctx, domain.RequestFilter{})
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, "", domain.Internal("create sheet", err)
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#B71C1C"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, h)
	}
	last, _ := excelize.ColumnNumberToName(len(exportHeader))
	_ = f.SetCellStyle(exportSheet, "A1", last+"1", headerStyle)
	_ = f.SetColWidth(exportSheet, "A", last, 18)

	for i, r := range rows {
		values := []any{
			r.ID, r.RequesterName, r.RequesterEmail, r.RecipientName, r.BloodType, r.District, r.Upazila,
			r.HospitalName, r.FullAddress, r.DonationDate, r.DonationTime, r.Status, r.DonorName, r.DonorEmail,
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, "", domain.Internal("write row", err)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.log.Error("write workbook", zap.Error(err))
		return nil, "", domain.Internal("write workbook", err)
	}
	return buf, fmt.Sprintf("blood-requests-%s.xlsx", time.Now().UTC().Format("20060102")), nil
}
