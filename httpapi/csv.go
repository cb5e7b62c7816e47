package httpapi

import (
	"bytes"
	"encoding/csv"
	"time"

	"github.com/goliatone/go-swagdesk/pkg/types"
)

var csvHeader = []string{
	"id",
	"requester_name",
	"email",
	"address_line1",
	"address_line2",
	"city",
	"country",
	"postal_code",
	"item",
	"size",
	"status",
	"created_at",
	"approved_at",
}

// EncodeCSV renders swag requests as CSV with a fixed header row.
func EncodeCSV(rows []types.SwagRequest) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			row.ID.String(),
			row.RequesterName,
			row.Email,
			row.AddressLine1,
			row.AddressLine2,
			row.City,
			row.Country,
			row.PostalCode,
			row.Item,
			row.Size,
			string(row.Status),
			formatCSVTime(row.CreatedAt),
			formatCSVTime(row.ApprovedAt),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatCSVTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
