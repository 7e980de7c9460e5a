package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDecodeCSV(t *testing.T) {
	body := "\ufeffPatient_Last_Name, Total_Charge,Patient_City\n" +
		"Doe,\"$1,500.00\",Austin\n" +
		",,\n" +
		"Roe,20\n"

	records, err := DecodeCSV(context.Background(), strings.NewReader(body), ',')
	if err != nil {
		t.Fatalf("DecodeCSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records (blank row skipped), got %d", len(records))
	}
	if got := records[0].Columns(); got[0] != "Patient_Last_Name" || got[1] != "Total_Charge" {
		t.Errorf("unexpected header %q", got)
	}
	if v, _ := records[0].Get("Total_Charge"); v != "$1,500.00" {
		t.Errorf("quoted cell: got %q", v)
	}
	if _, ok := records[1].Get("Patient_City"); ok {
		t.Error("short row should leave trailing columns empty")
	}
}

func TestDecodeCSV_Empty(t *testing.T) {
	records, err := DecodeCSV(context.Background(), strings.NewReader(""), ',')
	if err != nil || records != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", records, err)
	}
}

func TestDecodeCSV_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DecodeCSV(ctx, strings.NewReader("a\n1\n"), ',')
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestReader_Dispatch(t *testing.T) {
	csvPath := writeFile(t, "claims.CSV", "a,b\n1,2\n")
	records, err := Reader{}.Read(context.Background(), csvPath)
	if err != nil || len(records) != 1 {
		t.Fatalf("csv: %v, %d records", err, len(records))
	}

	tsvPath := writeFile(t, "claims.tsv", "a\tb\n1\t2\n")
	records, err = Reader{}.Read(context.Background(), tsvPath)
	if err != nil || len(records) != 1 {
		t.Fatalf("tsv: %v, %d records", err, len(records))
	}
	if v, _ := records[0].Get("b"); v != "2" {
		t.Errorf("tsv value: got %q", v)
	}
}

func TestReader_Missing(t *testing.T) {
	_, err := Reader{}.Read(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, domain.ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}
}

func TestReader_Unsupported(t *testing.T) {
	path := writeFile(t, "claims.xlsx", "PK")
	_, err := Reader{}.Read(context.Background(), path)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

type claimRow struct {
	LastName    string    `parquet:"Patient_Last_Name"`
	TotalCharge float64   `parquet:"Total_Charge"`
	Visits      int64     `parquet:"Visits"`
	ServiceFrom time.Time `parquet:"Date_of_Service_From"`
}

func TestReadParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claims.parquet")
	service := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	rows := []claimRow{
		{LastName: "Doe", TotalCharge: 1500.5, Visits: 2, ServiceFrom: service},
		{LastName: "", TotalCharge: 20, Visits: 1, ServiceFrom: service},
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		t.Fatalf("write parquet: %v", err)
	}

	records, err := Reader{}.Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if v, _ := records[0].Get("Patient_Last_Name"); v != "Doe" {
		t.Errorf("name: got %q", v)
	}
	v, _ := records[0].Get("Total_Charge")
	if f, err := strconv.ParseFloat(v, 64); err != nil || f != 1500.5 {
		t.Errorf("charge: got %q", v)
	}
	if v, _ := records[0].Get("Visits"); v != "2" {
		t.Errorf("visits: got %q", v)
	}
	if v, _ := records[0].Get("Date_of_Service_From"); v != "2024-03-15T00:00:00Z" {
		t.Errorf("service date: got %q", v)
	}
	if _, ok := records[1].Get("Patient_Last_Name"); ok {
		t.Error("empty string should read as missing")
	}
}
