package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"medsales/m/domain"
	"medsales/m/internal/service"
)

// Catalog is the part of the service the loader needs.
type Catalog interface {
	ListMedicines(ctx context.Context) ([]domain.Medicine, error)
	AddMedicine(ctx context.Context, in service.MedicineInput) (domain.Medicine, error)
}

// LoadMedicines ingests a name,description,price,stock CSV through the catalog,
// skipping names that already exist. Bad rows are logged and skipped.
func LoadMedicines(ctx context.Context, catalog Catalog, csvPath string, logger logrus.FieldLogger) (int, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("open medicine catalog %s: %w", csvPath, err)
	}
	defer file.Close()

	existing, err := catalog.ListMedicines(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, m := range existing {
		seen[strings.ToLower(m.Name)] = true
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	// Skip header
	if _, err := reader.Read(); err != nil {
		return 0, fmt.Errorf("read medicine header: %w", err)
	}

	rows := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.WithError(err).WithField("line", line).Warn("unable to read medicine row")
			continue
		}
		in, err := parseMedicine(record)
		if err != nil {
			logger.WithError(err).WithField("line", line).Warn("skipping medicine row")
			continue
		}
		if seen[strings.ToLower(in.Name)] {
			continue
		}
		if _, err := catalog.AddMedicine(ctx, in); err != nil {
			logger.WithError(err).WithField("name", in.Name).Warn("unable to insert medicine")
			continue
		}
		seen[strings.ToLower(in.Name)] = true
		rows++
	}

	logger.WithField("rows", rows).Info("seeded medicine catalog")
	return rows, nil
}

func parseMedicine(record []string) (service.MedicineInput, error) {
	if len(record) < 4 {
		return service.MedicineInput{}, fmt.Errorf("expected 4 columns, got %d", len(record))
	}
	name := strings.TrimSpace(record[0])
	if name == "" {
		return service.MedicineInput{}, errors.New("empty name")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(record[2]))
	if err != nil {
		return service.MedicineInput{}, fmt.Errorf("price: %w", err)
	}
	stock, err := strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
	if err != nil {
		return service.MedicineInput{}, fmt.Errorf("stock: %w", err)
	}
	return service.MedicineInput{
		Name:        name,
		Description: strings.TrimSpace(record[1]),
		Price:       price,
		Stock:       stock,
	}, nil
}
