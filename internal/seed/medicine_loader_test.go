package seed

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medsales/m/domain"
	"medsales/m/internal/service"
)

type fakeCatalog struct {
	medicines []domain.Medicine
}

func (f *fakeCatalog) ListMedicines(context.Context) ([]domain.Medicine, error) {
	return f.medicines, nil
}

func (f *fakeCatalog) AddMedicine(_ context.Context, in service.MedicineInput) (domain.Medicine, error) {
	m := domain.Medicine{ID: int64(len(f.medicines) + 1), Name: in.Name, Description: in.Description, Price: in.Price, Stock: in.Stock}
	f.medicines = append(f.medicines, m)
	return m, nil
}

func TestLoadMedicines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "medicines.csv")
	csv := "name,description,price,stock\n" +
		"Aspirin,Pain relief,10.00,100\n" +
		"Zinc,,3.5,7\n" +
		"aspirin,duplicate,1,1\n" +
		"Broken,,abc,1\n" +
		"Short,row\n" +
		"Existing,,2,2\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	catalog := &fakeCatalog{medicines: []domain.Medicine{{ID: 1, Name: "Existing"}}}

	n, err := LoadMedicines(context.Background(), catalog, path, logger)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, catalog.medicines, 3)
	assert.Equal(t, "Aspirin", catalog.medicines[1].Name)
	assert.Equal(t, "10.00", catalog.medicines[1].Price.StringFixed(2))
	assert.EqualValues(t, 7, catalog.medicines[2].Stock)
}

func TestLoadMedicinesMissingFile(t *testing.T) {
	_, err := LoadMedicines(context.Background(), &fakeCatalog{}, filepath.Join(t.TempDir(), "nope.csv"), logrus.New())
	assert.Error(t, err)
}
