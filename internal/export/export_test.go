package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleCalculation() *domain.Calculation {
	return &domain.Calculation{
		ID:        uuid.MustParse("6f1c2a5e-0d5e-4c39-9b6c-5c0b8a7d2e11"),
		Place:     domain.Place{Province: "Western", District: "Colombo", City: "Dehiwala"},
		PanelName: "Mono 450",
		Area:      20,
		Coefficients: domain.CoefficientSnapshot{
			SetID:     3,
			Intercept: 100,
			Epsilon:   1.5,
			Terms: domain.Terms{
				{VariableID: 1, VariableName: "GHI", Coefficient: 0.8},
				{VariableID: 2, Coefficient: -2},
			},
		},
		Inputs: domain.VariableValues{{VariableID: 1, Value: 1900}, {VariableID: 2, Value: 28}},
		Result: domain.Projection{
			PVOUT:    domain.PeriodValues{Daily: 4.38, Monthly: 133.3, Annual: 1600},
			Energy:   domain.PeriodValues{Daily: 17.5, Monthly: 533.3, Annual: 6400},
			Earnings: domain.PeriodValues{Daily: 350, Monthly: 10666, Annual: 128000},
			RateMode: "flat",
		},
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuildCalculationsXLSX(t *testing.T) {
	data, err := BuildCalculationsXLSX([]*domain.Calculation{sampleCalculation()})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	id, err := f.GetCellValue("calculations", "A2")
	require.NoError(t, err)
	assert.Equal(t, "6f1c2a5e-0d5e-4c39-9b6c-5c0b8a7d2e11", id)

	city, err := f.GetCellValue("calculations", "E2")
	require.NoError(t, err)
	assert.Equal(t, "Dehiwala", city)

	mode, err := f.GetCellValue("calculations", "M2")
	require.NoError(t, err)
	assert.Equal(t, "flat", mode)

	rows, err := f.GetRows("inputs")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Calculation ID", "Variable", "Value", "Coefficient"}, rows[0])
	assert.Equal(t, []string{"6f1c2a5e-0d5e-4c39-9b6c-5c0b8a7d2e11", "GHI", "1900", "0.8"}, rows[1])
	assert.Equal(t, "variable #2", rows[2][1])
	assert.Equal(t, "-2", rows[2][3])
}

func TestBuildCalculationsXLSXEmpty(t *testing.T) {
	data, err := BuildCalculationsXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("calculations")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	inputs, err := f.GetRows("inputs")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Calculation ID", "Variable", "Value", "Coefficient"}}, inputs)
}

func TestBuildCalculationPDF(t *testing.T) {
	data, err := BuildCalculationPDF(sampleCalculation())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
