package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nfgomez/secop-analyzer/internal/datasets"
	"github.com/nfgomez/secop-analyzer/internal/models"
	"github.com/nfgomez/secop-analyzer/internal/normalize"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain number", input: "1000000", want: "$1,000,000 COP"},
		{name: "decimal rounds", input: "1234567.89", want: "$1,234,568 COP"},
		{name: "already grouped", input: "1,000,000", want: "$1,000,000 COP"},
		{name: "with spaces", input: " 5000 ", want: "$5,000 COP"},
		{name: "small value", input: "950", want: "$950 COP"},
		{name: "sentinel passes through", input: normalize.Sentinel, want: normalize.Sentinel},
		{name: "empty becomes sentinel", input: "", want: normalize.Sentinel},
		{name: "non numeric passes through", input: "por definir", want: "por definir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, formatCurrency(tt.input))
		})
	}
}

func TestGroupThousands(t *testing.T) {
	require.Equal(t, "0", groupThousands(0))
	require.Equal(t, "999", groupThousands(999))
	require.Equal(t, "1,000", groupThousands(1000))
	require.Equal(t, "12,345,678", groupThousands(12345678))
	require.Equal(t, "-1,500", groupThousands(-1500))
}

func TestRenderRecordFollowsFieldOrder(t *testing.T) {
	reg := datasets.Default()
	desc, ok := reg.Lookup(reg.DefaultLabel())
	require.True(t, ok)

	record := models.CanonicalRecord{
		"Consultado": "2024-05-06 07:08:09",
	}
	for _, field := range desc.CanonicalFields {
		record[field] = normalize.Sentinel
	}
	record["Entidad contratante"] = "Alcaldía de Bogotá"
	record["Valor del contrato"] = "1000000"

	var out strings.Builder
	renderRecord(&out, record, desc)
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")

	require.Len(t, lines, len(desc.CanonicalFields)+1)
	require.True(t, strings.HasPrefix(lines[0], "Notice UID:"))
	require.True(t, strings.HasPrefix(lines[len(lines)-1], "Consultado:"))
	require.Contains(t, out.String(), "$1,000,000 COP")
	require.Contains(t, out.String(), "Alcaldía de Bogotá")
}

func TestRenderProviderSkipsSocrataMetadata(t *testing.T) {
	row := models.RawRow{
		"nombre":      "ACME S.A.S.",
		"tipo_empresa": "PyME",
		":updated_at": "2024-01-01",
	}

	var out strings.Builder
	renderProvider(&out, row)

	require.Contains(t, out.String(), "nombre: ACME S.A.S.")
	require.Contains(t, out.String(), "tipo empresa: PyME")
	require.NotContains(t, out.String(), "updated_at")
}

func TestMarshalRecordKeepsAccents(t *testing.T) {
	data, err := marshalRecord(models.CanonicalRecord{
		"Objeto / descripción": "Construcción de vías",
	})
	require.NoError(t, err)
	require.Contains(t, string(data), "descripción")
	require.Contains(t, string(data), "Construcción")

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "Construcción de vías", decoded["Objeto / descripción"])
}
