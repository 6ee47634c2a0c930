package roster

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSourceKind(t *testing.T) {
	assert.Equal(t, SourceCSV, SourceKind("nomina.CSV"))
	assert.Equal(t, SourceXLSX, SourceKind("nomina.xlsx"))
	assert.Equal(t, SourceXLSX, SourceKind("nomina"))
}

func TestDecodeDelimited_StripsBOMAndSniffsTab(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("rut\tnombre\n11.111.111-1\tAna, Admin\n")...)
	rows, err := DecodeDelimited(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "rut", rows[0][0])
	assert.Equal(t, "Ana, Admin", rows[1][1])

	rows, err = DecodeDelimited([]byte("a,b,c\n1,2\n"))
	require.NoError(t, err)
	assert.Len(t, rows[1], 2)

	_, err = DecodeDelimited([]byte{0xEF, 0xBB, 0xBF, ' ', '\n'})
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestDecodeDelimited_Latin1Export(t *testing.T) {
	data := []byte("RUT,Nombre\n12.345.678-5,Ana P\xe9rez N\xfa\xf1ez\n")
	rows, err := DecodeDelimited(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ana Pérez Núñez", rows[1][1])
	for _, row := range rows {
		for _, cell := range row {
			assert.True(t, utf8.ValidString(cell), cell)
		}
	}
}

func TestDetectLayout(t *testing.T) {
	layout, cols, err := DetectLayout([]string{"rut", "nombre", "tipo_contrato", "tipo_caja", "planta_id"})
	require.NoError(t, err)
	assert.Equal(t, LayoutSimplified, layout)
	assert.Equal(t, 4, cols.Plant)
	assert.Equal(t, 3, cols.Tier)

	layout, cols, err = DetectLayout(strings.Split("RUT,EMPLEADO,NOMBRES,APELLIDOS,CARGO,TIPO DE CONTRATO,PERIODO,SEDE,ESTADO", ","))
	require.NoError(t, err)
	assert.Equal(t, LayoutExtended, layout)
	assert.Equal(t, []int{1, 2, 3}, cols.Name)
	assert.Equal(t, 7, cols.Plant)

	layout, cols, err = DetectLayout([]string{"Sucursal", "Nombre", "RUT"})
	require.NoError(t, err)
	assert.Equal(t, LayoutHeaderDriven, layout)
	assert.Equal(t, 2, cols.RUT)
	assert.Equal(t, 0, cols.Plant)
	assert.Equal(t, -1, cols.Contract)

	layout, _, err = DetectLayout([]string{"id", "persona", "vinculo", "x", ""})
	require.NoError(t, err)
	assert.Equal(t, LayoutSimplified, layout)

	_, _, err = DetectLayout([]string{"a", "b", ""})
	assert.ErrorIs(t, err, ErrMalformedFile)
	_, _, err = DetectLayout([]string{" ", ""})
	assert.ErrorIs(t, err, ErrMalformedFile)
}

func TestParse_SimplifiedRow(t *testing.T) {
	rows := [][]string{
		{"rut", "nombre", "tipo_contrato", "tipo_caja", "planta_id"},
		{"11.111.111-1", "Ana Admin", "indefinido", "estandar", "1"},
	}
	result, err := Parse(rows, Options{StrictRUT: true})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	entry := result.Entries[0]
	assert.Equal(t, "11.111.111-1", entry.RUT)
	assert.Equal(t, ContractPermanent, entry.ContractType)
	assert.Equal(t, TierStandard, entry.BoxTier)
	assert.Equal(t, "1", entry.PlantRef)
	assert.Empty(t, result.Errors)
}

func TestParse_RowPolicy(t *testing.T) {
	rows := [][]string{
		{"rut", "nombre", "tipo_contrato", "tipo_caja"},
		{"", "Sin Rut", "indefinido", ""},
		{"  ", "", "", ""},
		{"12345678-5", "Pedro Plazo", "Plazo Fijo", "PREMIUM"},
		{"22.222.222-2", "   ", "fijo", "oro"},
		{"7.654.321-6"},
		{"12.345.678-4", "Mal Digito", "", ""},
	}
	result, err := Parse(rows, Options{StrictRUT: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Blank)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "12.345.678-5", result.Entries[0].RUT)
	assert.Equal(t, ContractFixedTerm, result.Entries[0].ContractType)
	assert.Equal(t, TierPremium, result.Entries[0].BoxTier)

	require.Len(t, result.Errors, 4)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Error(), "RUT vacío")
	assert.Equal(t, 5, result.Errors[1].Row)
	assert.Equal(t, 6, result.Errors[2].Row)
	assert.Equal(t, 7, result.Errors[3].Row)
}

func TestParse_NonStrictKeepsRawRUT(t *testing.T) {
	rows := [][]string{
		{"rut", "nombre", "contrato", "caja"},
		{"12.345.678-4", "Mal Digito", "", ""},
	}
	result, err := Parse(rows, Options{})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "12.345.678-4", result.Entries[0].RUT)
}

func TestParse_ExtendedJoinsNameParts(t *testing.T) {
	rows := [][]string{
		strings.Split("RUT,EMPLEADO,NOMBRES,APELLIDOS,CARGO,TIPO DE CONTRATO,PERIODO,SEDE,ESTADO", ","),
		{"11.111.111-1", "", "Ana María", "Pérez Soto", "Operaria", "Plazo Fijo", "2025", "Valparaíso BIC", "Activo"},
		{"22.222.222-2", "", "", ""},
	}
	result, err := Parse(rows, Options{StrictRUT: true})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "Ana María Pérez Soto", result.Entries[0].Name)
	assert.Equal(t, ContractFixedTerm, result.Entries[0].ContractType)
	assert.Equal(t, "Valparaíso BIC", result.Entries[0].PlantRef)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Reason, "nombre")
}

func TestParse_MissingHeader(t *testing.T) {
	_, err := Parse(nil, Options{})
	assert.ErrorIs(t, err, ErrMalformedFile)
	_, err = Parse([][]string{{"rut", "x"}}, Options{})
	assert.ErrorIs(t, err, ErrMalformedFile)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, ContractFixedTerm, NormalizeContract("Contrato a plazo"))
	assert.Equal(t, ContractFixedTerm, NormalizeContract("FIJO"))
	assert.Equal(t, ContractPermanent, NormalizeContract("indefinido"))
	assert.Equal(t, ContractPermanent, NormalizeContract(""))
	assert.Equal(t, TierSpecial, NormalizeTier(" Especial "))
	assert.Equal(t, TierStandard, NormalizeTier("gold"))
}

func TestPlantDirectoryResolve(t *testing.T) {
	dir := NewPlantDirectory([]Plant{
		{ID: 1, Code: "casablanca", Name: "Casa Blanca"},
		{ID: 2, Code: "valparaiso_bif", Name: "Valparaíso Planta BIF"},
		{ID: 3, Code: "valparaiso_bic", Name: "Valparaíso Planta BIC"},
	})
	fallback := Plant{ID: 99, Code: "default"}

	assert.Equal(t, uint(2), dir.Resolve("2", fallback).ID)
	assert.Equal(t, uint(3), dir.Resolve("VALPARAISO_BIC", fallback).ID)
	assert.Equal(t, uint(1), dir.Resolve("Santiago Centro", fallback).ID)
	assert.Equal(t, uint(3), dir.Resolve("Valparaíso bic", fallback).ID)
	assert.Equal(t, uint(2), dir.Resolve("valparaiso", fallback).ID)
	assert.Equal(t, uint(1), dir.Resolve("casa blanca", fallback).ID)
	assert.Equal(t, uint(99), dir.Resolve("Rancagua", fallback).ID)
	assert.Equal(t, uint(99), dir.Resolve("42", fallback).ID)
	assert.Equal(t, uint(99), dir.Resolve("", fallback).ID)
}

func TestSummarizeErrors(t *testing.T) {
	msgs := []string{"a", "b", "c", "d", "e", "f", "g"}
	summary := SummarizeErrors(msgs)
	assert.Contains(t, summary, "• e")
	assert.NotContains(t, summary, "• f")
	assert.True(t, strings.HasSuffix(summary, "... y 2 errores más"))
	assert.Equal(t, "", SummarizeErrors(nil))
}

func TestDecodeSpreadsheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"rut", "nombre", "tipo_contrato", "tipo_caja", "planta_id"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"11.111.111-1", "Ana Admin", "indefinido", "premium", "casablanca"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rows, err := Decode("nomina.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	result, err := Parse(rows, Options{StrictRUT: true})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, TierPremium, result.Entries[0].BoxTier)
	assert.Equal(t, "casablanca", result.Entries[0].PlantRef)

	_, err = Decode("nomina.xlsx", strings.NewReader("not a workbook"))
	assert.ErrorIs(t, err, ErrUnreadableSpreadsheet)
}

func TestDecodeSpreadsheetReadsActiveSheet(t *testing.T) {
	f := excelize.NewFile()
	first := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(first, "A1", &[]interface{}{"instrucciones"}))
	idx, err := f.NewSheet("Nomina")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Nomina", "A1", &[]interface{}{"rut", "nombre"}))
	require.NoError(t, f.SetSheetRow("Nomina", "A2", &[]interface{}{"11.111.111-1", "Ana Admin"}))
	f.SetActiveSheet(idx)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rows, err := DecodeSpreadsheet(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ana Admin", rows[1][1])
}
