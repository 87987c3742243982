package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleTable() RawTable {
	return RawTable{
		{"Requisição", "Situação", "Data Pedido", "Codigo Service", "Quantidade Pedido", "Descrição"},
		{"R1", "OK", "01/02/2024", "X", "2", "Parafuso"},
		{"R1", "ok ", "02/02/2024", "Y", "1", "Porca"},
		{"R1", "pendente", "01/02/2024", "X", "4", "Arruela"},
		{"", "pendente", "01/02/2024", "Z", "9", "Sem requisição"},
		{"R2", "Pendente", "03/02/2024", "X", "3", "Eixo"},
	}
}

func TestNormalizeGroupsByRequisition(t *testing.T) {
	reqs, err := Normalize(sampleTable(), SourceExternal)
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	r1 := reqs[0]
	require.Equal(t, "R1", r1.Code)
	require.Equal(t, "01/02/2024", r1.OrderDate)
	require.Equal(t, 3, r1.TotalItems)
	require.Equal(t, 2, r1.FulfilledCount)
	require.Equal(t, 1, r1.PendingCount)
	require.Equal(t, StatusPartiallyFulfilled, r1.Status)
	require.Equal(t, SourceExternal, r1.Source)

	r2 := reqs[1]
	require.Equal(t, StatusPending, r2.Status)
	require.Equal(t, "pendente", r2.Items[0].Status)
}

func TestNormalizeDropsRowsWithoutCode(t *testing.T) {
	reqs, err := Normalize(sampleTable(), SourceExternal)
	require.NoError(t, err)
	total := 0
	for _, r := range reqs {
		total += len(r.Items)
	}
	// Five data rows, one without a requisition code.
	require.Equal(t, 4, total)
}

func TestNormalizeMissingRequiredHeaders(t *testing.T) {
	table := RawTable{
		{"Requisição", "Descrição"},
		{"R1", "Parafuso"},
	}
	reqs, err := Normalize(table, SourceFactory)
	require.Empty(t, reqs)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, SourceFactory, schemaErr.Source)
	require.Equal(t, []string{headerStatus, headerOrderDate}, schemaErr.Missing)
}

func TestNormalizeShortTable(t *testing.T) {
	reqs, err := Normalize(RawTable{{"requisição", "situação", "data pedido"}}, SourceExternal)
	require.NoError(t, err)
	require.Empty(t, reqs)

	reqs, err = Normalize(nil, SourceExternal)
	require.NoError(t, err)
	require.Empty(t, reqs)
}

func TestNormalizeOptionalColumnsDefaultEmpty(t *testing.T) {
	table := RawTable{
		{"requisição", "situação", "data pedido"},
		{"R9", "ok", "10/01/24"},
	}
	reqs, err := Normalize(table, SourceFactory)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	item := reqs[0].Items[0]
	require.Empty(t, item.ServiceCode)
	require.Empty(t, item.Description)
	require.Empty(t, item.OrderedQty)
}

func TestDeriveStatusMatrix(t *testing.T) {
	cases := []struct {
		total, fulfilled, pending int
		want                      DerivedStatus
	}{
		{0, 0, 0, StatusNoItems},
		{3, 3, 0, StatusFulfilled},
		{3, 1, 2, StatusPartiallyFulfilled},
		{3, 0, 3, StatusPending},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, deriveStatus(tc.total, tc.fulfilled, tc.pending))
	}
}

func TestNormalizeFirstSeenOrderDateWins(t *testing.T) {
	table := RawTable{
		{"requisição", "situação", "data pedido"},
		{"R1", "ok", "05/05/2024"},
		{"R1", "pendente", "09/09/2024"},
	}
	reqs, err := Normalize(table, SourceExternal)
	require.NoError(t, err)
	require.Equal(t, "05/05/2024", reqs[0].OrderDate)
}
