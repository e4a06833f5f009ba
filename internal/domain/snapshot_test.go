package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Header: []string{"date", "masp", "tensp", "giamua", "giaban"},
		Rows: [][]string{
			{"16-10-2026", "SJC", "Vang SJC", "7400", "7500"},
			{"16-10-2026", "PNJ", "Vang PNJ", "7300", "7420"},
			{"17-10-2026", "SJC", "Vang SJC", "7450", "7560"},
			{"17-10-2026", "N24K", "Nhan 24K", "7200", "7300"},
		},
	}
}

func TestTable_Snapshots(t *testing.T) {
	snaps := sampleTable().Snapshots()
	require.Len(t, snaps, 2)
	require.Equal(t, "17-10-2026", snaps[0].Date)
	require.Equal(t, "16-10-2026", snaps[1].Date)
	require.Len(t, snaps[1].Records, 2)
	require.Equal(t, []string{"masp", "tensp", "giamua", "giaban"}, snaps[0].Records[0].Keys())

	v, _ := snaps[0].Records[0].Get("giaban")
	require.Equal(t, KindNumber, v.Kind)
}

func TestTable_Snapshots_NoDateColumn(t *testing.T) {
	require.Empty(t, Table{Header: []string{"a"}, Rows: [][]string{{"1"}}}.Snapshots())
}

func TestChanges(t *testing.T) {
	snaps := sampleTable().Snapshots()
	changes := Changes(snaps[0], snaps[1], "masp")

	require.Len(t, changes, 1)
	require.Equal(t, "SJC", changes[0].Key)
	require.Equal(t, []FieldDelta{
		{Field: "giamua", Current: 7450, Previous: 7400, Delta: 50},
		{Field: "giaban", Current: 7560, Previous: 7500, Delta: 60},
	}, changes[0].Deltas)
}

func TestValue_Float(t *testing.T) {
	f, ok := Number("7400.5").Float()
	require.True(t, ok)
	require.Equal(t, 7400.5, f)

	for _, v := range []Value{String("NaN"), String("Inf"), String("infinity"), String("7400"), Number("1e999"), Null(), Bool(true)} {
		_, ok := v.Float()
		require.False(t, ok, v.Raw)
	}
}

func TestChanges_SkipsNonFiniteCells(t *testing.T) {
	table := Table{
		Header: []string{"date", "masp", "ghichu", "giaban"},
		Rows: [][]string{
			{"16-10-2026", "SJC", "1", "7500"},
			{"16-10-2026", "PNJ", "2", "7400"},
			{"17-10-2026", "SJC", "NaN", "7560"},
			{"17-10-2026", "PNJ", "Inf", "n/a"},
		},
	}
	snaps := table.Snapshots()
	changes := Changes(snaps[0], snaps[1], "masp")

	require.Equal(t, []Change{{
		Key:    "SJC",
		Deltas: []FieldDelta{{Field: "giaban", Current: 7560, Previous: 7500, Delta: 60}},
	}}, changes)
}
