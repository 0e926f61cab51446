package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_Fits(t *testing.T) {
	tbl := &Table{ID: "T7", SectorID: "S3", Name: "Table 2", MinSize: 4, MaxSize: 6}

	tests := []struct {
		name      string
		partySize int
		want      bool
	}{
		{name: "最小人数未満", partySize: 3, want: false},
		{name: "最小人数ちょうど", partySize: 4, want: true},
		{name: "最大人数ちょうど", partySize: 6, want: true},
		{name: "最大人数超過", partySize: 7, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tbl.Fits(tt.partySize))
		})
	}
}

func TestTable_Validate(t *testing.T) {
	tests := []struct {
		name    string
		table   Table
		wantErr error
	}{
		{name: "正常", table: Table{ID: "T1", SectorID: "S1", MinSize: 2, MaxSize: 4}},
		{name: "ID未指定", table: Table{SectorID: "S1", MinSize: 2, MaxSize: 4}, wantErr: ErrTableIDRequired},
		{name: "セクター未指定", table: Table{ID: "T1", MinSize: 2, MaxSize: 4}, wantErr: ErrSectorIDRequired},
		{name: "最小人数が0", table: Table{ID: "T1", SectorID: "S1", MinSize: 0, MaxSize: 4}, wantErr: ErrInvalidCapacity},
		{name: "最小が最大より大きい", table: Table{ID: "T1", SectorID: "S1", MinSize: 5, MaxSize: 4}, wantErr: ErrInvalidCapacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestIDsAndNames(t *testing.T) {
	tables := []*Table{
		{ID: "T6", Name: "Table 1"},
		{ID: "T7", Name: "Table 2"},
	}

	assert.Equal(t, []string{"T6", "T7"}, IDs(tables))
	assert.Equal(t, []string{"Table 1", "Table 2"}, Names(tables))
	assert.Empty(t, IDs(nil))
}
