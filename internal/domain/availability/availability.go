// Package availability はテーブルの占有状況と候補選定を計算する
package availability

import (
	"sort"
	"time"

	"github.com/sanosuguru/go-table-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-table-reservation/internal/domain/schedule"
	"github.com/sanosuguru/go-table-reservation/internal/domain/table"
)

// TableSet はテーブルIDの集合
type TableSet map[string]struct{}

// Has は id が集合に含まれるかを返す
func (s TableSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// ComputeOccupiedTables は [windowStart, windowEnd) と重なる予約が使っているテーブルを返す
// キャンセル済みの予約は無視する
func ComputeOccupiedTables(reservations []*reservation.Reservation, windowStart, windowEnd time.Time) TableSet {
	occupied := make(TableSet)
	for _, r := range reservations {
		if r.IsCancelled() {
			continue
		}
		if !schedule.Overlaps(windowStart, windowEnd, r.StartAt, r.EndAt) {
			continue
		}
		for _, id := range r.TableIDs {
			occupied[id] = struct{}{}
		}
	}
	return occupied
}

// SelectCandidateTables は空いていて partySize が収まるテーブルを最大人数の昇順で返す
// 最大人数が同じテーブルは入力順を保つ
func SelectCandidateTables(tables []*table.Table, occupied TableSet, partySize int) []*table.Table {
	candidates := make([]*table.Table, 0, len(tables))
	for _, t := range tables {
		if occupied.Has(t.ID) || !t.Fits(partySize) {
			continue
		}
		candidates = append(candidates, t)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].MaxSize < candidates[j].MaxSize
	})
	return candidates
}
