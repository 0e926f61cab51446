package table

import "time"

// Table はセクター内の1卓を表す
// 収容人数は MinSize 以上 MaxSize 以下
type Table struct {
	ID        string
	SectorID  string
	Name      string
	MinSize   int
	MaxSize   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Fits は partySize 人がこのテーブルに座れるかを返す
func (t *Table) Fits(partySize int) bool {
	return t.MinSize <= partySize && partySize <= t.MaxSize
}

// Validate はテーブルの検証を行う
func (t *Table) Validate() error {
	if t.ID == "" {
		return ErrTableIDRequired
	}
	if t.SectorID == "" {
		return ErrSectorIDRequired
	}
	if t.MinSize <= 0 || t.MinSize > t.MaxSize {
		return ErrInvalidCapacity
	}
	return nil
}

// IDs はテーブルIDの一覧を返す
func IDs(tables []*Table) []string {
	ids := make([]string, 0, len(tables))
	for _, t := range tables {
		ids = append(ids, t.ID)
	}
	return ids
}

// Names はテーブル名の一覧を返す
func Names(tables []*Table) []string {
	names := make([]string, 0, len(tables))
	for _, t := range tables {
		names = append(names, t.Name)
	}
	return names
}
