package idempotency

import (
	"errors"
	"time"
)

// Key はクライアントが送る Idempotency-Key と予約の恒久的な対応付け
// 一度作成された対応付けは変更も削除もされない
type Key struct {
	Key           string
	ReservationID string
	CreatedAt     time.Time
}

var (
	ErrKeyNotFound = errors.New("冪等性キーが見つかりません")
	// ErrKeyAlreadyBound は一意制約により同じキーの対応付けが既に存在した場合に返す
	ErrKeyAlreadyBound = errors.New("冪等性キーは既に別の予約に使用されています")
)

// NewKey は新しい対応付けを作成する
func NewKey(key, reservationID string) *Key {
	return &Key{
		Key:           key,
		ReservationID: reservationID,
		CreatedAt:     time.Now(),
	}
}
