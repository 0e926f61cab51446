package table

import "errors"

// Table ドメインのエラー定義
var (
	ErrTableIDRequired  = errors.New("テーブルIDは必須です")
	ErrSectorIDRequired = errors.New("セクターIDは必須です")
	ErrInvalidCapacity  = errors.New("収容人数は 0 < 最小 <= 最大 である必要があります")
)
