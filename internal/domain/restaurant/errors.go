package restaurant

import "errors"

// Restaurant ドメインのエラー定義
var (
	ErrRestaurantNotFound   = errors.New("レストランが見つかりません")
	ErrSectorNotFound       = errors.New("セクターが見つかりません")
	ErrRestaurantIDRequired = errors.New("レストランIDは必須です")
	ErrNameRequired         = errors.New("名前は必須です")
	ErrInvalidTimezone      = errors.New("タイムゾーンが不正です")
	ErrInvalidShift         = errors.New("営業時間の形式が不正です")
)
