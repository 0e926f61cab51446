package reservation

import (
	"errors"
	"fmt"
)

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound    = errors.New("予約が見つかりません")
	ErrIdempotencyKeyRequired = errors.New("Idempotency-Key ヘッダーは必須です")
	ErrRestaurantIDRequired   = errors.New("レストランIDは必須です")
	ErrSectorIDRequired       = errors.New("セクターIDは必須です")
	ErrTableIDsRequired       = errors.New("テーブルIDは必須です")
	ErrInvalidPartySize       = errors.New("人数は1以上である必要があります")
	ErrStartTimeRequired      = errors.New("開始日時は必須です")
	ErrCustomerNameRequired   = errors.New("予約者名は必須です")
	ErrCustomerPhoneRequired  = errors.New("電話番号は必須です")
	ErrCustomerEmailRequired  = errors.New("メールアドレスは必須です")

	// ErrOutsideServiceWindow は開始時刻が営業時間外の場合に返す
	ErrOutsideServiceWindow = errors.New("開始時刻が営業時間外です")

	// ErrNoCapacity は割り当て可能なテーブルがないことを表す
	// 以下の2つはどちらも errors.Is(err, ErrNoCapacity) が真になる
	ErrNoCapacity        = errors.New("空きがありません")
	ErrSectorHasNoTables = fmt.Errorf("%w: セクターにテーブルがありません", ErrNoCapacity)
	ErrNoTableAvailable  = fmt.Errorf("%w: 指定人数に合う空きテーブルがありません", ErrNoCapacity)
)

// IsValidationError は入力不正によるエラーかを返す
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrIdempotencyKeyRequired,
		ErrRestaurantIDRequired,
		ErrSectorIDRequired,
		ErrTableIDsRequired,
		ErrInvalidPartySize,
		ErrStartTimeRequired,
		ErrCustomerNameRequired,
		ErrCustomerPhoneRequired,
		ErrCustomerEmailRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
