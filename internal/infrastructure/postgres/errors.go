package postgres

import (
	"errors"

	"github.com/lib/pq"
)

var errTxRequired = errors.New("トランザクションが必要です")

const (
	codeUniqueViolation           = "23505"
	codeInvalidTextRepresentation = "22P02"
)

func pqCode(err error) string {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return string(pgErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pqCode(err) == codeUniqueViolation
}

// isInvalidText は UUID 列に不正な文字列を渡した場合などに真になる
func isInvalidText(err error) bool {
	return pqCode(err) == codeInvalidTextRepresentation
}
