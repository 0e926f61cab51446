package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-table-reservation/internal/pkg/logger"
)

// エラーコード
const (
	CodeBadRequest           = "bad_request"
	CodeNotFound             = "not_found"
	CodeOutsideServiceWindow = "outside_service_window"
	CodeNoCapacity           = "no_capacity"
	CodeInternalError        = "internal_error"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// NewError はエラーコードと詳細を持つ HTTPError を作成する
func NewError(status int, code, detail string) *echo.HTTPError {
	return echo.NewHTTPError(status, ErrorResponse{Error: code, Detail: detail})
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	body := ErrorResponse{Error: CodeInternalError, Detail: "内部サーバーエラー"}

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		switch m := he.Message.(type) {
		case ErrorResponse:
			body = m
		case string:
			body = ErrorResponse{Error: codeForStatus(code), Detail: m}
		default:
			body = ErrorResponse{Error: codeForStatus(code), Detail: http.StatusText(code)}
		}
		if he.Internal != nil {
			err = he.Internal
		}
	}

	// エラーログを出力（5xx エラーの場合）
	if code >= 500 {
		logger.Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}

func codeForStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return CodeNotFound
	case status >= 500:
		return CodeInternalError
	case status >= 400:
		return CodeBadRequest
	default:
		return http.StatusText(status)
	}
}
