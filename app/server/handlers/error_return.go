package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type ErrorMessage struct {
	Message string `json:"message"`
}

func (a *App) er(c echo.Context, statusCode int) error {
	return c.JSON(statusCode, &ErrorMessage{
		Message: http.StatusText(statusCode),
	})
}

// erMsg 带具体信息的错误响应，只用于可以原样展示给调用方的校验类错误
func (a *App) erMsg(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, &ErrorMessage{
		Message: message,
	})
}
