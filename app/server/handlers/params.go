package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// paramID 解析路径里的 :id
func (a *App) paramID(c echo.Context) (uint, error) {
	return echoParamUint(c, "id")
}

func echoParamUint(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
