package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"gitastic/app/server/jwt"

	"github.com/labstack/echo/v4"
)

func (a *App) getJwtUser(c echo.Context) (*jwt.User, error) {
	// 提取 token
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("missing auth token")
	}

	splits := strings.Split(authHeader, " ")
	if len(splits) != 2 {
		return nil, fmt.Errorf("invalid auth header: %s", authHeader)
	}

	if strings.ToLower(splits[0]) != "bearer" {
		return nil, fmt.Errorf("unknown auth method: %s", splits[0])
	}

	// 验证 token
	jwtUser, err := a.jwt.ParseUser(splits[1])
	if err != nil {
		// 无效的 token
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	return jwtUser, nil
}

// authAdmin 接口级认证：管理员放行；非管理员只有在操作自己（ selfID 匹配）时放行
func (a *App) authAdmin(c echo.Context, adminOnly bool, selfID *uint) (*jwt.User, error, int) {
	jwtUser, err := a.getJwtUser(c)
	if err != nil {
		return nil, err, http.StatusUnauthorized
	}

	// 验证权限
	if !jwtUser.IsAdmin {
		if adminOnly {
			return nil, fmt.Errorf("requires admin role"), http.StatusForbidden
		}
		if selfID == nil || *selfID != jwtUser.ID {
			return nil, fmt.Errorf("requires admin role or self"), http.StatusForbidden
		}
	}

	return jwtUser, nil, http.StatusOK
}
