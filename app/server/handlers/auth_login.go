package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"gitastic/app/common/models"
	"gitastic/app/server/constants"
	"gitastic/app/server/jwt"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (a *App) AuthLogin(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	if req.Username == "" || req.Password == "" {
		return a.er(c, http.StatusBadRequest)
	}

	// 登录失败节流：窗口期内失败太多次直接拒绝，不再碰数据库
	failKey := fmt.Sprintf(constants.CacheKeyLoginFail, req.Username)
	if fails, err := a.rdb.Get(rctx, failKey).Int64(); err == nil && fails >= constants.LoginFailMax {
		return a.er(c, http.StatusTooManyRequests)
	}

	// 认证失败的原因（不存在 / 密码错 / 唯一性异常）统一表现为 401
	user, err := models.AuthenticateUser(a.db.WithContext(rctx), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			a.l.Error("failed to authenticate user", zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}

		// 记一次失败
		if err := a.rdb.Incr(rctx, failKey).Err(); err != nil {
			a.l.Error("failed to record login failure", zap.Error(err))
		}
		a.rdb.Expire(rctx, failKey, constants.CacheExpireLoginFail)

		return a.er(c, http.StatusUnauthorized)
	}

	// 登录成功，清掉失败计数
	a.rdb.Del(rctx, failKey)

	// 签出 JWT
	expires := time.Now().Add(constants.AuthTokenDuration)
	token, err := a.jwt.SignToken(&jwt.User{
		ID:      user.ID,
		IsAdmin: user.IsAdmin,
		Expires: expires.Unix(),
	})
	if err != nil {
		a.l.Error("failed to sign token", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 返回
	return c.JSON(http.StatusOK, &loginResponse{
		Token: token,
	})
}
