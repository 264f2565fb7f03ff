package handlers

import (
	"errors"
	"net/http"

	"gitastic/app/common/access"
	"gitastic/app/common/models"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type teamMemberPutRequest struct {
	UserID uint   `json:"user_id"`
	Level  string `json:"level"` // none / view / moderate / admin / superadmin
}

type teamMemberInfo struct {
	UserID uint   `json:"user_id"`
	Level  string `json:"level"`
}

func (a *App) TeamMemberList(c echo.Context) error {
	id, err := a.paramID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	// 登录即可浏览
	if _, err := a.getJwtUser(c); err != nil {
		return a.er(c, http.StatusUnauthorized)
	}

	rctx := c.Request().Context()

	var members []models.TeamMember
	if err := a.db.WithContext(rctx).Order("user_id ASC").
		Find(&members, "team_id = ?", id).Error; err != nil {
		a.l.Error("failed to list team members", zap.Uint("teamID", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	resMembers := []*teamMemberInfo{}
	for _, member := range members {
		resMembers = append(resMembers, &teamMemberInfo{
			UserID: member.UserID,
			Level:  member.Access.String(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"list": resMembers,
	})
}

// TeamMemberPut 设置成员级别， none 表示移除（不会留下值为 0 的记录）
func (a *App) TeamMemberPut(c echo.Context) error {
	id, err := a.paramID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	// 团队管理权限
	if _, err, statusCode := a.teamAdminOf(c, id); err != nil {
		a.l.Error("failed to authorize team admin", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req teamMemberPutRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	level, err := access.ParseLevel(req.Level)
	if err != nil {
		return a.erMsg(c, http.StatusBadRequest, err.Error())
	}

	if _, err := models.TeamByID(a.db.WithContext(rctx), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get team", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if _, err := models.UserByID(a.db.WithContext(rctx), req.UserID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get user", zap.Uint("id", req.UserID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	if err := models.SetTeamAccess(a.db.WithContext(rctx), id, req.UserID, level); err != nil {
		if errors.Is(err, access.ErrInvalidLevel) {
			return a.erMsg(c, http.StatusBadRequest, err.Error())
		}
		a.l.Error("failed to set team access", zap.Uint("teamID", id), zap.Uint("userID", req.UserID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, &teamMemberInfo{
		UserID: req.UserID,
		Level:  level.String(),
	})
}
