package handlers

import (
	"errors"
	"net/http"

	"gitastic/app/common/access"
	"gitastic/app/common/models"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type repositoryAccessPutRequest struct {
	UserID uint   `json:"user_id"`
	Level  string `json:"level"` // none / view / push / admin （ owner 不能授予）
}

type repositoryAccessInfo struct {
	UserID uint   `json:"user_id"`
	Level  string `json:"level"`
}

func (a *App) RepositoryAccessList(c echo.Context) error {
	id, err := a.paramID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	repo, err := models.RepositoryByID(a.db.WithContext(rctx), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get repository", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 仓库管理权限
	if _, err, statusCode := a.repoAdminOf(c, repo); err != nil {
		a.l.Error("failed to authorize repository admin", zap.Error(err))
		return a.er(c, statusCode)
	}

	var grants []models.RepositoryAccess
	if err := a.db.WithContext(rctx).Order("user_id ASC").
		Find(&grants, "repository_id = ?", id).Error; err != nil {
		a.l.Error("failed to list repository grants", zap.Uint("repoID", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	resGrants := []*repositoryAccessInfo{}
	for _, grant := range grants {
		resGrants = append(resGrants, &repositoryAccessInfo{
			UserID: grant.UserID,
			Level:  grant.Access.String(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"list": resGrants,
	})
}

// RepositoryAccessPut 设置直接授权， none 表示撤销， owner 会被拒绝
func (a *App) RepositoryAccessPut(c echo.Context) error {
	id, err := a.paramID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	repo, err := models.RepositoryByID(a.db.WithContext(rctx), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get repository", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 仓库管理权限
	if _, err, statusCode := a.repoAdminOf(c, repo); err != nil {
		a.l.Error("failed to authorize repository admin", zap.Error(err))
		return a.er(c, statusCode)
	}

	// 绑定请求体
	var req repositoryAccessPutRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	level, err := access.ParseLevel(req.Level)
	if err != nil {
		return a.erMsg(c, http.StatusBadRequest, err.Error())
	}

	if _, err := models.UserByID(a.db.WithContext(rctx), req.UserID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get user", zap.Uint("id", req.UserID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	if err := models.SetRepositoryAccess(a.db.WithContext(rctx), id, req.UserID, level); err != nil {
		if errors.Is(err, access.ErrOwnerGrant) || errors.Is(err, access.ErrInvalidLevel) {
			return a.erMsg(c, http.StatusBadRequest, err.Error())
		}
		a.l.Error("failed to set repository access", zap.Uint("repoID", id), zap.Uint("userID", req.UserID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, &repositoryAccessInfo{
		UserID: req.UserID,
		Level:  level.String(),
	})
}

// RepositoryAccessEffective 诊断接口：查看某个用户解析出的最终级别
func (a *App) RepositoryAccessEffective(c echo.Context) error {
	id, err := a.paramID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	userID, err := echoParamUint(c, "userID")
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	repo, err := models.RepositoryByID(a.db.WithContext(rctx), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get repository", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 仓库管理权限
	if _, err, statusCode := a.repoAdminOf(c, repo); err != nil {
		a.l.Error("failed to authorize repository admin", zap.Error(err))
		return a.er(c, statusCode)
	}

	level, err := models.ResolveRepositoryAccess(a.db.WithContext(rctx), repo, userID)
	if err != nil {
		a.l.Error("failed to resolve access", zap.Uint("repoID", id), zap.Uint("userID", userID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, &repositoryAccessInfo{
		UserID: userID,
		Level:  level.String(),
	})
}
