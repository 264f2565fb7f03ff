package handlers

import (
	"errors"
	"net/http"

	"gitastic/app/common/access"
	"gitastic/app/common/models"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type teamCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type teamUpdateRequest struct {
	Description *string `json:"description"`
}

type teamInfo struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func teamInfoOf(team *models.Team) *teamInfo {
	return &teamInfo{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
	}
}

// teamAdminOf 调用者是否能管理这个团队：站点管理员，或团队内 Admin 及以上
func (a *App) teamAdminOf(c echo.Context, teamID uint) (bool, error, int) {
	jwtUser, err := a.getJwtUser(c)
	if err != nil {
		return false, err, http.StatusUnauthorized
	}
	if jwtUser.IsAdmin {
		return true, nil, http.StatusOK
	}

	level, err := models.TeamAccessOf(a.db.WithContext(c.Request().Context()), teamID, jwtUser.ID)
	if err != nil {
		return false, err, http.StatusInternalServerError
	}
	if !access.Satisfies(level, access.PermAdmin) {
		return false, errors.New("requires team admin"), http.StatusForbidden
	}

	return true, nil, http.StatusOK
}

func (a *App) TeamCreate(c echo.Context) error {
	// 抓取 user 信息（认证）
	if _, err, statusCode := a.authAdmin(c, true, nil); err != nil {
		a.l.Error("failed to get user", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req teamCreateRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	// 团队名必须是路径安全的
	if err := models.ValidateName(req.Name); err != nil {
		return a.erMsg(c, http.StatusBadRequest, err.Error())
	}

	team := models.Team{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := a.db.WithContext(rctx).Create(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return a.er(c, http.StatusConflict)
		}
		a.l.Error("failed to create team", zap.String("name", team.Name), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusCreated, teamInfoOf(&team))
}

func (a *App) TeamList(c echo.Context) error {
	// 登录即可浏览
	if _, err := a.getJwtUser(c); err != nil {
		return a.er(c, http.StatusUnauthorized)
	}

	rctx := c.Request().Context()

	var (
		teams      []models.Team
		teamsCount int64
	)

	page, limit := a.parsePagination(c.QueryParam("page"), c.QueryParam("limit"))

	if err := a.db.WithContext(rctx).Model(&models.Team{}).Order("id ASC").
		Limit(limit).Offset(page * limit).
		Find(&teams).Error; err != nil {
		a.l.Error("failed to get team list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if err := a.db.WithContext(rctx).Model(&models.Team{}).Count(&teamsCount).Error; err != nil {
		a.l.Error("failed to count team", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	resTeams := []*teamInfo{}
	for i := range teams {
		resTeams = append(resTeams, teamInfoOf(&teams[i]))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"limit":    limit,
		"page_max": a.calcMaxPage(teamsCount, limit),
		"list":     resTeams,
	})
}

func (a *App) TeamInfoGet(c echo.Context) error {
	id, err := a.paramID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	// 登录即可浏览
	if _, err := a.getJwtUser(c); err != nil {
		return a.er(c, http.StatusUnauthorized)
	}

	rctx := c.Request().Context()

	team, err := models.TeamByID(a.db.WithContext(rctx), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get team", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, teamInfoOf(team))
}

func (a *App) TeamUpdate(c echo.Context) error {
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
	var req teamUpdateRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	team, err := models.TeamByID(a.db.WithContext(rctx), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get team", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	if req.Description != nil {
		team.Description = *req.Description
	}

	if err := a.db.WithContext(rctx).Save(team).Error; err != nil {
		a.l.Error("failed to update team", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, teamInfoOf(team))
}
