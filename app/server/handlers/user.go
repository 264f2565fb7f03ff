package handlers

import (
	"errors"
	"net/http"

	"gitastic/app/common/models"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type userCreateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

type userUpdateRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	IsAdmin  *bool   `json:"is_admin"`
}

type userInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

func userInfoOf(user *models.User) *userInfo {
	return &userInfo{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
	}
}

func (a *App) UserCreate(c echo.Context) error {
	// 抓取 user 信息（认证）
	if _, err, statusCode := a.authAdmin(c, true, nil); err != nil {
		a.l.Error("failed to get user", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req userCreateRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	// 用户名必须是路径安全的
	if err := models.ValidateName(req.Username); err != nil {
		return a.erMsg(c, http.StatusBadRequest, err.Error())
	}
	if req.Password == "" {
		return a.er(c, http.StatusBadRequest)
	}

	// 创建用户
	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		IsAdmin:  req.IsAdmin,
	}
	if err := user.SetPassword(req.Password); err != nil {
		a.l.Error("failed to hash password", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	if err := a.db.WithContext(rctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return a.er(c, http.StatusConflict)
		}
		a.l.Error("failed to create user", zap.String("username", user.Username), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusCreated, userInfoOf(&user))
}

func (a *App) UserList(c echo.Context) error {
	// 抓取 user 信息（认证）
	if _, err, statusCode := a.authAdmin(c, true, nil); err != nil {
		a.l.Error("failed to get user", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	var (
		users      []models.User
		usersCount int64
	)

	page, limit := a.parsePagination(c.QueryParam("page"), c.QueryParam("limit"))

	if err := a.db.WithContext(rctx).Model(&models.User{}).Order("id ASC").
		Limit(limit).Offset(page * limit).
		Find(&users).Error; err != nil {
		a.l.Error("failed to get user list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if err := a.db.WithContext(rctx).Model(&models.User{}).Count(&usersCount).Error; err != nil {
		a.l.Error("failed to count user", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	resUsers := []*userInfo{}
	for i := range users {
		resUsers = append(resUsers, userInfoOf(&users[i]))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"limit":    limit,
		"page_max": a.calcMaxPage(usersCount, limit),
		"list":     resUsers,
	})
}

func (a *App) UserInfoGet(c echo.Context) error {
	id, err := a.paramID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	// 抓取 user 信息（认证）：允许用户查自己
	if _, err, statusCode := a.authAdmin(c, false, &id); err != nil {
		a.l.Error("failed to get user", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	user, err := models.UserByID(a.db.WithContext(rctx), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get user", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, userInfoOf(user))
}

func (a *App) UserUpdate(c echo.Context) error {
	id, err := a.paramID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	// 抓取 user 信息（认证）：允许用户改自己
	jwtUser, err, statusCode := a.authAdmin(c, false, &id)
	if err != nil {
		a.l.Error("failed to get user", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req userUpdateRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	user, err := models.UserByID(a.db.WithContext(rctx), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get user", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		if err := user.SetPassword(*req.Password); err != nil {
			a.l.Error("failed to hash password", zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}
	// 只有管理员能调整角色
	if req.IsAdmin != nil && jwtUser.IsAdmin {
		user.IsAdmin = *req.IsAdmin
	}

	if err := a.db.WithContext(rctx).Save(user).Error; err != nil {
		a.l.Error("failed to update user", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, userInfoOf(user))
}

func (a *App) UserDelete(c echo.Context) error {
	id, err := a.paramID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	// 抓取 user 信息（认证）
	if _, err, statusCode := a.authAdmin(c, true, nil); err != nil {
		a.l.Error("failed to get user", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	// 还拥有仓库的用户不能删（删除策略交给存储层的级联约束）
	var owned int64
	if err := a.db.WithContext(rctx).Model(&models.Repository{}).
		Where("owner_user_id = ?", id).Count(&owned).Error; err != nil {
		a.l.Error("failed to count owned repositories", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	if owned > 0 {
		return a.erMsg(c, http.StatusConflict, "user still owns repositories")
	}

	if err := a.db.WithContext(rctx).Delete(&models.User{}, id).Error; err != nil {
		a.l.Error("failed to delete user", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.NoContent(http.StatusNoContent)
}
