package handlers

import (
	"errors"
	"net/http"

	"gitastic/app/common/access"
	"gitastic/app/common/gitrepo"
	"gitastic/app/common/models"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type repositoryCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	OwnerUserID *uint  `json:"owner_user_id"` // 留空表示自己；指定他人需要管理员
	OwnerTeamID *uint  `json:"owner_team_id"` // 指定后为团队仓库，和 owner_user_id 互斥
	SeedReadme  bool   `json:"seed_readme"`   // 创建后写入一个生成的 README
}

type repositoryUpdateRequest struct {
	Description *string `json:"description"`
	Public      *bool   `json:"public"`
}

type repositoryInfo struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	OwnerUserID *uint  `json:"owner_user_id,omitempty"`
	OwnerTeamID *uint  `json:"owner_team_id,omitempty"`
	CloneURI    string `json:"clone_uri"`
}

func (a *App) repositoryInfoOf(repo *models.Repository) *repositoryInfo {
	info := &repositoryInfo{
		ID:          repo.ID,
		Name:        repo.Name,
		Path:        repo.Path,
		Description: repo.Description,
		Public:      repo.Public,
		OwnerUserID: repo.OwnerUserID,
		OwnerTeamID: repo.OwnerTeamID,
	}
	if owner, _, ok := splitRepoPath(repo.Path); ok {
		info.CloneURI = a.prov.CloneURI(owner, repo.Name)
	}
	return info
}

func splitRepoPath(path string) (string, string, bool) {
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			return path[:i], path[i+1:], true
		}
	}
	return "", "", false
}

// repoAdminOf 调用者是否能管理这个仓库：站点管理员，或解析出的级别满足 PermAdmin
func (a *App) repoAdminOf(c echo.Context, repo *models.Repository) (bool, error, int) {
	jwtUser, err := a.getJwtUser(c)
	if err != nil {
		return false, err, http.StatusUnauthorized
	}
	if jwtUser.IsAdmin {
		return true, nil, http.StatusOK
	}

	level, err := models.ResolveRepositoryAccess(a.db.WithContext(c.Request().Context()), repo, jwtUser.ID)
	if err != nil {
		return false, err, http.StatusInternalServerError
	}
	if !access.Satisfies(level, access.PermAdmin) {
		return false, errors.New("requires repository admin"), http.StatusForbidden
	}

	return true, nil, http.StatusOK
}

func (a *App) RepositoryCreate(c echo.Context) error {
	jwtUser, err := a.getJwtUser(c)
	if err != nil {
		return a.er(c, http.StatusUnauthorized)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req repositoryCreateRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	// 仓库名必须是路径安全的
	if err := models.ValidateName(req.Name); err != nil {
		return a.erMsg(c, http.StatusBadRequest, err.Error())
	}
	if req.OwnerUserID != nil && req.OwnerTeamID != nil {
		return a.erMsg(c, http.StatusBadRequest, "owner_user_id and owner_team_id are mutually exclusive")
	}

	// 确定归属方并检查创建权限
	repo := models.Repository{
		Name:        req.Name,
		Description: req.Description,
		Public:      req.Public,
	}

	var ownerName string
	if req.OwnerTeamID != nil {
		// 团队仓库：需要团队管理权限
		if _, err, statusCode := a.teamAdminOf(c, *req.OwnerTeamID); err != nil {
			a.l.Error("failed to authorize team admin", zap.Error(err))
			return a.er(c, statusCode)
		}
		team, err := models.TeamByID(a.db.WithContext(rctx), *req.OwnerTeamID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return a.er(c, http.StatusNotFound)
			}
			a.l.Error("failed to get team", zap.Uint("id", *req.OwnerTeamID), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
		repo.OwnerTeamID = req.OwnerTeamID
		ownerName = team.Name
	} else {
		// 用户仓库：默认归自己，替别人建需要管理员
		ownerUserID := jwtUser.ID
		if req.OwnerUserID != nil && *req.OwnerUserID != jwtUser.ID {
			if !jwtUser.IsAdmin {
				return a.er(c, http.StatusForbidden)
			}
			ownerUserID = *req.OwnerUserID
		}
		user, err := models.UserByID(a.db.WithContext(rctx), ownerUserID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return a.er(c, http.StatusNotFound)
			}
			a.l.Error("failed to get user", zap.Uint("id", ownerUserID), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
		repo.OwnerUserID = &ownerUserID
		ownerName = user.Username
	}

	// 先落库（路径唯一索引裁决并发创建竞争），磁盘目录之后再建
	repo.Path = ownerName + "/" + repo.Name
	if err := a.db.WithContext(rctx).Create(&repo).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return a.erMsg(c, http.StatusConflict, "repository path already exists")
		}
		a.l.Error("failed to create repository", zap.String("path", repo.Path), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 初始化磁盘目录。失败时不回滚数据库记录也不清理残缺目录，
	// 留给运维排查；详细错误只会出现在这个已认证的管理接口上
	if err := a.prov.Create(rctx, ownerName, repo.Name, repo.Description, req.SeedReadme); err != nil {
		a.l.Error("failed to provision repository", zap.String("path", repo.Path), zap.Error(err))
		if errors.Is(err, gitrepo.ErrRepoExists) {
			return a.erMsg(c, http.StatusConflict, err.Error())
		}
		return a.erMsg(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, a.repositoryInfoOf(&repo))
}

func (a *App) RepositoryList(c echo.Context) error {
	// 登录即可浏览（列表里只给公开的和自己有权限看的）
	jwtUser, err := a.getJwtUser(c)
	if err != nil {
		return a.er(c, http.StatusUnauthorized)
	}

	rctx := c.Request().Context()

	page, limit := a.parsePagination(c.QueryParam("page"), c.QueryParam("limit"))

	var repos []models.Repository
	if err := a.db.WithContext(rctx).Model(&models.Repository{}).Order("id ASC").
		Limit(limit).Offset(page * limit).
		Find(&repos).Error; err != nil {
		a.l.Error("failed to get repository list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	resRepos := []*repositoryInfo{}
	for i := range repos {
		repo := &repos[i]
		if !jwtUser.IsAdmin {
			level, err := models.ResolveRepositoryAccess(a.db.WithContext(rctx), repo, jwtUser.ID)
			if err != nil {
				a.l.Error("failed to resolve access", zap.Uint("repoID", repo.ID), zap.Error(err))
				return a.er(c, http.StatusInternalServerError)
			}
			if !access.Satisfies(level, access.PermView) {
				continue
			}
		}
		resRepos = append(resRepos, a.repositoryInfoOf(repo))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"limit": limit,
		"list":  resRepos,
	})
}

func (a *App) RepositoryInfoGet(c echo.Context) error {
	id, err := a.paramID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	jwtUser, err := a.getJwtUser(c)
	if err != nil {
		return a.er(c, http.StatusUnauthorized)
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

	// 看不到的仓库一律 404 ，不暴露存在性
	if !jwtUser.IsAdmin {
		level, err := models.ResolveRepositoryAccess(a.db.WithContext(rctx), repo, jwtUser.ID)
		if err != nil {
			a.l.Error("failed to resolve access", zap.Uint("repoID", repo.ID), zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
		if !access.Satisfies(level, access.PermView) {
			return a.er(c, http.StatusNotFound)
		}
	}

	return c.JSON(http.StatusOK, a.repositoryInfoOf(repo))
}

func (a *App) RepositoryUpdate(c echo.Context) error {
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
	var req repositoryUpdateRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	if req.Description != nil {
		repo.Description = *req.Description
	}
	if req.Public != nil {
		repo.Public = *req.Public
	}

	if err := a.db.WithContext(rctx).Save(repo).Error; err != nil {
		a.l.Error("failed to update repository", zap.Uint("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, a.repositoryInfoOf(repo))
}
