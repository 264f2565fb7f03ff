package handlers

import (
	"context"
	"errors"
	"net/http"

	"gitastic/app/common/models"
	"gitastic/app/common/sshkey"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type sshKeyCreateRequest struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

type sshKeyInfo struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	Name        string `json:"name"`
	Key         string `json:"key"`
	AddedFromIP string `json:"added_from_ip"`
}

func sshKeyInfoOf(key *models.UserSSHKey) *sshKeyInfo {
	return &sshKeyInfo{
		ID:          key.ID,
		UserID:      key.UserID,
		Name:        key.Name,
		Key:         key.Key,
		AddedFromIP: key.AddedFromIP,
	}
}

// syncAuthorizedKeys key 有任何变动之后重写 authorized_keys （配置了路径才启用）
func (a *App) syncAuthorizedKeys(ctx context.Context) {
	if a.cfg.Git.AuthorizedKeysPath == "" {
		return
	}

	var keys []models.UserSSHKey
	if err := a.db.WithContext(ctx).Order("id ASC").Find(&keys).Error; err != nil {
		a.l.Error("failed to load ssh keys for authorized_keys sync", zap.Error(err))
		return
	}

	content := sshkey.AuthorizedKeysContent(keys, a.cfg.Git.ShellPath, a.cfg.Git.ShellConfigPath)
	if err := sshkey.WriteAuthorizedKeys(a.cfg.Git.AuthorizedKeysPath, content); err != nil {
		a.l.Error("failed to write authorized_keys", zap.Error(err))
		return
	}

	a.l.Info("authorized_keys updated", zap.Int("keys", len(keys)))
}

func (a *App) SSHKeyCreate(c echo.Context) error {
	userID, err := a.paramID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	// 抓取 user 信息（认证）：用户可以给自己加 key
	if _, err, statusCode := a.authAdmin(c, false, &userID); err != nil {
		a.l.Error("failed to get user", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req sshKeyCreateRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	// 公钥格式校验：假的、截断的、类型对不上的都拒绝
	if !sshkey.Validate(req.Key) {
		return a.erMsg(c, http.StatusBadRequest, "not a valid OpenSSH public key")
	}

	if _, err := models.UserByID(a.db.WithContext(rctx), userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get user", zap.Uint("id", userID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	key := models.UserSSHKey{
		UserID:      userID,
		Name:        req.Name,
		Key:         req.Key,
		AddedFromIP: c.RealIP(),
	}
	if err := a.db.WithContext(rctx).Create(&key).Error; err != nil {
		a.l.Error("failed to create ssh key", zap.Uint("userID", userID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	a.syncAuthorizedKeys(rctx)

	return c.JSON(http.StatusCreated, sshKeyInfoOf(&key))
}

func (a *App) SSHKeyList(c echo.Context) error {
	userID, err := a.paramID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	// 抓取 user 信息（认证）
	if _, err, statusCode := a.authAdmin(c, false, &userID); err != nil {
		a.l.Error("failed to get user", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	var keys []models.UserSSHKey
	if err := a.db.WithContext(rctx).Order("id ASC").
		Find(&keys, "user_id = ?", userID).Error; err != nil {
		a.l.Error("failed to list ssh keys", zap.Uint("userID", userID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	resKeys := []*sshKeyInfo{}
	for i := range keys {
		resKeys = append(resKeys, sshKeyInfoOf(&keys[i]))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"list": resKeys,
	})
}

func (a *App) SSHKeyDelete(c echo.Context) error {
	userID, err := a.paramID(c)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	keyID, err := echoParamUint(c, "keyID")
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	// 抓取 user 信息（认证）
	if _, err, statusCode := a.authAdmin(c, false, &userID); err != nil {
		a.l.Error("failed to get user", zap.Error(err))
		return a.er(c, statusCode)
	}

	rctx := c.Request().Context()

	var key models.UserSSHKey
	if err := a.db.WithContext(rctx).First(&key, "id = ? AND user_id = ?", keyID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get ssh key", zap.Uint("keyID", keyID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 硬删除：authorized_keys 的生成以存量记录为准
	if err := a.db.WithContext(rctx).Unscoped().Delete(&key).Error; err != nil {
		a.l.Error("failed to delete ssh key", zap.Uint("keyID", keyID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	a.syncAuthorizedKeys(rctx)

	return c.NoContent(http.StatusNoContent)
}
