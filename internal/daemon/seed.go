package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoCurtain/GoCurtain/internal/auth"
	"github.com/GoCurtain/GoCurtain/internal/capability"
	"github.com/GoCurtain/GoCurtain/internal/curtain"
	"github.com/GoCurtain/GoCurtain/internal/db/models"
)

const (
	defaultAdminName     = "admin"
	defaultAdminPassword = "changeme"
	adminRole            = "administrator"
)

var defaultRoles = []models.Role{
	{Name: adminRole, DisplayName: "Administrator"},
	{Name: "editor", DisplayName: "Editor"},
	{Name: "author", DisplayName: "Author"},
	{Name: "contributor", DisplayName: "Contributor"},
	{Name: "subscriber", DisplayName: "Subscriber"},
}

// seed fills a fresh database with the default roles and activates the
// curtain once. Later boots keep whatever grants and options are stored.
func seed(db *gorm.DB, themeBackground string) error {
	var count int64
	if err := db.Model(&models.Role{}).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		for _, r := range defaultRoles {
			role := r
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}

		if err := capability.Add(db, capability.ManageOptions, adminRole); err != nil {
			return err
		}

		if err := curtain.New(db, themeBackground).Activate(); err != nil {
			return err
		}
	}

	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	var admin models.Role
	if err := db.Where("name = ?", adminRole).First(&admin).Error; err != nil {
		return err
	}

	if _, err := auth.NewLocalProvider(db).CreateUser(defaultAdminName, "", defaultAdminPassword, admin.ID); err != nil {
		return err
	}

	log.Warn().Str("username", defaultAdminName).Msg("created default admin user, change its password")

	return nil
}
