package bootstrap

import (
	"log"

	"anoa.com/campusbridge/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOfficialUser creates the bootstrap official account so development
// environments have someone able to manage users.
func SeedOfficialUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@campusbridge.local").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Official user already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	position := "Administrator"
	official := model.User{
		FullName:     "System Administrator",
		Email:        "admin@campusbridge.local",
		PasswordHash: string(hashedPasswordBytes),
		Role:         model.RoleOfficial,
		Position:     &position,
	}

	if err := db.Create(&official).Error; err != nil {
		return err
	}

	log.Println("✅ Official user seeded successfully")
	log.Println("   Email: admin@campusbridge.local")
	log.Println("   Password: admin123")

	return nil
}
