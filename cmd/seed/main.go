package main

import (
	"errors"
	"fmt"
	"os"

	"geekplay/pkg/config"
	"geekplay/pkg/database"
	"geekplay/pkg/logger"
	"geekplay/pkg/models"
	"geekplay/pkg/password"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedUser struct {
	name     string
	email    string
	password string
	role     models.UserRole
	banned   bool
	reason   string
}

var testUsers = []seedUser{
	{name: "Ana", email: "ana@geekplay.com", password: "password123", role: models.RoleAdmin},
	{name: "Bob", email: "bob@test.com", password: "password123", role: models.RoleUser},
	{name: "Cleo", email: "cleo@test.com", password: "password123", role: models.RoleUser},
	{name: "Eve", email: "eve@test.com", password: "password123", role: models.RoleUser, banned: true, reason: "spam"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.NewWithOptions(cfg.Environment, cfg.LogLevel, os.Stdout)
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, password.NewBcrypt(bcrypt.DefaultCost), log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, hasher *password.Bcrypt, log *logger.Logger) error {
	users := make([]*models.User, 0, len(testUsers))

	for _, userData := range testUsers {
		var existing models.User
		err := db.Where("email = ?", userData.email).First(&existing).Error
		if err == nil {
			log.Info("User %s already exists, skipping", userData.email)
			users = append(users, &existing)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up user %s: %w", userData.email, err)
		}

		hashed, err := hasher.Hash(userData.password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		user := &models.User{
			Name:     userData.name,
			Email:    userData.email,
			Password: hashed,
			Role:     userData.role,
			Banned:   userData.banned,
		}
		if userData.reason != "" {
			reason := userData.reason
			user.BanReason = &reason
		}

		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}
		log.Info("Created user: %s (%s, %s)", user.Name, user.Email, user.Role)
		users = append(users, user)
	}

	var postCount int64
	if err := db.Model(&models.Post{}).Count(&postCount).Error; err != nil {
		return fmt.Errorf("failed to count posts: %w", err)
	}
	if postCount > 0 {
		log.Info("Posts already seeded, skipping")
		return nil
	}

	bob, cleo := users[1], users[2]
	post := &models.Post{
		Title:    "Mi setup retro",
		Content:  "Os enseño mi colección de consolas.",
		AuthorID: bob.ID,
	}
	if err := db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	log.Info("Created post %d by %s", post.ID, bob.Name)

	comments := []*models.Comment{
		{Content: "¡Qué pasada de colección!", PostID: post.ID, AuthorID: cleo.ID, AuthorName: cleo.Name, AuthorAvatar: cleo.AvatarURL},
		{Content: "Gracias, Cleo.", PostID: post.ID, AuthorID: bob.ID, AuthorName: bob.Name, AuthorAvatar: bob.AvatarURL},
	}
	if err := db.Create(&comments).Error; err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Info("Created %d comments on post %d", len(comments), post.ID)

	return nil
}
