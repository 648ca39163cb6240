package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/devconnector-api/config"
	"github.com/oksasatya/devconnector-api/internal/application"
	"github.com/oksasatya/devconnector-api/internal/container"
	"github.com/oksasatya/devconnector-api/internal/domain/entity"
	"github.com/oksasatya/devconnector-api/pkg/helpers"
)

type seedUser struct {
	name, email string
	profile     application.ProfileInput
	experience  entity.Experience
	post        string
}

const seedPassword = "password123"

var seedUsers = []seedUser{
	{
		name:  "Ann Developer",
		email: "ann@devconnector.local",
		profile: application.ProfileInput{
			Company:        "Acme",
			Location:       "Jakarta",
			Status:         "Senior Developer",
			Bio:            "Backend engineer.",
			GitHubUsername: "octocat",
			Skills:         "Go, PostgreSQL, MongoDB",
			Social:         map[string]string{"twitter": "https://twitter.com/ann"},
		},
		experience: entity.Experience{Title: "Backend Engineer", Company: "Acme", From: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), Current: true},
		post:       "Hello from the seed script!",
	},
	{
		name:  "Bob Designer",
		email: "bob@devconnector.local",
		profile: application.ProfileInput{
			Status: "Designer",
			Skills: "Figma, CSS",
		},
		experience: entity.Experience{Title: "UI Designer", Company: "Studio", From: time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), Current: true},
		post:       "Design systems are underrated.",
	},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	// seeding must not send real email
	cfg.RabbitMQURL = ""
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize dependencies")
	}
	defer c.Close()

	for _, su := range seedUsers {
		log := logger.WithField("email", su.email)
		_, err := c.UserService.Register(ctx, application.RegisterInput{Name: su.name, Email: su.email, Password: seedPassword})
		switch {
		case errors.Is(err, application.ErrUserExists):
			log.Info("user already seeded")
			continue
		case err != nil:
			log.WithError(err).Fatal("register")
		}
		token, err := c.UserService.Login(ctx, su.email, seedPassword)
		if err != nil {
			log.WithError(err).Fatal("login")
		}
		userID, err := c.Creds.Validate(token)
		if err != nil {
			log.WithError(err).Fatal("validate token")
		}

		if _, err := c.ProfileService.Upsert(ctx, userID, su.profile); err != nil {
			log.WithError(err).Fatal("profile")
		}
		if _, err := c.ProfileService.AddExperience(ctx, userID, su.experience); err != nil {
			log.WithError(err).Fatal("experience")
		}
		if _, err := c.PostService.Create(ctx, userID, su.post); err != nil {
			log.WithError(err).Fatal("post")
		}
		log.WithField("user_id", userID).Infof("seeded user (password=%s)", seedPassword)
	}
}
