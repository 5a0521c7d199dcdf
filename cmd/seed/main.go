package main

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveyhub/internal/config"
	"surveyhub/internal/model"
	"surveyhub/internal/repository"
	"surveyhub/internal/service"
)

// Seeds a local database with an admin account and a published demo
// survey so the API is explorable right after `docker compose up`.
func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB)

	userRepo := repository.NewUserRepo(db)
	profileRepo := repository.NewProfileRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	surveyRepo := repository.NewSurveyRepo(db)
	questionRepo := repository.NewQuestionRepo(db)
	optionRepo := repository.NewOptionRepo(db)
	responseRepo := repository.NewResponseRepo(db)
	itemRepo := repository.NewResponseItemRepo(db)

	auditor := service.NewAuditor(auditRepo)
	authSvc := service.NewAuthService(userRepo, profileRepo, roleRepo, auditor, cfg.JWTSecret)
	surveySvc := service.NewSurveyService(surveyRepo, questionRepo, optionRepo, responseRepo, itemRepo, nil, nil, auditor)

	const adminEmail = "admin@surveyhub.local"

	reg, err := authSvc.Register(ctx, &model.RegisterRequest{
		Email:       adminEmail,
		Password:    "admin123",
		DisplayName: "Admin",
	})
	if err != nil {
		if !errors.Is(err, service.ErrEmailTaken) {
			log.Fatalf("Failed to create admin account: %v", err)
		}
		log.Println("Admin account already exists, skipping")
		return
	}
	if err := roleRepo.Upsert(ctx, reg.UserID, model.RoleAdmin); err != nil {
		log.Fatalf("Failed to assign admin role: %v", err)
	}
	log.Printf("Created admin account %s (id=%s)", adminEmail, reg.UserID)

	draft := &service.Draft{
		Title:       "Smartphone Launch Feedback",
		Description: "Tell us what you think of the new device.",
		Questions: []service.QuestionDraft{
			{
				Type:     model.QuestionTypeLikert,
				Text:     "How satisfied are you with this smartphone overall?",
				Required: true,
			},
			{
				Type:     model.QuestionTypeSingle,
				Text:     "Which model did you purchase?",
				Required: true,
				Options: []model.Option{
					{Label: "Standard"},
					{Label: "Pro"},
					{Label: "Pro Max"},
				},
			},
			{
				Type: model.QuestionTypeMultiple,
				Text: "Which features do you use daily?",
				Options: []model.Option{
					{Label: "Camera"},
					{Label: "Face unlock"},
					{Label: "Wireless charging"},
					{Label: "Voice assistant"},
				},
			},
			{
				Type: model.QuestionTypeText,
				Text: "What should we improve first?",
			},
		},
	}

	survey, err := surveySvc.Save(ctx, reg.UserID, "", draft)
	if err != nil {
		log.Fatalf("Failed to create demo survey: %v", err)
	}
	if _, err := surveySvc.Publish(ctx, reg.UserID, survey.ID); err != nil {
		log.Fatalf("Failed to publish demo survey: %v", err)
	}

	log.Printf("Seeded demo survey %q", survey.Title)
	log.Printf("  public URL: /v1/public/surveys/%s", survey.PublicSlug)
}
