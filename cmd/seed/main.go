package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"ai-chatbot-be/internal/config"
	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/unitofwork"
	"ai-chatbot-be/internal/service"
	"ai-chatbot-be/pkg/database"
)

// Seeds a demo company with a chatbot and a small knowledge base, then
// prints the credentials needed to exercise the API by hand. Documents are
// created unembedded; POST /document/v1/:id/reindex or restart with the
// consumer running to index them.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(db)
	uow := uowFactory.NewUnitOfWork(ctx)

	company := entity.Company{
		Id:            uuid.New(),
		Name:          "Acme Corp",
		BrandToken:    "acme",
		BrandFullForm: "Acme Corporation",
	}
	if err := uow.CompanyRepository().Create(ctx, &company); err != nil {
		log.Fatalf("Failed to seed company: %v", err)
	}

	chatbotService := service.NewChatbotService(uowFactory)
	chatbot, err := chatbotService.Create(ctx, company.Id, &dto.CreateChatbotRequest{
		Name: "Acme Support",
	})
	if err != nil {
		log.Fatalf("Failed to seed chatbot: %v", err)
	}

	documents := []entity.Document{
		{
			Id:        uuid.New(),
			CompanyId: company.Id,
			Title:     "Pricing",
			Content:   "The starter plan costs $29 per month and includes one chatbot. The premium plan costs $99 per month, includes five chatbots, priority support and a custom domain.",
			Tags:      []string{"pricing"},
		},
		{
			Id:        uuid.New(),
			CompanyId: company.Id,
			Title:     "Contact",
			Content:   "You can reach Acme support at support@acme.example or by phone at +1 555 0100. Our office at 1 Acme Way is open Monday to Friday, 9am to 5pm.",
			Tags:      []string{"contact"},
		},
		{
			Id:        uuid.New(),
			CompanyId: company.Id,
			Title:     "Refund policy",
			Content:   "Subscriptions can be cancelled at any time. Refunds are issued pro rata for the unused part of the billing period when cancellation happens within 30 days.",
			Tags:      []string{"billing"},
		},
	}
	for i := range documents {
		if err := uow.DocumentRepository().Create(ctx, &documents[i]); err != nil {
			log.Fatalf("Failed to seed document %q: %v", documents[i].Title, err)
		}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"company_id": company.Id.String(),
		"exp":        time.Now().Add(30 * 24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		log.Fatalf("Failed to sign management token: %v", err)
	}

	log.Printf("Seeded company   : %s (%s)", company.Name, company.Id)
	log.Printf("Seeded chatbot   : %s", chatbot.Id)
	log.Printf("Widget key       : %s", chatbot.WidgetKey)
	log.Printf("Management token : %s", signed)
	log.Printf("Seeded %d documents (reindex to embed them)", len(documents))
}
