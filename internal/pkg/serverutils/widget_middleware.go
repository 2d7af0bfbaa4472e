package serverutils

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-chatbot-be/pkg/rag/retrieval"
)

// WidgetVerifier checks a widget key against its stored hash and returns the
// tenant scope the chatbot is allowed to search.
type WidgetVerifier func(ctx context.Context, chatbotID uuid.UUID, widgetKey string) (*retrieval.TenantScope, error)

// WidgetMiddleware authenticates embedded chat widgets. Widgets are keyed by
// chatbot id and a per-chatbot secret, not by a user account.
func WidgetMiddleware(verify WidgetVerifier) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		chatbotIdStr := ctx.Get("X-Chatbot-Id")
		widgetKey := ctx.Get("X-Widget-Key")
		if chatbotIdStr == "" || widgetKey == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing widget credentials"})
		}

		chatbotId, err := uuid.Parse(chatbotIdStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid chatbot id"})
		}

		scope, err := verify(ctx.Context(), chatbotId, widgetKey)
		if err != nil || scope == nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid widget key"})
		}

		ctx.Locals("tenant_scope", scope)
		return ctx.Next()
	}
}

// ScopeFromLocals pulls the tenant scope set by WidgetMiddleware.
func ScopeFromLocals(ctx *fiber.Ctx) *retrieval.TenantScope {
	if scope, ok := ctx.Locals("tenant_scope").(*retrieval.TenantScope); ok {
		return scope
	}
	return nil
}
