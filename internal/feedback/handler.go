package feedback

import (
	"strings"

	"inventorylite-backend/internal/auth"
	"inventorylite-backend/internal/database"
	"inventorylite-backend/internal/listing"
	"inventorylite-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

var feedbackSearchCols = []string{"subject", "message"}

type CreateFeedbackRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
	Rating  int    `json:"rating"`
}

// POST /api/feedback
func CreateFeedbackHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateFeedbackRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Message = strings.TrimSpace(body.Message)
		if body.Message == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Message is required")
		}
		if body.Rating < 1 {
			body.Rating = 1
		}
		if body.Rating > 5 {
			body.Rating = 5
		}

		entry := models.Feedback{
			Base:    models.Base{UserID: userID, Status: models.StatusActive},
			Subject: strings.TrimSpace(body.Subject),
			Message: body.Message,
			Rating:  body.Rating,
		}

		if err := database.DB.Create(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save feedback")
		}

		return c.Status(fiber.StatusCreated).JSON(entry)
	}
}

func ListFeedbackHandler() fiber.Handler {
	return listing.ListHandler[models.Feedback](feedbackSearchCols)
}

func ArchiveFeedbackHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.Feedback]("feedback", models.StatusArchived)
}

func RestoreFeedbackHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.Feedback]("feedback", models.StatusActive)
}
