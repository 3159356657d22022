package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"nepal-reforms/app"
	"nepal-reforms/middleware"
	"nepal-reforms/models"
	"nepal-reforms/services"
)

func voteResponse(a *app.App, data *models.VoteData) fiber.Map {
	return fiber.Map{
		"likes":    data.Likes,
		"dislikes": data.Dislikes,
		"userVote": data.UserVote,
		"stats":    a.VoteService.Stats(*data),
	}
}

// GetVotes returns the tally for an agenda and the caller's vote
func GetVotes(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := a.VoteService.Get(c.Params("id"), middleware.GetUserID(c))
		if errors.Is(err, services.ErrAgendaNotFound) {
			return notFound(c, "Agenda not found")
		}
		if err != nil {
			return serverErrorWithDetails(c, "Failed to load votes", err)
		}
		return success(c, voteResponse(a, data))
	}
}

// CastVote records a click on the like or dislike button
func CastVote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CastVoteRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		data, err := a.VoteService.Cast(c.Params("id"), middleware.GetUserID(c), models.VoteType(req.VoteType))
		switch {
		case errors.Is(err, services.ErrAgendaNotFound):
			return notFound(c, "Agenda not found")
		case errors.Is(err, services.ErrUnauthorized):
			return unauthorized(c, "Authentication required")
		case errors.Is(err, services.ErrInvalidVote):
			return badRequest(c, err.Error())
		case err != nil:
			return serverErrorWithDetails(c, "Failed to record vote", err)
		}

		return success(c, voteResponse(a, data))
	}
}
