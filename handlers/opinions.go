package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"nepal-reforms/app"
	"nepal-reforms/middleware"
	"nepal-reforms/models"
	"nepal-reforms/services"
	"nepal-reforms/validator"
)

func agendaError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrAgendaNotFound):
		return notFound(c, "Agenda not found")
	case errors.Is(err, services.ErrForbidden):
		return forbidden(c, "You can only change your own agendas")
	case errors.Is(err, services.ErrInvalidStatusTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Only drafts can be changed"})
	case errors.Is(err, services.ErrInvalidAgenda):
		return badRequest(c, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		return unauthorized(c, "Authentication required")
	default:
		return serverErrorWithDetails(c, "Failed to process agenda", err)
	}
}

// ListAgendas returns agendas newest first
func ListAgendas(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := models.AgendaFilter{
			Category: c.Query("category"),
			Status:   models.AgendaStatus(c.Query("status")),
			Limit:    c.QueryInt("limit", services.DefaultListLimit),
			Offset:   c.QueryInt("offset", 0),
		}
		if c.QueryBool("mine") {
			filter.UserID = middleware.GetUserID(c)
			if filter.UserID == "" {
				return unauthorized(c, "Authentication required")
			}
		}

		agendas, err := a.OpinionService.List(filter)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to list agendas", err)
		}

		filter = services.NormalizeFilter(filter)
		return success(c, fiber.Map{
			"agendas": agendas,
			"limit":   filter.Limit,
			"offset":  filter.Offset,
		})
	}
}

// GetAgenda returns one agenda with its vote tally
func GetAgenda(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		agenda, err := a.OpinionService.Get(c.Params("id"))
		if err != nil {
			return agendaError(c, err)
		}

		votes, err := a.VoteService.Get(agenda.ID, middleware.GetUserID(c))
		if err != nil {
			return agendaError(c, err)
		}

		return success(c, fiber.Map{
			"agenda": agenda,
			"votes":  votes,
			"stats":  a.VoteService.Stats(*votes),
		})
	}
}

// CreateAgenda stores a new opinion as a draft
func CreateAgenda(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateAgendaRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if errs := a.Validator.ValidateForm(&req, validator.OpinionMessages); errs != nil {
			return formErrors(c, a, errs)
		}

		agenda, err := a.OpinionService.Submit(middleware.GetUserID(c), &req, middleware.GetLanguage(c))
		if err != nil {
			return agendaError(c, err)
		}

		return created(c, fiber.Map{"agenda": agenda})
	}
}

// UpdateAgendaStatus lets the owner submit a draft for review
func UpdateAgendaStatus(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdateAgendaStatusRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		agenda, err := a.OpinionService.UpdateStatus(middleware.GetUserID(c), c.Params("id"), models.AgendaStatus(req.Status))
		if err != nil {
			return agendaError(c, err)
		}

		return success(c, fiber.Map{"agenda": agenda})
	}
}

// DeleteAgenda removes the owner's draft
func DeleteAgenda(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.OpinionService.Delete(middleware.GetUserID(c), c.Params("id")); err != nil {
			return agendaError(c, err)
		}
		return success(c, fiber.Map{"success": true})
	}
}
