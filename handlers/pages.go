package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"nepal-reforms/app"
	"nepal-reforms/middleware"
	"nepal-reforms/models"
	"nepal-reforms/services"
	"nepal-reforms/templates/components"
	"nepal-reforms/templates/pages"
	"nepal-reforms/validator"
)

const homePageSize = 12

func newForm(values map[string]string, errs validator.FormErrors) components.Form {
	f := components.NewForm()
	for k, v := range values {
		f.Values[k] = v
	}
	for k, v := range errs {
		f.Errors[k] = v
	}
	return f
}

// HomePage renders the landing page with the newest agendas
func HomePage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.GetUserID(c)
		lang := middleware.GetLanguage(c)
		category := strings.TrimSpace(c.Query("category"))
		offset := c.QueryInt("offset", 0)
		if offset < 0 {
			offset = 0
		}

		agendas, err := a.OpinionService.List(models.AgendaFilter{
			Category: category,
			Limit:    homePageSize + 1,
			Offset:   offset,
		})
		if err != nil {
			return err
		}

		hasMore := len(agendas) > homePageSize
		if hasMore {
			agendas = agendas[:homePageSize]
		}

		views, err := agendaViews(a, agendas, userID)
		if err != nil {
			return err
		}

		return render(c, pages.Home(newPage(c, a, "homepage.title"), pages.HomeData{
			Agendas:    views,
			Categories: a.OpinionService.Categories(lang),
			Category:   category,
			NextOffset: offset + homePageSize,
			HasMore:    hasMore,
		}))
	}
}

func agendaViews(a *app.App, agendas []models.Agenda, userID string) ([]components.AgendaView, error) {
	ids := make([]string, len(agendas))
	for i, agenda := range agendas {
		ids[i] = agenda.ID
	}

	votes, err := a.VoteService.GetBatch(ids, userID)
	if err != nil {
		return nil, err
	}

	views := make([]components.AgendaView, len(agendas))
	for i, agenda := range agendas {
		views[i] = components.AgendaView{Agenda: agenda, Votes: votes[agenda.ID]}
	}
	return views, nil
}

// SignUpPage renders the registration form
func SignUpPage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return render(c, pages.SignUp(newPage(c, a, "signup.title"), components.NewForm(), a.Config.SignupEnabled))
	}
}

// SignUpSubmit handles the no-JS registration form
func SignUpSubmit(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.SignUpRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}

		values := map[string]string{"full_name": req.FullName, "email": req.Email}
		rerender := func(errs validator.FormErrors) error {
			p := newPage(c, a, "signup.title")
			return renderStatus(c, fiber.StatusUnprocessableEntity, pages.SignUp(p, newForm(values, errs), a.Config.SignupEnabled))
		}

		if errs := a.Validator.ValidateForm(&req, validator.SignUpMessages); errs != nil {
			return rerender(errs)
		}

		user, err := a.AuthService.SignUp(&req, middleware.GetLanguage(c))
		if err != nil {
			field, key := services.AuthErrorField(err, "signup")
			if strings.HasSuffix(key, "unexpectedError") {
				a.Logger.Error("sign-up failed", "error", err)
			}
			return rerender(validator.FormErrors{field: key})
		}

		if !user.Confirmed() {
			return render(c, pages.SignUpSuccess(newPage(c, a, "signupSuccess.title"), true))
		}

		sess, err := a.AuthService.Login(user.Email, req.Password)
		if err != nil {
			return err
		}
		setSessionCookie(c, a, sess)
		middleware.SetFlash(c, "success", "common:toast.welcome")
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

// SignUpSuccessPage is where the browser script lands after an API sign-up
func SignUpSuccessPage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return render(c, pages.SignUpSuccess(newPage(c, a, "signupSuccess.title"), a.Config.RequireEmailConfirmation))
	}
}

// LoginPage renders the sign-in form
func LoginPage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		next := middleware.SafeNext(c.Query("next"), "")
		return render(c, pages.Login(newPage(c, a, "login.title"), components.NewForm(), next))
	}
}

// LoginSubmit handles the no-JS sign-in form
func LoginSubmit(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
		next := middleware.SafeNext(c.FormValue("next"), "")

		rerender := func(errs validator.FormErrors) error {
			p := newPage(c, a, "login.title")
			form := newForm(map[string]string{"email": req.Email}, errs)
			return renderStatus(c, fiber.StatusUnprocessableEntity, pages.Login(p, form, next))
		}

		if errs := a.Validator.ValidateForm(&req, validator.LoginMessages); errs != nil {
			return rerender(errs)
		}

		sess, err := a.AuthService.Login(strings.TrimSpace(req.Email), req.Password)
		if err != nil {
			field, key := services.AuthErrorField(err, "login")
			if strings.HasSuffix(key, "unexpectedError") {
				a.Logger.Error("login failed", "error", err)
			}
			return rerender(validator.FormErrors{field: key})
		}

		setSessionCookie(c, a, sess)
		middleware.SetFlash(c, "success", "common:toast.signedIn")
		return c.Redirect(middleware.SafeNext(next, "/"), fiber.StatusSeeOther)
	}
}

// ForgotPasswordPage renders the recovery request form
func ForgotPasswordPage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return render(c, pages.ForgotPassword(newPage(c, a, "forgotPassword.title"), components.NewForm(), false))
	}
}

// ForgotPasswordSubmit sends the recovery email and confirms it was sent
func ForgotPasswordSubmit(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.ForgotPasswordRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}

		p := newPage(c, a, "forgotPassword.title")
		if errs := a.Validator.ValidateForm(&req, validator.ForgotPasswordMessages); errs != nil {
			form := newForm(map[string]string{"email": req.Email}, errs)
			return renderStatus(c, fiber.StatusUnprocessableEntity, pages.ForgotPassword(p, form, false))
		}

		if err := a.AuthService.RequestPasswordReset(req.Email); err != nil {
			field, key := services.AuthErrorField(err, "forgotPassword")
			if errors.Is(err, services.ErrInvalidEmail) {
				key = "forgotPassword.emailInvalid"
			} else {
				a.Logger.Error("password reset request failed", "error", err)
			}
			form := newForm(map[string]string{"email": req.Email}, validator.FormErrors{field: key})
			return renderStatus(c, fiber.StatusUnprocessableEntity, pages.ForgotPassword(p, form, false))
		}

		return render(c, pages.ForgotPassword(p, components.NewForm(), true))
	}
}

// ResetPasswordPage renders the new password form. A recovery link must be
// valid; without one only signed-in users may change their password here.
func ResetPasswordPage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("token")

		if token == "" {
			if middleware.GetUserID(c) == "" {
				return c.Redirect("/auth/forgot-password", fiber.StatusSeeOther)
			}
		} else if _, err := a.AuthService.VerifyResetToken(token); err != nil {
			if !errors.Is(err, services.ErrResetTokenInvalid) {
				a.Logger.Error("reset token lookup failed", "error", err)
			}
			middleware.SetFlash(c, "error", "resetPassword.resetLinkExpired")
			return c.Redirect("/auth/forgot-password", fiber.StatusSeeOther)
		}

		return render(c, pages.ResetPassword(newPage(c, a, "resetPassword.title"), components.NewForm(), token))
	}
}

// ResetPasswordSubmit stores the new password from either the recovery link or
// the signed-in form.
func ResetPasswordSubmit(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.ResetPasswordRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}

		sess := middleware.GetSession(c)
		if req.Token == "" && sess == nil {
			return c.Redirect("/auth/forgot-password", fiber.StatusSeeOther)
		}

		rerender := func(errs validator.FormErrors) error {
			p := newPage(c, a, "resetPassword.title")
			return renderStatus(c, fiber.StatusUnprocessableEntity, pages.ResetPassword(p, newForm(nil, errs), req.Token))
		}

		if errs := a.Validator.ValidateForm(&req, validator.ResetPasswordMessages); errs != nil {
			return rerender(errs)
		}

		if req.Token != "" {
			newSess, err := a.AuthService.ResetPassword(req.Token, req.Password)
			if err != nil {
				field, key := services.AuthErrorField(err, "resetPassword")
				if errors.Is(err, services.ErrWeakPassword) {
					key = "resetPassword.passwordInvalid"
				}
				return rerender(validator.FormErrors{field: key})
			}
			setSessionCookie(c, a, newSess)
		} else if err := a.AuthService.UpdatePassword(sess.UserID, sess.ID, req.Password); err != nil {
			field, key := services.AuthErrorField(err, "resetPassword")
			if errors.Is(err, services.ErrWeakPassword) {
				key = "resetPassword.passwordInvalid"
			}
			return rerender(validator.FormErrors{field: key})
		}

		middleware.SetFlash(c, "success", "common:toast.passwordUpdated")
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

// CreateOpinionPage renders the opinion form
func CreateOpinionPage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lang := middleware.GetLanguage(c)
		form := components.NewForm()
		form.Values["priority_level"] = a.OpinionService.DefaultPriority(lang)
		return render(c, pages.CreateOpinion(newPage(c, a, "opinionCreation.title"), form, opinionOptions(a, lang)))
	}
}

// CreateOpinionSubmit stores an opinion posted by the no-JS form
func CreateOpinionSubmit(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lang := middleware.GetLanguage(c)
		req, form := parseOpinionForm(c)

		rerender := func(errs validator.FormErrors) error {
			for k, v := range errs {
				form.Errors[k] = v
			}
			p := newPage(c, a, "opinionCreation.title")
			return renderStatus(c, fiber.StatusUnprocessableEntity, pages.CreateOpinion(p, form, opinionOptions(a, lang)))
		}

		if errs := a.Validator.ValidateForm(&req, validator.OpinionMessages); errs != nil {
			return rerender(errs)
		}

		agenda, err := a.OpinionService.Submit(middleware.GetUserID(c), &req, lang)
		if err != nil {
			if errors.Is(err, services.ErrInvalidAgenda) {
				return rerender(validator.FormErrors{"general": "opinionCreation.errors.requiredFields"})
			}
			a.Logger.Error("failed to submit opinion", "error", err)
			return rerender(validator.FormErrors{"general": "opinionCreation.errors.unexpectedError"})
		}

		middleware.SetFlash(c, "success", "common:toast.opinionSubmitted")
		return c.Redirect("/agendas/"+agenda.ID, fiber.StatusSeeOther)
	}
}

func opinionOptions(a *app.App, lang string) pages.OpinionForm {
	return pages.OpinionForm{
		Categories:     a.OpinionService.Categories(lang),
		PriorityLevels: a.OpinionService.PriorityLevels(lang),
	}
}

var opinionListFields = []string{"key_points", "proposed_solutions", "expected_outcomes", "stakeholders", "references"}

// parseOpinionForm reads the urlencoded opinion form. List fields repeat their
// name once per row; tags are one comma separated input.
func parseOpinionForm(c *fiber.Ctx) (models.CreateAgendaRequest, components.Form) {
	form := components.NewForm()
	for _, name := range []string{"title", "description", "problem_statement", "category", "priority_level", "implementation_timeline", "tags"} {
		form.Values[name] = c.FormValue(name)
	}

	args := c.Request().PostArgs()
	for _, name := range opinionListFields {
		var items []string
		for _, v := range args.PeekMulti(name) {
			items = append(items, string(v))
		}
		form.Lists[name] = services.CleanList(items)
	}

	req := models.CreateAgendaRequest{
		Title:                  strings.TrimSpace(form.Values["title"]),
		Description:            strings.TrimSpace(form.Values["description"]),
		ProblemStatement:       strings.TrimSpace(form.Values["problem_statement"]),
		Category:               strings.TrimSpace(form.Values["category"]),
		PriorityLevel:          strings.TrimSpace(form.Values["priority_level"]),
		ImplementationTimeline: strings.TrimSpace(form.Values["implementation_timeline"]),
		KeyPoints:              form.Lists["key_points"],
		ProposedSolutions:      form.Lists["proposed_solutions"],
		ExpectedOutcomes:       form.Lists["expected_outcomes"],
		Stakeholders:           form.Lists["stakeholders"],
		References:             form.Lists["references"],
		Tags:                   services.CleanTags(strings.Split(form.Values["tags"], ",")),
	}
	return req, form
}

// AgendaPage renders one agenda with its votes
func AgendaPage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.GetUserID(c)

		agenda, err := a.OpinionService.Get(c.Params("id"))
		if errors.Is(err, services.ErrAgendaNotFound) {
			return renderStatus(c, fiber.StatusNotFound, pages.NotFound(newPage(c, a, "errors.notFound.title")))
		}
		if err != nil {
			return err
		}

		votes, err := a.VoteService.Get(agenda.ID, userID)
		if err != nil {
			return err
		}

		view := components.AgendaView{Agenda: *agenda, Votes: *votes}
		return render(c, pages.AgendaDetail(newPage(c, a, "agenda.title"), view, userID != "" && userID == agenda.UserID))
	}
}

// SubmitAgendaPage moves the owner's draft to Submitted
func SubmitAgendaPage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		_, err := a.OpinionService.UpdateStatus(middleware.GetUserID(c), id, models.AgendaStatusSubmitted)
		if err != nil {
			return agendaPageError(c, a, err)
		}

		middleware.SetFlash(c, "success", "common:toast.agendaSubmitted")
		return c.Redirect("/agendas/"+id, fiber.StatusSeeOther)
	}
}

// DeleteAgendaPage deletes the owner's draft
func DeleteAgendaPage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := a.OpinionService.Delete(middleware.GetUserID(c), c.Params("id")); err != nil {
			return agendaPageError(c, a, err)
		}

		middleware.SetFlash(c, "success", "common:toast.agendaDeleted")
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

func agendaPageError(c *fiber.Ctx, a *app.App, err error) error {
	switch {
	case errors.Is(err, services.ErrAgendaNotFound):
		return renderStatus(c, fiber.StatusNotFound, pages.NotFound(newPage(c, a, "errors.notFound.title")))
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrInvalidStatusTransition):
		middleware.SetFlash(c, "error", "common:toast.actionNotAllowed")
		return c.Redirect("/agendas/"+c.Params("id"), fiber.StatusSeeOther)
	default:
		return err
	}
}

// NotFoundPage answers unmatched routes: JSON under /api, a page elsewhere
func NotFoundPage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return notFound(c, "Not found")
		}
		return renderStatus(c, fiber.StatusNotFound, pages.NotFound(newPage(c, a, "errors.notFound.title")))
	}
}
