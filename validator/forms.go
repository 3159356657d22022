package validator

// FormErrors maps a form field to a translation key describing the problem.
// The "general" field holds errors that are not tied to a single input.
type FormErrors map[string]string

// FormMessages maps "field.tag" to a translation key.
type FormMessages map[string]string

var SignUpMessages = FormMessages{
	"full_name.notblank":       "signup.errors.fullNameRequired",
	"full_name.fullname":       "signup.errors.fullNameMin",
	"email.required":           "signup.errors.emailRequired",
	"email.emailaddr":          "signup.errors.emailInvalid",
	"password.required":        "signup.errors.passwordRequired",
	"password.password":        "signup.errors.passwordInvalid",
	"repeat_password.required": "signup.errors.repeatPasswordRequired",
	"repeat_password.eqfield":  "signup.errors.repeatPasswordMismatch",
}

var LoginMessages = FormMessages{
	"email.required":    "login.errors.emailRequired",
	"email.emailaddr":   "login.errors.emailInvalid",
	"password.required": "login.errors.passwordRequired",
}

var ForgotPasswordMessages = FormMessages{
	"email.required":  "forgotPassword.emailRequired",
	"email.emailaddr": "forgotPassword.emailInvalid",
}

var ResetPasswordMessages = FormMessages{
	"password.required":        "resetPassword.passwordRequired",
	"password.password":        "resetPassword.passwordInvalid",
	"repeat_password.required": "resetPassword.repeatPasswordRequired",
	"repeat_password.eqfield":  "resetPassword.passwordsMismatch",
}

var OpinionMessages = FormMessages{
	"title.required":             "opinionCreation.errors.titleRequired",
	"category.required":          "opinionCreation.errors.categoryRequired",
	"category.category":          "opinionCreation.errors.categoryInvalid",
	"problem_statement.required": "opinionCreation.errors.problemStatementRequired",
	"description.required":       "opinionCreation.errors.descriptionRequired",
}

// ValidateForm validates i and translates each failing field into a message key.
// The first failing rule per field wins. Rules missing from messages fall back to
// the plain English message.
func (v *Validator) ValidateForm(i interface{}, messages FormMessages) FormErrors {
	err := v.Validate(i)
	if err == nil {
		return nil
	}

	errs := FormErrors{}
	validationErrs, ok := err.(ValidationErrors)
	if !ok {
		errs["general"] = err.Error()
		return errs
	}

	for _, fe := range validationErrs {
		if _, seen := errs[fe.Field]; seen {
			continue
		}
		if key, ok := messages[fe.Field+"."+fe.Tag]; ok {
			errs[fe.Field] = key
		} else {
			errs[fe.Field] = fe.Message
		}
	}
	return errs
}
