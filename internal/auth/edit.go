package auth

// EditIntent is the single change a profile edit request asks for. It is
// decided once from the request body; a body naming more than one attribute
// class, or none, becomes NoOpEdit.
type EditIntent interface {
	editIntent()
}

// UsernameEdit renames the account.
type UsernameEdit struct{ Username string }

// EmailEdit changes the account email.
type EmailEdit struct{ Email string }

// PasswordEdit replaces the password; both fields are required.
type PasswordEdit struct{ Password, ConfirmPassword string }

// NoOpEdit changes nothing.
type NoOpEdit struct{}

func (UsernameEdit) editIntent() {}
func (EmailEdit) editIntent()    {}
func (PasswordEdit) editIntent() {}
func (NoOpEdit) editIntent()     {}

// EditRequest is the raw profile edit body.
type EditRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Intent classifies the request. Exactly one attribute class may be set.
func (r EditRequest) Intent() EditIntent {
	hasUsername := r.Username != ""
	hasEmail := r.Email != ""
	hasPassword := r.Password != "" || r.ConfirmPassword != ""

	switch {
	case hasUsername && !hasEmail && !hasPassword:
		return UsernameEdit{Username: r.Username}
	case hasEmail && !hasUsername && !hasPassword:
		return EmailEdit{Email: r.Email}
	case hasPassword && !hasUsername && !hasEmail && r.Password != "" && r.ConfirmPassword != "":
		return PasswordEdit{Password: r.Password, ConfirmPassword: r.ConfirmPassword}
	default:
		return NoOpEdit{}
	}
}
