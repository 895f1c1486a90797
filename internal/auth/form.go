// Package auth holds the local sign-in form checks. Nothing is persisted and
// no credential is verified against any authority.
package auth

import "errors"

var (
	ErrMissingFields    = errors.New("required fields are missing")
	ErrPasswordMismatch = errors.New("password and confirmation differ")
)

const (
	DashboardPath = "/dashboard"

	MessageMissingFields    = "Please fill all fields!"
	MessagePasswordMismatch = "Passwords do not match!"
	MessageSignupSuccess    = "Signup successful! Please login."
)

// Message returns the text shown for a validation error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrMissingFields):
		return MessageMissingFields
	case errors.Is(err, ErrPasswordMismatch):
		return MessagePasswordMismatch
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}

type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

func (m Mode) String() string {
	if m == ModeSignup {
		return "signup"
	}
	return "login"
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignupInput struct {
	Name            string `json:"name"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func ValidateLogin(in LoginInput) error {
	if in.Username == "" || in.Password == "" {
		return ErrMissingFields
	}
	return nil
}

func ValidateSignup(in SignupInput) error {
	if in.Name == "" || in.Username == "" || in.Password == "" || in.ConfirmPassword == "" {
		return ErrMissingFields
	}
	if in.Password != in.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

// Outcome is what the view does after a submit: navigate, show a message, or both.
type Outcome struct {
	Navigate string
	Message  string
}

type Form struct {
	Mode            Mode
	Name            string
	Username        string
	Password        string
	ConfirmPassword string
}

func NewForm() *Form {
	return &Form{Mode: ModeLogin}
}

func (f *Form) Toggle() {
	if f.Mode == ModeLogin {
		f.Mode = ModeSignup
	} else {
		f.Mode = ModeLogin
	}
}

// Submit runs the checks for the current mode. A successful signup switches
// back to login and clears every field.
func (f *Form) Submit() (Outcome, error) {
	if f.Mode == ModeLogin {
		if err := ValidateLogin(LoginInput{Username: f.Username, Password: f.Password}); err != nil {
			return Outcome{Message: Message(err)}, err
		}
		return Outcome{Navigate: DashboardPath}, nil
	}

	err := ValidateSignup(SignupInput{
		Name:            f.Name,
		Username:        f.Username,
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
	})
	if err != nil {
		return Outcome{Message: Message(err)}, err
	}
	*f = Form{Mode: ModeLogin}
	return Outcome{Message: MessageSignupSuccess}, nil
}
