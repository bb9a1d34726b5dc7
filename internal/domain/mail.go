package domain

const (
	MailTypeCreateUser    = "create_user"
	MailTypeResetPassword = "reset_password"
	MailTypeDisposition   = "disposition"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type DispositionMailData struct {
	FullName      string `json:"fullName"`
	LetterSubject string `json:"letterSubject"`
	LetterNumber  string `json:"letterNumber"`
	DispositionTo string `json:"dispositionTo"`
	Instructions  string `json:"instructions"`
	Deadline      string `json:"deadline"`
}
