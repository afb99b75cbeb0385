package api

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Role            Role   `json:"role"`
}

// RegisterResponse представляет ответ на успешную регистрацию.
// Сервер не выдает токены при регистрации: сначала нужно подтвердить email.
type RegisterResponse struct {
	User    *User  `json:"user,omitempty"`
	Message string `json:"message"`
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Tokens содержит пару токенов, выданную сервером
type Tokens struct {
	Access  string `json:"access"`  // JWT access token
	Refresh string `json:"refresh"` // refresh token
}

// LoginResponse представляет ответ с токенами и пользователем
type LoginResponse struct {
	Tokens Tokens `json:"tokens"`
	User   User   `json:"user"`
}

// MeResponse представляет ответ GET /me/
type MeResponse struct {
	User User `json:"user"`
}

// EmailRequest используется для повторной отправки OTP и forgot-password
type EmailRequest struct {
	Email string `json:"email"`
}

// OTPRequest используется для подтверждения email и проверки кода сброса пароля
type OTPRequest struct {
	Email   string `json:"email"`
	OTPCode string `json:"otp_code"`
}

// ResetPasswordRequest завершает сброс пароля
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTPCode     string `json:"otp_code"`
	NewPassword string `json:"new_password"`
}

// ChangePasswordRequest меняет пароль авторизованного пользователя
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// MessageResponse - общий ответ сервера с сообщением
type MessageResponse struct {
	Message string `json:"message"`
}
