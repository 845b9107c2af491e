package dto

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	// Role defaults to admin.
	Role string
}
