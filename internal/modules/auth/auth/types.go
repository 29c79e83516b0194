package auth

import "errors"

type LoginDTO struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type RegisterDTO struct {
	Username string `json:"username" form:"username" binding:"required,min=3"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
	Name     string `json:"name"     form:"name"`
	Mail     string `json:"mail"     form:"mail"`
}

type loginResponse struct {
	Token string `json:"token"`
}

var (
	errUserNotFound    = errors.New("user not found")
	errWrongPassword   = errors.New("wrong password")
	errUsernameTaken   = errors.New("username already taken")
	errUsernameInvalid = errors.New("invalid username")
)
