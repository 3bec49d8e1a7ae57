// Package dto defines the form payloads of the auth feature.
package dto

// LoginForm is the body of POST /login.
type LoginForm struct {
	UserName string `form:"user_name" binding:"required,notblank,max=20"`
	Password string `form:"password" binding:"required,notblank,max=60"`
}
