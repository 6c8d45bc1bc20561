package domain

import "errors"

var (
	MessageSuccessRegister    = "user registered successfully"
	MessageSuccessLogin       = "login successful"
	MessageSuccessGetUsers    = "success get users"
	MessageSuccessGetUser     = "success get user"
	MessageSuccessSetPassword = "password changed successfully"
	MessageSuccessGetFollows  = "success get subscriptions"
	MessageSuccessSubscribe   = "subscribed successfully"
	MessageSuccessUnsubscribe = "unsubscribed successfully"

	MessageFailedRegister    = "failed to register user"
	MessageFailedLogin       = "failed to login"
	MessageFailedGetUsers    = "failed to get users"
	MessageFailedGetUser     = "failed to get user"
	MessageFailedSetPassword = "failed to change password"
	MessageFailedGetFollows  = "failed to get subscriptions"
	MessageFailedSubscribe   = "failed to subscribe"
	MessageFailedUnsubscribe = "failed to unsubscribe"

	MessageEmailTaken    = "user with this email already exists"
	MessageUsernameTaken = "user with this username already exists"
	MessageWrongPassword = "current password is incorrect"
	MessageInvalidLimit  = "recipes_limit must be a non-negative integer"

	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSelfFollow         = errors.New("cannot subscribe to yourself")
	ErrAlreadyFollowing   = errors.New("already subscribed to this author")
	ErrNotFollowing       = errors.New("not subscribed to this author")
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150,username"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8,max=150"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		AuthToken string `json:"auth_token"`
	}

	SetPasswordRequest struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8,max=150"`
	}

	User struct {
		Email        string `json:"email"`
		ID           uint   `json:"id"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
	}

	// Subscription is a followed author with a preview of their recipes.
	Subscription struct {
		User
		Recipes      []RecipeShort `json:"recipes"`
		RecipesCount int64         `json:"recipes_count"`
	}

	UserListResponse struct {
		Users      []User     `json:"users"`
		Pagination Pagination `json:"pagination"`
	}

	SubscriptionListResponse struct {
		Subscriptions []Subscription `json:"subscriptions"`
		Pagination    Pagination     `json:"pagination"`
	}
)
