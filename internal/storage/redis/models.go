package redis

import "chapkhane/internal/pricing"

// UserState is the Telegram dialog state of one chat.
type UserState struct {
	Step     string    `json:"step"`
	Userdata *UserData `json:"user_data,omitempty"`
	Draft    *Draft    `json:"draft,omitempty"`
}

// UserData survives dialog resets.
type UserData struct {
	Name        string `json:"name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Draft is the order being assembled in the chat.
type Draft struct {
	Spec pricing.OrderSpec `json:"spec"`
	// Page of the paper-size keyboard, for catalogs too long for one screen.
	Page  int    `json:"page,omitempty"`
	Notes string `json:"notes,omitempty"`
}
