package models

import (
	"time"
)

// User is keyed by the email the session token was issued for.
type User struct {
	ID          string    `json:"id" msgpack:"id"`
	DisplayName string    `json:"display_name" msgpack:"display_name"`
	EVMWallet   *string   `json:"evm_wallet" msgpack:"evm_wallet"`
	TONWallet   *string   `json:"ton_wallet" msgpack:"ton_wallet"`
	TelegramID  int64     `json:"telegram_id,omitempty" msgpack:"telegram_id"`
	CreatedAt   time.Time `json:"created_at" msgpack:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" msgpack:"updated_at"`

	IsNewUser bool `msgpack:"-" json:"is_new_user"`
}

// UserFromAuth only use in middleware
type UserFromAuth struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
