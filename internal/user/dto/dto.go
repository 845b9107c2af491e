package dto

import (
	"time"

	"github.com/fekuna/penstore/internal/model"
)

type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}
