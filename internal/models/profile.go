package models

import "time"

// Profile is user-editable profile data stored in Mongo and keyed by the
// identity provider's user ID.
type Profile struct {
	ID        string    `json:"id" bson:"_id"`
	Email     string    `json:"email" bson:"email,omitempty"`
	Username  string    `json:"username" bson:"username,omitempty"`
	FullName  string    `json:"full_name" bson:"full_name"`
	AvatarURL *string   `json:"avatar_url" bson:"avatar_url"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// UpdateProfileRequest carries the editable profile fields. Fields left nil
// are preserved on upsert.
type UpdateProfileRequest struct {
	Username  *string `json:"username"`
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// WeightSnapshot is the single weight entry attached to a profile on the
// users board.
type WeightSnapshot struct {
	Weight  float64 `json:"weight"`
	LogDate Date    `json:"log_date"`
}

// UserWithWeight is a profile with at most one weight entry for the
// requested date.
type UserWithWeight struct {
	Profile
	WeightLogs []WeightSnapshot `json:"weight_logs,omitempty"`
}
