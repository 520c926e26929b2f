package models

// WeightLog is one stored weight entry, unique per (user_id, log_date).
type WeightLog struct {
	UserID  string  `json:"user_id" bson:"user_id"`
	Weight  float64 `json:"weight" bson:"weight"`
	LogDate Date    `json:"log_date" bson:"log_date"`
}

// LogWeightRequest is the body of POST /api/weight. LogDate defaults to
// today when omitted.
type LogWeightRequest struct {
	Weight  float64 `json:"weight" validate:"required,gt=0,lt=1000"`
	LogDate *Date   `json:"log_date"`
}
