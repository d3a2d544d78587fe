package models

import "time"

// ImageRef — ссылка на загруженный объект в хранилище.
type ImageRef struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

type Checkin struct {
	ID     int64 `json:"id"`
	UserID int   `json:"user_id"`

	// Date/Time хранятся строками в формате исходного клиента:
	// "1/2/2006" и "3:04:05 PM".
	Date string `json:"date"`
	Time string `json:"time"`

	Location string    `json:"location"` // всегда lower-case
	Image    *ImageRef `json:"image,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type CheckinRequest struct {
	Location string `form:"location" binding:"required"`
}
