package models

import (
	"time"
)

type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Duration     int       `json:"duration"`
	Category     string    `json:"category"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// VideoPatch carries a partial update. A nil field was absent from the
// request; a non-nil field overwrites even when it holds a zero value.
type VideoPatch struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Duration     *int    `json:"duration"`
	Category     *string `json:"category"`
	URL          *string `json:"url"`
	ThumbnailURL *string `json:"thumbnailUrl"`
}

func (v *Video) Apply(p VideoPatch, now time.Time) {
	if p.Title != nil {
		v.Title = *p.Title
	}
	if p.Description != nil {
		v.Description = *p.Description
	}
	if p.Duration != nil {
		v.Duration = *p.Duration
	}
	if p.Category != nil {
		v.Category = *p.Category
	}
	if p.URL != nil {
		v.URL = *p.URL
	}
	if p.ThumbnailURL != nil {
		v.ThumbnailURL = *p.ThumbnailURL
	}
	v.UpdatedAt = now
}
