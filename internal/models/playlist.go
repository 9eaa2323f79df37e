package models

import (
	"time"
)

type Playlist struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Videos      []PlaylistVideo `json:"videos"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// PlaylistVideo binds a video to a playlist. VideoID is a plain reference:
// deleting the video leaves the entry in place. Order is taken as given and
// is not checked for gaps or duplicates.
type PlaylistVideo struct {
	ID         string `json:"id"`
	VideoID    string `json:"videoId"`
	PlaylistID string `json:"playlistId"`
	Order      int    `json:"order"`
}

// PlaylistVideoInput is an entry as sent by clients. Order is optional on
// create and defaults to the entry's position in the list.
type PlaylistVideoInput struct {
	ID      string `json:"id"`
	VideoID string `json:"videoId"`
	Order   *int   `json:"order"`
}

type PlaylistPatch struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Videos      *[]PlaylistVideoInput `json:"videos"`
}

// Apply merges p into pl. An empty title is ignored, a present description
// always overwrites, and a present video list replaces the current one.
// Entries without an id get one from newID.
func (pl *Playlist) Apply(p PlaylistPatch, now time.Time, newID func() string) {
	if p.Title != nil && *p.Title != "" {
		pl.Title = *p.Title
	}
	if p.Description != nil {
		pl.Description = *p.Description
	}
	if p.Videos != nil {
		pl.Videos = BuildEntries(pl.ID, *p.Videos, newID)
	}
	pl.UpdatedAt = now
}

// BuildEntries turns client input into entries owned by playlistID.
func BuildEntries(playlistID string, in []PlaylistVideoInput, newID func() string) []PlaylistVideo {
	entries := make([]PlaylistVideo, 0, len(in))
	for i, v := range in {
		order := i
		if v.Order != nil {
			order = *v.Order
		}
		id := v.ID
		if id == "" {
			id = newID()
		}
		entries = append(entries, PlaylistVideo{
			ID:         id,
			VideoID:    v.VideoID,
			PlaylistID: playlistID,
			Order:      order,
		})
	}
	return entries
}
