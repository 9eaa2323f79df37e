package store

import (
	"time"

	"github.com/grvbrk/vidplay/internal/models"
)

// SeedVideos returns the demo catalogue loaded into the memory store at
// startup.
func SeedVideos(now time.Time) []models.Video {
	return []models.Video{
		{
			ID:           "1",
			Title:        "Introduction to Next.js",
			Description:  "Learn the basics of Next.js and how to build modern web applications with React.",
			Duration:     320,
			Category:     "education",
			URL:          "https://storage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4",
			ThumbnailURL: "https://images.unsplash.com/photo-1633356122544-f134324a6cee?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           "2",
			Title:        "Building with Tailwind CSS",
			Description:  "Master Tailwind CSS and learn how to build beautiful, responsive UIs.",
			Duration:     450,
			Category:     "education",
			URL:          "https://storage.googleapis.com/gtv-videos-bucket/sample/ElephantsDream.mp4",
			ThumbnailURL: "https://images.unsplash.com/photo-1587620962725-abab7fe55159?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           "3",
			Title:        "React Hooks Explained",
			Description:  "Deep dive into React Hooks and how to use them effectively in your applications.",
			Duration:     280,
			Category:     "education",
			URL:          "https://storage.googleapis.com/gtv-videos-bucket/sample/ForBiggerBlazes.mp4",
			ThumbnailURL: "https://images.unsplash.com/photo-1633356122102-3fe601e05bd2?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}

func SeedPlaylists(now time.Time) []models.Playlist {
	return []models.Playlist{
		{
			ID:          "1",
			Title:       "Web Development Basics",
			Description: "A comprehensive playlist covering the fundamentals of modern web development.",
			Videos: []models.PlaylistVideo{
				{ID: "pv-1", VideoID: "1", PlaylistID: "1", Order: 0},
				{ID: "pv-2", VideoID: "2", PlaylistID: "1", Order: 1},
				{ID: "pv-3", VideoID: "3", PlaylistID: "1", Order: 2},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          "2",
			Title:       "React Advanced Concepts",
			Description: "Deep dive into advanced React patterns and techniques.",
			Videos: []models.PlaylistVideo{
				{ID: "pv-4", VideoID: "3", PlaylistID: "2", Order: 0},
				{ID: "pv-5", VideoID: "1", PlaylistID: "2", Order: 1},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}
