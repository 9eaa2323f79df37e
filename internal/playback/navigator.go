package playback

import (
	"github.com/grvbrk/vidplay/internal/models"
)

// Item is a playlist entry joined with the video it points at.
type Item struct {
	Entry models.PlaylistVideo `json:"entry"`
	Video models.Video         `json:"video"`
}

// Resolve joins entries with the catalogue, keeping playlist order. Entries
// whose video no longer exists are dropped.
func Resolve(entries []models.PlaylistVideo, videos []models.Video) []Item {
	byID := make(map[string]models.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}

	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		v, ok := byID[e.VideoID]
		if !ok {
			continue
		}
		items = append(items, Item{Entry: e, Video: v})
	}
	return items
}

// Navigator tracks the current position inside a resolved playlist.
type Navigator struct {
	items []Item
	index int
}

// NewNavigator clamps index into the valid range so a stale index from a
// previous, longer playlist still lands on a real item.
func NewNavigator(items []Item, index int) *Navigator {
	n := &Navigator{items: items}
	n.index = n.clamp(index)
	return n
}

func (n *Navigator) clamp(i int) int {
	if i >= len(n.items) {
		i = len(n.items) - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (n *Navigator) Advance() {
	if n.index < len(n.items)-1 {
		n.index++
	}
}

func (n *Navigator) Retreat() {
	if n.index > 0 {
		n.index--
	}
}

// JumpTo sets the index as given. Callers reject out-of-range values first.
func (n *Navigator) JumpTo(i int) {
	n.index = i
}

func (n *Navigator) InRange(i int) bool {
	return i >= 0 && i < len(n.items)
}

func (n *Navigator) Index() int { return n.index }

func (n *Navigator) Len() int { return len(n.items) }

func (n *Navigator) Items() []Item { return n.items }

func (n *Navigator) HasNext() bool { return n.index < len(n.items)-1 }

func (n *Navigator) HasPrevious() bool { return n.index > 0 }

// Current returns the video at the index, or nil for an empty playlist.
func (n *Navigator) Current() *models.Video {
	if !n.InRange(n.index) {
		return nil
	}
	v := n.items[n.index].Video
	return &v
}
