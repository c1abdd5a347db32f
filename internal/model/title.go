package model

import "fmt"

type MediaType = string

const (
	MediaMovie MediaType = "movie"
	MediaTV    MediaType = "tv"
)

// PoolItem is one candidate title inside a session's frozen pool.
// Position is the original pool order and serves as the last tie-break.
type PoolItem struct {
	TitleID    string
	MediaType  MediaType
	Position   int
	Title      string
	PosterLink string
	Rating     float64
	Year       int
	Genres     []string
}

// Key is the wire identity of a pool item inside vote maps.
func (p PoolItem) Key() string {
	return fmt.Sprintf("%s:%s", p.TitleID, p.MediaType)
}
