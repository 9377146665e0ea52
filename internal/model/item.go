package model

// Item is one fetched video, flattened from the upstream detail response.
// Transient: produced by the API adapter, consumed once by the classifier.
type Item struct {
	VideoID      string
	Title        string
	Tags         []string
	Description  string
	ChannelID    string
	ChannelTitle string
	ViewCount    int64
}
