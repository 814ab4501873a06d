package state

import (
	"time"

	"github.com/google/uuid"
)

// NewsCap bounds the news feed. Older entries fall off the end.
const NewsCap = 50

// NewsType classifies a news entry for the client feed.
type NewsType string

const (
	NewsSystem        NewsType = "SYSTEM"
	NewsEvent         NewsType = "EVENT"
	NewsProject       NewsType = "PROJECT"
	NewsProjectUnlock NewsType = "PROJECT_UNLOCK"
	NewsProjectReady  NewsType = "PROJECT_READY"
)

// Severity of a news entry.
type Severity string

const (
	SeverityOK       Severity = "OK"
	SeverityWarn     Severity = "WARN"
	SeverityCritical Severity = "CRITICAL"
)

// NewsItem is one entry of the newest-first news feed.
type NewsItem struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	CreatedAt int64    `json:"createdAt"`
	Type      NewsType `json:"type,omitempty"`
	Severity  Severity `json:"severity,omitempty"`
}

// NewNewsID returns a fresh random news identifier.
func NewNewsID() string {
	return "news_" + uuid.NewString()
}

// Publish prepends a news entry with the given type and severity.
func (s *Save) Publish(text string, kind NewsType, sev Severity) NewsItem {
	return s.PublishItem(NewsItem{Text: text, Type: kind, Severity: sev})
}

// PublishItem prepends item, filling id, timestamp, type and severity when
// empty, and trims the feed to NewsCap.
func (s *Save) PublishItem(item NewsItem) NewsItem {
	if item.ID == "" {
		item.ID = NewNewsID()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().UnixMilli()
	}
	if item.Type == "" {
		item.Type = NewsSystem
	}
	if item.Severity == "" {
		item.Severity = SeverityOK
	}
	s.News = append([]NewsItem{item}, s.News...)
	if len(s.News) > NewsCap {
		s.News = s.News[:NewsCap]
	}
	return item
}

// NewsSince returns the entries newer than the entry with id lastID, oldest
// first. An unknown or empty lastID yields the whole feed.
func (s *Save) NewsSince(lastID string) []NewsItem {
	end := len(s.News)
	if lastID != "" {
		for i, n := range s.News {
			if n.ID == lastID {
				end = i
				break
			}
		}
	}
	out := make([]NewsItem, 0, end)
	for i := end - 1; i >= 0; i-- {
		out = append(out, s.News[i])
	}
	return out
}
