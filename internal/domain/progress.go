package domain

import "time"

// TopicProgress is the persisted snapshot of a user's work on one topic:
// the code buffer and the full chat transcript at save time. A save
// replaces the prior snapshot wholesale; there is no merge and no
// revision history.
type TopicProgress struct {
	TopicID      string        `json:"topicId"`
	Code         string        `json:"code"`
	ChatHistory  []ChatMessage `json:"chatHistory"`
	LastModified int64         `json:"lastModified"`
}

// NewProgress builds a snapshot for topicID stamped with the current time.
func NewProgress(topicID, code string, history []ChatMessage) TopicProgress {
	if history == nil {
		history = []ChatMessage{}
	}
	return TopicProgress{
		TopicID:      topicID,
		Code:         code,
		ChatHistory:  history,
		LastModified: time.Now().UnixMilli(),
	}
}
