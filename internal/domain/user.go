package domain

// UserRecord is the full persisted state for one username: where the user
// last was in the curriculum, plus one progress snapshot per visited topic.
// The username is a bare identifier chosen by the user, not a credential.
type UserRecord struct {
	Username           string                   `json:"username"`
	LastActiveModuleID string                   `json:"lastActiveModuleId"`
	LastActiveTopicID  string                   `json:"lastActiveTopicId"`
	Progress           map[string]TopicProgress `json:"progress"`
}

// DefaultRecord returns the record created for a username seen for the
// first time: positioned at the given curriculum entry point with an empty
// progress map.
func DefaultRecord(username, moduleID, topicID string) *UserRecord {
	return &UserRecord{
		Username:           username,
		LastActiveModuleID: moduleID,
		LastActiveTopicID:  topicID,
		Progress:           map[string]TopicProgress{},
	}
}

// ProgressFor returns the stored snapshot for topicID, or false if the
// user has never saved that topic.
func (u *UserRecord) ProgressFor(topicID string) (TopicProgress, bool) {
	if u.Progress == nil {
		return TopicProgress{}, false
	}
	p, ok := u.Progress[topicID]
	return p, ok
}

// SetProgress replaces the snapshot for p.TopicID and moves the
// last-active pointers to the given position.
func (u *UserRecord) SetProgress(moduleID, topicID string, p TopicProgress) {
	if u.Progress == nil {
		u.Progress = map[string]TopicProgress{}
	}
	u.Progress[p.TopicID] = p
	u.LastActiveModuleID = moduleID
	u.LastActiveTopicID = topicID
}
