// Package curriculum holds the static lesson tree and lookup over it.
// The content is read-only reference data; nothing in it is validated
// against user progress at write time.
package curriculum

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a (module, topic) pair does not resolve.
var ErrNotFound = errors.New("topic not found")

// Category distinguishes concept lessons from guided projects. The tutor
// greeting prompt differs between the two.
type Category string

const (
	// CategoryConcept is a lesson teaching a language concept.
	CategoryConcept Category = "concept"
	// CategoryProject is a guided hands-on project.
	CategoryProject Category = "project"
)

// Difficulty grades a topic.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Topic is a leaf curriculum unit with a stable id.
type Topic struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PromptTopic string     `json:"promptTopic"`
	Category    Category   `json:"category"`
	Difficulty  Difficulty `json:"difficulty,omitempty"`
}

// Chapter groups topics inside a module.
type Chapter struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Topics []Topic `json:"topics"`
}

// Module is a top-level curriculum grouping. It carries either a flat
// topic list or a list of chapters; the lookup tolerates either shape
// (or neither) being empty.
type Module struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Topics   []Topic   `json:"topics,omitempty"`
	Chapters []Chapter `json:"chapters,omitempty"`
}

// Find locates topicID inside the module: the flat list is searched
// first, then each chapter in order. Returns ErrNotFound if the module
// has neither list or no topic matches.
func (m *Module) Find(topicID string) (*Topic, error) {
	for i := range m.Topics {
		if m.Topics[i].ID == topicID {
			return &m.Topics[i], nil
		}
	}
	for ci := range m.Chapters {
		for ti := range m.Chapters[ci].Topics {
			if m.Chapters[ci].Topics[ti].ID == topicID {
				return &m.Chapters[ci].Topics[ti], nil
			}
		}
	}
	return nil, fmt.Errorf("module %q: %w", m.ID, ErrNotFound)
}

// Find resolves a (module, topic) identifier pair against the catalog.
func Find(moduleID, topicID string) (*Topic, error) {
	for i := range Modules {
		if Modules[i].ID == moduleID {
			return Modules[i].Find(topicID)
		}
	}
	return nil, fmt.Errorf("module %q: %w", moduleID, ErrNotFound)
}

// First returns the catalog entry point: the first topic of the first
// module, used as the default position for new users and as the fallback
// when stored pointers go stale.
func First() (moduleID string, topic *Topic) {
	for i := range Modules {
		m := &Modules[i]
		if len(m.Topics) > 0 {
			return m.ID, &m.Topics[0]
		}
		for ci := range m.Chapters {
			if len(m.Chapters[ci].Topics) > 0 {
				return m.ID, &m.Chapters[ci].Topics[0]
			}
		}
	}
	return "", nil
}

// DefaultCode returns the starter editor template for a topic that has no
// saved progress yet.
func DefaultCode(t *Topic) string {
	if t.Category == CategoryProject {
		return fmt.Sprintf("# %s\n# 请根据左侧 AI 导师的指引完成项目...\n", t.Title)
	}
	return fmt.Sprintf("# %s\n# 在这里开始编写你的代码...\n", t.Title)
}
