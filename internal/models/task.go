package models

// FarmTask is one AI-recommended farm activity derived from weather and
// price conditions.
type FarmTask struct {
	Description   string `json:"description"`
	Priority      string `json:"priority,omitempty"`
	Schedule      string `json:"schedule,omitempty"`
	PriorityLevel int    `json:"priority_level"`
}
