package storage

import (
	"sync"

	"farm-assist/internal/models"
)

// InitiativeLog is the process-lifetime ordered list of selling
// initiatives. Append-only: entries are never deduplicated or expired.
type InitiativeLog struct {
	mu      sync.RWMutex
	entries []models.SellingInitiative
}

func NewInitiativeLog() *InitiativeLog {
	return &InitiativeLog{}
}

// Append records an initiative at the end of the log.
func (l *InitiativeLog) Append(initiative models.SellingInitiative) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, initiative)
}

// All returns a copy of the log in append order.
func (l *InitiativeLog) All() []models.SellingInitiative {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.SellingInitiative, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded initiatives.
func (l *InitiativeLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
