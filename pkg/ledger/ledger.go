package ledger

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Ledger stores per-campaign delivery records.
type Ledger interface {
	// Delivered reports whether address already received campaign.
	Delivered(ctx context.Context, campaign, address string) (bool, error)
	// MarkDelivered records a delivery. Marking twice is not an error.
	MarkDelivered(ctx context.Context, campaign, address string) error
}

// normalize maps canonically equivalent, case-variant spellings of an
// address to one key. A Caser keeps state, so each call builds its own.
func normalize(address string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(address)))
}

// Memory is an in-process Ledger.
type Memory struct {
	mu        sync.RWMutex
	campaigns map[string]map[string]struct{}
}

// NewMemory returns an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{campaigns: make(map[string]map[string]struct{})}
}

func (m *Memory) Delivered(_ context.Context, campaign, address string) (bool, error) {
	if campaign == "" {
		return false, ErrEmptyCampaign
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.campaigns[campaign][normalize(address)]
	return ok, nil
}

func (m *Memory) MarkDelivered(_ context.Context, campaign, address string) error {
	if campaign == "" {
		return ErrEmptyCampaign
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.campaigns[campaign]
	if !ok {
		set = make(map[string]struct{})
		m.campaigns[campaign] = set
	}
	set[normalize(address)] = struct{}{}
	return nil
}

// Len returns the number of addresses recorded for campaign.
func (m *Memory) Len(campaign string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.campaigns[campaign])
}
