package controller

import (
	"context"
	"fmt"
	"sync"

	"coldcommand/models"
	"coldcommand/repository"
	"coldcommand/smartlead"
)

const (
	orgA       = "org-a"
	orgB       = "org-b"
	campaignID = "6f1f8a52-0c5e-4a7e-9a55-3b1f3a0f2b11"
)

type fakeCampaigns struct {
	mu   sync.Mutex
	rows map[string]models.Campaign
	seq  int
}

func newFakeCampaigns(campaigns ...models.Campaign) *fakeCampaigns {
	f := &fakeCampaigns{rows: map[string]models.Campaign{}}
	for _, c := range campaigns {
		f.rows[c.ID] = c
	}
	return f
}

func (f *fakeCampaigns) FindForOrg(_ context.Context, orgID, id string) (models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok || c.OrgID != orgID {
		return models.Campaign{}, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeCampaigns) ListForOrg(_ context.Context, orgID string) ([]models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Campaign
	for _, c := range f.rows {
		if c.OrgID == orgID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCampaigns) Create(_ context.Context, c *models.Campaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	if c.ID == "" {
		c.ID = fmt.Sprintf("new-%d", f.seq)
	}
	f.rows[c.ID] = *c
	return nil
}

func (f *fakeCampaigns) Update(_ context.Context, c *models.Campaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.rows[c.ID]
	if !ok || existing.OrgID != c.OrgID {
		return repository.ErrNotFound
	}
	c.SequenceVersion = existing.SequenceVersion
	f.rows[c.ID] = *c
	return nil
}

func (f *fakeCampaigns) Delete(_ context.Context, orgID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok || c.OrgID != orgID {
		return repository.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeCampaigns) UpdateSettings(_ context.Context, id string, settings models.CampaignSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Settings = settings
	f.rows[id] = c
	return nil
}

func (f *fakeCampaigns) get(id string) models.Campaign {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id]
}

type fakeSequences struct {
	campaigns *fakeCampaigns
	steps     map[string][]models.CampaignSequence
}

func (f *fakeSequences) List(_ context.Context, id string) ([]models.CampaignSequence, error) {
	return append([]models.CampaignSequence{}, f.steps[id]...), nil
}

func (f *fakeSequences) Replace(_ context.Context, id string, rows []models.CampaignSequence, expected *int) (int, error) {
	f.campaigns.mu.Lock()
	defer f.campaigns.mu.Unlock()
	c, ok := f.campaigns.rows[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if expected != nil && *expected != c.SequenceVersion {
		return 0, repository.ErrStaleVersion
	}
	c.SequenceVersion++
	f.campaigns.rows[id] = c
	f.steps[id] = rows
	return c.SequenceVersion, nil
}

type fakeAccounts []models.EmailAccount

func (f fakeAccounts) ListForOrg(_ context.Context, orgID string) ([]models.EmailAccount, error) {
	var out []models.EmailAccount
	for _, a := range f {
		if a.OrgID == orgID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeLeads int

func (f fakeLeads) CountForCampaign(context.Context, string) (int, error) { return int(f), nil }

// fakeEnrollments keeps campaign_leads in memory; orgLeads maps lead id to owning org.
type fakeEnrollments struct {
	orgLeads map[string]string
	enrolled map[string][]models.EnrolledLead
	err      error
}

func (f *fakeEnrollments) ListForCampaign(_ context.Context, campaignID string) ([]models.EnrolledLead, error) {
	return f.enrolled[campaignID], f.err
}

func (f *fakeEnrollments) Add(_ context.Context, orgID, campaignID string, ids []string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	added := 0
	for _, id := range ids {
		if f.orgLeads[id] != orgID {
			continue
		}
		added++
		if !f.has(campaignID, id) {
			f.enrolled[campaignID] = append(f.enrolled[campaignID], models.EnrolledLead{LeadID: id})
		}
	}
	return added, nil
}

func (f *fakeEnrollments) Remove(_ context.Context, campaignID string, ids []string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	drop := map[string]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	var kept []models.EnrolledLead
	for _, l := range f.enrolled[campaignID] {
		if !drop[l.LeadID] {
			kept = append(kept, l)
		}
	}
	removed := len(f.enrolled[campaignID]) - len(kept)
	f.enrolled[campaignID] = kept
	return removed, nil
}

func (f *fakeEnrollments) has(campaignID, leadID string) bool {
	for _, l := range f.enrolled[campaignID] {
		if l.LeadID == leadID {
			return true
		}
	}
	return false
}

type fakePlatform struct {
	configured bool
	createErr  error
	statusErr  error
	nextID     int64
	statuses   []string
	deleted    []int64
}

func (f *fakePlatform) Configured() bool { return f.configured }

func (f *fakePlatform) CreateCampaign(_ context.Context, name string, _ *int64) (*smartlead.Campaign, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	return &smartlead.Campaign{ID: f.nextID, Name: name, Status: smartlead.StatusDrafted}, nil
}

func (f *fakePlatform) UpdateCampaignStatus(_ context.Context, _ int64, status string) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakePlatform) DeleteCampaign(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeConn struct {
	mu     sync.Mutex
	events []SequenceEvent
	err    error
	block  chan struct{}
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, v.(SequenceEvent))
	return nil
}

func (f *fakeConn) received() []SequenceEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SequenceEvent{}, f.events...)
}
