package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kshitij-kamdi/civic-stream/internal/core/domain"
	"github.com/kshitij-kamdi/civic-stream/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

// stubGrievanceRepo mirrors the UpdateWithHistory contract of the Mongo
// repository: one history entry per status change, is_escalation flag
// derived from the prior record, updated_at refreshed on every update.
type stubGrievanceRepo struct {
	byID      map[string]*domain.Grievance
	order     []string
	clock     ports.Clock
	listErr   error // if set, list operations return this error
	updateErr error // if set, UpdateWithHistory returns this error
	deleted   map[string]bool // ids that vanish between read and update
}

func newStubGrievanceRepo(clock ports.Clock) *stubGrievanceRepo {
	return &stubGrievanceRepo{
		byID:    make(map[string]*domain.Grievance),
		clock:   clock,
		deleted: make(map[string]bool),
	}
}

func (r *stubGrievanceRepo) Create(_ context.Context, g *domain.Grievance) error {
	clone := *g
	r.byID[g.ID] = &clone
	r.order = append(r.order, g.ID)
	return nil
}

func (r *stubGrievanceRepo) FindByID(_ context.Context, id string) (*domain.Grievance, error) {
	g, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrGrievanceNotFound
	}
	clone := *g
	return &clone, nil
}

func (r *stubGrievanceRepo) ListByCitizen(_ context.Context, citizenID string) ([]*domain.Grievance, error) {
	return r.filter(func(g *domain.Grievance) bool { return g.CitizenID == citizenID })
}

func (r *stubGrievanceRepo) ListByOfficial(_ context.Context, officialID string) ([]*domain.Grievance, error) {
	return r.filter(func(g *domain.Grievance) bool { return g.AssignedTo == officialID })
}

func (r *stubGrievanceRepo) ListAll(_ context.Context) ([]*domain.Grievance, error) {
	return r.filter(func(*domain.Grievance) bool { return true })
}

func (r *stubGrievanceRepo) List(_ context.Context, f ports.ListGrievancesFilter) ([]*domain.Grievance, int64, error) {
	matched, err := r.filter(func(g *domain.Grievance) bool {
		if f.Status != "" && string(g.Status) != f.Status {
			return false
		}
		if f.Category != "" && string(g.Category) != f.Category {
			return false
		}
		if f.Escalated != nil && g.IsEscalated != *f.Escalated {
			return false
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(g.Title), strings.ToLower(f.Search)) {
			return false
		}
		return true
	})
	if err != nil {
		return nil, 0, err
	}

	total := int64(len(matched))
	limit := f.Limit
	if limit <= 0 {
		limit = len(matched)
	}
	skip := (f.Page - 1) * limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return nil, total, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubGrievanceRepo) UpdateWithHistory(_ context.Context, id string, upd ports.GrievanceUpdate, actorID, actorName, remarks string) (*domain.Grievance, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	g, ok := r.byID[id]
	if !ok || r.deleted[id] {
		return nil, domain.ErrGrievanceNotFound
	}

	now := r.clock.Now()
	if upd.Status != nil && *upd.Status != g.Status {
		g.StatusHistory = append(g.StatusHistory, domain.StatusHistoryEntry{
			Status:        *upd.Status,
			Timestamp:     now,
			UpdatedBy:     actorID,
			UpdatedByName: actorName,
			Remarks:       remarks,
			IsEscalation:  upd.IsEscalated != nil && *upd.IsEscalated && !g.IsEscalated,
		})
	}
	if upd.Status != nil {
		g.Status = *upd.Status
	}
	if upd.Priority != nil {
		g.Priority = *upd.Priority
	}
	if upd.AssignedTo != nil {
		g.AssignedTo = *upd.AssignedTo
	}
	if upd.AssignedToName != nil {
		g.AssignedToName = *upd.AssignedToName
	}
	if upd.IsEscalated != nil {
		g.IsEscalated = *upd.IsEscalated
	}
	g.UpdatedAt = now

	clone := *g
	return &clone, nil
}

func (r *stubGrievanceRepo) filter(keep func(*domain.Grievance) bool) ([]*domain.Grievance, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Grievance
	for _, id := range r.order {
		if g := r.byID[id]; keep(g) {
			clone := *g
			out = append(out, &clone)
		}
	}
	return out, nil
}

type stubUserRepo struct {
	byID   map[string]*domain.User
	counts map[string]int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User), counts: make(map[string]int64)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	clone := *u
	if clone.ID == "" {
		clone.ID = "user_" + u.Email
	}
	r.byID[clone.ID] = &clone
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	if n, ok := r.counts[role]; ok {
		return n, nil
	}
	var n int64
	for _, u := range r.byID {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var testEpoch = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFixture() (*stubGrievanceRepo, *stubUserRepo, *fakeClock, *GrievanceService) {
	clock := &fakeClock{now: testEpoch}
	repo := newStubGrievanceRepo(clock)
	users := newStubUserRepo()
	svc := NewGrievanceService(repo, users, clock, discardLogger)
	return repo, users, clock, svc
}

func waterSupplyInput(citizenID string) ports.CreateGrievanceInput {
	return ports.CreateGrievanceInput{
		Title:        "No water since Monday",
		Description:  "The entire block has had no supply for three days.",
		Category:     "water_supply",
		Address:      "12 MG Road",
		Pincode:      "560001",
		CitizenID:    citizenID,
		CitizenName:  "Asha Rao",
		CitizenPhone: "+91-9800000001",
	}
}

func official(id, name string) ports.Actor {
	return ports.Actor{ID: id, Name: name, Role: domain.RoleOfficial}
}

// ---------------------------------------------------------------------------
// Create tests
// ---------------------------------------------------------------------------

func TestGrievanceService_Create_Success(t *testing.T) {
	_, _, _, svc := newFixture()

	g, err := svc.Create(context.Background(), waterSupplyInput("cit_1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(g.ID, "GRV-") {
		t.Errorf("grievance id format wrong: %s", g.ID)
	}
	if g.Status != domain.StatusSubmitted {
		t.Errorf("expected status %q, got %q", domain.StatusSubmitted, g.Status)
	}
	if g.Priority != domain.PriorityMedium {
		t.Errorf("expected default priority %q, got %q", domain.PriorityMedium, g.Priority)
	}
	if g.SLAHours != 8 {
		t.Errorf("water_supply SLA = %d, want 8", g.SLAHours)
	}
	if want := testEpoch.Add(8 * time.Hour); !g.DueDate.Equal(want) {
		t.Errorf("dueDate = %v, want %v", g.DueDate, want)
	}
}

func TestGrievanceService_Create_SeedsSingleHistoryEntry(t *testing.T) {
	repo, _, _, svc := newFixture()

	g, err := svc.Create(context.Background(), waterSupplyInput("cit_1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := repo.byID[g.ID]
	if len(stored.StatusHistory) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(stored.StatusHistory))
	}
	entry := stored.StatusHistory[0]
	if entry.Status != domain.StatusSubmitted {
		t.Errorf("initial history status = %q, want %q", entry.Status, domain.StatusSubmitted)
	}
	if entry.UpdatedBy != "cit_1" {
		t.Errorf("initial history actor = %q, want %q", entry.UpdatedBy, "cit_1")
	}
	if entry.IsEscalation {
		t.Error("initial history entry must not be an escalation")
	}
}

func TestGrievanceService_Create_UnknownCategory(t *testing.T) {
	_, _, _, svc := newFixture()

	input := waterSupplyInput("cit_1")
	input.Category = "potholes"

	_, err := svc.Create(context.Background(), input)
	if !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Get / role scoping
// ---------------------------------------------------------------------------

func TestGrievanceService_Get_CitizenScopedToOwn(t *testing.T) {
	_, _, _, svc := newFixture()

	g, _ := svc.Create(context.Background(), waterSupplyInput("cit_1"))

	owner := ports.Actor{ID: "cit_1", Name: "Asha Rao", Role: domain.RoleCitizen}
	if _, err := svc.Get(context.Background(), g.ID, owner); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}

	stranger := ports.Actor{ID: "cit_2", Name: "Someone Else", Role: domain.RoleCitizen}
	if _, err := svc.Get(context.Background(), g.ID, stranger); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for another citizen, got %v", err)
	}

	off := official("off_1", "Inspector Rai")
	if _, err := svc.Get(context.Background(), g.ID, off); err != nil {
		t.Fatalf("official read failed: %v", err)
	}
}

func TestGrievanceService_Get_NotFound(t *testing.T) {
	_, _, _, svc := newFixture()

	_, err := svc.Get(context.Background(), "GRV-MISSING1", official("off_1", "Inspector Rai"))
	if !errors.Is(err, domain.ErrGrievanceNotFound) {
		t.Fatalf("expected ErrGrievanceNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Manual lifecycle actions
// ---------------------------------------------------------------------------

func TestGrievanceService_Acknowledge_AssignsActingOfficial(t *testing.T) {
	_, _, _, svc := newFixture()

	g, _ := svc.Create(context.Background(), waterSupplyInput("cit_1"))

	updated, err := svc.Acknowledge(context.Background(), g.ID, official("off_1", "Inspector Rai"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Status != domain.StatusAcknowledged {
		t.Errorf("status = %q, want %q", updated.Status, domain.StatusAcknowledged)
	}
	if updated.AssignedTo != "off_1" || updated.AssignedToName != "Inspector Rai" {
		t.Errorf("acknowledge must self-assign, got %q/%q", updated.AssignedTo, updated.AssignedToName)
	}
	if len(updated.StatusHistory) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(updated.StatusHistory))
	}
	if updated.StatusHistory[1].Remarks != "Acknowledge action performed" {
		t.Errorf("default remarks wrong: %q", updated.StatusHistory[1].Remarks)
	}
}

func TestGrievanceService_FullManualLifecycle(t *testing.T) {
	_, _, _, svc := newFixture()

	g, _ := svc.Create(context.Background(), waterSupplyInput("cit_1"))
	actor := official("off_1", "Inspector Rai")

	if _, err := svc.Acknowledge(context.Background(), g.ID, actor, ""); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if _, err := svc.Start(context.Background(), g.ID, actor, "crew dispatched"); err != nil {
		t.Fatalf("start: %v", err)
	}
	resolved, err := svc.Resolve(context.Background(), g.ID, actor, "valve replaced")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if resolved.Status != domain.StatusResolved {
		t.Errorf("status = %q, want %q", resolved.Status, domain.StatusResolved)
	}
	if len(resolved.StatusHistory) != 4 {
		t.Errorf("expected 4 history entries, got %d", len(resolved.StatusHistory))
	}
}

func TestGrievanceService_InvalidTransitions(t *testing.T) {
	_, _, _, svc := newFixture()
	actor := official("off_1", "Inspector Rai")

	g, _ := svc.Create(context.Background(), waterSupplyInput("cit_1"))

	// submitted -> in_progress skips acknowledgement
	if _, err := svc.Start(context.Background(), g.ID, actor, ""); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for start on submitted, got %v", err)
	}

	// drive to resolved, then verify the terminal state is absorbing
	_, _ = svc.Acknowledge(context.Background(), g.ID, actor, "")
	_, _ = svc.Start(context.Background(), g.ID, actor, "")
	_, _ = svc.Resolve(context.Background(), g.ID, actor, "")

	if _, err := svc.Acknowledge(context.Background(), g.ID, actor, ""); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on resolved grievance, got %v", err)
	}
	if _, err := svc.Reject(context.Background(), g.ID, actor, ""); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition rejecting a resolved grievance, got %v", err)
	}
}

func TestGrievanceService_Reject_FromAnyNonTerminal(t *testing.T) {
	_, _, _, svc := newFixture()
	actor := ports.Actor{ID: "adm_1", Name: "Portal Admin", Role: domain.RoleAdmin}

	g, _ := svc.Create(context.Background(), waterSupplyInput("cit_1"))

	rejected, err := svc.Reject(context.Background(), g.ID, actor, "duplicate of GRV-AAAA0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rejected.Status != domain.StatusRejected {
		t.Errorf("status = %q, want %q", rejected.Status, domain.StatusRejected)
	}
}

func TestGrievanceService_Reassign_NoStatusChangeNoHistory(t *testing.T) {
	_, users, _, svc := newFixture()

	users.byID["off_2"] = &domain.User{ID: "off_2", Name: "Officer Desai", Role: domain.RoleOfficial}

	g, _ := svc.Create(context.Background(), waterSupplyInput("cit_1"))
	_, _ = svc.Acknowledge(context.Background(), g.ID, official("off_1", "Inspector Rai"), "")

	updated, err := svc.Reassign(context.Background(), g.ID, ports.ReassignInput{OfficialID: "off_2"}, official("off_1", "Inspector Rai"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.AssignedTo != "off_2" || updated.AssignedToName != "Officer Desai" {
		t.Errorf("reassign target wrong: %q/%q", updated.AssignedTo, updated.AssignedToName)
	}
	if updated.Status != domain.StatusAcknowledged {
		t.Errorf("reassign must not change status, got %q", updated.Status)
	}
	if len(updated.StatusHistory) != 2 {
		t.Errorf("reassign must not append history, got %d entries", len(updated.StatusHistory))
	}
}

func TestGrievanceService_Reassign_UnknownOfficial(t *testing.T) {
	_, _, _, svc := newFixture()

	g, _ := svc.Create(context.Background(), waterSupplyInput("cit_1"))

	_, err := svc.Reassign(context.Background(), g.ID, ports.ReassignInput{OfficialID: "off_missing"}, official("off_1", "Inspector Rai"))
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Listings, metrics, stats
// ---------------------------------------------------------------------------

func TestGrievanceService_List_PaginationAndFilter(t *testing.T) {
	_, _, _, svc := newFixture()

	for i := 0; i < 5; i++ {
		_, _ = svc.Create(context.Background(), waterSupplyInput("cit_1"))
	}

	result, err := svc.List(context.Background(), ports.ListGrievancesInput{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 5 {
		t.Errorf("total = %d, want 5", result.Total)
	}
	if len(result.Items) != 2 {
		t.Errorf("page size = %d, want 2", len(result.Items))
	}
	if result.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", result.TotalPages)
	}
}

func TestGrievanceService_SLAMetrics(t *testing.T) {
	_, _, clock, svc := newFixture()

	for i := 0; i < 3; i++ {
		_, _ = svc.Create(context.Background(), waterSupplyInput("cit_1")) // 8h SLA
	}
	clock.Advance(9 * time.Hour) // all three breached

	m, err := svc.SLAMetrics(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Breached != 3 || m.WithinSLA != 0 {
		t.Errorf("breached/within = %d/%d, want 3/0", m.Breached, m.WithinSLA)
	}
	if m.ComplianceRate != "0.0" {
		t.Errorf("complianceRate = %q, want %q", m.ComplianceRate, "0.0")
	}
}

func TestGrievanceService_Stats(t *testing.T) {
	_, users, _, svc := newFixture()
	users.counts[domain.RoleCitizen] = 12
	users.counts[domain.RoleOfficial] = 3

	g1, _ := svc.Create(context.Background(), waterSupplyInput("cit_1"))
	_, _ = svc.Create(context.Background(), waterSupplyInput("cit_2"))

	actor := official("off_1", "Inspector Rai")
	_, _ = svc.Acknowledge(context.Background(), g1.ID, actor, "")
	_, _ = svc.Start(context.Background(), g1.ID, actor, "")
	_, _ = svc.Resolve(context.Background(), g1.ID, actor, "")

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalGrievances != 2 || stats.PendingGrievances != 1 || stats.ResolvedGrievances != 1 {
		t.Errorf("total/pending/resolved = %d/%d/%d, want 2/1/1",
			stats.TotalGrievances, stats.PendingGrievances, stats.ResolvedGrievances)
	}
	if stats.TotalCitizens != 12 || stats.TotalOfficials != 3 {
		t.Errorf("citizens/officials = %d/%d, want 12/3", stats.TotalCitizens, stats.TotalOfficials)
	}
}
