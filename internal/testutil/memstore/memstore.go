// Package memstore provides in-memory stand-ins for the Mongo stores so
// service and handler tests run without a database. Semantics mirror the
// Mongo stores: value copies in and out, mongo.ErrNoDocuments for misses,
// the same sentinel errors, and conditional status updates.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	casestore "github.com/dalemusser/nyaysahayak/internal/app/store/cases"
	userstore "github.com/dalemusser/nyaysahayak/internal/app/store/users"
	"github.com/dalemusser/nyaysahayak/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store holds users, cases, and grievances. The zero value is not usable;
// call New.
type Store struct {
	mu         sync.Mutex
	seq        int
	users      map[primitive.ObjectID]models.User
	cases      map[primitive.ObjectID]caseRow
	grievances map[primitive.ObjectID]grievanceRow

	// Err, when set, is returned by every call.
	Err error
}

type caseRow struct {
	c   models.Case
	seq int
}

type grievanceRow struct {
	g   models.Grievance
	seq int
}

func New() *Store {
	return &Store{
		users:      map[primitive.ObjectID]models.User{},
		cases:      map[primitive.ObjectID]caseRow{},
		grievances: map[primitive.ObjectID]grievanceRow{},
	}
}

func (s *Store) next() int {
	s.seq++
	return s.seq
}

func now() time.Time { return time.Now().UTC() }

/* --------------------------------- users --------------------------------- */

// AddUser inserts u, assigning an id when missing.
func (s *Store) AddUser(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Role == "" {
		u.Role = models.RoleBeneficiary
	}
	u.CreatedAt, u.UpdatedAt = now(), now()
	s.users[u.ID] = u
	return u
}

func (s *Store) GetByMobile(_ context.Context, mobile string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.User{}, s.Err
	}
	m := userstore.NormalizeMobile(mobile)
	for _, u := range s.users {
		if u.MobileNumber == m {
			return u, nil
		}
	}
	return models.User{}, mongo.ErrNoDocuments
}

func (s *Store) MobilesByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make(map[primitive.ObjectID]string, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = u.MobileNumber
		}
	}
	return out, nil
}

/* --------------------------------- cases --------------------------------- */

// Cases gives access to case operations under distinct method names where
// they would collide with grievance operations.
func (s *Store) Cases() *Cases { return &Cases{s} }

// Grievances gives access to grievance operations.
func (s *Store) Grievances() *Grievances { return &Grievances{s} }

type Cases struct{ s *Store }

func copyCase(c models.Case) models.Case {
	c.Documents = append([]models.CaseDocument{}, c.Documents...)
	c.History = append([]models.HistoryEntry{}, c.History...)
	return c
}

func (cs *Cases) Create(_ context.Context, c models.Case) (models.Case, error) {
	s := cs.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.Case{}, s.Err
	}
	for _, row := range s.cases {
		if row.c.CaseID == c.CaseID {
			return models.Case{}, casestore.ErrDuplicateCaseID
		}
	}
	c.ID = primitive.NewObjectID()
	c.CreatedAt, c.UpdatedAt = now(), now()
	c = copyCase(c)
	s.cases[c.ID] = caseRow{c: c, seq: s.next()}
	return copyCase(c), nil
}

func (cs *Cases) GetByID(_ context.Context, id primitive.ObjectID) (models.Case, error) {
	s := cs.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.Case{}, s.Err
	}
	row, ok := s.cases[id]
	if !ok {
		return models.Case{}, mongo.ErrNoDocuments
	}
	return copyCase(row.c), nil
}

func (cs *Cases) GetByCaseID(_ context.Context, caseID string) (models.Case, error) {
	s := cs.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.Case{}, s.Err
	}
	for _, row := range s.cases {
		if row.c.CaseID == caseID {
			return copyCase(row.c), nil
		}
	}
	return models.Case{}, mongo.ErrNoDocuments
}

func (cs *Cases) sorted(match func(models.Case) bool) []models.Case {
	rows := make([]caseRow, 0)
	for _, row := range cs.s.cases {
		if match(row.c) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	out := make([]models.Case, 0, len(rows))
	for _, row := range rows {
		out = append(out, copyCase(row.c))
	}
	return out
}

func (cs *Cases) List(_ context.Context) ([]models.Case, error) {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()
	if cs.s.Err != nil {
		return nil, cs.s.Err
	}
	return cs.sorted(func(models.Case) bool { return true }), nil
}

func (cs *Cases) ListByBeneficiary(_ context.Context, beneficiary primitive.ObjectID) ([]models.Case, error) {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()
	if cs.s.Err != nil {
		return nil, cs.s.Err
	}
	return cs.sorted(func(c models.Case) bool { return c.Beneficiary == beneficiary }), nil
}

func (cs *Cases) LatestByBeneficiary(ctx context.Context, beneficiary primitive.ObjectID) (models.Case, error) {
	list, err := cs.ListByBeneficiary(ctx, beneficiary)
	if err != nil {
		return models.Case{}, err
	}
	if len(list) == 0 {
		return models.Case{}, mongo.ErrNoDocuments
	}
	return list[0], nil
}

func (cs *Cases) AdvanceStatus(_ context.Context, id primitive.ObjectID, from, to models.CaseStatus, entry models.HistoryEntry) (models.Case, error) {
	s := cs.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.Case{}, s.Err
	}
	row, ok := s.cases[id]
	if !ok {
		return models.Case{}, mongo.ErrNoDocuments
	}
	if row.c.Status != from {
		return models.Case{}, casestore.ErrStatusChanged
	}
	row.c.Status = to
	row.c.History = append(row.c.History, entry)
	row.c.UpdatedAt = entry.Timestamp
	s.cases[id] = row
	return copyCase(row.c), nil
}

func (cs *Cases) AppendDocument(_ context.Context, id primitive.ObjectID, doc models.CaseDocument) (models.Case, error) {
	s := cs.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.Case{}, s.Err
	}
	row, ok := s.cases[id]
	if !ok {
		return models.Case{}, mongo.ErrNoDocuments
	}
	row.c.Documents = append(row.c.Documents, doc)
	row.c.UpdatedAt = now()
	s.cases[id] = row
	return copyCase(row.c), nil
}

func (cs *Cases) CaseIDsByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	s := cs.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make(map[primitive.ObjectID]string, len(ids))
	for _, id := range ids {
		if row, ok := s.cases[id]; ok {
			out[id] = row.c.CaseID
		}
	}
	return out, nil
}

// CaseCount returns the number of stored cases.
func (s *Store) CaseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cases)
}

/* ------------------------------- grievances ------------------------------ */

type Grievances struct{ s *Store }

func (gs *Grievances) Create(_ context.Context, g models.Grievance) (models.Grievance, error) {
	s := gs.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.Grievance{}, s.Err
	}
	g.ID = primitive.NewObjectID()
	if g.Status == "" {
		g.Status = models.GrievanceOpen
	}
	g.CreatedAt, g.UpdatedAt = now(), now()
	s.grievances[g.ID] = grievanceRow{g: g, seq: s.next()}
	return g, nil
}

func (gs *Grievances) Resolve(_ context.Context, id primitive.ObjectID) (models.Grievance, error) {
	s := gs.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return models.Grievance{}, s.Err
	}
	row, ok := s.grievances[id]
	if !ok {
		return models.Grievance{}, mongo.ErrNoDocuments
	}
	row.g.Status = models.GrievanceResolved
	row.g.UpdatedAt = now()
	s.grievances[id] = row
	return row.g, nil
}

func (gs *Grievances) sorted(match func(models.Grievance) bool, asc bool) []models.Grievance {
	rows := make([]grievanceRow, 0)
	for _, row := range gs.s.grievances {
		if match(row.g) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if asc {
			return rows[i].seq < rows[j].seq
		}
		return rows[i].seq > rows[j].seq
	})
	out := make([]models.Grievance, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.g)
	}
	return out
}

func (gs *Grievances) ListOpen(_ context.Context) ([]models.Grievance, error) {
	gs.s.mu.Lock()
	defer gs.s.mu.Unlock()
	if gs.s.Err != nil {
		return nil, gs.s.Err
	}
	return gs.sorted(func(g models.Grievance) bool { return g.Status == models.GrievanceOpen }, true), nil
}

func (gs *Grievances) ListByBeneficiary(_ context.Context, beneficiary primitive.ObjectID) ([]models.Grievance, error) {
	gs.s.mu.Lock()
	defer gs.s.mu.Unlock()
	if gs.s.Err != nil {
		return nil, gs.s.Err
	}
	return gs.sorted(func(g models.Grievance) bool { return g.Beneficiary == beneficiary }, false), nil
}
