package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nabin-thapa/gighub/internal/domain/category"
	"github.com/nabin-thapa/gighub/internal/domain/coupon"
	"github.com/nabin-thapa/gighub/internal/domain/otp"
	"github.com/nabin-thapa/gighub/internal/domain/plan"
	"github.com/nabin-thapa/gighub/internal/domain/subscription"
	"github.com/nabin-thapa/gighub/internal/domain/user"
	"github.com/nabin-thapa/gighub/internal/pkg/errors"
)

// MockPlanRepository is an in-memory implementation of plan.Repository
type MockPlanRepository struct {
	Plans    map[int64]*plan.Plan
	NextID   int64
	GetError error
}

func NewMockPlanRepository() *MockPlanRepository {
	return &MockPlanRepository{Plans: make(map[int64]*plan.Plan), NextID: 1}
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id int64) (*plan.Plan, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	p, ok := m.Plans[id]
	if !ok {
		return nil, errors.PlanNotFound(id)
	}
	cp := *p
	return &cp, nil
}

func (m *MockPlanRepository) List(ctx context.Context) ([]*plan.Plan, error) {
	var out []*plan.Plan
	for _, p := range m.Plans {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (m *MockPlanRepository) ListWithCounts(ctx context.Context) ([]*plan.WithCount, error) {
	plans, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*plan.WithCount, len(plans))
	for i, p := range plans {
		out[i] = &plan.WithCount{Plan: *p}
	}
	return out, nil
}

func (m *MockPlanRepository) Create(ctx context.Context, p *plan.Plan) error {
	p.ID = m.NextID
	m.NextID++
	cp := *p
	m.Plans[p.ID] = &cp
	return nil
}

func (m *MockPlanRepository) Update(ctx context.Context, p *plan.Plan) error {
	if _, ok := m.Plans[p.ID]; !ok {
		return errors.PlanNotFound(p.ID)
	}
	cp := *p
	m.Plans[p.ID] = &cp
	return nil
}

func (m *MockPlanRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Plans[id]; !ok {
		return errors.PlanNotFound(id)
	}
	delete(m.Plans, id)
	return nil
}

// MockSubscriptionRepository is an in-memory implementation of
// subscription.Repository. CreateExclusive holds a mutex across the
// overlap check and the insert, mirroring the store's per-user
// admission serialization.
type MockSubscriptionRepository struct {
	mu          sync.Mutex
	Subs        map[int64]*subscription.Subscription
	NextID      int64
	Users       map[int64]*user.User
	Plans       map[int64]*plan.Plan
	CreateError error
	FindError   error
}

func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{
		Subs:   make(map[int64]*subscription.Subscription),
		NextID: 1,
		Users:  make(map[int64]*user.User),
		Plans:  make(map[int64]*plan.Plan),
	}
}

func (m *MockSubscriptionRepository) findOverlappingLocked(freelancerID int64, now time.Time) *subscription.Subscription {
	var found *subscription.Subscription
	for _, s := range m.Subs {
		if s.FreelancerID != freelancerID || !s.Overlaps(now) {
			continue
		}
		if found == nil || s.StartDate.After(found.StartDate) {
			found = s
		}
	}
	return found
}

func (m *MockSubscriptionRepository) FindOverlapping(ctx context.Context, freelancerID int64, now time.Time) (*subscription.Subscription, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.findOverlappingLocked(freelancerID, now)
	if s == nil {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *MockSubscriptionRepository) CreateExclusive(ctx context.Context, sub *subscription.Subscription, now time.Time) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing := m.findOverlappingLocked(sub.FreelancerID, now); existing != nil {
		cp := *existing
		return &subscription.OverlapError{Existing: &cp}
	}

	sub.ID = m.NextID
	m.NextID++
	sub.CreatedAt = now
	sub.UpdatedAt = now
	cp := *sub
	m.Subs[sub.ID] = &cp
	return nil
}

func (m *MockSubscriptionRepository) GetByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Subs[id]
	if !ok {
		return nil, errors.NotFound("Subscription")
	}
	cp := *s
	return &cp, nil
}

func (m *MockSubscriptionRepository) FindActiveByUser(ctx context.Context, freelancerID int64) (*subscription.Subscription, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var found *subscription.Subscription
	for _, s := range m.Subs {
		if s.FreelancerID != freelancerID || s.Status != subscription.StatusActive {
			continue
		}
		if found == nil || s.StartDate.After(found.StartDate) {
			found = s
		}
	}
	if found == nil {
		return nil, nil
	}
	cp := *found
	return &cp, nil
}

func (m *MockSubscriptionRepository) SetStatus(ctx context.Context, id int64, newStatus subscription.Status, now time.Time) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Subs[id]
	if !ok {
		return nil, errors.NotFound("Subscription")
	}
	s.Status = newStatus
	s.UpdatedAt = now
	cp := *s
	return &cp, nil
}

func (m *MockSubscriptionRepository) Update(ctx context.Context, id int64, fields subscription.UpdateFields, now time.Time) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Subs[id]
	if !ok {
		return nil, errors.NotFound("Subscription")
	}
	if fields.Status != nil {
		s.Status = *fields.Status
	}
	if fields.EndDate != nil {
		t := *fields.EndDate
		s.EndDate = &t
	}
	s.UpdatedAt = now
	cp := *s
	return &cp, nil
}

func (m *MockSubscriptionRepository) DeleteByID(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Subs[id]; !ok {
		return errors.NotFound("Subscription")
	}
	delete(m.Subs, id)
	return nil
}

func (m *MockSubscriptionRepository) record(s *subscription.Subscription) *subscription.Record {
	rec := &subscription.Record{Subscription: *s}
	if u, ok := m.Users[s.FreelancerID]; ok {
		rec.FreelancerEmail = u.Email
		rec.FreelancerName = u.Username
	}
	if p, ok := m.Plans[s.PlanID]; ok {
		rec.PlanName = p.Name
		rec.PlanPrice = p.Price
	}
	return rec
}

func (m *MockSubscriptionRepository) ListAll(ctx context.Context) ([]*subscription.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*subscription.Record
	for _, s := range m.Subs {
		out = append(out, m.record(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (m *MockSubscriptionRepository) ListByPlan(ctx context.Context, planID int64) ([]*subscription.Record, error) {
	all, err := m.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*subscription.Record
	for _, rec := range all {
		if rec.PlanID == planID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *MockSubscriptionRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var swept int64
	for _, s := range m.Subs {
		if s.Status == subscription.StatusActive && s.EndDate != nil && !s.EndDate.After(now) {
			s.Status = subscription.StatusExpired
			s.UpdatedAt = now
			swept++
		}
	}
	return swept, nil
}

// MockUserRepository is an in-memory implementation of user.Repository
type MockUserRepository struct {
	Users      map[int64]*user.User
	EmailIndex map[string]*user.User
	NextID     int64
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:      make(map[int64]*user.User),
		EmailIndex: make(map[string]*user.User),
		NextID:     1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	u.ID = m.NextID
	m.NextID++
	m.Users[u.ID] = u
	m.EmailIndex[u.Email] = u
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, ok := m.Users[id]
	if !ok || u.IsDeleted {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := m.EmailIndex[email]
	if !ok || u.IsDeleted {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	if _, ok := m.Users[u.ID]; !ok {
		return errors.NotFound("User")
	}
	m.Users[u.ID] = u
	m.EmailIndex[u.Email] = u
	return nil
}

func (m *MockUserRepository) MarkVerified(ctx context.Context, id int64) error {
	u, ok := m.Users[id]
	if !ok {
		return errors.NotFound("User")
	}
	u.IsVerified = true
	return nil
}

func (m *MockUserRepository) ListByRole(ctx context.Context, role user.Role, limit, offset int) ([]*user.User, int64, error) {
	var out []*user.User
	for _, u := range m.Users {
		if u.Role == role && !u.IsDeleted {
			out = append(out, u)
		}
	}
	return out, int64(len(out)), nil
}

// MockOTPRepository is an in-memory implementation of otp.Repository
type MockOTPRepository struct {
	Codes  map[int64]*otp.Code
	NextID int64
}

func NewMockOTPRepository() *MockOTPRepository {
	return &MockOTPRepository{Codes: make(map[int64]*otp.Code), NextID: 1}
}

func (m *MockOTPRepository) Create(ctx context.Context, c *otp.Code) error {
	for _, existing := range m.Codes {
		if existing.UserID == c.UserID && !existing.Used {
			existing.Used = true
		}
	}
	c.ID = m.NextID
	m.NextID++
	m.Codes[c.ID] = c
	return nil
}

func (m *MockOTPRepository) FindUsable(ctx context.Context, userID int64, codeValue string, now time.Time) (*otp.Code, error) {
	for _, c := range m.Codes {
		if c.UserID == userID && c.Code == codeValue && c.Usable(now) {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockOTPRepository) MarkUsed(ctx context.Context, id int64) error {
	c, ok := m.Codes[id]
	if !ok {
		return errors.NotFound("OTP code")
	}
	c.Used = true
	return nil
}

func (m *MockOTPRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for id, c := range m.Codes {
		if !c.ExpiresAt.After(now) {
			delete(m.Codes, id)
			n++
		}
	}
	return n, nil
}

// MockCouponRepository is an in-memory implementation of coupon.Repository
type MockCouponRepository struct {
	Coupons     map[int64]*coupon.Coupon
	Redemptions []*coupon.Redemption
	NextID      int64
}

func NewMockCouponRepository() *MockCouponRepository {
	return &MockCouponRepository{Coupons: make(map[int64]*coupon.Coupon), NextID: 1}
}

func (m *MockCouponRepository) Create(ctx context.Context, c *coupon.Coupon) error {
	c.ID = m.NextID
	m.NextID++
	m.Coupons[c.ID] = c
	return nil
}

func (m *MockCouponRepository) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	for _, c := range m.Coupons {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, errors.NotFound("Coupon")
}

func (m *MockCouponRepository) List(ctx context.Context) ([]*coupon.Coupon, error) {
	var out []*coupon.Coupon
	for _, c := range m.Coupons {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockCouponRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Coupons[id]; !ok {
		return errors.NotFound("Coupon")
	}
	delete(m.Coupons, id)
	return nil
}

func (m *MockCouponRepository) Redeem(ctx context.Context, couponID, userID int64, now time.Time) (*coupon.Redemption, error) {
	c, ok := m.Coupons[couponID]
	if !ok {
		return nil, errors.NotFound("Coupon")
	}
	if c.MaxUses > 0 && c.UsedCount >= c.MaxUses {
		return nil, errors.Conflict("Coupon has no remaining uses")
	}
	c.UsedCount++
	red := &coupon.Redemption{
		ID:        int64(len(m.Redemptions) + 1),
		CouponID:  couponID,
		UserID:    userID,
		CreatedAt: now,
	}
	m.Redemptions = append(m.Redemptions, red)
	return red, nil
}

// MockCategoryRepository is an in-memory implementation of category.Repository
type MockCategoryRepository struct {
	Categories map[int64]*category.Category
	Tags       map[[2]int64]bool
	NextID     int64
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int64]*category.Category),
		Tags:       make(map[[2]int64]bool),
		NextID:     1,
	}
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *category.Category) error {
	c.ID = m.NextID
	m.NextID++
	m.Categories[c.ID] = c
	return nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*category.Category, error) {
	c, ok := m.Categories[id]
	if !ok {
		return nil, errors.NotFound("Category")
	}
	return c, nil
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	var out []*category.Category
	for _, c := range m.Categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, c *category.Category) error {
	if _, ok := m.Categories[c.ID]; !ok {
		return errors.NotFound("Category")
	}
	m.Categories[c.ID] = c
	return nil
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Categories[id]; !ok {
		return errors.NotFound("Category")
	}
	delete(m.Categories, id)
	for key := range m.Tags {
		if key[1] == id {
			delete(m.Tags, key)
		}
	}
	return nil
}

func (m *MockCategoryRepository) AddTag(ctx context.Context, freelancerID, categoryID int64) error {
	m.Tags[[2]int64{freelancerID, categoryID}] = true
	return nil
}

func (m *MockCategoryRepository) RemoveTag(ctx context.Context, freelancerID, categoryID int64) error {
	key := [2]int64{freelancerID, categoryID}
	if !m.Tags[key] {
		return errors.NotFound("Tag")
	}
	delete(m.Tags, key)
	return nil
}

func (m *MockCategoryRepository) ListByFreelancer(ctx context.Context, freelancerID int64) ([]*category.Category, error) {
	var out []*category.Category
	for key := range m.Tags {
		if key[0] == freelancerID {
			if c, ok := m.Categories[key[1]]; ok {
				out = append(out, c)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockCategoryRepository) ListFreelancers(ctx context.Context, categoryID int64) ([]*category.FreelancerSummary, error) {
	var out []*category.FreelancerSummary
	for key := range m.Tags {
		if key[1] == categoryID {
			out = append(out, &category.FreelancerSummary{FreelancerID: key[0]})
		}
	}
	return out, nil
}

// MockMailer records sent messages instead of delivering them
type MockMailer struct {
	Sent      []MockMail
	SendError error
}

type MockMail struct {
	To      string
	Subject string
	Body    string
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.SendError != nil {
		return m.SendError
	}
	m.Sent = append(m.Sent, MockMail{To: to, Subject: subject, Body: body})
	return nil
}
