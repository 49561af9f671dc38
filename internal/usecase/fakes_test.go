package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"staynest/internal/data/entity"
	"staynest/internal/data/repository"
	"staynest/internal/dto/response"
	"staynest/pkg/cache"
	"staynest/pkg/payment"
	"staynest/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ==================== USERS ====================

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*entity.User
	createErr error
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) find(match func(*entity.User) bool) *entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return f.find(func(u *entity.User) bool { return u.ID == id }), nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return f.find(func(u *entity.User) bool { return u.Email == email }), nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return f.find(func(u *entity.User) bool { return u.Username == username }), nil
}

func (f *fakeUserRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]*entity.User, 0, len(f.users))
	for _, u := range f.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	if offset >= len(all) {
		return []*entity.User{}, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

func (f *fakeUserRepo) CountAll(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

// ==================== SESSIONS ====================

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.Session
}

func (f *fakeSessionRepo) Create(_ context.Context, s *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

func (f *fakeSessionRepo) FindValidSession(_ context.Context, id uuid.UUID) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || !s.Active(time.Now()) {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionRepo) Revoke(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || s.RevokedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

func (f *fakeSessionRepo) CleanExpiredSessions(_ context.Context) (int64, error) {
	return 0, nil
}

// ==================== PROPERTIES ====================

type fakePropertyRepo struct {
	mu         sync.Mutex
	properties map[uuid.UUID]*entity.Property
	lastFilter repository.PropertyFilter
}

func (f *fakePropertyRepo) Create(_ context.Context, p *entity.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.properties {
		if existing.Title == p.Title {
			return repository.ErrDuplicate
		}
	}
	cp := *p
	f.properties[p.ID] = &cp
	return nil
}

func (f *fakePropertyRepo) find(match func(*entity.Property) bool) *entity.Property {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.properties {
		if match(p) {
			cp := *p
			return &cp
		}
	}
	return nil
}

func (f *fakePropertyRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Property, error) {
	return f.find(func(p *entity.Property) bool { return p.ID == id }), nil
}

func (f *fakePropertyRepo) FindByTitle(_ context.Context, title string) (*entity.Property, error) {
	return f.find(func(p *entity.Property) bool { return p.Title == title }), nil
}

func (f *fakePropertyRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID) ([]*entity.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Property, 0)
	for _, p := range f.properties {
		if p.OwnerID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePropertyRepo) List(_ context.Context, filter repository.PropertyFilter) ([]*entity.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	out := make([]*entity.Property, 0)
	for _, p := range f.properties {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (f *fakePropertyRepo) Count(_ context.Context, _ repository.PropertyFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.properties)), nil
}

func (f *fakePropertyRepo) Update(_ context.Context, p *entity.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.properties[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	f.properties[p.ID] = &cp
	return nil
}

func (f *fakePropertyRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.properties[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.properties, id)
	return nil
}

// ==================== BOOKINGS ====================

type fakeBookingRepo struct {
	lock     sync.Mutex // property lock
	mu       sync.Mutex // data
	bookings map[uuid.UUID]*entity.Booking
	locks    int

	onFindActive func() // runs after the active bookings were read
}

func (f *fakeBookingRepo) Create(_ context.Context, b *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) filter(match func(*entity.Booking) bool) []*entity.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Booking, 0)
	for _, b := range f.bookings {
		if match(b) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

func (f *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	return f.filter(func(b *entity.Booking) bool { return b.UserID == userID }), nil
}

func (f *fakeBookingRepo) FindByPropertyIDs(_ context.Context, ids []uuid.UUID) ([]*entity.Booking, error) {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return f.filter(func(b *entity.Booking) bool { return set[b.PropertyID] }), nil
}

func (f *fakeBookingRepo) FindActiveOverlapping(_ context.Context, propertyID uuid.UUID, rng entity.DateRange, excludeID uuid.UUID) ([]*entity.Booking, error) {
	return f.filter(func(b *entity.Booking) bool {
		return b.PropertyID == propertyID && b.ID != excludeID && b.ConflictsWith(rng)
	}), nil
}

func (f *fakeBookingRepo) FindActiveByPropertyID(_ context.Context, propertyID uuid.UUID) ([]*entity.Booking, error) {
	if f.onFindActive != nil {
		defer f.onFindActive()
	}
	return f.filter(func(b *entity.Booking) bool {
		return b.PropertyID == propertyID && b.Status.Active()
	}), nil
}

func (f *fakeBookingRepo) Update(_ context.Context, b *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[b.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeBookingRepo) WithPropertyLock(_ context.Context, _ uuid.UUID, fn func(repository.BookingRepository) error) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.locks++
	return fn(f)
}

func (f *fakeBookingRepo) status(id uuid.UUID) entity.BookingStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookings[id].Status
}

// ==================== COMMENTS ====================

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[uuid.UUID]*entity.Comment
	users    *fakeUserRepo
}

func (f *fakeCommentRepo) Create(_ context.Context, c *entity.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.comments {
		if existing.PropertyID == c.PropertyID && existing.UserID == c.UserID {
			return repository.ErrDuplicate
		}
	}
	cp := *c
	f.comments[c.ID] = &cp
	return nil
}

func (f *fakeCommentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCommentRepo) FindByPropertyAndUser(_ context.Context, propertyID, userID uuid.UUID) (*entity.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.comments {
		if c.PropertyID == propertyID && c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCommentRepo) FindByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*entity.Comment, error) {
	f.mu.Lock()
	out := make([]*entity.Comment, 0)
	for _, c := range f.comments {
		if c.PropertyID == propertyID {
			cp := *c
			out = append(out, &cp)
		}
	}
	f.mu.Unlock()

	for _, c := range out {
		if u, _ := f.users.FindByID(ctx, c.UserID); u != nil {
			c.Username = u.Username
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeCommentRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeCommentRepo) RatingSummary(_ context.Context, propertyID uuid.UUID) (float64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum, n int
	for _, c := range f.comments {
		if c.PropertyID == propertyID {
			sum += c.Rating
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), int64(n), nil
}

// ==================== PAYMENTS ====================

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*entity.Payment
}

func (f *fakePaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.payments[p.OrderID] = &cp
	return nil
}

func (f *fakePaymentRepo) FindByOrderID(_ context.Context, orderID string) (*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[orderID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, orderID string, status entity.PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	return nil
}

// ==================== GATEWAY ====================

type fakeGateway struct {
	mu         sync.Mutex
	orders     map[string]payment.OrderRequest
	captureErr error
	dropRef    bool
	reference  string // overrides the reference id on capture
	onCapture  func()
	captured   []string
}

func (g *fakeGateway) CreateOrder(_ context.Context, req payment.OrderRequest) (*payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := "ORDER-" + req.ReferenceID[:8]
	g.orders[id] = req
	return &payment.Order{
		ID:     id,
		Status: "CREATED",
		Links:  []payment.Link{{Href: "https://paypal.test/approve/" + id, Rel: "approve", Method: "GET"}},
	}, nil
}

func (g *fakeGateway) CaptureOrder(_ context.Context, orderID string) (*payment.Capture, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.captured = append(g.captured, orderID)
	if g.onCapture != nil {
		g.onCapture()
	}
	if g.captureErr != nil {
		return nil, g.captureErr
	}
	req, ok := g.orders[orderID]
	if !ok {
		return nil, errors.New("RESOURCE_NOT_FOUND")
	}
	c := &payment.Capture{OrderID: orderID, Status: "COMPLETED", ReferenceID: req.ReferenceID}
	if g.dropRef {
		c.ReferenceID = ""
	}
	if g.reference != "" {
		c.ReferenceID = g.reference
	}
	return c, nil
}

// ==================== FIXTURE ====================

type fixture struct {
	users      *fakeUserRepo
	sessions   *fakeSessionRepo
	properties *fakePropertyRepo
	bookings   *fakeBookingRepo
	comments   *fakeCommentRepo
	payments   *fakePaymentRepo
	gateway    *fakeGateway
	cache      *cache.Cache[response.PropertyDetailResponse]
	repo       *repository.Repository
	config     *utils.Config
	svc        *Service
}

func newFixture() *fixture {
	users := &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
	f := &fixture{
		users:      users,
		sessions:   &fakeSessionRepo{sessions: map[uuid.UUID]*entity.Session{}},
		properties: &fakePropertyRepo{properties: map[uuid.UUID]*entity.Property{}},
		bookings:   &fakeBookingRepo{bookings: map[uuid.UUID]*entity.Booking{}},
		comments:   &fakeCommentRepo{comments: map[uuid.UUID]*entity.Comment{}, users: users},
		payments:   &fakePaymentRepo{payments: map[string]*entity.Payment{}},
		gateway:    &fakeGateway{orders: map[string]payment.OrderRequest{}},
		cache:      cache.New[response.PropertyDetailResponse](100, time.Minute, "property", zap.NewNop()),
		config: &utils.Config{
			JWT:    utils.JWTConfig{Secret: "test-secret", ExpiryHours: 24},
			PayPal: utils.PayPalConfig{Currency: "USD", BrandName: "StayNest"},
		},
	}
	f.repo = &repository.Repository{
		User:     f.users,
		Session:  f.sessions,
		Property: f.properties,
		Booking:  f.bookings,
		Comment:  f.comments,
		Payment:  f.payments,
	}
	f.svc = NewService(f.repo, f.config, f.gateway, f.cache, zap.NewNop())
	return f
}

func (f *fixture) addUser(username string, role entity.UserRole) Actor {
	u := &entity.User{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Now()},
		Username:     username,
		Email:        username + "@example.com",
		Role:         role,
	}
	f.users.users[u.ID] = u
	return Actor{ID: u.ID, Role: role}
}

func (f *fixture) addProperty(owner Actor, title string, price float64) *entity.Property {
	p := &entity.Property{
		BaseNoDelete:  entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Now()},
		Title:         title,
		Description:   "A place to stay",
		Location:      entity.Location{Address: "1 Lake Rd", City: "Tahoe", Country: "US"},
		PricePerNight: price,
		OwnerID:       owner.ID,
	}
	f.properties.properties[p.ID] = p
	return p
}

func (f *fixture) addBooking(guest Actor, propertyID uuid.UUID, start, end string, status entity.BookingStatus) *entity.Booking {
	s, _ := utils.ParseDate(start)
	e, _ := utils.ParseDate(end)
	b := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:       guest.ID,
		PropertyID:   propertyID,
		StartDate:    s,
		EndDate:      e,
		Rooms:        1,
		People:       1,
		Status:       status,
	}
	f.bookings.bookings[b.ID] = b
	return b
}
