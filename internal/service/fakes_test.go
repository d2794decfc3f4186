package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventify/internal/external"
	"eventify/internal/models"
	"eventify/internal/repository"
)

// In-memory store fakes. They mirror the Postgres repositories closely
// enough for the workflow logic to run unchanged.

type pair struct {
	vendorID int64
	eventID  int64
}

type fakeUserStore struct {
	users       map[int64]*models.User
	nextID      int64
	assignments *fakeAssignmentStore
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]*models.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) ListVendors(_ context.Context, city, category string) ([]models.VendorView, error) {
	var views []models.VendorView
	for _, u := range f.users {
		if u.Role != models.RoleVendor {
			continue
		}
		if city != "" && (u.City == nil || *u.City != city) {
			continue
		}
		if category != "" && (u.Category == nil || *u.Category != category) {
			continue
		}
		views = append(views, models.VendorView{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return views, nil
}

func (f *fakeUserStore) GetVendorView(_ context.Context, id int64) (*models.VendorView, error) {
	u := f.users[id]
	if u == nil || u.Role != models.RoleVendor {
		return nil, nil
	}
	view := &models.VendorView{ID: u.ID, Name: u.Name, Email: u.Email}
	if u.City != nil {
		view.City = *u.City
	}
	if u.Category != nil {
		view.Category = *u.Category
	}
	if f.assignments != nil {
		for p := range f.assignments.assigned {
			if p.vendorID == id {
				view.AssignedEventsCount++
			}
		}
	}
	return view, nil
}

func (f *fakeUserStore) ListOrganizers(_ context.Context) ([]models.User, error) {
	var users []models.User
	for _, u := range f.users {
		if u.Role == models.RoleOrganizer {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (f *fakeUserStore) SetVerified(_ context.Context, id int64, verified bool) error {
	if u, ok := f.users[id]; ok {
		u.IsVerified = verified
	}
	return nil
}

func (f *fakeUserStore) add(id int64, name, role string) *models.User {
	u := &models.User{ID: id, Name: name, Email: fmt.Sprintf("%s@example.com", strings.ToLower(name)), Role: role}
	f.users[id] = u
	if id > f.nextID {
		f.nextID = id
	}
	return u
}

type fakeEventStore struct {
	events map[int64]*models.Event
	nextID int64
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: map[int64]*models.Event{}}
}

func (f *fakeEventStore) Create(_ context.Context, event *models.Event) error {
	f.nextID++
	event.ID = f.nextID
	event.OrganizerStatus = models.OrganizerStatusPending
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventStore) GetByID(_ context.Context, id int64) (*models.Event, error) {
	return f.events[id], nil
}

func (f *fakeEventStore) Update(_ context.Context, event *models.Event) error {
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventStore) Delete(_ context.Context, eventID int64) error {
	delete(f.events, eventID)
	return nil
}

func (f *fakeEventStore) ListByOwner(_ context.Context, userID int64) ([]models.Event, error) {
	var events []models.Event
	for _, e := range f.events {
		if e.UserID == userID {
			events = append(events, *e)
		}
	}
	return events, nil
}

func (f *fakeEventStore) ListByOrganizer(_ context.Context, organizerID int64) ([]models.Event, error) {
	var events []models.Event
	for _, e := range f.events {
		if e.OrganizerID != nil && *e.OrganizerID == organizerID {
			events = append(events, *e)
		}
	}
	return events, nil
}

func (f *fakeEventStore) SetOrganizer(_ context.Context, eventID, organizerID int64) error {
	e := f.events[eventID]
	e.OrganizerID = &organizerID
	e.OrganizerStatus = models.OrganizerStatusPending
	return nil
}

func (f *fakeEventStore) SetOrganizerStatus(_ context.Context, eventID int64, status string) error {
	f.events[eventID].OrganizerStatus = status
	return nil
}

func (f *fakeEventStore) add(id, ownerID int64, name string, budget float64) *models.Event {
	e := &models.Event{
		ID:              id,
		Name:            name,
		Date:            "2026-10-01",
		Venue:           "Main Hall",
		Budget:          budget,
		VendorCategory:  "catering",
		UserID:          ownerID,
		OrganizerStatus: models.OrganizerStatusPending,
	}
	f.events[id] = e
	if id > f.nextID {
		f.nextID = id
	}
	return e
}

type fakeAssignmentStore struct {
	assigned  map[pair]bool
	completed map[pair]bool
	events    *fakeEventStore
}

func newFakeAssignmentStore(events *fakeEventStore) *fakeAssignmentStore {
	return &fakeAssignmentStore{
		assigned:  map[pair]bool{},
		completed: map[pair]bool{},
		events:    events,
	}
}

func (f *fakeAssignmentStore) Assign(_ context.Context, vendorID, eventID int64) (bool, error) {
	p := pair{vendorID, eventID}
	if f.assigned[p] {
		return false, nil
	}
	f.assigned[p] = true
	return true, nil
}

func (f *fakeAssignmentStore) Unassign(_ context.Context, vendorID, eventID int64) (bool, error) {
	p := pair{vendorID, eventID}
	if !f.assigned[p] {
		return false, nil
	}
	delete(f.assigned, p)
	return true, nil
}

func (f *fakeAssignmentStore) IsAssigned(_ context.Context, vendorID, eventID int64) (bool, error) {
	return f.assigned[pair{vendorID, eventID}], nil
}

func (f *fakeAssignmentStore) Complete(_ context.Context, vendorID, eventID int64) (bool, error) {
	p := pair{vendorID, eventID}
	if f.completed[p] {
		return false, nil
	}
	f.completed[p] = true
	return true, nil
}

func (f *fakeAssignmentStore) IsCompleted(_ context.Context, vendorID, eventID int64) (bool, error) {
	return f.completed[pair{vendorID, eventID}], nil
}

func (f *fakeAssignmentStore) ListVendorsByEvent(_ context.Context, eventID int64) ([]models.VendorView, error) {
	var views []models.VendorView
	for p := range f.assigned {
		if p.eventID == eventID {
			views = append(views, models.VendorView{ID: p.vendorID})
		}
	}
	return views, nil
}

func (f *fakeAssignmentStore) ListVendorIDsByEvent(_ context.Context, eventID int64) ([]int64, error) {
	var ids []int64
	for p := range f.assigned {
		if p.eventID == eventID {
			ids = append(ids, p.vendorID)
		}
	}
	return ids, nil
}

func (f *fakeAssignmentStore) ListEventsByVendor(_ context.Context, vendorID int64) ([]models.AssignedEventView, error) {
	var views []models.AssignedEventView
	for p := range f.assigned {
		if p.vendorID != vendorID {
			continue
		}
		e := f.events.events[p.eventID]
		// Mirrors the repository's visibility filter
		if e == nil || !e.HasAcceptedOrganizer() {
			continue
		}
		status := "assigned"
		if f.completed[p] {
			status = "completed"
		}
		views = append(views, models.AssignedEventView{
			ID:     p.eventID,
			Name:   e.Name,
			Budget: e.Budget,
			Status: status,
		})
	}
	return views, nil
}

type fakeVerificationStore struct {
	verifications map[pair]*models.VendorEventVerification
	nextID        int64
}

func newFakeVerificationStore() *fakeVerificationStore {
	return &fakeVerificationStore{verifications: map[pair]*models.VendorEventVerification{}}
}

func (f *fakeVerificationStore) Create(_ context.Context, v *models.VendorEventVerification) (bool, error) {
	p := pair{v.VendorID, v.EventID}
	if _, ok := f.verifications[p]; ok {
		return false, nil
	}
	f.nextID++
	v.ID = f.nextID
	v.CreatedAt = time.Now()
	f.verifications[p] = v
	return true, nil
}

func (f *fakeVerificationStore) Exists(_ context.Context, eventID, vendorID int64) (bool, error) {
	_, ok := f.verifications[pair{vendorID, eventID}]
	return ok, nil
}

func (f *fakeVerificationStore) ListByEvent(_ context.Context, eventID int64) ([]models.VendorEventVerification, error) {
	var list []models.VendorEventVerification
	for p, v := range f.verifications {
		if p.eventID == eventID {
			list = append(list, *v)
		}
	}
	return list, nil
}

type fakeRequestStore struct {
	requests    map[int64]*models.PaymentRequest
	orgRequests map[int64]*models.OrganizerPaymentRequest
	nextID      int64
	nextOrgID   int64
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{
		requests:    map[int64]*models.PaymentRequest{},
		orgRequests: map[int64]*models.OrganizerPaymentRequest{},
	}
}

func (f *fakeRequestStore) Create(_ context.Context, req *models.PaymentRequest) error {
	f.nextID++
	req.ID = f.nextID
	req.CreatedAt = time.Now()
	f.requests[req.ID] = req
	return nil
}

func (f *fakeRequestStore) GetByID(_ context.Context, id int64) (*models.PaymentRequest, error) {
	return f.requests[id], nil
}

func (f *fakeRequestStore) HasActiveRequest(_ context.Context, vendorID, eventID int64) (bool, error) {
	for _, r := range f.requests {
		if r.VendorID == vendorID && r.EventID == eventID && models.RequestActive(r.Status) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRequestStore) UpdateStatus(_ context.Context, id int64, status string) error {
	f.requests[id].Status = status
	return nil
}

func (f *fakeRequestStore) ListByVendor(_ context.Context, vendorID int64) ([]models.PaymentRequest, error) {
	var list []models.PaymentRequest
	for _, r := range f.requests {
		if r.VendorID == vendorID {
			list = append(list, *r)
		}
	}
	return list, nil
}

func (f *fakeRequestStore) ListForManager(_ context.Context, _ int64) ([]models.PaymentRequest, error) {
	var list []models.PaymentRequest
	for _, r := range f.requests {
		list = append(list, *r)
	}
	return list, nil
}

func (f *fakeRequestStore) CreateOrganizerRequest(_ context.Context, req *models.OrganizerPaymentRequest) error {
	f.nextOrgID++
	req.ID = f.nextOrgID
	req.CreatedAt = time.Now()
	f.orgRequests[req.ID] = req
	return nil
}

func (f *fakeRequestStore) GetOrganizerRequestByID(_ context.Context, id int64) (*models.OrganizerPaymentRequest, error) {
	return f.orgRequests[id], nil
}

func (f *fakeRequestStore) HasPendingOrganizerRequest(_ context.Context, organizerID, eventID int64) (bool, error) {
	for _, r := range f.orgRequests {
		if r.OrganizerID == organizerID && r.EventID == eventID && r.Status == models.RequestStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRequestStore) HasPaidOrganizerRequest(_ context.Context, organizerID, eventID int64) (bool, error) {
	for _, r := range f.orgRequests {
		if r.OrganizerID == organizerID && r.EventID == eventID && r.Status == models.RequestStatusPaid {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRequestStore) UpdateOrganizerRequestStatus(_ context.Context, id int64, status string) error {
	f.orgRequests[id].Status = status
	return nil
}

func (f *fakeRequestStore) ListOrganizerRequestsForOwner(_ context.Context, _ int64) ([]models.OrganizerPaymentRequest, error) {
	var list []models.OrganizerPaymentRequest
	for _, r := range f.orgRequests {
		list = append(list, *r)
	}
	return list, nil
}

func (f *fakeRequestStore) ListOrganizerRequestsByOrganizer(_ context.Context, organizerID int64) ([]models.OrganizerPaymentRequest, error) {
	var list []models.OrganizerPaymentRequest
	for _, r := range f.orgRequests {
		if r.OrganizerID == organizerID {
			list = append(list, *r)
		}
	}
	return list, nil
}

type fakePaymentStore struct {
	payments map[int64]*models.Payment
	nextID   int64
	requests *fakeRequestStore
}

func newFakePaymentStore(requests *fakeRequestStore) *fakePaymentStore {
	return &fakePaymentStore{
		payments: map[int64]*models.Payment{},
		requests: requests,
	}
}

func (f *fakePaymentStore) Create(_ context.Context, payment *models.Payment) error {
	f.nextID++
	payment.ID = f.nextID
	payment.CreatedAt = time.Now()
	f.payments[payment.ID] = payment
	return nil
}

func (f *fakePaymentStore) GetByID(_ context.Context, id int64) (*models.Payment, error) {
	return f.payments[id], nil
}

func (f *fakePaymentStore) GetByTransactionID(_ context.Context, transactionID string) (*models.Payment, error) {
	for _, p := range f.payments {
		if p.TransactionID != nil && *p.TransactionID == transactionID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentStore) ListByEvent(_ context.Context, eventID int64) ([]models.Payment, error) {
	var list []models.Payment
	for _, p := range f.payments {
		if p.EventID == eventID {
			list = append(list, *p)
		}
	}
	return list, nil
}

func (f *fakePaymentStore) SumCompletedByEvent(_ context.Context, eventID int64) (float64, error) {
	var total float64
	for _, p := range f.payments {
		if p.EventID == eventID && p.Status == models.PaymentStatusCompleted {
			total += p.Amount
		}
	}
	return total, nil
}

func (f *fakePaymentStore) SetTransactionID(_ context.Context, id int64, transactionID string) error {
	f.payments[id].TransactionID = &transactionID
	return nil
}

func (f *fakePaymentStore) MarkFailed(_ context.Context, id int64) error {
	f.payments[id].Status = models.PaymentStatusFailed
	return nil
}

func (f *fakePaymentStore) Settle(_ context.Context, params repository.SettleParams) error {
	payment := f.payments[params.PaymentID]
	if payment == nil || payment.Status != models.PaymentStatusPending {
		return fmt.Errorf("payment %d is not pending", params.PaymentID)
	}
	now := time.Now()
	payment.Status = models.PaymentStatusCompleted
	payment.PaymentDate = &now

	if params.RequestID != nil {
		if r := f.requests.requests[*params.RequestID]; r != nil {
			r.Status = models.RequestStatusPaid
		}
	}
	if params.OrganizerRequestID != nil {
		if r := f.requests.orgRequests[*params.OrganizerRequestID]; r != nil {
			r.Status = models.RequestStatusPaid
			r.PaidAt = &now
			r.PaymentID = &params.PaymentID
		}
	}
	return nil
}

type fakeNotificationStore struct {
	notifications []*models.Notification
	nextID        int64
}

func (f *fakeNotificationStore) Create(_ context.Context, n *models.Notification) error {
	f.nextID++
	n.ID = f.nextID
	n.CreatedAt = time.Now()
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeNotificationStore) ListByUser(_ context.Context, userID int64, _ int) ([]models.Notification, error) {
	var list []models.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			list = append(list, *n)
		}
	}
	return list, nil
}

func (f *fakeNotificationStore) CountUnread(_ context.Context, userID int64) (int, error) {
	count := 0
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) MarkRead(_ context.Context, id, userID int64) (bool, error) {
	for _, n := range f.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationStore) MarkAllRead(_ context.Context, userID int64) error {
	for _, n := range f.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationStore) titlesFor(userID int64) []string {
	var titles []string
	for _, n := range f.notifications {
		if n.UserID == userID {
			titles = append(titles, n.Title)
		}
	}
	return titles
}

type fakePublisher struct {
	subjects []string
}

func (f *fakePublisher) Publish(subject string, _ interface{}) error {
	f.subjects = append(f.subjects, subject)
	return nil
}

type fakeSettlement struct {
	intents    map[string]*external.Intent
	nextIntent int
	validSig   bool
	createErr  error
}

func newFakeSettlement() *fakeSettlement {
	return &fakeSettlement{intents: map[string]*external.Intent{}, validSig: true}
}

func (f *fakeSettlement) CreateIntent(params external.CreateIntentParams) (*external.Intent, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextIntent++
	intent := &external.Intent{
		ID:           fmt.Sprintf("pi_%d", f.nextIntent),
		ClientSecret: fmt.Sprintf("pi_%d_secret", f.nextIntent),
		Status:       "requires_payment_method",
		Amount:       params.AmountMinor,
		Currency:     params.Currency,
		Metadata:     params.Metadata,
	}
	f.intents[intent.ID] = intent
	return intent, nil
}

func (f *fakeSettlement) RetrieveIntent(intentID string) (*external.Intent, error) {
	intent, ok := f.intents[intentID]
	if !ok {
		return nil, fmt.Errorf("no such intent %s", intentID)
	}
	return intent, nil
}

func (f *fakeSettlement) VerifyWebhookSignature(_ []byte, _ string) bool {
	return f.validSig
}

type fakeVendorIndex struct {
	docs      map[int64]models.VendorView
	searchErr error
}

func newFakeVendorIndex() *fakeVendorIndex {
	return &fakeVendorIndex{docs: map[int64]models.VendorView{}}
}

func (f *fakeVendorIndex) IndexVendor(_ context.Context, v *models.VendorView) error {
	f.docs[v.ID] = *v
	return nil
}

func (f *fakeVendorIndex) SearchVendors(_ context.Context, query, city, category string, _ int) ([]models.VendorView, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []models.VendorView
	for _, v := range f.docs {
		if query != "" && !strings.Contains(strings.ToLower(v.Name), strings.ToLower(query)) {
			continue
		}
		if city != "" && v.City != city {
			continue
		}
		if category != "" && v.Category != category {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeVendorIndex) DeleteVendor(_ context.Context, id int64) error {
	delete(f.docs, id)
	return nil
}

// testEnv wires the full service graph over the fakes
type testEnv struct {
	users         *fakeUserStore
	events        *fakeEventStore
	assignments   *fakeAssignmentStore
	verifications *fakeVerificationStore
	requests      *fakeRequestStore
	payments      *fakePaymentStore
	notifications *fakeNotificationStore
	publisher     *fakePublisher
	settlement    *fakeSettlement
	index         *fakeVendorIndex

	eventSvc   *EventService
	vendorSvc  *VendorService
	paymentSvc *PaymentService
	chatSvc    *ChatService
	notifySvc  *NotificationService
}

func newTestEnv() *testEnv {
	users := newFakeUserStore()
	events := newFakeEventStore()
	assignments := newFakeAssignmentStore(events)
	verifications := newFakeVerificationStore()
	requests := newFakeRequestStore()
	payments := newFakePaymentStore(requests)
	notifications := &fakeNotificationStore{}
	publisher := &fakePublisher{}
	settlement := newFakeSettlement()
	index := newFakeVendorIndex()

	users.assignments = assignments

	notifySvc := NewNotificationService(notifications, publisher)

	return &testEnv{
		users:         users,
		events:        events,
		assignments:   assignments,
		verifications: verifications,
		requests:      requests,
		payments:      payments,
		notifications: notifications,
		publisher:     publisher,
		settlement:    settlement,
		index:         index,

		eventSvc:   NewEventService(events, users, assignments, payments, nil, notifySvc, publisher),
		vendorSvc:  NewVendorService(users, events, assignments, verifications, notifySvc, publisher, nil, index),
		paymentSvc: NewPaymentService(users, events, assignments, verifications, requests, payments, settlement, notifySvc, publisher),
		chatSvc:    NewChatService(&fakeChatStore{}, events, assignments, notifySvc),
		notifySvc:  notifySvc,
	}
}

// seedManagedEvent sets up an owner, an accepted organizer and one event
// under their management, the baseline most workflow tests start from
func (env *testEnv) seedManagedEvent() (owner, organizer *models.User, event *models.Event) {
	owner = env.users.add(1, "Owner", models.RoleUser)
	organizer = env.users.add(2, "Organizer", models.RoleOrganizer)
	event = env.events.add(10, owner.ID, "Garden Wedding", 1000)

	organizerID := organizer.ID
	event.OrganizerID = &organizerID
	event.OrganizerStatus = models.OrganizerStatusAccepted
	return owner, organizer, event
}

type fakeChatStore struct {
	messages []*models.ChatMessage
	nextID   int64
}

func (f *fakeChatStore) Create(_ context.Context, msg *models.ChatMessage) error {
	f.nextID++
	msg.ID = f.nextID
	msg.CreatedAt = time.Now()
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeChatStore) ListByEventAndUser(_ context.Context, eventID, userID int64) ([]models.ChatMessage, error) {
	var list []models.ChatMessage
	for _, m := range f.messages {
		if m.EventID == eventID && (m.SenderID == userID || m.ReceiverID == userID) {
			list = append(list, *m)
		}
	}
	return list, nil
}

func (f *fakeChatStore) ListConversations(_ context.Context, _ int64) ([]models.Conversation, error) {
	return nil, nil
}

func (f *fakeChatStore) MarkRead(_ context.Context, eventID, userID int64) error {
	for _, m := range f.messages {
		if m.EventID == eventID && m.ReceiverID == userID {
			m.IsRead = true
		}
	}
	return nil
}
