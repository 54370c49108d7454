package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"notificationservice/internal/models"
	"notificationservice/internal/utils"
)

type fakeNotificationStore struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]*models.Notification
	createErr error
	updateErr error
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{rows: map[uuid.UUID]*models.Notification{}}
}

func (f *fakeNotificationStore) Create(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *n
	f.rows[n.ID] = &cp
	return nil
}

func (f *fakeNotificationStore) GetByID(_ context.Context, id uuid.UUID) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNotificationStore) UpdateStatus(_ context.Context, id uuid.UUID, status string, deliveredAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if n, ok := f.rows[id]; ok {
		n.Status = status
		n.DeliveredAt = deliveredAt
	}
	return nil
}

func (f *fakeNotificationStore) all() []*models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Notification, 0, len(f.rows))
	for _, n := range f.rows {
		out = append(out, n)
	}
	return out
}

type fakePublisher struct {
	mu        sync.Mutex
	published []*models.NotificationResponse
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, n *models.NotificationResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, n)
	return nil
}

// fakeOtpStore keeps one code per id and compares plaintext codes. CodeHash
// holds a per-write token so Consume only removes the row it was given.
type fakeOtpStore struct {
	mu      sync.Mutex
	rows    map[string]models.Otp
	version int
	err     error
}

func newFakeOtpStore() *fakeOtpStore {
	return &fakeOtpStore{rows: map[string]models.Otp{}}
}

func (f *fakeOtpStore) Replace(_ context.Context, otp *models.Otp) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.version++
	otp.CodeHash = otp.Code + "#" + strconv.Itoa(f.version)
	f.rows[otp.ID] = *otp
	return nil
}

func (f *fakeOtpStore) FindByIDAndCode(_ context.Context, id, code string) (*models.Otp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	otp, ok := f.rows[id]
	if !ok || otp.Code != code {
		return nil, nil
	}
	return &otp, nil
}

func (f *fakeOtpStore) Consume(_ context.Context, otp *models.Otp) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.rows[otp.ID]
	if !ok || cur.CodeHash != otp.CodeHash {
		return false, nil
	}
	delete(f.rows, otp.ID)
	return true, nil
}

func (f *fakeOtpStore) DeleteMany(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		delete(f.rows, id)
	}
	return nil
}

func (f *fakeOtpStore) get(id string) (models.Otp, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	otp, ok := f.rows[id]
	return otp, ok
}

type executedCall struct {
	fn OtpFunction
	id string
}

type fakeFunctionHandler struct {
	mu     sync.Mutex
	result bool
	err    error
	calls  []executedCall
}

func (f *fakeFunctionHandler) Execute(_ context.Context, fn OtpFunction, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, executedCall{fn: fn, id: id})
	return f.result, f.err
}

type fakeVerificationStore struct {
	byEmail       map[string]uuid.UUID
	byPhone       map[string]uuid.UUID
	emailVerified map[uuid.UUID]bool
	phoneVerified map[uuid.UUID]bool
}

func newFakeVerificationStore() *fakeVerificationStore {
	return &fakeVerificationStore{
		byEmail:       map[string]uuid.UUID{},
		byPhone:       map[string]uuid.UUID{},
		emailVerified: map[uuid.UUID]bool{},
		phoneVerified: map[uuid.UUID]bool{},
	}
}

func (f *fakeVerificationStore) GetBusinessIDByEmail(_ context.Context, email string) (*uuid.UUID, error) {
	if id, ok := f.byEmail[email]; ok {
		return &id, nil
	}
	return nil, nil
}

func (f *fakeVerificationStore) GetBusinessIDByPhone(_ context.Context, phone string) (*uuid.UUID, error) {
	if id, ok := f.byPhone[phone]; ok {
		return &id, nil
	}
	return nil, nil
}

func (f *fakeVerificationStore) SetEmailVerified(_ context.Context, id uuid.UUID) error {
	f.emailVerified[id] = true
	return nil
}

func (f *fakeVerificationStore) SetPhoneVerified(_ context.Context, id uuid.UUID) error {
	f.phoneVerified[id] = true
	return nil
}

type fakePasswordResetStore struct {
	mu   sync.Mutex
	rows map[string]models.PasswordResetRequest
	err  error
}

func newFakePasswordResetStore() *fakePasswordResetStore {
	return &fakePasswordResetStore{rows: map[string]models.PasswordResetRequest{}}
}

func (f *fakePasswordResetStore) Replace(_ context.Context, pr *models.PasswordResetRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rows[pr.ID] = *pr
	return nil
}

func (f *fakePasswordResetStore) GetByID(_ context.Context, id string) (*models.PasswordResetRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pr, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &pr, nil
}

type fakeParamsStore struct {
	mu     sync.Mutex
	params *models.NotificationParams
	err    error
	calls  int
	gate   chan struct{}
}

func (f *fakeParamsStore) GetLatest(context.Context) (*models.NotificationParams, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.params == nil {
		return nil, nil
	}
	cp := *f.params
	return &cp, nil
}

func (f *fakeParamsStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeParamsService struct {
	params *models.NotificationParams
	err    error
}

func (f *fakeParamsService) Get(context.Context) (*models.NotificationParams, error) {
	return f.params, f.err
}

func (f *fakeParamsService) ClearCache() {}

type fakeMailSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeMailSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

type fakeRenderer struct {
	name string
	vars map[string]string
	out  string
	err  error
}

func (f *fakeRenderer) RenderEmail(_ context.Context, name string, vars map[string]string) (string, error) {
	f.name, f.vars = name, vars
	return f.out, f.err
}

func (f *fakeRenderer) RenderSms(_ context.Context, name string, vars map[string]string) (string, error) {
	f.name, f.vars = name, vars
	return f.out, f.err
}

type fakeGateway struct {
	sent []utils.SmsMessage
	err  error
}

func (f *fakeGateway) SendSMS(_ context.Context, msg utils.SmsMessage) (*utils.SendSMSResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, msg)
	return &utils.SendSMSResponse{SID: "SM1", Status: "queued"}, nil
}
