package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"notificationservice/internal/models"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestOtpService(store OtpStore, functions OtpFunctionHandler, clock *testClock) *otpService {
	svc := NewOtpService(store, functions, 0, nil, zap.NewNop()).(*otpService)
	svc.now = clock.Now
	return svc
}

func TestCreateOtp(t *testing.T) {
	store := newFakeOtpStore()
	clock := &testClock{t: fixedNow}
	svc := newTestOtpService(store, &fakeFunctionHandler{result: true}, clock)

	resp, err := svc.CreateOtp(context.Background(), models.CreateOtpRequest{ID: "alice@example.com", Type: "email", Purpose: "verify"})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", resp.ID)
	assert.Len(t, resp.Code, 6)
	n, err := strconv.Atoi(resp.Code)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 100000)
	assert.LessOrEqual(t, n, 999999)
	assert.Equal(t, fixedNow, resp.CreatedAt)
	assert.Equal(t, fixedNow.Add(60*time.Minute), resp.ExpiresAt)

	stored, ok := store.get("alice@example.com")
	require.True(t, ok)
	assert.Equal(t, resp.Code, stored.Code)
}

func TestCreateOtp_ReplacesPrevious(t *testing.T) {
	store := newFakeOtpStore()
	clock := &testClock{t: fixedNow}
	functions := &fakeFunctionHandler{result: true}
	svc := newTestOtpService(store, functions, clock)
	codes := []string{"111111", "222222"}
	svc.newCode = func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}
	ctx := context.Background()

	_, err := svc.CreateOtp(ctx, models.CreateOtpRequest{ID: "alice", Type: "email", Purpose: "verify"})
	require.NoError(t, err)
	_, err = svc.CreateOtp(ctx, models.CreateOtpRequest{ID: "alice", Type: "email", Purpose: "verify"})
	require.NoError(t, err)

	_, err = svc.ValidateOtp(ctx, models.ValidateOtpRequest{ID: "alice", Code: "111111", Type: "emailVerification"})
	assert.ErrorIs(t, err, ErrOtpNotFound)

	res, err := svc.ValidateOtp(ctx, models.ValidateOtpRequest{ID: "alice", Code: "222222", Type: "emailVerification"})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestCreateOtp_Errors(t *testing.T) {
	store := newFakeOtpStore()
	store.err = errors.New("db down")
	svc := newTestOtpService(store, &fakeFunctionHandler{}, &testClock{t: fixedNow})

	_, err := svc.CreateOtp(context.Background(), models.CreateOtpRequest{ID: "alice"})
	assert.ErrorContains(t, err, "db down")

	svc = newTestOtpService(newFakeOtpStore(), &fakeFunctionHandler{}, &testClock{t: fixedNow})
	svc.newCode = func() (string, error) { return "", errors.New("entropy") }
	_, err = svc.CreateOtp(context.Background(), models.CreateOtpRequest{ID: "alice"})
	assert.ErrorContains(t, err, "entropy")
}

func TestValidateOtp_ConsumesCode(t *testing.T) {
	store := newFakeOtpStore()
	functions := &fakeFunctionHandler{result: true}
	svc := newTestOtpService(store, functions, &testClock{t: fixedNow})
	ctx := context.Background()

	created, err := svc.CreateOtp(ctx, models.CreateOtpRequest{ID: "alice", Type: "email", Purpose: "verify"})
	require.NoError(t, err)

	res, err := svc.ValidateOtp(ctx, models.ValidateOtpRequest{ID: "alice", Code: created.Code, Type: "EMAILVERIFICATION"})
	require.NoError(t, err)
	assert.Equal(t, &models.ValidateOtpResponse{Success: true, Message: "OTP validated successfully."}, res)
	require.Len(t, functions.calls, 1)
	assert.Equal(t, executedCall{fn: OtpFunctionEmailVerification, id: "alice"}, functions.calls[0])

	_, err = svc.ValidateOtp(ctx, models.ValidateOtpRequest{ID: "alice", Code: created.Code, Type: "emailVerification"})
	assert.ErrorIs(t, err, ErrOtpNotFound)
	assert.Len(t, functions.calls, 1)
}

func TestValidateOtp_Expired(t *testing.T) {
	store := newFakeOtpStore()
	clock := &testClock{t: fixedNow}
	functions := &fakeFunctionHandler{result: true}
	svc := newTestOtpService(store, functions, clock)
	ctx := context.Background()

	created, err := svc.CreateOtp(ctx, models.CreateOtpRequest{ID: "alice"})
	require.NoError(t, err)

	// exactly at expiry the code is still valid
	clock.Advance(60 * time.Minute)
	otp, ok := store.get("alice")
	require.True(t, ok)
	assert.False(t, otp.IsExpired(clock.Now()))

	clock.Advance(time.Second)
	_, err = svc.ValidateOtp(ctx, models.ValidateOtpRequest{ID: "alice", Code: created.Code, Type: "resetPassword"})
	assert.ErrorIs(t, err, ErrOtpExpired)
	assert.ErrorIs(t, err, ErrExpired)

	_, ok = store.get("alice")
	assert.False(t, ok)

	_, err = svc.ValidateOtp(ctx, models.ValidateOtpRequest{ID: "alice", Code: created.Code, Type: "resetPassword"})
	assert.ErrorIs(t, err, ErrOtpNotFound)
	assert.Empty(t, functions.calls)
}

func TestValidateOtp_InvalidTypeKeepsCode(t *testing.T) {
	store := newFakeOtpStore()
	functions := &fakeFunctionHandler{result: true}
	svc := newTestOtpService(store, functions, &testClock{t: fixedNow})
	ctx := context.Background()

	created, err := svc.CreateOtp(ctx, models.CreateOtpRequest{ID: "alice"})
	require.NoError(t, err)

	res, err := svc.ValidateOtp(ctx, models.ValidateOtpRequest{ID: "alice", Code: created.Code, Type: "launchMissiles"})
	require.NoError(t, err)
	assert.Equal(t, &models.ValidateOtpResponse{Success: false, Message: "Invalid OTP function type: launchMissiles"}, res)

	_, ok := store.get("alice")
	assert.True(t, ok)

	res, err = svc.ValidateOtp(ctx, models.ValidateOtpRequest{ID: "alice", Code: created.Code, Type: "smsVerification"})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestValidateOtp_FunctionFailureStillConsumes(t *testing.T) {
	store := newFakeOtpStore()
	svc := newTestOtpService(store, &fakeFunctionHandler{result: false}, &testClock{t: fixedNow})
	ctx := context.Background()

	created, err := svc.CreateOtp(ctx, models.CreateOtpRequest{ID: "+15550001111"})
	require.NoError(t, err)

	res, err := svc.ValidateOtp(ctx, models.ValidateOtpRequest{ID: "+15550001111", Code: created.Code, Type: "smsVerification"})
	require.NoError(t, err)
	assert.Equal(t, &models.ValidateOtpResponse{Success: false, Message: "Failed to execute OTP function."}, res)

	_, ok := store.get("+15550001111")
	assert.False(t, ok)
}

func TestValidateOtp_FunctionError(t *testing.T) {
	boom := errors.New("verification db down")
	svc := newTestOtpService(newFakeOtpStore(), &fakeFunctionHandler{err: boom}, &testClock{t: fixedNow})
	ctx := context.Background()

	created, err := svc.CreateOtp(ctx, models.CreateOtpRequest{ID: "alice"})
	require.NoError(t, err)

	_, err = svc.ValidateOtp(ctx, models.ValidateOtpRequest{ID: "alice", Code: created.Code, Type: "emailVerification"})
	assert.ErrorIs(t, err, boom)
}

func TestValidateOtp_NothingIssued(t *testing.T) {
	svc := newTestOtpService(newFakeOtpStore(), &fakeFunctionHandler{result: true}, &testClock{t: fixedNow})

	_, err := svc.ValidateOtp(context.Background(), models.ValidateOtpRequest{ID: "bob", Code: "000000", Type: "resetPassword"})
	assert.ErrorIs(t, err, ErrOtpNotFound)
}

func TestValidateOtp_ConcurrentValidatorsSucceedOnce(t *testing.T) {
	store := newFakeOtpStore()
	functions := &fakeFunctionHandler{result: true}
	svc := newTestOtpService(store, functions, &testClock{t: fixedNow})
	ctx := context.Background()

	created, err := svc.CreateOtp(ctx, models.CreateOtpRequest{ID: "alice"})
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		notFound  atomic.Int32
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.ValidateOtp(ctx, models.ValidateOtpRequest{ID: "alice", Code: created.Code, Type: "emailVerification"})
			switch {
			case err == nil && res.Success:
				successes.Add(1)
			case errors.Is(err, ErrOtpNotFound):
				notFound.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(7), notFound.Load())
	assert.Len(t, functions.calls, 1)
}

func TestDeleteManyOtp(t *testing.T) {
	store := newFakeOtpStore()
	svc := newTestOtpService(store, &fakeFunctionHandler{}, &testClock{t: fixedNow})
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := svc.CreateOtp(ctx, models.CreateOtpRequest{ID: id})
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeleteManyOtp(ctx, models.DeleteManyOtpRequest{IDs: []string{"a", "b", "missing"}}))
	_, okA := store.get("a")
	_, okB := store.get("b")
	_, okC := store.get("c")
	assert.False(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)

	require.NoError(t, svc.DeleteManyOtp(ctx, models.DeleteManyOtpRequest{IDs: []string{"a", "b"}}))
	require.NoError(t, svc.DeleteManyOtp(ctx, models.DeleteManyOtpRequest{}))
}

func TestOtpEmailVerificationFlow(t *testing.T) {
	verification := newFakeVerificationStore()
	businessID := uuid.New()
	verification.byEmail["alice@example.com"] = businessID

	functions := NewOtpFunctionHandler(
		NewBusinessVerificationService(verification, zap.NewNop()),
		NewPasswordResetService(newFakePasswordResetStore(), 0, zap.NewNop()),
	)
	clock := &testClock{t: fixedNow}
	svc := newTestOtpService(newFakeOtpStore(), functions, clock)
	ctx := context.Background()

	created, err := svc.CreateOtp(ctx, models.CreateOtpRequest{ID: "alice@example.com", Type: "email", Purpose: "verify"})
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9]{6}$`, created.Code)
	assert.WithinDuration(t, clock.Now().Add(60*time.Minute), created.ExpiresAt, time.Second)

	res, err := svc.ValidateOtp(ctx, models.ValidateOtpRequest{ID: "alice@example.com", Code: created.Code, Type: "emailVerification"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, verification.emailVerified[businessID])
}
