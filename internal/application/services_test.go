package application_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/pulse-backoffice/internal/application"
	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	"github.com/oksasatya/pulse-backoffice/internal/infrastructure/blob"
	"github.com/oksasatya/pulse-backoffice/internal/infrastructure/memory"
	"github.com/oksasatya/pulse-backoffice/pkg/helpers"
	"github.com/oksasatya/pulse-backoffice/pkg/mailer"
)

var seedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type fakePublisher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, body.(mailer.EmailJob))
	return nil
}

type fixture struct {
	svc   *application.Services
	blobs *blob.Memory
	pub   *fakePublisher
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	hash, err := helpers.HashPassword("secret-pass")
	require.NoError(t, err)
	memory.Seed(s, seedNow, hash)

	f := &fixture{blobs: blob.NewMemory(), pub: &fakePublisher{}, now: seedNow}
	f.svc = application.NewServices(s.Repositories(), application.Deps{
		JWT:     helpers.NewJWTManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour),
		Blobs:   f.blobs,
		Pub:     f.pub,
		Latency: application.NewLatency(0, 0),
		Logger:  helpers.NewDiscardLogger(),
	})
	f.svc.SetClock(func() time.Time { return f.now })
	return f
}

func ptr[T any](v T) *T { return &v }

// ---------------------------------------------------------------------------
// Latency
// ---------------------------------------------------------------------------

func TestLatency_Wait(t *testing.T) {
	t.Parallel()

	t.Run("nil adds no delay", func(t *testing.T) {
		t.Parallel()
		var l *application.Latency
		assert.NoError(t, l.Wait(context.Background()))
	})

	t.Run("cancelled context wins over delay", func(t *testing.T) {
		t.Parallel()
		l := application.NewLatency(time.Hour, 0)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, l.Wait(ctx), context.Canceled)
	})

	t.Run("deadline", func(t *testing.T) {
		t.Parallel()
		l := application.NewLatency(time.Hour, 0)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, l.Wait(ctx), context.DeadlineExceeded)
	})

	t.Run("failure rate one always fails", func(t *testing.T) {
		t.Parallel()
		l := application.NewLatency(0, 1)
		for i := 0; i < 5; i++ {
			assert.ErrorIs(t, l.Wait(context.Background()), entity.ErrTransient)
		}
	})

	t.Run("delay elapses", func(t *testing.T) {
		t.Parallel()
		l := application.NewLatency(5*time.Millisecond, 0)
		start := time.Now()
		require.NoError(t, l.Wait(context.Background()))
		assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
	})
}

func TestService_HonoursCancellation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Users.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = f.svc.KYC.Metrics(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

var investorIDPattern = regexp.MustCompile(`^INV-\d{2}-[A-Z]{3}-\d{4}$`)

func TestUserService_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name       string
		in         application.CreateUserInput
		wantErr    error
		wantInvID  bool
		wantStatus entity.UserStatus
	}{
		{
			name:       "investor gets generated id",
			in:         application.CreateUserInput{Email: "new.lp@example.com", Name: "Jordan Park", Role: entity.RoleInvestor},
			wantInvID:  true,
			wantStatus: entity.UserActive,
		},
		{
			name:       "analyst has no investor id",
			in:         application.CreateUserInput{Email: "analyst2@pulse.example", Name: "Kim", Role: entity.RoleAnalyst, InvestorID: "INV-24-KIM-0001", Status: entity.UserInactive},
			wantStatus: entity.UserInactive,
		},
		{
			name:    "duplicate email",
			in:      application.CreateUserInput{Email: "ADMIN@pulse.example", Name: "Clone", Role: entity.RoleAdmin},
			wantErr: entity.ErrValidation,
		},
		{
			name:    "bad role",
			in:      application.CreateUserInput{Email: "x@pulse.example", Name: "X", Role: "root"},
			wantErr: entity.ErrValidation,
		},
		{
			name:    "missing name",
			in:      application.CreateUserInput{Email: "y@pulse.example", Role: entity.RoleViewer},
			wantErr: entity.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			u, err := f.svc.Users.Create(ctx, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, u.ID)
			assert.Equal(t, tt.wantStatus, u.Status)
			assert.Equal(t, entity.DefaultPermissions(tt.in.Role), u.Permissions)
			if tt.wantInvID {
				assert.Regexp(t, investorIDPattern, u.InvestorID)
				assert.Contains(t, u.InvestorID, "INV-25-JOR-")
			} else {
				assert.Empty(t, u.InvestorID)
			}

			stored, err := f.svc.Users.Get(ctx, u.ID)
			require.NoError(t, err)
			assert.Equal(t, u.Email, stored.Email)
		})
	}
}

func TestCreate_AssignsFreshIDs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	const n = 5

	tests := []struct {
		name   string
		list   func(f *fixture) ([]string, error)
		create func(f *fixture, i int) (string, error)
	}{
		{
			name: "users",
			list: func(f *fixture) ([]string, error) { return ids(f.svc.Users.List(ctx)) },
			create: func(f *fixture, i int) (string, error) {
				u, err := f.svc.Users.Create(ctx, application.CreateUserInput{
					Email: fmt.Sprintf("user%d@pulse.example", i), Name: "User", Role: entity.RoleAnalyst,
				})
				if err != nil {
					return "", err
				}
				return u.ID, nil
			},
		},
		{
			name: "investors",
			list: func(f *fixture) ([]string, error) { return ids(f.svc.Investors.List(ctx)) },
			create: func(f *fixture, i int) (string, error) {
				inv, err := f.svc.Investors.Create(ctx, fmt.Sprintf("Investor %d", i), entity.InvestorIndividual, "")
				if err != nil {
					return "", err
				}
				return inv.ID, nil
			},
		},
		{
			name: "kyc reviews",
			list: func(f *fixture) ([]string, error) { return ids(f.svc.KYC.ListReviews(ctx)) },
			create: func(f *fixture, _ int) (string, error) {
				r, err := f.svc.KYC.CreateReview(ctx, application.CreateReviewInput{InvestorID: "inv-1002"})
				if err != nil {
					return "", err
				}
				return r.ID, nil
			},
		},
		{
			name: "due diligence",
			list: func(f *fixture) ([]string, error) { return ids(f.svc.DueDiligence.List(ctx)) },
			create: func(f *fixture, i int) (string, error) {
				d, err := f.svc.DueDiligence.Create(ctx, application.CreateDueDiligenceInput{
					CompanyName: fmt.Sprintf("Company %d", i), Type: entity.DDFollowOn,
				})
				if err != nil {
					return "", err
				}
				return d.ID, nil
			},
		},
		{
			name: "communications",
			list: func(f *fixture) ([]string, error) { return ids(f.svc.Communications.List(ctx)) },
			create: func(f *fixture, i int) (string, error) {
				c, err := f.svc.Communications.Create(ctx, application.CreateCommunicationInput{
					Type: entity.CommMessage, Subject: fmt.Sprintf("Note %d", i),
				})
				if err != nil {
					return "", err
				}
				return c.ID, nil
			},
		},
		{
			name: "documents",
			list: func(f *fixture) ([]string, error) { return ids(f.svc.Documents.List(ctx)) },
			create: func(f *fixture, i int) (string, error) {
				d, err := f.svc.Documents.Upload(ctx, "inv-1001", application.FileUpload{
					Filename: fmt.Sprintf("report-%d.pdf", i), Body: bytes.NewBufferString("x"),
				}, application.DocumentMeta{Title: "Report", Type: "report"})
				if err != nil {
					return "", err
				}
				return d.ID, nil
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			for i := 0; i < n; i++ {
				before, err := tt.list(f)
				require.NoError(t, err)
				id, err := tt.create(f, i)
				require.NoError(t, err)
				assert.NotEmpty(t, id)
				assert.NotContains(t, before, id)

				after, err := tt.list(f)
				require.NoError(t, err)
				assert.Len(t, after, len(before)+1)
			}
		})
	}
}

func ids[T interface{ Key() string }](items []T, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Key())
	}
	return out, nil
}

func TestGenerateInvestorID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		prefix string
	}{
		{"Elena Marsh", "INV-25-ELE-"},
		{"Al", "INV-25-ALX-"},
		{"", "INV-25-XXX-"},
		{"  o'neil", "INV-25-ONE-"},
	}
	for _, tt := range tests {
		id := application.GenerateInvestorID(tt.name, seedNow)
		assert.Regexp(t, investorIDPattern, id, tt.name)
		assert.Equal(t, tt.prefix, id[:len(tt.prefix)], tt.name)
	}
}

func TestUserService_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing id", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.Users.Update(ctx, "usr-missing", application.UpdateUserInput{Name: ptr("x")})
		assert.ErrorIs(t, err, entity.ErrNotFound)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.now = seedNow.Add(time.Hour)
		u, err := f.svc.Users.Update(ctx, "usr-0003", application.UpdateUserInput{Name: ptr("Sam P.")})
		require.NoError(t, err)
		assert.Equal(t, "Sam P.", u.Name)
		assert.Equal(t, "sam@pulse.example", u.Email)
		assert.Equal(t, entity.RoleAnalyst, u.Role)
		assert.Equal(t, seedNow.Add(time.Hour), u.UpdatedAt)
	})

	t.Run("investor cannot change role", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.Users.Update(ctx, "usr-0005", application.UpdateUserInput{Role: ptr(entity.RoleAdmin)})
		assert.ErrorIs(t, err, entity.ErrValidation)
	})

	t.Run("email taken by another user", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.Users.Update(ctx, "usr-0003", application.UpdateUserInput{Email: ptr("morgan@pulse.example")})
		assert.ErrorIs(t, err, entity.ErrValidation)
	})

	t.Run("toggle status", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ok, err := f.svc.Users.ToggleStatus(ctx, "usr-0004", entity.UserActive)
		require.NoError(t, err)
		assert.True(t, ok)
		u, err := f.svc.Users.Get(ctx, "usr-0004")
		require.NoError(t, err)
		assert.Equal(t, entity.UserActive, u.Status)

		_, err = f.svc.Users.ToggleStatus(ctx, "usr-0004", "paused")
		assert.ErrorIs(t, err, entity.ErrValidation)
	})
}

func TestUserService_ListIsRepeatable(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Users.List(ctx)
	require.NoError(t, err)
	second, err := f.svc.Users.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestUserService_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "Admin@Pulse.example", "secret-pass", nil},
		{"wrong password", "admin@pulse.example", "nope", entity.ErrInvalidCredentials},
		{"unknown email", "ghost@pulse.example", "secret-pass", entity.ErrInvalidCredentials},
		{"inactive user", "riley@pulse.example", "secret-pass", entity.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			u, pair, err := f.svc.Users.Login(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "usr-0001", u.ID)
			require.NotNil(t, u.LastLogin)
			assert.NotEmpty(t, pair.AccessToken)

			refreshed, err := f.svc.Users.Refresh(ctx, pair.RefreshToken)
			require.NoError(t, err)
			assert.NotEmpty(t, refreshed.AccessToken)

			_, err = f.svc.Users.Refresh(ctx, pair.AccessToken)
			assert.ErrorIs(t, err, entity.ErrInvalidCredentials)
		})
	}
}

// ---------------------------------------------------------------------------
// KYC
// ---------------------------------------------------------------------------

func TestKYCService_SeedAggregates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.svc.KYC.Metrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.KYCMetrics{Total: 4, Approved: 1, PendingReview: 2, Rejected: 1, HighRisk: 1, ExpiringSoon: 2}, m)

	d, err := f.svc.KYC.RiskDistribution(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.RiskDistribution{High: 1, Medium: 2, Low: 1}, d)

	recent, err := f.svc.KYC.RecentActivity(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "kyc-2003", recent[0].ID)
	assert.Equal(t, "kyc-2002", recent[1].ID)
}

func TestComputeRiskDistribution(t *testing.T) {
	t.Parallel()
	reviews := []entity.KYCReview{{RiskLevel: entity.RiskHigh}, {RiskLevel: entity.RiskMedium}, {RiskLevel: entity.RiskMedium}}
	assert.Equal(t, entity.RiskDistribution{High: 1, Medium: 2, Low: 0}, application.ComputeRiskDistribution(reviews))
	assert.Equal(t, entity.RiskDistribution{}, application.ComputeRiskDistribution(nil))
}

func TestComputeKYCMetrics(t *testing.T) {
	t.Parallel()
	in := func(d int) *time.Time { v := seedNow.AddDate(0, 0, d); return &v }
	reviews := []entity.KYCReview{
		{Status: entity.KYCApproved, RiskLevel: entity.RiskLow, Documents: []entity.KYCDocument{{ExpiryDate: in(10)}, {ExpiryDate: in(90)}}},
		{Status: entity.KYCPendingReview, RiskLevel: entity.RiskHigh, Documents: []entity.KYCDocument{{ExpiryDate: in(-1)}, {}}},
		{Status: entity.KYCRejected, RiskLevel: entity.RiskHigh},
	}
	got := application.ComputeKYCMetrics(reviews, seedNow)
	assert.Equal(t, entity.KYCMetrics{Total: 3, Approved: 1, PendingReview: 1, Rejected: 1, HighRisk: 2, ExpiringSoon: 1}, got)
}

func TestKYCService_CreateReview(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unknown investor", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.KYC.CreateReview(ctx, application.CreateReviewInput{InvestorID: "inv-9999"})
		assert.ErrorIs(t, err, entity.ErrValidation)
	})

	t.Run("defaults and denormalized investor", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		r, err := f.svc.KYC.CreateReview(ctx, application.CreateReviewInput{InvestorID: "inv-1002"})
		require.NoError(t, err)
		assert.Equal(t, entity.RiskMedium, r.RiskLevel)
		assert.Equal(t, entity.KYCPendingReview, r.Status)
		assert.Equal(t, "Elena Marsh", r.Investor.Name)
		assert.Equal(t, seedNow, r.LastReviewDate)
		assert.Equal(t, seedNow.AddDate(1, 0, 0), r.NextReviewDate)
		assert.NotNil(t, r.Documents)

		all, err := f.svc.KYC.ListReviews(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 5)
		assert.Equal(t, r.ID, all[4].ID)
	})

	t.Run("invalid risk", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.KYC.CreateReview(ctx, application.CreateReviewInput{InvestorID: "inv-1002", RiskLevel: "Extreme"})
		assert.ErrorIs(t, err, entity.ErrValidation)
	})
}

func TestKYCService_StatusAndDocuments(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	ok, err := f.svc.KYC.UpdateReviewStatus(ctx, "kyc-2002", entity.KYCApproved)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = f.svc.KYC.UpdateReviewStatus(ctx, "kyc-missing", entity.KYCApproved)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	doc, err := f.svc.KYC.UploadDocument(ctx, "kyc-2004", application.FileUpload{
		Filename: "passport.PDF", ContentType: "application/pdf", Body: bytes.NewBufferString("%PDF"),
	}, application.KYCDocumentMeta{Type: "identity"})
	require.NoError(t, err)
	assert.Equal(t, "passport.PDF", doc.Name)
	assert.Equal(t, entity.KYCDocPendingReview, doc.Status)
	assert.Equal(t, "kyc-2004", doc.ReviewID)
	obj, ok := f.blobs.Get("kyc/kyc-2004/" + doc.ID + ".pdf")
	require.True(t, ok)
	assert.Equal(t, "%PDF", string(obj.Data))

	updated, err := f.svc.KYC.UpdateDocumentStatus(ctx, "kyc-2004", doc.ID, entity.KYCDocValid)
	require.NoError(t, err)
	assert.Equal(t, entity.KYCDocValid, updated.Status)

	_, err = f.svc.KYC.UpdateDocumentStatus(ctx, "kyc-2004", "nope", entity.KYCDocValid)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	_, err = f.svc.KYC.UploadDocument(ctx, "kyc-2004", application.FileUpload{Filename: "x.pdf"}, application.KYCDocumentMeta{})
	assert.ErrorIs(t, err, entity.ErrValidation)
}

// ---------------------------------------------------------------------------
// Due diligence
// ---------------------------------------------------------------------------

func TestDueDiligenceService_UpdateProgressClamps(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tests := []struct {
		in, want int
	}{
		{150, 100},
		{-20, 0},
		{55, 55},
	}
	for _, tt := range tests {
		f := newFixture(t)
		d, err := f.svc.DueDiligence.UpdateProgress(ctx, "dd-3001", tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, d.Progress, "progress %d", tt.in)
	}
}

func TestDueDiligenceService_Lifecycle(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	item, err := f.svc.DueDiligence.Create(ctx, application.CreateDueDiligenceInput{
		CompanyName: "Orbit Foods",
		Type:        entity.DDInitialInvestment,
		Priority:    entity.PriorityMedium,
		AssignedTo:  "Sam Patel",
		StartDate:   seedNow,
		DueDate:     seedNow.AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DDNotStarted, item.Status)

	_, err = f.svc.DueDiligence.UpdateStatus(ctx, item.ID, entity.DDInProgress)
	require.NoError(t, err)

	c, err := f.svc.DueDiligence.AddComment(ctx, item.ID, "usr-0003", "  data room opened ")
	require.NoError(t, err)
	assert.Equal(t, "data room opened", c.Text)

	_, err = f.svc.DueDiligence.AddComment(ctx, item.ID, "usr-0003", " ")
	assert.ErrorIs(t, err, entity.ErrValidation)

	doc, err := f.svc.DueDiligence.UploadDocument(ctx, item.ID, application.FileUpload{
		Filename: "model.xlsx", Body: bytes.NewBufferString("cells"),
	}, "", "financial")
	require.NoError(t, err)
	assert.Equal(t, "model.xlsx", doc.Name)

	got, err := f.svc.DueDiligence.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DDInProgress, got.Status)
	assert.Len(t, got.Comments, 1)
	assert.Len(t, got.Documents, 1)

	_, err = f.svc.DueDiligence.UpdateStatus(ctx, "dd-missing", entity.DDCompleted)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestFilterDueDiligence(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	items, err := f.svc.DueDiligence.List(context.Background())
	require.NoError(t, err)

	ids := func(in []entity.DueDiligenceItem) []string {
		out := []string{}
		for _, d := range in {
			out = append(out, d.ID)
		}
		return out
	}
	to := seedNow.AddDate(0, 0, 10)
	tests := []struct {
		name   string
		filter application.DueDiligenceFilter
		want   []string
	}{
		{"empty filter keeps order", application.DueDiligenceFilter{}, []string{"dd-3001", "dd-3002", "dd-3003", "dd-3004"}},
		{"search assignee", application.DueDiligenceFilter{Search: "sam"}, []string{"dd-3001", "dd-3003"}},
		{"priority and type", application.DueDiligenceFilter{Priority: entity.PriorityHigh, Type: entity.DDInitialInvestment}, []string{"dd-3001", "dd-3004"}},
		{"due before", application.DueDiligenceFilter{Due: application.DateRange{To: &to}}, []string{"dd-3001", "dd-3002", "dd-3004"}},
		{"no match", application.DueDiligenceFilter{Search: "zzz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ids(application.FilterDueDiligence(items, tt.filter)))
		})
	}
}

// ---------------------------------------------------------------------------
// Communications
// ---------------------------------------------------------------------------

func TestCommunicationService_SeedStats(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	st, err := f.svc.Communications.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.CommunicationStats{Total: 3, Sent: 1, Scheduled: 1, Drafts: 1, ReadRate: 66.7, DeliveryRate: 100}, st)
}

func TestComputeCommunicationStats_Empty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, entity.CommunicationStats{}, application.ComputeCommunicationStats(nil))
}

func TestCommunicationService_CreateAndDelete(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.Communications.Create(ctx, application.CreateCommunicationInput{
		Type: entity.CommEmail, Subject: "Hello", Recipients: []string{"inv-1001", " inv-1001", "", "inv-1002"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CommDraft, c.Status)
	assert.Equal(t, []string{"inv-1001", "inv-1002"}, c.Recipients)

	later := seedNow.Add(48 * time.Hour)
	s, err := f.svc.Communications.Create(ctx, application.CreateCommunicationInput{
		Type: entity.CommAnnouncement, Subject: "Later", ScheduledDate: &later,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CommScheduled, s.Status)

	past := seedNow.Add(-time.Hour)
	_, err = f.svc.Communications.Create(ctx, application.CreateCommunicationInput{
		Type: entity.CommEmail, Subject: "Past", ScheduledDate: &past,
	})
	assert.ErrorIs(t, err, entity.ErrValidation)

	_, err = f.svc.Communications.Create(ctx, application.CreateCommunicationInput{Type: "fax"})
	var ve *entity.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Errors, 2)

	require.NoError(t, f.svc.Communications.Delete(ctx, c.ID))
	assert.ErrorIs(t, f.svc.Communications.Delete(ctx, c.ID), entity.ErrNotFound)
}

func TestCommunicationService_Send(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("email queues one job per recipient", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		c, err := f.svc.Communications.Send(ctx, "com-4002")
		require.NoError(t, err)
		assert.Equal(t, entity.CommSent, c.Status)
		require.NotNil(t, c.SentDate)
		assert.Equal(t, entity.DeliverySent, c.Metadata.DeliveryStatus["inv-1001"])

		require.Len(t, f.pub.jobs, 2)
		assert.Equal(t, "ops@northbridge.example", f.pub.jobs[0].To)
		assert.Equal(t, "lp@meridian.example", f.pub.jobs[1].To)
		assert.Equal(t, "com-4002", f.pub.jobs[0].CommunicationID)

		_, err = f.svc.Communications.Send(ctx, "com-4002")
		assert.ErrorIs(t, err, entity.ErrValidation)
	})

	t.Run("message is not queued", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.Communications.Send(ctx, "com-4003")
		require.NoError(t, err)
		assert.Empty(t, f.pub.jobs)
	})

	t.Run("publish failure marks recipient failed", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.pub.err = errors.New("broker down")
		c, err := f.svc.Communications.Send(ctx, "com-4002")
		require.NoError(t, err)
		assert.Equal(t, entity.DeliveryFailed, c.Metadata.DeliveryStatus["inv-1004"])
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.Communications.Send(ctx, "com-missing")
		assert.ErrorIs(t, err, entity.ErrNotFound)
	})
}

func TestCommunicationService_SendDue(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.svc.Communications.SendDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.now = seedNow.Add(72 * time.Hour)
	n, err = f.svc.Communications.SendDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	c, err := f.svc.Communications.Get(ctx, "com-4002")
	require.NoError(t, err)
	assert.Equal(t, entity.CommSent, c.Status)
}

func TestCommunicationService_MarkReadAndDelivery(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.Communications.MarkRead(ctx, "com-4001", "inv-1002")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"inv-1001", "inv-1002", "inv-1003"}, c.Metadata.ReadBy)

	_, err = f.svc.Communications.MarkRead(ctx, "com-4001", "inv-1004")
	assert.ErrorIs(t, err, entity.ErrValidation)
	_, err = f.svc.Communications.MarkRead(ctx, "com-4003", "inv-1002")
	assert.ErrorIs(t, err, entity.ErrValidation)

	// a late failure report never downgrades a recipient who has read it
	require.NoError(t, f.svc.Communications.RecordDelivery(ctx, "com-4001", "inv-1003", entity.DeliveryFailed))
	c, err = f.svc.Communications.Get(ctx, "com-4001")
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryDelivered, c.Metadata.DeliveryStatus["inv-1003"])
	st, err := f.svc.Communications.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100.0, st.ReadRate)
	assert.Equal(t, 100.0, st.DeliveryRate)

	_, err = f.svc.Communications.Send(ctx, "com-4002")
	require.NoError(t, err)
	require.NoError(t, f.svc.Communications.RecordDelivery(ctx, "com-4002", "inv-1001", entity.DeliveryDelivered))
	require.NoError(t, f.svc.Communications.RecordDelivery(ctx, "com-4002", "inv-1004", entity.DeliveryFailed))
	c, err = f.svc.Communications.Get(ctx, "com-4002")
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryDelivered, c.Metadata.DeliveryStatus["inv-1001"])
	assert.Equal(t, entity.DeliveryFailed, c.Metadata.DeliveryStatus["inv-1004"])
	st, err = f.svc.Communications.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 80.0, st.DeliveryRate)

	assert.ErrorIs(t, f.svc.Communications.RecordDelivery(ctx, "com-missing", "x", entity.DeliveryDelivered), entity.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Documents and funds
// ---------------------------------------------------------------------------

func TestDocumentService(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.svc.Documents.Upload(ctx, "inv-1003", application.FileUpload{
		Filename: "side-letter.pdf", Body: bytes.NewBufferString("x"),
	}, application.DocumentMeta{Title: "Side Letter", Type: "legal"})
	require.NoError(t, err)
	assert.Equal(t, seedNow, d.Date)
	assert.Equal(t, blob.URLPrefix+"documents/inv-1003/"+d.ID+".pdf", d.URL)

	_, err = f.svc.Documents.Upload(ctx, "inv-0000", application.FileUpload{
		Filename: "a.pdf", Body: bytes.NewBufferString("x"),
	}, application.DocumentMeta{})
	assert.ErrorIs(t, err, entity.ErrNotFound)

	found, err := f.svc.Documents.Search(ctx, "letter")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, d.ID, found[0].ID)

	n, err := f.svc.Documents.Reindex(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFundService_Performance(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p, err := f.svc.Funds.Performance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, p.FundCount)
	assert.InDelta(t, 750e6, p.TotalAUM, 1)
	assert.Equal(t, 14.25, p.WeightedIRR)
	assert.Equal(t, 1.52, p.AvgMultiple)

	assert.Equal(t, entity.FundPerformance{}, application.ComputeFundPerformance(nil))
}
