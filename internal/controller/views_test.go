package controller

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/pulse-backoffice/internal/application"
	"github.com/oksasatya/pulse-backoffice/internal/domain/entity"
	"github.com/oksasatya/pulse-backoffice/internal/infrastructure/blob"
	"github.com/oksasatya/pulse-backoffice/internal/infrastructure/memory"
)

var viewNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func seededServices(t *testing.T) *application.Services {
	t.Helper()
	s := memory.NewStore()
	memory.Seed(s, viewNow, "")
	svc := application.NewServices(s.Repositories(), application.Deps{
		Blobs:   blob.NewMemory(),
		Latency: application.NewLatency(0, 0),
		Logger:  quietLogger(),
	})
	svc.SetClock(func() time.Time { return viewNow })
	return svc
}

func TestUsers_CreateReloadsAndFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	u := NewUsers(seededServices(t).Users, quietLogger())
	defer u.Close()

	require.NoError(t, u.Load(ctx))
	require.Len(t, u.Items(), 5)

	created, err := u.Create(ctx, application.CreateUserInput{Email: "dana@pulse.example", Name: "Dana", Role: entity.RoleViewer})
	require.NoError(t, err)
	items := u.Items()
	require.Len(t, items, 6)
	assert.Equal(t, created.ID, items[5].ID)

	_, err = u.Create(ctx, application.CreateUserInput{Email: "dana@pulse.example", Name: "Dana", Role: entity.RoleViewer})
	assert.ErrorIs(t, err, entity.ErrValidation)
	assert.Len(t, u.Items(), 6)

	got := u.Filter(application.UserFilter{Role: entity.RoleViewer})
	assert.Len(t, got, 2)
	assert.Len(t, u.Filter(application.UserFilter{}), 6)
}

func TestKYC_AggregatesRefreshWhenReviewReloadFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := seededServices(t).KYC
	listErr := errors.New("list unavailable")
	k := NewKYC(svc, quietLogger())
	k.Collection = NewCollection("kyc", func(context.Context) ([]entity.KYCReview, error) {
		return nil, listErr
	}, quietLogger())
	defer k.Close()

	ok, err := k.UpdateStatus(ctx, "kyc-2002", entity.KYCApproved)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, Errored, k.State().Status)
	assert.ErrorIs(t, k.State().Err, listErr)

	m, loaded := k.Metrics.State().Get()
	require.True(t, loaded)
	assert.Equal(t, 2, m.Approved)
	dist, loaded := k.Distribution.State().Get()
	require.True(t, loaded)
	assert.Equal(t, 4, dist.High+dist.Medium+dist.Low)
	activity, loaded := k.Activity.State().Get()
	require.True(t, loaded)
	require.NotEmpty(t, activity)
	assert.Equal(t, "kyc-2002", activity[0].ID)
}

func TestKYC_MutationRefreshesAggregates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	k := NewKYC(seededServices(t).KYC, quietLogger())
	defer k.Close()

	_, loaded := k.Metrics.State().Get()
	assert.False(t, loaded)

	require.NoError(t, k.LoadAll(ctx))
	m, loaded := k.Metrics.State().Get()
	require.True(t, loaded)
	assert.Equal(t, 1, m.Approved)

	ok, err := k.UpdateStatus(ctx, "kyc-2002", entity.KYCApproved)
	require.NoError(t, err)
	assert.True(t, ok)

	m, _ = k.Metrics.State().Get()
	assert.Equal(t, 2, m.Approved)
	assert.Equal(t, 1, m.PendingReview)
	assert.Len(t, k.Filter(application.KYCFilter{Status: entity.KYCApproved}), 2)

	activity, _ := k.Activity.State().Get()
	require.NotEmpty(t, activity)
	assert.Equal(t, "kyc-2002", activity[0].ID)

	_, err = k.UpdateStatus(ctx, "kyc-missing", entity.KYCApproved)
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.Equal(t, Ready, k.State().Status)
}

func TestKYC_UploadDocument(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	k := NewKYC(seededServices(t).KYC, quietLogger())
	defer k.Close()
	require.NoError(t, k.LoadAll(ctx))

	doc, err := k.UploadDocument(ctx, "kyc-2003", application.FileUpload{
		Filename: "bank.pdf", Body: bytes.NewBufferString("x"),
	}, application.KYCDocumentMeta{Name: "Bank reference", Type: "financial"})
	require.NoError(t, err)

	for _, r := range k.Items() {
		if r.ID == "kyc-2003" {
			require.Len(t, r.Documents, 2)
			assert.Equal(t, doc.ID, r.Documents[1].ID)
			return
		}
	}
	t.Fatal("review kyc-2003 missing after reload")
}

func TestDueDiligence_ProgressAndFilter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d := NewDueDiligence(seededServices(t).DueDiligence, quietLogger())
	defer d.Close()
	require.NoError(t, d.Load(ctx))

	item, err := d.UpdateProgress(ctx, "dd-3003", 150)
	require.NoError(t, err)
	assert.Equal(t, 100, item.Progress)

	found := d.Filter(application.DueDiligenceFilter{Search: "quarry"})
	require.Len(t, found, 1)
	assert.Equal(t, 100, found[0].Progress)
}

func TestCommunications_StatsFollowReload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewCommunications(seededServices(t).Communications, quietLogger())
	defer c.Close()

	assert.Equal(t, entity.CommunicationStats{}, c.Stats())
	require.NoError(t, c.Load(ctx))
	assert.Equal(t, 1, c.Stats().Sent)

	_, err := c.Send(ctx, "com-4003")
	require.NoError(t, err)
	st := c.Stats()
	assert.Equal(t, 2, st.Sent)
	assert.Equal(t, 0, st.Drafts)

	require.NoError(t, c.Delete(ctx, "com-4003"))
	assert.Equal(t, 2, c.Stats().Total)
}

func TestFunds_PerformanceStartsIdle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := NewFunds(seededServices(t).Funds, quietLogger())
	defer f.Close()

	assert.Equal(t, Idle, f.Performance.State().Status)
	require.NoError(t, f.Performance.Load(ctx))
	p, loaded := f.Performance.State().Get()
	require.True(t, loaded)
	assert.Equal(t, 3, p.FundCount)
}

func TestDocuments_UploadReloads(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d := NewDocuments(seededServices(t).Documents, quietLogger())
	defer d.Close()
	require.NoError(t, d.Load(ctx))

	_, err := d.Upload(ctx, "inv-1002", application.FileUpload{
		Filename: "k1.pdf", Body: bytes.NewBufferString("x"),
	}, application.DocumentMeta{Title: "K-1 2024", Type: "tax"})
	require.NoError(t, err)
	assert.Len(t, d.Items(), 4)
	assert.Len(t, d.Filter(application.DocumentFilter{InvestorID: "inv-1002"}), 2)
}
