package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartagri/seat-allocator/pkg/core/model"
	"github.com/smartagri/seat-allocator/pkg/db/memdb"
	"github.com/smartagri/seat-allocator/pkg/metrics"
)

type mockSMS struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *mockSMS) SendSMS(ctx context.Context, phoneNumber, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, phoneNumber+": "+message)
	return nil
}

type mockEmail struct {
	to      []string
	subject []string
	body    []string
	err     error
}

func (m *mockEmail) SendEmail(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.to = append(m.to, to)
	m.subject = append(m.subject, subject)
	m.body = append(m.body, body)
	return nil
}

var errGateway = errors.New("gateway unavailable")

var aadhaarSeq atomic.Int64

func newScheme(t *testing.T, store *memdb.DB, id string, quotas map[string]int, reservations model.Reservations) *model.Scheme {
	t.Helper()
	scheme := &model.Scheme{
		ID:             id,
		Title:          "Scheme " + id,
		DistrictQuotas: quotas,
		Reservations:   reservations,
	}
	require.NoError(t, store.InsertScheme(context.Background(), scheme))
	return scheme
}

func addApplicant(t *testing.T, store *memdb.DB, schemeID, id, district string, category model.Category, score float64, status model.Status) model.Applicant {
	t.Helper()
	applicant := model.Applicant{
		ID:            id,
		SchemeID:      schemeID,
		ApplicantName: "Applicant " + id,
		AadhaarNumber: fmt.Sprintf("%012d", aadhaarSeq.Add(1)),
		PhoneNumber:   "+91" + fmt.Sprintf("%010d", int(score)*100),
		District:      district,
		Category:      category,
		ImpactScore:   score,
		Status:        status,
	}
	require.NoError(t, store.InsertApplicant(context.Background(), &applicant))
	return applicant
}

func statusOf(t *testing.T, store *memdb.DB, id string) model.Status {
	t.Helper()
	a, err := store.GetApplicant(context.Background(), id)
	require.NoError(t, err)
	return a.Status
}

func newTestNotifier(store *memdb.DB, sms SMSSender, email EmailSender, m *metrics.Metrics) *Notifier {
	return NewNotifier(store, sms, email, "officer@agri.gov.in", m, zap.NewNop())
}
