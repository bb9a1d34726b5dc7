package mailqueue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
	"go.uber.org/goleak"

	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type ackRecord struct {
	tag     uint64
	acked   bool
	requeue bool
}

type fakeAcknowledger struct {
	mu      sync.Mutex
	records []ackRecord
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, ackRecord{tag: tag, acked: true})
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, ackRecord{tag: tag, requeue: requeue})
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

type fakeSender struct {
	mu   sync.Mutex
	fail bool
	sent []*mail.Msg
}

func (f *fakeSender) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, messages...)
	return nil
}

func delivery(t *testing.T, ack amqp.Acknowledger, tag uint64, msg any) amqp.Delivery {
	t.Helper()

	var body []byte
	switch v := msg.(type) {
	case []byte:
		body = v
	default:
		var err error
		body, err = json.Marshal(v)
		require.NoError(t, err)
	}

	return amqp.Delivery{Acknowledger: ack, DeliveryTag: tag, Body: body}
}

func runWorker(t *testing.T, sender Sender, deliveries []amqp.Delivery) {
	t.Helper()

	w, err := NewWorker("noreply@disnaker.asahankab.go.id", sender, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ch := make(chan amqp.Delivery, len(deliveries))
	for _, d := range deliveries {
		ch <- d
	}
	close(ch)

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(context.Background(), ch)
	}()
	<-done
}

func TestWorkerAcknowledgesByOutcome(t *testing.T) {
	ack := &fakeAcknowledger{}
	sender := &fakeSender{}

	runWorker(t, sender, []amqp.Delivery{
		delivery(t, ack, 1, domain.MailMessage{
			Type: domain.MailTypeResetPassword,
			To:   "staff1@disnaker.asahankab.go.id",
			Data: domain.ResetPasswordMailData{FullName: "Rina Susanti", OTP: "123456", Expiration: 15},
		}),
		delivery(t, ack, 2, []byte("{not json")),
		delivery(t, ack, 3, domain.MailMessage{Type: "newsletter", To: "a@example.com", Data: map[string]string{}}),
		delivery(t, ack, 4, domain.MailMessage{
			Type: domain.MailTypeDisposition,
			To:   "kabid1@disnaker.asahankab.go.id",
			Data: domain.DispositionMailData{FullName: "Ahmad Dahlan", LetterSubject: "Undangan", DispositionTo: "Sekretariat", Instructions: "Hadiri", Deadline: "2025-10-01"},
		}),
	})

	assert.Equal(t, []ackRecord{
		{tag: 1, acked: true},
		{tag: 2},
		{tag: 3},
		{tag: 4, acked: true},
	}, ack.records)

	require.Len(t, sender.sent, 2)
	recipients, err := sender.sent[0].GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"staff1@disnaker.asahankab.go.id"}, recipients)
	assert.Equal(t, []string{subjects[domain.MailTypeResetPassword]}, sender.sent[0].GetGenHeader(mail.HeaderSubject))
}

func TestWorkerRequeuesOnSendFailure(t *testing.T) {
	ack := &fakeAcknowledger{}

	runWorker(t, &fakeSender{fail: true}, []amqp.Delivery{
		delivery(t, ack, 7, domain.MailMessage{
			Type: domain.MailTypeCreateUser,
			To:   "new@disnaker.asahankab.go.id",
			Data: domain.CreateUserMailData{FullName: "Pegawai Baru", Username: "baru", Role: domain.RoleStaff},
		}),
	})

	assert.Equal(t, []ackRecord{{tag: 7, requeue: true}}, ack.records)
}

func TestWorkerStopsOnCancel(t *testing.T) {
	w, err := NewWorker("noreply@disnaker.asahankab.go.id", &fakeSender{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx, make(chan amqp.Delivery))
	}()

	cancel()
	<-done
}
