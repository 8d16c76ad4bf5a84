package notify

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"eventManager/internal/models"
)

// Recipients resolves who gets e-mailed about an event.
type Recipients interface {
	User(ctx context.Context, id int64) (*models.User, error)
	Registrations(ctx context.Context, eventID int64) ([]models.Registration, error)
}

type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer notifies attendees when an event is cancelled or updated and the
// organizer when an event is approved or rejected.
type Mailer struct {
	addr       string
	host       string
	auth       smtp.Auth
	from       string
	recipients Recipients
	send       SendFunc
}

func NewMailer(host string, port int, username, password, from string, recipients Recipients) *Mailer {
	var a smtp.Auth
	if username != "" {
		a = smtp.PlainAuth("", username, password, host)
	}
	return &Mailer{
		addr:       net.JoinHostPort(host, strconv.Itoa(port)),
		host:       host,
		auth:       a,
		from:       from,
		recipients: recipients,
		send:       smtp.SendMail,
	}
}

// WithSender replaces the SMTP transport.
func (m *Mailer) WithSender(send SendFunc) *Mailer {
	m.send = send
	return m
}

func (m *Mailer) Name() string { return "mailer" }

func (m *Mailer) Deliver(ctx context.Context, t Task) error {
	const op = "notify.Mailer.Deliver"

	to, err := m.recipientsFor(ctx, t)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(to) == 0 {
		return nil
	}

	subject, body := compose(t)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "Subject: %s\r\n", encodeHeader(subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	// attendees must not see each other's addresses
	for _, rcpt := range to {
		if err := m.send(m.addr, m.auth, m.from, []string{rcpt}, []byte(msg.String())); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

func (m *Mailer) recipientsFor(ctx context.Context, t Task) ([]string, error) {
	switch {
	case t.Kind == KindEventUpdated || t.Status == models.StatusCancelled:
		regs, err := m.recipients.Registrations(ctx, t.EventID)
		if err != nil {
			return nil, err
		}
		to := make([]string, 0, len(regs))
		for _, r := range regs {
			to = append(to, r.Email)
		}
		return to, nil
	case t.Status == models.StatusPublished || t.Status == models.StatusRejected:
		u, err := m.recipients.User(ctx, t.OrganizerID)
		if err != nil {
			return nil, err
		}
		return []string{u.Email}, nil
	}
	return nil, nil
}

func compose(t Task) (string, string) {
	switch {
	case t.Kind == KindEventUpdated:
		return fmt.Sprintf("Event updated: %s", t.EventTitle),
			fmt.Sprintf("The details of %q have changed. Please review the event page.\r\n", t.EventTitle)
	case t.Status == models.StatusCancelled:
		return fmt.Sprintf("Event cancelled: %s", t.EventTitle),
			fmt.Sprintf("We are sorry to inform you that %q has been cancelled.\r\n", t.EventTitle)
	case t.Status == models.StatusPublished:
		return fmt.Sprintf("Event approved: %s", t.EventTitle),
			fmt.Sprintf("Your event %q has been approved and is now published.\r\n", t.EventTitle)
	default:
		return fmt.Sprintf("Event rejected: %s", t.EventTitle),
			fmt.Sprintf("Your event %q has been rejected.\r\n\r\nReason: %s\r\n", t.EventTitle, t.Message)
	}
}

// encodeHeader folds subject onto one line and Q-encodes non-ASCII text so
// that user supplied titles cannot start new header lines.
func encodeHeader(v string) string {
	v = strings.Join(strings.FieldsFunc(v, func(r rune) bool { return r == '\r' || r == '\n' }), " ")
	return mime.QEncoding.Encode("utf-8", v)
}
