// Package notify sends best-effort rental confirmations.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"campuscloset/model"
	"campuscloset/util/money"

	"github.com/wneessen/go-mail"
)

const (
	Subject = "Rental Confirmation - Campus Closet"

	// upper bound for a send when the caller's context has no deadline
	sendTimeout = 30 * time.Second
)

type Notifier interface {
	RentalConfirmed(ctx context.Context, to string, l *model.Listing, r *model.Rental) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// New returns an SMTP notifier, or a log-only one when no host is configured.
func New(cfg SMTPConfig, log *slog.Logger) Notifier {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Host == "" {
		return &logNotifier{log: log}
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	if cfg.Port == 0 {
		cfg.Port = mail.DefaultPortTLS
	}
	return &smtpNotifier{cfg: cfg}
}

type logNotifier struct{ log *slog.Logger }

func (n *logNotifier) RentalConfirmed(ctx context.Context, to string, l *model.Listing, r *model.Rental) error {
	n.log.InfoContext(ctx, "rental confirmation (smtp disabled)",
		"to", to, "rental_id", r.ID, "listing_id", l.ID, "payment_id", r.PaymentID)
	return nil
}

type smtpNotifier struct {
	cfg SMTPConfig
}

func (n *smtpNotifier) RentalConfirmed(ctx context.Context, to string, l *model.Listing, r *model.Rental) error {
	msg, err := Message(n.cfg.From, to, l, r)
	if err != nil {
		return err
	}

	// Every connection carries the dial deadline for its whole life and is
	// closed once the send returns, so a stalled server cannot pin it.
	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	dial := func(ctx context.Context, network, addr string) (net.Conn, error) {
		var d net.Dialer
		conn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		if dl, ok := ctx.Deadline(); ok {
			if err := conn.SetDeadline(dl); err != nil {
				conn.Close()
				return nil, err
			}
		}
		mu.Lock()
		conns = append(conns, conn)
		mu.Unlock()
		return conn, nil
	}
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	}()

	timeout := sendTimeout
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
	}
	if timeout <= 0 {
		return ctx.Err()
	}

	opts := []mail.Option{
		mail.WithPort(n.cfg.Port),
		mail.WithTimeout(timeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithDialContextFunc(dial),
	}
	if n.cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.User),
			mail.WithPassword(n.cfg.Password),
		)
	}
	client, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send confirmation to %s: %w", to, ctxErr(ctx, err))
	}
	return nil
}

// ctxErr reports the context's error when it ended the send. A connection
// deadline can fire a moment before the context's own timer does.
func ctxErr(ctx context.Context, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	if dl, ok := ctx.Deadline(); ok && !time.Now().Before(dl) {
		return context.DeadlineExceeded
	}
	return err
}

// Message builds the confirmation mail.
func Message(from, to string, l *model.Listing, r *model.Rental) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("from address %q: %w", from, err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("to address %q: %w", to, err)
	}
	m.Subject(Subject)
	m.SetBodyString(mail.TypeTextPlain, Body(l, r))
	return m, nil
}

// Body renders the plain-text confirmation.
func Body(l *model.Listing, r *model.Rental) string {
	total := fmt.Sprintf("%.2f", r.TotalAmount)
	if cents, err := money.DollarsToCents(r.TotalAmount); err == nil {
		total = money.CentsToString(cents)
	}

	var b strings.Builder
	b.WriteString("Thank you for your rental!\r\n\r\n")
	fmt.Fprintf(&b, "Item: %s\r\n", l.Title)
	fmt.Fprintf(&b, "Size: %s\r\n", l.Size)
	fmt.Fprintf(&b, "Rental Period: %s to %s\r\n", r.StartDate.Format(time.DateOnly), r.EndDate.Format(time.DateOnly))
	fmt.Fprintf(&b, "Total: $%s\r\n", total)
	fmt.Fprintf(&b, "Confirmation ID: %s\r\n", r.PaymentID)
	return b.String()
}
