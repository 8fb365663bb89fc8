package intake

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"sort"
	"strconv"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/jhillyerd/enmime"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/campuspulse/eventstack/config"
	"github.com/campuspulse/eventstack/dto"
	"github.com/campuspulse/eventstack/interfaces"
	"github.com/campuspulse/eventstack/internal/logger"
	"github.com/campuspulse/eventstack/internal/tracing"
)

// connectTimeout bounds the dial and login; operationTimeout bounds
// every later command so an unreachable server cannot hang a run.
const (
	connectTimeout   = 30 * time.Second
	operationTimeout = 60 * time.Second
)

type imapDialer struct {
	mailboxConfig *config.MailboxConfig
	log           logger.Logger
}

func NewIMAPDialer(mailboxConfig *config.MailboxConfig, log logger.Logger) interfaces.MailboxDialer {
	return &imapDialer{
		mailboxConfig: mailboxConfig,
		log:           log,
	}
}

// Connect establishes and authenticates an IMAP session and selects
// the configured folder read-only.
func (d *imapDialer) Connect(ctx context.Context) (interfaces.MailboxClient, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "imapDialer.Connect")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("server", d.mailboxConfig.ImapServer)
	span.SetTag("port", d.mailboxConfig.ImapPort)
	span.SetTag("tls", d.mailboxConfig.ImapTLS)

	serverAddr := fmt.Sprintf("%s:%d", d.mailboxConfig.ImapServer, d.mailboxConfig.ImapPort)

	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}

	var c *client.Client
	var err error

	if d.mailboxConfig.ImapTLS {
		tlsConfig := &tls.Config{
			ServerName: d.mailboxConfig.ImapServer,
		}
		c, err = client.DialWithDialerTLS(dialer, serverAddr, tlsConfig)
	} else {
		c, err = client.DialWithDialer(dialer, serverAddr)
	}
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, fmt.Errorf("failed to connect to %s: %w", serverAddr, err)
	}

	c.Timeout = connectTimeout

	if err := c.Login(d.mailboxConfig.ImapUsername, d.mailboxConfig.ImapPassword); err != nil {
		c.Logout()
		tracing.TraceErr(span, err)
		return nil, fmt.Errorf("failed to login as %s: %w", d.mailboxConfig.ImapUsername, err)
	}

	c.Timeout = operationTimeout

	if _, err := c.Select(d.mailboxConfig.Folder, true); err != nil {
		c.Logout()
		tracing.TraceErr(span, err)
		return nil, fmt.Errorf("failed to select %s: %w", d.mailboxConfig.Folder, err)
	}

	d.log.Infof("Connected to %s as %s", serverAddr, d.mailboxConfig.ImapUsername)
	span.SetTag("success", true)

	return &imapMailboxClient{client: c, log: d.log}, nil
}

type imapMailboxClient struct {
	client *client.Client
	log    logger.Logger
}

func (c *imapMailboxClient) SearchUIDs(ctx context.Context, keywords []string, since time.Time) ([]string, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "imapMailboxClient.SearchUIDs")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("since", since.Format("2006-01-02"))

	criteria := buildSearchCriteria(keywords, since)

	uids, err := c.client.UidSearch(criteria)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "uid search failed")
	}

	result := make([]string, 0, len(uids))
	for _, uid := range uids {
		result = append(result, strconv.FormatUint(uint64(uid), 10))
	}

	span.SetTag("matched", len(result))
	return result, nil
}

// buildSearchCriteria expresses
// (subject OR body contains any keyword) AND date >= since
// as a binary OR tree, the only OR shape the protocol supports.
func buildSearchCriteria(keywords []string, since time.Time) *imap.SearchCriteria {
	var tree *imap.SearchCriteria
	for _, keyword := range keywords {
		subject := imap.NewSearchCriteria()
		subject.Header.Add("Subject", keyword)

		body := imap.NewSearchCriteria()
		body.Text = []string{keyword}

		node := imap.NewSearchCriteria()
		node.Or = [][2]*imap.SearchCriteria{{subject, body}}

		if tree == nil {
			tree = node
			continue
		}
		parent := imap.NewSearchCriteria()
		parent.Or = [][2]*imap.SearchCriteria{{tree, node}}
		tree = parent
	}

	if tree == nil {
		tree = imap.NewSearchCriteria()
	}
	tree.Since = since
	return tree
}

func (c *imapMailboxClient) FetchMessages(ctx context.Context, uids []string) ([]*dto.InboundMessage, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "imapMailboxClient.FetchMessages")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("count", len(uids))

	if len(uids) == 0 {
		return nil, nil
	}

	seqSet := new(imap.SeqSet)
	for _, uid := range uids {
		parsed, err := strconv.ParseUint(uid, 10, 32)
		if err != nil {
			continue
		}
		seqSet.AddNum(uint32(parsed))
	}

	items := []imap.FetchItem{
		imap.FetchEnvelope,
		imap.FetchUid,
		imap.FetchRFC822,
	}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.client.UidFetch(seqSet, items, messages)
	}()

	var result []*dto.InboundMessage
	for msg := range messages {
		parsed := parseMessage(msg)
		if parsed != nil {
			result = append(result, parsed)
		}
	}

	if err := <-done; err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "uid fetch failed")
	}

	// Newest first
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ReceivedAt.After(result[j].ReceivedAt)
	})

	return result, nil
}

func (c *imapMailboxClient) Logout() error {
	return c.client.Logout()
}

func parseMessage(msg *imap.Message) *dto.InboundMessage {
	if msg == nil {
		return nil
	}

	inbound := &dto.InboundMessage{
		UID: strconv.FormatUint(uint64(msg.Uid), 10),
	}

	if msg.Envelope != nil {
		inbound.Subject = msg.Envelope.Subject
		inbound.ReceivedAt = msg.Envelope.Date
		if len(msg.Envelope.From) > 0 {
			inbound.FromAddress = msg.Envelope.From[0].Address()
		}
	}

	raw := extractFullMessage(msg)
	if len(raw) == 0 {
		return inbound
	}

	envelope, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return inbound
	}

	inbound.BodyText = envelope.Text

	for _, attachment := range envelope.Attachments {
		inbound.Attachments = append(inbound.Attachments, dto.InboundAttachment{
			Filename:    attachment.FileName,
			ContentType: attachment.ContentType,
			Content:     attachment.Content,
		})
	}
	// Posters often arrive inline rather than as attachments
	for _, inline := range envelope.Inlines {
		inbound.Attachments = append(inbound.Attachments, dto.InboundAttachment{
			Filename:    inline.FileName,
			ContentType: inline.ContentType,
			Content:     inline.Content,
		})
	}

	return inbound
}

func extractFullMessage(msg *imap.Message) []byte {
	var fullMessageBuffer bytes.Buffer

	for section, literal := range msg.Body {
		if section.Peek {
			continue
		}

		if len(section.Path) == 0 && section.Specifier == imap.EntireSpecifier {
			data, err := io.ReadAll(literal)
			if err == nil {
				fullMessageBuffer.Write(data)
				break
			}
		}
	}

	return fullMessageBuffer.Bytes()
}
