package intake

import (
	"bytes"
	"encoding/base64"
	"testing"
	"time"

	"github.com/emersion/go-imap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchCriteria_CombinesKeywordsAndCutoff(t *testing.T) {
	// Arrange
	since := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	// Act
	criteria := buildSearchCriteria([]string{"Event", "Workshop", "Hackathon"}, since)

	// Assert
	require.NotNil(t, criteria)
	assert.Equal(t, since, criteria.Since)
	// Three keywords fold into a binary OR tree
	require.Len(t, criteria.Or, 1)
	left, right := criteria.Or[0][0], criteria.Or[0][1]
	assert.NotNil(t, left.Or)
	assert.Equal(t, []string{"Hackathon"}, right.Or[0][1].Text)
	assert.Equal(t, "Hackathon", right.Or[0][0].Header.Get("Subject"))
}

func TestBuildSearchCriteria_NoKeywordsStillHasCutoff(t *testing.T) {
	// Arrange
	since := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	// Act
	criteria := buildSearchCriteria(nil, since)

	// Assert
	require.NotNil(t, criteria)
	assert.Equal(t, since, criteria.Since)
	assert.Empty(t, criteria.Or)
}

func rawMIMEMessage() string {
	attachment := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	return "From: events@college.edu\r\n" +
		"Subject: Robotics Workshop\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/mixed; boundary=BOUNDARY\r\n" +
		"\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"Join us this Friday.\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: image/png\r\n" +
		"Content-Disposition: attachment; filename=poster.png\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"\r\n" +
		attachment + "\r\n" +
		"--BOUNDARY--\r\n"
}

func TestParseMessage_ExtractsBodyAndAttachments(t *testing.T) {
	// Arrange
	received := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	msg := &imap.Message{
		Uid: 101,
		Envelope: &imap.Envelope{
			Subject: "Robotics Workshop",
			Date:    received,
			From: []*imap.Address{
				{MailboxName: "events", HostName: "college.edu"},
			},
		},
		Body: map[*imap.BodySectionName]imap.Literal{
			{}: bytes.NewBufferString(rawMIMEMessage()),
		},
	}

	// Act
	parsed := parseMessage(msg)

	// Assert
	require.NotNil(t, parsed)
	assert.Equal(t, "101", parsed.UID)
	assert.Equal(t, "Robotics Workshop", parsed.Subject)
	assert.Equal(t, "events@college.edu", parsed.FromAddress)
	assert.Equal(t, received, parsed.ReceivedAt)
	assert.Contains(t, parsed.BodyText, "Join us this Friday.")
	require.Len(t, parsed.Attachments, 1)
	assert.Equal(t, "poster.png", parsed.Attachments[0].Filename)
	assert.Equal(t, "image/png", parsed.Attachments[0].ContentType)
	assert.Equal(t, []byte("png-bytes"), parsed.Attachments[0].Content)
}

func TestParseMessage_MissingBodyStillYieldsEnvelope(t *testing.T) {
	// Arrange
	msg := &imap.Message{
		Uid: 102,
		Envelope: &imap.Envelope{
			Subject: "Hackathon 2025",
		},
	}

	// Act
	parsed := parseMessage(msg)

	// Assert
	require.NotNil(t, parsed)
	assert.Equal(t, "102", parsed.UID)
	assert.Equal(t, "Hackathon 2025", parsed.Subject)
	assert.Empty(t, parsed.Attachments)
}
