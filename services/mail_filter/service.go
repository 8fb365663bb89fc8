package mail_filter

import (
	"context"
	"fmt"

	"github.com/customeros/mailsherpa/mailvalidate"
	"github.com/opentracing/opentracing-go"

	"github.com/campuspulse/eventstack/config"
	"github.com/campuspulse/eventstack/dto"
	"github.com/campuspulse/eventstack/interfaces"
	"github.com/campuspulse/eventstack/internal/enum"
	"github.com/campuspulse/eventstack/internal/tracing"
	"github.com/campuspulse/eventstack/internal/utils"
)

type messageFilter struct {
	pipelineConfig *config.PipelineConfig
}

func NewMessageFilter(pipelineConfig *config.PipelineConfig) interfaces.MessageFilter {
	return &messageFilter{
		pipelineConfig: pipelineConfig,
	}
}

// Scan applies the zero-AI-call heuristics. Circulars, exam notices
// and system senders are rejected here so they never consume backend
// quota.
func (s *messageFilter) Scan(ctx context.Context, message *dto.InboundMessage) (enum.MessageDisposition, string) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "messageFilter.Scan")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagMessage(span, message.UID)

	subject := utils.NormalizeEmailSubject(message.Subject)

	if matched, keyword := utils.ContainsAnyFold(subject, s.pipelineConfig.IgnoreKeywords); matched {
		reason := fmt.Sprintf("Subject contains negative keyword: '%s'", keyword)
		span.SetTag("disposition", enum.MessageIgnoredSubject.String())
		return enum.MessageIgnoredSubject, reason
	}

	if message.FromAddress != "" {
		syntaxValidation := mailvalidate.ValidateEmailSyntax(message.FromAddress)
		if !syntaxValidation.IsValid {
			span.SetTag("disposition", enum.MessageIgnoredSender.String())
			return enum.MessageIgnoredSender, "FROM address is malformed"
		}
	}

	span.SetTag("disposition", enum.MessageCandidate.String())
	return enum.MessageCandidate, ""
}
