package intake

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/campuspulse/eventstack/config"
	"github.com/campuspulse/eventstack/dto"
	"github.com/campuspulse/eventstack/interfaces"
	"github.com/campuspulse/eventstack/internal/enum"
	"github.com/campuspulse/eventstack/internal/logger"
	"github.com/campuspulse/eventstack/internal/models"
	"github.com/campuspulse/eventstack/internal/tracing"
	"github.com/campuspulse/eventstack/internal/utils"
	"github.com/campuspulse/eventstack/services/poster"
)

type intakeService struct {
	pipelineConfig *config.PipelineConfig
	dialer         interfaces.MailboxDialer
	filter         interfaces.MessageFilter
	normalizer     interfaces.PosterNormalizer
	qrDecoder      interfaces.QRDecoder
	classifier     interfaces.ClassificationService
	storage        interfaces.StorageService
	eventRepo      interfaces.EventRepository
	processedRepo  interfaces.ProcessedMessageRepository
	log            logger.Logger
}

func NewIntakeService(
	pipelineConfig *config.PipelineConfig,
	dialer interfaces.MailboxDialer,
	filter interfaces.MessageFilter,
	normalizer interfaces.PosterNormalizer,
	qrDecoder interfaces.QRDecoder,
	classifier interfaces.ClassificationService,
	storage interfaces.StorageService,
	eventRepo interfaces.EventRepository,
	processedRepo interfaces.ProcessedMessageRepository,
	log logger.Logger,
) interfaces.IntakeService {
	return &intakeService{
		pipelineConfig: pipelineConfig,
		dialer:         dialer,
		filter:         filter,
		normalizer:     normalizer,
		qrDecoder:      qrDecoder,
		classifier:     classifier,
		storage:        storage,
		eventRepo:      eventRepo,
		processedRepo:  processedRepo,
		log:            log,
	}
}

// Run executes one full pipeline pass: search, dedup, fetch, filter,
// normalize, classify, persist. The only error it returns is a failed
// mailbox connection; everything past that point is recoverable and
// degrades to a skipped message or a skipped attachment.
func (s *intakeService) Run(ctx context.Context) (*dto.RunReport, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "intakeService.Run")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	mailbox, err := s.dialer.Connect(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "mailbox connection failed")
	}
	defer func() {
		if err := mailbox.Logout(); err != nil {
			s.log.Warnf("Mailbox logout failed: %v", err)
		}
	}()

	report := &dto.RunReport{}

	cutoff := utils.Now().AddDate(0, -s.pipelineConfig.LookbackMonths, 0)
	uids, err := mailbox.SearchUIDs(ctx, s.pipelineConfig.SearchKeywords, cutoff)
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("Mailbox search failed: %v", err)
		return report, nil
	}

	report.Matched = len(uids)
	if report.Matched == 0 {
		s.log.Warnf("No messages matched the search criteria since %s", cutoff.Format("2006-01-02"))
		return report, nil
	}

	newUIDs, err := s.processedRepo.FilterNew(ctx, uids)
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("Failed to filter processed messages: %v", err)
		return report, nil
	}
	report.Known = report.Matched - len(newUIDs)

	if len(newUIDs) == 0 {
		s.log.Infof("All %d matched messages already processed, nothing to do", report.Matched)
		return report, nil
	}
	s.log.Infof("Found %d matched messages, %d new", report.Matched, len(newUIDs))

	messages, err := mailbox.FetchMessages(ctx, newUIDs)
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("Failed to fetch messages: %v", err)
		return report, nil
	}

	for _, message := range messages {
		report.Scanned++
		disposition := s.processMessage(ctx, message)
		switch disposition {
		case enum.MessageIgnoredSubject, enum.MessageIgnoredSender:
			report.Ignored++
		case enum.MessageNoPoster:
			report.NoPoster++
		case enum.MessageRejected:
			report.Rejected++
		case enum.MessageEventSaved:
			report.EventsSaved++
		}
	}

	s.log.Infof("Run complete: matched=%d known=%d scanned=%d ignored=%d noPoster=%d rejected=%d eventsSaved=%d",
		report.Matched, report.Known, report.Scanned, report.Ignored, report.NoPoster, report.Rejected, report.EventsSaved)
	tracing.LogObjectAsJson(span, "report", report)

	return report, nil
}

// processMessage handles one message end to end and marks it processed
// exactly once, whatever the outcome. A message is never retried; the
// dedup log entry is the terminal state.
func (s *intakeService) processMessage(ctx context.Context, message *dto.InboundMessage) enum.MessageDisposition {
	span, ctx := opentracing.StartSpanFromContext(ctx, "intakeService.processMessage")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagMessage(span, message.UID)

	disposition, reason := s.filter.Scan(ctx, message)
	if disposition != enum.MessageCandidate {
		s.log.Infof("Ignoring message %s: %s", message.UID, reason)
		s.markProcessed(ctx, message.UID, disposition)
		return disposition
	}

	s.log.Infof("Processing message %s: %s", message.UID, utils.Truncate(message.Subject, 120))

	posterFound := false
	for _, attachment := range message.Attachments {
		imageBytes, err := s.normalizer.Normalize(ctx, attachment)
		if err != nil {
			s.log.Warnf("Skipping attachment %s of message %s: %v", attachment.Filename, message.UID, err)
			continue
		}
		if imageBytes == nil {
			continue
		}
		posterFound = true

		qrLink := s.qrDecoder.Decode(ctx, imageBytes)
		if qrLink != "" {
			s.log.Infof("QR code found in message %s: %s", message.UID, qrLink)
		}

		result, err := s.classifier.ClassifyPoster(ctx, dto.ClassifyPosterRequest{
			ImageBytes: imageBytes,
			MimeType:   poster.PosterMimeType,
			QRLink:     qrLink,
		})
		if err != nil {
			s.log.Errorf("Classification of message %s failed: %v", message.UID, err)
			continue
		}
		if result == nil {
			// Every backend exhausted or failed; try the next attachment.
			continue
		}

		if !result.Classification.IsEvent {
			s.log.Infof("Message %s classified as not an event by %s", message.UID, result.BackendID)
			s.markProcessed(ctx, message.UID, enum.MessageRejected)
			return enum.MessageRejected
		}

		s.saveEvent(ctx, message, imageBytes, qrLink, result)
		s.markProcessed(ctx, message.UID, enum.MessageEventSaved)
		return enum.MessageEventSaved
	}

	if !posterFound {
		s.markProcessed(ctx, message.UID, enum.MessageNoPoster)
		return enum.MessageNoPoster
	}

	s.markProcessed(ctx, message.UID, enum.MessageUnclassified)
	return enum.MessageUnclassified
}

func (s *intakeService) saveEvent(ctx context.Context, message *dto.InboundMessage, imageBytes []byte, qrLink string, result *dto.ClassifyPosterResult) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "intakeService.saveEvent")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagMessage(span, message.UID)

	classification := result.Classification

	posterKey := utils.PosterAssetKey(utils.Now(), message.UID)
	posterPath := ""
	if err := s.storage.Upload(ctx, posterKey, imageBytes, poster.PosterMimeType); err != nil {
		// The event record is still worth keeping without its poster.
		tracing.TraceErr(span, err)
		s.log.Errorf("Failed to store poster for message %s: %v", message.UID, err)
	} else {
		posterPath = s.storage.Reference(posterKey)
	}

	registrationLink := classification.RegistrationLink
	// A decoded QR payload beats an empty classifier answer.
	if qrLink != "" && (registrationLink == "" || registrationLink == "None") {
		registrationLink = qrLink
	}

	raw := classification.RawMap()
	delete(raw, "is_event")

	emailDate := message.ReceivedAt
	event := &models.Event{
		Title:            classification.EventTitle,
		Venue:            classification.Venue,
		StartDate:        classification.StartDate,
		EndDate:          classification.EndDate,
		RegistrationFee:  classification.RegistrationFee,
		TeamSize:         classification.TeamSize,
		Category:         classification.Category,
		RegistrationLink: registrationLink,
		Organizer:        classification.Organizer,
		PosterPath:       posterPath,
		EmailSubject:     message.Subject,
		EmailDate:        &emailDate,
		EmailUID:         message.UID,
		BackendID:        result.BackendID,
		RawResult:        raw,
	}

	eventID, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("Failed to save event from message %s: %v", message.UID, err)
		return
	}

	s.log.Infof("Saved event %s (%s) from message %s via %s", eventID, classification.EventTitle, message.UID, result.BackendID)
}

func (s *intakeService) markProcessed(ctx context.Context, uid string, disposition enum.MessageDisposition) {
	if err := s.processedRepo.Add(ctx, uid, disposition); err != nil {
		s.log.Errorf("Failed to mark message %s as processed: %v", uid, err)
	}
}
