package services

import (
	"github.com/campuspulse/eventstack/config"
	"github.com/campuspulse/eventstack/interfaces"
	"github.com/campuspulse/eventstack/internal/logger"
	"github.com/campuspulse/eventstack/internal/repository"
	"github.com/campuspulse/eventstack/services/ai"
	"github.com/campuspulse/eventstack/services/intake"
	"github.com/campuspulse/eventstack/services/mail_filter"
	"github.com/campuspulse/eventstack/services/poster"
	"github.com/campuspulse/eventstack/services/quota"
	"github.com/campuspulse/eventstack/services/storage"
)

type Services struct {
	StorageService        interfaces.StorageService
	QuotaLedger           interfaces.QuotaLedger
	ClassificationService interfaces.ClassificationService
	PosterNormalizer      interfaces.PosterNormalizer
	QRDecoder             interfaces.QRDecoder
	MessageFilter         interfaces.MessageFilter
	MailboxDialer         interfaces.MailboxDialer
	IntakeService         interfaces.IntakeService
}

func InitServices(cfg *config.Config, repositories *repository.Repositories, log logger.Logger) (*Services, error) {
	services := &Services{}

	var err error
	switch cfg.StorageConfig.Provider {
	case "s3", "r2":
		services.StorageService, err = storage.NewObjectStorageService(cfg.StorageConfig)
	default:
		services.StorageService, err = storage.NewLocalStorageService(cfg.AppConfig.ContentDir)
	}
	if err != nil {
		return nil, err
	}

	services.QuotaLedger = quota.NewQuotaLedger(repositories.QuotaUsageRepository, log)

	clients := map[ai.Provider]interfaces.BackendClient{
		ai.ProviderGemini: ai.NewGeminiClient(cfg.GeminiConfig),
	}
	if cfg.OpenAIConfig.ApiKey != "" {
		clients[ai.ProviderOpenAI] = ai.NewOpenAIClient(cfg.OpenAIConfig)
	}
	services.ClassificationService = ai.NewClassificationService(
		ai.DefaultBackends(cfg.GeminiConfig, cfg.OpenAIConfig),
		clients,
		services.QuotaLedger,
		log,
	)

	services.PosterNormalizer = poster.NewPosterNormalizer(log)
	services.QRDecoder = poster.NewQRRecoveryDecoder(log)
	services.MessageFilter = mail_filter.NewMessageFilter(cfg.PipelineConfig)
	services.MailboxDialer = intake.NewIMAPDialer(cfg.MailboxConfig, log)

	services.IntakeService = intake.NewIntakeService(
		cfg.PipelineConfig,
		services.MailboxDialer,
		services.MessageFilter,
		services.PosterNormalizer,
		services.QRDecoder,
		services.ClassificationService,
		services.StorageService,
		repositories.EventRepository,
		repositories.ProcessedMessageRepository,
		log,
	)

	return services, nil
}
