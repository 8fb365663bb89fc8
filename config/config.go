package config

import (
	"github.com/campuspulse/eventstack/internal/logger"
	"github.com/campuspulse/eventstack/internal/tracing"
)

type AppConfig struct {
	ContentDir string `env:"CONTENT_DIR" envDefault:"event_posters"`
	Logger     *logger.Config
	Tracing    *tracing.JaegerConfig
}

type DatabaseConfig struct {
	Driver          string `env:"EVENTSTACK_DB_DRIVER" envDefault:"sqlite"`
	SqlitePath      string `env:"EVENTSTACK_SQLITE_PATH" envDefault:"eventstack.db"`
	Host            string `env:"EVENTSTACK_POSTGRES_HOST"`
	Port            string `env:"EVENTSTACK_POSTGRES_PORT" envDefault:"5432"`
	User            string `env:"EVENTSTACK_POSTGRES_USER"`
	DBName          string `env:"EVENTSTACK_POSTGRES_DB_NAME"`
	Password        string `env:"EVENTSTACK_POSTGRES_PASSWORD"`
	MaxConn         int    `env:"EVENTSTACK_POSTGRES_DB_MAX_CONN" envDefault:"10"`
	MaxIdleConn     int    `env:"EVENTSTACK_POSTGRES_DB_MAX_IDLE_CONN" envDefault:"5"`
	ConnMaxLifetime int    `env:"EVENTSTACK_POSTGRES_DB_CONN_MAX_LIFETIME" envDefault:"300"`
	LogLevel        string `env:"EVENTSTACK_POSTGRES_LOG_LEVEL" envDefault:"WARN"`
	SSLMode         string `env:"EVENTSTACK_POSTGRES_SSL_MODE" envDefault:"disable"`
}

type MailboxConfig struct {
	ImapServer   string `env:"IMAP_SERVER" envDefault:"imap.gmail.com"`
	ImapPort     int    `env:"IMAP_PORT" envDefault:"993"`
	ImapTLS      bool   `env:"IMAP_TLS" envDefault:"true"`
	ImapUsername string `env:"EMAIL_USER,required"`
	ImapPassword string `env:"EMAIL_PASS,required"`
	Folder       string `env:"IMAP_FOLDER" envDefault:"INBOX"`
}

type GeminiConfig struct {
	Url    string `env:"GEMINI_API_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta" validate:"required"`
	ApiKey string `env:"GEMINI_API_KEY"`
}

type OpenAIConfig struct {
	ApiKey string `env:"OPENAI_API_KEY"`
	Model  string `env:"OPENAI_VISION_MODEL" envDefault:"gpt-4o-mini"`
}

type StorageConfig struct {
	Provider        string `env:"POSTER_STORAGE_PROVIDER" envDefault:"local"`
	Region          string `env:"POSTER_STORAGE_REGION" envDefault:"us-east-1"`
	Endpoint        string `env:"POSTER_STORAGE_ENDPOINT"`
	AccessKeyID     string `env:"POSTER_STORAGE_ACCESS_KEY_ID"`
	AccessKeySecret string `env:"POSTER_STORAGE_ACCESS_KEY_SECRET"`
	Bucket          string `env:"POSTER_STORAGE_BUCKET" envDefault:"event-posters"`
}

type PipelineConfig struct {
	// Subject/body keywords used to build the mailbox search criteria.
	SearchKeywords []string `env:"SEARCH_KEYWORDS" envSeparator:"," envDefault:"Event,Workshop,Hackathon,Register,Conference,Symposium,Webinar,Session,Invitation,Fest,Coding,Challenge,Competition,Meetup,Bootcamp"`
	// Subjects containing any of these are dropped before classification.
	IgnoreKeywords []string `env:"IGNORE_KEYWORDS" envSeparator:"," envDefault:"Time Table,Arrear,Exam Schedule,Circular,Course Registration,Fee Payment,Holiday,Reschedule,Hall Ticket,Bus Route,Disciplinary"`
	LookbackMonths int      `env:"PIPELINE_LOOKBACK_MONTHS" envDefault:"1"`
}
