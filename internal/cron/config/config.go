package cron_config

type Config struct {
	// Heartbeat check, every minute
	CronScheduleHeartbeat string `env:"CRON_SCHEDULE_HEARTBEAT" envDefault:"0 * * * * *"`
	// Mailbox poster scan, daily at 06:30
	CronSchedulePosterScan string `env:"CRON_SCHEDULE_POSTER_SCAN" envDefault:"0 30 6 * * *"`
}
