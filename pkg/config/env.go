package config

const (
	EnvPrefix = "TRAININGDESK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv                 = "TRAININGDESK_APP_ENV"
	EnvPort                   = "TRAININGDESK_APP_PORT"
	EnvLogLevel               = "TRAININGDESK_LOG_LEVEL"
	EnvRedisURL               = "TRAININGDESK_REDIS_URL"
	EnvJWTSecret              = "TRAININGDESK_JWT_SECRET"
	EnvJWTIssuer              = "TRAININGDESK_JWT_ISSUER"
	EnvJWTExpMins             = "TRAININGDESK_JWT_EXPIRATION_MINUTES"
	EnvPasswordMinLength      = "TRAININGDESK_PASSWORD_MIN_LENGTH"
	EnvAssistantReplyDelay    = "TRAININGDESK_ASSISTANT_REPLY_DELAY"
	EnvUserSaveDelay          = "TRAININGDESK_USER_SAVE_DELAY"
	EnvDocumentsMaxPerPurpose = "TRAININGDESK_DOCUMENTS_MAX_PER_PURPOSE"
	EnvSeedMockData           = "TRAININGDESK_SEED_MOCK_DATA"
	EnvAdminPassword          = "TRAININGDESK_ADMIN_PASSWORD"
)
