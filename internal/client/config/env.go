package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	envBaseURL        = "DEUCE_BASE_URL"
	envRequestTimeout = "DEUCE_REQUEST_TIMEOUT"
	envOTPTTL         = "DEUCE_OTP_TTL"
	envSettleDelay    = "DEUCE_SETTLE_DELAY"
	envHydrationDelay = "DEUCE_HYDRATION_DELAY"
	envDataDir        = "DEUCE_DATA_DIR"
	envLogFile        = "DEUCE_LOG_FILE"
	envLogLevel       = "DEUCE_LOG_LEVEL"
	envPageSize       = "DEUCE_PAGE_SIZE"
)

// parseEnv overlays cfg with DEUCE_* variables from the process environment
// and from envFile (dotenv format). A missing envFile is ignored; real
// environment variables win over the file.
func parseEnv(cfg *Config, envFile string) error {
	v := viper.New()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		_ = v.ReadInConfig()
	}
	v.AutomaticEnv()

	setString(v, envBaseURL, &cfg.BaseURL)
	setString(v, envDataDir, &cfg.DataDir)
	setString(v, envLogFile, &cfg.LogFile)
	setString(v, envLogLevel, &cfg.LogLevel)

	for key, dst := range map[string]*time.Duration{
		envRequestTimeout: &cfg.RequestTimeout,
		envOTPTTL:         &cfg.OTPTTL,
		envSettleDelay:    &cfg.SettleDelay,
		envHydrationDelay: &cfg.HydrationDelay,
	} {
		if !v.IsSet(key) {
			continue
		}
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return err
		}
		*dst = d
	}

	if v.IsSet(envPageSize) {
		cfg.PageSize = v.GetInt(envPageSize)
	}
	return nil
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		if s := v.GetString(key); s != "" {
			*dst = s
		}
	}
}
