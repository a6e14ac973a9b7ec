package config

import (
	"encoding/json"
	"os"

	"github.com/deuceleague/deucecli/internal/flagx"
	"github.com/deuceleague/deucecli/internal/timex"
)

// JsonConfig is the on-disk form of Config. Zero values mean "not set"
// and leave the earlier value untouched.
type JsonConfig struct {
	BaseURL        string         `json:"base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	OTPTTL         timex.Duration `json:"otp_ttl"`
	SettleDelay    timex.Duration `json:"settle_delay"`
	HydrationDelay timex.Duration `json:"hydration_delay"`
	DataDir        string         `json:"data_dir"`
	LogFile        string         `json:"log_file"`
	LogLevel       string         `json:"log_level"`
	PageSize       int            `json:"page_size"`
}

// parseJson overlays cfg with the file named by -c/-config, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OTPTTL.Duration != 0 {
		cfg.OTPTTL = jc.OTPTTL.Duration
	}
	if jc.SettleDelay.Duration != 0 {
		cfg.SettleDelay = jc.SettleDelay.Duration
	}
	if jc.HydrationDelay.Duration != 0 {
		cfg.HydrationDelay = jc.HydrationDelay.Duration
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.LogFile != "" {
		cfg.LogFile = jc.LogFile
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.PageSize != 0 {
		cfg.PageSize = jc.PageSize
	}
	return nil
}
