package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for JSON files. Durations
// are written as strings ("1m", "30s").
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey       string   `json:"token_sign_key"`
		TokenIssuer        string   `json:"token_issuer"`
		TokenDuration      Duration `json:"token_duration"`
		ResetTokenDuration Duration `json:"reset_token_duration"`
		PassingThreshold   float64  `json:"passing_threshold"`
		Version            string   `json:"version"`
		LogLevel           string   `json:"log_level"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			Driver       string `json:"driver"`
			DSN          string `json:"dsn"`
			MaxOpenConns int    `json:"max_open_conns"`
			MaxIdleConns int    `json:"max_idle_conns"`
		} `json:"db,omitempty"`

		Files struct {
			Dir string `json:"dir"`
			S3  S3     `json:"s3"`
		} `json:"files,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Workers struct {
		ClockInterval  Duration `json:"clock_interval"`
		SessionIdleTTL Duration `json:"session_idle_ttl"`
	} `json:"workers,omitempty"`

	Mail struct {
		Domain   string `json:"domain"`
		APIKey   string `json:"api_key"`
		Sender   string `json:"sender"`
		ResetURL string `json:"reset_url"`
	} `json:"mail,omitempty"`

	Feed struct {
		RedisAddress  string `json:"redis_address"`
		RedisPassword string `json:"redis_password"`
		Channel       string `json:"channel"`
	} `json:"feed,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:       jsonCfg.App.TokenSignKey,
			TokenIssuer:        jsonCfg.App.TokenIssuer,
			TokenDuration:      time.Duration(jsonCfg.App.TokenDuration),
			ResetTokenDuration: time.Duration(jsonCfg.App.ResetTokenDuration),
			PassingThreshold:   jsonCfg.App.PassingThreshold,
			Version:            jsonCfg.App.Version,
			LogLevel:           jsonCfg.App.LogLevel,
		},
		Storage: Storage{
			DB: DB{
				Driver:       jsonCfg.Storage.DB.Driver,
				DSN:          jsonCfg.Storage.DB.DSN,
				MaxOpenConns: jsonCfg.Storage.DB.MaxOpenConns,
				MaxIdleConns: jsonCfg.Storage.DB.MaxIdleConns,
			},
			Files: Files{
				Dir: jsonCfg.Storage.Files.Dir,
				S3:  jsonCfg.Storage.Files.S3,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Workers: Workers{
			ClockInterval:  time.Duration(jsonCfg.Workers.ClockInterval),
			SessionIdleTTL: time.Duration(jsonCfg.Workers.SessionIdleTTL),
		},
		Mail: Mail{
			Domain:   jsonCfg.Mail.Domain,
			APIKey:   jsonCfg.Mail.APIKey,
			Sender:   jsonCfg.Mail.Sender,
			ResetURL: jsonCfg.Mail.ResetURL,
		},
		Feed: Feed{
			RedisAddress:  jsonCfg.Feed.RedisAddress,
			RedisPassword: jsonCfg.Feed.RedisPassword,
			Channel:       jsonCfg.Feed.Channel,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
