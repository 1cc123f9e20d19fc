package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Database.Driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Queue.Concurrency != 10 {
		t.Errorf("Queue.Concurrency = %d, want 10", cfg.Queue.Concurrency)
	}
	if cfg.Dispatch.ChannelTimeoutSec != 15 {
		t.Errorf("Dispatch.ChannelTimeoutSec = %d, want 15", cfg.Dispatch.ChannelTimeoutSec)
	}
	if cfg.Pagination.MaxPageSize != 100 {
		t.Errorf("Pagination.MaxPageSize = %d, want 100", cfg.Pagination.MaxPageSize)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CLASSLY_SERVER_PORT", "9090")
	t.Setenv("CLASSLY_DATABASE_DRIVER", "sqlite")
	t.Setenv("CLASSLY_AUTH_API_KEYS", "key-one, key-two")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if len(cfg.Auth.APIKeys) != 2 || cfg.Auth.APIKeys[0] != "key-one" || cfg.Auth.APIKeys[1] != "key-two" {
		t.Errorf("Auth.APIKeys = %v, want [key-one key-two]", cfg.Auth.APIKeys)
	}
}

// Channel credentials have no file-based default; they must still arrive
// from the environment alone or the worker silently disables every channel.
func TestLoadChannelSecretsFromEnvOnly(t *testing.T) {
	t.Setenv("CLASSLY_EMAIL_API_KEY", "re_secret")
	t.Setenv("CLASSLY_WEB_PUSH_VAPID_PUBLIC_KEY", "pub-key")
	t.Setenv("CLASSLY_WEB_PUSH_VAPID_PRIVATE_KEY", "priv-key")
	t.Setenv("CLASSLY_FCM_CREDENTIALS_FILE", "/etc/classly/fcm.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Email.APIKey != "re_secret" {
		t.Errorf("Email.APIKey = %q, want re_secret", cfg.Email.APIKey)
	}
	if cfg.WebPush.VAPIDPublicKey != "pub-key" {
		t.Errorf("WebPush.VAPIDPublicKey = %q, want pub-key", cfg.WebPush.VAPIDPublicKey)
	}
	if cfg.WebPush.VAPIDPrivateKey != "priv-key" {
		t.Errorf("WebPush.VAPIDPrivateKey = %q, want priv-key", cfg.WebPush.VAPIDPrivateKey)
	}
	if cfg.FCM.CredentialsFile != "/etc/classly/fcm.json" {
		t.Errorf("FCM.CredentialsFile = %q, want /etc/classly/fcm.json", cfg.FCM.CredentialsFile)
	}
}

func TestLoadReaperDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Reaper.IntervalSec != 300 {
		t.Errorf("Reaper.IntervalSec = %d, want 300", cfg.Reaper.IntervalSec)
	}
	if cfg.Reaper.StaleThresholdSec != 600 {
		t.Errorf("Reaper.StaleThresholdSec = %d, want 600", cfg.Reaper.StaleThresholdSec)
	}
	if cfg.Reaper.BatchSize != 50 {
		t.Errorf("Reaper.BatchSize = %d, want 50", cfg.Reaper.BatchSize)
	}
}
