package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Address() != "0.0.0.0:8000" {
		t.Errorf("Address() = %q, want %q", cfg.Address(), "0.0.0.0:8000")
	}
	if cfg.Inference.URL != "http://localhost:11434/api/chat" {
		t.Errorf("Inference.URL = %q", cfg.Inference.URL)
	}
	if cfg.Inference.Timeout != 60*time.Second {
		t.Errorf("Inference.Timeout = %v, want 60s", cfg.Inference.Timeout)
	}
	if cfg.Mail.Host != "smtp.gmail.com" || cfg.Mail.Port != 587 {
		t.Errorf("Mail = %s:%d, want smtp.gmail.com:587", cfg.Mail.Host, cfg.Mail.Port)
	}
	if len(cfg.Server.AllowOrigins) != 3 {
		t.Errorf("AllowOrigins = %v, want 3 origins", cfg.Server.AllowOrigins)
	}
	if cfg.Admin.Key != "" || cfg.Admin.Token != "" {
		t.Error("admin secrets should default to empty")
	}
}

func TestLoadDeploymentEnv(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("DATABASE_URL", "postgres://u:p@db/app")
	t.Setenv("ADMIN_KEY", "key-1")
	t.Setenv("ADMIN_TOKEN", "token-1")
	t.Setenv("EMAIL_USERNAME", "bot@example.com")
	t.Setenv("EMAIL_PASSWORD", "secret")
	t.Setenv("PERSONAPROXY_SERVER_PORT", "9090")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.URL != "postgres://u:p@db/app" {
		t.Errorf("Database.URL = %q", cfg.Database.URL)
	}
	if cfg.Admin.Key != "key-1" || cfg.Admin.Token != "token-1" {
		t.Errorf("Admin = %+v", cfg.Admin)
	}
	if cfg.Mail.Username != "bot@example.com" || cfg.Mail.Password != "secret" {
		t.Errorf("Mail credentials not bound: %+v", cfg.Mail)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("ADMIN_KEY=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set
	t.Setenv("ADMIN_KEY", "")
	os.Unsetenv("ADMIN_KEY")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("ADMIN_KEY") })

	if cfg.Admin.Key != "from-dotenv" {
		t.Errorf("Admin.Key = %q, want %q", cfg.Admin.Key, "from-dotenv")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "proxy.yaml")
	content := `
server:
  port: 7000
  allow_methods: [GET, POST, OPTIONS]
speech:
  enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
	}
	if len(cfg.Server.AllowMethods) != 3 {
		t.Errorf("AllowMethods = %v, want 3 methods", cfg.Server.AllowMethods)
	}
	if cfg.Speech.Enabled {
		t.Error("Speech.Enabled should be false")
	}
}
