package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

// isolate clears the host environment and points the config search at an
// empty directory
func isolate(t *testing.T) string {
	for _, env := range envNames {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
	dir := t.TempDir()
	t.Setenv("DAILYTRACKER_CONFIG_PATH", dir)
	return dir
}

func TestDefaults(t *testing.T) {
	isolate(t)
	c, err := Load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DBPath != "data/mood_tracker.db" || c.SessionDir != "data/sessions" {
		t.Fatalf("paths = %q, %q", c.DBPath, c.SessionDir)
	}
	if c.TickInterval != 30*time.Second || c.Tolerance != time.Minute || c.SendRate != 25 || c.Debug {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if err := c.RequireToken(); err == nil {
		t.Fatalf("missing token should be reported")
	}
}

func TestEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("DB_PATH", "/var/lib/tracker.db")
	t.Setenv("SESSION_DIR", "")
	t.Setenv("REMINDER_TOLERANCE", "90s")
	t.Setenv("DAILYTRACKER_SEND_RATE", "5")

	c, err := Load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Token != "123:abc" || c.DBPath != "/var/lib/tracker.db" {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.SessionDir != "" {
		t.Fatalf("empty SESSION_DIR should select memory sessions, got %q", c.SessionDir)
	}
	if c.Tolerance != 90*time.Second || c.SendRate != 5 {
		t.Fatalf("tolerance = %s, send rate = %v", c.Tolerance, c.SendRate)
	}
}

func TestConfigFileAndFlags(t *testing.T) {
	dir := isolate(t)
	yaml := "db_path: from-file.db\ntick_interval: 10s\ntolerance: 20s\ndebug: true\n"
	if err := os.WriteFile(filepath.Join(dir, ".dailytracker.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db", "", "")
	flags.String("token", "", "")
	if err := flags.Parse([]string{"--token", "flag-token"}); err != nil {
		t.Fatal(err)
	}

	c, err := Load(flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DBPath != "from-file.db" || c.TickInterval != 10*time.Second || !c.Debug {
		t.Fatalf("file values not applied: %+v", c)
	}
	if c.Token != "flag-token" {
		t.Fatalf("flag not applied: %q", c.Token)
	}
}

func TestValidate(t *testing.T) {
	good := Config{DBPath: "x.db", TickInterval: 30 * time.Second, Tolerance: time.Minute, SendRate: 1}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	for name, mutate := range map[string]func(*Config){
		"short tolerance": func(c *Config) { c.Tolerance = 10 * time.Second },
		"half day":        func(c *Config) { c.Tolerance = 12 * time.Hour },
		"zero tick":       func(c *Config) { c.TickInterval = 0 },
		"zero rate":       func(c *Config) { c.SendRate = 0 },
		"no db":           func(c *Config) { c.DBPath = "" },
	} {
		c := good
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestInvalidEnvironmentIsRejected(t *testing.T) {
	isolate(t)
	t.Setenv("TICK_INTERVAL", "5m")
	if _, err := Load(nil); err == nil {
		t.Fatalf("tick longer than tolerance should fail")
	}
}
