package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8084", cfg.Server.Port)
	assert.Equal(t, 384, cfg.Printer.PaperWidthPx)
	assert.Equal(t, 2, cfg.Printer.DrawerPin)
	assert.Equal(t, 50, cfg.Printer.DrawerOnMs)
	assert.Equal(t, 500, cfg.Printer.DrawerOffMs)
	assert.Equal(t, "block", cfg.Printer.BusyPolicy)
	assert.Equal(t, 30*time.Second, cfg.Printer.LockTimeout)
	assert.Equal(t, "TOTAL", cfg.Layout.Labels.Total)
	assert.Equal(t, 20.0, cfg.Layout.FontSizeSmall)
	assert.False(t, cfg.Database.Enabled)
	assert.Empty(t, cfg.Queues)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
printer:
  queue_id: "USB001:XP-58"
  paper_width_px: 576
  busy_policy: fail_fast
layout:
  header_title: "PTT Station"
  labels:
    currency: THB
queues:
  - port: USB001
    name: XP-58
    type: usb
    options:
      vendor_id: "0x0416"
      product_id: "0x5011"
  - port: LPT1
    name: Capture
    type: file
    options:
      path: /tmp/receipts.bin
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "USB001:XP-58", cfg.Printer.QueueID)
	assert.Equal(t, 576, cfg.Printer.PaperWidthPx)
	assert.Equal(t, "fail_fast", cfg.Printer.BusyPolicy)
	assert.Equal(t, "PTT Station", cfg.Layout.HeaderTitle)
	assert.Equal(t, "THB", cfg.Layout.Labels.Currency)
	assert.Equal(t, "Items Total", cfg.Layout.Labels.ItemsTotal)

	require.Len(t, cfg.Queues, 2)
	assert.Equal(t, "usb", cfg.Queues[0].Type)
	assert.Equal(t, "0x0416", cfg.Queues[0].Options["vendor_id"])
	assert.Equal(t, "/tmp/receipts.bin", cfg.Queues[1].Options["path"])
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RECEIPT_SERVICE_PRINTER_PAPER_WIDTH_PX", "576")
	t.Setenv("RECEIPT_SERVICE_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 576, cfg.Printer.PaperWidthPx)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	// registers a cleanup that unsets the variable godotenv is about to set
	t.Setenv("RECEIPT_SERVICE_PRINTER_QUEUE_ID", "")
	require.NoError(t, os.Unsetenv("RECEIPT_SERVICE_PRINTER_QUEUE_ID"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RECEIPT_SERVICE_PRINTER_QUEUE_ID=COM3:Kitchen\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "COM3:Kitchen", cfg.Printer.QueueID)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())

	cases := map[string]struct {
		env  string
		val  string
		want string
	}{
		"busy policy":  {"RECEIPT_SERVICE_PRINTER_BUSY_POLICY", "sometimes", "BusyPolicy"},
		"paper width":  {"RECEIPT_SERVICE_PRINTER_PAPER_WIDTH_PX", "2048", "PaperWidthPx"},
		"drawer pin":   {"RECEIPT_SERVICE_PRINTER_DRAWER_PIN", "3", "DrawerPin"},
		"log level":    {"RECEIPT_SERVICE_LOGGING_LEVEL", "loud", "Level"},
		"database on":  {"RECEIPT_SERVICE_DATABASE_ENABLED", "true", ""},
		"block height": {"RECEIPT_SERVICE_PRINTER_MAX_BLOCK_HEIGHT", "5000", "MaxBlockHeight"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(tc.env, tc.val)
			_, err := Load("")
			if tc.want == "" {
				// defaults supply every required database key
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestQueueValidation(t *testing.T) {
	cfg := &Config{}
	cfg.Server = ServerConfig{Host: "0.0.0.0", Port: "8084"}
	cfg.Logging = LoggingConfig{Level: "info", Format: "json"}
	cfg.Printer = PrinterConfig{PaperWidthPx: 384, MaxBlockHeight: 256, DrawerPin: 2, BusyPolicy: "block"}
	cfg.Layout = LayoutConfig{FontSize: 24, FontSizeSmall: 20}
	cfg.App = AppConfig{Name: "receipt-service", Version: "1", Environment: "test"}
	require.NoError(t, Validate(cfg))

	cfg.Queues = []QueueConfig{{Port: "USB001", Name: "Front", Type: "bluetooth"}}
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Queues[0].Type")
}

// chdir is equivalent to testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
