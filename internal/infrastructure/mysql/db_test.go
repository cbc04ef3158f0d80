package mysql

import "testing"

func TestConnectorConfig(t *testing.T) {
	t.Run("forces parseTime on", func(t *testing.T) {
		cfg, err := connectorConfig("root:root@tcp(localhost:3306)/orders")
		if err != nil {
			t.Fatalf("connectorConfig: %v", err)
		}
		if !cfg.ParseTime {
			t.Fatalf("expected ParseTime to be enabled")
		}
		if cfg.DBName != "orders" || cfg.Addr != "localhost:3306" {
			t.Fatalf("expected dsn fields to be kept, got db=%s addr=%s", cfg.DBName, cfg.Addr)
		}
	})

	t.Run("overrides explicit parseTime=false", func(t *testing.T) {
		cfg, err := connectorConfig("root:root@tcp(localhost:3306)/orders?parseTime=false")
		if err != nil {
			t.Fatalf("connectorConfig: %v", err)
		}
		if !cfg.ParseTime {
			t.Fatalf("expected ParseTime to be enabled")
		}
	})

	t.Run("rejects malformed dsn", func(t *testing.T) {
		if _, err := connectorConfig("root:root@tcp(localhost:3306"); err == nil {
			t.Fatalf("expected error for malformed dsn")
		}
	})
}
