package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/ratertools/air_compliance_engine/pkg/pathing"
)

var (
	ActiveComplianceAPIConfig   *ComplianceAPIConfig
	ActiveResultCollectorConfig *ResultCollectorConfig
)

func LoadComplianceAPIConfig() error {
	configPath := filepath.Join(pathing.GetConfigDir(), "compliance_api.toml")

	// Create default if not exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := &ComplianceAPIConfig{
			GaugeSerialDevice:  "/dev/ttyUSB0",
			GaugeBaudrate:      9600,
			ListenAddress:      "0.0.0.0",
			ListenPort:         9620,
			VentUnitIp:         "",
			VentUnitModbusPort: 502,
		}
		// Create file
		cfgFile, err := os.Create(configPath)
		if err != nil {
			return err
		}
		defer cfgFile.Close()
		toml.NewEncoder(cfgFile).Encode(cfg)
		ActiveComplianceAPIConfig = cfg
		return nil
	}

	// Load existing config
	var config ComplianceAPIConfig
	_, err := toml.DecodeFile(configPath, &config)
	if err != nil {
		return err
	}
	ActiveComplianceAPIConfig = &config
	return nil
}

func LoadResultCollectorConfig() error {
	configPath := filepath.Join(pathing.GetConfigDir(), "result_collector.toml")

	// Create default if not exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := &ResultCollectorConfig{
			ComplianceAPIHost:      "localhost:9620",
			TLSEnabled:             false,
			AggregateIntervalHours: 1,
		}
		// Create file
		cfgFile, err := os.Create(configPath)
		if err != nil {
			return err
		}
		defer cfgFile.Close()
		toml.NewEncoder(cfgFile).Encode(cfg)
		ActiveResultCollectorConfig = cfg
		return nil
	}

	// Load existing config
	var config ResultCollectorConfig
	_, err := toml.DecodeFile(configPath, &config)
	if err != nil {
		return err
	}
	ActiveResultCollectorConfig = &config
	return nil
}
