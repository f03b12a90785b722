package config

type ResultCollectorConfig struct {
	ComplianceAPIHost string `toml:"compliance_api_host"`
	TLSEnabled        bool   `toml:"tls_enabled"`
	// Hours between aggregation passes over the results database.
	AggregateIntervalHours int `toml:"aggregate_interval_hours"`
}

type ComplianceAPIConfig struct {
	GaugeSerialDevice string `toml:"gauge_serial_device"`
	GaugeBaudrate     uint   `toml:"gauge_baudrate"`
	ListenAddress     string `toml:"listen_address"`
	ListenPort        int    `toml:"listen_port"`
	// HRV/ERV unit exposing airflow registers over Modbus TCP.
	// Empty values disable the /ventunit endpoint.
	VentUnitIp         string `toml:"vent_unit_ip"`
	VentUnitModbusPort int    `toml:"vent_unit_modbus_port"`
}
