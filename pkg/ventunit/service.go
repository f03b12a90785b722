// Reads live supply/exhaust airflow from an HRV/ERV unit that exposes its
// registers over Modbus TCP. Optional; most jobs enter mechanical airflow
// by hand from a flow hood instead.
package ventunit

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	probing "github.com/prometheus-community/pro-bing"

	"github.com/ratertools/air_compliance_engine/pkg/config"
)

var (
	ErrModbusNotConfigured = fmt.Errorf("modbus not configured") // may be intended
	ErrModbusReadFailed    = fmt.Errorf("modbus read failed")
)

// Holding registers on the unit's ventilation map; each value is a 32-bit
// airflow in CFM across two registers.
const (
	supplyAirflowRegister  = 4100
	exhaustAirflowRegister = 4102
)

type Airflow struct {
	SupplyCfm  int32 `json:"supply_cfm"`
	ExhaustCfm int32 `json:"exhaust_cfm"`
}

var (
	airflowMu       sync.Mutex
	lastAirflowRead Airflow
	lastAirflowTime time.Time
)

// IsConfigured checks if the vent unit configuration is set.
// This feature is optional, Empty values as config are acceptable.
func IsConfigured() bool {
	return config.ActiveComplianceAPIConfig.VentUnitIp != "" &&
		config.ActiveComplianceAPIConfig.VentUnitModbusPort != 0
}

func ReadAirflow() (Airflow, error) {
	// Check if configured
	if !IsConfigured() {
		return Airflow{}, ErrModbusNotConfigured
	}

	// Use cached reads to avoid spamming the unit's controller
	airflowMu.Lock()
	defer airflowMu.Unlock()
	if lastAirflowTime.After(time.Now().Add(-10 * time.Second)) {
		return lastAirflowRead, nil
	}

	const maxRetries = 3
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		// Ping check before attempting modbus connection
		if ok, _, err := ping(config.ActiveComplianceAPIConfig.VentUnitIp); !ok || err != nil {
			lastErr = fmt.Errorf("ping failed on attempt %d: %w", attempt+1, err)
			if attempt < maxRetries-1 {
				time.Sleep(2 * time.Second)
			}
			continue
		}

		host := config.ActiveComplianceAPIConfig.VentUnitIp
		port := config.ActiveComplianceAPIConfig.VentUnitModbusPort

		handler := modbus.NewTCPClientHandler(fmt.Sprintf("%s:%d", host, port))
		handler.Timeout = 10 * time.Second
		handler.SlaveId = 1

		if err := handler.Connect(); err != nil {
			lastErr = fmt.Errorf("connection failed on attempt %d: %w", attempt+1, err)
			handler.Close()
			if attempt < maxRetries-1 {
				time.Sleep(2 * time.Second)
			}
			continue
		}

		client := modbus.NewClient(handler)

		supply, supplyErr := readRegister32(client, supplyAirflowRegister)
		exhaust, exhaustErr := readRegister32(client, exhaustAirflowRegister)
		handler.Close()

		if err := errors.Join(supplyErr, exhaustErr); err != nil {
			lastErr = fmt.Errorf("read airflow failed on attempt %d: %w", attempt+1, err)
			if attempt < maxRetries-1 {
				time.Sleep(2 * time.Second)
			}
			continue
		}

		// Success - cache and return
		lastAirflowRead = Airflow{SupplyCfm: supply, ExhaustCfm: exhaust}
		lastAirflowTime = time.Now()
		return lastAirflowRead, nil
	}

	return Airflow{}, errors.Join(ErrModbusReadFailed, lastErr)
}

func readRegister32(client modbus.Client, register uint16) (int32, error) {
	result, err := client.ReadHoldingRegisters(register, 2)
	if err != nil {
		return 0, err
	}
	if len(result) < 4 {
		return 0, fmt.Errorf("short register read: %d bytes", len(result))
	}
	value := int32(result[0])<<24 | int32(result[1])<<16 | int32(result[2])<<8 | int32(result[3])
	return value, nil
}

func ping(host string) (bool, time.Duration, error) {
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return false, 0, err
	}

	pinger.Count = 1
	pinger.Timeout = 2 * time.Second
	pinger.SetPrivileged(false) // UDP-based, no root needed

	err = pinger.Run()
	if err != nil {
		return false, 0, err
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv > 0 {
		return true, stats.AvgRtt, nil
	}

	return false, 0, fmt.Errorf("no response")
}
