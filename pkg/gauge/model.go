package gauge

import (
	"encoding/json"
	"io"
	"regexp"
	"sync"
)

// Reader streams logging frames from a digital manometer on a serial port.
type Reader struct {
	port        string
	baudrate    uint
	serialPort  io.ReadWriteCloser
	latestFrame *Frame
	frameMutex  sync.RWMutex
	stopSignal  bool

	// Pre-compiled regex patterns
	fieldPatterns   map[string]*regexp.Regexp
	specialPatterns map[string]*regexp.Regexp
}

// Frame is one gauge logging frame: channel A house pressure, channel B fan
// pressure, the gauge's own flow readout and the selected flow ring.
type Frame struct {
	Timestamp       string  `json:"timestamp"`
	GaugeSerial     string  `json:"gauge_serial"`
	HousePressurePa float64 `json:"house_pressure_pa"`
	FanPressurePa   float64 `json:"fan_pressure_pa"`
	FanFlowCfm      float64 `json:"fan_flow_cfm"`
	Ring            string  `json:"ring"`
	Mode            string  `json:"mode"`
}

func (f *Frame) ToJsonBytes() []byte {
	data, err := json.Marshal(f)
	if err != nil {
		return nil
	}
	return data
}

func FrameFromJsonBytes(data []byte) *Frame {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil
	}
	return &frame
}
