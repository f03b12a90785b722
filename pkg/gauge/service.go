// Reads logging frames from a digital manometer over its serial logging
// port. A frame starts with "@GAUGE" and ends with "!" followed by a four
// hex digit CRC16/ARC over everything up to and including the "!":
//
//	@GAUGE,SN:DM32-18842
//	PRA:-50.2*Pa
//	PRB:124.5*Pa
//	FLW:1398.6*cfm
//	RNG:A
//	MOD:PR/FL
//	!9C41
package gauge

import (
	"bufio"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jacobsa/go-serial/serial"
	"github.com/sigurn/crc16"
)

// Initialize a new gauge Reader client.
func NewReader(port string, baudrate uint) *Reader {
	reader := &Reader{
		port:       port,
		baudrate:   baudrate,
		stopSignal: false,
	}

	// Pre-compile regex patterns
	reader.fieldPatterns = map[string]*regexp.Regexp{
		"house_pressure": regexp.MustCompile(`PRA:(-?\d+(?:\.\d+)?)\*Pa`),
		"fan_pressure":   regexp.MustCompile(`PRB:(-?\d+(?:\.\d+)?)\*Pa`),
		"fan_flow":       regexp.MustCompile(`FLW:(-?\d+(?:\.\d+)?)\*cfm`),
	}

	reader.specialPatterns = map[string]*regexp.Regexp{
		"gauge_serial": regexp.MustCompile(`SN:([A-Z0-9-]+)`),
		"ring":         regexp.MustCompile(`RNG:([A-E]|OPEN)`),
		"mode":         regexp.MustCompile(`MOD:([A-Z/]+)`),
	}

	return reader
}

// Start listening for frames. The gauge emits one per second in logging
// mode. Runs in goroutine. handleFrame() also runs in goroutine.
func (g *Reader) StartReading(
	handleFrame func(frame *Frame),
	handleError func(error),
) {
	g.stopSignal = false

	go func() {
		// Tolerance before we report error.
		consecutiveErrors := 0
		maxErrors := 10
		var lastError error

		// Initialize the connection
		openConnError := g.connect()
		if openConnError != nil {
			handleError(openConnError)
			return
		}

		for consecutiveErrors < maxErrors {
			// Check for Stop command
			if g.stopSignal {
				log.Println("Stop signal received, disconnecting gauge")
				g.disconnect()
				return
			}

			// Read the next frame
			raw, err := g.readFrame()
			if err != nil {
				consecutiveErrors++
				lastError = err
				log.Printf("Error reading gauge frame (%d/%d): %v", consecutiveErrors, maxErrors, err)
				time.Sleep(time.Second)
				continue
			}

			if frame := g.parseFrame(raw); frame != nil {
				g.frameMutex.Lock()
				g.latestFrame = frame
				g.frameMutex.Unlock()

				go handleFrame(frame)
				consecutiveErrors = 0
			}
		}

		log.Printf("Too many consecutive errors (%d), stopping gauge reader: %v", maxErrors, lastError)
		handleError(lastError)
		g.disconnect()
	}()
}

func (g *Reader) StopReading() {
	g.stopSignal = true
	g.disconnect()
}

func (g *Reader) GetLatestFrame() *Frame {
	g.frameMutex.RLock()
	defer g.frameMutex.RUnlock()
	return g.latestFrame
}

// Open the connection to the gauge logging port.
func (g *Reader) connect() error {
	options := serial.OpenOptions{
		PortName:        g.port,
		BaudRate:        g.baudrate,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
	}

	port, err := serial.Open(options)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}

	g.serialPort = port
	log.Printf("Connected to gauge on %s", g.port)
	return nil
}

func (g *Reader) disconnect() {
	if g.serialPort != nil {
		g.serialPort.Close()
		log.Println("Disconnected from gauge")
	}
}

func (g *Reader) readFrame() (string, error) {
	if g.serialPort == nil {
		return "", fmt.Errorf("serial port not connected")
	}

	var buffer strings.Builder
	var inFrame bool
	reader := bufio.NewReader(g.serialPort)

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}

		if strings.HasPrefix(line, "@GAUGE") {
			// Start of frame
			buffer.Reset()
			buffer.WriteString(line)
			inFrame = true
		} else if inFrame {
			buffer.WriteString(line)
			if strings.HasPrefix(strings.TrimSpace(line), "!") {
				// End of frame
				return buffer.String(), nil
			}
		}
	}
}

func (g *Reader) validateCRC(frame string) bool {
	parts := strings.Split(frame, "!")
	if len(parts) != 2 || len(parts[1]) < 4 {
		return false
	}

	data := parts[0] + "!"
	givenCRC := parts[1][:4]

	table := crc16.MakeTable(crc16.CRC16_ARC)
	calcCRC := crc16.Checksum([]byte(data), table)
	calcCRCHex := fmt.Sprintf("%04X", calcCRC)

	return strings.ToUpper(givenCRC) == calcCRCHex
}

func (g *Reader) parseFrame(raw string) *Frame {
	if !g.validateCRC(raw) {
		log.Println("Invalid CRC, skipping gauge frame")
		return nil
	}

	frame := &Frame{
		Timestamp: time.Now().Format(time.RFC3339),
	}

	fieldMap := map[string]func(float64){
		"house_pressure": func(v float64) { frame.HousePressurePa = v },
		"fan_pressure":   func(v float64) { frame.FanPressurePa = v },
		"fan_flow":       func(v float64) { frame.FanFlowCfm = v },
	}

	for field, setter := range fieldMap {
		if pattern, exists := g.fieldPatterns[field]; exists {
			if match := pattern.FindStringSubmatch(raw); match != nil {
				if value, err := strconv.ParseFloat(match[1], 64); err == nil {
					setter(value)
				}
			}
		}
	}

	if match := g.specialPatterns["gauge_serial"].FindStringSubmatch(raw); match != nil {
		frame.GaugeSerial = match[1]
	}
	if match := g.specialPatterns["ring"].FindStringSubmatch(raw); match != nil {
		frame.Ring = match[1]
	}
	if match := g.specialPatterns["mode"].FindStringSubmatch(raw); match != nil {
		frame.Mode = match[1]
	}

	return frame
}
