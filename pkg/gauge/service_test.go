package gauge

import (
	"fmt"
	"testing"

	"github.com/sigurn/crc16"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func framed(body string) string {
	data := body + "!"
	table := crc16.MakeTable(crc16.CRC16_ARC)
	return data + fmt.Sprintf("%04X", crc16.Checksum([]byte(data), table)) + "\r\n"
}

const frameBody = "@GAUGE,SN:DM32-18842\r\n" +
	"PRA:-50.2*Pa\r\n" +
	"PRB:124.5*Pa\r\n" +
	"FLW:1398.6*cfm\r\n" +
	"RNG:A\r\n" +
	"MOD:PR/FL\r\n"

func TestParseFrame(t *testing.T) {
	reader := NewReader("/dev/null", 9600)

	frame := reader.parseFrame(framed(frameBody))
	require.NotNil(t, frame)

	assert.Equal(t, "DM32-18842", frame.GaugeSerial)
	assert.Equal(t, -50.2, frame.HousePressurePa)
	assert.Equal(t, 124.5, frame.FanPressurePa)
	assert.Equal(t, 1398.6, frame.FanFlowCfm)
	assert.Equal(t, "A", frame.Ring)
	assert.Equal(t, "PR/FL", frame.Mode)
	assert.NotEmpty(t, frame.Timestamp)
}

func TestParseFrameOpenRing(t *testing.T) {
	body := "@GAUGE,SN:DM32-00001\r\nPRA:-25.0*Pa\r\nPRB:310.0*Pa\r\nFLW:2450.0*cfm\r\nRNG:OPEN\r\nMOD:PR/FL\r\n"
	frame := NewReader("/dev/null", 9600).parseFrame(framed(body))
	require.NotNil(t, frame)
	assert.Equal(t, "OPEN", frame.Ring)
}

func TestParseFrameRejectsBadCRC(t *testing.T) {
	reader := NewReader("/dev/null", 9600)

	corrupted := framed(frameBody)
	corrupted = corrupted[:len(corrupted)-6] + "0000\r\n"
	assert.Nil(t, reader.parseFrame(corrupted))
}

func TestParseFrameRejectsTruncated(t *testing.T) {
	reader := NewReader("/dev/null", 9600)
	assert.Nil(t, reader.parseFrame("@GAUGE,SN:DM32-18842\r\nPRA:-50.2*Pa\r\n"))
}

func TestValidateCRC(t *testing.T) {
	reader := NewReader("/dev/null", 9600)
	assert.True(t, reader.validateCRC(framed(frameBody)))
	assert.False(t, reader.validateCRC(framed(frameBody)[1:]))
}

func TestFrameJsonRoundTrip(t *testing.T) {
	frame := &Frame{
		Timestamp:       "2026-03-02T10:15:04Z",
		GaugeSerial:     "DM32-18842",
		HousePressurePa: -50.2,
		FanPressurePa:   124.5,
		FanFlowCfm:      1398.6,
		Ring:            "A",
		Mode:            "PR/FL",
	}

	decoded := FrameFromJsonBytes(frame.ToJsonBytes())
	require.NotNil(t, decoded)
	assert.Equal(t, frame, decoded)
}

func TestFrameFromJsonBytesInvalid(t *testing.T) {
	assert.Nil(t, FrameFromJsonBytes([]byte("not json")))
}
