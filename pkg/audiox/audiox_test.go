package audiox

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePCM16(t *testing.T) {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint16(raw[0:], uint16(int16(0)))
	binary.LittleEndian.PutUint16(raw[2:], uint16(int16(16384)))
	minSample := int16(-32768)
	binary.LittleEndian.PutUint16(raw[4:], uint16(minSample))
	binary.LittleEndian.PutUint16(raw[6:], uint16(int16(32767)))

	got, err := DecodePCM16(raw)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.InDelta(t, 0.0, got[0], 1e-6)
	assert.InDelta(t, 0.5, got[1], 1e-6)
	assert.InDelta(t, -1.0, got[2], 1e-6)
	assert.InDelta(t, 32767.0/32768.0, got[3], 1e-6)
}

func TestDecodePCM16OddLength(t *testing.T) {
	_, err := DecodePCM16([]byte{0x01, 0x02, 0x03})
	assert.Error(t, err)
}

func TestEncodeWAVHeader(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	wav := EncodeWAV(pcm, SampleRate, Channels)

	require.Len(t, wav, 44+len(pcm))
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[20:22]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]))
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(wav[28:32]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav[34:36]))
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, uint32(len(pcm)), binary.LittleEndian.Uint32(wav[40:44]))
	assert.Equal(t, pcm, wav[44:])
}
