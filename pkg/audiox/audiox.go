// Package audiox converts raw model speech output into playable audio.
package audiox

import (
	"encoding/binary"
	"fmt"
)

// Speech model output format.
const (
	SampleRate = 24000
	Channels   = 1
	BitDepth   = 16
)

// DecodePCM16 converts 16-bit little-endian PCM bytes into normalized float32
// samples in [-1, 1). A trailing odd byte is an error.
func DecodePCM16(raw []byte) ([]float32, error) {
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("op=audiox.DecodePCM16: odd payload length %d", len(raw))
	}
	out := make([]float32, len(raw)/2)
	for i := range out {
		s := int16(binary.LittleEndian.Uint16(raw[2*i:]))
		out[i] = float32(s) / 32768.0
	}
	return out, nil
}

// EncodeWAV wraps raw 16-bit little-endian PCM in a RIFF/WAVE header so the
// payload can be served as audio/wav.
func EncodeWAV(pcm []byte, sampleRate, channels int) []byte {
	byteRate := sampleRate * channels * BitDepth / 8
	blockAlign := channels * BitDepth / 8

	buf := make([]byte, 0, 44+len(pcm))
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+len(pcm)))
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1) // PCM
	buf = binary.LittleEndian.AppendUint16(buf, uint16(channels))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(byteRate))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(blockAlign))
	buf = binary.LittleEndian.AppendUint16(buf, BitDepth)
	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(pcm)))
	buf = append(buf, pcm...)
	return buf
}
