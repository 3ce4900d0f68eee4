package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// wavFormat holds WAV file format information
type wavFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

func (f wavFormat) validate() error {
	if f.BitDepth != 16 {
		return fmt.Errorf("unsupported wav bit depth %d", f.BitDepth)
	}
	if f.Channels < 1 || f.Channels > 2 {
		return fmt.Errorf("unsupported wav channel count %d", f.Channels)
	}
	if f.SampleRate <= 0 {
		return fmt.Errorf("invalid wav sample rate %d", f.SampleRate)
	}
	return nil
}

var errNotWAV = errors.New("not a RIFF/WAVE file")

// parseWAV parses a WAV file and returns the format and PCM data
func parseWAV(data []byte) (*wavFormat, []byte, error) {
	reader := bytes.NewReader(data)

	var header [12]byte
	if _, err := io.ReadFull(reader, header[:]); err != nil {
		return nil, nil, errNotWAV
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, nil, errNotWAV
	}

	var format *wavFormat
	for {
		var chunkID [4]byte
		if _, err := io.ReadFull(reader, chunkID[:]); err != nil {
			return nil, nil, errors.New("wav data chunk missing")
		}

		var chunkSize uint32
		if err := binary.Read(reader, binary.LittleEndian, &chunkSize); err != nil {
			return nil, nil, fmt.Errorf("read wav chunk size: %w", err)
		}

		switch string(chunkID[:]) {
		case "fmt ":
			if chunkSize < 16 {
				return nil, nil, errors.New("wav fmt chunk too short")
			}
			var fmtChunk struct {
				AudioFormat   uint16
				NumChannels   uint16
				SampleRate    uint32
				ByteRate      uint32
				BlockAlign    uint16
				BitsPerSample uint16
			}
			if err := binary.Read(reader, binary.LittleEndian, &fmtChunk); err != nil {
				return nil, nil, fmt.Errorf("read wav fmt chunk: %w", err)
			}
			format = &wavFormat{
				SampleRate: int(fmtChunk.SampleRate),
				Channels:   int(fmtChunk.NumChannels),
				BitDepth:   int(fmtChunk.BitsPerSample),
			}
			// Skip any extra format bytes
			if _, err := reader.Seek(int64(chunkSize-16), io.SeekCurrent); err != nil {
				return nil, nil, err
			}
		case "data":
			if format == nil {
				return nil, nil, errors.New("wav data chunk before fmt chunk")
			}
			if int64(chunkSize) > int64(reader.Len()) {
				chunkSize = uint32(reader.Len())
			}
			audioData := make([]byte, chunkSize)
			if _, err := io.ReadFull(reader, audioData); err != nil {
				return nil, nil, fmt.Errorf("read wav data: %w", err)
			}
			return format, audioData, nil
		default:
			// Skip unknown chunk, padded to an even size
			skip := int64(chunkSize) + int64(chunkSize%2)
			if _, err := reader.Seek(skip, io.SeekCurrent); err != nil {
				return nil, nil, err
			}
		}
	}
}

// encodeWAV wraps 16-bit PCM samples in a minimal WAV container
func encodeWAV(format wavFormat, pcm []byte) []byte {
	blockAlign := format.Channels * format.BitDepth / 8

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(format.Channels))
	binary.Write(&buf, binary.LittleEndian, uint32(format.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(format.SampleRate*blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(format.BitDepth))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}
