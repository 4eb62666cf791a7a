package k0sperf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"unsafe"
)

// ValidEvent reports whether the event carries candidate records.
// Start-of-run and end-of-run markers only delimit the run.
func ValidEvent(header EventHeaderStruct) bool {
	return header.EventKind == DATA_EVENT || header.EventKind == MC_EVENT
}

func ReadEventFromFile(file *os.File) (EventHeaderStruct, []byte, error) {
	var header EventHeaderStruct
	headerSize := unsafe.Sizeof(header)
	headerBinary := make([]byte, headerSize)
	if _, err := io.ReadFull(file, headerBinary); err != nil {
		return header, nil, err
	}

	headerReader := bytes.NewReader(headerBinary)
	binary.Read(headerReader, binary.LittleEndian, &header)
	if header.EventMagic != EVENT_MAGIC_NUMBER {
		return header, nil, fmt.Errorf("bad magic number: 0x%08x", uint32(header.EventMagic))
	}
	if uint32(header.EventSize) < uint32(headerSize) {
		return header, nil, fmt.Errorf("event size %d smaller than header", uint32(header.EventSize))
	}

	payloadSize := uint32(header.EventSize) - uint32(headerSize)
	eventData := make([]byte, payloadSize)
	if _, err := io.ReadFull(file, eventData); err != nil {
		return header, nil, err
	}
	return header, eventData, nil
}

func ReadEvent(data []byte) (EventHeaderStruct, []byte, error) {
	var header EventHeaderStruct
	headerSize := unsafe.Sizeof(header)
	if len(data) < int(headerSize) {
		return header, nil, fmt.Errorf("data is too short")
	}
	headerReader := bytes.NewReader(data[:headerSize])
	binary.Read(headerReader, binary.LittleEndian, &header)
	if header.EventMagic != EVENT_MAGIC_NUMBER {
		return header, nil, fmt.Errorf("bad magic number: 0x%08x", uint32(header.EventMagic))
	}

	payloadSize := uint32(header.EventSize) - uint32(headerSize)
	if len(data) < int(headerSize)+int(payloadSize) {
		return header, nil, fmt.Errorf("data is too short")
	}
	eventData := data[headerSize : uint32(headerSize)+payloadSize]
	return header, eventData, nil
}

// DecodeEvent parses the candidate records of one event. The payload
// carries the V0, track and MC particle blocks back to back in the
// order announced by the header counts.
func DecodeEvent(eventData []byte, header EventHeaderStruct) (Event, error) {
	event := Event{Header: header}

	v0Size := int(unsafe.Sizeof(V0Record{}))
	trackSize := int(unsafe.Sizeof(TrackRecord{}))
	mcSize := int(unsafe.Sizeof(McParticleRecord{}))
	expected := int(header.NV0s)*v0Size + int(header.NTracks)*trackSize + int(header.NMcParticles)*mcSize
	if len(eventData) < expected {
		return event, fmt.Errorf("event %d payload is too short: %d bytes, expected %d",
			uint32(header.EventId), len(eventData), expected)
	}

	reader := bytes.NewReader(eventData)
	event.V0s = make([]V0Record, header.NV0s)
	if err := binary.Read(reader, binary.LittleEndian, event.V0s); err != nil {
		return event, err
	}
	event.Tracks = make([]TrackRecord, header.NTracks)
	if err := binary.Read(reader, binary.LittleEndian, event.Tracks); err != nil {
		return event, err
	}
	event.McParticles = make([]McParticleRecord, header.NMcParticles)
	if err := binary.Read(reader, binary.LittleEndian, event.McParticles); err != nil {
		return event, err
	}
	event.BuildIndex()
	return event, nil
}
