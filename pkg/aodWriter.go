package k0sperf

import (
	"encoding/binary"
	"io"
	"unsafe"
)

// WriteEventTo serialises one event in the little-endian on-disk
// layout. Size, magic, version and the record counts are recomputed
// from the event content, callers only fill in the physics fields.
func WriteEventTo(w io.Writer, event *Event) error {
	header := event.Header
	headerSize := uint32(unsafe.Sizeof(header))
	v0Size := uint32(unsafe.Sizeof(V0Record{}))
	trackSize := uint32(unsafe.Sizeof(TrackRecord{}))
	mcSize := uint32(unsafe.Sizeof(McParticleRecord{}))

	header.EventMagic = EVENT_MAGIC_NUMBER
	header.EventVersion = EVENT_CURRENT_VERSION
	header.NV0s = uint32(len(event.V0s))
	header.NTracks = uint32(len(event.Tracks))
	header.NMcParticles = uint32(len(event.McParticles))
	header.EventSize = EventSizeType(headerSize +
		header.NV0s*v0Size + header.NTracks*trackSize + header.NMcParticles*mcSize)

	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, event.V0s); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, event.Tracks); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, event.McParticles)
}

// WriteMarkerEvent writes a start-of-run or end-of-run delimiter.
func WriteMarkerEvent(w io.Writer, kind EventKindType, runNumber uint32, eventId uint32) error {
	header := EventHeaderStruct{
		EventKind:  kind,
		EventRunNb: EventRunNbType(runNumber),
		EventId:    EventIdType(eventId),
	}
	return WriteEventTo(w, &Event{Header: header})
}
