package k0sperf

type EventSizeType uint32

type EventMagicType uint32

const EVENT_MAGIC_NUMBER EventMagicType = 0xA0DDA7A0

/* ---------- Unique version identifier ---------- */
const EVENT_MAJOR_VERSION_NUMBER = 1
const EVENT_MINOR_VERSION_NUMBER = 2
const EVENT_CURRENT_VERSION = ((EVENT_MAJOR_VERSION_NUMBER << 16) & 0xffff0000) | (EVENT_MINOR_VERSION_NUMBER & 0x0000ffff)

type EventVersionType uint32

/* ---------- Event kind ---------- */
type EventKindType uint32

const (
	START_OF_RUN EventKindType = iota + 1
	END_OF_RUN
	DATA_EVENT
	MC_EVENT
)

type EventRunNbType uint32
type EventIdType uint32

/* ---------- Event flags ---------- */
type EventFlagsType uint32

const EVENT_FLAG_SEL8 EventFlagsType = 0x00000001

/* ---------- The event header structure ---------- */
// All fields are 4 bytes wide so the in-memory layout matches the
// little-endian on-disk layout read with encoding/binary.
type EventHeaderStruct struct {
	EventSize    EventSizeType
	EventMagic   EventMagicType
	EventVersion EventVersionType
	EventKind    EventKindType
	EventRunNb   EventRunNbType
	EventId      EventIdType
	EventFlags   EventFlagsType
	NV0s         uint32
	NTracks      uint32
	NMcParticles uint32
	VertexX      float32
	VertexY      float32
	VertexZ      float32
}

func (h *EventHeaderStruct) Sel8() bool {
	return h.EventFlags&EVENT_FLAG_SEL8 != 0
}

func (h *EventHeaderStruct) PosX() float64 {
	return float64(h.VertexX)
}

func (h *EventHeaderStruct) PosY() float64 {
	return float64(h.VertexY)
}

func (h *EventHeaderStruct) PosZ() float64 {
	return float64(h.VertexZ)
}

/* ---------- Detector map for tracks ---------- */
const (
	DETECTOR_MAP_ITS uint32 = 0x1
	DETECTOR_MAP_TPC uint32 = 0x2
	DETECTOR_MAP_TRD uint32 = 0x4
	DETECTOR_MAP_TOF uint32 = 0x8
)

/* ---------- Fixed-size payload records ---------- */

// V0Record is a neutral two-prong decay candidate. Daughter momenta are
// evaluated at the decay vertex, track records keep their own momenta.
type V0Record struct {
	PosTrackID   uint32
	NegTrackID   uint32
	McParticleID int32

	PxPos float32
	PyPos float32
	PzPos float32
	PxNeg float32
	PyNeg float32
	PzNeg float32

	X float32
	Y float32
	Z float32

	DCAPosToPV     float32
	DCANegToPV     float32
	DCAV0Daughters float32
	CosPA          float32
	MK0Short       float32
}

type TrackRecord struct {
	TrackID            uint32
	McParticleID       int32
	DetectorMap        uint32
	ITSInnerBarrelHits int32
	TPCCrossedRows     int32
	TrackingPID        int32

	Px float32
	Py float32
	Pz float32

	TPCNSigmaPi   float32
	TOFNSigmaPi   float32
	TPCInnerParam float32
	TPCSignal     float32
}

func (t *TrackRecord) HasITS() bool {
	return t.DetectorMap&DETECTOR_MAP_ITS != 0
}

func (t *TrackRecord) HasTPC() bool {
	return t.DetectorMap&DETECTOR_MAP_TPC != 0
}

func (t *TrackRecord) HasTRD() bool {
	return t.DetectorMap&DETECTOR_MAP_TRD != 0
}

func (t *TrackRecord) HasTOF() bool {
	return t.DetectorMap&DETECTOR_MAP_TOF != 0
}

type McParticleRecord struct {
	McID    int32
	PdgCode int32

	Px float32
	Py float32
	Pz float32
}
