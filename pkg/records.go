package k0sperf

// NO_MC_PARTICLE marks a record without a Monte Carlo link.
const NO_MC_PARTICLE int32 = -1

// Event holds one decoded collision together with its candidate,
// track and Monte Carlo particle tables.
type Event struct {
	Header      EventHeaderStruct
	V0s         []V0Record
	Tracks      []TrackRecord
	McParticles []McParticleRecord
	Error       bool

	trackIndex map[uint32]int
	mcIndex    map[int32]int
}

// BuildIndex fills the identifier lookup maps. DecodeEvent calls it
// after reading the tables, generated events call it once assembled.
func (e *Event) BuildIndex() {
	e.trackIndex = make(map[uint32]int, len(e.Tracks))
	for i := range e.Tracks {
		e.trackIndex[e.Tracks[i].TrackID] = i
	}
	e.mcIndex = make(map[int32]int, len(e.McParticles))
	for i := range e.McParticles {
		e.mcIndex[e.McParticles[i].McID] = i
	}
}

// Track resolves a daughter track identifier. The second value is false
// when the identifier does not appear in the track table.
func (e *Event) Track(id uint32) (*TrackRecord, bool) {
	i, ok := e.trackIndex[id]
	if !ok {
		return nil, false
	}
	return &e.Tracks[i], true
}

// McParticle resolves a Monte Carlo link. NO_MC_PARTICLE and unknown
// identifiers both report false.
func (e *Event) McParticle(id int32) (*McParticleRecord, bool) {
	if id == NO_MC_PARTICLE {
		return nil, false
	}
	i, ok := e.mcIndex[id]
	if !ok {
		return nil, false
	}
	return &e.McParticles[i], true
}
