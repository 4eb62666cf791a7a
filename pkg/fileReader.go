package k0sperf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"unsafe"
)

type FileReader struct {
	File     *os.File
	EvtCount int
}

func NewFileReader(file *os.File) *FileReader {
	return &FileReader{File: file, EvtCount: -1}
}

// GetNextEvent returns the next valid event honouring the Skip and
// MaxEvents settings of the configuration. io.EOF signals that no more
// events are coming.
func (f *FileReader) GetNextEvent() (EventHeaderStruct, []byte, error) {
	for {
		header, eventData, err := ReadEventFromFile(f.File)
		if err != nil {
			return header, nil, err
		}
		if !ValidEvent(header) {
			continue
		}
		f.EvtCount++
		if f.EvtCount >= configuration.MaxEvents {
			if configuration.Verbosity > 0 {
				logger.Info("Max events reached", "fileReader")
			}
			return header, nil, io.EOF
		}
		if f.EvtCount < configuration.Skip {
			if configuration.Verbosity > 0 {
				message := fmt.Sprintf("Skipping event %d with ID %d", f.EvtCount, uint32(header.EventId))
				logger.Info(message, "fileReader")
			}
			continue
		}
		if configuration.Verbosity > 0 {
			message := fmt.Sprintf("Reading event %d with ID %d", f.EvtCount, uint32(header.EventId))
			logger.Info(message, "fileReader")
		}
		return header, eventData, nil
	}
}

// CountEvents scans the whole file counting valid events. It returns
// the count and the run number and leaves the file rewound.
func CountEvents(file *os.File) (int, int) {
	evtCount := 0
	runNumber := 0
	for {
		var header EventHeaderStruct
		headerSize := unsafe.Sizeof(header)
		headerBinary := make([]byte, headerSize)
		if _, err := io.ReadFull(file, headerBinary); err != nil {
			if err != io.EOF {
				errMessage := fmt.Errorf("error reading header counting events: %w", err)
				logger.Error(errMessage.Error())
			}
			break
		}

		headerReader := bytes.NewReader(headerBinary)
		binary.Read(headerReader, binary.LittleEndian, &header)
		runNumber = int(header.EventRunNb)
		if configuration.Verbosity > 1 {
			message := fmt.Sprintf("Evt id: %d, kind: %d", uint32(header.EventId), header.EventKind)
			logger.Info(message, "evtCounter")
		}
		payloadSize := uint32(header.EventSize) - uint32(headerSize)
		file.Seek(int64(payloadSize), 1)

		if !ValidEvent(header) {
			if configuration.Verbosity > 1 {
				message := fmt.Sprintf("Skipping marker event: %d", uint32(header.EventId))
				logger.Info(message, "evtCounter")
			}
			continue
		}
		evtCount++
	}
	// Go back to the beginning of the file
	file.Seek(0, 0)
	return evtCount, runNumber
}
