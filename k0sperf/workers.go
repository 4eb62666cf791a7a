package main

import (
	"fmt"
	"io"
	"sync"

	k0sperf "github.com/alice-perf/k0sperf_go/pkg"
)

type WorkerData struct {
	Data   []byte
	Header k0sperf.EventHeaderStruct
}

func worker(id int, jobs <-chan WorkerData, results chan<- k0sperf.Event, wg *sync.WaitGroup) {
	defer wg.Done()
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Worker %d recovered from panic: %v\n", id, r)
			results <- k0sperf.Event{Error: true}
		}
	}()

	for job := range jobs {
		if VerbosityLevel > 1 {
			message := fmt.Sprintf("Worker %d decoding event %d", id, uint32(job.Header.EventId))
			logger.Info(message, "worker")
		}
		event, err := k0sperf.DecodeEvent(job.Data, job.Header)
		if err != nil {
			message := fmt.Errorf("error decoding event %d: %w", uint32(job.Header.EventId), err)
			logger.Error(message.Error())
			results <- k0sperf.Event{Error: true}
			continue
		}
		results <- event
	}
}

func sendEventsToWorkers(fileReader *k0sperf.FileReader, jobs chan<- WorkerData) {
	for {
		header, eventData, err := fileReader.GetNextEvent()
		if err != nil {
			if err != io.EOF {
				message := fmt.Errorf("error reading event: %w", err)
				logger.Error(message.Error())
			}
			break
		}
		jobs <- WorkerData{Data: eventData, Header: header}
	}
	close(jobs)
}

// processWorkerResults is the single consumer of decoded events. All
// histogram fills happen on this goroutine.
func processWorkerResults(task *k0sperf.ResolutionTask, results <-chan k0sperf.Event, done chan<- struct{}) {
	for event := range results {
		task.ProcessEvent(&event)
	}
	close(done)
}
