package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	k0sperf "github.com/alice-perf/k0sperf_go/pkg"
	"github.com/google/uuid"
	sqlx "github.com/jmoiron/sqlx"
)

var dbConn *sqlx.DB
var configuration k0sperf.Configuration

var (
	logger         Logger
	VerbosityLevel int
)

func init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	handlerStdOut := k0sperf.NewHandler(os.Stdout, opts)
	handlerStdErr := slog.NewJSONHandler(os.Stderr, opts)
	logger = Logger{
		InfoLog:  slog.New(handlerStdOut),
		ErrorLog: slog.New(handlerStdErr),
	}
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	var err error
	configuration, err = k0sperf.LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		return
	}
	k0sperf.SetConfiguration(configuration)
	k0sperf.SetLogger(logger)

	VerbosityLevel = configuration.Verbosity
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
	}
	if VerbosityLevel > 0 {
		printConfiguration(configuration, logger)
	}

	jobID := uuid.New().String()
	startedAt := time.Now().UTC()
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Job ID: %s", jobID)
		logger.Info(message, "main")
	}

	file, err := os.Open(configuration.FileIn)
	if err != nil {
		message := fmt.Errorf("Error opening file: %w", err)
		logger.Error(message.Error())
		return
	}
	defer file.Close()

	evtCount, runNumber := k0sperf.CountEvents(file)
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Number of events: %d", evtCount)
		logger.Info(message, "main")
	}

	cuts := k0sperf.CutsFromConfiguration(configuration)
	if !configuration.NoDB {
		dbConn, err = k0sperf.ConnectToDatabase(configuration.User, configuration.Passwd, configuration.Host, configuration.DBName)
		if err != nil {
			message := fmt.Errorf("Error connection to database: %w", err)
			logger.Error(message.Error())
			return
		}
		defer dbConn.Close()

		dbCuts, err := k0sperf.LoadSelectionCuts(dbConn, runNumber)
		if err != nil {
			message := fmt.Errorf("Error loading selection cuts: %w", err)
			logger.Error(message.Error())
			return
		}
		if dbCuts != nil {
			cuts = *dbCuts
			if VerbosityLevel > 0 {
				message := fmt.Sprintf("Selection cuts for run %d read from DB", runNumber)
				logger.Info(message, "main")
			}
		}
	}
	if err := cuts.Validate(); err != nil {
		logger.Error(err.Error())
		return
	}

	task := k0sperf.NewResolutionTask(configuration, cuts)
	if err := task.Init(); err != nil {
		message := fmt.Errorf("Error setting up histograms: %w", err)
		logger.Error(message.Error())
		return
	}

	fileReader := k0sperf.NewFileReader(file)

	start := time.Now()
	if configuration.Parallel {
		jobs := make(chan WorkerData, 100)
		results := make(chan k0sperf.Event, 100)
		done := make(chan struct{})

		var wg sync.WaitGroup
		for w := 1; w <= configuration.NumWorkers; w++ {
			wg.Add(1)
			go worker(w, jobs, results, &wg)
		}
		go processWorkerResults(task, results, done)

		sendEventsToWorkers(fileReader, jobs)
		wg.Wait()
		close(results)
		<-done
	} else {
		for {
			header, eventData, err := fileReader.GetNextEvent()
			if err != nil {
				if err != io.EOF {
					message := fmt.Errorf("error reading event: %w", err)
					logger.Error(message.Error())
				}
				break
			}
			event := decodeEvent(eventData, header)
			task.ProcessEvent(&event)
		}
	}
	duration := time.Since(start)

	fmt.Println("Total events processed: ", task.EventsProcessed)
	message := fmt.Sprintf("V0 candidates: %d seen, %d accepted", task.V0Seen, task.V0Accepted)
	logger.Info(message, "main")
	fmt.Printf("Total time: %d ms\n", duration.Milliseconds())

	if configuration.WriteData {
		writer := k0sperf.NewWriter(configuration.FileOut)
		writer.WriteRunInfo(runNumber, jobID)
		writer.WriteSelectionConfiguration(cuts)
		for _, registry := range task.Registries() {
			writer.WriteRegistry(registry.Snapshot())
		}
		if err := writer.Close(); err != nil {
			logger.Error(err.Error())
		}
	}

	if configuration.YodaOut != "" {
		if err := k0sperf.WriteYODA(configuration.YodaOut, task.Registries()...); err != nil {
			message := fmt.Errorf("error writing YODA file: %w", err)
			logger.Error(message.Error())
		}
	}

	if configuration.SummaryDB != "" {
		summaryDB, err := k0sperf.OpenBookkeeping(configuration.SummaryDB)
		if err != nil {
			logger.Error(err.Error())
			return
		}
		defer summaryDB.Close()

		summary := k0sperf.RunSummary{
			JobID:           jobID,
			RunNumber:       runNumber,
			StartedAt:       startedAt.Format(time.RFC3339),
			FinishedAt:      time.Now().UTC().Format(time.RFC3339),
			EventsTotal:     int64(evtCount),
			EventsProcessed: task.EventsProcessed,
			V0Seen:          task.V0Seen,
			V0Accepted:      task.V0Accepted,
			OutputFile:      configuration.FileOut,
		}
		if err := k0sperf.InsertRunSummary(summaryDB, summary); err != nil {
			logger.Error(err.Error())
		}
	}
}

func decodeEvent(eventData []byte, header k0sperf.EventHeaderStruct) (event k0sperf.Event) {
	defer func() {
		if r := recover(); r != nil {
			errMessage := fmt.Errorf("decoder recovered from panic on event %d: %v", uint32(header.EventId), r)
			logger.Error(errMessage.Error())
			message := fmt.Sprintf("discarding event %d", uint32(header.EventId))
			logger.Error(message)
			event = k0sperf.Event{Error: true}
		}
	}()

	decoded, err := k0sperf.DecodeEvent(eventData, header)
	if err != nil {
		message := fmt.Errorf("error decoding event: %w", err)
		logger.Error(message.Error())
		return k0sperf.Event{Error: true}
	}
	return decoded
}
