package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	k0sperf "github.com/alice-perf/k0sperf_go/pkg"
)

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
	outFilename := flag.String("out", "toy_aod.bin", "Output AOD file path")
	events := flag.Int("events", 100, "Number of events to generate")
	runNumber := flag.Int("run", 100, "Run number")
	v0sPerEvent := flag.Int("v0s", 5, "Signal V0 candidates per event")
	bgPerEvent := flag.Int("background", 3, "Background candidates per event")
	seed := flag.Int64("seed", 42, "Random seed")
	mc := flag.Bool("mc", true, "Generate Monte Carlo truth links")
	smear := flag.Float64("smear", 0.01, "Relative momentum smearing")
	verbosity := flag.Int("verbosity", 0, "Verbosity level")
	flag.Parse()

	VerbosityLevel = *verbosity
	k0sperf.SetLogger(logger)

	config := k0sperf.DefaultGenConfig()
	config.RunNumber = uint32(*runNumber)
	config.Events = *events
	config.V0sPerEvent = *v0sPerEvent
	config.BackgroundPerEvent = *bgPerEvent
	config.Seed = *seed
	config.MC = *mc
	config.SmearSigma = *smear

	file, err := os.Create(*outFilename)
	if err != nil {
		message := fmt.Errorf("Error creating file: %w", err)
		logger.Error(message.Error())
		return
	}
	defer file.Close()
	out := bufio.NewWriter(file)

	generator := k0sperf.NewToyGenerator(config)

	start := time.Now()
	if err := k0sperf.WriteMarkerEvent(out, k0sperf.START_OF_RUN, config.RunNumber, 0); err != nil {
		message := fmt.Errorf("error writing start of run: %w", err)
		logger.Error(message.Error())
		return
	}
	v0Count := 0
	for i := 0; i < config.Events; i++ {
		event := generator.NextEvent()
		if VerbosityLevel > 1 {
			message := fmt.Sprintf("Generated event %d with %d candidates", uint32(event.Header.EventId), len(event.V0s))
			logger.Info(message, "aodgen")
		}
		if err := k0sperf.WriteEventTo(out, &event); err != nil {
			message := fmt.Errorf("error writing event %d: %w", uint32(event.Header.EventId), err)
			logger.Error(message.Error())
			return
		}
		v0Count += len(event.V0s)
	}
	if err := k0sperf.WriteMarkerEvent(out, k0sperf.END_OF_RUN, config.RunNumber, uint32(config.Events)+1); err != nil {
		message := fmt.Errorf("error writing end of run: %w", err)
		logger.Error(message.Error())
		return
	}
	if err := out.Flush(); err != nil {
		message := fmt.Errorf("error flushing file: %w", err)
		logger.Error(message.Error())
		return
	}
	duration := time.Since(start)

	message := fmt.Sprintf("Run %d: %d events, %d V0 candidates written to %s", config.RunNumber, config.Events, v0Count, *outFilename)
	logger.Info(message, "aodgen")
	fmt.Printf("Total time: %d ms\n", duration.Milliseconds())
}
