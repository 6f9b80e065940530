package simulator

import (
	"log/slog"
	"path/filepath"
	"time"
)

// Simulator ties the policies, generator, metrics and trace log together
// behind one configured instance. All replay state stays inside the single
// Run call, so a Simulator is safe to share.
type Simulator struct {
	config *Config
	metrics *Metrics
	generator *Generator
	traceWriter *TraceWriter
	logger *slog.Logger
}

// NewSimulator creates a simulator from a validated configuration
func NewSimulator(config *Config, logger *slog.Logger) (*Simulator, error) {
	if err := config.Validate(); err != nil {
		return nil, NewSimError(ErrCodeInternal, "NewSimulator", "invalid configuration", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sim := &Simulator{
		config: config.Clone(),
		generator: NewGenerator(seed),
		logger: logger,
	}

	if config.EnableMetrics {
		sim.metrics = NewMetrics()
	}

	if config.TraceEnabled {
		compression, err := ParseTraceCompression(config.TraceCompression)
		if err != nil {
			return nil, err
		}

		tracePath := filepath.Join(config.TraceDirectory, "runs.trace")
		writer, err := NewTraceWriter(tracePath, compression)
		if err != nil {
			return nil, err
		}
		sim.traceWriter = writer
	}

	return sim, nil
}

// Config returns a copy of the simulator configuration
func (s *Simulator) Config() *Config {
	return s.config.Clone()
}

// Metrics returns the metrics tracker, or nil when metrics are disabled
func (s *Simulator) Metrics() *Metrics {
	return s.metrics
}

// GenerateRefString generates a reference string using the configured
// length and page bound
func (s *Simulator) GenerateRefString() (ReferenceString, error) {
	ref, err := s.generator.Generate(s.config.RefStringLength, s.config.NumPages)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordGeneration()
	}

	s.logger.Debug("generated reference string",
		slog.Int("length", len(ref)),
		slog.Int("num_pages", s.config.NumPages),
	)

	return ref, nil
}

// Run replays a reference string under the given policy with the configured
// frame count and returns the fault count
func (s *Simulator) Run(kind PolicyKind, ref ReferenceString) (int, error) {
	policy, err := NewPolicy(kind)
	if err != nil {
		return 0, err
	}

	clean := Sanitize(ref)
	if s.metrics != nil {
		s.metrics.RecordSanitize()
	}

	start := time.Now()
	faults := policy.Replay(clean, s.config.NumFrames)

	if s.metrics != nil {
		s.metrics.RecordReplay(kind, len(clean), faults, time.Since(start))
	}

	s.logger.Info("replay finished",
		slog.String("policy", policy.Name()),
		slog.Int("references", len(clean)),
		slog.Int("num_frames", s.config.NumFrames),
		slog.Int("faults", faults),
	)

	return faults, nil
}

// RunAll replays the same reference string under all three policies and
// appends the result to the trace log when tracing is enabled
func (s *Simulator) RunAll(ref ReferenceString) (*RunResult, error) {
	clean := Sanitize(ref)
	if s.metrics != nil {
		s.metrics.RecordSanitize()
	}

	result := &RunResult{
		RefString: clean,
		NumPages: s.config.NumPages,
		NumFrames: s.config.NumFrames,
		Faults: make(map[PolicyKind]int, len(Kinds())),
	}

	for _, kind := range Kinds() {
		policy, err := NewPolicy(kind)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		faults := policy.Replay(clean, s.config.NumFrames)

		if s.metrics != nil {
			s.metrics.RecordReplay(kind, len(clean), faults, time.Since(start))
		}

		result.Faults[kind] = faults
	}

	if s.traceWriter != nil {
		if err := s.traceWriter.Append(result); err != nil {
			return nil, err
		}
	}

	s.logger.Info("comparison run finished",
		slog.Int("references", len(clean)),
		slog.Int("num_frames", s.config.NumFrames),
		slog.Int("fifo_faults", result.Faults[PolicyFIFO]),
		slog.Int("lru_faults", result.Faults[PolicyLRU]),
		slog.Int("opt_faults", result.Faults[PolicyOPT]),
	)

	return result, nil
}

// Close flushes and closes the trace log if one is open
func (s *Simulator) Close() error {
	if s.traceWriter == nil {
		return nil
	}

	if err := s.traceWriter.Sync(); err != nil {
		return err
	}
	return s.traceWriter.Close()
}
