package metrics

import "errors"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSearch forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordSearch(rec SearchRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordSearch(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordEvaluation forwards aggregates to the sinks that support them.
func (m *MultiSink) RecordEvaluation(rec EvaluationRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(EvaluationRecorder); ok {
			if err := r.RecordEvaluation(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes every sink holding a connection and joins their errors.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if c, ok := s.(Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
