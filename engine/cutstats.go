package engine

import "github.com/rs/zerolog"

// CutStatistics collects counts for each pruning/cutoff mechanism of one worker.
type CutStatistics struct {
	TTCutoffs        uint64
	NullMoveCutoffs  uint64
	BetaCutoffs      uint64
	QStandPatCutoffs uint64
	QBetaCutoffs     uint64
	DeltaPrunes      uint64
	SEEPrunes        uint64
}

func (s *CutStatistics) add(o CutStatistics) {
	s.TTCutoffs += o.TTCutoffs
	s.NullMoveCutoffs += o.NullMoveCutoffs
	s.BetaCutoffs += o.BetaCutoffs
	s.QStandPatCutoffs += o.QStandPatCutoffs
	s.QBetaCutoffs += o.QBetaCutoffs
	s.DeltaPrunes += o.DeltaPrunes
	s.SEEPrunes += o.SEEPrunes
}

// MarshalZerologObject lets the statistics be logged as a nested object.
func (s CutStatistics) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("tt", s.TTCutoffs).
		Uint64("null", s.NullMoveCutoffs).
		Uint64("beta", s.BetaCutoffs).
		Uint64("qstandpat", s.QStandPatCutoffs).
		Uint64("qbeta", s.QBetaCutoffs).
		Uint64("delta", s.DeltaPrunes).
		Uint64("see", s.SEEPrunes)
}
