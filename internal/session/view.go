package session

import (
	"github.com/dharmasatrya/smarttrip/internal/aggregator"
	"github.com/dharmasatrya/smarttrip/internal/models"
	"github.com/dharmasatrya/smarttrip/internal/ranking"
	"github.com/dharmasatrya/smarttrip/pkg/currency"
)

// View is everything a result screen needs. It is rebuilt on every read so
// derived totals always match the stored results.
type View struct {
	SessionID string        `json:"session_id"`
	Mode      Mode          `json:"mode"`
	InFlight  bool          `json:"in_flight"`
	Error     string        `json:"error,omitempty"`
	Single    *SingleView   `json:"single,omitempty"`
	Multiple  *MultipleView `json:"multiple,omitempty"`
}

type SingleView struct {
	Result                  models.CombinedTripResult `json:"result"`
	GrandTotalFormatted     string                    `json:"grand_total_formatted"`
	OptimizationTier        string                    `json:"optimization_tier,omitempty"`
	OptimizationLabel       string                    `json:"optimization_label,omitempty"`
	OptimizationDescription string                    `json:"optimization_description,omitempty"`
}

type OptionView struct {
	models.TripOption
	Recommended        bool               `json:"recomendada"`
	ScoreTiers         ranking.ScoreTiers `json:"score_tiers"`
	TotalCostFormatted string             `json:"custo_total_formatado"`
}

type OptionSet struct {
	Options       []OptionView               `json:"opcoes"`
	RecommendedID int                        `json:"recomendacao"`
	Metadata      models.MultiOptionMetadata `json:"metadata"`
}

type MultipleView struct {
	Outbound           OptionSet            `json:"ida"`
	Return             *OptionSet           `json:"volta,omitempty"`
	Selection          aggregator.Selection `json:"selecao"`
	SelectionFormatted string               `json:"selecao_total_formatado"`
}

// ViewOptions controls how option lists are ordered.
type ViewOptions struct {
	SortBy    string
	SortOrder string
}

func (s *Session) View(opts ViewOptions) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		SessionID: s.id,
		Mode:      s.mode,
		InFlight:  s.inFlight,
		Error:     s.lastError,
	}

	if s.outbound != nil {
		combined := aggregator.Combine(*s.outbound, s.ret)
		sv := &SingleView{
			Result:              combined,
			GrandTotalFormatted: currency.FormatBRL(combined.GrandTotal),
		}
		if md := s.outbound.Metadata; md != nil {
			sv.OptimizationTier = md.Level.Tier()
			sv.OptimizationLabel = md.Level.Label()
			sv.OptimizationDescription = md.Level.Description()
		}
		v.Single = sv
	}

	if s.outboundOptions != nil {
		mv := &MultipleView{
			Outbound: buildOptionSet(*s.outboundOptions, opts),
		}
		if s.returnOptions != nil {
			rs := buildOptionSet(*s.returnOptions, opts)
			mv.Return = &rs
		}
		mv.Selection = aggregator.CombineSelection(
			pick(s.outboundOptions, s.selectedOutbound),
			pick(s.returnOptions, s.selectedReturn),
		)
		mv.SelectionFormatted = currency.FormatBRL(mv.Selection.Total)
		v.Multiple = mv
	}

	return v
}

func buildOptionSet(result models.MultiOptionResult, opts ViewOptions) OptionSet {
	sorted := ranking.SortOptions(result.Options, opts.SortBy, opts.SortOrder)
	views := make([]OptionView, len(sorted))
	for i, o := range sorted {
		views[i] = OptionView{
			TripOption:         o,
			Recommended:        o.ID == result.RecommendedID,
			ScoreTiers:         ranking.TiersFor(o.Scores),
			TotalCostFormatted: currency.FormatBRL(o.TotalCost),
		}
	}
	return OptionSet{
		Options:       views,
		RecommendedID: result.RecommendedID,
		Metadata:      result.Metadata,
	}
}

func pick(result *models.MultiOptionResult, id *int) *models.TripOption {
	if result == nil || id == nil {
		return nil
	}
	o, err := ranking.FindOption(result.Options, *id)
	if err != nil {
		return nil
	}
	return &o
}
