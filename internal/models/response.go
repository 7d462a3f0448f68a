package models

import (
	"fmt"
	"math"
)

// CostTolerance is the absolute difference accepted between a reported total
// and the sum it is derived from.
const CostTolerance = 0.05

type OptimizationLevel string

const (
	LevelOptimal   OptimizationLevel = "otima"
	LevelRelaxed   OptimizationLevel = "boa"
	LevelFeasible  OptimizationLevel = "viavel"
	LevelBasic     OptimizationLevel = "basica"
	LevelNoneFound OptimizationLevel = "erro"
)

func (l OptimizationLevel) Valid() bool {
	switch l {
	case LevelOptimal, LevelRelaxed, LevelFeasible, LevelBasic, LevelNoneFound:
		return true
	}
	return false
}

// Tier is the language-neutral name of the level.
func (l OptimizationLevel) Tier() string {
	switch l {
	case LevelOptimal:
		return "optimal"
	case LevelRelaxed:
		return "relaxed"
	case LevelFeasible:
		return "feasible"
	case LevelBasic:
		return "basic"
	case LevelNoneFound:
		return "none-found"
	}
	return "unknown"
}

func (l OptimizationLevel) Label() string {
	switch l {
	case LevelOptimal:
		return "Solução Ótima"
	case LevelRelaxed:
		return "Solução Relaxada"
	case LevelFeasible:
		return "Solução Viável"
	case LevelBasic:
		return "Solução Básica"
	case LevelNoneFound:
		return "Sem Solução"
	}
	return ""
}

func (l OptimizationLevel) Description() string {
	switch l {
	case LevelOptimal:
		return "Melhor resultado possível"
	case LevelRelaxed:
		return "Excelente resultado"
	case LevelFeasible:
		return "Resultado aproximado"
	case LevelBasic:
		return "Rota simplificada"
	case LevelNoneFound:
		return "Nenhum voo disponível"
	}
	return ""
}

type ResultMetadata struct {
	Level              OptimizationLevel `json:"nivel_otimizacao"`
	Note               string            `json:"nota"`
	ComputationSeconds float64           `json:"tempo_computacao"`
}

type TripResultLeg struct {
	Route    Route           `json:"rota"`
	Costs    Costs           `json:"custos"`
	Details  Details         `json:"detalhes"`
	Metadata *ResultMetadata `json:"metadata,omitempty"`
}

func (l TripResultLeg) Validate() error {
	if err := validateCosts(l.Costs, l.Details); err != nil {
		return err
	}
	if l.Metadata != nil && !l.Metadata.Level.Valid() {
		return fmt.Errorf("%w: unknown optimization level %q", ErrMalformedResponse, l.Metadata.Level)
	}
	return nil
}

type CombinedTripResult struct {
	Outbound   TripResultLeg  `json:"ida"`
	Return     *TripResultLeg `json:"volta,omitempty"`
	GrandTotal float64        `json:"total_geral"`
}

type Scores struct {
	Cost    float64 `json:"custo"`
	Time    float64 `json:"tempo"`
	Comfort float64 `json:"conforto"`
	Overall float64 `json:"geral"`
}

type TripOption struct {
	ID               int      `json:"id"`
	Rank             int      `json:"ranking"`
	Title            string   `json:"titulo"`
	Description      string   `json:"descricao"`
	Route            Route    `json:"rota"`
	Costs            Costs    `json:"custos"`
	Details          Details  `json:"detalhes"`
	TotalCost        float64  `json:"custo_total"`
	TotalTravelHours float64  `json:"tempo_total_viagem"`
	NumberOfStops    int      `json:"numero_escalas"`
	Scores           Scores   `json:"pontuacao"`
	Advantages       []string `json:"vantagens"`
	Disadvantages    []string `json:"desvantagens"`
}

func (o TripOption) Validate() error {
	if o.Rank < 1 {
		return fmt.Errorf("%w: option %d has rank %d", ErrMalformedResponse, o.ID, o.Rank)
	}
	for name, s := range map[string]float64{
		"cost":    o.Scores.Cost,
		"time":    o.Scores.Time,
		"comfort": o.Scores.Comfort,
		"overall": o.Scores.Overall,
	} {
		if s < 0 || s > 10 {
			return fmt.Errorf("%w: option %d %s score %.2f outside [0,10]", ErrMalformedResponse, o.ID, name, s)
		}
	}
	if o.TotalCost < 0 || o.TotalTravelHours < 0 || o.NumberOfStops < 0 {
		return fmt.Errorf("%w: option %d has negative totals", ErrMalformedResponse, o.ID)
	}
	return validateCosts(o.Costs, o.Details)
}

type MultiOptionMetadata struct {
	ComputationSeconds float64 `json:"tempo_computacao"`
	Generated          int     `json:"numero_opcoes_geradas"`
	Requested          int     `json:"numero_opcoes_solicitadas"`
}

type MultiOptionResult struct {
	Options       []TripOption        `json:"opcoes"`
	RecommendedID int                 `json:"recomendacao"`
	Metadata      MultiOptionMetadata `json:"metadata"`
}

// Validate checks the shape of the option set. Whether the recommendation
// resolves is a separate data-integrity check.
func (m MultiOptionResult) Validate() error {
	if len(m.Options) == 0 {
		return fmt.Errorf("%w: no options returned", ErrMalformedResponse)
	}
	seen := make(map[int]bool, len(m.Options))
	for _, o := range m.Options {
		if seen[o.ID] {
			return fmt.Errorf("%w: duplicate option id %d", ErrMalformedResponse, o.ID)
		}
		seen[o.ID] = true
		if err := o.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// UpstreamErrorBody is the optimizer's non-2xx payload.
type UpstreamErrorBody struct {
	Detail string `json:"detail"`
}

func validateCosts(c Costs, d Details) error {
	if c.Total < 0 || c.Flights < 0 || c.Lodging < 0 || c.Meals < 0 || c.LocalTransport < 0 {
		return fmt.Errorf("%w: negative cost component", ErrMalformedResponse)
	}
	sum := c.Flights + c.Lodging + c.Meals + c.LocalTransport
	if !approxEqual(c.Total, sum) {
		return fmt.Errorf("%w: total %.2f differs from component sum %.2f", ErrMalformedResponse, c.Total, sum)
	}
	for _, l := range d.Lodging {
		if !approxEqual(l.Total, float64(l.Nights)*l.NightlyRate) {
			return fmt.Errorf("%w: lodging in %s totals %.2f, want %d x %.2f",
				ErrMalformedResponse, l.City, l.Total, l.Nights, l.NightlyRate)
		}
	}
	for kind, items := range map[string][]DailyCostDetail{"meals": d.Meals, "local transport": d.LocalTransport} {
		for _, item := range items {
			if !approxEqual(item.Total, float64(item.Days)*item.DailyRate) {
				return fmt.Errorf("%w: %s in %s totals %.2f, want %d x %.2f",
					ErrMalformedResponse, kind, item.City, item.Total, item.Days, item.DailyRate)
			}
		}
	}
	return nil
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= CostTolerance
}
