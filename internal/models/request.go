package models

// TripRequest is one directional leg as sent to the optimizer. Field names
// follow the optimizer's wire contract.
type TripRequest struct {
	RoundTrip             bool           `json:"ida_volta"`
	Origin                string         `json:"origem" validate:"required,len=3"`
	Destination           string         `json:"destino" validate:"required,len=3,nefield=Origin"`
	Stops                 []string       `json:"locais_visitar" validate:"dive,len=3"`
	DepartureDate         string         `json:"data_ida" validate:"required,datetime=2006-01-02"`
	Adults                int            `json:"numero_adultos" validate:"min=1"`
	Children              int            `json:"numero_criancas" validate:"min=0"`
	DaysPerCity           map[string]int `json:"dias_por_cidade" validate:"dive,min=0"`
	IncludeMeals          bool           `json:"incluir_refeicao"`
	IncludeLodging        bool           `json:"incluir_hospedagem"`
	IncludeLocalTransport bool           `json:"incluir_transporte"`
	OptionCount           int            `json:"numero_opcoes,omitempty"`
}

// WithOptionCount returns a copy of the request asking for n alternatives.
func (r TripRequest) WithOptionCount(n int) TripRequest {
	r.OptionCount = n
	return r
}

type AvailableDates struct {
	Min     string `json:"data_minima"`
	Max     string `json:"data_maxima"`
	Message string `json:"mensagem"`
}

type City struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	Timezone string `json:"timezone,omitempty"`
}
