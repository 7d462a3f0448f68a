package models

type Flight struct {
	ID              string  `json:"id"`
	Carrier         string  `json:"cia"`
	FlightNumber    string  `json:"codigo"`
	Date            string  `json:"data"`
	DepartureTime   string  `json:"saida"`
	DurationMinutes *int    `json:"duracao_min"`
	Price           float64 `json:"preco"`
}

type Segment struct {
	Origin      string `json:"origem"`
	Destination string `json:"destino"`
	Flight      Flight `json:"voo"`
}

type Route struct {
	Origin      string    `json:"origem"`
	Destination string    `json:"destino"`
	Path        []string  `json:"caminho"`
	Segments    []Segment `json:"trechos"`
}

type Costs struct {
	Total          float64 `json:"total"`
	Flights        float64 `json:"voos"`
	Lodging        float64 `json:"hospedagem"`
	Meals          float64 `json:"alimentacao"`
	LocalTransport float64 `json:"transporte"`
}

type LodgingDetail struct {
	City        string  `json:"cidade"`
	Nights      int     `json:"diarias"`
	NightlyRate float64 `json:"diaria"`
	Total       float64 `json:"total"`
}

type DailyCostDetail struct {
	City      string  `json:"cidade"`
	Days      int     `json:"diarias"`
	DailyRate float64 `json:"custo_dia"`
	Total     float64 `json:"total"`
}

type Details struct {
	Lodging        []LodgingDetail   `json:"hospedagem"`
	Meals          []DailyCostDetail `json:"alimentacao"`
	LocalTransport []DailyCostDetail `json:"transporte"`
}
