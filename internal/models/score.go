package models

// ScoreCategory is one of four ordered quality tiers.
type ScoreCategory string

const (
	CategoryExcellent ScoreCategory = "excellent"
	CategoryGood      ScoreCategory = "good"
	CategoryMedium    ScoreCategory = "medium"
	CategoryCritical  ScoreCategory = "critical"
)

// ScoreBreakdown holds the six independently weighted components. Each is
// capped at its fixed weight ceiling; the rounded sum equals the total.
type ScoreBreakdown struct {
	Classificacao         float64 `json:"classificacao"`          // cap 25
	PresencaDigital       float64 `json:"presenca_digital"`       // cap 20
	PerformanceFinanceira float64 `json:"performance_financeira"` // cap 20
	Infraestrutura        float64 `json:"infraestrutura"`         // cap 12
	ExperienciaHospede    float64 `json:"experiencia_hospede"`    // cap 8
	GestaoReputacao       float64 `json:"gestao_reputacao"`       // cap 8
}

// Sum adds all breakdown components.
func (b ScoreBreakdown) Sum() float64 {
	return b.Classificacao + b.PresencaDigital + b.PerformanceFinanceira +
		b.Infraestrutura + b.ExperienciaHospede + b.GestaoReputacao
}

// HealthScore is the composite 0-100 listing quality score.
type HealthScore struct {
	Total     int            `json:"total"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Category  ScoreCategory  `json:"category"`
}
