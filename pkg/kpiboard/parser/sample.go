package parser

import (
	"fmt"
	"sync"
	"time"

	"github.com/ukaji3/kpiboard-go/pkg/kpiboard/models"
)

// sampleDays is the number of daily rows generated per sample indicator.
const sampleDays = 7

type sampleIndicator struct {
	prefix      string
	email       string
	sectorID    string
	sectorName  string
	sectorDesc  string
	id          string
	name        string
	unit        string
	target      float64
	description string
	value       func(i int) interface{}
	trend       func(i int) string
	sectorObs   func(i int) string
	indObs      func(i int) string
}

func always(s string) func(int) string { return func(int) string { return s } }

func onFirstDay(s string) func(int) string {
	return func(i int) string {
		if i == 0 {
			return s
		}
		return ""
	}
}

var sampleIndicators = []sampleIndicator{
	{
		prefix: "m1", email: "ana@seven.com", sectorID: "marketing", sectorName: "MARKETING", sectorDesc: "Indicadores de Marketing.",
		id: "vendas-totais", name: "NÚMERO DE VENDAS TOTAIS", target: 150, description: "Vendas totais do dia.",
		value: func(i int) interface{} { return 155 - i*5 },
		trend: func(i int) string {
			if i < 3 {
				return "up"
			}
			return "stable"
		},
		sectorObs: onFirstDay("Campanha de Páscoa"),
		indObs:    onFirstDay("Aumento devido à campanha de Páscoa."),
	},
	{
		prefix: "m2", email: "ana@seven.com", sectorID: "marketing", sectorName: "MARKETING", sectorDesc: "Indicadores de Marketing.",
		id: "vendas-bot", name: "NÚMERO DE VENDAS BOT", target: 50, description: "Vendas pelo bot.",
		value: func(i int) interface{} {
			if i == 0 {
				return "-"
			}
			return 45 - i*2
		},
		trend:     always("down"),
		sectorObs: onFirstDay("Bot em manutenção"),
		indObs:    onFirstDay("Bot offline."),
	},
	{
		prefix: "m3", email: "ana@seven.com", sectorID: "marketing", sectorName: "MARKETING", sectorDesc: "Indicadores de Marketing.",
		id: "conversao-bot", name: "CONVERSÃO BOT", unit: "%", target: 30, description: "Conversão do bot.",
		value: func(i int) interface{} {
			if i == 0 {
				return "-"
			}
			return 28 - i
		},
		trend: always("down"), sectorObs: always(""), indObs: always(""),
	},
	{
		prefix: "pc1", email: "bia@seven.com", sectorID: "pre-vendas-conversao", sectorName: "PRÉ-VENDAS CONVERSÃO", sectorDesc: "Indicadores de pré-vendas.",
		id: "fila-prospect", name: "NÚMERO FILA PROSPECT (INÍCIO DE DIA)", target: 50, description: "Prospects na fila.",
		value:     func(i int) interface{} { return 150 + i*3 },
		trend:     always("down"),
		sectorObs: onFirstDay("Fila alta pós-feriado."),
		indObs:    always(""),
	},
	{
		prefix: "pc2", email: "bia@seven.com", sectorID: "pre-vendas-conversao", sectorName: "PRÉ-VENDAS CONVERSÃO", sectorDesc: "Indicadores de pré-vendas.",
		id: "numero-indevidos", name: "NÚMERO DE INDEVIDOS", target: 10, description: "Contatos indevidos.",
		value: func(i int) interface{} { return 25 - i },
		trend: always("down"), sectorObs: always(""), indObs: always(""),
	},
	{
		prefix: "l1", email: "carlos@seven.com", sectorID: "logstica", sectorName: "LOGÍSTICA", sectorDesc: "Indicadores de logística.",
		id: "-de-entregas-no-prazo-30-dias", name: "% De Entregas No Prazo - 30 dias", unit: "%", target: 95, description: "Entregas no prazo.",
		value: func(i int) interface{} { return 92 - i },
		trend: always("stable"), sectorObs: always(""), indObs: always(""),
	},
	{
		prefix: "l2", email: "carlos@seven.com", sectorID: "logstica", sectorName: "LOGÍSTICA", sectorDesc: "Indicadores de logística.",
		id: "custo-logstico-r", name: "Custo Logístico (R$)", unit: "BRL", target: 12.00, description: "Custo por entrega.",
		value:     func(i int) interface{} { return 12.50 + float64(i)*0.1 },
		trend:     always("up"),
		sectorObs: always(""),
		indObs:    always("Leve aumento no custo."),
	},
	{
		prefix: "l3", email: "carlos@seven.com", sectorID: "logstica", sectorName: "LOGÍSTICA", sectorDesc: "Indicadores de logística.",
		id: "custo-de-retrabalho-r", name: "Custo De Retrabalho (R$)", unit: "BRL", target: 4.00, description: "Custo de retrabalho.",
		value: func(i int) interface{} {
			if i%3 == 0 {
				return "-"
			}
			return 3.50 + float64(i)*0.05
		},
		trend: always("up"), sectorObs: always(""), indObs: always(""),
	},
	{
		prefix: "v1", email: "davi@seven.com", sectorID: "vendas", sectorName: "VENDAS", sectorDesc: "Indicadores de Vendas.",
		id: "vendas-tratamento", name: "Vendas Tratamento", target: 950, description: "Número de vendas de tratamento.",
		value: func(i int) interface{} { return 15 - i },
		trend: always("stable"), sectorObs: always(""), indObs: always(""),
	},
	{
		prefix: "v2", email: "davi@seven.com", sectorID: "vendas", sectorName: "VENDAS", sectorDesc: "Indicadores de Vendas.",
		id: "venda-tg", name: "Vendas TG", target: 50, description: "Número de vendas de TG.",
		value: func(i int) interface{} { return 8 + i },
		trend: always("up"), sectorObs: always(""), indObs: always(""),
	},
}

// SampleTable returns the bundled example sheet, with one row per indicator
// for each of the sampleDays days ending at today.
func SampleTable(today models.Date) models.Table {
	rows := make([][]interface{}, 0, len(sampleIndicators)*sampleDays)
	for _, ind := range sampleIndicators {
		for i := 0; i < sampleDays; i++ {
			rows = append(rows, []interface{}{
				fmt.Sprintf("uuid-%s-%d", ind.prefix, i),
				today.AddDays(-i).String(),
				ind.email,
				ind.sectorID,
				ind.sectorName,
				ind.id,
				ind.name,
				ind.value(i),
				ind.sectorObs(i),
				"",
				ind.sectorDesc,
				ind.unit,
				ind.trend(i),
				ind.target,
				ind.description,
				ind.indObs(i),
				"",
			})
		}
	}
	return models.Table{Headers: append([]string(nil), RecordHeaders...), Rows: rows}
}

// Sample is the bundled example dataset, built on first use and kept for the
// life of the process.
type Sample struct {
	once  sync.Once
	now   func() time.Time
	loc   *time.Location
	data  *models.DashboardData
	stats ParseStats
}

// NewSample returns a lazily built sample anchored at the day now() returns
// on first use.
func NewSample(now func() time.Time, loc *time.Location) *Sample {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Sample{now: now, loc: loc}
}

var defaultSample = NewSample(time.Now, time.Local)

// DefaultSample returns the process-wide sample dataset.
func DefaultSample() *Sample { return defaultSample }

func (s *Sample) build() {
	s.once.Do(func() {
		now := s.now()
		s.data, s.stats = Build(SampleTable(models.Today(now, s.loc)), DefaultTitle, now)
	})
}

// Dashboard returns a private copy of the sample dashboard.
func (s *Sample) Dashboard() *models.DashboardData {
	s.build()
	return s.data.Clone()
}

// Stats returns the parse statistics of the sample table.
func (s *Sample) Stats() ParseStats {
	s.build()
	return s.stats
}
