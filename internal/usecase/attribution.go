package usecase

// Attribution é o resultado dos quatro modelos sobre um caminho ordenado
// de touchpoints. Mapas são canal -> percentual de crédito.
type Attribution struct {
	FirstTouch       *string
	LastTouch        *string
	TouchpointsCount int

	LastClick  map[string]float64
	FirstClick map[string]float64
	Linear     map[string]float64
	TimeDecay  map[string]float64
}

// MaxTouchpointPath limita o tamanho do caminho aceito numa conversão.
// Caminhos maiores são rejeitados antes de qualquer escrita.
const MaxTouchpointPath = 1024

// ComputeAttribution distribui 100% de crédito sob os quatro modelos.
// Caminho vazio: nenhum modelo é computado, só o count zerado.
func ComputeAttribution(path []string) Attribution {
	attr := Attribution{TouchpointsCount: len(path)}
	if len(path) == 0 {
		return attr
	}

	first := path[0]
	last := path[len(path)-1]
	attr.FirstTouch = &first
	attr.LastTouch = &last

	attr.LastClick = map[string]float64{last: 100}
	attr.FirstClick = map[string]float64{first: 100}

	// Linear: cada posição vale 100/N; canais repetidos acumulam.
	attr.Linear = make(map[string]float64, len(path))
	share := 100.0 / float64(len(path))
	for _, channel := range path {
		attr.Linear[channel] += share
	}

	// Time decay: peso bruto w_i = (i+1)/N, normalizado por S = Σ w_i.
	// S é somado sobre TODAS as posições, não sobre canais únicos.
	n := float64(len(path))
	var sum float64
	for i := range path {
		sum += float64(i+1) / n
	}
	attr.TimeDecay = make(map[string]float64, len(path))
	for i, channel := range path {
		weight := float64(i+1) / n
		attr.TimeDecay[channel] += weight * 100 / sum
	}

	return attr
}
