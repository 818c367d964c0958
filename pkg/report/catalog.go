package report

// ObservationTopic is the free-form closing topic of the catalog.
const ObservationTopic = "Observação"

var topicCatalog = []string{
	"Inconsistências em Ficha do imóvel",
	"Inconsistências em Sobreposição com outros IRs",
	"Outras Sobreposições",
	"Inconsistências em Áreas embargadas",
	"Inconsistências em Assentamentos",
	"Inconsistências em UC",
	"Inconsistências em Cobertura do solo",
	"Inconsistências em Infraestrutura e utilidade pública",
	"Inconsistências em Reservatório para abastecimento ou geração de energia",
	"Inconsistências em APP hidrografia",
	"Inconsistências em APP Relevo",
	"Inconsistências em Uso restrito",
	"Inconsistências em outras APPs",
	"Inconsistências em RL averbada, RL aprovada e não averbada",
	"Inconsistências em Área de RL exigida por lei",
	"Inconsistências em Localização e cobertura do solo",
	"Inconsistências em Regularidade do IR",
	ObservationTopic,
}

var topicIndex = func() map[string]int {
	index := make(map[string]int, len(topicCatalog))
	for i, topic := range topicCatalog {
		index[topic] = i
	}
	return index
}()

// Topics returns the closed topic catalog in catalog order. The slice is a
// copy; callers may reorder it freely.
func Topics() []string {
	out := make([]string, len(topicCatalog))
	copy(out, topicCatalog)
	return out
}

// IsTopic reports whether topic belongs to the catalog.
func IsTopic(topic string) bool {
	_, ok := topicIndex[topic]
	return ok
}

// TopicPosition returns the catalog index of topic, or -1.
func TopicPosition(topic string) int {
	if idx, ok := topicIndex[topic]; ok {
		return idx
	}
	return -1
}
