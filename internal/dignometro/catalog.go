package dignometro

// QuestionID identifies one diagnostic question. The same identifier keys
// answers, dimension scores and the goal table.
type QuestionID string

const (
	QuestionMoradia            QuestionID = "moradia"
	QuestionAgua               QuestionID = "agua"
	QuestionSaneamento         QuestionID = "saneamento"
	QuestionEducacao           QuestionID = "educacao"
	QuestionSaude              QuestionID = "saude"
	QuestionAlimentacao        QuestionID = "alimentacao"
	QuestionRendaDiversificada QuestionID = "renda_diversificada"
	QuestionRendaEstavel       QuestionID = "renda_estavel"
	QuestionPoupanca           QuestionID = "poupanca"
	QuestionBensConectividade  QuestionID = "bens_conectividade"
)

// Question is an immutable catalog entry.
type Question struct {
	ID        QuestionID `json:"id"`
	Dimension string     `json:"dimension"`
	Prompt    string     `json:"prompt"`
}

var catalog = [...]Question{
	{ID: QuestionMoradia, Dimension: "Moradia", Prompt: "A família vive em moradia própria ou segura, com estrutura adequada?"},
	{ID: QuestionAgua, Dimension: "Água", Prompt: "A família tem acesso regular a água potável?"},
	{ID: QuestionSaneamento, Dimension: "Saneamento", Prompt: "A residência possui banheiro e esgotamento sanitário adequados?"},
	{ID: QuestionEducacao, Dimension: "Educação", Prompt: "Todas as crianças e adolescentes da família frequentam a escola?"},
	{ID: QuestionSaude, Dimension: "Saúde", Prompt: "A família consegue acessar atendimento de saúde quando precisa?"},
	{ID: QuestionAlimentacao, Dimension: "Alimentação", Prompt: "A família faz ao menos três refeições por dia com regularidade?"},
	{ID: QuestionRendaDiversificada, Dimension: "Renda Diversificada", Prompt: "A família possui mais de uma fonte de renda?"},
	{ID: QuestionRendaEstavel, Dimension: "Renda Estável", Prompt: "A renda da família é estável ao longo dos meses?"},
	{ID: QuestionPoupanca, Dimension: "Poupança", Prompt: "A família consegue guardar dinheiro para emergências?"},
	{ID: QuestionBensConectividade, Dimension: "Bens e Conectividade", Prompt: "A família possui bens básicos e acesso à internet?"},
}

var catalogIndex = func() map[QuestionID]int {
	idx := make(map[QuestionID]int, len(catalog))
	for i, q := range catalog {
		idx[q.ID] = i
	}
	return idx
}()

// Questions returns the catalog in display order. Callers own the returned slice.
func Questions() []Question {
	out := make([]Question, len(catalog))
	copy(out, catalog[:])
	return out
}

// LookupQuestion returns the catalog entry for id.
func LookupQuestion(id QuestionID) (Question, bool) {
	i, ok := catalogIndex[id]
	if !ok {
		return Question{}, false
	}
	return catalog[i], true
}

// Known reports whether id is part of the catalog.
func (id QuestionID) Known() bool {
	_, ok := catalogIndex[id]
	return ok
}

// Dimension returns the human readable dimension name, or "" for unknown ids.
func (id QuestionID) Dimension() string {
	q, _ := LookupQuestion(id)
	return q.Dimension
}
